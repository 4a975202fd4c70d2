package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"insightedge/backend/models"
)

// PgStore keeps history and mappings in Postgres.
type PgStore struct {
	pool *pgxpool.Pool
}

func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

func (s *PgStore) SaveAsk(ctx context.Context, rec models.AskRecord) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO ask_history (id, query, source, kpi_count, insight_count, chart_count, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.ID, rec.Query, rec.Source, rec.KPICount, rec.InsightCount, rec.ChartCount, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("save ask: %w", err)
	}
	return nil
}

func (s *PgStore) ListAsks(ctx context.Context, limit int) ([]models.AskRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, query, source, kpi_count, insight_count, chart_count, created_at
		 FROM ask_history ORDER BY created_at DESC LIMIT $1`, ClampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list asks: %w", err)
	}
	defer rows.Close()

	out := []models.AskRecord{}
	for rows.Next() {
		var r models.AskRecord
		if err := rows.Scan(&r.ID, &r.Query, &r.Source, &r.KPICount, &r.InsightCount, &r.ChartCount, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan ask: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list asks: %w", err)
	}
	return out, nil
}

func (s *PgStore) GetMapping(ctx context.Context, signature string) (*models.MetricMapping, error) {
	var payload string
	err := s.pool.QueryRow(ctx, `SELECT mapping::text FROM column_mappings WHERE signature=$1`, signature).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get mapping: %w", err)
	}
	var m models.MetricMapping
	if err := json.Unmarshal([]byte(payload), &m); err != nil {
		return nil, fmt.Errorf("decode mapping: %w", err)
	}
	return &m, nil
}

func (s *PgStore) PutMapping(ctx context.Context, signature string, m models.MetricMapping) error {
	b, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode mapping: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO column_mappings (signature, mapping) VALUES ($1, $2::jsonb)
		 ON CONFLICT (signature) DO UPDATE SET mapping = EXCLUDED.mapping, updated_at = now()`,
		signature, string(b))
	if err != nil {
		return fmt.Errorf("put mapping: %w", err)
	}
	return nil
}

func (s *PgStore) Close() {
	s.pool.Close()
}
