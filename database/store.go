package database

import (
	"context"
	"errors"
	"sort"
	"sync"

	"insightedge/backend/models"
)

var ErrNotFound = errors.New("not found")

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 200
)

// Store keeps the ask history and cached column mappings.
type Store interface {
	SaveAsk(ctx context.Context, rec models.AskRecord) error
	ListAsks(ctx context.Context, limit int) ([]models.AskRecord, error)
	GetMapping(ctx context.Context, signature string) (*models.MetricMapping, error)
	PutMapping(ctx context.Context, signature string, m models.MetricMapping) error
	Close()
}

// ClampLimit maps a requested page size into [1, MaxHistoryLimit].
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		return MaxHistoryLimit
	}
	return limit
}

// MemoryStore is the Store used when no database is configured.
type MemoryStore struct {
	mu       sync.RWMutex
	asks     []models.AskRecord
	mappings map[string]models.MetricMapping
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{mappings: make(map[string]models.MetricMapping)}
}

func (s *MemoryStore) SaveAsk(_ context.Context, rec models.AskRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.asks = append(s.asks, rec)
	if len(s.asks) > MaxHistoryLimit {
		s.asks = s.asks[len(s.asks)-MaxHistoryLimit:]
	}
	return nil
}

func (s *MemoryStore) ListAsks(_ context.Context, limit int) ([]models.AskRecord, error) {
	limit = ClampLimit(limit)
	s.mu.RLock()
	out := make([]models.AskRecord, len(s.asks))
	copy(out, s.asks)
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) GetMapping(_ context.Context, signature string) (*models.MetricMapping, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.mappings[signature]
	if !ok {
		return nil, ErrNotFound
	}
	return &m, nil
}

func (s *MemoryStore) PutMapping(_ context.Context, signature string, m models.MetricMapping) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mappings[signature] = m
	return nil
}

func (s *MemoryStore) Close() {}
