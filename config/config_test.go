package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "ENV", "GEMINI_API_KEY", "GOOGLE_AI_API_KEY", "GOOGLE_GENERATIVE_AI_API_KEY",
		"GEMINI_MODEL", "GEMINI_ENDPOINT", "AI_TIMEOUT_SECONDS", "DATABASE_URL", "JWT_SECRET", "CORS_ORIGINS", "MAX_UPLOAD_MB"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.Port != "8080" || cfg.GeminiModel != "gemini-1.5-flash" || cfg.AITimeout != 15*time.Second {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.MaxUploadBytes != 10<<20 || !reflect.DeepEqual(cfg.CORSOrigins, []string{"*"}) {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.GeminiAPIKey != "" || cfg.IsProduction() {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_AI_API_KEY", "")
	t.Setenv("GOOGLE_GENERATIVE_AI_API_KEY", "legacy-key")
	t.Setenv("AI_TIMEOUT_SECONDS", "nope")
	t.Setenv("CORS_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("ENV", "Production")

	cfg := Load()
	if cfg.GeminiAPIKey != "legacy-key" {
		t.Fatalf("expected fallback key, got %q", cfg.GeminiAPIKey)
	}
	if cfg.AITimeout != 15*time.Second {
		t.Fatalf("invalid timeout should fall back, got %v", cfg.AITimeout)
	}
	if !reflect.DeepEqual(cfg.CORSOrigins, []string{"https://a.example", "https://b.example"}) {
		t.Fatalf("unexpected origins %v", cfg.CORSOrigins)
	}
	if !cfg.IsProduction() {
		t.Fatalf("expected production")
	}
}
