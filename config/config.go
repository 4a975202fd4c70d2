package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	Env            string
	GeminiAPIKey   string
	GeminiModel    string
	GeminiEndpoint string
	AITimeout      time.Duration
	DatabaseURL    string // optional; history and mappings stay in memory without it
	JWTSecret      string // optional; auth is off without it
	CORSOrigins    []string
	MaxUploadBytes int64
}

func Load() Config {
	_ = godotenv.Load()
	return Config{
		Port:           get("PORT", "8080"),
		Env:            get("ENV", "development"),
		GeminiAPIKey:   first("GEMINI_API_KEY", "GOOGLE_AI_API_KEY", "GOOGLE_GENERATIVE_AI_API_KEY"),
		GeminiModel:    get("GEMINI_MODEL", "gemini-1.5-flash"),
		GeminiEndpoint: get("GEMINI_ENDPOINT", ""),
		AITimeout:      time.Duration(getInt("AI_TIMEOUT_SECONDS", 15)) * time.Second,
		DatabaseURL:    get("DATABASE_URL", ""),
		JWTSecret:      get("JWT_SECRET", ""),
		CORSOrigins:    split(get("CORS_ORIGINS", "*")),
		MaxUploadBytes: int64(getInt("MAX_UPLOAD_MB", 10)) << 20,
	}
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

func get(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func first(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func getInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("invalid %s=%q, using %d", k, v, def)
		return def
	}
	return n
}

func split(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
