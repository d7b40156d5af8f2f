package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

type Config struct {
	HTTPAddr string

	StorageBackend   string
	StorageDir       string
	StorageNamespace string
	RedisURL         string
	DatabaseURL      string

	SessionHashKey  []byte // base64
	SessionBlockKey []byte // base64

	Location    *time.Location
	SubmitDelay time.Duration

	LogLevel             string
	CORSOrigins          []string
	CORSAllowCredentials bool
	BookingRate          float64
	BookingBurst         int
}

// FromEnv reads configuration from the environment, after loading .env when
// one exists. Session keys are optional here; see RequireSessionKeys.
func FromEnv() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		HTTPAddr:         envDefault("HTTP_ADDR", ":8080"),
		StorageBackend:   strings.ToLower(envDefault("STORAGE_BACKEND", BackendFile)),
		StorageDir:       envDefault("STORAGE_DIR", "./data"),
		StorageNamespace: strings.TrimSpace(os.Getenv("STORAGE_NAMESPACE")),
		RedisURL:         envDefault("REDIS_URL", "redis://localhost:6379/0"),
		DatabaseURL:      strings.TrimSpace(os.Getenv("DATABASE_URL")),
		LogLevel:         envDefault("LOG_LEVEL", "info"),
		CORSOrigins:      splitCSV(envDefault("CORS_ORIGINS", "*")),
	}

	switch cfg.StorageBackend {
	case BackendMemory, BackendFile, BackendRedis:
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			return cfg, fmt.Errorf("DATABASE_URL is required when STORAGE_BACKEND=postgres")
		}
	default:
		return cfg, fmt.Errorf("invalid STORAGE_BACKEND %q (want memory, file, redis or postgres)", cfg.StorageBackend)
	}

	loc, err := time.LoadLocation(envDefault("TIMEZONE", "Local"))
	if err != nil {
		return cfg, fmt.Errorf("invalid TIMEZONE: %w", err)
	}
	cfg.Location = loc

	cfg.SubmitDelay, err = time.ParseDuration(envDefault("SUBMIT_DELAY", "0s"))
	if err != nil || cfg.SubmitDelay < 0 {
		return cfg, fmt.Errorf("invalid SUBMIT_DELAY")
	}

	cfg.CORSAllowCredentials, err = strconv.ParseBool(envDefault("CORS_ALLOW_CREDENTIALS", "false"))
	if err != nil {
		return cfg, fmt.Errorf("invalid CORS_ALLOW_CREDENTIALS")
	}
	if cfg.CORSAllowCredentials && wildcardOrigins(cfg.CORSOrigins) {
		return cfg, fmt.Errorf("CORS_ALLOW_CREDENTIALS needs explicit CORS_ORIGINS, not *")
	}

	cfg.BookingRate, err = strconv.ParseFloat(envDefault("BOOKING_RATE", "5"), 64)
	if err != nil || cfg.BookingRate <= 0 {
		return cfg, fmt.Errorf("invalid BOOKING_RATE")
	}
	cfg.BookingBurst, err = strconv.Atoi(envDefault("BOOKING_BURST", "10"))
	if err != nil || cfg.BookingBurst < 1 {
		return cfg, fmt.Errorf("invalid BOOKING_BURST")
	}

	if cfg.SessionHashKey, err = optionalB64("SESSION_HASH_KEY"); err != nil {
		return cfg, err
	}
	if cfg.SessionBlockKey, err = optionalB64("SESSION_BLOCK_KEY"); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// RequireSessionKeys checks the cookie keys the HTTP server needs.
func (c Config) RequireSessionKeys() error {
	if len(c.SessionHashKey) == 0 || len(c.SessionBlockKey) == 0 {
		return fmt.Errorf("SESSION_HASH_KEY and SESSION_BLOCK_KEY are required (base64, see `tablebook keys`)")
	}
	switch len(c.SessionBlockKey) {
	case 16, 24, 32:
	default:
		return fmt.Errorf("SESSION_BLOCK_KEY must decode to 16, 24 or 32 bytes (got %d)", len(c.SessionBlockKey))
	}
	return nil
}

func envDefault(k, d string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return d
	}
	return v
}

func optionalB64(k string) ([]byte, error) {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return nil, nil
	}
	if b, err := base64.StdEncoding.DecodeString(v); err == nil {
		return b, nil
	}
	b, err := base64.RawStdEncoding.DecodeString(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", k, err)
	}
	return b, nil
}

func wildcardOrigins(origins []string) bool {
	if len(origins) == 0 {
		return true
	}
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
