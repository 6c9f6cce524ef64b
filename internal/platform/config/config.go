package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr           string
	Environment    string
	RegulatedMode  bool
	AuthRequired   bool
	JWTSigningKey  string
	TokenTTL       time.Duration
	LogLevel       string
	DatabaseURL    string
	TrustedProxies string
	RequestTimeout time.Duration

	// DocumentRetention bounds how long decoded records can be read back.
	DocumentRetention time.Duration
	// PurgeInterval is how often records past retention are deleted.
	PurgeInterval time.Duration
	// ReferenceDate pins two-digit year resolution. Zero means request time.
	ReferenceDate    time.Time
	BatchConcurrency int
}

// DocumentRetention enforces retention for decoded document data.
var DocumentRetention = 15 * time.Minute
var PurgeInterval = 5 * time.Minute
var TokenTTL = 1 * time.Hour
var RequestTimeout = 10 * time.Second

// DevSigningKey is used when JWT_SIGNING_KEY is unset. Production refuses it.
const DevSigningKey = "dev-secret-key-change-in-production"

// ReferenceDateLayout is the accepted MRZ_REFERENCE_DATE layout.
const ReferenceDateLayout = "2006-01-02"

// DefaultBatchConcurrency bounds parallel decoding inside one batch request.
const DefaultBatchConcurrency = 4

// FromEnv builds a Server config from environment variables so main stays lean.
// Unset values fall back to development defaults; malformed values are errors.
func FromEnv() (Server, error) {
	cfg := Server{
		Addr:              getenv("MRZ_GATEWAY_ADDR", ":8080"),
		Environment:       getenv("ENVIRONMENT", "local"),
		RegulatedMode:     os.Getenv("REGULATED_MODE") == "true",
		AuthRequired:      os.Getenv("AUTH_REQUIRED") == "true",
		LogLevel:          getenv("LOG_LEVEL", "info"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		TrustedProxies:    os.Getenv("TRUSTED_PROXIES"),
		DocumentRetention: DocumentRetention,
		PurgeInterval:     PurgeInterval,
		TokenTTL:          TokenTTL,
		RequestTimeout:    RequestTimeout,
		BatchConcurrency:  DefaultBatchConcurrency,
	}

	cfg.JWTSigningKey = getenv("JWT_SIGNING_KEY", DevSigningKey)

	var err error
	if cfg.DocumentRetention, err = durationEnv("DOCUMENT_RETENTION", cfg.DocumentRetention); err != nil {
		return Server{}, err
	}
	if cfg.PurgeInterval, err = durationEnv("PURGE_INTERVAL", cfg.PurgeInterval); err != nil {
		return Server{}, err
	}
	if cfg.TokenTTL, err = durationEnv("TOKEN_TTL", cfg.TokenTTL); err != nil {
		return Server{}, err
	}
	if cfg.RequestTimeout, err = durationEnv("REQUEST_TIMEOUT", cfg.RequestTimeout); err != nil {
		return Server{}, err
	}

	if v := os.Getenv("MRZ_REFERENCE_DATE"); v != "" {
		ref, err := time.Parse(ReferenceDateLayout, v)
		if err != nil {
			return Server{}, fmt.Errorf("MRZ_REFERENCE_DATE: %w", err)
		}
		cfg.ReferenceDate = ref
	}

	if v := os.Getenv("BATCH_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return Server{}, fmt.Errorf("BATCH_CONCURRENCY: must be a positive integer, got %q", v)
		}
		cfg.BatchConcurrency = n
	}

	return cfg, nil
}

// IsProduction reports whether dev-only conveniences must be refused.
func (s Server) IsProduction() bool {
	return s.Environment == "production"
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s: must be positive, got %s", key, v)
	}
	return d, nil
}
