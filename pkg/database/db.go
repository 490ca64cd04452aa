package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

// Supported store drivers, selected by URI scheme.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

const defaultURI = "mongodb://localhost:27017/auth-service"

type Config struct {
	URI      string
	MaxConns int
	// Timeout bounds connection/server selection and each store operation.
	Timeout        time.Duration
	TimeZone       string
	ClientEncoding string
}

// ConfigFromEnv reads store config from environment variables.
func ConfigFromEnv() Config {
	uri := os.Getenv("DATABASE_URL")
	if uri == "" {
		uri = os.Getenv("MONGODB_URI")
	}
	if uri == "" {
		uri = defaultURI
	}
	maxConns := 5
	if v, err := strconv.Atoi(os.Getenv("DATABASE_MAX_CONNS")); err == nil && v > 0 {
		maxConns = v
	}
	timeout := 5 * time.Second
	if v, err := time.ParseDuration(os.Getenv("DATABASE_TIMEOUT")); err == nil && v > 0 {
		timeout = v
	}
	return Config{
		URI:            uri,
		MaxConns:       maxConns,
		Timeout:        timeout,
		TimeZone:       os.Getenv("DATABASE_TIMEZONE"),
		ClientEncoding: os.Getenv("DATABASE_CLIENT_ENCODING"),
	}
}

// Driver reports which backend the URI points at.
func (c Config) Driver() (string, error) {
	scheme, _, ok := strings.Cut(c.URI, "://")
	if !ok {
		return "", fmt.Errorf("database url %q has no scheme", redact(c.URI))
	}
	switch strings.ToLower(scheme) {
	case "mongodb", "mongodb+srv":
		return DriverMongo, nil
	case "postgres", "postgresql":
		return DriverPostgres, nil
	case "memory":
		return DriverMemory, nil
	default:
		return "", fmt.Errorf("unsupported database scheme %q", scheme)
	}
}

// DatabaseName returns the first path segment of the URI, or fallback.
func (c Config) DatabaseName(fallback string) string {
	u, err := url.Parse(c.URI)
	if err != nil {
		return fallback
	}
	name := strings.Trim(u.Path, "/")
	if name == "" {
		return fallback
	}
	return name
}

// Connect opens a postgres *sql.DB and verifies connectivity with a ping
func Connect(cfg Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.URI)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxConns)
	db.SetMaxIdleConns(cfg.MaxConns)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	if cfg.TimeZone != "" {
		if _, err := db.ExecContext(ctx, "SET TIME ZONE "+quoteLiteral(cfg.TimeZone)); err != nil {
			db.Close()
			return nil, fmt.Errorf("set time zone: %w", err)
		}
	}
	if cfg.ClientEncoding != "" {
		if _, err := db.ExecContext(ctx, "SET client_encoding = "+quoteLiteral(cfg.ClientEncoding)); err != nil {
			db.Close()
			return nil, fmt.Errorf("set client_encoding: %w", err)
		}
	}
	return db, nil
}

// quoteLiteral escapes single quotes and wraps the value in single quotes
// so it can be used safely in SET ... statements which don't accept
// parameter placeholders for the right-hand side.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// redact hides URI credentials for log and error output.
func redact(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || u.User == nil {
		return uri
	}
	return u.Redacted()
}
