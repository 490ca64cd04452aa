package router

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	AllowedOrigins []string
	// Global per-IP limit.
	RateWindow time.Duration
	RateMax    int
	// Tighter per-IP limit on /auth routes.
	ThrottleTTL   time.Duration
	ThrottleLimit int
}

// ConfigFromEnv reads CORS and rate limiting config.
func ConfigFromEnv() Config {
	cfg := Config{
		AllowedOrigins: []string{"http://localhost:3000"},
		RateWindow:     envDuration("RATE_LIMIT_WINDOW", 15*time.Minute),
		RateMax:        envInt("RATE_LIMIT_MAX", 100),
		ThrottleTTL:    envDuration("THROTTLE_TTL", time.Minute),
		ThrottleLimit:  envInt("THROTTLE_LIMIT", 10),
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		if len(origins) > 0 {
			cfg.AllowedOrigins = origins
		}
	}
	return cfg
}

func envInt(key string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil && v > 0 {
		return v
	}
	return def
}

// envDuration accepts Go durations or bare seconds.
func envDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	return def
}
