package token

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalid = errors.New("token invalid")
	ErrExpired = errors.New("token expired")
)

const (
	defaultTTL    = 24 * time.Hour
	defaultIssuer = "service-auth-go"
)

type Config struct {
	Secret string
	TTL    time.Duration
	Issuer string
}

// ConfigFromEnv reads JWT_SECRET, JWT_EXPIRES_IN and JWT_ISSUER.
func ConfigFromEnv() (Config, error) {
	cfg := Config{Secret: os.Getenv("JWT_SECRET"), TTL: defaultTTL, Issuer: os.Getenv("JWT_ISSUER")}
	if cfg.Issuer == "" {
		cfg.Issuer = defaultIssuer
	}
	if v := os.Getenv("JWT_EXPIRES_IN"); v != "" {
		ttl, err := ParseTTL(v)
		if err != nil {
			return Config{}, fmt.Errorf("JWT_EXPIRES_IN: %w", err)
		}
		cfg.TTL = ttl
	}
	return cfg, nil
}

// ParseTTL accepts Go durations ("12h"), whole days ("7d") or bare seconds ("3600").
func ParseTTL(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("invalid day count %q", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n <= 0 {
			return 0, fmt.Errorf("ttl must be positive, got %q", s)
		}
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("ttl must be positive, got %q", s)
	}
	return d, nil
}

// Claims carried by an access token. Subject is the user id.
type Claims struct {
	jwt.RegisteredClaims
}

// Service issues and verifies HS256 bearer tokens. The secret is fixed at construction.
type Service struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

func NewService(cfg Config) (*Service, error) {
	if cfg.Secret == "" {
		return nil, errors.New("token: signing secret is empty")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = defaultTTL
	}
	return &Service{secret: []byte(cfg.Secret), ttl: cfg.TTL, issuer: cfg.Issuer, now: time.Now}, nil
}

// TTL reports how long issued tokens stay valid.
func (s *Service) TTL() time.Duration { return s.ttl }

// Issue signs a token for subjectID and returns it with its expiry.
func (s *Service) Issue(subjectID string) (string, time.Time, error) {
	if subjectID == "" {
		return "", time.Time{}, errors.New("token: empty subject")
	}
	now := s.now()
	exp := now.Add(s.ttl)
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    s.issuer,
		Subject:   subjectID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Verify checks signature and expiry and returns the subject id.
// Expired tokens yield ErrExpired, every other rejection ErrInvalid.
func (s *Service) Verify(raw string) (string, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpired
		}
		return "", fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalid)
	}
	if s.issuer != "" && claims.Issuer != s.issuer {
		return "", fmt.Errorf("%w: unexpected issuer %q", ErrInvalid, claims.Issuer)
	}
	return claims.Subject, nil
}
