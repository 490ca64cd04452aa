package user

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-auth-go/internal/user/entity"
)

type authFunc func(ctx context.Context, raw string) (*entity.Identity, error)

func (f authFunc) Authenticate(ctx context.Context, raw string) (*entity.Identity, error) {
	return f(ctx, raw)
}

func TestBearerToken(t *testing.T) {
	cases := map[string]struct {
		tok string
		ok  bool
	}{
		"Bearer abc":   {"abc", true},
		"bearer abc":   {"abc", true},
		"BEARER  abc ": {"abc", true},
		"":             {"", false},
		"Bearer":       {"", false},
		"Bearer ":      {"", false},
		"Basic abc":    {"", false},
		"Bearer a b":   {"", false},
		"abc":          {"", false},
	}
	for header, want := range cases {
		tok, ok := bearerToken(header)
		assert.Equal(t, want.ok, ok, header)
		assert.Equal(t, want.tok, tok, header)
	}
}

func TestRequireAuth(t *testing.T) {
	caller := &entity.Identity{ID: "u1", Email: "a@x.com", Name: "Ann"}
	auth := authFunc(func(_ context.Context, raw string) (*entity.Identity, error) {
		switch raw {
		case "good":
			return caller, nil
		case "broken-store":
			return nil, errors.New("store down")
		default:
			return nil, ErrUnauthenticated
		}
	})

	var seen *entity.Identity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	h := RequireAuth(auth, zap.NewNop().Sugar())(next)

	cases := []struct {
		header string
		status int
	}{
		{"", http.StatusUnauthorized},
		{"Token good", http.StatusUnauthorized},
		{"Bearer bad", http.StatusUnauthorized},
		{"Bearer broken-store", http.StatusInternalServerError},
		{"Bearer good", http.StatusNoContent},
	}
	for _, tc := range cases {
		seen = nil
		req := httptest.NewRequest(http.MethodGet, "/auth/users/u1", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, tc.status, rec.Code, tc.header)
		if tc.status == http.StatusNoContent {
			assert.Equal(t, caller, seen)
		} else {
			assert.Nil(t, seen, tc.header)
		}
		if tc.status == http.StatusUnauthorized {
			assert.Contains(t, rec.Body.String(), "Please authenticate")
		}
	}
}

func TestIdentityFromEmptyContext(t *testing.T) {
	_, ok := IdentityFromContext(context.Background())
	assert.False(t, ok)
}
