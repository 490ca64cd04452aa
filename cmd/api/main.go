package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ovaphlow/pitchfork/service-auth-go/internal/router"
	"github.com/ovaphlow/pitchfork/service-auth-go/internal/token"
	"github.com/ovaphlow/pitchfork/service-auth-go/internal/user"
	userrepo "github.com/ovaphlow/pitchfork/service-auth-go/internal/user/repo"
	"github.com/ovaphlow/pitchfork/service-auth-go/pkg/database"
	"github.com/ovaphlow/pitchfork/service-auth-go/pkg/utilities"
)

func main() {
	// best-effort: real env wins when no .env exists
	_ = godotenv.Load()

	lg, err := utilities.Init(utilities.ConfigFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer lg.Sync()

	sugar := lg.Sugar()
	sugar.Info("starting service-auth-go")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tokenCfg, err := token.ConfigFromEnv()
	if err != nil {
		sugar.Fatalf("token config: %v", err)
	}
	tokens, err := token.NewService(tokenCfg)
	if err != nil {
		sugar.Fatalf("token service: %v", err)
	}

	store, closeStore, err := userrepo.Open(ctx, database.ConfigFromEnv(), sugar.Named("store"))
	if err != nil {
		sugar.Fatalf("open store: %v", err)
	}

	hasher := user.BcryptHasher{Cost: user.ConfigFromEnv().BcryptCost}
	svc := user.NewUserService(store, hasher, tokens, sugar.Named("user"))
	handler := router.RegisterRoutes(sugar.Named("http"), user.NewHandler(svc, sugar.Named("user")), router.ConfigFromEnv())

	srv := &http.Server{
		Addr:              net.JoinHostPort(envOr("HOST", "0.0.0.0"), envOr("PORT", "3000")),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		sugar.Infow("http server listening", "addr", srv.Addr, "token_ttl", tokens.TTL().String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Errorf("http server failed: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	sugar.Info("shutting down")

	doneCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(doneCtx); err != nil {
		sugar.Warnf("http server shutdown failed: %v", err)
	}
	if err := closeStore(doneCtx); err != nil {
		sugar.Warnf("store close failed: %v", err)
	}

	sugar.Info("goodbye")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
