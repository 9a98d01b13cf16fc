package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pet-store-console/internal/adapters/auth/jwtauth"
	"pet-store-console/internal/config"
	"pet-store-console/internal/platform/httpclient"
	"pet-store-console/internal/platform/logger"
	"pet-store-console/internal/router"
	"pet-store-console/internal/upstream"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// @title        Pet Store Console API
// @version      1.0
// @BasePath     /api
// @securityDefinitions.apikey BearerAuth
// @in           header
// @name         Authorization
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "load config")
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    cfg.App.Name,
	})

	hc, err := httpclient.NewWithBaseURL(cfg.Upstream.BaseURL, cfg.Upstream.Timeout)
	if err != nil {
		return errors.Wrap(err, "upstream client")
	}
	hc.WithBearer(cfg.Upstream.Token)
	hc.Log = log

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeCache, err := router.OpenCache(ctx, cfg.Cache, cfg.App.Name)
	if err != nil {
		return errors.Wrap(err, "open cache")
	}
	defer func() {
		if err := closeCache(); err != nil {
			log.Warn("cache close failed", map[string]any{"error": err})
		}
	}()

	secret := cfg.Auth.JWTSecret
	if secret == "" {
		// solo llega vacío en dev (Validate lo exige fuera de dev)
		secret = uuid.NewString()
		log.Warn("auth.jwtSecret not set; using an ephemeral secret", nil)
	}
	tokens := jwtauth.New(jwtauth.Config{Secret: secret, TTL: cfg.Auth.TokenTTL, Issuer: cfg.App.Name})

	admin := jwtauth.Admin{Email: cfg.Auth.AdminEmail, PasswordHash: cfg.Auth.AdminPasswordHash}
	if !admin.Configured() {
		log.Warn("console admin not configured; login disabled", nil)
	}

	h := router.NewRouter(router.Options{
		API:             upstream.New(hc),
		Log:             log,
		Cache:           store,
		CacheTTL:        cfg.Cache.TTL,
		MinOverlay:      cfg.Console.MinOverlay,
		NotificationTTL: cfg.Console.NotificationTTL,
		Verifier:        tokens,
		Issuer:          tokens,
		TokenTTL:        tokens.TTL(),
		Admin:           admin,
		DevMode:         cfg.IsDev(),
		AllowedOrigins:  cfg.HTTP.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      h,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{
			"addr":     srv.Addr,
			"upstream": cfg.Upstream.BaseURL,
			"cache":    cfg.Cache.Driver,
			"dev":      cfg.IsDev(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "server error")
	case <-ctx.Done():
	}

	log.Info("shutting down server", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	log.Info("server exited", nil)
	return nil
}
