package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"smartmilk/internal/adapters/auth/google"
	"smartmilk/internal/adapters/auth/token"
	"smartmilk/internal/adapters/notify/kafka"
	"smartmilk/internal/config"
	"smartmilk/internal/domain/herd"
	"smartmilk/internal/platform/logger"
	"smartmilk/internal/router"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadRuntime()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := openDB(ctx, cfg, log)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	opts, closers, err := buildOptions(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		for _, c := range closers {
			_ = c()
		}
	}()
	opts.DB = db

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router.NewRouter(opts),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{
			"addr":     cfg.Server.Addr,
			"postgres": db != nil,
			"jwt":      opts.AuthVerifier != nil,
			"kafka":    opts.Publisher != nil,
			"extended": cfg.Rules.Extended,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// buildOptions arma las dependencias opcionales según config.
// Sin secret no hay verifier: el router queda en modo dev (X-Debug-User-ID).
func buildOptions(cfg *config.Config, log logger.Logger) (router.Options, []func() error, error) {
	opts := router.Options{
		Logger:      log,
		Farm:        herd.FarmInfo{Name: cfg.Farm.Name, Location: cfg.Farm.Location},
		Rules:       herd.RulesFor(cfg.Rules.Extended),
		CORSOrigins: cfg.Server.CORSOrigins,
	}
	var closers []func() error

	if cfg.Auth.JWTSecret != "" {
		iss, err := token.NewIssuer(token.Config{
			Secret: cfg.Auth.JWTSecret,
			TTL:    cfg.Auth.TokenTTL,
			Issuer: cfg.Log.App,
		})
		if err != nil {
			return opts, nil, err
		}
		opts.AuthVerifier = iss
		opts.Tokens = iss
	} else {
		log.Warn("JWT secret not set, running in dev auth mode", nil)
	}

	if cfg.Auth.GoogleClientID != "" {
		v, err := google.NewVerifier(google.Config{
			ClientID:     cfg.Auth.GoogleClientID,
			TokenInfoURL: cfg.Auth.TokenInfoURL,
		})
		if err != nil {
			return opts, nil, err
		}
		opts.Identity = v
	}

	if len(cfg.Kafka.Brokers) > 0 {
		p, err := kafka.NewPublisher(kafka.Config{Brokers: cfg.Kafka.Brokers, Topic: cfg.Kafka.Topic})
		if err != nil {
			return opts, nil, err
		}
		opts.Publisher = p
		closers = append(closers, p.Close)
	}

	return opts, closers, nil
}
