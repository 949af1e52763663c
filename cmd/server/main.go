package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"trip-planner-service/internal/api"
	"trip-planner-service/internal/app"
	"trip-planner-service/internal/config"

	"go.uber.org/zap"
)

// main is the application composition root.
// It wires the candidate store, signal sources and engine, then serves HTTP.
func main() {
	if err := run(); err != nil {
		zap.L().Error("server exited", zap.Error(err))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := config.InitLogger(cfg.Log); err != nil {
		return err
	}
	defer func() { _ = zap.L().Sync() }()
	logger := zap.L()

	store, err := app.OpenStore(cfg.Store)
	if err != nil {
		return err
	}
	defer store.Close()

	// Schema and demo data are applied on startup for local runs.
	if err := store.Migrate(); err != nil {
		return err
	}
	if cfg.Store.SeedPath != "" {
		if err := store.Seed(cfg.Store.SeedPath); err != nil {
			return err
		}
	}

	planner, closeSignals, err := app.NewPlanner(cfg, store, logger)
	if err != nil {
		return err
	}
	defer closeSignals()

	router := api.NewRouter(api.Deps{
		Planner:         planner,
		Candidates:      planner,
		DefaultRadiusKm: cfg.Planner.DrivingRadiusKm,
		Logger:          logger,
	})

	// Timeouts are tuned for cold-cache planning (external API latency).
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
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

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
