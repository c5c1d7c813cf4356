// Command server serves predictions and match analytics over HTTP. A missing
// model or database leaves the server running in degraded mode.
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

	"go.uber.org/zap"

	"github.com/dotameta/metalab/internal/config"
	"github.com/dotameta/metalab/internal/handlers"
	"github.com/dotameta/metalab/internal/logging"
	"github.com/dotameta/metalab/internal/logic"
	"github.com/dotameta/metalab/internal/nn"
	"github.com/dotameta/metalab/internal/storage"
)

const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logging:", err)
		os.Exit(1)
	}

	if err := run(ctx, cfg, logger); err != nil {
		logger.Sugar().Errorw("Server failed", "error", err)
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	log := logger.Sugar()

	hcfg := handlers.Config{Logger: logger}

	bundle, err := nn.LoadBundle(cfg.ModelDir)
	if err != nil {
		log.Warnw("Model not loaded, predictions disabled", "dir", cfg.ModelDir, "error", err)
	} else {
		log.Infow("Model loaded", "runID", bundle.RunID, "architecture", bundle.Network.Arch.String())
	}
	hcfg.Prediction = logic.NewPredictionService(bundle)

	if cfg.PostgresURL != "" {
		pg, err := storage.ConnectPostgres(ctx, cfg.PostgresURL)
		if err != nil {
			log.Warnw("Postgres unavailable, stats routes disabled", "error", err)
		} else {
			defer pg.Close()
			hcfg.Postgres = pg
			hcfg.Matches = logic.NewMatchStore(pg)
		}
	}

	if cfg.RedisURL != "" {
		rdb, err := storage.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			log.Warnw("Redis unavailable, serving stats uncached", "error", err)
		} else {
			defer rdb.Close()
			hcfg.Redis = rdb
			if hcfg.Matches != nil {
				hcfg.Matches = logic.NewCachedMatchStore(hcfg.Matches, rdb, cfg.CacheTTL, logger)
			}
		}
	}

	if cfg.ClickHouseURL != "" {
		ch, err := storage.ConnectClickHouse(ctx, cfg.ClickHouseURL)
		if err != nil {
			log.Warnw("ClickHouse unavailable, hero analytics disabled", "error", err)
		} else {
			defer ch.Close()
			hcfg.ClickHouse = ch
			hcfg.HeroMeta = logic.NewHeroMetaService(ch)
		}
	}

	h := handlers.New(hcfg)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           h.Router(cfg.AllowedOrigins),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infow("Server listening", "addr", srv.Addr, "env", cfg.Env)
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

	log.Infow("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
