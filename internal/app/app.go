package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/wordsync-backend/internal/config"
	"github.com/heartmarshall/wordsync-backend/internal/transport/middleware"
	"github.com/heartmarshall/wordsync-backend/internal/transport/rest"
)

// Run is the application entry point. It loads configuration from
// CONFIG_PATH and serves until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	return Serve(ctx, cfg)
}

// Serve wires the components, starts the sync loop (unless manual start is
// configured) and runs the HTTP control surface until ctx is cancelled.
// Shutdown drains HTTP first, then stops the coordinator, then closes the
// remote pool and the local store.
func Serve(ctx context.Context, cfg *config.Config) error {
	logger, logCloser := NewLogger(cfg.Log)
	defer logCloser.Close() //nolint:errcheck

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.String("store", cfg.Store.Path),
	)

	c, err := Build(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("build components: %w", err)
	}

	if cfg.Remote.MigrateOnStart {
		if err := c.MigrateRemote(ctx); err != nil {
			logger.Warn("remote migration skipped", slog.String("error", err.Error()))
		}
	}

	logger.Info("local store ready",
		slog.String("origin_id", c.OriginID),
		slog.Int("pending", c.Coordinator.Status().PendingCount),
	)

	if !cfg.Sync.ManualStart {
		c.Coordinator.Start()
	}

	return serveHTTP(ctx, c)
}

func serveHTTP(ctx context.Context, c *Components) error {
	cfg := c.Config

	// Hijacked websocket connections are not tracked by Shutdown; cancelling
	// the base context ends their streams.
	baseCtx, cancelBase := context.WithCancel(context.WithoutCancel(ctx))
	defer cancelBase()

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      newHandler(c),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		BaseContext:  func(net.Listener) context.Context { return baseCtx },
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		c.Log.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		c.Log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
		defer cancel()

		var errs []error
		if err := srv.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		}
		cancelBase()

		if err := c.Close(shutdownCtx); err != nil {
			errs = append(errs, err)
		}

		c.Log.Info("shutdown complete")
		return errors.Join(errs...)
	})

	return g.Wait()
}

func newHandler(c *Components) http.Handler {
	log := c.Log
	return rest.NewRouter(
		rest.NewHealthHandler(rest.PingFunc(c.Store.PingContext), c.Ledger, Version),
		rest.NewSyncHandler(c.Coordinator, log),
		rest.NewWordHandler(c.Vocabulary, c.Coordinator, log),
		middleware.Chain(
			middleware.Recovery(log),
			middleware.RequestID(),
			middleware.Identity(),
			middleware.Logger(log),
		),
	)
}
