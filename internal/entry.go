// Package internal wires configuration, vault, settings and the Kaneki
// client into the command line, HTTP and MCP surfaces.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/kanekilink/internal/api"
	"github.com/starford/kanekilink/internal/mcpserver"
	"github.com/starford/kanekilink/internal/notify"
	"github.com/starford/kanekilink/internal/sse"
	"github.com/starford/kanekilink/internal/workspace"
)

// Run starts the local control server: an HTTP surface for editor
// integrations plus a vault tracker that follows the note being edited.
func Run(ctx context.Context, opts ...Option) error {
	broker := sse.NewBroker()
	defer broker.Close()

	app, err := New(ctx, opts, notify.NewBroadcast(broker))
	if err != nil {
		return err
	}
	defer app.Close()

	cfg := app.Config
	logger := app.Logger

	if p, err := app.Vault.SelectLatest(); err == nil {
		logger.Info("Initial active note", slog.String("path", p))
	}

	apiRouter := api.NewRouter(app.Runner, app.Vault, app.Panel, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := workspace.Track(gCtx, app.Vault, logger, func(path string) {
			broker.Publish(sse.Event{Type: "active", Data: map[string]string{"path": path}})
		}); err != nil {
			return fmt.Errorf("tracker: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown cancels the group so the tracker stops with the server.
var errShutdown = errors.New("shutdown")

// RunCommand executes one editor command against note and exits.
func RunCommand(ctx context.Context, id, note string, opts ...Option) error {
	app, err := New(ctx, opts)
	if err != nil {
		return err
	}
	defer app.Close()
	return app.RunCommand(ctx, id, note)
}

// ServeMCP exposes the commands as MCP tools over stdio. Notices go to
// stderr so they do not corrupt the protocol stream.
func ServeMCP(ctx context.Context, opts ...Option) error {
	opts = append(opts, WithNoticeWriter(os.Stderr))
	app, err := New(ctx, opts)
	if err != nil {
		return err
	}
	defer app.Close()

	if _, err := app.Vault.SelectLatest(); err != nil {
		app.Logger.Debug("no initial note", slog.String("error", err.Error()))
	}
	return mcpserver.New(app.Runner, app.Vault, app.Panel).ServeStdio()
}
