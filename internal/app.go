package internal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/starford/kanekilink/internal/commands"
	"github.com/starford/kanekilink/internal/kaneki"
	"github.com/starford/kanekilink/internal/notify"
	"github.com/starford/kanekilink/internal/settings"
	"github.com/starford/kanekilink/internal/storage"
	"github.com/starford/kanekilink/internal/workspace"
)

// App holds the wired components shared by every surface.
type App struct {
	Config *Config
	Logger *slog.Logger
	Vault  *workspace.Vault
	Panel  *settings.Panel
	Runner *commands.Runner

	closers []io.Closer
}

// New builds the application from opts. extra notifiers receive every
// notice in addition to the console.
func New(ctx context.Context, opts []Option, extra ...notify.Notifier) (*App, error) {
	a := &application{notices: os.Stdout}
	for _, opt := range opts {
		opt(a)
	}
	if a.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	cfg := a.config

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	store, err := storage.NewFS(cfg.Vault.Path)
	if err != nil {
		return nil, fmt.Errorf("init vault: %w", err)
	}

	app := &App{Config: cfg, Logger: logger, Vault: workspace.NewVault(store)}

	settingsStore, err := app.openSettings(store.Root())
	if err != nil {
		return nil, err
	}
	panel, err := settings.NewPanel(ctx, settingsStore)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("load settings: %w", err)
	}
	app.Panel = panel

	client := kaneki.NewClient(cfg.Kaneki.BaseURL,
		kaneki.WithTimeout(cfg.Kaneki.Timeout),
		kaneki.WithLogger(logger))

	notifier := notify.Multi{notify.NewConsole(a.notices, logger)}
	notifier = append(notifier, extra...)

	app.Runner = commands.NewRunner(panel, app.Vault, client, notifier, logger)

	logger.Debug("Configuration loaded",
		slog.String("vault_path", store.Root()),
		slog.String("kaneki_url", cfg.Kaneki.BaseURL),
		slog.String("settings_backend", cfg.Settings.Backend),
		slog.String("log_level", cfg.App.LogLevel.String()))

	return app, nil
}

// openSettings opens the configured settings backend. Relative paths are
// resolved against the vault root.
func (a *App) openSettings(vaultRoot string) (settings.Store, error) {
	path := a.Config.Settings.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(vaultRoot, path)
	}

	switch a.Config.Settings.Backend {
	case SettingsBackendSQLite:
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("settings dir: %w", err)
		}
		s, err := settings.OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, s)
		return s, nil
	default:
		return settings.NewFileStore(path)
	}
}

// Activate makes note the active document, or the most recently modified
// note when note is empty.
func (a *App) Activate(note string) error {
	if note != "" {
		return a.Vault.SetActive(note)
	}
	_, err := a.Vault.SelectLatest()
	return err
}

// RunCommand activates note and runs the command with the given id.
func (a *App) RunCommand(ctx context.Context, id, note string) error {
	cmd, ok := a.Runner.Lookup(id)
	if !ok {
		return fmt.Errorf("unknown command %q", id)
	}
	if err := a.Activate(note); err != nil {
		if note != "" {
			return err
		}
		// An empty vault leaves no active note; the command reports it.
		a.Logger.Debug("no note activated", slog.String("error", err.Error()))
	}
	return cmd.Run(ctx)
}

// Close releases resources held by the application.
func (a *App) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
