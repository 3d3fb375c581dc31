package settings

import (
	"context"
	"log/slog"
	"sync"
)

// Panel is the settings tab: it holds the loaded settings for the lifetime
// of the process and persists every change immediately.
type Panel struct {
	store Store

	mu      sync.RWMutex
	current Settings
}

// NewPanel loads settings from store.
func NewPanel(ctx context.Context, store Store) (*Panel, error) {
	s, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return &Panel{store: store, current: s}, nil
}

// Current returns a copy of the settings as of now.
func (p *Panel) Current() Settings {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

// RootPath returns the configured root path.
func (p *Panel) RootPath() string {
	return p.Current().RootPath
}

// SetRootPath stores any string, including empty, and saves.
func (p *Panel) SetRootPath(ctx context.Context, value string) error {
	slog.Debug("settings: root path changed", slog.String("root_path", value))
	return p.update(ctx, func(s *Settings) { s.RootPath = value })
}

// SetLabel updates the free-form label and saves.
func (p *Panel) SetLabel(ctx context.Context, value string) error {
	return p.update(ctx, func(s *Settings) { s.FreeformLabel = value })
}

func (p *Panel) update(ctx context.Context, fn func(*Settings)) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	next := p.current
	fn(&next)
	if err := p.store.Save(ctx, next); err != nil {
		return err
	}
	p.current = next
	return nil
}
