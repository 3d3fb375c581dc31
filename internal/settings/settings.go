// Package settings persists the extension settings and exposes the settings panel.
package settings

import (
	"context"
	"encoding/json"
	"fmt"
)

// Settings is the persisted extension configuration.
type Settings struct {
	FreeformLabel string `json:"mySetting"`
	// RootPath is the absolute vault prefix prepended to the active note path.
	RootPath string `json:"rootPath"`
}

// Defaults returns the settings used before anything has been saved.
func Defaults() Settings {
	return Settings{
		FreeformLabel: "default",
		RootPath:      "",
	}
}

// Store loads and saves the settings object.
type Store interface {
	// Load returns previously saved settings merged over Defaults.
	Load(ctx context.Context) (Settings, error)
	// Save persists the full settings object.
	Save(ctx context.Context, s Settings) error
}

// merge decodes a saved JSON object over the defaults. Keys absent from
// the saved object keep their default value.
func merge(data []byte) (Settings, error) {
	s := Defaults()
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("settings: decode: %w", err)
	}
	return s, nil
}
