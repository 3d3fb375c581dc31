package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/starford/kanekilink/internal/storage"
)

// FileStore keeps settings in a JSON file, the way the editor keeps
// per-extension data.json files.
type FileStore struct {
	fs   *storage.FS
	name string
}

// NewFileStore returns a store writing to path. The parent directory is
// created if missing.
func NewFileStore(path string) (*FileStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("settings: mkdir: %w", err)
	}
	fs, err := storage.NewFS(dir)
	if err != nil {
		return nil, err
	}
	return &FileStore{fs: fs, name: filepath.Base(path)}, nil
}

// Load implements Store.
func (s *FileStore) Load(_ context.Context) (Settings, error) {
	data, err := s.fs.Read(s.name)
	if errors.Is(err, os.ErrNotExist) {
		return Defaults(), nil
	}
	if err != nil {
		return Settings{}, err
	}
	return merge(data)
}

// Save implements Store.
func (s *FileStore) Save(_ context.Context, st Settings) error {
	data, err := json.MarshalIndent(st, "", "\t")
	if err != nil {
		return fmt.Errorf("settings: encode: %w", err)
	}
	return s.fs.Write(s.name, append(data, '\n'))
}
