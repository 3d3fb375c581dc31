// Package workspace exposes the currently edited note and its frontmatter.
package workspace

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/starford/kanekilink/internal/apperr"
	"github.com/starford/kanekilink/internal/parser"
	"github.com/starford/kanekilink/internal/storage"
)

// Workspace is the active-document accessor.
type Workspace interface {
	// ActiveFile returns the vault-relative path of the current note.
	ActiveFile() (string, error)
	// Frontmatter returns the parsed frontmatter of path, or nil if it has none.
	Frontmatter(path string) (parser.Frontmatter, error)
}

// Vault is a Workspace over a directory of Markdown notes.
type Vault struct {
	store storage.Provider

	mu     sync.RWMutex
	active string
}

// NewVault returns a workspace backed by store with no active note.
func NewVault(store storage.Provider) *Vault {
	return &Vault{store: store}
}

// SetActive marks path as the note being edited. The file must exist.
func (v *Vault) SetActive(path string) error {
	path = strings.TrimPrefix(path, "./")
	if _, err := v.store.Read(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("workspace: %s: %w", path, apperr.ErrNotFound)
		}
		return err
	}
	v.setActive(path)
	return nil
}

func (v *Vault) setActive(path string) {
	v.mu.Lock()
	v.active = path
	v.mu.Unlock()
}

// clearActive drops the active note if it is path.
func (v *Vault) clearActive(path string) {
	v.mu.Lock()
	if v.active == path {
		v.active = ""
	}
	v.mu.Unlock()
}

// ActiveFile implements Workspace.
func (v *Vault) ActiveFile() (string, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.active == "" {
		return "", apperr.ErrNoActiveFile
	}
	return v.active, nil
}

// Frontmatter implements Workspace.
func (v *Vault) Frontmatter(path string) (parser.Frontmatter, error) {
	data, err := v.store.Read(path)
	if err != nil {
		return nil, err
	}
	res, err := parser.Parse(data)
	if err != nil {
		return nil, err
	}
	return res.Frontmatter, nil
}

// SelectLatest makes the most recently modified note active.
// It returns apperr.ErrNoActiveFile for an empty vault.
func (v *Vault) SelectLatest() (string, error) {
	metas, err := v.store.List("")
	if err != nil {
		return "", err
	}
	if len(metas) == 0 {
		return "", apperr.ErrNoActiveFile
	}
	latest := metas[0]
	for _, m := range metas[1:] {
		if m.UpdatedAt.After(latest.UpdatedAt) {
			latest = m
		}
	}
	v.setActive(latest.Path)
	return latest.Path, nil
}
