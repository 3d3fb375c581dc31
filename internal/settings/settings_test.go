package settings

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStore_LoadMissingReturnsDefaults(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "plugin", "data.json"))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	s, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s != Defaults() {
		t.Errorf("settings = %+v, want defaults", s)
	}
}

func TestFileStore_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	store, err := NewFileStore(path)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	want := Settings{FreeformLabel: "mine", RootPath: "/vault"}
	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestFileStore_MergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	if err := os.WriteFile(path, []byte(`{"rootPath":"/vault"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	store, err := NewFileStore(path)
	if err != nil {
		t.Fatal(err)
	}
	s, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.RootPath != "/vault" {
		t.Errorf("rootPath = %q", s.RootPath)
	}
	if s.FreeformLabel != "default" {
		t.Errorf("label = %q, want default", s.FreeformLabel)
	}
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	if err := os.WriteFile(path, []byte(`{not json`), 0o644); err != nil {
		t.Fatal(err)
	}
	store, err := NewFileStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.Load(context.Background()); err == nil {
		t.Error("expected decode error")
	}
}

func TestSQLiteStore_SaveAndLoad(t *testing.T) {
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "settings.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	s, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s != Defaults() {
		t.Errorf("first load = %+v, want defaults", s)
	}

	if err := store.Save(ctx, Settings{FreeformLabel: "a", RootPath: "/one"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Save(ctx, Settings{FreeformLabel: "a", RootPath: "/two"}); err != nil {
		t.Fatalf("second Save: %v", err)
	}
	s, err = store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.RootPath != "/two" {
		t.Errorf("rootPath = %q, want /two", s.RootPath)
	}
}

type failingStore struct{ Settings }

func (f *failingStore) Load(context.Context) (Settings, error) { return f.Settings, nil }
func (f *failingStore) Save(context.Context, Settings) error   { return errors.New("disk full") }

func TestPanel_PersistsEachChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	store, err := NewFileStore(path)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	p, err := NewPanel(ctx, store)
	if err != nil {
		t.Fatalf("NewPanel: %v", err)
	}
	if err := p.SetRootPath(ctx, "/vault"); err != nil {
		t.Fatalf("SetRootPath: %v", err)
	}
	if p.RootPath() != "/vault" {
		t.Errorf("in-memory rootPath = %q", p.RootPath())
	}

	reloaded, err := store.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.RootPath != "/vault" {
		t.Errorf("persisted rootPath = %q", reloaded.RootPath)
	}

	// Empty is accepted; commands reject it later.
	if err := p.SetRootPath(ctx, ""); err != nil {
		t.Fatalf("SetRootPath empty: %v", err)
	}
	if p.RootPath() != "" {
		t.Errorf("rootPath = %q, want empty", p.RootPath())
	}
}

func TestPanel_SaveFailureKeepsPreviousValue(t *testing.T) {
	ctx := context.Background()
	p, err := NewPanel(ctx, &failingStore{Settings: Settings{RootPath: "/old"}})
	if err != nil {
		t.Fatal(err)
	}
	if err := p.SetRootPath(ctx, "/new"); err == nil {
		t.Fatal("expected save error")
	}
	if p.RootPath() != "/old" {
		t.Errorf("rootPath = %q, want /old", p.RootPath())
	}
	if err := p.SetLabel(ctx, "x"); err == nil {
		t.Fatal("expected save error")
	}
}
