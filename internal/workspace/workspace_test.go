package workspace

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/starford/kanekilink/internal/apperr"
	"github.com/starford/kanekilink/internal/storage"
)

func testVault(t *testing.T) (string, *Vault) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return store.Root(), NewVault(store)
}

func writeNote(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestActiveFile_NoneSelected(t *testing.T) {
	_, v := testVault(t)
	if _, err := v.ActiveFile(); !errors.Is(err, apperr.ErrNoActiveFile) {
		t.Errorf("err = %v, want ErrNoActiveFile", err)
	}
}

func TestSetActive(t *testing.T) {
	root, v := testVault(t)
	writeNote(t, root, "notes/a.md", "---\nslug: a\n---\n")

	if err := v.SetActive("./notes/a.md"); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	got, err := v.ActiveFile()
	if err != nil {
		t.Fatal(err)
	}
	if got != "notes/a.md" {
		t.Errorf("active = %q", got)
	}
}

func TestSetActive_Missing(t *testing.T) {
	_, v := testVault(t)
	if err := v.SetActive("ghost.md"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestFrontmatter(t *testing.T) {
	root, v := testVault(t)
	writeNote(t, root, "a.md", "---\nslug: my-post\ntitle: T\nexcerpt: E\n---\nbody")
	writeNote(t, root, "plain.md", "just text")

	fm, err := v.Frontmatter("a.md")
	if err != nil {
		t.Fatal(err)
	}
	if fm.String("slug") != "my-post" {
		t.Errorf("slug = %q", fm.String("slug"))
	}

	fm, err = v.Frontmatter("plain.md")
	if err != nil {
		t.Fatal(err)
	}
	if fm != nil {
		t.Errorf("plain note frontmatter = %v, want nil", fm)
	}
}

func TestSelectLatest(t *testing.T) {
	root, v := testVault(t)
	if _, err := v.SelectLatest(); !errors.Is(err, apperr.ErrNoActiveFile) {
		t.Errorf("empty vault err = %v", err)
	}

	writeNote(t, root, "old.md", "old")
	writeNote(t, root, "sub/new.md", "new")
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(filepath.Join(root, "old.md"), past, past); err != nil {
		t.Fatal(err)
	}

	got, err := v.SelectLatest()
	if err != nil {
		t.Fatalf("SelectLatest: %v", err)
	}
	if got != "sub/new.md" {
		t.Errorf("latest = %q, want sub/new.md", got)
	}
	if active, _ := v.ActiveFile(); active != "sub/new.md" {
		t.Errorf("active = %q", active)
	}
}
