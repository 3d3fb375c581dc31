// Package testutil provides shared test helpers: temp vaults, a fake
// Kaneki server and a recording notifier.
package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/starford/kanekilink/internal/storage"
)

// TestVault creates a temporary vault directory with a storage provider.
func TestVault(t *testing.T) (string, *storage.FS) {
	t.Helper()
	store, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return store.Root(), store
}

// WriteNote writes content to rel under root, creating directories.
func WriteNote(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// Call is one request received by the fake Kaneki server.
type Call struct {
	Path        string
	ContentType string
	Body        map[string]any
	Raw         string
}

// Kaneki is an httptest server that records every call.
type Kaneki struct {
	*httptest.Server

	mu     sync.Mutex
	calls  []Call
	status int
}

// NewKaneki starts a fake Kaneki answering with status.
func NewKaneki(t *testing.T, status int) *Kaneki {
	t.Helper()
	k := &Kaneki{status: status}
	k.Server = httptest.NewServer(http.HandlerFunc(k.handle))
	t.Cleanup(k.Close)
	return k
}

func (k *Kaneki) handle(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	var body map[string]any
	_ = json.Unmarshal(raw, &body)

	k.mu.Lock()
	k.calls = append(k.calls, Call{
		Path:        r.URL.Path,
		ContentType: r.Header.Get("Content-Type"),
		Body:        body,
		Raw:         string(raw),
	})
	status := k.status
	k.mu.Unlock()

	w.WriteHeader(status)
}

// Calls returns a copy of the recorded calls.
func (k *Kaneki) Calls() []Call {
	k.mu.Lock()
	defer k.mu.Unlock()
	return append([]Call(nil), k.calls...)
}

// Notifier records notices and status updates.
type Notifier struct {
	mu       sync.Mutex
	Notices  []string
	Statuses []string
}

// Notice implements notify.Notifier.
func (n *Notifier) Notice(msg string) {
	n.mu.Lock()
	n.Notices = append(n.Notices, msg)
	n.mu.Unlock()
}

// Status implements notify.Notifier.
func (n *Notifier) Status(text string) {
	n.mu.Lock()
	n.Statuses = append(n.Statuses, text)
	n.mu.Unlock()
}

// Last returns the most recent notice, or "".
func (n *Notifier) Last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.Notices) == 0 {
		return ""
	}
	return n.Notices[len(n.Notices)-1]
}

// RootPath is a fixed settings source.
type RootPath string

// RootPath returns the fixed value.
func (r RootPath) RootPath() string { return string(r) }
