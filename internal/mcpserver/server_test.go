package mcpserver

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/kanekilink/internal/commands"
	"github.com/starford/kanekilink/internal/kaneki"
	"github.com/starford/kanekilink/internal/settings"
	"github.com/starford/kanekilink/internal/testutil"
	"github.com/starford/kanekilink/internal/workspace"
)

type fixture struct {
	srv    *Server
	root   string
	kaneki *testutil.Kaneki
	panel  *settings.Panel
}

func testServer(t *testing.T) *fixture {
	t.Helper()

	root, store := testutil.TestVault(t)
	vault := workspace.NewVault(store)

	fileStore, err := settings.NewFileStore(filepath.Join(t.TempDir(), "data.json"))
	if err != nil {
		t.Fatal(err)
	}
	panel, err := settings.NewPanel(context.Background(), fileStore)
	if err != nil {
		t.Fatal(err)
	}

	k := testutil.NewKaneki(t, http.StatusOK)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	runner := commands.NewRunner(panel, vault, kaneki.NewClient(k.URL), &testutil.Notifier{}, logger)

	return &fixture{srv: New(runner, vault, panel), root: root, kaneki: k, panel: panel}
}

func callTool(t *testing.T, srv *Server, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	var result *mcp.CallToolResult
	var err error

	switch name {
	case "send_to_kaneki":
		result, err = srv.sendToKaneki(ctx, req)
	case "open_in_kaneki":
		result, err = srv.openInKaneki(ctx, req)
	case "get_settings":
		result, err = srv.getSettings(ctx, req)
	case "set_root_path":
		result, err = srv.setRootPath(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestSetRootPathThenSend(t *testing.T) {
	f := testServer(t)
	testutil.WriteNote(t, f.root, "notes/a.md", "---\nslug: my-post\ntitle: T\nexcerpt: E\n---\n")

	r := callTool(t, f.srv, "set_root_path", map[string]any{"root_path": "/vault"})
	if r.IsError {
		t.Fatalf("set_root_path: %s", resultText(r))
	}

	r = callTool(t, f.srv, "send_to_kaneki", map[string]any{"path": "notes/a.md"})
	if r.IsError {
		t.Fatalf("send_to_kaneki: %s", resultText(r))
	}
	calls := f.kaneki.Calls()
	if len(calls) != 1 || calls[0].Raw != `{"filePath":"/vaultnotes/a.md"}` {
		t.Errorf("calls = %+v", calls)
	}
}

func TestConcurrentSendsKeepTheirPaths(t *testing.T) {
	f := testServer(t)
	_ = f.panel.SetRootPath(context.Background(), "/vault/")

	paths := []string{"a.md", "b.md", "c.md", "d.md", "e.md", "f.md", "g.md", "h.md"}
	for _, p := range paths {
		testutil.WriteNote(t, f.root, p, "---\nslug: "+strings.TrimSuffix(p, ".md")+"\ntitle: T\nexcerpt: E\n---\n")
	}

	texts := make([]string, len(paths))
	var wg sync.WaitGroup
	for i, p := range paths {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r := callTool(t, f.srv, "send_to_kaneki", map[string]any{"path": p})
			if r.IsError {
				t.Errorf("send %s: %s", p, resultText(r))
			}
			texts[i] = resultText(r)
		}()
	}
	wg.Wait()

	for i, p := range paths {
		if want := "update-kaneki-file: ok (" + p + ")"; texts[i] != want {
			t.Errorf("reply %d = %q, want %q", i, texts[i], want)
		}
	}
	got := map[string]int{}
	for _, c := range f.kaneki.Calls() {
		got[c.Raw]++
	}
	for _, p := range paths {
		body := `{"filePath":"/vault/` + p + `"}`
		if got[body] != 1 {
			t.Errorf("%s sent %d times, want 1 (calls %v)", p, got[body], got)
		}
	}
}

func TestOpenMissingSlug(t *testing.T) {
	f := testServer(t)
	_ = f.panel.SetRootPath(context.Background(), "/vault/")
	testutil.WriteNote(t, f.root, "a.md", "---\ntitle: T\n---\n")

	r := callTool(t, f.srv, "open_in_kaneki", map[string]any{"path": "a.md"})
	if !r.IsError {
		t.Fatal("expected error result")
	}
	if resultText(r) != "No slug found." {
		t.Errorf("text = %q", resultText(r))
	}
	if len(f.kaneki.Calls()) != 0 {
		t.Error("no call expected")
	}
}

func TestSendUnknownPath(t *testing.T) {
	f := testServer(t)
	r := callTool(t, f.srv, "send_to_kaneki", map[string]any{"path": "ghost.md"})
	if !r.IsError {
		t.Error("expected error for missing note")
	}
}

func TestGetSettings(t *testing.T) {
	f := testServer(t)
	r := callTool(t, f.srv, "get_settings", map[string]any{})
	if !strings.Contains(resultText(r), `"mySetting": "default"`) {
		t.Errorf("settings = %q", resultText(r))
	}
}

func TestSetRootPathRequired(t *testing.T) {
	f := testServer(t)
	r := callTool(t, f.srv, "set_root_path", map[string]any{})
	if !r.IsError {
		t.Error("expected error without root_path")
	}
}
