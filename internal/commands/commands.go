// Package commands implements the "Send to Kaneki" and "Open in Chrome"
// editor commands: validate the active note, make one call, report back.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/starford/kanekilink/internal/apperr"
	"github.com/starford/kanekilink/internal/notify"
	"github.com/starford/kanekilink/internal/parser"
	"github.com/starford/kanekilink/internal/workspace"
)

// Command identifiers.
const (
	SendID = "update-kaneki-file"
	OpenID = "open-kaneki-file"
)

const callingStatus = "Calling Kaneki..."

// Companion is the Kaneki transport.
type Companion interface {
	Update(ctx context.Context, filePath string) error
	Open(ctx context.Context, slug string) error
}

// RootPathSource returns the configured root path at call time.
type RootPathSource interface {
	RootPath() string
}

// Command is an entry in the command palette.
type Command struct {
	ID   string
	Name string
	Run  func(ctx context.Context) error
}

// Runner wires the host collaborators to the two commands.
type Runner struct {
	settings  RootPathSource
	workspace workspace.Workspace
	companion Companion
	notifier  notify.Notifier
	logger    *slog.Logger
}

// NewRunner creates a Runner.
func NewRunner(settings RootPathSource, ws workspace.Workspace, companion Companion, notifier notify.Notifier, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		settings:  settings,
		workspace: ws,
		companion: companion,
		notifier:  notifier,
		logger:    logger,
	}
}

// Commands returns the registered commands in palette order.
func (r *Runner) Commands() []Command {
	return []Command{
		{ID: SendID, Name: "Send to Kaneki", Run: r.Send},
		{ID: OpenID, Name: "Open in Chrome", Run: r.Open},
	}
}

// Lookup returns the command with the given id.
func (r *Runner) Lookup(id string) (Command, bool) {
	for _, c := range r.Commands() {
		if c.ID == id {
			return c, true
		}
	}
	return Command{}, false
}

// Frontmatter returns the active note's frontmatter if it exists and has a
// non-empty slug. Otherwise the user is told why and an error is returned.
func (r *Runner) Frontmatter(path string) (parser.Frontmatter, error) {
	fm, err := r.workspace.Frontmatter(path)
	if err != nil {
		return nil, r.fail(err)
	}
	if fm == nil {
		return nil, r.fail(apperr.ErrNoFrontmatter)
	}
	if fm.String("slug") == "" {
		return nil, r.fail(apperr.ErrNoSlug)
	}
	return fm, nil
}

// Send pushes the active note to Kaneki for publishing.
func (r *Runner) Send(ctx context.Context) error {
	return r.SendNote(ctx, "")
}

// SendNote pushes the note at path to Kaneki. An empty path means the
// active note. The active note is neither read nor changed otherwise.
func (r *Runner) SendNote(ctx context.Context, path string) error {
	rootPath := r.settings.RootPath()
	if rootPath == "" {
		return r.fail(apperr.ErrNoRootPath)
	}

	path, err := r.resolve(path)
	if err != nil {
		return err
	}

	fm, err := r.Frontmatter(path)
	if err != nil {
		return err
	}
	if !fm.Has("title") {
		return r.fail(apperr.ErrNoTitle)
	}
	if !fm.Has("excerpt") {
		return r.fail(apperr.ErrNoExcerpt)
	}

	// No separator is inserted: rootPath is expected to end with one.
	filePath := rootPath + path

	r.notifier.Status(callingStatus)
	err = r.companion.Update(ctx, filePath)
	r.notifier.Status("")
	if err != nil {
		return r.fail(err)
	}

	r.logger.Debug("sent to kaneki", slog.String("path", path), slog.String("file_path", filePath))
	r.notifier.Notice(fmt.Sprintf("%s successfully sent to Kaneki.", path))
	return nil
}

// Open asks Kaneki to open the published version of the active note.
func (r *Runner) Open(ctx context.Context) error {
	return r.OpenNote(ctx, "")
}

// OpenNote opens the published version of the note at path. An empty
// path means the active note.
func (r *Runner) OpenNote(ctx context.Context, path string) error {
	if r.settings.RootPath() == "" {
		return r.fail(apperr.ErrNoRootPath)
	}

	path, err := r.resolve(path)
	if err != nil {
		return err
	}

	fm, err := r.Frontmatter(path)
	if err != nil {
		return err
	}
	slug := fm.String("slug")

	r.notifier.Status(callingStatus)
	err = r.companion.Open(ctx, slug)
	r.notifier.Status("")
	if err != nil {
		return r.fail(err)
	}

	r.logger.Debug("opened with kaneki", slog.String("path", path), slog.String("slug", slug))
	r.notifier.Notice(fmt.Sprintf("%s successfully opened with Kaneki.", path))
	return nil
}

// resolve returns path, or the active note when path is empty.
func (r *Runner) resolve(path string) (string, error) {
	if path != "" {
		return strings.TrimPrefix(path, "./"), nil
	}
	active, err := r.workspace.ActiveFile()
	if err != nil {
		return "", r.fail(err)
	}
	return active, nil
}

// fail shows err to the user and returns it unchanged.
func (r *Runner) fail(err error) error {
	r.notifier.Notice(err.Error())
	if !apperr.IsValidation(err) {
		r.logger.Warn("command failed", slog.String("error", err.Error()))
	}
	return err
}
