// Package apperr holds the error taxonomy shared by command handlers and surfaces.
package apperr

import "errors"

// Configuration errors.
var (
	ErrNoRootPath = errors.New("Please set the root path in the settings.")
)

// Validation errors. Messages are shown to the user verbatim.
var (
	ErrNoActiveFile  = errors.New("No active file.")
	ErrNoFrontmatter = errors.New("No frontmatter found.")
	ErrNoSlug        = errors.New("No slug found.")
	ErrNoTitle       = errors.New("No title found.")
	ErrNoExcerpt     = errors.New("No excerpt found.")
)

// ErrNotFound is returned when a vault file or command does not exist.
var ErrNotFound = errors.New("not found")

// IsValidation reports whether err aborted a command before any network call.
func IsValidation(err error) bool {
	switch {
	case errors.Is(err, ErrNoRootPath),
		errors.Is(err, ErrNoActiveFile),
		errors.Is(err, ErrNoFrontmatter),
		errors.Is(err, ErrNoSlug),
		errors.Is(err, ErrNoTitle),
		errors.Is(err, ErrNoExcerpt):
		return true
	}
	return false
}
