// Package models defines the domain types shared across kanekilink.
package models

import "time"

// NoteMetadata is a lightweight representation of a vault file.
type NoteMetadata struct {
	Path      string    `json:"path"`
	UpdatedAt time.Time `json:"updated_at"`
}
