package api

// CommandItem describes one palette entry.
type CommandItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CommandListResponse wraps the palette.
type CommandListResponse struct {
	Commands []CommandItem `json:"commands"`
}

// StatusResponse is returned after a command completes.
type StatusResponse struct {
	Status string `json:"status"`
}

// ActiveNoteRequest selects the document being edited.
type ActiveNoteRequest struct {
	Path string `json:"path"`
}

// ActiveNoteResponse reports the document being edited.
type ActiveNoteResponse struct {
	Path string `json:"path"`
}

// UpdateSettingsRequest changes one or both settings. Absent fields are untouched.
type UpdateSettingsRequest struct {
	FreeformLabel *string `json:"mySetting,omitempty"`
	RootPath      *string `json:"rootPath,omitempty"`
}
