package model

type WriteFileRequest struct {
	Path      string  `json:"path"`
	Content   *string `json:"content"`
	Workspace string  `json:"workspace"`
}

type ToggleJobRequest struct {
	Enabled bool `json:"enabled"`
}

// KillProcessRequest accepts pid as a JSON number or string.
type KillProcessRequest struct {
	PID    any    `json:"pid"`
	Signal string `json:"signal"`
}
