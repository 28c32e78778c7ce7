// Package workspace maps workspace ids to their root directories.
package workspace

import (
	"path/filepath"

	"go-workspace-dashboard/internal/config"
	"go-workspace-dashboard/internal/model"
)

const (
	defaultID   = "main"
	defaultName = "Main"
)

// Registry is built once at startup and never mutated.
type Registry struct {
	entries []model.Workspace
	byID    map[string]model.Workspace
	def     model.Workspace
}

// NewRegistry builds the registry from configuration. Without configured
// entries it holds a single "main" workspace rooted at the clawd root.
func NewRegistry(cfg *config.Config) *Registry {
	root := filepath.Clean(cfg.ClawdRoot)
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}

	entries := make([]model.Workspace, 0, len(cfg.Workspaces)+1)
	for _, ws := range cfg.Workspaces {
		entries = append(entries, model.Workspace{ID: ws.ID, Name: ws.Name, Path: filepath.Clean(ws.Path)})
	}
	if len(entries) == 0 {
		entries = append(entries, model.Workspace{ID: defaultID, Name: defaultName, Path: root})
	}

	r := &Registry{
		entries: entries,
		byID:    make(map[string]model.Workspace, len(entries)),
	}
	for _, ws := range entries {
		r.byID[ws.ID] = ws
	}

	r.def = entries[0]
	if ws, ok := r.byID[cfg.DefaultWorkspace]; ok {
		r.def = ws
	}

	return r
}

// List returns the workspaces in configured order.
func (r *Registry) List() []model.Workspace {
	out := make([]model.Workspace, len(r.entries))
	copy(out, r.entries)
	return out
}

// Resolve never fails: unknown or empty ids resolve to the default workspace.
func (r *Registry) Resolve(id string) model.Workspace {
	if ws, ok := r.byID[id]; ok {
		return ws
	}
	return r.def
}

func (r *Registry) Root(id string) string {
	return r.Resolve(id).Path
}

func (r *Registry) Default() model.Workspace {
	return r.def
}
