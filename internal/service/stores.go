package service

import (
	"fmt"

	"go-workspace-dashboard/internal/model"
	"go-workspace-dashboard/internal/storage"
	"go-workspace-dashboard/internal/workspace"
)

// Stores holds one FileStore per configured workspace.
type Stores struct {
	registry *workspace.Registry
	stores   map[string]storage.FileStore
}

func NewStores(registry *workspace.Registry, resolveSymlinks bool) (*Stores, error) {
	stores := make(map[string]storage.FileStore)
	for _, ws := range registry.List() {
		store, err := storage.New(ws.Path, resolveSymlinks)
		if err != nil {
			return nil, fmt.Errorf("workspace %q: %w", ws.ID, err)
		}
		stores[ws.ID] = store
	}

	return &Stores{registry: registry, stores: stores}, nil
}

// NewStoresWith is used by tests to inject file stores.
func NewStoresWith(registry *workspace.Registry, stores map[string]storage.FileStore) *Stores {
	return &Stores{registry: registry, stores: stores}
}

// For resolves a workspace id (falling back to the default) to its store.
func (s *Stores) For(id string) (model.Workspace, storage.FileStore) {
	ws := s.registry.Resolve(id)
	return ws, s.stores[ws.ID]
}

func (s *Stores) Workspaces() []model.Workspace {
	return s.registry.List()
}
