package service

import (
	"context"
	"errors"
	"io/fs"
	"sort"
	"strings"
	"time"

	"go-workspace-dashboard/internal/model"
	"go-workspace-dashboard/internal/storage"
	"go-workspace-dashboard/internal/util"
	"go-workspace-dashboard/pkg/apierror"
)

const (
	defaultSearchLimit = 50
	maxSearchLimit     = 500
	maxSearchDepth     = 20
)

var errSearchFull = errors.New("search result limit reached")

type SearchService struct {
	stores            *Stores
	allowedExtensions []string
	timeout           time.Duration
}

func NewSearchService(stores *Stores, allowedExtensions []string, timeout time.Duration) *SearchService {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &SearchService{stores: stores, allowedExtensions: allowedExtensions, timeout: timeout}
}

// Search matches entry names case-insensitively. Dot entries and symlinked
// directories are skipped, the same as the tree walk.
func (s *SearchService) Search(ctx context.Context, workspaceID string, query string, limit int) (model.SearchData, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return model.SearchData{}, apierror.InvalidInput("query parameter q is required", "q")
	}

	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	_, store := s.stores.For(workspaceID)

	searchCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	needle := strings.ToLower(query)
	results := make([]model.SearchResult, 0)

	err := s.walk(searchCtx, store, "", 0, func(result model.SearchResult) error {
		if !strings.Contains(strings.ToLower(result.Name), needle) {
			return nil
		}
		results = append(results, result)
		if len(results) >= limit {
			return errSearchFull
		}
		return nil
	})
	if err != nil && !errors.Is(err, errSearchFull) && !errors.Is(err, context.DeadlineExceeded) {
		return model.SearchData{}, err
	}

	sort.SliceStable(results, func(i int, j int) bool {
		return strings.ToLower(results[i].Path) < strings.ToLower(results[j].Path)
	})

	return model.SearchData{Query: query, Results: results}, nil
}

func (s *SearchService) walk(ctx context.Context, store storage.FileStore, dir string, depth int, visit func(model.SearchResult) error) error {
	if depth > maxSearchDepth {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	entries, err := store.ReadDir(dir)
	if err != nil {
		if dir == "" {
			return err
		}
		return nil
	}

	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") || entry.Type()&fs.ModeSymlink != 0 || !storage.AddressableName(name) {
			continue
		}

		relPath := name
		if dir != "" {
			relPath = dir + "/" + name
		}

		if entry.IsDir() {
			if err := visit(model.SearchResult{Name: name, Path: relPath, Type: string(model.NodeTypeFolder)}); err != nil {
				return err
			}
			if err := s.walk(ctx, store, relPath, depth+1, visit); err != nil {
				return err
			}
			continue
		}

		if !util.HasExtension(name, s.allowedExtensions) {
			continue
		}
		if err := visit(model.SearchResult{Name: name, Path: relPath, Type: string(model.NodeTypeFile)}); err != nil {
			return err
		}
	}

	return nil
}
