package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"io/fs"
	"math"
	"net/http"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"go-workspace-dashboard/internal/event"
	"go-workspace-dashboard/internal/model"
	"go-workspace-dashboard/internal/storage"
	"go-workspace-dashboard/internal/util"
	"go-workspace-dashboard/pkg/apierror"
)

const (
	minImageSize = 32
	maxImageSize = 2048
)

type FileService struct {
	stores            *Stores
	allowedExtensions []string
	bus               event.Bus
}

// NewFileService creates the workspace file service. A non-empty
// allowedExtensions list restricts every operation to those extensions.
func NewFileService(stores *Stores, allowedExtensions []string, bus event.Bus) *FileService {
	return &FileService{stores: stores, allowedExtensions: allowedExtensions, bus: bus}
}

func (s *FileService) Workspaces() []model.Workspace {
	return s.stores.Workspaces()
}

// ListTree walks the workspace, skipping dot entries. Every level is sorted
// folders first, then by locale-aware name.
func (s *FileService) ListTree(ctx context.Context, workspaceID string) ([]model.FileNode, error) {
	_, store := s.stores.For(workspaceID)

	if _, err := store.ReadDir(""); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apierror.NotFound("workspace directory not found", "")
		}
		return nil, fmt.Errorf("read workspace root: %w", err)
	}

	w := &treeWalker{
		ctx:        ctx,
		store:      store,
		extensions: s.allowedExtensions,
		collator:   collate.New(language.English),
	}

	return w.walk("")
}

type treeWalker struct {
	ctx        context.Context
	store      storage.FileStore
	extensions []string
	collator   *collate.Collator
}

func (w *treeWalker) walk(dir string) ([]model.FileNode, error) {
	if err := w.ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := w.store.ReadDir(dir)
	if err != nil {
		if dir == "" {
			return nil, err
		}
		// Unreadable subdirectories are listed as empty.
		return []model.FileNode{}, nil
	}

	nodes := make([]model.FileNode, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") || !storage.AddressableName(name) {
			continue
		}

		relPath := name
		if dir != "" {
			relPath = dir + "/" + name
		}

		isDir := entry.IsDir()
		if entry.Type()&fs.ModeSymlink != 0 {
			info, statErr := w.store.Stat(relPath)
			if statErr != nil || info.IsDir() {
				// Broken, escaping, or directory links are not followed.
				continue
			}
			isDir = false
		}

		if isDir {
			children, walkErr := w.walk(relPath)
			if walkErr != nil {
				return nil, walkErr
			}
			if len(w.extensions) > 0 && len(children) == 0 {
				continue
			}
			nodes = append(nodes, model.FileNode{
				Name:     name,
				Path:     relPath,
				Type:     model.NodeTypeFolder,
				Children: children,
			})
			continue
		}

		if !util.HasExtension(name, w.extensions) {
			continue
		}
		nodes = append(nodes, model.FileNode{Name: name, Path: relPath, Type: model.NodeTypeFile})
	}

	w.sort(nodes)
	return nodes, nil
}

func (w *treeWalker) sort(nodes []model.FileNode) {
	sort.SliceStable(nodes, func(i int, j int) bool {
		if nodes[i].Type != nodes[j].Type {
			return nodes[i].Type == model.NodeTypeFolder
		}
		return w.collator.CompareString(nodes[i].Name, nodes[j].Name) < 0
	})
}

func (s *FileService) ReadFile(_ context.Context, workspaceID string, clientPath string) (model.FileContent, error) {
	_, store, err := s.checkedStore(workspaceID, clientPath)
	if err != nil {
		return model.FileContent{}, err
	}

	content, err := store.ReadFile(clientPath)
	if err != nil {
		return model.FileContent{}, fileNotFound()
	}

	return model.FileContent{Content: string(content), Path: clientPath}, nil
}

// WriteFile overwrites an existing file. It never creates new files.
func (s *FileService) WriteFile(_ context.Context, workspaceID string, clientPath string, content string) error {
	ws, store, err := s.checkedStore(workspaceID, clientPath)
	if err != nil {
		return err
	}

	if err := requireRegularFile(store, clientPath); err != nil {
		return err
	}

	if err := store.WriteExisting(clientPath, []byte(content)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fileNotFound()
		}
		return fmt.Errorf("write file: %w", err)
	}

	event.Publish(s.bus, event.TypeFileUpdated, map[string]any{"workspace": ws.ID, "path": clientPath, "bytes": len(content)})
	return nil
}

func (s *FileService) DeleteFile(_ context.Context, workspaceID string, clientPath string) error {
	ws, store, err := s.checkedStore(workspaceID, clientPath)
	if err != nil {
		return err
	}

	if err := requireRegularFile(store, clientPath); err != nil {
		return err
	}

	if err := store.Remove(clientPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fileNotFound()
		}
		return fmt.Errorf("delete file: %w", err)
	}

	event.Publish(s.bus, event.TypeFileDeleted, map[string]any{"workspace": ws.ID, "path": clientPath})
	return nil
}

// ImageContent is an image ready to be served with http.ServeContent.
type ImageContent struct {
	Reader   io.ReadSeekCloser
	Name     string
	MIMEType string
	ModTime  time.Time
}

// ReadImage opens an image file. A positive size downscales decodable
// formats to fit a size×size box and re-encodes them as JPEG.
func (s *FileService) ReadImage(_ context.Context, workspaceID string, clientPath string, size int) (ImageContent, error) {
	mimeType, ok := util.ImageMIMEType(clientPath)
	if !ok {
		return ImageContent{}, apierror.New(apierror.CodeUnsupportedFmt, "unsupported image type", clientPath, http.StatusBadRequest)
	}

	_, store, err := s.checkedStore(workspaceID, clientPath)
	if err != nil {
		return ImageContent{}, err
	}

	info, err := store.Stat(clientPath)
	if err != nil || info.IsDir() {
		return ImageContent{}, fileNotFound()
	}

	file, err := store.OpenForRead(clientPath)
	if err != nil {
		return ImageContent{}, fileNotFound()
	}

	name := path.Base(filepath.ToSlash(clientPath))
	if size <= 0 || !util.IsScalableExtension(filepath.Ext(clientPath)) {
		return ImageContent{Reader: file, Name: name, MIMEType: mimeType, ModTime: info.ModTime()}, nil
	}
	defer file.Close()

	scaled, err := scaleImage(file, clampInt(size, minImageSize, maxImageSize))
	if err != nil {
		return ImageContent{}, err
	}

	return ImageContent{
		Reader:   nopSeekCloser{bytes.NewReader(scaled)},
		Name:     strings.TrimSuffix(name, filepath.Ext(name)) + ".jpg",
		MIMEType: "image/jpeg",
		ModTime:  info.ModTime(),
	}, nil
}

func scaleImage(r io.Reader, size int) ([]byte, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, apierror.New(apierror.CodeUnsupportedFmt, "cannot decode image", err.Error(), http.StatusUnsupportedMediaType)
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, apierror.New(apierror.CodeUnsupportedFmt, "invalid image dimensions", "", http.StatusUnsupportedMediaType)
	}

	scale := float64(size) / float64(max(width, height))
	if scale > 1 {
		scale = 1
	}

	targetWidth := max(1, int(math.Round(float64(width)*scale)))
	targetHeight := max(1, int(math.Round(float64(height)*scale)))

	dst := image.NewRGBA(image.Rect(0, 0, targetWidth, targetHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 90}); err != nil {
		return nil, fmt.Errorf("encode scaled image: %w", err)
	}

	return buf.Bytes(), nil
}

// checkedStore resolves the workspace and applies path containment and the
// extension policy shared by read, write, delete and image.
func (s *FileService) checkedStore(workspaceID string, clientPath string) (model.Workspace, storage.FileStore, error) {
	ws, store := s.stores.For(workspaceID)

	if _, err := store.Resolve(clientPath); err != nil {
		return ws, nil, err
	}

	if !util.HasExtension(clientPath, s.allowedExtensions) {
		return ws, nil, apierror.Forbidden("file type not allowed", clientPath)
	}

	return ws, store, nil
}

func requireRegularFile(store storage.FileStore, clientPath string) error {
	info, err := store.Stat(clientPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fileNotFound()
		}
		return err
	}

	if info.IsDir() {
		return fileNotFound()
	}

	return nil
}

func fileNotFound() error {
	return apierror.Wrap(model.ErrFileNotFound, apierror.CodeNotFound, "file not found", http.StatusNotFound)
}

func clampInt(v int, lo int, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

type nopSeekCloser struct {
	*bytes.Reader
}

func (nopSeekCloser) Close() error { return nil }
