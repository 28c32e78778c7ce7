package storage

import (
	"fmt"
	"io/fs"
	"os"
)

// FileStore is the workspace-scoped file access used by the services.
type FileStore interface {
	RootAbs() string
	Resolve(clientPath string) (string, error)
	Rel(absPath string) (string, error)
	Stat(clientPath string) (fs.FileInfo, error)
	ReadDir(clientPath string) ([]fs.DirEntry, error)
	ReadFile(clientPath string) ([]byte, error)
	WriteExisting(clientPath string, data []byte) error
	Remove(clientPath string) error
	OpenForRead(clientPath string) (*os.File, error)
}

// Storage performs file operations strictly inside one workspace root.
type Storage struct {
	validator *PathValidator
}

var _ FileStore = (*Storage)(nil)

func New(root string, resolveSymlinks bool) (*Storage, error) {
	validator, err := NewPathValidator(root, resolveSymlinks)
	if err != nil {
		return nil, err
	}

	return &Storage{validator: validator}, nil
}

func (s *Storage) RootAbs() string {
	return s.validator.RootAbs()
}

func (s *Storage) Resolve(clientPath string) (string, error) {
	return s.validator.ResolvePath(clientPath)
}

func (s *Storage) Rel(absPath string) (string, error) {
	return s.validator.Rel(absPath)
}

func (s *Storage) Stat(clientPath string) (fs.FileInfo, error) {
	resolved, err := s.Resolve(clientPath)
	if err != nil {
		return nil, err
	}

	return os.Stat(resolved)
}

func (s *Storage) ReadDir(clientPath string) ([]fs.DirEntry, error) {
	resolved, err := s.Resolve(clientPath)
	if err != nil {
		return nil, err
	}

	return os.ReadDir(resolved)
}

func (s *Storage) ReadFile(clientPath string) ([]byte, error) {
	resolved, err := s.Resolve(clientPath)
	if err != nil {
		return nil, err
	}

	return os.ReadFile(resolved)
}

// WriteExisting truncates and rewrites a file that must already exist.
// A missing file yields an fs.ErrNotExist error; nothing is created.
func (s *Storage) WriteExisting(clientPath string, data []byte) error {
	resolved, err := s.Resolve(clientPath)
	if err != nil {
		return err
	}

	file, err := os.OpenFile(resolved, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return err
	}

	if _, err := file.Write(data); err != nil {
		_ = file.Close()
		return fmt.Errorf("write %q: %w", clientPath, err)
	}

	return file.Close()
}

func (s *Storage) Remove(clientPath string) error {
	resolved, err := s.Resolve(clientPath)
	if err != nil {
		return err
	}

	return os.Remove(resolved)
}

func (s *Storage) OpenForRead(clientPath string) (*os.File, error) {
	resolved, err := s.Resolve(clientPath)
	if err != nil {
		return nil, err
	}

	return os.Open(resolved)
}
