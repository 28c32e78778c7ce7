package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"go-workspace-dashboard/pkg/apierror"
)

// PathValidator resolves client paths against a single trusted root.
type PathValidator struct {
	rootAbs         string
	rootReal        string
	resolveSymlinks bool
}

func NewPathValidator(root string, resolveSymlinks bool) (*PathValidator, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("root path cannot be empty")
	}

	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve workspace root: %w", err)
	}

	v := &PathValidator{rootAbs: rootAbs, rootReal: rootAbs, resolveSymlinks: resolveSymlinks}
	if resolveSymlinks {
		// The root may not exist yet; it is canonicalized again lazily.
		if real, evalErr := filepath.EvalSymlinks(rootAbs); evalErr == nil {
			v.rootReal = real
		}
	}

	return v, nil
}

func (v *PathValidator) RootAbs() string {
	return v.rootAbs
}

// ResolvePath returns the absolute path for clientPath. The result is always
// the root itself or a descendant of it; anything else fails FORBIDDEN.
func (v *PathValidator) ResolvePath(clientPath string) (string, error) {
	normalized := strings.ReplaceAll(clientPath, `\`, "/")
	if normalized == "" || normalized == "/" || normalized == "." {
		return v.rootAbs, nil
	}

	if strings.Contains(normalized, "\x00") || hasControlCharacters(normalized) {
		return "", apierror.New(apierror.CodeInvalidPath, "path contains invalid characters", clientPath, 400)
	}

	for _, segment := range strings.Split(normalized, "/") {
		if segment == ".." {
			return "", apierror.Forbidden("access denied", clientPath)
		}
	}

	cleanRel := filepath.Clean(filepath.FromSlash(strings.TrimLeft(normalized, "/")))
	if cleanRel == "." {
		return v.rootAbs, nil
	}

	resolvedAbs := filepath.Join(v.rootAbs, cleanRel)
	if !isWithinRoot(v.rootAbs, resolvedAbs) {
		return "", apierror.Forbidden("access denied", clientPath)
	}

	if v.resolveSymlinks {
		if err := v.checkCanonical(resolvedAbs, clientPath); err != nil {
			return "", err
		}
	}

	return resolvedAbs, nil
}

// Rel converts an absolute path inside the root to its slash-separated
// client form. The root itself maps to "".
func (v *PathValidator) Rel(absPath string) (string, error) {
	rel, err := filepath.Rel(v.rootAbs, absPath)
	if err != nil {
		return "", err
	}
	if rel == "." {
		return "", nil
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", apierror.Forbidden("access denied", absPath)
	}
	return filepath.ToSlash(rel), nil
}

func (v *PathValidator) checkCanonical(resolvedAbs string, clientPath string) error {
	rootReal := v.rootReal
	if real, err := filepath.EvalSymlinks(v.rootAbs); err == nil {
		rootReal = real
	}

	canonical, err := canonicalize(resolvedAbs)
	if err != nil {
		return fmt.Errorf("canonicalize %q: %w", clientPath, err)
	}

	if !isWithinRoot(rootReal, canonical) {
		return apierror.Forbidden("access denied", clientPath)
	}

	return nil
}

// canonicalize evaluates symlinks on the longest existing prefix of p and
// re-appends the missing tail.
func canonicalize(p string) (string, error) {
	existing := p
	var tail []string
	for {
		if _, err := os.Lstat(existing); err == nil {
			break
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", err
		}

		parent := filepath.Dir(existing)
		if parent == existing {
			return p, nil
		}
		tail = append([]string{filepath.Base(existing)}, tail...)
		existing = parent
	}

	real, err := filepath.EvalSymlinks(existing)
	if err != nil {
		return "", err
	}

	return filepath.Join(append([]string{real}, tail...)...), nil
}

// AddressableName reports whether a directory entry name survives
// ResolvePath unchanged. Names with backslashes or control characters are
// rewritten or rejected there, so listings must leave them out.
func AddressableName(name string) bool {
	return name != "" && !strings.ContainsRune(name, '\\') && !hasControlCharacters(name)
}

func hasControlCharacters(value string) bool {
	for _, char := range value {
		if unicode.IsControl(char) {
			return true
		}
	}

	return false
}

func isWithinRoot(rootAbs string, candidateAbs string) bool {
	if candidateAbs == rootAbs {
		return true
	}

	rootWithSeparator := rootAbs
	if !strings.HasSuffix(rootWithSeparator, string(filepath.Separator)) {
		rootWithSeparator += string(filepath.Separator)
	}
	return strings.HasPrefix(candidateAbs, rootWithSeparator)
}
