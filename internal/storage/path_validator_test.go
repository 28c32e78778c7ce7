package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"go-workspace-dashboard/pkg/apierror"
)

func TestPathValidatorResolvePath(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	validator, err := NewPathValidator(root, true)
	require.NoError(t, err)

	t.Run("root path resolves to root", func(t *testing.T) {
		for _, input := range []string{"", "/", "."} {
			resolved, resolveErr := validator.ResolvePath(input)
			require.NoError(t, resolveErr)
			require.Equal(t, validator.RootAbs(), resolved)
		}
	})

	t.Run("relative path resolves inside root", func(t *testing.T) {
		resolved, resolveErr := validator.ResolvePath("memory/notes.md")
		require.NoError(t, resolveErr)
		require.Equal(t, filepath.Join(validator.RootAbs(), "memory", "notes.md"), resolved)
		require.True(t, strings.HasPrefix(resolved, validator.RootAbs()))
	})

	t.Run("surrounding spaces are part of the name", func(t *testing.T) {
		resolved, resolveErr := validator.ResolvePath(" notes.md ")
		require.NoError(t, resolveErr)
		require.Equal(t, filepath.Join(validator.RootAbs(), " notes.md "), resolved)
	})

	t.Run("absolute override stays inside root", func(t *testing.T) {
		resolved, resolveErr := validator.ResolvePath("/etc/passwd")
		require.NoError(t, resolveErr)
		require.Equal(t, filepath.Join(validator.RootAbs(), "etc", "passwd"), resolved)
	})

	t.Run("backslashes are normalized", func(t *testing.T) {
		resolved, resolveErr := validator.ResolvePath(`memory\\notes.md`)
		require.NoError(t, resolveErr)
		require.Equal(t, filepath.Join(validator.RootAbs(), "memory", "notes.md"), resolved)
	})

	t.Run("parent segments are forbidden", func(t *testing.T) {
		for _, input := range []string{"../secrets.txt", "memory/../../etc/passwd", "a/../b.md", `..\outside`, "/.."} {
			_, resolveErr := validator.ResolvePath(input)
			require.Error(t, resolveErr, input)
			require.True(t, apierror.HasCode(resolveErr, apierror.CodeForbidden), input)
		}
	})

	t.Run("control characters are rejected", func(t *testing.T) {
		_, resolveErr := validator.ResolvePath("memory\nnotes.md")
		require.True(t, apierror.HasCode(resolveErr, apierror.CodeInvalidPath))
	})

	t.Run("null bytes are rejected", func(t *testing.T) {
		_, resolveErr := validator.ResolvePath("memory\x00/notes.md")
		require.Error(t, resolveErr)
	})

	t.Run("within root requires a separator boundary", func(t *testing.T) {
		require.False(t, isWithinRoot("/tmp/root", "/tmp/rootkit/file.txt"))
		require.True(t, isWithinRoot("/tmp/root", "/tmp/root"))
		require.True(t, isWithinRoot("/", "/etc"))
	})
}

func TestPathValidatorSymlinks(t *testing.T) {
	t.Parallel()

	outside := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(outside, "secret.txt"), []byte("secret"), 0o644))

	root := t.TempDir()
	require.NoError(t, os.Symlink(outside, filepath.Join(root, "escape")))
	require.NoError(t, os.Mkdir(filepath.Join(root, "inner"), 0o755))
	require.NoError(t, os.Symlink(filepath.Join(root, "inner"), filepath.Join(root, "alias")))

	t.Run("canonicalizing rejects escapes", func(t *testing.T) {
		validator, err := NewPathValidator(root, true)
		require.NoError(t, err)

		_, resolveErr := validator.ResolvePath("escape/secret.txt")
		require.True(t, apierror.HasCode(resolveErr, apierror.CodeForbidden))

		_, resolveErr = validator.ResolvePath("escape/missing/deeper.txt")
		require.True(t, apierror.HasCode(resolveErr, apierror.CodeForbidden))
	})

	t.Run("canonicalizing allows links that stay inside", func(t *testing.T) {
		validator, err := NewPathValidator(root, true)
		require.NoError(t, err)

		resolved, resolveErr := validator.ResolvePath("alias/new.md")
		require.NoError(t, resolveErr)
		require.Equal(t, filepath.Join(validator.RootAbs(), "alias", "new.md"), resolved)
	})

	t.Run("lexical mode does not follow links", func(t *testing.T) {
		validator, err := NewPathValidator(root, false)
		require.NoError(t, err)

		resolved, resolveErr := validator.ResolvePath("escape/secret.txt")
		require.NoError(t, resolveErr)
		require.Equal(t, filepath.Join(validator.RootAbs(), "escape", "secret.txt"), resolved)
	})
}

func TestPathValidatorRel(t *testing.T) {
	t.Parallel()

	validator, err := NewPathValidator("/srv/clawd", false)
	require.NoError(t, err)

	rel, err := validator.Rel("/srv/clawd/memory/notes.md")
	require.NoError(t, err)
	require.Equal(t, "memory/notes.md", rel)

	rel, err = validator.Rel("/srv/clawd")
	require.NoError(t, err)
	require.Equal(t, "", rel)

	_, err = validator.Rel("/srv/other/file")
	require.Error(t, err)
}

func TestAddressableName(t *testing.T) {
	t.Parallel()

	for name, want := range map[string]bool{
		"notes.md":     true,
		" spaced .md":  true,
		"notes#1?.md":  true,
		`win\style.md`: false,
		"tab\tname.md": false,
		"bell\x07":     false,
		"":             false,
	} {
		require.Equal(t, want, AddressableName(name), name)
	}
}
