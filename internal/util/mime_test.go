package util

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestImageMIMEType(t *testing.T) {
	t.Parallel()

	mimeType, ok := ImageMIMEType("avatars/bot.PNG")
	require.True(t, ok)
	require.Equal(t, "image/png", mimeType)

	mimeType, ok = ImageMIMEType("diagram.svg")
	require.True(t, ok)
	require.Equal(t, "image/svg+xml", mimeType)

	_, ok = ImageMIMEType("notes.md")
	require.False(t, ok)
}

func TestIsImageExtension(t *testing.T) {
	t.Parallel()

	require.True(t, IsImageExtension(".png"))
	require.True(t, IsImageExtension(" .JPEG "))
	require.False(t, IsImageExtension(".pdf"))
	require.False(t, IsImageExtension(""))
}

func TestIsScalableExtension(t *testing.T) {
	t.Parallel()

	require.True(t, IsScalableExtension(".jpg"))
	require.True(t, IsScalableExtension(" .WEBP "))
	require.False(t, IsScalableExtension(".svg"))
	require.False(t, IsScalableExtension(".ico"))
}

func TestHasExtension(t *testing.T) {
	t.Parallel()

	require.True(t, HasExtension("anything.bin", nil))
	require.True(t, HasExtension("notes/TODO.MD", []string{".md"}))
	require.False(t, HasExtension("notes/todo.txt", []string{".md"}))
	require.False(t, HasExtension("Makefile", []string{".md"}))
}
