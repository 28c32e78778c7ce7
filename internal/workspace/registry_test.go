package workspace

import (
	"testing"

	"github.com/stretchr/testify/require"

	"go-workspace-dashboard/internal/config"
)

func TestRegistry(t *testing.T) {
	t.Parallel()

	t.Run("falls back to a single main workspace", func(t *testing.T) {
		reg := NewRegistry(&config.Config{ClawdRoot: "/srv/clawd/"})

		require.Len(t, reg.List(), 1)
		require.Equal(t, "main", reg.Default().ID)
		require.Equal(t, "/srv/clawd", reg.Root(""))
		require.Equal(t, "/srv/clawd", reg.Root("unknown"))
	})

	t.Run("resolves configured workspaces", func(t *testing.T) {
		reg := NewRegistry(&config.Config{
			ClawdRoot: "/srv/clawd",
			Workspaces: []config.WorkspaceEntry{
				{ID: "main", Name: "Main", Path: "/srv/clawd"},
				{ID: "side", Name: "Side", Path: "/srv/side"},
			},
		})

		require.Equal(t, "/srv/side", reg.Root("side"))
		require.Equal(t, "/srv/clawd", reg.Root("nope"))
		require.Equal(t, []string{"main", "side"}, []string{reg.List()[0].ID, reg.List()[1].ID})
	})

	t.Run("honours the configured default", func(t *testing.T) {
		reg := NewRegistry(&config.Config{
			ClawdRoot:        "/srv/clawd",
			DefaultWorkspace: "side",
			Workspaces: []config.WorkspaceEntry{
				{ID: "main", Name: "Main", Path: "/srv/clawd"},
				{ID: "side", Name: "Side", Path: "/srv/side"},
			},
		})

		require.Equal(t, "side", reg.Resolve("").ID)
	})

	t.Run("list is a copy", func(t *testing.T) {
		reg := NewRegistry(&config.Config{ClawdRoot: "/srv/clawd"})
		list := reg.List()
		list[0].Path = "/tmp"
		require.Equal(t, "/srv/clawd", reg.Root("main"))
	})
}
