package cli

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"go-workspace-dashboard/internal/config"
)

func TestWorkspacesCommand(t *testing.T) {
	cfg = &config.Config{ClawdRoot: t.TempDir(), MemoryDir: "memory"}

	require.NoError(t, workspacesCmd.RunE(workspacesCmd, nil))
}

func TestTablesCommand(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "memory"), 0o755))

	conn, err := sql.Open("sqlite", filepath.Join(root, "memory", "agent.db"))
	require.NoError(t, err)
	_, err = conn.Exec(`CREATE TABLE facts (id INTEGER PRIMARY KEY, body TEXT)`)
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	cfg = &config.Config{ClawdRoot: root, MemoryDir: "memory"}
	tablesCmd.SetContext(context.Background())

	require.NoError(t, tablesCmd.RunE(tablesCmd, nil))
}

func TestTablesCommandWithoutDatabases(t *testing.T) {
	cfg = &config.Config{ClawdRoot: t.TempDir(), MemoryDir: "memory"}
	tablesCmd.SetContext(context.Background())

	require.NoError(t, tablesCmd.RunE(tablesCmd, nil))
}
