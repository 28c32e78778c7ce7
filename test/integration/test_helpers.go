//go:build integration

package integration

import (
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"go-workspace-dashboard/internal/app"
	"go-workspace-dashboard/internal/config"
	"go-workspace-dashboard/internal/gateway"
)

type fixture struct {
	server *httptest.Server
	runner *gateway.MockRunner
	root   string
	dbPath string
}

// newServer boots the full application against a temporary workspace
// holding notes.md and memory/test.db.
func newServer(t *testing.T) *fixture {
	t.Helper()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.md"), []byte("hello"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "memory"), 0o755))
	dbPath := filepath.Join(root, "memory", "test.db")
	seedDatabase(t, dbPath)

	cfg := &config.Config{
		ServerPort:           "0",
		RequestTimeout:       10 * time.Second,
		CORSOrigins:          []string{"*"},
		RateLimitRPM:         1000,
		ControlRateLimitRPM:  1000,
		ClawdRoot:            root,
		Workspaces:           []config.WorkspaceEntry{{ID: "main", Name: "Main", Path: root}},
		DefaultWorkspace:     "main",
		MemoryDir:            "memory",
		ResolveSymlinks:      true,
		CLIBinary:            "clawdbot",
		ServiceUser:          "clawdbot",
		GatewayUnit:          "clawdbot-gateway",
		CriticalProcesses:    []string{"clawdbot-gateway", "systemd", "sshd", "dbus"},
		CommandTimeout:       5 * time.Second,
		LogFormat:            "json",
		LogLevel:             "error",
		LogStreamMaxDuration: 10 * time.Second,
	}
	require.NoError(t, cfg.Validate())

	runner := new(gateway.MockRunner)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	application, err := app.New(cfg, logger, runner, "integration")
	require.NoError(t, err)

	server := httptest.NewServer(application.Handler())
	t.Cleanup(server.Close)

	return &fixture{server: server, runner: runner, root: root, dbPath: dbPath}
}

func seedDatabase(t *testing.T, path string) {
	t.Helper()

	conn, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Exec(`CREATE TABLE memories (id INTEGER PRIMARY KEY, body TEXT NOT NULL, created_at TEXT)`)
	require.NoError(t, err)
	for i, body := range []string{"first", "second", "third", "fourth", "fifth"} {
		_, err := conn.Exec(`INSERT INTO memories (body, created_at) VALUES (?, ?)`, body, time.Date(2026, 1, i+1, 0, 0, 0, 0, time.UTC).Format(time.RFC3339))
		require.NoError(t, err)
	}
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}
