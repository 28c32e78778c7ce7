//go:build integration

package integration

import (
	"net/http"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatabaseRowsNewestFirst(t *testing.T) {
	t.Parallel()

	f := newServer(t)

	resp, err := http.Get(f.server.URL + "/api/database/memories?db=" + url.QueryEscape(f.dbPath) + "&limit=2&offset=0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, float64(5), body["total"])
	assert.Equal(t, []any{"id", "body", "created_at"}, body["columns"])

	rows := body["rows"].([]any)
	require.Len(t, rows, 2)
	assert.Equal(t, "fifth", rows[0].(map[string]any)["body"])
	assert.Equal(t, "fourth", rows[1].(map[string]any)["body"])
}

func TestDatabaseRejectsUnknownTableAndForeignPath(t *testing.T) {
	t.Parallel()

	f := newServer(t)

	resp, err := http.Get(f.server.URL + "/api/database/sqlite_master?db=" + url.QueryEscape(f.dbPath))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	foreign := filepath.Join(t.TempDir(), "other.db")
	resp, err = http.Get(f.server.URL + "/api/database?db=" + url.QueryEscape(foreign))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
