// Package sqlite gives read-only, paged access to SQLite files that live
// inside a workspace.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"unicode/utf8"

	_ "modernc.org/sqlite"

	"go-workspace-dashboard/internal/model"
	"go-workspace-dashboard/internal/workspace"
	"go-workspace-dashboard/pkg/apierror"
)

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

var dbExtensions = []string{".db", ".sqlite"}

type TableAccess struct {
	registry      *workspace.Registry
	memoryDir     string
	allowedTables []string
}

// New builds a TableAccess. A non-empty allowedTables list narrows the
// catalog-derived whitelist further.
func New(registry *workspace.Registry, memoryDir string, allowedTables []string) *TableAccess {
	return &TableAccess{registry: registry, memoryDir: memoryDir, allowedTables: allowedTables}
}

// ListDatabases lists the database files of a workspace's memory directory.
func (a *TableAccess) ListDatabases(_ context.Context, workspaceID string) ([]model.DatabaseInfo, error) {
	dir := filepath.Join(a.registry.Root(workspaceID), a.memoryDir)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []model.DatabaseInfo{}, nil
		}
		return nil, fmt.Errorf("read memory dir: %w", err)
	}

	out := make([]model.DatabaseInfo, 0)
	for _, entry := range entries {
		if entry.IsDir() || !hasDBExtension(entry.Name()) {
			continue
		}
		out = append(out, model.DatabaseInfo{Name: entry.Name(), Path: filepath.Join(dir, entry.Name())})
	}

	sort.Slice(out, func(i int, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ListTables returns user tables with their row counts. A database file
// that does not exist yields an empty list.
func (a *TableAccess) ListTables(ctx context.Context, rawPath string) ([]model.TableInfo, error) {
	dbPath, err := a.ValidatePath(rawPath)
	if err != nil {
		return nil, err
	}
	if !fileExists(dbPath) {
		return []model.TableInfo{}, nil
	}

	db, err := openReadOnly(ctx, dbPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	names, err := catalog(ctx, db)
	if err != nil {
		return nil, err
	}

	tables := make([]model.TableInfo, 0, len(names))
	for _, name := range names {
		var count int64
		if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+quoteIdent(name)).Scan(&count); err != nil {
			return nil, fmt.Errorf("count %s: %w", name, err)
		}
		tables = append(tables, model.TableInfo{Name: name, RowCount: count})
	}

	return tables, nil
}

func (a *TableAccess) Schema(ctx context.Context, rawPath string, table string) ([]model.ColumnInfo, error) {
	dbPath, err := a.existingPath(rawPath)
	if err != nil {
		return nil, err
	}

	db, err := openReadOnly(ctx, dbPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if err := a.checkTable(ctx, db, table); err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT cid, name, type, "notnull", dflt_value, pk FROM pragma_table_info(?)`, table)
	if err != nil {
		return nil, fmt.Errorf("table info: %w", err)
	}
	defer rows.Close()

	columns := make([]model.ColumnInfo, 0)
	for rows.Next() {
		var col model.ColumnInfo
		var dflt sql.NullString
		if err := rows.Scan(&col.CID, &col.Name, &col.Type, &col.NotNull, &dflt, &col.PK); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		if dflt.Valid {
			col.DefaultValue = &dflt.String
		}
		columns = append(columns, col)
	}

	return columns, rows.Err()
}

// GetRows returns one page of table, newest rowid first. The page and the
// total come from the same read transaction.
func (a *TableAccess) GetRows(ctx context.Context, rawPath string, table string, limit int, offset int) (model.TableRows, error) {
	dbPath, err := a.existingPath(rawPath)
	if err != nil {
		return model.TableRows{}, err
	}

	limit, offset = ClampPage(limit, offset)

	db, err := openReadOnly(ctx, dbPath)
	if err != nil {
		return model.TableRows{}, err
	}
	defer db.Close()

	if err := a.checkTable(ctx, db, table); err != nil {
		return model.TableRows{}, err
	}

	tx, err := db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return model.TableRows{}, fmt.Errorf("begin read: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ident := quoteIdent(table)

	var total int64
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+ident).Scan(&total); err != nil {
		return model.TableRows{}, fmt.Errorf("count rows: %w", err)
	}

	rows, err := tx.QueryContext(ctx, "SELECT * FROM "+ident+" ORDER BY rowid DESC LIMIT ? OFFSET ?", limit, offset)
	if err != nil {
		return model.TableRows{}, fmt.Errorf("select rows: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return model.TableRows{}, err
	}

	out := model.TableRows{Columns: columns, Rows: make([]map[string]any, 0, limit), Total: total}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return model.TableRows{}, fmt.Errorf("scan row: %w", err)
		}

		row := make(map[string]any, len(columns))
		for i, col := range columns {
			row[col] = jsonValue(values[i])
		}
		out.Rows = append(out.Rows, row)
	}

	if err := rows.Err(); err != nil {
		return model.TableRows{}, err
	}

	return out, nil
}

// ClampPage bounds limit to [1, MaxLimit] and offset to >= 0.
func ClampPage(limit int, offset int) (int, int) {
	limit = max(1, min(limit, MaxLimit))
	offset = max(0, offset)
	return limit, offset
}

// ValidatePath accepts only clean absolute paths to .db or .sqlite files
// inside a configured workspace root.
func (a *TableAccess) ValidatePath(raw string) (string, error) {
	if raw == "" {
		return "", apierror.InvalidInput("db parameter is required", "db")
	}
	if strings.ContainsRune(raw, 0) || !filepath.IsAbs(raw) || filepath.Clean(raw) != raw {
		return "", apierror.Forbidden("invalid database path", "")
	}
	if !hasDBExtension(raw) {
		return "", apierror.Forbidden("invalid database path", "")
	}

	candidate := raw
	if resolved, err := filepath.EvalSymlinks(raw); err == nil {
		candidate = resolved
	}

	for _, ws := range a.registry.List() {
		if within(ws.Path, candidate) || within(canonicalRoot(ws.Path), candidate) {
			return raw, nil
		}
	}

	return "", apierror.Forbidden("database outside workspace", "")
}

func (a *TableAccess) existingPath(raw string) (string, error) {
	dbPath, err := a.ValidatePath(raw)
	if err != nil {
		return "", err
	}
	if !fileExists(dbPath) {
		return "", apierror.Wrap(model.ErrDatabaseNotFound, apierror.CodeNotFound, "database not found", http.StatusNotFound)
	}
	return dbPath, nil
}

func (a *TableAccess) checkTable(ctx context.Context, db *sql.DB, table string) error {
	names, err := catalog(ctx, db)
	if err != nil {
		return err
	}

	if !slices.Contains(names, table) {
		return invalidTable()
	}
	if len(a.allowedTables) > 0 && !slices.Contains(a.allowedTables, table) {
		return invalidTable()
	}

	return nil
}

func invalidTable() error {
	return apierror.Wrap(model.ErrInvalidTable, apierror.CodeInvalidTable, "invalid table name", http.StatusBadRequest)
}

// readOnlyDSN builds a file: URI for path. The path is percent-encoded so
// that '#', '?' and '%' in file names cannot cut off the mode parameter.
func readOnlyDSN(path string) string {
	u := &url.URL{
		Scheme:   "file",
		OmitHost: true,
		Path:     filepath.ToSlash(path),
		RawQuery: "mode=ro&_pragma=query_only(1)",
	}
	return u.String()
}

func openReadOnly(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", readOnlyDSN(path))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("opening database: %w", err)
	}

	return db, nil
}

func catalog(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}

	return names, rows.Err()
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// jsonValue converts driver values into JSON-friendly ones. Text stored as
// bytes becomes a string; other blobs are base64 encoded.
func jsonValue(v any) any {
	b, ok := v.([]byte)
	if !ok {
		return v
	}
	if utf8.Valid(b) {
		return string(b)
	}
	return base64.StdEncoding.EncodeToString(b)
}

func hasDBExtension(name string) bool {
	return slices.Contains(dbExtensions, strings.ToLower(filepath.Ext(name)))
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func canonicalRoot(root string) string {
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		return resolved
	}
	return root
}

func within(root string, target string) bool {
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && rel != "."
}
