package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-workspace-dashboard/internal/sqlite"
)

type DatabaseHandler struct {
	tables *sqlite.TableAccess
}

func NewDatabaseHandler(tables *sqlite.TableAccess) *DatabaseHandler {
	return &DatabaseHandler{tables: tables}
}

// List returns the tables of ?db= when given, otherwise the databases of
// ?workspace=.
func (h *DatabaseHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if db := query.Get("db"); db != "" {
		tables, err := h.tables.ListTables(r.Context(), db)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"tables": tables})
		return
	}

	databases, err := h.tables.ListDatabases(r.Context(), query.Get("workspace"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"databases": databases})
}

func (h *DatabaseHandler) Rows(w http.ResponseWriter, r *http.Request) {
	db, err := requiredQuery(r, "db")
	if err != nil {
		writeError(w, err)
		return
	}

	query := r.URL.Query()
	limit := parseIntOrDefault(query.Get("limit"), sqlite.DefaultLimit)
	offset := parseIntOrDefault(query.Get("offset"), 0)

	rows, err := h.tables.GetRows(r.Context(), db, chi.URLParam(r, "table"), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, rows)
}

func (h *DatabaseHandler) Schema(w http.ResponseWriter, r *http.Request) {
	db, err := requiredQuery(r, "db")
	if err != nil {
		writeError(w, err)
		return
	}

	columns, err := h.tables.Schema(r.Context(), db, chi.URLParam(r, "table"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"columns": columns})
}
