package handler

import (
	"mime"
	"net/http"
	"strings"

	"go-workspace-dashboard/internal/model"
	"go-workspace-dashboard/internal/service"
	"go-workspace-dashboard/pkg/apierror"
)

const defaultImageSize = 0

type FileHandler struct {
	files  *service.FileService
	search *service.SearchService
}

func NewFileHandler(files *service.FileService, search *service.SearchService) *FileHandler {
	return &FileHandler{files: files, search: search}
}

func (h *FileHandler) Tree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.files.ListTree(r.Context(), r.URL.Query().Get("workspace"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.TreeData{Tree: tree, Workspaces: h.files.Workspaces()})
}

func (h *FileHandler) Workspaces(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"workspaces": h.files.Workspaces()})
}

func (h *FileHandler) Read(w http.ResponseWriter, r *http.Request) {
	path, err := requiredQuery(r, "path")
	if err != nil {
		writeError(w, err)
		return
	}

	content, err := h.files.ReadFile(r.Context(), r.URL.Query().Get("workspace"), path)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, content)
}

func (h *FileHandler) Write(w http.ResponseWriter, r *http.Request) {
	var payload model.WriteFileRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	if strings.TrimSpace(payload.Path) == "" || payload.Content == nil {
		writeError(w, apierror.InvalidInput("path and content are required", ""))
		return
	}

	if err := h.files.WriteFile(r.Context(), payload.Workspace, payload.Path, *payload.Content); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.SuccessResponse{Success: true})
}

func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	path, err := requiredQuery(r, "path")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.files.DeleteFile(r.Context(), r.URL.Query().Get("workspace"), path); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.SuccessResponse{Success: true})
}

// Image serves an image inline. With ?size= it returns a JPEG scaled to fit.
func (h *FileHandler) Image(w http.ResponseWriter, r *http.Request) {
	path, err := requiredQuery(r, "path")
	if err != nil {
		writeError(w, err)
		return
	}

	size := parseIntOrDefault(r.URL.Query().Get("size"), defaultImageSize)

	img, err := h.files.ReadImage(r.Context(), r.URL.Query().Get("workspace"), path, size)
	if err != nil {
		writeError(w, err)
		return
	}
	defer img.Reader.Close()

	w.Header().Set("Content-Type", img.MIMEType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": img.Name}))
	w.Header().Set("Cache-Control", "private, max-age=60")
	w.Header().Set("Content-Security-Policy", "default-src 'none'; style-src 'unsafe-inline'; sandbox")
	http.ServeContent(w, r, img.Name, img.ModTime, img.Reader)
}

func (h *FileHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	data, err := h.search.Search(r.Context(), query.Get("workspace"), query.Get("q"), parseIntOrDefault(query.Get("limit"), 0))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, data)
}
