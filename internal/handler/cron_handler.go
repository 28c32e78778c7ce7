package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-workspace-dashboard/internal/gateway"
	"go-workspace-dashboard/internal/model"
)

type CronHandler struct {
	jobs *gateway.JobGateway
}

func NewCronHandler(jobs *gateway.JobGateway) *CronHandler {
	return &CronHandler{jobs: jobs}
}

func (h *CronHandler) List(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.jobs.ListJobs(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"jobs": jobs})
}

func (h *CronHandler) Run(w http.ResponseWriter, r *http.Request) {
	if err := h.jobs.RunJob(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.SuccessResponse{Success: true})
}

// Toggle treats a missing or empty body as {"enabled": false}.
func (h *CronHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := gateway.ValidateJobID(id); err != nil {
		writeError(w, err)
		return
	}

	var payload model.ToggleJobRequest
	if err := decodeJSON(w, r, &payload); err != nil && !errors.Is(err, errEmptyBody) {
		writeError(w, err)
		return
	}

	action, err := h.jobs.SetEnabled(r.Context(), id, payload.Enabled)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.ToggleJobResponse{Success: true, Action: action})
}
