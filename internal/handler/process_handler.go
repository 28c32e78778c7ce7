package handler

import (
	"net/http"

	"go-workspace-dashboard/internal/gateway"
	"go-workspace-dashboard/internal/model"
)

type ProcessHandler struct {
	processes *gateway.ProcessGateway
	system    *gateway.SystemGateway
}

func NewProcessHandler(processes *gateway.ProcessGateway, system *gateway.SystemGateway) *ProcessHandler {
	return &ProcessHandler{processes: processes, system: system}
}

func (h *ProcessHandler) List(w http.ResponseWriter, r *http.Request) {
	processes, err := h.processes.ListProcesses(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"processes": processes})
}

func (h *ProcessHandler) Kill(w http.ResponseWriter, r *http.Request) {
	var payload model.KillProcessRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	pid, err := gateway.ParsePID(payload.PID)
	if err != nil {
		writeError(w, err)
		return
	}

	signal, err := gateway.NormalizeSignal(payload.Signal)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.processes.KillProcess(r.Context(), pid, signal); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.KillProcessResponse{Success: true, PID: pid, Signal: signal})
}

func (h *ProcessHandler) System(w http.ResponseWriter, r *http.Request) {
	stats, err := h.system.Stats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
