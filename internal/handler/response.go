package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"

	"go-workspace-dashboard/internal/model"
	"go-workspace-dashboard/pkg/apierror"
)

const maxJSONBodyBytes = 10 << 20

var errEmptyBody = errors.New("empty request body")

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError renders err as {error}. Server-side failures never expose the
// underlying cause; it goes to the log instead.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		status = apiErr.HTTPStatus
		message = apiErr.Message
		if status >= http.StatusInternalServerError {
			slog.Error("request failed", "code", apiErr.Code, "error", errors.Unwrap(apiErr))
		}
	} else if errors.Is(err, os.ErrNotExist) {
		status = http.StatusNotFound
		message = "Not found"
	} else if errors.Is(err, os.ErrPermission) {
		status = http.StatusForbidden
		message = "Access denied"
	} else {
		slog.Error("unhandled error in writeError", "error", err.Error())
	}

	writeJSON(w, status, model.ErrorResponse{Error: message})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	defer r.Body.Close()

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apierror.Wrap(errEmptyBody, apierror.CodeInvalidInput, "request body is required", http.StatusBadRequest)
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apierror.New(apierror.CodeInvalidInput, "request body too large", "", http.StatusRequestEntityTooLarge)
		}
		return apierror.InvalidInput("invalid JSON body", "")
	}

	return nil
}

func parseIntOrDefault(raw string, fallback int) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return value
}

// requiredQuery returns the raw value of key. Surrounding spaces are kept
// since they can be part of a real file name.
func requiredQuery(r *http.Request, key string) (string, error) {
	value := r.URL.Query().Get(key)
	if strings.TrimSpace(value) == "" {
		return "", apierror.InvalidInput("query parameter '"+key+"' is required", key)
	}
	return value, nil
}
