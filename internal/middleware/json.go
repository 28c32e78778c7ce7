package middleware

import (
	"encoding/json"
	"net/http"

	"go-workspace-dashboard/internal/model"
)

// errorBody renders the {error} shape shared with the handlers.
func errorBody(message string) []byte {
	body, _ := json.Marshal(model.ErrorResponse{Error: message})
	return body
}

func writeJSONError(w http.ResponseWriter, status int, message string, headers map[string]string) {
	for k, v := range headers {
		w.Header().Set(k, v)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(errorBody(message), '\n'))
}
