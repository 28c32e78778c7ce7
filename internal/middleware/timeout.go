package middleware

import (
	"net/http"
	"time"
)

const defaultRequestTimeout = 30 * time.Second

// Timeout bounds buffered JSON routes with http.TimeoutHandler. Streaming
// routes use StreamingTimeout, since TimeoutHandler buffers the response.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	message := string(errorBody("request timed out"))

	return func(next http.Handler) http.Handler {
		bounded := http.TimeoutHandler(next, timeout, message)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Overwritten by the inner handler's headers unless the deadline fires first.
			w.Header().Set("Content-Type", "application/json")
			bounded.ServeHTTP(w, r)
		})
	}
}
