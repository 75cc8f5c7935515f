// Package httputil holds the JSON response helpers shared by the HTTP
// handlers.
package httputil

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/banshee-data/motion.report/internal/monitoring"
)

var logf = monitoring.Component("http")

// WriteJSON writes v as a JSON body with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logf("failed to write response: %v", err)
	}
}

// WriteJSONError writes {"error": msg} with the given status code.
func WriteJSONError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, map[string]string{"error": msg})
}

// AllowMethods reports whether r uses one of methods. Otherwise it sets the
// Allow header and returns false, leaving the body to the caller.
func AllowMethods(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	w.Header().Set("Allow", strings.Join(methods, ", "))
	return false
}

// RequireMethod is AllowMethods followed by a 405 JSON error when the method
// is not allowed.
func RequireMethod(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	if AllowMethods(w, r, methods...) {
		return true
	}
	WriteJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
	return false
}
