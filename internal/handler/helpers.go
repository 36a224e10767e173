package handler

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"blogsmith/internal/httputil"
)

// PathParam reads a UUID path value. A malformed id names no resource,
// so it is answered with 404 and ok=false.
func PathParam(w http.ResponseWriter, r *http.Request, name, label string) (string, bool) {
	value := r.PathValue(name)
	if value == "" {
		httputil.RespondError(w, http.StatusBadRequest, fmt.Sprintf("%s is required", label))
		return "", false
	}
	if _, err := uuid.Parse(value); err != nil {
		httputil.RespondError(w, http.StatusNotFound, fmt.Sprintf("%s %s: not found", label, value))
		return "", false
	}
	return value, true
}
