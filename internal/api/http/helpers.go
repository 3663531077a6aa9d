package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/openlearn/lms-backend/internal/enroll"
	"github.com/openlearn/lms-backend/internal/progress"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// businessError maps recoverable outcomes to 4xx; anything else is a
// storage-layer failure.
func businessError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, progress.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, progress.ErrAlreadyCompleted), errors.Is(err, enroll.ErrAlreadyEnrolled):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, progress.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "server error", http.StatusInternalServerError)
	}
}

func parseIntDefault(s string, def int) int {
	if v, err := strconv.Atoi(s); err == nil && v >= 0 {
		return v
	}
	return def
}
