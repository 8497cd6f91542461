package http

import (
	"encoding/json"
	"net/http"

	"ecomdash/internal/log"
	"ecomdash/internal/middleware/trace"
)

// tableResponse is the JSON shape of every table endpoint. Total is the
// size of the full table before the limit is applied.
type tableResponse[T any] struct {
	Total int `json:"total"`
	Rows  []T `json:"rows"`
}

func newTable[T any](all, shown []T) tableResponse[T] {
	if shown == nil {
		shown = []T{}
	}
	return tableResponse[T]{Total: len(all), Rows: shown}
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Encode response failed", "error", err, "path", r.URL.Path)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, errorResponse{Error: msg, RequestID: trace.GetRequestID(r.Context())})
}
