package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/HypoDev/MineGlass/pkg/auth"
	"github.com/HypoDev/MineGlass/pkg/catalog"
	"github.com/HypoDev/MineGlass/pkg/store"
	"github.com/HypoDev/MineGlass/pkg/submissions"
)

// listResponse is the envelope for every collection endpoint. TotalCount is
// the post-filter size, not the page size, so clients can render pagers.
type listResponse[T any] struct {
	Items      []T `json:"items"`
	TotalCount int `json:"totalCount"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
}

// newListResponse builds the envelope, normalizing a nil item slice to an
// empty one so the JSON is always an array, never null.
func newListResponse[T any](items []T, total, page, pageSize int) listResponse[T] {
	if items == nil {
		items = []T{}
	}
	return listResponse[T]{
		Items:      items,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors onto HTTP statuses. Unrecognized errors
// become 500 with a generic message; the details go to the log, not the
// client.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := http.StatusInternalServerError
	message := "internal error"

	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, submissions.ErrNotFound):
		code = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, catalog.ErrInvalidSortKey),
		errors.Is(err, submissions.ErrAlreadyResolved),
		errors.Is(err, errBadRequest):
		code = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, auth.ErrInvalidCredentials):
		code = http.StatusUnauthorized
		message = err.Error()
	default:
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}

	writeJSON(w, code, map[string]string{"error": message})
}
