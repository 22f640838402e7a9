package server

import (
	"net/http"
	"strconv"

	"github.com/HypoDev/MineGlass/pkg/blob"
)

// maxImageBytes caps image uploads at 5 MiB.
const maxImageBytes = 5 << 20

type uploadResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// uploadImageHandler stores a multipart image upload and returns the object
// key and public URL. The key goes back into a later create/update request
// as imageKey.
func (s *Server) uploadImageHandler(w http.ResponseWriter, r *http.Request) {
	if s.storage == nil {
		s.writeError(w, r, badRequestf("no object storage configured"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, r, badRequestf("missing file: %v", err))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	switch contentType {
	case "image/png", "image/jpeg", "image/webp", "image/gif":
	default:
		s.writeError(w, r, badRequestf("unsupported content type %q", contentType))
		return
	}

	prefix := r.URL.Query().Get("prefix")
	if prefix != "mods" && prefix != "servers" {
		prefix = "uploads"
	}

	key := blob.RandomKey(prefix)
	url, err := s.storage.Put(r.Context(), key, file, contentType)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info("image uploaded", "key", key, "size", header.Size)
	writeJSON(w, http.StatusCreated, uploadResponse{Key: key, URL: url})
}

// listAuditHandler returns recent audit events, newest first.
func (s *Server) listAuditHandler(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			s.writeError(w, r, badRequestf("invalid limit %q", raw))
			return
		}
		limit = n
	}

	events, err := s.auditLog.List(limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newListResponse(events, len(events), 1, len(events)))
}
