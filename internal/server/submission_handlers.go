package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/HypoDev/MineGlass/pkg/audit"
	"github.com/HypoDev/MineGlass/pkg/auth"
	"github.com/HypoDev/MineGlass/pkg/catalog"
	"github.com/HypoDev/MineGlass/pkg/submissions"
)

// submitRequest proposes one new catalog entry. Exactly one of Mod or
// Server must be set, matching Kind.
type submitRequest struct {
	Kind   submissions.Kind `json:"kind"`
	Mod    *catalog.Mod     `json:"mod,omitempty"`
	Server *catalog.Server  `json:"server,omitempty"`
}

func (s *Server) submitHandler(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	var req submitRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	var rec *submissions.SubmissionRecord
	var err error
	switch req.Kind {
	case submissions.KindMod:
		if req.Mod == nil {
			s.writeError(w, r, badRequestf("mod payload required"))
			return
		}
		if req.Mod.Title == "" {
			s.writeError(w, r, badRequestf("title required"))
			return
		}
		if !req.Mod.Category.Valid() {
			s.writeError(w, r, badRequestf("unknown category %q", req.Mod.Category))
			return
		}
		rec, err = s.submissionStore.SubmitMod(*req.Mod, id.Username)
	case submissions.KindServer:
		if req.Server == nil {
			s.writeError(w, r, badRequestf("server payload required"))
			return
		}
		if req.Server.Name == "" {
			s.writeError(w, r, badRequestf("name required"))
			return
		}
		if !req.Server.Type.Valid() {
			s.writeError(w, r, badRequestf("unknown server type %q", req.Server.Type))
			return
		}
		rec, err = s.submissionStore.SubmitServer(*req.Server, id.Username)
	default:
		s.writeError(w, r, badRequestf("unknown submission kind %q", req.Kind))
		return
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info("submission received", "id", rec.ID, "kind", rec.Kind, "submitter", id.Username)
	writeJSON(w, http.StatusCreated, rec)
}

// mySubmissionsHandler lists the caller's submissions, newest first.
func (s *Server) mySubmissionsHandler(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	records, err := s.submissionStore.BySubmitter(id.Username)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newListResponse(records, len(records), 1, len(records)))
}

// pendingSubmissionsHandler lists the review queue, oldest first.
func (s *Server) pendingSubmissionsHandler(w http.ResponseWriter, r *http.Request) {
	records, err := s.submissionStore.Pending()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newListResponse(records, len(records), 1, len(records)))
}

func (s *Server) approveSubmissionHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	actor, _ := auth.IdentityFromContext(r.Context())

	if err := s.submissionStore.Approve(id, actor.Username); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.browseCache.Invalidate()
	s.audit(r, audit.ActionSubmissionApproved, id, "")
	rec, err := s.submissionStore.Get(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

type rejectRequest struct {
	Note string `json:"note"`
}

func (s *Server) rejectSubmissionHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	actor, _ := auth.IdentityFromContext(r.Context())

	var req rejectRequest
	if r.ContentLength > 0 {
		if err := decodeBody(r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	if err := s.submissionStore.Reject(id, actor.Username, req.Note); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.audit(r, audit.ActionSubmissionRejected, id, req.Note)
	rec, err := s.submissionStore.Get(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
