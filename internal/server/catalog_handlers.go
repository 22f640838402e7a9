package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/HypoDev/MineGlass/pkg/audit"
	"github.com/HypoDev/MineGlass/pkg/auth"
	"github.com/HypoDev/MineGlass/pkg/catalog"
	"github.com/HypoDev/MineGlass/pkg/store"
)

// allMods assembles the visible mod collection: seed entries, managed
// entries, and approved submissions, in that order. Entries are not
// deduplicated across sources.
func (s *Server) allMods() ([]catalog.Mod, error) {
	seed := s.currentSeed()
	mods := make([]catalog.Mod, 0, len(seed.Mods))
	mods = append(mods, seed.Mods...)

	managed, err := s.catalogStore.ListMods()
	if err != nil {
		return nil, err
	}
	mods = append(mods, managed...)

	approved, err := s.submissionStore.ApprovedMods()
	if err != nil {
		return nil, err
	}
	return append(mods, approved...), nil
}

func (s *Server) allServers() ([]catalog.Server, error) {
	seed := s.currentSeed()
	servers := make([]catalog.Server, 0, len(seed.Servers))
	servers = append(servers, seed.Servers...)

	managed, err := s.catalogStore.ListServers()
	if err != nil {
		return nil, err
	}
	servers = append(servers, managed...)

	approved, err := s.submissionStore.ApprovedServers()
	if err != nil {
		return nil, err
	}
	return append(servers, approved...), nil
}

// listCategoriesHandler returns the browse categories from the seed.
func (s *Server) listCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	categories := s.currentSeed().Categories
	writeJSON(w, http.StatusOK, newListResponse(categories, len(categories), 1, len(categories)))
}

// listModsHandler serves the filtered, sorted, paginated mod collection.
func (s *Server) listModsHandler(w http.ResponseWriter, r *http.Request) {
	p, err := parseListParams(r, catalog.SortDownloads)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	mods, err := s.allMods()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	items, total, err := catalog.QueryMods(mods, p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newListResponse(items, total, p.Page, p.PageSize))
}

func (s *Server) getModHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	mods, err := s.allMods()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	for _, m := range mods {
		if m.ID == id {
			writeJSON(w, http.StatusOK, m)
			return
		}
	}
	s.writeError(w, r, store.ErrNotFound)
}

// modRequest is the admin create/update payload. ImageKey ties the entry to
// a previously uploaded image object.
type modRequest struct {
	catalog.Mod
	ImageKey string `json:"imageKey,omitempty"`
}

func (s *Server) createModHandler(w http.ResponseWriter, r *http.Request) {
	var req modRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Title == "" {
		s.writeError(w, r, badRequestf("title required"))
		return
	}
	if !req.Category.Valid() {
		s.writeError(w, r, badRequestf("unknown category %q", req.Category))
		return
	}

	created, err := s.catalogStore.CreateMod(req.Mod, req.ImageKey)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.browseCache.Invalidate()
	s.audit(r, audit.ActionEntryCreated, created.ID, created.Title)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) updateModHandler(w http.ResponseWriter, r *http.Request) {
	var req modRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	req.Mod.ID = chi.URLParam(r, "id")
	if !req.Category.Valid() {
		s.writeError(w, r, badRequestf("unknown category %q", req.Category))
		return
	}

	updated, err := s.catalogStore.UpdateMod(r.Context(), req.Mod, req.ImageKey)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.browseCache.Invalidate()
	s.audit(r, audit.ActionEntryUpdated, updated.ID, updated.Title)
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteModHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.catalogStore.DeleteMod(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.browseCache.Invalidate()
	s.audit(r, audit.ActionEntryDeleted, id, "")
	w.WriteHeader(http.StatusNoContent)
}

// listServersHandler serves the server collection with its own sort keys.
func (s *Server) listServersHandler(w http.ResponseWriter, r *http.Request) {
	p, err := parseListParams(r, catalog.SortPlayers)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	servers, err := s.allServers()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	items, total, err := catalog.QueryServers(servers, p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newListResponse(items, total, p.Page, p.PageSize))
}

func (s *Server) getServerHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	servers, err := s.allServers()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	for _, srv := range servers {
		if srv.ID == id {
			writeJSON(w, http.StatusOK, srv)
			return
		}
	}
	s.writeError(w, r, store.ErrNotFound)
}

type serverRequest struct {
	catalog.Server
	ImageKey string `json:"imageKey,omitempty"`
}

func (s *Server) createServerHandler(w http.ResponseWriter, r *http.Request) {
	var req serverRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Name == "" {
		s.writeError(w, r, badRequestf("name required"))
		return
	}
	if !req.Type.Valid() {
		s.writeError(w, r, badRequestf("unknown server type %q", req.Type))
		return
	}

	created, err := s.catalogStore.CreateServer(req.Server, req.ImageKey)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.browseCache.Invalidate()
	s.audit(r, audit.ActionEntryCreated, created.ID, created.Name)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) updateServerHandler(w http.ResponseWriter, r *http.Request) {
	var req serverRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	req.Server.ID = chi.URLParam(r, "id")
	if !req.Type.Valid() {
		s.writeError(w, r, badRequestf("unknown server type %q", req.Type))
		return
	}

	updated, err := s.catalogStore.UpdateServer(r.Context(), req.Server, req.ImageKey)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.browseCache.Invalidate()
	s.audit(r, audit.ActionEntryUpdated, updated.ID, updated.Name)
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteServerHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.catalogStore.DeleteServer(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.browseCache.Invalidate()
	s.audit(r, audit.ActionEntryDeleted, id, "")
	w.WriteHeader(http.StatusNoContent)
}

// audit records an admin action. Failures are logged; the mutating request
// already succeeded.
func (s *Server) audit(r *http.Request, action audit.Action, targetID, detail string) {
	actor := "unknown"
	if id, ok := auth.IdentityFromContext(r.Context()); ok {
		actor = id.Username
	}
	if err := s.auditLog.Append(actor, action, targetID, detail); err != nil {
		s.logger.Error("failed to append audit event", "action", action, "target", targetID, "error", err)
	}
}
