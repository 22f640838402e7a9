// Package server wires the catalog, submission, and identity components
// into the public HTTP API.
package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"gorm.io/gorm"

	"github.com/HypoDev/MineGlass/pkg/audit"
	"github.com/HypoDev/MineGlass/pkg/auth"
	"github.com/HypoDev/MineGlass/pkg/blob"
	"github.com/HypoDev/MineGlass/pkg/cache"
	"github.com/HypoDev/MineGlass/pkg/catalog"
	"github.com/HypoDev/MineGlass/pkg/store"
	"github.com/HypoDev/MineGlass/pkg/submissions"
)

// Config carries the server's collaborators. Storage may be nil; image
// uploads are then rejected.
type Config struct {
	DB      *gorm.DB
	Logger  *slog.Logger
	Seed    *catalog.Seed
	Storage blob.Storage
	Issuer  *auth.TokenIssuer
}

// Server owns the HTTP API. The browse endpoints serve the union of the
// seed catalog, the managed catalog, and approved submissions.
type Server struct {
	logger          *slog.Logger
	db              *gorm.DB
	catalogStore    *store.CatalogStore
	submissionStore *submissions.Store
	auditLog        *audit.Log
	provider        *auth.Provider
	issuer          *auth.TokenIssuer
	storage         blob.Storage
	browseCache     *cache.BrowseCache
	startedAt       time.Time

	mu   sync.RWMutex
	seed *catalog.Seed
}

// NewServer creates the server and migrates its tables.
func NewServer(cfg Config) (*Server, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	seed := cfg.Seed
	if seed == nil {
		seed = &catalog.Seed{}
	}

	s := &Server{
		logger:          logger,
		db:              cfg.DB,
		catalogStore:    store.NewCatalogStore(cfg.DB, cfg.Storage, logger),
		submissionStore: submissions.NewStore(cfg.DB),
		auditLog:        audit.NewLog(cfg.DB),
		provider:        auth.NewMockProvider(),
		issuer:          cfg.Issuer,
		storage:         cfg.Storage,
		browseCache:     cache.New(1000, 30*time.Second),
		startedAt:       time.Now(),
		seed:            seed,
	}

	if err := s.catalogStore.AutoMigrate(); err != nil {
		return nil, fmt.Errorf("migrate catalog: %w", err)
	}
	if err := s.submissionStore.AutoMigrate(); err != nil {
		return nil, fmt.Errorf("migrate submissions: %w", err)
	}
	if err := s.auditLog.AutoMigrate(); err != nil {
		return nil, fmt.Errorf("migrate audit: %w", err)
	}

	return s, nil
}

// SetSeed swaps in a newly loaded seed. Used by the hot reload watcher.
func (s *Server) SetSeed(seed *catalog.Seed) {
	s.mu.Lock()
	s.seed = seed
	s.mu.Unlock()
	s.browseCache.Invalidate()
}

func (s *Server) currentSeed() *catalog.Seed {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.seed
}

// MountRoutes creates the HTTP router with all API routes mounted.
func (s *Server) MountRoutes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(auth.Middleware(s.issuer))

	r.Get("/healthz", s.healthHandler)
	r.Get("/livez", s.healthHandler)
	r.Get("/readyz", s.readyHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", s.loginHandler)
		r.With(auth.RequireAuth).Post("/auth/logout", s.logoutHandler)
		r.With(auth.RequireAuth).Get("/auth/me", s.meHandler)

		cached := cache.Middleware(s.browseCache)

		r.With(cached).Get("/categories", s.listCategoriesHandler)

		r.Route("/mods", func(r chi.Router) {
			r.With(cached).Get("/", s.listModsHandler)
			r.Get("/{id}", s.getModHandler)
			r.With(auth.RequireAdmin).Post("/", s.createModHandler)
			r.With(auth.RequireAdmin).Put("/{id}", s.updateModHandler)
			r.With(auth.RequireAdmin).Delete("/{id}", s.deleteModHandler)
		})

		r.Route("/servers", func(r chi.Router) {
			r.With(cached).Get("/", s.listServersHandler)
			r.Get("/{id}", s.getServerHandler)
			r.With(auth.RequireAdmin).Post("/", s.createServerHandler)
			r.With(auth.RequireAdmin).Put("/{id}", s.updateServerHandler)
			r.With(auth.RequireAdmin).Delete("/{id}", s.deleteServerHandler)
		})

		r.Route("/submissions", func(r chi.Router) {
			r.With(auth.RequireAuth).Post("/", s.submitHandler)
			r.With(auth.RequireAuth).Get("/mine", s.mySubmissionsHandler)
			r.With(auth.RequireAdmin).Get("/", s.pendingSubmissionsHandler)
			r.With(auth.RequireAdmin).Post("/{id}/approve", s.approveSubmissionHandler)
			r.With(auth.RequireAdmin).Post("/{id}/reject", s.rejectSubmissionHandler)
		})

		r.With(auth.RequireAdmin).Post("/images", s.uploadImageHandler)
		r.With(auth.RequireAdmin).Get("/audit", s.listAuditHandler)
	})

	return r
}

// healthHandler returns the liveness status of the server.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "alive",
		"uptime": time.Since(s.startedAt).Round(time.Second).String(),
	})
}

// readyHandler verifies DB connectivity before reporting ready.
func (s *Server) readyHandler(w http.ResponseWriter, r *http.Request) {
	dbStatus := map[string]string{"status": "up"}
	ready := true

	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus["status"] = "down"
		dbStatus["error"] = err.Error()
		ready = false
	} else if err := sqlDB.Ping(); err != nil {
		dbStatus["status"] = "down"
		dbStatus["error"] = err.Error()
		ready = false
	}

	status := "ready"
	code := http.StatusOK
	if !ready {
		status = "not_ready"
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]any{
		"status":     status,
		"components": map[string]any{"database": dbStatus},
	})
}

// decodeBody parses a JSON request body into v.
func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", errBadRequest, err)
	}
	return nil
}
