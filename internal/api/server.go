// Package api exposes documents, shuffling and file ingest over HTTP.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dgallion1/docshuffle/internal/config"
	"github.com/dgallion1/docshuffle/internal/docstore"
	"github.com/dgallion1/docshuffle/internal/model"
	"github.com/dgallion1/docshuffle/internal/pipeline"
	"github.com/dgallion1/docshuffle/internal/shuffle"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for docshuffle.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	docs         *docstore.Store
	schema       *model.Schema
	shuffler     *shuffle.Shuffler
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server. shuffler is shared by
// all requests, so its source must be safe for concurrent use.
func NewServer(orch *pipeline.Orchestrator, schema *model.Schema, shuffler *shuffle.Shuffler, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		docs:         orch.Documents(),
		schema:       schema,
		shuffler:     shuffler,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)
	r.Get("/", s.handleView)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/ingest", s.handleIngest)
		r.Get("/api/ingest/{jobID}/status", s.handleIngestStatus)
		r.Post("/api/ingest/batch", s.handleBatchIngest)
		r.Get("/api/stats/shuffle", s.handleShuffleStats)

		r.Route("/api/documents", func(r chi.Router) {
			r.Post("/", s.handleCreateDocument)
			r.Get("/", s.handleListDocuments)
			r.Get("/{docID}", s.handleGetDocument)
			r.Get("/{docID}/html", s.handleDocumentHTML)
			r.Post("/{docID}/shuffle", s.handleShuffleDocument)
			r.Delete("/{docID}", s.handleDeleteDocument)
		})
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"documents":   s.docs.Len(),
		"queue_depth": s.orchestrator.QueueDepth(),
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
