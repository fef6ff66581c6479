package api

import (
	"log/slog"
	"net/http"

	"themefinder/internal/config"
	"themefinder/internal/docstore"
	"themefinder/internal/extract"
	"themefinder/internal/indexer"
	"themefinder/internal/llm"
	"themefinder/internal/search"
	"themefinder/internal/synthesis"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP front door: upload, index, query.
type Server struct {
	router  chi.Router
	engine  *extract.Engine
	docs    *docstore.Store
	indexer *indexer.Indexer
	search  *search.Service
	synth   *synthesis.Orchestrator
	llm     *llm.Client
	log     *slog.Logger
	cfg     config.Config
}

func NewServer(
	engine *extract.Engine,
	docs *docstore.Store,
	ix *indexer.Indexer,
	searchSvc *search.Service,
	synth *synthesis.Orchestrator,
	llmClient *llm.Client,
	log *slog.Logger,
	cfg config.Config,
) *Server {
	s := &Server{
		engine:  engine,
		docs:    docs,
		indexer: ix,
		search:  searchSvc,
		synth:   synth,
		llm:     llmClient,
		log:     log,
		cfg:     cfg,
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

	r.Get("/health", s.handleHealth)

	r.Post("/api/upload", s.handleUpload)
	r.Post("/api/index", s.handleIndex)
	r.Get("/api/index/stats", s.handleIndexStats)
	r.Post("/api/query", s.handleQuery)
	r.Get("/api/documents/{docID}", s.handleDocumentChunks)
	r.Get("/api/stats/llm", s.handleLLMStats)

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
