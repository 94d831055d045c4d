// Package server wires the HTTP surface: Huma REST routes, editor SSE,
// the session service, and DuckDB persistence.
package server

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"

	"github.com/joeblew999/plat-overlay/internal/api"
	"github.com/joeblew999/plat-overlay/internal/api/editor"
	"github.com/joeblew999/plat-overlay/internal/config"
	"github.com/joeblew999/plat-overlay/internal/db"
	"github.com/joeblew999/plat-overlay/internal/event"
	"github.com/joeblew999/plat-overlay/internal/service"
	"github.com/joeblew999/plat-overlay/internal/store"
)

// Config holds the server configuration.
type Config struct {
	Host        string
	Port        string
	DataDir     string
	PresetsFile string // path to the tooltip presets YAML, may not exist
}

// Server is the overlay HTTP server.
type Server struct {
	config   Config
	mux      *http.ServeMux
	humaAPI  huma.API
	db       *sql.DB
	sessions *service.SessionService
	logger   *log.Logger
}

// New creates a new overlay server.
func New(cfg Config) *Server {
	mux := http.NewServeMux()
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "overlay"})

	// Huma API with the humago (pure stdlib) adapter.
	humaConfig := huma.DefaultConfig("plat-overlay API", "1.0.0")
	humaConfig.Info.Description = "Server-side map overlay engine: tooltip placement, auto-pan, and layer bindings per session."
	humaConfig.Servers = []*huma.Server{
		{URL: fmt.Sprintf("http://%s:%s", cfg.Host, cfg.Port), Description: "Local server"},
	}
	// Disable $schema property in responses (cleaner JSON)
	humaConfig.CreateHooks = []func(huma.Config) huma.Config{}

	humaAPI := humago.New(mux, humaConfig)

	s := &Server{
		config:  cfg,
		mux:     mux,
		humaAPI: humaAPI,
		logger:  logger,
	}

	var st *store.Store
	conn, err := db.Get(db.Config{DataDir: cfg.DataDir, DBName: "overlay"})
	if err != nil {
		logger.Warn("database unavailable, sessions will not persist", "err", err)
	} else {
		s.db = conn
		if st, err = store.New(conn); err != nil {
			logger.Warn("store schema setup failed", "err", err)
			st = nil
		}
	}

	presets, err := config.LoadPresets(cfg.PresetsFile)
	if err != nil {
		logger.Warn("loading tooltip presets failed", "file", cfg.PresetsFile, "err", err)
		presets = nil
	} else if len(presets) > 0 {
		logger.Info("tooltip presets loaded", "file", cfg.PresetsFile, "count", len(presets))
	}

	s.sessions = service.NewSessionService(presets, st, event.DefaultBus, logger)

	s.routes(st)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Close closes server resources.
func (s *Server) Close() error {
	return db.Close()
}

// OpenAPI returns the generated spec for export.
func (s *Server) OpenAPI() *huma.OpenAPI {
	return s.humaAPI.OpenAPI()
}

// Sessions exposes the session service, used by the CLI and tests.
func (s *Server) Sessions() *service.SessionService {
	return s.sessions
}

func (s *Server) routes(st *store.Store) {
	// REST API routes (OpenAPI-documented JSON endpoints).
	handler := api.NewAPIHandler(s.sessions)
	huma.AutoRegister(s.humaAPI, handler)

	api.NewInfoHandler(s.config.DataDir, s.db != nil).RegisterRoutes(s.humaAPI)
	api.NewDBHandler(s.db, st).RegisterRoutes(s.humaAPI)

	// Editor SSE routes using Huma + Datastar SDK.
	editor.NewEventHandler(s.sessions, event.DefaultBus).RegisterRoutes(s.humaAPI)
	editor.NewTooltipHandler(s.sessions).RegisterRoutes(s.humaAPI)

	s.mux.HandleFunc("/", s.handleRoot)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"service": "plat-overlay",
		"status":  "running",
	})
}
