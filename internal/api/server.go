// Package api implements the REST API server for the mulligan trainer.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"mulligan-trainer/internal/api/handlers"
	"mulligan-trainer/internal/api/response"
	"mulligan-trainer/internal/simulation"
	"mulligan-trainer/internal/stats"
)

// Config holds configuration for the API server.
type Config struct {
	Port           int
	RequestTimeout time.Duration
}

// DefaultConfig returns the default API server configuration.
func DefaultConfig() *Config {
	return &Config{
		Port:           8080,
		RequestTimeout: 60 * time.Second,
	}
}

// Server is the REST API server. It owns the single simulation engine and
// decision store for the process.
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	port       int
	timeout    time.Duration

	deckHandler       *handlers.DeckHandler
	simulationHandler *handlers.SimulationHandler
	decisionsHandler  *handlers.DecisionsHandler
}

// NewServer creates a new API server.
func NewServer(cfg *Config, resolver handlers.CardResolver, engine *simulation.Engine, store *stats.Store) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	s := &Server{
		router:            chi.NewRouter(),
		port:              cfg.Port,
		timeout:           cfg.RequestTimeout,
		deckHandler:       handlers.NewDeckHandler(resolver),
		simulationHandler: handlers.NewSimulationHandler(engine, resolver),
		decisionsHandler:  handlers.NewDecisionsHandler(store),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(s.timeout))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	s.router.Use(jsonContentTypeMiddleware)
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.healthCheck)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Route("/decks", func(r chi.Router) {
			r.Post("/parse", s.deckHandler.ParseDecklist)
		})

		r.Route("/cards", func(r chi.Router) {
			r.Post("/resolve", s.deckHandler.ResolveCards)
			r.Delete("/cache", s.deckHandler.ClearCache)
		})

		r.Route("/simulation", func(r chi.Router) {
			r.Get("/", s.simulationHandler.GetState)
			r.Post("/hands", s.simulationHandler.NewHand)
			r.Post("/mulligan", s.simulationHandler.Mulligan)
			r.Post("/keep", s.simulationHandler.Keep)
			r.Post("/bottom", s.simulationHandler.BottomCards)
			r.Post("/draw", s.simulationHandler.DrawCard)
			r.Post("/reset", s.simulationHandler.Reset)
		})

		r.Route("/decisions", func(r chi.Router) {
			r.Post("/", s.decisionsHandler.RecordDecision)
			r.Get("/", s.decisionsHandler.ListDecisions)
			r.Delete("/", s.decisionsHandler.ClearDecisions)
			r.Get("/stats/{deckID}", s.decisionsHandler.GetDeckStats)
		})
	})
}

// healthCheck responds to health probes.
func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonContentTypeMiddleware enforces application/json for requests with bodies.
func jsonContentTypeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.ContentLength != 0 {
			contentType := r.Header.Get("Content-Type")
			if contentType != "application/json" && !strings.HasPrefix(contentType, "application/json;") {
				http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// Router returns the server's HTTP handler, for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the API server in a goroutine.
func (s *Server) Start() {
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      s.timeout,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("API server starting", "port", s.port)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("API server error", "error", err)
		}
	}()
}

// Shutdown gracefully stops the API server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
