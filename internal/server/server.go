package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/lazypower/twentyq/internal/game"
)

// Server is the twentyq HTTP server: the embedded game page plus the chat
// endpoint the page talks to.
type Server struct {
	store   game.Store
	engine  *game.Engine
	router  chi.Router
	version string
	started time.Time

	// cookieMaxAge bounds the session cookie lifetime; zero means a
	// session cookie with no explicit expiry.
	cookieMaxAge time.Duration
}

// New creates a new Server over the given store and engine.
func New(store game.Store, engine *game.Engine, version string) *Server {
	s := &Server{
		store:   store,
		engine:  engine,
		version: version,
		started: time.Now(),
	}
	s.routes()
	return s
}

// SetCookieMaxAge sets the session cookie lifetime, normally the store TTL.
func (s *Server) SetCookieMaxAge(d time.Duration) {
	s.cookieMaxAge = d
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(90 * time.Second))

	r.Get("/api/health", s.handleHealth)
	r.Post("/chat", s.handleChat)
	r.Get("/*", uiHandler())

	s.router = r
}

// pinger is implemented by the SQLite store; the memory store has nothing
// to probe.
type pinger interface {
	Ping() error
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	storeOK := true
	if p, ok := s.store.(pinger); ok {
		if err := p.Ping(); err != nil {
			storeOK = false
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"version": s.version,
		"uptime":  time.Since(s.started).Seconds(),
		"store":   storeOK,
	})
}
