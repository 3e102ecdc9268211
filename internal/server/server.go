package server

import (
	"io/fs"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/lazypower/bestfriend/internal/engine"
	"github.com/lazypower/bestfriend/internal/logger"
	"github.com/lazypower/bestfriend/internal/store"
	"github.com/lazypower/bestfriend/internal/validation"
)

// Server is the bestfriend HTTP API server.
type Server struct {
	db       *store.DB
	router   chi.Router
	version  string
	started  time.Time
	log      *slog.Logger
	validate *validation.Validator
	clock    engine.Clock
	newRand  func() *rand.Rand
	origins  []string
	window   int
	limiter  *rateLimiter
	ui       fs.FS
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for request and error logs.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithClock pins "today" for the upcoming-events endpoints.
func WithClock(c engine.Clock) Option {
	return func(s *Server) { s.clock = c }
}

// WithRand sets the source handed to the suggestion engine on each chat call.
func WithRand(fn func() *rand.Rand) Option {
	return func(s *Server) { s.newRand = fn }
}

// WithAllowedOrigins enables CORS for the given browser origins.
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) { s.origins = origins }
}

// WithWindowDays sets the default lookahead for upcoming events.
func WithWindowDays(days int) Option {
	return func(s *Server) { s.window = days }
}

// WithChatLimit rate limits POST /api/chat per client IP. A burst of 0
// disables the limiter.
func WithChatLimit(rps float64, burst int) Option {
	return func(s *Server) {
		if burst > 0 {
			s.limiter = newRateLimiter(rps, burst)
		}
	}
}

// WithUI serves a built frontend from fsys under /app/.
func WithUI(fsys fs.FS) Option {
	return func(s *Server) { s.ui = fsys }
}

// New creates a new Server with the given database and version string.
func New(db *store.DB, version string, opts ...Option) *Server {
	s := &Server{
		db:       db,
		version:  version,
		started:  time.Now(),
		log:      logger.Discard(),
		validate: validation.New(),
		clock:    engine.RealClock{},
		newRand:  engine.NewRand,
		window:   engine.DefaultWindowDays,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close releases background resources held by the server.
func (s *Server) Close() {
	if s.limiter != nil {
		s.limiter.Stop()
	}
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Bestest Friend API"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	dbOK := true
	if err := s.db.PingContext(r.Context()); err != nil {
		dbOK = false
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
		"uptime":  time.Since(s.started).Seconds(),
		"db":      dbOK,
		"db_path": s.db.Path,
	})
}

func (s *Server) corsHandler() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   s.origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
