/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/nathanpasca/manov-sub001/internal/core/author"
	"github.com/nathanpasca/manov-sub001/internal/core/chapter"
	"github.com/nathanpasca/manov-sub001/internal/core/genre"
	"github.com/nathanpasca/manov-sub001/internal/core/language"
	"github.com/nathanpasca/manov-sub001/internal/core/novel"
	"github.com/nathanpasca/manov-sub001/internal/library/favorite"
	"github.com/nathanpasca/manov-sub001/internal/library/progress"
	"github.com/nathanpasca/manov-sub001/internal/platform/config"
	"github.com/nathanpasca/manov-sub001/internal/platform/constants"
	"github.com/nathanpasca/manov-sub001/internal/platform/middleware"
	"github.com/nathanpasca/manov-sub001/internal/search"
	"github.com/nathanpasca/manov-sub001/internal/social/comment"
	"github.com/nathanpasca/manov-sub001/internal/social/rating"
	"github.com/nathanpasca/manov-sub001/internal/users/account"
	"github.com/nathanpasca/manov-sub001/internal/users/admin"
	"github.com/nathanpasca/manov-sub001/internal/users/auth"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
type Handlers struct {
	// Liveness is the /health handler; always 200 while the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler; 200 only when postgres and redis answer.
	Readiness http.HandlerFunc

	Auth    *auth.Handler
	Account *account.Handler
	Admin   *admin.Handler

	Language *language.Handler
	Author   *author.Handler
	Genre    *genre.Handler
	Novel    *novel.Handler
	Chapter  *chapter.Handler

	Rating  *rating.Handler
	Comment *comment.Handler

	Favorite *favorite.Handler
	Progress *progress.Handler

	Search *search.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.CORS(cfg))
	r.Use(middleware.Authenticate(verifier))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.ContentLanguage)

		api.Route("/auth", h.Auth.RegisterRoutes)

		api.Route("/users", func(users chi.Router) {
			h.Account.RegisterRoutes(users)
			h.Favorite.RegisterUserRoutes(users)
			h.Progress.RegisterUserRoutes(users)
		})
		api.Route("/admin/users", h.Admin.RegisterRoutes)

		api.Route("/languages", h.Language.RegisterRoutes)
		api.Route("/authors", h.Author.RegisterRoutes)
		api.Route("/genres", h.Genre.RegisterRoutes)

		api.Route("/novels", func(novels chi.Router) {
			h.Novel.RegisterRoutes(novels)

			novels.Route("/{novelID}/chapters", h.Chapter.RegisterNovelRoutes)
			novels.Route("/{novelID}/ratings", h.Rating.RegisterNovelRoutes)
			novels.Route("/{novelID}/comments", h.Comment.RegisterNovelRoutes)
			novels.Route("/{novelID}/favorite", h.Favorite.RegisterNovelRoutes)
			novels.Route("/{novelID}/progress", h.Progress.RegisterNovelRoutes)
		})

		api.Route("/chapters", func(chapters chi.Router) {
			h.Chapter.RegisterRoutes(chapters)
			chapters.Route("/{chapterID}/comments", h.Comment.RegisterChapterRoutes)
		})
		api.Route("/comments", h.Comment.RegisterRoutes)

		api.Route("/search", h.Search.RegisterRoutes)
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
