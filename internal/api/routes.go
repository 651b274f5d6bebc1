package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"shelf-demo/internal/middleware"
	"shelf-demo/internal/querystats"
)

// RouterConfig carries the wiring knobs the router needs from the application
// config. Values are copied at construction and never read again.
type RouterConfig struct {
	QueryStats         querystats.Options
	RequestLogging     bool
	CORSAllowedOrigins []string
	RateLimit          middleware.RateLimitConfig
	JWTSecret          []byte
}

// NewRouter builds the chi router. The query-stats middleware sits directly
// behind RequestID so its summary covers everything below it, including
// rate-limited and recovered requests.
func NewRouter(h *Handler, ui http.Handler, cfg RouterConfig, logger *slog.Logger) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	if cfg.RequestLogging {
		r.Use(querystats.Middleware(cfg.QueryStats, logger))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))
	if cfg.RateLimit.RequestsPerSecond > 0 {
		r.Use(middleware.RateLimiter(cfg.RateLimit))
	}
	r.Use(chimw.Recoverer)

	r.Get("/healthz", h.health)

	r.Route("/v1", func(r chi.Router) {
		// Public reads and demo actions.
		r.Get("/books", h.listBooks)
		r.Get("/books/{id}", h.getBook)
		r.Get("/authors", h.listAuthors)
		r.Get("/authors/{id}", h.getAuthor)
		r.Get("/members", h.listMembers)
		r.Get("/loans", h.listLoans)
		r.Get("/loans/overdue", h.listOverdueLoans)
		r.Post("/loans", h.borrowCopy)
		r.Post("/copies/{id}/return", h.returnCopy)

		// Admin writes require a JWT with the admin claim.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(cfg.JWTSecret))
			r.Post("/authors", h.createAuthor)
			r.Post("/books", h.createBook)
			r.Post("/books/{id}/copies", h.addCopies)
			r.Post("/members", h.createMember)
			r.Get("/audit", h.listAudit)
		})
	})

	if ui != nil {
		r.Get("/ui", ui.ServeHTTP)
	}

	return r
}
