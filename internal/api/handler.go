// Package api provides the HTTP handlers for the library REST API.
package api

import (
	"log/slog"
	"net/http"

	"shelf-demo/internal/middleware"
	"shelf-demo/internal/service"
)

// Handler holds the services the HTTP layer delegates to.
type Handler struct {
	authors *service.AuthorService
	books   *service.BookService
	members *service.MemberService
	loans   *service.LoanService
	audit   *service.AuditService
	logger  *slog.Logger
}

// NewHandler creates the API handler.
func NewHandler(
	authors *service.AuthorService,
	books *service.BookService,
	members *service.MemberService,
	loans *service.LoanService,
	audit *service.AuditService,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		authors: authors,
		books:   books,
		members: members,
		loans:   loans,
		audit:   audit,
		logger:  logger,
	}
}

// health is the liveness endpoint. It deliberately touches no dependencies.
func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// principal returns the authenticated principal, or "anonymous" on public
// routes.
func principal(r *http.Request) string {
	if name, ok := middleware.PrincipalFromContext(r.Context()); ok && name != "" {
		return name
	}
	return "anonymous"
}
