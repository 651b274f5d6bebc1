// Package ui serves the server-rendered library pages.
package ui

import (
	"log/slog"
	"net/http"

	gomponents "maragu.dev/gomponents"

	"shelf-demo/internal/service"
)

// Handler renders the HTML pages. The books page computes availability
// through the same per-book service path as the JSON API, so loading it in a
// browser exercises the request's query diagnostics.
type Handler struct {
	books  *service.BookService
	loans  *service.LoanService
	logger *slog.Logger
}

func NewHandler(books *service.BookService, loans *service.LoanService, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{books: books, loans: loans, logger: logger}
}

// ServeHTTP renders the books page.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	books, err := h.books.List(r.Context())
	if err != nil {
		h.logger.Error("render books page", "error", err)
		renderHTML(w, http.StatusInternalServerError, errorPage("Something went wrong", "The catalog could not be loaded."))
		return
	}
	loans, err := h.loans.ListActive(r.Context(), nil)
	if err != nil {
		h.logger.Error("render books page", "error", err)
		renderHTML(w, http.StatusInternalServerError, errorPage("Something went wrong", "The loan list could not be loaded."))
		return
	}
	renderHTML(w, http.StatusOK, booksPage(books, loans))
}

func renderHTML(w http.ResponseWriter, status int, node gomponents.Node) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = node.Render(w)
}
