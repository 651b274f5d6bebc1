package api

import (
	"net/http"
	"time"

	"shelf-demo/internal/domain"
)

type createBookRequest struct {
	Title         string     `json:"title"`
	AuthorID      int64      `json:"author_id"`
	PublishedDate *time.Time `json:"published_date,omitempty"`
	Copies        int        `json:"copies,omitempty"`
}

type addCopiesRequest struct {
	Copies int `json:"copies"`
}

func (h *Handler) listBooks(w http.ResponseWriter, r *http.Request) {
	books, err := h.books.List(r.Context())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	out := make([]Book, 0, len(books))
	for _, b := range books {
		out = append(out, bookJSON(b))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) getBook(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	book, err := h.books.GetByID(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bookJSON(*book))
}

func (h *Handler) createBook(w http.ResponseWriter, r *http.Request) {
	var req createBookRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	book, err := h.books.Create(r.Context(), principal(r), domain.CreateBookRequest{
		Title:         req.Title,
		AuthorID:      req.AuthorID,
		PublishedDate: req.PublishedDate,
		Copies:        req.Copies,
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	view, err := h.books.GetByID(r.Context(), book.ID)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, bookJSON(*view))
}

func (h *Handler) addCopies(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req addCopiesRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	created, err := h.books.AddCopies(r.Context(), principal(r), id, req.Copies)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	out := make([]Copy, 0, len(created))
	for _, c := range created {
		out = append(out, copyJSON(c))
	}
	writeJSON(w, http.StatusCreated, out)
}
