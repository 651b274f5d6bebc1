package api

import (
	"net/http"

	"shelf-demo/internal/domain"
)

type createAuthorRequest struct {
	Name string `json:"name"`
}

func (h *Handler) listAuthors(w http.ResponseWriter, r *http.Request) {
	authors, err := h.authors.List(r.Context())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	out := make([]Author, 0, len(authors))
	for _, a := range authors {
		out = append(out, authorJSON(a))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) getAuthor(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	author, err := h.authors.GetByID(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, authorJSON(*author))
}

func (h *Handler) createAuthor(w http.ResponseWriter, r *http.Request) {
	var req createAuthorRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	author, err := h.authors.Create(r.Context(), principal(r), domain.CreateAuthorRequest{Name: req.Name})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, authorJSON(*author))
}
