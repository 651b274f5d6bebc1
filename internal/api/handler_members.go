package api

import (
	"net/http"

	"shelf-demo/internal/domain"
)

type createMemberRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (h *Handler) listMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.members.List(r.Context())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	out := make([]Member, 0, len(members))
	for _, m := range members {
		out = append(out, memberJSON(m))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) createMember(w http.ResponseWriter, r *http.Request) {
	var req createMemberRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	member, err := h.members.Create(r.Context(), principal(r), domain.CreateMemberRequest{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, memberJSON(*member))
}
