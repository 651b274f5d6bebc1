package api

import (
	"net/http"
	"strconv"
	"time"

	"shelf-demo/internal/domain"
)

type borrowRequest struct {
	MemberID int64 `json:"member_id"`
	BookID   int64 `json:"book_id"`
}

// listLoans returns active loans, filtered by ?member_id= when present.
func (h *Handler) listLoans(w http.ResponseWriter, r *http.Request) {
	var memberID *int64
	if raw := r.URL.Query().Get("member_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			writeError(w, http.StatusBadRequest, "invalid member_id "+strconv.Quote(raw))
			return
		}
		memberID = &id
	}

	loans, err := h.loans.ListActive(r.Context(), memberID)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loansJSON(loans))
}

func (h *Handler) listOverdueLoans(w http.ResponseWriter, r *http.Request) {
	loans, err := h.loans.ListOverdue(r.Context(), time.Now().UTC())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loansJSON(loans))
}

func (h *Handler) borrowCopy(w http.ResponseWriter, r *http.Request) {
	var req borrowRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	loan, err := h.loans.Borrow(r.Context(), principal(r), domain.BorrowRequest{
		MemberID: req.MemberID,
		BookID:   req.BookID,
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, loanJSON(*loan))
}

func (h *Handler) returnCopy(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.loans.Return(r.Context(), principal(r), id); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "returned"})
}
