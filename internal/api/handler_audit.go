package api

import (
	"net/http"
	"strconv"
)

// listAudit returns recent audit entries, newest first. ?limit= caps the
// result (default 50).
func (h *Handler) listAudit(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid limit "+strconv.Quote(raw))
			return
		}
		limit = n
	}

	entries, err := h.audit.Recent(r.Context(), limit)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	out := make([]AuditEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, auditJSON(e))
	}
	writeJSON(w, http.StatusOK, out)
}
