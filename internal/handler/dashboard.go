package handler

import (
	"net/http"

	"github.com/lenden-labs/lending-ledger/pkg/response"
)

func (h *LedgerHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Dashboard(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, summary)
}

func (h *LedgerHandler) Defaulters(w http.ResponseWriter, r *http.Request) {
	defaulters, err := h.service.Defaulters(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, defaulters)
}

func (h *LedgerHandler) MissedPayments(w http.ResponseWriter, r *http.Request) {
	missed, err := h.service.MissedPayments(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, missed)
}

// Truncate empties the record store. Restore hook for the backup
// collaborator; not exposed outside the admin prefix.
func (h *LedgerHandler) Truncate(w http.ResponseWriter, r *http.Request) {
	if err := h.service.TruncateAll(r.Context()); err != nil {
		writeServiceError(w, err)
		return
	}

	response.NoContent(w)
}
