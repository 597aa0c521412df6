package handler

import (
	"encoding/json"
	"net/http"

	"github.com/lenden-labs/lending-ledger/internal/domain"
	"github.com/lenden-labs/lending-ledger/pkg/response"
)

func (h *LedgerHandler) CreateBorrower(w http.ResponseWriter, r *http.Request) {
	var request domain.CreateBorrowerRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	borrower, err := h.service.CreateBorrower(r.Context(), &request)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Created(w, borrower)
}

func (h *LedgerHandler) GetBorrower(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		response.BadRequest(w, "Invalid borrower ID", err)
		return
	}

	detail, err := h.service.GetBorrower(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, detail)
}

func (h *LedgerHandler) ListBorrowers(w http.ResponseWriter, r *http.Request) {
	borrowers, err := h.service.ListBorrowers(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, borrowers)
}

func (h *LedgerHandler) UpdateBorrower(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		response.BadRequest(w, "Invalid borrower ID", err)
		return
	}

	var request domain.UpdateBorrowerRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	borrower, err := h.service.UpdateBorrower(r.Context(), id, &request)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, borrower)
}

func (h *LedgerHandler) DeleteBorrower(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		response.BadRequest(w, "Invalid borrower ID", err)
		return
	}

	if err := h.service.DeleteBorrower(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	response.NoContent(w)
}
