package handler

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/lenden-labs/lending-ledger/internal/domain"
	"github.com/lenden-labs/lending-ledger/internal/mocks"
	"github.com/lenden-labs/lending-ledger/internal/service"
)

var handlerNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

type handlerMocks struct {
	borrowers *mocks.MockBorrowerRepository
	loans     *mocks.MockLoanRepository
	payments  *mocks.MockPaymentRepository
	users     *mocks.MockUserRepository
}

func newTestHandler() (*LedgerHandler, *handlerMocks) {
	m := &handlerMocks{
		borrowers: &mocks.MockBorrowerRepository{},
		loans:     &mocks.MockLoanRepository{},
		payments:  &mocks.MockPaymentRepository{},
		users:     &mocks.MockUserRepository{},
	}

	svc := service.NewLedgerService(m.borrowers, m.loans, m.payments, m.users, nil, nil)
	svc.SetNowFunc(func() time.Time { return handlerNow })
	return NewLedgerHandler(svc), m
}

func testRouter(h *LedgerHandler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/borrowers", h.CreateBorrower).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/borrowers/{id}", h.GetBorrower).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/loans", h.CreateLoan).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/loans/{id}/status", h.UpdateLoanStatus).Methods(http.MethodPatch)
	r.HandleFunc("/api/v1/payments/{id}/collect", h.CollectPayment).Methods(http.MethodPost)
	return r
}

func doJSON(t *testing.T, router *mux.Router, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		assert.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateBorrower_Created(t *testing.T) {
	h, m := newTestHandler()
	router := testRouter(h)

	m.borrowers.On("Create", mock.Anything, mock.AnythingOfType("*domain.Borrower")).Return(nil)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/borrowers", map[string]string{
		"name":  "Ramesh",
		"phone": "9000000000",
	})

	assert.Equal(t, http.StatusCreated, rec.Code)

	var envelope struct {
		Success bool            `json:"success"`
		Data    domain.Borrower `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.Equal(t, "Ramesh", envelope.Data.Name)
	assert.NotEqual(t, uuid.Nil, envelope.Data.ID)
}

func TestCreateBorrower_ValidationFailed(t *testing.T) {
	h, m := newTestHandler()
	router := testRouter(h)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/borrowers", map[string]string{
		"name": "No phone",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	m.borrowers.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGetBorrower_InvalidUUID(t *testing.T) {
	h, _ := newTestHandler()
	router := testRouter(h)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/borrowers/not-a-uuid", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetBorrower_NotFound(t *testing.T) {
	h, m := newTestHandler()
	router := testRouter(h)

	id := uuid.New()
	m.borrowers.On("GetByID", mock.Anything, id).Return(nil, sql.ErrNoRows)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/borrowers/"+id.String(), nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var envelope struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
}

func TestCreateLoan_UnknownStrategyRejected(t *testing.T) {
	h, m := newTestHandler()
	router := testRouter(h)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/loans", map[string]interface{}{
		"borrower_id": uuid.New().String(),
		"principal":   12000,
		"start_date":  handlerNow.Format(time.RFC3339),
		"strategy":    "weekly",
	})

	// Rejected by the oneof tag before the service is reached.
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	m.loans.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdateLoanStatus_OK(t *testing.T) {
	h, m := newTestHandler()
	router := testRouter(h)

	id := uuid.New()
	m.loans.On("GetByID", mock.Anything, id).Return(&domain.Loan{ID: id, Status: domain.LoanStatusActive}, nil)
	m.loans.On("UpdateStatus", mock.Anything, id, domain.LoanStatusCompleted).Return(nil)

	rec := doJSON(t, router, http.MethodPatch, "/api/v1/loans/"+id.String()+"/status", map[string]string{
		"status": "completed",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	m.loans.AssertExpectations(t)
}

func TestCollectPayment_Conflict(t *testing.T) {
	h, m := newTestHandler()
	router := testRouter(h)

	id := uuid.New()
	m.payments.On("GetByID", mock.Anything, id).Return(&domain.Payment{
		ID:     id,
		Status: domain.PaymentStatusCollected,
	}, nil)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/payments/"+id.String()+"/collect", map[string]string{})

	assert.Equal(t, http.StatusConflict, rec.Code)
	m.payments.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestCollectPayment_Success(t *testing.T) {
	h, m := newTestHandler()
	router := testRouter(h)

	id := uuid.New()
	m.payments.On("GetByID", mock.Anything, id).Return(&domain.Payment{
		ID:        id,
		LoanID:    uuid.New(),
		DueDate:   handlerNow.AddDate(0, 0, -3),
		Amount:    decimal.NewFromInt(1000),
		Status:    domain.PaymentStatusOverdue,
		DueAmount: decimal.NewFromInt(1000),
	}, nil)
	m.payments.On("Update", mock.Anything, mock.Anything).Return(nil)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/payments/"+id.String()+"/collect", map[string]string{})

	assert.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Success bool           `json:"success"`
		Data    domain.Payment `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, domain.PaymentStatusCollected, envelope.Data.Status)
}
