package handler

import (
	"net/http"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/lenden-labs/lending-ledger/internal/service"
	customError "github.com/lenden-labs/lending-ledger/pkg/errors"
	"github.com/lenden-labs/lending-ledger/pkg/response"
)

// LedgerHandler maps HTTP requests onto the ledger service.
type LedgerHandler struct {
	service   *service.LedgerService
	validator *validator.Validate
}

func NewLedgerHandler(service *service.LedgerService) *LedgerHandler {
	return &LedgerHandler{
		service:   service,
		validator: newValidator(),
	}
}

// newValidator registers a type func so decimal fields validate with the
// plain numeric tags (gt=0 etc).
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// pathID parses the {id} path variable as a UUID.
func pathID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(mux.Vars(r)["id"])
}

// writeServiceError maps business error codes onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch customError.Code(err) {
	case customError.ErrCodeBorrowerNotFound,
		customError.ErrCodeLoanNotFound,
		customError.ErrCodePaymentNotFound,
		customError.ErrCodeUserNotFound:
		response.NotFound(w, err.Error())
	case customError.ErrCodePaymentAlreadyCollected:
		response.Conflict(w, "Payment already collected", err)
	case customError.ErrCodeInvalidStrategy,
		customError.ErrCodeInvalidPaymentAmount,
		customError.ErrCodeLoanNotActive:
		response.BadRequest(w, "Invalid request", err)
	default:
		response.InternalServerError(w, "Internal server error", err)
	}
}
