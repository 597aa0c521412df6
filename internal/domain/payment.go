package domain

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment statuses. The stored status column is a cache of the last
// classification; reads must reclassify against the current date.
const (
	PaymentStatusUpcoming  = "upcoming"
	PaymentStatusDueSoon   = "due_soon"
	PaymentStatusOverdue   = "overdue"
	PaymentStatusCollected = "collected"
)

// Payment represents one scheduled installment of a loan.
type Payment struct {
	ID         uuid.UUID           `json:"id" db:"id"`
	LoanID     uuid.UUID           `json:"loan_id" db:"loan_id"`
	DueDate    time.Time           `json:"due_date" db:"due_date"`
	Amount     decimal.Decimal     `json:"amount" db:"amount"`
	Status     string              `json:"status" db:"status"`
	PaidDate   sql.NullTime        `json:"paid_date" db:"paid_date"`
	PaidAmount decimal.NullDecimal `json:"paid_amount" db:"paid_amount"`
	DueAmount  decimal.Decimal     `json:"due_amount" db:"due_amount"`
	CreatedAt  time.Time           `json:"created_at" db:"created_at"`
}

// Collected reports whether the payment has been collected.
func (p *Payment) Collected() bool {
	return p.Status == PaymentStatusCollected
}

// PaymentView pairs a stored payment with its status classified
// against the current date.
type PaymentView struct {
	*Payment
	LiveStatus string `json:"live_status"`
}

// DTOs for requests and responses

type CreatePaymentRequest struct {
	DueDate time.Time       `json:"due_date" validate:"required"`
	Amount  decimal.Decimal `json:"amount" validate:"gt=0"`
}

// CreateMonthlyPaymentsRequest creates Count monthly payments for a loan.
// Amount defaults to the loan's strategy amount and StartDate to one month
// after the latest existing payment (used to continue after a partial
// collection).
type CreateMonthlyPaymentsRequest struct {
	Count     int              `json:"count" validate:"required,gt=0"`
	Amount    *decimal.Decimal `json:"amount"`
	StartDate *time.Time       `json:"start_date"`
}

type CollectPaymentRequest struct {
	PaidAmount *decimal.Decimal `json:"paid_amount"`
	PaidDate   *time.Time       `json:"paid_date"`
}
