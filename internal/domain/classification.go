package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaulterInfo describes a borrower whose final consecutive-missed streak
// reached the defaulter threshold.
type DefaulterInfo struct {
	ConsecutiveMissed int             `json:"consecutive_missed"`
	TotalOutstanding  decimal.Decimal `json:"total_outstanding"`
	OverduePayments   []*Payment      `json:"overdue_payments"`
}

// BorrowerClassification is the result of classifying one borrower's loans
// and payments against a point in time.
type BorrowerClassification struct {
	BorrowerID        uuid.UUID              `json:"borrower_id"`
	Status            string                 `json:"status"`
	NextPaymentByLoan map[uuid.UUID]*Payment `json:"next_payment_by_loan"`
	Defaulter         *DefaulterInfo         `json:"defaulter,omitempty"`
	MissedPayments    []*Payment             `json:"missed_payments,omitempty"`
}

// Dashboard aggregation DTOs

type BorrowerSummary struct {
	Borrower      *Borrower        `json:"borrower"`
	Status        string           `json:"status"`
	ActiveLoans   int              `json:"active_loans"`
	NextDueDate   *time.Time       `json:"next_due_date,omitempty"`
	NextDueAmount *decimal.Decimal `json:"next_due_amount,omitempty"`
}

type DefaulterEntry struct {
	Borrower          *Borrower       `json:"borrower"`
	ConsecutiveMissed int             `json:"consecutive_missed"`
	TotalOutstanding  decimal.Decimal `json:"total_outstanding"`
	OverduePayments   []*Payment      `json:"overdue_payments"`
}

type MissedPaymentEntry struct {
	Borrower *Borrower `json:"borrower"`
	Payment  *Payment  `json:"payment"`
}

type DashboardSummary struct {
	TotalBorrowers   int                   `json:"total_borrowers"`
	ActiveLoans      int                   `json:"active_loans"`
	TotalOutstanding decimal.Decimal       `json:"total_outstanding"`
	Defaulters       []*DefaulterEntry     `json:"defaulters"`
	MissedPayments   []*MissedPaymentEntry `json:"missed_payments"`
	Borrowers        []*BorrowerSummary    `json:"borrowers"`
	GeneratedAt      time.Time             `json:"generated_at"`
}
