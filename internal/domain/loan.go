package domain

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Repayment strategies.
const (
	StrategyEMI        = "emi"
	StrategyFlat       = "flat"
	StrategyCustom     = "custom"
	StrategyGoldSilver = "gold_silver"
)

// Loan statuses.
const (
	LoanStatusActive    = "active"
	LoanStatusCompleted = "completed"
	LoanStatusDefaulted = "defaulted"
	LoanStatusCancelled = "cancelled"
)

// ValidStrategy reports whether s is a known repayment strategy.
func ValidStrategy(s string) bool {
	switch s {
	case StrategyEMI, StrategyFlat, StrategyCustom, StrategyGoldSilver:
		return true
	}
	return false
}

// Loan represents a loan belonging to exactly one borrower.
type Loan struct {
	ID                uuid.UUID           `json:"id" db:"id"`
	BorrowerID        uuid.UUID           `json:"borrower_id" db:"borrower_id"`
	Principal         decimal.Decimal     `json:"principal" db:"principal"`
	StartDate         time.Time           `json:"start_date" db:"start_date"`
	Strategy          string              `json:"strategy" db:"strategy"`
	TenureMonths      int                 `json:"tenure_months" db:"tenure_months"`
	CustomEMIAmount   decimal.NullDecimal `json:"custom_emi_amount" db:"custom_emi_amount"`
	FlatMonthlyAmount decimal.NullDecimal `json:"flat_monthly_amount" db:"flat_monthly_amount"`
	MetalWeightGrams  decimal.NullDecimal `json:"metal_weight_grams" db:"metal_weight_grams"`
	MetalPurity       sql.NullString      `json:"metal_purity" db:"metal_purity"`
	Status            string              `json:"status" db:"status"`
	CreatedAt         sql.NullTime        `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at" db:"updated_at"`
}

// CreatedAtOrNow returns the creation time used for recency ordering.
// Loans with no recorded created_at sort as "now", so they win ties.
func (l *Loan) CreatedAtOrNow(now time.Time) time.Time {
	if l.CreatedAt.Valid {
		return l.CreatedAt.Time
	}
	return now
}

// DTOs for requests and responses

type CreateLoanRequest struct {
	BorrowerID        uuid.UUID        `json:"borrower_id" validate:"required"`
	Principal         decimal.Decimal  `json:"principal" validate:"gt=0"`
	StartDate         time.Time        `json:"start_date" validate:"required"`
	Strategy          string           `json:"strategy" validate:"required,oneof=emi flat custom gold_silver"`
	TenureMonths      int              `json:"tenure_months" validate:"gte=0"`
	CustomEMIAmount   *decimal.Decimal `json:"custom_emi_amount"`
	FlatMonthlyAmount *decimal.Decimal `json:"flat_monthly_amount"`
	MetalWeightGrams  *decimal.Decimal `json:"metal_weight_grams"`
	MetalPurity       *string          `json:"metal_purity"`
}

type CreateLoanResponse struct {
	Loan     *Loan      `json:"loan"`
	Schedule []*Payment `json:"schedule"`
}

type UpdateLoanStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active completed defaulted cancelled"`
}

type LoanWithPayments struct {
	Loan     *Loan          `json:"loan"`
	Payments []*PaymentView `json:"payments"`
}
