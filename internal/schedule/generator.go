package schedule

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lenden-labs/lending-ledger/internal/domain"
	"github.com/lenden-labs/lending-ledger/pkg/dateutil"
)

// Options holds the tunable knobs of schedule generation and
// classification. Values come from BusinessConfig.
type Options struct {
	DueSoonWindowDays   int
	FlatInstallments    int
	DefaultTenureMonths int
	DefaulterThreshold  int
}

// DefaultOptions returns the standard business parameters.
func DefaultOptions() Options {
	return Options{
		DueSoonWindowDays:   5,
		FlatInstallments:    6,
		DefaultTenureMonths: 12,
		DefaulterThreshold:  2,
	}
}

// Generate derives the payment schedule for a loan at creation time.
// EMI and FLAT loans get monthly installments starting one month after the
// start date; CUSTOM and GOLD_SILVER loans start with no payments and get
// them added individually or in bulk later. The idempotency guard (return
// existing payments instead of regenerating) lives in the service layer.
func Generate(loan *domain.Loan, now time.Time, opts Options) []*domain.Payment {
	var count int
	var amount decimal.Decimal

	switch loan.Strategy {
	case domain.StrategyEMI:
		count = loan.TenureMonths
		if count <= 0 {
			count = opts.DefaultTenureMonths
		}
		if loan.CustomEMIAmount.Valid {
			amount = loan.CustomEMIAmount.Decimal
		} else {
			amount = dateutil.SplitAmount(loan.Principal, count)
		}
	case domain.StrategyFlat:
		count = opts.FlatInstallments
		if loan.FlatMonthlyAmount.Valid {
			amount = loan.FlatMonthlyAmount.Decimal
		} else {
			amount = dateutil.SplitAmount(loan.Principal, 12)
		}
	default:
		return nil
	}

	payments := make([]*domain.Payment, 0, count)
	for i := 0; i < count; i++ {
		dueDate := dateutil.AddMonths(loan.StartDate, i+1)
		payments = append(payments, &domain.Payment{
			ID:        uuid.New(),
			LoanID:    loan.ID,
			DueDate:   dueDate,
			Amount:    amount,
			Status:    StatusAt(dueDate, now, opts.DueSoonWindowDays),
			DueAmount: amount,
			CreatedAt: now,
		})
	}

	// The first installment is always surfaced to the collector.
	if len(payments) > 0 && payments[0].Status == domain.PaymentStatusUpcoming {
		payments[0].Status = domain.PaymentStatusDueSoon
	}

	return payments
}

// StatusAt classifies a due date against today: past due is overdue, within
// the due-soon window is due_soon, anything further out is upcoming.
func StatusAt(dueDate, now time.Time, windowDays int) string {
	if dateutil.IsPastDue(dueDate, now) {
		return domain.PaymentStatusOverdue
	}
	if dateutil.WithinDays(dueDate, now, windowDays) {
		return domain.PaymentStatusDueSoon
	}
	return domain.PaymentStatusUpcoming
}

// MonthlyBatch builds count monthly payments of the given amount starting at
// startDate, classified against now. Used by the bulk create operation for
// CUSTOM and GOLD_SILVER loans and for partial-payment continuations.
func MonthlyBatch(loanID uuid.UUID, amount decimal.Decimal, startDate, now time.Time, count, windowDays int) []*domain.Payment {
	payments := make([]*domain.Payment, 0, count)
	for i := 0; i < count; i++ {
		dueDate := dateutil.AddMonths(startDate, i)
		payments = append(payments, &domain.Payment{
			ID:        uuid.New(),
			LoanID:    loanID,
			DueDate:   dueDate,
			Amount:    amount,
			Status:    StatusAt(dueDate, now, windowDays),
			DueAmount: amount,
			CreatedAt: now,
		})
	}
	return payments
}

// StrategyAmount returns the per-installment amount implied by the loan's
// parameters, falling back to principal divided by tenure (or 12) when no
// explicit amount is configured.
func StrategyAmount(loan *domain.Loan, opts Options) decimal.Decimal {
	if loan.CustomEMIAmount.Valid {
		return loan.CustomEMIAmount.Decimal
	}
	if loan.FlatMonthlyAmount.Valid {
		return loan.FlatMonthlyAmount.Decimal
	}
	tenure := loan.TenureMonths
	if tenure <= 0 {
		tenure = opts.DefaultTenureMonths
	}
	return dateutil.SplitAmount(loan.Principal, tenure)
}
