package schedule

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lenden-labs/lending-ledger/internal/domain"
	"github.com/lenden-labs/lending-ledger/pkg/dateutil"
)

// LiveStatus classifies a payment against now, ignoring the stored status
// column except for collected, which is terminal.
func LiveStatus(p *domain.Payment, now time.Time, windowDays int) string {
	if p.Collected() {
		return domain.PaymentStatusCollected
	}
	return StatusAt(p.DueDate, now, windowDays)
}

// Classify computes a borrower's display status, the next pending payment
// per loan, and defaulter aggregation from a point-in-time snapshot.
//
// The defaulter walk runs over ALL of the borrower's payments merged into a
// single date-ordered stream, not segmented by loan. A borrower with one
// healthy loan and one new small loan can therefore be flagged off payments
// from different loans. This mirrors the historical behavior on purpose; do
// not "fix" it here without a policy decision.
func Classify(borrower *domain.Borrower, loans []*domain.Loan, payments []*domain.Payment, now time.Time, opts Options) *domain.BorrowerClassification {
	result := &domain.BorrowerClassification{
		BorrowerID:        borrower.ID,
		Status:            domain.BorrowerStatusCompleted,
		NextPaymentByLoan: make(map[uuid.UUID]*domain.Payment),
	}

	// Payments referencing a loan we don't know about are excluded from
	// every aggregate rather than surfaced as an error.
	known := make(map[uuid.UUID]bool, len(loans))
	for _, l := range loans {
		known[l.ID] = true
	}
	kept := make([]*domain.Payment, 0, len(payments))
	for _, p := range payments {
		if known[p.LoanID] {
			kept = append(kept, p)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].DueDate.Before(kept[j].DueDate)
	})

	for _, p := range kept {
		if p.Collected() {
			continue
		}
		if _, ok := result.NextPaymentByLoan[p.LoanID]; !ok {
			result.NextPaymentByLoan[p.LoanID] = p
		}
	}

	result.Status = borrowerStatus(loans, kept, now, opts)

	streak := 0
	outstanding := decimal.Zero
	var overdue []*domain.Payment
	for _, p := range kept {
		if p.Collected() {
			streak = 0
			continue
		}
		if dateutil.IsPastDue(p.DueDate, now) {
			streak++
			outstanding = outstanding.Add(p.Amount)
			overdue = append(overdue, p)
		}
	}
	if streak >= opts.DefaulterThreshold {
		result.Defaulter = &domain.DefaulterInfo{
			ConsecutiveMissed: streak,
			TotalOutstanding:  outstanding,
			OverduePayments:   overdue,
		}
	} else {
		result.MissedPayments = overdue
	}

	return result
}

// borrowerStatus derives the display status from the most recently created
// loan's earliest pending payment.
func borrowerStatus(loans []*domain.Loan, payments []*domain.Payment, now time.Time, opts Options) string {
	var latest *domain.Loan
	for _, l := range loans {
		if latest == nil || !l.CreatedAtOrNow(now).Before(latest.CreatedAtOrNow(now)) {
			latest = l
		}
	}
	if latest == nil {
		return domain.BorrowerStatusCompleted
	}

	var next *domain.Payment
	for _, p := range payments {
		if p.LoanID != latest.ID || p.Collected() {
			continue
		}
		next = p
		break
	}
	if next == nil {
		return domain.BorrowerStatusCompleted
	}

	switch {
	case dateutil.IsPastDue(next.DueDate, now):
		return domain.BorrowerStatusMissed
	case dateutil.SameDate(next.DueDate, now):
		return domain.BorrowerStatusCurrent
	case dateutil.WithinDays(next.DueDate, now, opts.DueSoonWindowDays):
		return domain.BorrowerStatusDueSoon
	default:
		return domain.BorrowerStatusUpcoming
	}
}
