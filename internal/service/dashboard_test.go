package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/lenden-labs/lending-ledger/internal/domain"
)

func dashboardBorrower(name string) *domain.Borrower {
	return &domain.Borrower{ID: uuid.New(), Name: name}
}

func dashboardLoan(borrowerID uuid.UUID, status string) *domain.Loan {
	return &domain.Loan{
		ID:         uuid.New(),
		BorrowerID: borrowerID,
		Principal:  decimal.NewFromInt(12000),
		StartDate:  testNow.AddDate(0, -3, 0),
		Strategy:   domain.StrategyEMI,
		Status:     status,
	}
}

func duePayment(loanID uuid.UUID, monthsFromNow int, amount int64) *domain.Payment {
	return &domain.Payment{
		ID:        uuid.New(),
		LoanID:    loanID,
		DueDate:   testNow.AddDate(0, monthsFromNow, 0),
		Amount:    decimal.NewFromInt(amount),
		Status:    domain.PaymentStatusUpcoming,
		DueAmount: decimal.NewFromInt(amount),
	}
}

func TestDashboard_Aggregates(t *testing.T) {
	svc, m := newTestService()

	// One defaulter with two consecutive misses, one borrower in good
	// standing with an upcoming payment.
	defaulter := dashboardBorrower("Defaulter")
	healthy := dashboardBorrower("Healthy")

	defaulterLoan := dashboardLoan(defaulter.ID, domain.LoanStatusActive)
	healthyLoan := dashboardLoan(healthy.ID, domain.LoanStatusActive)
	closedLoan := dashboardLoan(healthy.ID, domain.LoanStatusCompleted)

	missedA := duePayment(defaulterLoan.ID, 0, 1000)
	missedA.DueDate = testNow.AddDate(0, 0, -20)
	missedB := duePayment(defaulterLoan.ID, 0, 1000)
	missedB.DueDate = testNow.AddDate(0, 0, -10)
	upcoming := duePayment(healthyLoan.ID, 1, 500)

	m.borrowers.On("List", mock.Anything).Return([]*domain.Borrower{defaulter, healthy}, nil)
	m.loans.On("ListByBorrower", mock.Anything, defaulter.ID).Return([]*domain.Loan{defaulterLoan}, nil)
	m.loans.On("ListByBorrower", mock.Anything, healthy.ID).Return([]*domain.Loan{healthyLoan, closedLoan}, nil)
	m.payments.On("ListByBorrower", mock.Anything, defaulter.ID).Return([]*domain.Payment{missedA, missedB}, nil)
	m.payments.On("ListByBorrower", mock.Anything, healthy.ID).Return([]*domain.Payment{upcoming}, nil)

	summary, err := svc.Dashboard(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 2, summary.TotalBorrowers)
	assert.Equal(t, 2, summary.ActiveLoans)
	assert.True(t, summary.TotalOutstanding.Equal(decimal.NewFromInt(2000)))

	if assert.Len(t, summary.Defaulters, 1) {
		assert.Equal(t, defaulter.ID, summary.Defaulters[0].Borrower.ID)
		assert.Equal(t, 2, summary.Defaulters[0].ConsecutiveMissed)
	}
	assert.Empty(t, summary.MissedPayments)

	if assert.Len(t, summary.Borrowers, 2) {
		healthySummary := summary.Borrowers[1]
		assert.Equal(t, healthy.ID, healthySummary.Borrower.ID)
		assert.Equal(t, 1, healthySummary.ActiveLoans)
		if assert.NotNil(t, healthySummary.NextDueDate) {
			assert.Equal(t, upcoming.DueDate, *healthySummary.NextDueDate)
		}
	}
}

func TestDashboard_MissedBelowThresholdCountsAsOutstanding(t *testing.T) {
	svc, m := newTestService()

	borrower := dashboardBorrower("One miss")
	loan := dashboardLoan(borrower.ID, domain.LoanStatusActive)

	missed := duePayment(loan.ID, 0, 750)
	missed.DueDate = testNow.AddDate(0, 0, -10)
	collected := duePayment(loan.ID, 0, 750)
	collected.DueDate = testNow.AddDate(0, 0, -5)
	collected.Status = domain.PaymentStatusCollected

	m.borrowers.On("List", mock.Anything).Return([]*domain.Borrower{borrower}, nil)
	m.loans.On("ListByBorrower", mock.Anything, borrower.ID).Return([]*domain.Loan{loan}, nil)
	m.payments.On("ListByBorrower", mock.Anything, borrower.ID).Return([]*domain.Payment{missed, collected}, nil)

	summary, err := svc.Dashboard(context.Background())

	assert.NoError(t, err)
	assert.Empty(t, summary.Defaulters)
	if assert.Len(t, summary.MissedPayments, 1) {
		assert.Equal(t, missed.ID, summary.MissedPayments[0].Payment.ID)
	}
	assert.True(t, summary.TotalOutstanding.Equal(decimal.NewFromInt(750)))
}

func TestDefaulters_FiltersNonDefaulters(t *testing.T) {
	svc, m := newTestService()

	defaulter := dashboardBorrower("Defaulter")
	healthy := dashboardBorrower("Healthy")

	defaulterLoan := dashboardLoan(defaulter.ID, domain.LoanStatusActive)
	healthyLoan := dashboardLoan(healthy.ID, domain.LoanStatusActive)

	missedA := duePayment(defaulterLoan.ID, 0, 1000)
	missedA.DueDate = testNow.AddDate(0, 0, -20)
	missedB := duePayment(defaulterLoan.ID, 0, 1000)
	missedB.DueDate = testNow.AddDate(0, 0, -10)

	m.borrowers.On("List", mock.Anything).Return([]*domain.Borrower{defaulter, healthy}, nil)
	m.loans.On("ListByBorrower", mock.Anything, defaulter.ID).Return([]*domain.Loan{defaulterLoan}, nil)
	m.loans.On("ListByBorrower", mock.Anything, healthy.ID).Return([]*domain.Loan{healthyLoan}, nil)
	m.payments.On("ListByBorrower", mock.Anything, defaulter.ID).Return([]*domain.Payment{missedA, missedB}, nil)
	m.payments.On("ListByBorrower", mock.Anything, healthy.ID).Return([]*domain.Payment{duePayment(healthyLoan.ID, 1, 500)}, nil)

	entries, err := svc.Defaulters(context.Background())

	assert.NoError(t, err)
	if assert.Len(t, entries, 1) {
		assert.Equal(t, defaulter.ID, entries[0].Borrower.ID)
		assert.True(t, entries[0].TotalOutstanding.Equal(decimal.NewFromInt(2000)))
	}
}

func TestRefreshPaymentStatuses(t *testing.T) {
	svc, m := newTestService()

	loanID := uuid.New()

	stale := duePayment(loanID, 0, 1000)
	stale.DueDate = testNow.AddDate(0, 0, -1) // stored upcoming, actually overdue
	current := duePayment(loanID, 1, 1000)    // stored upcoming, still upcoming

	m.payments.On("ListPending", mock.Anything).Return([]*domain.Payment{stale, current}, nil)
	m.payments.On("UpdateStatus", mock.Anything, stale.ID, domain.PaymentStatusOverdue).Return(nil)

	updated, err := svc.RefreshPaymentStatuses(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, updated)
	m.payments.AssertExpectations(t)
	m.payments.AssertNotCalled(t, "UpdateStatus", mock.Anything, current.ID, mock.Anything)
}

func TestTruncateAll_Order(t *testing.T) {
	svc, m := newTestService()

	var order []string
	m.payments.On("Truncate", mock.Anything).Run(func(mock.Arguments) { order = append(order, "payments") }).Return(nil)
	m.loans.On("Truncate", mock.Anything).Run(func(mock.Arguments) { order = append(order, "loans") }).Return(nil)
	m.borrowers.On("Truncate", mock.Anything).Run(func(mock.Arguments) { order = append(order, "borrowers") }).Return(nil)
	m.users.On("Truncate", mock.Anything).Run(func(mock.Arguments) { order = append(order, "users") }).Return(nil)

	err := svc.TruncateAll(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, []string{"payments", "loans", "borrowers", "users"}, order)
}
