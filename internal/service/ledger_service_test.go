package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/lenden-labs/lending-ledger/internal/domain"
	"github.com/lenden-labs/lending-ledger/internal/mocks"
)

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

type serviceMocks struct {
	borrowers *mocks.MockBorrowerRepository
	loans     *mocks.MockLoanRepository
	payments  *mocks.MockPaymentRepository
	users     *mocks.MockUserRepository
}

func newTestService() (*LedgerService, *serviceMocks) {
	m := &serviceMocks{
		borrowers: &mocks.MockBorrowerRepository{},
		loans:     &mocks.MockLoanRepository{},
		payments:  &mocks.MockPaymentRepository{},
		users:     &mocks.MockUserRepository{},
	}

	svc := NewLedgerService(m.borrowers, m.loans, m.payments, m.users, nil, nil)
	svc.SetNowFunc(func() time.Time { return testNow })
	return svc, m
}

func TestCreateLoan_EMIGeneratesSchedule(t *testing.T) {
	svc, m := newTestService()

	borrowerID := uuid.New()
	m.borrowers.On("GetByID", mock.Anything, borrowerID).
		Return(&domain.Borrower{ID: borrowerID, Name: "Ramesh"}, nil)

	// Capture the created loan so the schedule generation lookup sees it.
	created := &domain.Loan{}
	m.loans.On("Create", mock.Anything, mock.AnythingOfType("*domain.Loan")).
		Run(func(args mock.Arguments) {
			*created = *(args.Get(1).(*domain.Loan))
		}).Return(nil)
	m.loans.On("GetByID", mock.Anything, mock.Anything).Return(created, nil)

	m.payments.On("ListByLoan", mock.Anything, mock.Anything).Return([]*domain.Payment{}, nil)
	m.payments.On("CreateBatch", mock.Anything, mock.MatchedBy(func(payments []*domain.Payment) bool {
		return len(payments) == 12
	})).Return(nil)

	request := &domain.CreateLoanRequest{
		BorrowerID:   borrowerID,
		Principal:    decimal.NewFromInt(12000),
		StartDate:    testNow,
		Strategy:     domain.StrategyEMI,
		TenureMonths: 12,
	}

	result, err := svc.CreateLoan(context.Background(), request)

	assert.NoError(t, err)
	assert.Len(t, result.Schedule, 12)
	for i, p := range result.Schedule {
		assert.True(t, p.Amount.Equal(decimal.NewFromInt(1000)), "payment %d amount", i)
		assert.Equal(t, testNow.AddDate(0, i+1, 0), p.DueDate)
	}
	assert.Equal(t, domain.LoanStatusActive, result.Loan.Status)

	m.loans.AssertExpectations(t)
	m.payments.AssertExpectations(t)
}

func TestCreateLoan_CustomStrategyNoPayments(t *testing.T) {
	svc, m := newTestService()

	borrowerID := uuid.New()
	m.borrowers.On("GetByID", mock.Anything, borrowerID).
		Return(&domain.Borrower{ID: borrowerID}, nil)

	created := &domain.Loan{}
	m.loans.On("Create", mock.Anything, mock.AnythingOfType("*domain.Loan")).
		Run(func(args mock.Arguments) {
			*created = *(args.Get(1).(*domain.Loan))
		}).Return(nil)
	m.loans.On("GetByID", mock.Anything, mock.Anything).Return(created, nil)
	m.payments.On("ListByLoan", mock.Anything, mock.Anything).Return([]*domain.Payment{}, nil)

	request := &domain.CreateLoanRequest{
		BorrowerID: borrowerID,
		Principal:  decimal.NewFromInt(50000),
		StartDate:  testNow,
		Strategy:   domain.StrategyGoldSilver,
	}

	result, err := svc.CreateLoan(context.Background(), request)

	assert.NoError(t, err)
	assert.Empty(t, result.Schedule)
	m.payments.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
}

func TestCreateLoan_BorrowerNotFound(t *testing.T) {
	svc, m := newTestService()

	borrowerID := uuid.New()
	m.borrowers.On("GetByID", mock.Anything, borrowerID).Return(nil, sql.ErrNoRows)

	request := &domain.CreateLoanRequest{
		BorrowerID: borrowerID,
		Principal:  decimal.NewFromInt(12000),
		StartDate:  testNow,
		Strategy:   domain.StrategyEMI,
	}

	result, err := svc.CreateLoan(context.Background(), request)

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "not found")
}

func TestCreateLoan_InvalidStrategy(t *testing.T) {
	svc, _ := newTestService()

	request := &domain.CreateLoanRequest{
		BorrowerID: uuid.New(),
		Principal:  decimal.NewFromInt(12000),
		StartDate:  testNow,
		Strategy:   "weekly",
	}

	result, err := svc.CreateLoan(context.Background(), request)

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "strategy")
}

func TestGenerateSchedule_Idempotent(t *testing.T) {
	svc, m := newTestService()

	loan := &domain.Loan{
		ID:           uuid.New(),
		BorrowerID:   uuid.New(),
		Principal:    decimal.NewFromInt(12000),
		StartDate:    testNow,
		Strategy:     domain.StrategyEMI,
		TenureMonths: 12,
		Status:       domain.LoanStatusActive,
	}
	existing := []*domain.Payment{
		{ID: uuid.New(), LoanID: loan.ID, DueDate: testNow.AddDate(0, 1, 0), Amount: decimal.NewFromInt(1000)},
		{ID: uuid.New(), LoanID: loan.ID, DueDate: testNow.AddDate(0, 2, 0), Amount: decimal.NewFromInt(1000)},
	}

	m.loans.On("GetByID", mock.Anything, loan.ID).Return(loan, nil)
	m.payments.On("ListByLoan", mock.Anything, loan.ID).Return(existing, nil)

	payments, err := svc.GenerateSchedule(context.Background(), loan.ID)

	assert.NoError(t, err)
	assert.Equal(t, existing, payments)
	m.payments.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
}

func TestCollectPayment_Full(t *testing.T) {
	svc, m := newTestService()

	payment := &domain.Payment{
		ID:        uuid.New(),
		LoanID:    uuid.New(),
		DueDate:   testNow.AddDate(0, 0, -5),
		Amount:    decimal.NewFromInt(1000),
		Status:    domain.PaymentStatusOverdue,
		DueAmount: decimal.NewFromInt(1000),
	}

	m.payments.On("GetByID", mock.Anything, payment.ID).Return(payment, nil)
	m.payments.On("Update", mock.Anything, mock.MatchedBy(func(p *domain.Payment) bool {
		return p.Status == domain.PaymentStatusCollected && p.DueAmount.IsZero()
	})).Return(nil)

	collected, err := svc.CollectPayment(context.Background(), payment.ID, &domain.CollectPaymentRequest{})

	assert.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusCollected, collected.Status)
	assert.True(t, collected.PaidAmount.Decimal.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, testNow, collected.PaidDate.Time)
	m.payments.AssertExpectations(t)
}

func TestCollectPayment_PartialLeavesRemainder(t *testing.T) {
	svc, m := newTestService()

	payment := &domain.Payment{
		ID:        uuid.New(),
		LoanID:    uuid.New(),
		DueDate:   testNow.AddDate(0, 0, -5),
		Amount:    decimal.NewFromInt(1000),
		Status:    domain.PaymentStatusOverdue,
		DueAmount: decimal.NewFromInt(1000),
	}

	m.payments.On("GetByID", mock.Anything, payment.ID).Return(payment, nil)
	m.payments.On("Update", mock.Anything, mock.Anything).Return(nil)

	partial := decimal.NewFromInt(400)
	collected, err := svc.CollectPayment(context.Background(), payment.ID, &domain.CollectPaymentRequest{
		PaidAmount: &partial,
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusCollected, collected.Status)
	assert.True(t, collected.DueAmount.Equal(decimal.NewFromInt(600)))
	assert.True(t, collected.PaidAmount.Decimal.Equal(partial))
}

func TestCollectPayment_AlreadyCollected(t *testing.T) {
	svc, m := newTestService()

	payment := &domain.Payment{
		ID:     uuid.New(),
		Status: domain.PaymentStatusCollected,
	}

	m.payments.On("GetByID", mock.Anything, payment.ID).Return(payment, nil)

	collected, err := svc.CollectPayment(context.Background(), payment.ID, &domain.CollectPaymentRequest{})

	assert.Error(t, err)
	assert.Nil(t, collected)
	assert.Contains(t, err.Error(), "already collected")
	m.payments.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestCreateMonthlyPayments_Defaults(t *testing.T) {
	svc, m := newTestService()

	loan := &domain.Loan{
		ID:         uuid.New(),
		BorrowerID: uuid.New(),
		Principal:  decimal.NewFromInt(24000),
		StartDate:  testNow.AddDate(0, -2, 0),
		Strategy:   domain.StrategyCustom,
		Status:     domain.LoanStatusActive,
	}
	last := &domain.Payment{
		ID:      uuid.New(),
		LoanID:  loan.ID,
		DueDate: testNow.AddDate(0, -1, 0),
		Amount:  decimal.NewFromInt(2000),
	}

	m.loans.On("GetByID", mock.Anything, loan.ID).Return(loan, nil)
	m.payments.On("ListByLoan", mock.Anything, loan.ID).Return([]*domain.Payment{last}, nil)

	var batch []*domain.Payment
	m.payments.On("CreateBatch", mock.Anything, mock.AnythingOfType("[]*domain.Payment")).
		Run(func(args mock.Arguments) {
			batch = args.Get(1).([]*domain.Payment)
		}).Return(nil)

	payments, err := svc.CreateMonthlyPayments(context.Background(), loan.ID, &domain.CreateMonthlyPaymentsRequest{
		Count: 3,
	})

	assert.NoError(t, err)
	assert.Len(t, payments, 3)
	assert.Len(t, batch, 3)

	// Amount defaults to principal / 12 (no tenure configured), start
	// continues one month after the last existing payment.
	assert.True(t, batch[0].Amount.Equal(decimal.NewFromInt(2000)))
	assert.Equal(t, last.DueDate.AddDate(0, 1, 0), batch[0].DueDate)
	assert.Equal(t, last.DueDate.AddDate(0, 3, 0), batch[2].DueDate)
}

func TestCreateMonthlyPayments_ExplicitAmountAndStart(t *testing.T) {
	svc, m := newTestService()

	loan := &domain.Loan{
		ID:         uuid.New(),
		BorrowerID: uuid.New(),
		Principal:  decimal.NewFromInt(24000),
		StartDate:  testNow,
		Strategy:   domain.StrategyGoldSilver,
		Status:     domain.LoanStatusActive,
	}

	m.loans.On("GetByID", mock.Anything, loan.ID).Return(loan, nil)
	m.payments.On("CreateBatch", mock.Anything, mock.MatchedBy(func(payments []*domain.Payment) bool {
		return len(payments) == 2 && payments[0].Amount.Equal(decimal.NewFromInt(900))
	})).Return(nil)

	amount := decimal.NewFromInt(900)
	start := testNow.AddDate(0, 2, 0)
	payments, err := svc.CreateMonthlyPayments(context.Background(), loan.ID, &domain.CreateMonthlyPaymentsRequest{
		Count:     2,
		Amount:    &amount,
		StartDate: &start,
	})

	assert.NoError(t, err)
	assert.Len(t, payments, 2)
	assert.Equal(t, start, payments[0].DueDate)
	m.payments.AssertNotCalled(t, "ListByLoan", mock.Anything, mock.Anything)
}

func TestUpdateBorrower_PartialFields(t *testing.T) {
	svc, m := newTestService()

	borrower := &domain.Borrower{
		ID:    uuid.New(),
		Name:  "Ramesh",
		Phone: "9000000000",
		Notes: "old note",
	}

	m.borrowers.On("GetByID", mock.Anything, borrower.ID).Return(borrower, nil)
	m.borrowers.On("Update", mock.Anything, mock.MatchedBy(func(b *domain.Borrower) bool {
		return b.Notes == "new note" && b.Name == "Ramesh"
	})).Return(nil)

	notes := "new note"
	updated, err := svc.UpdateBorrower(context.Background(), borrower.ID, &domain.UpdateBorrowerRequest{
		Notes: &notes,
	})

	assert.NoError(t, err)
	assert.Equal(t, "new note", updated.Notes)
	assert.Equal(t, "9000000000", updated.Phone)
	m.borrowers.AssertExpectations(t)
}

func TestDeleteBorrower_NotFound(t *testing.T) {
	svc, m := newTestService()

	id := uuid.New()
	m.borrowers.On("GetByID", mock.Anything, id).Return(nil, sql.ErrNoRows)

	err := svc.DeleteBorrower(context.Background(), id)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	m.borrowers.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
