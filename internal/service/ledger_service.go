package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/lenden-labs/lending-ledger/internal/config"
	"github.com/lenden-labs/lending-ledger/internal/domain"
	"github.com/lenden-labs/lending-ledger/internal/repository"
	"github.com/lenden-labs/lending-ledger/internal/schedule"
	"github.com/lenden-labs/lending-ledger/pkg/dateutil"
	customError "github.com/lenden-labs/lending-ledger/pkg/errors"
)

const dashboardCacheKey = "ledger:dashboard"

// LedgerService orchestrates borrowers, loans, payments and classification.
// All date-sensitive logic flows through nowFn so tests can fix the clock.
type LedgerService struct {
	BorrowerRepo repository.BorrowerRepository
	LoanRepo     repository.LoanRepository
	PaymentRepo  repository.PaymentRepository
	UserRepo     repository.UserRepository
	redis        *redis.Client
	config       *config.Config
	nowFn        func() time.Time
}

func NewLedgerService(
	borrowerRepo repository.BorrowerRepository,
	loanRepo repository.LoanRepository,
	paymentRepo repository.PaymentRepository,
	userRepo repository.UserRepository,
	redisClient *redis.Client,
	cfg *config.Config,
) *LedgerService {
	return &LedgerService{
		BorrowerRepo: borrowerRepo,
		LoanRepo:     loanRepo,
		PaymentRepo:  paymentRepo,
		UserRepo:     userRepo,
		redis:        redisClient,
		config:       cfg,
		nowFn:        time.Now,
	}
}

// SetNowFunc replaces the clock. Intended for tests.
func (s *LedgerService) SetNowFunc(fn func() time.Time) {
	s.nowFn = fn
}

func (s *LedgerService) opts() schedule.Options {
	opts := schedule.DefaultOptions()
	if s.config == nil {
		return opts
	}
	b := s.config.Business
	if b.DueSoonWindowDays > 0 {
		opts.DueSoonWindowDays = b.DueSoonWindowDays
	}
	if b.FlatInstallments > 0 {
		opts.FlatInstallments = b.FlatInstallments
	}
	if b.DefaultTenureMonths > 0 {
		opts.DefaultTenureMonths = b.DefaultTenureMonths
	}
	if b.DefaulterThreshold > 0 {
		opts.DefaulterThreshold = b.DefaulterThreshold
	}
	return opts
}

// Borrowers

func (s *LedgerService) CreateBorrower(ctx context.Context, request *domain.CreateBorrowerRequest) (*domain.Borrower, error) {
	now := s.nowFn()
	borrower := &domain.Borrower{
		ID:             uuid.New(),
		Name:           request.Name,
		Phone:          request.Phone,
		Address:        request.Address,
		GuarantorName:  request.GuarantorName,
		GuarantorPhone: request.GuarantorPhone,
		Notes:          request.Notes,
		PhotoURL:       request.PhotoURL,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.BorrowerRepo.Create(ctx, borrower); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.invalidateDashboard(ctx)
	return borrower, nil
}

// GetBorrower returns the borrower with every loan's live-status payments and
// the borrower's classification against today.
func (s *LedgerService) GetBorrower(ctx context.Context, id uuid.UUID) (*domain.BorrowerDetailResponse, error) {
	borrower, err := s.BorrowerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapBorrowerNotFound(id.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	loans, err := s.LoanRepo.ListByBorrower(ctx, id)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	payments, err := s.PaymentRepo.ListByBorrower(ctx, id)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	now := s.nowFn()
	opts := s.opts()
	classification := schedule.Classify(borrower, loans, payments, now, opts)

	byLoan := make(map[uuid.UUID][]*domain.PaymentView)
	for _, p := range payments {
		byLoan[p.LoanID] = append(byLoan[p.LoanID], &domain.PaymentView{
			Payment:    p,
			LiveStatus: schedule.LiveStatus(p, now, opts.DueSoonWindowDays),
		})
	}

	detail := &domain.BorrowerDetailResponse{
		Borrower:  borrower,
		Status:    classification.Status,
		Defaulter: classification.Defaulter,
	}
	for _, loan := range loans {
		detail.Loans = append(detail.Loans, &domain.LoanWithPayments{
			Loan:     loan,
			Payments: byLoan[loan.ID],
		})
	}

	return detail, nil
}

func (s *LedgerService) ListBorrowers(ctx context.Context) ([]*domain.Borrower, error) {
	borrowers, err := s.BorrowerRepo.List(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return borrowers, nil
}

func (s *LedgerService) UpdateBorrower(ctx context.Context, id uuid.UUID, request *domain.UpdateBorrowerRequest) (*domain.Borrower, error) {
	borrower, err := s.BorrowerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapBorrowerNotFound(id.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	if request.Name != nil {
		borrower.Name = *request.Name
	}
	if request.Phone != nil {
		borrower.Phone = *request.Phone
	}
	if request.Address != nil {
		borrower.Address = *request.Address
	}
	if request.GuarantorName != nil {
		borrower.GuarantorName = *request.GuarantorName
	}
	if request.GuarantorPhone != nil {
		borrower.GuarantorPhone = *request.GuarantorPhone
	}
	if request.Notes != nil {
		borrower.Notes = *request.Notes
	}
	if request.PhotoURL != nil {
		borrower.PhotoURL = *request.PhotoURL
	}
	borrower.UpdatedAt = s.nowFn()

	if err := s.BorrowerRepo.Update(ctx, borrower); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.invalidateDashboard(ctx)
	return borrower, nil
}

func (s *LedgerService) DeleteBorrower(ctx context.Context, id uuid.UUID) error {
	if _, err := s.BorrowerRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return customError.WrapBorrowerNotFound(id.String())
		}
		return customError.WrapDatabaseError(err)
	}

	// Loans and payments cascade in the store.
	if err := s.BorrowerRepo.Delete(ctx, id); err != nil {
		return customError.WrapDatabaseError(err)
	}

	s.invalidateDashboard(ctx)
	return nil
}

// Loans

// CreateLoan persists the loan and generates its payment schedule. CUSTOM
// and GOLD_SILVER loans start with an empty schedule.
func (s *LedgerService) CreateLoan(ctx context.Context, request *domain.CreateLoanRequest) (*domain.CreateLoanResponse, error) {
	if !domain.ValidStrategy(request.Strategy) {
		return nil, customError.WrapInvalidStrategy(request.Strategy)
	}

	if _, err := s.BorrowerRepo.GetByID(ctx, request.BorrowerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapBorrowerNotFound(request.BorrowerID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	now := s.nowFn()
	loan := &domain.Loan{
		ID:                uuid.New(),
		BorrowerID:        request.BorrowerID,
		Principal:         request.Principal,
		StartDate:         request.StartDate,
		Strategy:          request.Strategy,
		TenureMonths:      request.TenureMonths,
		CustomEMIAmount:   nullDecimal(request.CustomEMIAmount),
		FlatMonthlyAmount: nullDecimal(request.FlatMonthlyAmount),
		MetalWeightGrams:  nullDecimal(request.MetalWeightGrams),
		MetalPurity:       nullString(request.MetalPurity),
		Status:            domain.LoanStatusActive,
		CreatedAt:         sql.NullTime{Time: now, Valid: true},
		UpdatedAt:         now,
	}

	if err := s.LoanRepo.Create(ctx, loan); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	payments, err := s.GenerateSchedule(ctx, loan.ID)
	if err != nil {
		return nil, err
	}

	s.invalidateDashboard(ctx)
	return &domain.CreateLoanResponse{Loan: loan, Schedule: payments}, nil
}

// GenerateSchedule derives and persists the payment schedule for a loan.
// If payments already exist they are returned unchanged instead of being
// regenerated, so calling this twice is a no-op.
func (s *LedgerService) GenerateSchedule(ctx context.Context, loanID uuid.UUID) ([]*domain.Payment, error) {
	loan, err := s.LoanRepo.GetByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapLoanNotFound(loanID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	existing, err := s.PaymentRepo.ListByLoan(ctx, loanID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	if len(existing) > 0 {
		return existing, nil
	}

	payments := schedule.Generate(loan, s.nowFn(), s.opts())
	if len(payments) == 0 {
		return payments, nil
	}

	if err := s.PaymentRepo.CreateBatch(ctx, payments); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return payments, nil
}

// GetLoan returns the loan with its payments classified against today.
func (s *LedgerService) GetLoan(ctx context.Context, id uuid.UUID) (*domain.LoanWithPayments, error) {
	loan, err := s.LoanRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapLoanNotFound(id.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	payments, err := s.PaymentRepo.ListByLoan(ctx, id)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	now := s.nowFn()
	window := s.opts().DueSoonWindowDays
	views := make([]*domain.PaymentView, 0, len(payments))
	for _, p := range payments {
		views = append(views, &domain.PaymentView{
			Payment:    p,
			LiveStatus: schedule.LiveStatus(p, now, window),
		})
	}

	return &domain.LoanWithPayments{Loan: loan, Payments: views}, nil
}

func (s *LedgerService) UpdateLoanStatus(ctx context.Context, id uuid.UUID, status string) error {
	if _, err := s.LoanRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return customError.WrapLoanNotFound(id.String())
		}
		return customError.WrapDatabaseError(err)
	}

	if err := s.LoanRepo.UpdateStatus(ctx, id, status); err != nil {
		return customError.WrapDatabaseError(err)
	}

	s.invalidateDashboard(ctx)
	return nil
}

func (s *LedgerService) DeleteLoan(ctx context.Context, id uuid.UUID) error {
	if _, err := s.LoanRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return customError.WrapLoanNotFound(id.String())
		}
		return customError.WrapDatabaseError(err)
	}

	if err := s.LoanRepo.Delete(ctx, id); err != nil {
		return customError.WrapDatabaseError(err)
	}

	s.invalidateDashboard(ctx)
	return nil
}

// Payments

// CreateCustomPayment adds a single payment to a loan. Used for CUSTOM and
// GOLD_SILVER loans, whose schedules are built by hand.
func (s *LedgerService) CreateCustomPayment(ctx context.Context, loanID uuid.UUID, request *domain.CreatePaymentRequest) (*domain.Payment, error) {
	loan, err := s.LoanRepo.GetByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapLoanNotFound(loanID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	now := s.nowFn()
	payment := &domain.Payment{
		ID:        uuid.New(),
		LoanID:    loan.ID,
		DueDate:   request.DueDate,
		Amount:    request.Amount,
		Status:    schedule.StatusAt(request.DueDate, now, s.opts().DueSoonWindowDays),
		DueAmount: request.Amount,
		CreatedAt: now,
	}

	if err := s.PaymentRepo.Create(ctx, payment); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.invalidateDashboard(ctx)
	return payment, nil
}

// CreateMonthlyPayments adds count monthly payments to a loan. Amount falls
// back to the loan's strategy amount and the start date continues one month
// after the latest existing payment, which is how a partially paid schedule
// is extended.
func (s *LedgerService) CreateMonthlyPayments(ctx context.Context, loanID uuid.UUID, request *domain.CreateMonthlyPaymentsRequest) ([]*domain.Payment, error) {
	loan, err := s.LoanRepo.GetByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapLoanNotFound(loanID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	opts := s.opts()
	amount := schedule.StrategyAmount(loan, opts)
	if request.Amount != nil {
		amount = *request.Amount
	}
	if !amount.IsPositive() {
		return nil, customError.WrapInvalidPaymentAmount(amount.String())
	}

	var start time.Time
	switch {
	case request.StartDate != nil:
		start = *request.StartDate
	default:
		existing, err := s.PaymentRepo.ListByLoan(ctx, loanID)
		if err != nil {
			return nil, customError.WrapDatabaseError(err)
		}
		if len(existing) > 0 {
			start = dateutil.AddMonths(existing[len(existing)-1].DueDate, 1)
		} else {
			start = dateutil.AddMonths(loan.StartDate, 1)
		}
	}

	payments := schedule.MonthlyBatch(loan.ID, amount, start, s.nowFn(), request.Count, opts.DueSoonWindowDays)
	if err := s.PaymentRepo.CreateBatch(ctx, payments); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.invalidateDashboard(ctx)
	return payments, nil
}

// CollectPayment marks a payment collected. A partial amount leaves the
// remainder in due_amount; the schedule continuation is a separate bulk
// create.
func (s *LedgerService) CollectPayment(ctx context.Context, paymentID uuid.UUID, request *domain.CollectPaymentRequest) (*domain.Payment, error) {
	payment, err := s.PaymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapPaymentNotFound(paymentID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	if payment.Collected() {
		return nil, customError.WrapPaymentAlreadyCollected(paymentID.String())
	}

	paidAmount := payment.DueAmount
	if request.PaidAmount != nil {
		paidAmount = *request.PaidAmount
	}
	if !paidAmount.IsPositive() {
		return nil, customError.WrapInvalidPaymentAmount(paidAmount.String())
	}

	paidDate := s.nowFn()
	if request.PaidDate != nil {
		paidDate = *request.PaidDate
	}

	remainder := payment.DueAmount.Sub(paidAmount)
	if remainder.IsNegative() {
		remainder = decimal.Zero
	}

	payment.Status = domain.PaymentStatusCollected
	payment.PaidDate = sql.NullTime{Time: paidDate, Valid: true}
	payment.PaidAmount = decimal.NullDecimal{Decimal: paidAmount, Valid: true}
	payment.DueAmount = remainder

	if err := s.PaymentRepo.Update(ctx, payment); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.invalidateDashboard(ctx)
	return payment, nil
}

func (s *LedgerService) ListPaymentsByLoan(ctx context.Context, loanID uuid.UUID) ([]*domain.PaymentView, error) {
	payments, err := s.PaymentRepo.ListByLoan(ctx, loanID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	now := s.nowFn()
	window := s.opts().DueSoonWindowDays
	views := make([]*domain.PaymentView, 0, len(payments))
	for _, p := range payments {
		views = append(views, &domain.PaymentView{
			Payment:    p,
			LiveStatus: schedule.LiveStatus(p, now, window),
		})
	}
	return views, nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
