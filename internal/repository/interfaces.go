package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/lenden-labs/lending-ledger/internal/domain"
)

// BorrowerRepository defines the interface for borrower data operations
type BorrowerRepository interface {
	Create(ctx context.Context, borrower *domain.Borrower) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Borrower, error)
	List(ctx context.Context) ([]*domain.Borrower, error)
	Update(ctx context.Context, borrower *domain.Borrower) error

	// Delete removes a borrower; loans and payments cascade in the store.
	Delete(ctx context.Context, id uuid.UUID) error

	// Truncate empties the table for the restore collaborator.
	Truncate(ctx context.Context) error
}

// LoanRepository defines the interface for loan data operations
type LoanRepository interface {
	Create(ctx context.Context, loan *domain.Loan) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error)
	ListByBorrower(ctx context.Context, borrowerID uuid.UUID) ([]*domain.Loan, error)
	ListActive(ctx context.Context) ([]*domain.Loan, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	Delete(ctx context.Context, id uuid.UUID) error
	Truncate(ctx context.Context) error
}

// PaymentRepository defines the interface for payment data operations
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error

	// CreateBatch inserts payments in due-date order inside one transaction.
	CreateBatch(ctx context.Context, payments []*domain.Payment) error

	GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error)
	ListByLoan(ctx context.Context, loanID uuid.UUID) ([]*domain.Payment, error)
	ListByBorrower(ctx context.Context, borrowerID uuid.UUID) ([]*domain.Payment, error)

	// ListPending returns every uncollected payment across all loans.
	ListPending(ctx context.Context) ([]*domain.Payment, error)

	Update(ctx context.Context, payment *domain.Payment) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	Truncate(ctx context.Context) error
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	Truncate(ctx context.Context) error
}
