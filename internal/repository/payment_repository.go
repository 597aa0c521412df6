package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/lenden-labs/lending-ledger/internal/domain"
)

type paymentRepository struct {
	db *sqlx.DB
}

func NewPaymentRepository(db *sqlx.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

const insertPaymentQuery = `
	INSERT INTO payments (id, loan_id, due_date, amount, status, paid_date, paid_amount, due_amount, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

func (r *paymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	_, err := r.db.ExecContext(ctx, insertPaymentQuery,
		payment.ID,
		payment.LoanID,
		payment.DueDate,
		payment.Amount,
		payment.Status,
		payment.PaidDate,
		payment.PaidAmount,
		payment.DueAmount,
		payment.CreatedAt,
	)

	return err
}

func (r *paymentRepository) CreateBatch(ctx context.Context, payments []*domain.Payment) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, payment := range payments {
		_, err = tx.ExecContext(ctx, insertPaymentQuery,
			payment.ID,
			payment.LoanID,
			payment.DueDate,
			payment.Amount,
			payment.Status,
			payment.PaidDate,
			payment.PaidAmount,
			payment.DueAmount,
			payment.CreatedAt,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *paymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	query := `
		SELECT id, loan_id, due_date, amount, status, paid_date, paid_amount, due_amount, created_at
		FROM payments
		WHERE id = $1
	`

	var payment domain.Payment
	err := r.db.GetContext(ctx, &payment, query, id)
	if err != nil {
		return nil, err
	}

	return &payment, nil
}

func (r *paymentRepository) ListByLoan(ctx context.Context, loanID uuid.UUID) ([]*domain.Payment, error) {
	query := `
		SELECT id, loan_id, due_date, amount, status, paid_date, paid_amount, due_amount, created_at
		FROM payments
		WHERE loan_id = $1
		ORDER BY due_date
	`

	var payments []*domain.Payment
	err := r.db.SelectContext(ctx, &payments, query, loanID)
	if err != nil {
		return nil, err
	}

	return payments, nil
}

func (r *paymentRepository) ListByBorrower(ctx context.Context, borrowerID uuid.UUID) ([]*domain.Payment, error) {
	query := `
		SELECT p.id, p.loan_id, p.due_date, p.amount, p.status, p.paid_date, p.paid_amount, p.due_amount, p.created_at
		FROM payments p
		JOIN loans l ON l.id = p.loan_id
		WHERE l.borrower_id = $1
		ORDER BY p.due_date
	`

	var payments []*domain.Payment
	err := r.db.SelectContext(ctx, &payments, query, borrowerID)
	if err != nil {
		return nil, err
	}

	return payments, nil
}

func (r *paymentRepository) ListPending(ctx context.Context) ([]*domain.Payment, error) {
	query := `
		SELECT id, loan_id, due_date, amount, status, paid_date, paid_amount, due_amount, created_at
		FROM payments
		WHERE status != $1
		ORDER BY due_date
	`

	var payments []*domain.Payment
	err := r.db.SelectContext(ctx, &payments, query, domain.PaymentStatusCollected)
	if err != nil {
		return nil, err
	}

	return payments, nil
}

func (r *paymentRepository) Update(ctx context.Context, payment *domain.Payment) error {
	query := `
		UPDATE payments
		SET due_date = $2, amount = $3, status = $4, paid_date = $5, paid_amount = $6, due_amount = $7
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		payment.ID,
		payment.DueDate,
		payment.Amount,
		payment.Status,
		payment.PaidDate,
		payment.PaidAmount,
		payment.DueAmount,
	)

	return err
}

func (r *paymentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `
		UPDATE payments
		SET status = $2
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, status)
	return err
}

func (r *paymentRepository) Truncate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `TRUNCATE payments CASCADE`)
	return err
}
