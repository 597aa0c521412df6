package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/lenden-labs/lending-ledger/internal/domain"
)

type loanRepository struct {
	db *sqlx.DB
}

func NewLoanRepository(db *sqlx.DB) LoanRepository {
	return &loanRepository{db: db}
}

func (r *loanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	query := `
		INSERT INTO loans (id, borrower_id, principal, start_date, strategy, tenure_months, custom_emi_amount, flat_monthly_amount, metal_weight_grams, metal_purity, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.ExecContext(ctx, query,
		loan.ID,
		loan.BorrowerID,
		loan.Principal,
		loan.StartDate,
		loan.Strategy,
		loan.TenureMonths,
		loan.CustomEMIAmount,
		loan.FlatMonthlyAmount,
		loan.MetalWeightGrams,
		loan.MetalPurity,
		loan.Status,
		loan.CreatedAt,
		loan.UpdatedAt,
	)

	return err
}

func (r *loanRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	query := `
		SELECT id, borrower_id, principal, start_date, strategy, tenure_months, custom_emi_amount, flat_monthly_amount, metal_weight_grams, metal_purity, status, created_at, updated_at
		FROM loans
		WHERE id = $1
	`

	var loan domain.Loan
	err := r.db.GetContext(ctx, &loan, query, id)
	if err != nil {
		return nil, err
	}

	return &loan, nil
}

func (r *loanRepository) ListByBorrower(ctx context.Context, borrowerID uuid.UUID) ([]*domain.Loan, error) {
	query := `
		SELECT id, borrower_id, principal, start_date, strategy, tenure_months, custom_emi_amount, flat_monthly_amount, metal_weight_grams, metal_purity, status, created_at, updated_at
		FROM loans
		WHERE borrower_id = $1
		ORDER BY created_at NULLS LAST
	`

	var loans []*domain.Loan
	err := r.db.SelectContext(ctx, &loans, query, borrowerID)
	if err != nil {
		return nil, err
	}

	return loans, nil
}

func (r *loanRepository) ListActive(ctx context.Context) ([]*domain.Loan, error) {
	query := `
		SELECT id, borrower_id, principal, start_date, strategy, tenure_months, custom_emi_amount, flat_monthly_amount, metal_weight_grams, metal_purity, status, created_at, updated_at
		FROM loans
		WHERE status = $1
		ORDER BY start_date
	`

	var loans []*domain.Loan
	err := r.db.SelectContext(ctx, &loans, query, domain.LoanStatusActive)
	if err != nil {
		return nil, err
	}

	return loans, nil
}

func (r *loanRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `
		UPDATE loans
		SET status = $2, updated_at = $3
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, status, time.Now())
	return err
}

func (r *loanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM loans WHERE id = $1`, id)
	return err
}

func (r *loanRepository) Truncate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `TRUNCATE loans CASCADE`)
	return err
}
