package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/lenden-labs/lending-ledger/internal/domain"
)

type borrowerRepository struct {
	db *sqlx.DB
}

func NewBorrowerRepository(db *sqlx.DB) BorrowerRepository {
	return &borrowerRepository{db: db}
}

func (r *borrowerRepository) Create(ctx context.Context, borrower *domain.Borrower) error {
	query := `
		INSERT INTO borrowers (id, name, phone, address, guarantor_name, guarantor_phone, notes, photo_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		borrower.ID,
		borrower.Name,
		borrower.Phone,
		borrower.Address,
		borrower.GuarantorName,
		borrower.GuarantorPhone,
		borrower.Notes,
		borrower.PhotoURL,
		borrower.CreatedAt,
		borrower.UpdatedAt,
	)

	return err
}

func (r *borrowerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Borrower, error) {
	query := `
		SELECT id, name, phone, address, guarantor_name, guarantor_phone, notes, photo_url, created_at, updated_at
		FROM borrowers
		WHERE id = $1
	`

	var borrower domain.Borrower
	err := r.db.GetContext(ctx, &borrower, query, id)
	if err != nil {
		return nil, err
	}

	return &borrower, nil
}

func (r *borrowerRepository) List(ctx context.Context) ([]*domain.Borrower, error) {
	query := `
		SELECT id, name, phone, address, guarantor_name, guarantor_phone, notes, photo_url, created_at, updated_at
		FROM borrowers
		ORDER BY name
	`

	var borrowers []*domain.Borrower
	err := r.db.SelectContext(ctx, &borrowers, query)
	if err != nil {
		return nil, err
	}

	return borrowers, nil
}

func (r *borrowerRepository) Update(ctx context.Context, borrower *domain.Borrower) error {
	query := `
		UPDATE borrowers
		SET name = $2, phone = $3, address = $4, guarantor_name = $5, guarantor_phone = $6, notes = $7, photo_url = $8, updated_at = $9
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		borrower.ID,
		borrower.Name,
		borrower.Phone,
		borrower.Address,
		borrower.GuarantorName,
		borrower.GuarantorPhone,
		borrower.Notes,
		borrower.PhotoURL,
		time.Now(),
	)

	return err
}

func (r *borrowerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM borrowers WHERE id = $1`, id)
	return err
}

func (r *borrowerRepository) Truncate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `TRUNCATE borrowers CASCADE`)
	return err
}
