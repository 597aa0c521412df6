package domain

import (
	"time"

	"github.com/google/uuid"
)

// Borrower display statuses computed by the classifier.
const (
	BorrowerStatusCompleted = "Completed"
	BorrowerStatusMissed    = "Missed"
	BorrowerStatusCurrent   = "Current"
	BorrowerStatusDueSoon   = "Due Soon"
	BorrowerStatusUpcoming  = "Upcoming"
)

// Borrower represents a borrower with contact and guarantor details.
type Borrower struct {
	ID             uuid.UUID `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Phone          string    `json:"phone" db:"phone"`
	Address        string    `json:"address" db:"address"`
	GuarantorName  string    `json:"guarantor_name" db:"guarantor_name"`
	GuarantorPhone string    `json:"guarantor_phone" db:"guarantor_phone"`
	Notes          string    `json:"notes" db:"notes"`
	PhotoURL       string    `json:"photo_url" db:"photo_url"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// DTOs for requests and responses

type CreateBorrowerRequest struct {
	Name           string `json:"name" validate:"required"`
	Phone          string `json:"phone" validate:"required"`
	Address        string `json:"address"`
	GuarantorName  string `json:"guarantor_name"`
	GuarantorPhone string `json:"guarantor_phone"`
	Notes          string `json:"notes"`
	PhotoURL       string `json:"photo_url"`
}

// UpdateBorrowerRequest carries partial updates; nil fields are left unchanged.
type UpdateBorrowerRequest struct {
	Name           *string `json:"name"`
	Phone          *string `json:"phone"`
	Address        *string `json:"address"`
	GuarantorName  *string `json:"guarantor_name"`
	GuarantorPhone *string `json:"guarantor_phone"`
	Notes          *string `json:"notes"`
	PhotoURL       *string `json:"photo_url"`
}

type BorrowerDetailResponse struct {
	Borrower  *Borrower           `json:"borrower"`
	Status    string              `json:"status"`
	Loans     []*LoanWithPayments `json:"loans"`
	Defaulter *DefaulterInfo      `json:"defaulter,omitempty"`
}
