package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Clinic represents a contracting clinic billed for trips
type Clinic struct {
	ID               uuid.UUID       `json:"id" db:"id"`
	Name             string          `json:"name" db:"name"`
	Phone            string          `json:"phone" db:"phone"`
	Email            string          `json:"email" db:"email"`
	Address          string          `json:"address" db:"address"`
	CancellationRate decimal.Decimal `json:"cancellation_rate" db:"cancellation_rate"`
	NoShowRate       decimal.Decimal `json:"no_show_rate" db:"no_show_rate"`
	PaymentTermsDays int             `json:"payment_terms_days" db:"payment_terms_days"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at" db:"updated_at"`
	DeletedAt        *time.Time      `json:"deleted_at,omitempty" db:"deleted_at"`
}

// PaymentDueDate returns when an invoice issued on the given date is due
func (c *Clinic) PaymentDueDate(invoiceDate time.Time) time.Time {
	return invoiceDate.AddDate(0, 0, c.PaymentTermsDays)
}

// Validate checks the clinic's data
func (c *Clinic) Validate() error {
	if c.Name == "" {
		return ErrInvalidClinicName
	}

	if c.CancellationRate.IsNegative() || c.NoShowRate.IsNegative() {
		return ErrNegativeRate
	}

	if c.PaymentTermsDays < 0 {
		return ErrInvalidPaymentTerms
	}

	return nil
}

// NewClinic creates a new clinic with default payment terms
func NewClinic(name, phone, email, address string) *Clinic {
	now := time.Now()
	return &Clinic{
		ID:               uuid.New(),
		Name:             name,
		Phone:            phone,
		Email:            email,
		Address:          address,
		PaymentTermsDays: 30,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}
