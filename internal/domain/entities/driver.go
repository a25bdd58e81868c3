package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DriverStatus employment status of a driver
type DriverStatus string

const (
	DriverStatusActive    DriverStatus = "active"
	DriverStatusInactive  DriverStatus = "inactive"
	DriverStatusSuspended DriverStatus = "suspended"
)

// Driver represents a driver in the fleet, including the rate
// configuration used to compute trip payouts
type Driver struct {
	ID               uuid.UUID       `json:"id" db:"id"`
	Phone            string          `json:"phone" db:"phone"`
	Email            string          `json:"email" db:"email"`
	FirstName        string          `json:"first_name" db:"first_name"`
	LastName         string          `json:"last_name" db:"last_name"`
	LicenseNumber    string          `json:"license_number" db:"license_number"`
	Status           DriverStatus    `json:"status" db:"status"`
	Rates            RateSchedule    `json:"rates" db:"rates"`
	CancellationRate decimal.Decimal `json:"cancellation_rate" db:"cancellation_rate"`
	NoShowRate       decimal.Decimal `json:"no_show_rate" db:"no_show_rate"`
	Deductions       Deductions      `json:"deductions" db:"deductions"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at" db:"updated_at"`
	DeletedAt        *time.Time      `json:"deleted_at,omitempty" db:"deleted_at"`
}

// IsActive reports whether the driver can be assigned trips
func (d *Driver) IsActive() bool {
	return d.Status == DriverStatusActive && d.DeletedAt == nil
}

// GetFullName returns the driver's full name
func (d *Driver) GetFullName() string {
	return d.FirstName + " " + d.LastName
}

// Validate checks the driver's data
func (d *Driver) Validate() error {
	if d.Phone == "" {
		return ErrInvalidPhone
	}

	if d.Email == "" {
		return ErrInvalidEmail
	}

	if d.FirstName == "" || d.LastName == "" {
		return ErrInvalidName
	}

	if d.LicenseNumber == "" {
		return ErrInvalidLicense
	}

	if d.CancellationRate.IsNegative() || d.NoShowRate.IsNegative() {
		return ErrNegativeRate
	}

	return d.Deductions.Validate()
}

// NewDriver creates a new driver with an empty rate schedule
func NewDriver(phone, email, firstName, lastName, licenseNumber string) *Driver {
	now := time.Now()
	return &Driver{
		ID:            uuid.New(),
		Phone:         phone,
		Email:         email,
		FirstName:     firstName,
		LastName:      lastName,
		LicenseNumber: licenseNumber,
		Status:        DriverStatusActive,
		Rates:         NewRateSchedule(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// DriverFilters filters for driver listing
type DriverFilters struct {
	Status        []DriverStatus `json:"status,omitempty"`
	CreatedAfter  *time.Time     `json:"created_after,omitempty"`
	CreatedBefore *time.Time     `json:"created_before,omitempty"`
	Limit         int            `json:"limit,omitempty"`
	Offset        int            `json:"offset,omitempty"`
}
