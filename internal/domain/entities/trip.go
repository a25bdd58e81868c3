package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TripStatus lifecycle status of a trip
type TripStatus string

const (
	TripStatusPending    TripStatus = "pending"
	TripStatusAssigned   TripStatus = "assigned"
	TripStatusInProgress TripStatus = "in_progress"
	TripStatusCompleted  TripStatus = "completed"
	TripStatusCancelled  TripStatus = "cancelled"
	TripStatusNoShow     TripStatus = "no_show"
	TripStatusWillCall   TripStatus = "will_call"
)

// ServiceLevel transport classification of a trip
type ServiceLevel string

const (
	ServiceLevelAmbulatory ServiceLevel = "ambulatory"
	ServiceLevelWheelchair ServiceLevel = "wheelchair"
	ServiceLevelStretcher  ServiceLevel = "stretcher"
)

// ServiceLevels all known service levels, in display order
var ServiceLevels = []ServiceLevel{
	ServiceLevelAmbulatory,
	ServiceLevelWheelchair,
	ServiceLevelStretcher,
}

// Trip represents a single scheduled or completed ride
type Trip struct {
	ID                  uuid.UUID           `json:"id" db:"id"`
	ClinicID            uuid.UUID           `json:"clinic_id" db:"clinic_id"`
	DriverID            uuid.UUID           `json:"driver_id" db:"driver_id"`
	Status              TripStatus          `json:"status" db:"status"`
	ServiceLevel        ServiceLevel        `json:"service_level" db:"service_level"`
	ScheduledTime       *time.Time          `json:"scheduled_time,omitempty" db:"scheduled_time"`
	ActualPickupTime    *time.Time          `json:"actual_pickup_time,omitempty" db:"actual_pickup_time"`
	ActualDropoffTime   *time.Time          `json:"actual_dropoff_time,omitempty" db:"actual_dropoff_time"`
	DistanceMiles       float64             `json:"distance_miles" db:"distance_miles"`
	ContractedFare      decimal.Decimal     `json:"contracted_fare" db:"contracted_fare"`
	DriverPayoutOverride decimal.NullDecimal `json:"driver_payout_override,omitempty" db:"driver_payout_override"`
	PickupAddress       string              `json:"pickup_address" db:"pickup_address"`
	DropoffAddress      string              `json:"dropoff_address" db:"dropoff_address"`
	Notes               *string             `json:"notes,omitempty" db:"notes"`
	CreatedAt           time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at" db:"updated_at"`
}

// IsValidTripStatus reports whether s is a known trip status
func IsValidTripStatus(s TripStatus) bool {
	switch s {
	case TripStatusPending, TripStatusAssigned, TripStatusInProgress,
		TripStatusCompleted, TripStatusCancelled, TripStatusNoShow, TripStatusWillCall:
		return true
	}
	return false
}

// IsValidServiceLevel reports whether l is a known service level
func IsValidServiceLevel(l ServiceLevel) bool {
	switch l {
	case ServiceLevelAmbulatory, ServiceLevelWheelchair, ServiceLevelStretcher:
		return true
	}
	return false
}

// IsEarnable reports whether the trip counts toward driver earnings.
// Trips still pending are not yet earned.
func (t *Trip) IsEarnable() bool {
	return t.Status == TripStatusCompleted ||
		t.Status == TripStatusCancelled ||
		t.Status == TripStatusNoShow
}

// HasPayoutOverride reports whether a manual payout override is set and positive
func (t *Trip) HasPayoutOverride() bool {
	return t.DriverPayoutOverride.Valid && t.DriverPayoutOverride.Decimal.IsPositive()
}

// Validate checks the trip's data
func (t *Trip) Validate() error {
	if t.ClinicID == uuid.Nil {
		return ErrInvalidClinicID
	}

	if t.DriverID == uuid.Nil {
		return ErrInvalidDriverID
	}

	if !IsValidTripStatus(t.Status) {
		return ErrInvalidTripStatus
	}

	if !IsValidServiceLevel(t.ServiceLevel) {
		return ErrInvalidServiceLevel
	}

	if t.DistanceMiles < 0 {
		return ErrNegativeDistance
	}

	if t.ContractedFare.IsNegative() {
		return ErrNegativeFare
	}

	return nil
}

// NewTrip creates a new trip in pending status
func NewTrip(clinicID, driverID uuid.UUID, level ServiceLevel, fare decimal.Decimal) *Trip {
	now := time.Now()
	return &Trip{
		ID:             uuid.New(),
		ClinicID:       clinicID,
		DriverID:       driverID,
		Status:         TripStatusPending,
		ServiceLevel:   level,
		ContractedFare: fare,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// TripFilters filters for trip listing
type TripFilters struct {
	ClinicID *uuid.UUID   `json:"clinic_id,omitempty"`
	DriverID *uuid.UUID   `json:"driver_id,omitempty"`
	Status   []TripStatus `json:"status,omitempty"`
	Limit    int          `json:"limit,omitempty"`
	Offset   int          `json:"offset,omitempty"`
}
