package entities

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTrip(t *testing.T) {
	// Arrange
	clinicID := uuid.New()
	driverID := uuid.New()
	fare := decimal.RequireFromString("80")

	// Act
	trip := NewTrip(clinicID, driverID, ServiceLevelWheelchair, fare)

	// Assert
	assert.NotEqual(t, uuid.Nil, trip.ID)
	assert.Equal(t, clinicID, trip.ClinicID)
	assert.Equal(t, driverID, trip.DriverID)
	assert.Equal(t, TripStatusPending, trip.Status)
	assert.Equal(t, ServiceLevelWheelchair, trip.ServiceLevel)
	assert.True(t, fare.Equal(trip.ContractedFare))
	assert.False(t, trip.HasPayoutOverride())
}

func TestTrip_IsEarnable(t *testing.T) {
	tests := []struct {
		status   TripStatus
		expected bool
	}{
		{TripStatusCompleted, true},
		{TripStatusCancelled, true},
		{TripStatusNoShow, true},
		{TripStatusPending, false},
		{TripStatusAssigned, false},
		{TripStatusInProgress, false},
		{TripStatusWillCall, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			trip := &Trip{Status: tt.status}
			assert.Equal(t, tt.expected, trip.IsEarnable())
		})
	}
}

func TestTrip_HasPayoutOverride(t *testing.T) {
	tests := []struct {
		name     string
		override decimal.NullDecimal
		expected bool
	}{
		{"Absent", decimal.NullDecimal{}, false},
		{"Zero", decimal.NewNullDecimal(decimal.Zero), false},
		{"Negative", decimal.NewNullDecimal(decimal.RequireFromString("-5")), false},
		{"Positive", decimal.NewNullDecimal(decimal.RequireFromString("47.50")), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trip := &Trip{DriverPayoutOverride: tt.override}
			assert.Equal(t, tt.expected, trip.HasPayoutOverride())
		})
	}
}

func TestTrip_Validate(t *testing.T) {
	valid := func() *Trip {
		return NewTrip(uuid.New(), uuid.New(), ServiceLevelAmbulatory, decimal.RequireFromString("60"))
	}

	tests := []struct {
		name        string
		mutate      func(*Trip)
		expectedErr error
	}{
		{
			name:   "Valid trip",
			mutate: func(*Trip) {},
		},
		{
			name:        "Missing clinic",
			mutate:      func(tr *Trip) { tr.ClinicID = uuid.Nil },
			expectedErr: ErrInvalidClinicID,
		},
		{
			name:        "Missing driver",
			mutate:      func(tr *Trip) { tr.DriverID = uuid.Nil },
			expectedErr: ErrInvalidDriverID,
		},
		{
			name:        "Unknown status",
			mutate:      func(tr *Trip) { tr.Status = "teleported" },
			expectedErr: ErrInvalidTripStatus,
		},
		{
			name:        "Unknown service level",
			mutate:      func(tr *Trip) { tr.ServiceLevel = "hoverboard" },
			expectedErr: ErrInvalidServiceLevel,
		},
		{
			name:        "Negative distance",
			mutate:      func(tr *Trip) { tr.DistanceMiles = -1 },
			expectedErr: ErrNegativeDistance,
		},
		{
			name:        "Negative fare",
			mutate:      func(tr *Trip) { tr.ContractedFare = decimal.RequireFromString("-10") },
			expectedErr: ErrNegativeFare,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trip := valid()
			tt.mutate(trip)

			err := trip.Validate()

			if tt.expectedErr != nil {
				require.Error(t, err)
				assert.Equal(t, tt.expectedErr, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
