package entities

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateSchedule_ForLevel(t *testing.T) {
	schedule := NewRateSchedule()
	schedule.Levels[ServiceLevelAmbulatory] = ServiceLevelRates{
		Tiers: []RateTier{
			{FromMiles: 1, ToMiles: 5, FlatRate: decimal.RequireFromString("20")},
		},
		AdditionalMileRate: decimal.RequireFromString("1"),
	}
	// Configured entry with no tiers must read as unconfigured
	schedule.Levels[ServiceLevelWheelchair] = ServiceLevelRates{}

	tests := []struct {
		name       string
		level      ServiceLevel
		configured bool
	}{
		{"Configured level", ServiceLevelAmbulatory, true},
		{"Entry without tiers", ServiceLevelWheelchair, false},
		{"Missing level", ServiceLevelStretcher, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rates, ok := schedule.ForLevel(tt.level)

			assert.Equal(t, tt.configured, ok)
			if tt.configured {
				assert.Len(t, rates.Tiers, 1)
			}
		})
	}
}

func TestRateSchedule_Scan(t *testing.T) {
	t.Run("NULL column yields empty current-version schedule", func(t *testing.T) {
		var schedule RateSchedule

		require.NoError(t, schedule.Scan(nil))

		assert.Equal(t, RateScheduleVersion, schedule.SchemaVersion)
		assert.NotNil(t, schedule.Levels)
		assert.Empty(t, schedule.Levels)
	})

	t.Run("Versioned document round-trips", func(t *testing.T) {
		original := NewRateSchedule()
		original.Levels[ServiceLevelStretcher] = ServiceLevelRates{
			Tiers: []RateTier{
				{FromMiles: 1, ToMiles: 10, FlatRate: decimal.RequireFromString("60.50")},
			},
			AdditionalMileRate: decimal.RequireFromString("2.25"),
		}

		value, err := original.Value()
		require.NoError(t, err)

		var scanned RateSchedule
		require.NoError(t, scanned.Scan(value))

		assert.Equal(t, RateScheduleVersion, scanned.SchemaVersion)
		rates, ok := scanned.ForLevel(ServiceLevelStretcher)
		require.True(t, ok)
		assert.True(t, decimal.RequireFromString("60.50").Equal(rates.Tiers[0].FlatRate))
		assert.True(t, decimal.RequireFromString("2.25").Equal(rates.AdditionalMileRate))
	})
}

func TestDeductions_Validate(t *testing.T) {
	tests := []struct {
		name        string
		deductions  Deductions
		expectedErr error
	}{
		{
			name: "Valid deductions",
			deductions: Deductions{
				VehicleRental: decimal.RequireFromString("50"),
				Insurance:     decimal.RequireFromString("25"),
				Percentage:    decimal.RequireFromString("10"),
			},
		},
		{
			name:       "Zero values",
			deductions: Deductions{},
		},
		{
			name: "Negative fixed deduction",
			deductions: Deductions{
				VehicleRental: decimal.RequireFromString("-1"),
			},
			expectedErr: ErrNegativeDeduction,
		},
		{
			name: "Percentage above 100",
			deductions: Deductions{
				Percentage: decimal.RequireFromString("101"),
			},
			expectedErr: ErrInvalidDeductionPercent,
		},
		{
			name: "Negative percentage",
			deductions: Deductions{
				Percentage: decimal.RequireFromString("-5"),
			},
			expectedErr: ErrInvalidDeductionPercent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.deductions.Validate()

			if tt.expectedErr != nil {
				require.Error(t, err)
				assert.Equal(t, tt.expectedErr, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
