package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"nemt-billing/internal/domain/entities"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestResolveBillingDate(t *testing.T) {
	createdAt := time.Date(2024, 1, 10, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name          string
		status        entities.TripStatus
		scheduledTime *time.Time
		actualPickup  *time.Time
		expected      time.Time
	}{
		{
			name:          "Completed trip uses actual pickup date",
			status:        entities.TripStatusCompleted,
			scheduledTime: timePtr(time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)),
			actualPickup:  timePtr(time.Date(2024, 3, 5, 14, 45, 0, 0, time.UTC)),
			expected:      date(2024, 3, 5),
		},
		{
			name:         "Completed trip without pickup falls back to schedule",
			status:       entities.TripStatusCompleted,
			scheduledTime: timePtr(time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)),
			expected:     date(2024, 3, 4),
		},
		{
			name:     "Missing scheduled time uses created date",
			status:   entities.TripStatusWillCall,
			expected: date(2024, 1, 10),
		},
		{
			name:          "Legacy placeholder schedule uses created date",
			status:        entities.TripStatusWillCall,
			scheduledTime: timePtr(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)),
			expected:      date(2024, 1, 10),
		},
		{
			name:          "Schedule just past the legacy cutoff is trusted",
			status:        entities.TripStatusPending,
			scheduledTime: timePtr(time.Date(2020, 1, 1, 10, 0, 0, 0, time.UTC)),
			expected:      date(2020, 1, 1),
		},
		{
			name:          "Pending trip uses scheduled date",
			status:        entities.TripStatusPending,
			scheduledTime: timePtr(time.Date(2024, 6, 1, 7, 15, 0, 0, time.UTC)),
			expected:      date(2024, 6, 1),
		},
		{
			name:          "Non-completed trip ignores actual pickup",
			status:        entities.TripStatusInProgress,
			scheduledTime: timePtr(time.Date(2024, 6, 1, 7, 15, 0, 0, time.UTC)),
			actualPickup:  timePtr(time.Date(2024, 6, 2, 7, 30, 0, 0, time.UTC)),
			expected:      date(2024, 6, 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trip := testTrip(tt.status, entities.ServiceLevelAmbulatory, 5)
			trip.CreatedAt = createdAt
			trip.ScheduledTime = tt.scheduledTime
			trip.ActualPickupTime = tt.actualPickup

			resolved := ResolveBillingDate(trip)

			assert.True(t, tt.expected.Equal(resolved),
				"expected %s, got %s", tt.expected, resolved)
		})
	}
}

func TestPeriod(t *testing.T) {
	t.Run("Contains is inclusive on both ends", func(t *testing.T) {
		period, err := NewPeriod(date(2024, 3, 1), date(2024, 3, 31))
		assert.NoError(t, err)

		assert.True(t, period.Contains(date(2024, 3, 1)))
		assert.True(t, period.Contains(date(2024, 3, 31)))
		assert.True(t, period.Contains(time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC)))
		assert.False(t, period.Contains(date(2024, 2, 29)))
		assert.False(t, period.Contains(date(2024, 4, 1)))
	})

	t.Run("Time of day is stripped from bounds", func(t *testing.T) {
		period, err := NewPeriod(
			time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC),
			time.Date(2024, 3, 31, 2, 0, 0, 0, time.UTC),
		)
		assert.NoError(t, err)

		assert.True(t, period.Contains(time.Date(2024, 3, 1, 6, 0, 0, 0, time.UTC)))
	})

	t.Run("Inverted bounds are rejected", func(t *testing.T) {
		_, err := NewPeriod(date(2024, 4, 1), date(2024, 3, 1))

		assert.ErrorIs(t, err, entities.ErrInvalidPeriod)
	})
}
