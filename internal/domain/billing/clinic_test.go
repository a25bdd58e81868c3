package billing

import (
	"testing"

	"github.com/shopspring/decimal"

	"nemt-billing/internal/domain/entities"
)

func testClinic() *entities.Clinic {
	clinic := entities.NewClinic("Lakeside Dialysis", "+15550200", "billing@lakeside.example", "12 Shore Rd")
	clinic.CancellationRate = decimal.RequireFromString("25")
	clinic.NoShowRate = decimal.RequireFromString("30")
	return clinic
}

func TestComputeBillableAmount(t *testing.T) {
	clinic := testClinic()

	tests := []struct {
		name     string
		status   entities.TripStatus
		expected string
	}{
		{"Cancelled trip bills cancellation rate", entities.TripStatusCancelled, "25"},
		{"No-show trip bills no-show rate", entities.TripStatusNoShow, "30"},
		{"Completed trip bills contracted fare", entities.TripStatusCompleted, "80"},
		{"Pending trip bills contracted fare", entities.TripStatusPending, "80"},
		{"Assigned trip bills contracted fare", entities.TripStatusAssigned, "80"},
		{"In-progress trip bills contracted fare", entities.TripStatusInProgress, "80"},
		{"Will-call trip bills contracted fare", entities.TripStatusWillCall, "80"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trip := testTrip(tt.status, entities.ServiceLevelAmbulatory, 10)

			amount := ComputeBillableAmount(trip, clinic)

			assertMoney(t, tt.expected, amount)
		})
	}
}

func TestComputeBillableAmount_MissingClinicRates(t *testing.T) {
	// Clinic without failure-status rates bills zero for those statuses
	clinic := testClinic()
	clinic.CancellationRate = decimal.Zero
	clinic.NoShowRate = decimal.Zero

	cancelled := ComputeBillableAmount(testTrip(entities.TripStatusCancelled, entities.ServiceLevelAmbulatory, 10), clinic)
	noShow := ComputeBillableAmount(testTrip(entities.TripStatusNoShow, entities.ServiceLevelAmbulatory, 10), clinic)

	assertMoney(t, "0", cancelled)
	assertMoney(t, "0", noShow)
}
