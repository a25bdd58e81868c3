package billing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"nemt-billing/internal/domain/entities"
)

// LevelTotal count and subtotal for one service level
type LevelTotal struct {
	Count    int             `json:"count"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// Summary per-service-level totals for one billing period.
// Produced fresh on every aggregation call; never persisted.
type Summary struct {
	ByLevel    map[entities.ServiceLevel]LevelTotal `json:"by_level"`
	GrandTotal decimal.Decimal                      `json:"grand_total"`
}

// Warning flags a trip whose driver has no rate configuration for the
// trip's service level. The trip still contributes 0 to the totals.
type Warning struct {
	TripID       uuid.UUID             `json:"trip_id"`
	DriverID     uuid.UUID             `json:"driver_id"`
	ServiceLevel entities.ServiceLevel `json:"service_level"`
}

// EarningsSummary a driver's aggregated net earnings for one period
type EarningsSummary struct {
	ByLevel    map[entities.ServiceLevel]LevelTotal `json:"by_level"`
	GrandTotal decimal.Decimal                      `json:"grand_total"`
	Warnings   []Warning                            `json:"warnings,omitempty"`
}

// newLevelTotals returns a bucket per service level, all zeroed, so that
// renderers always see a row for every level
func newLevelTotals() map[entities.ServiceLevel]LevelTotal {
	totals := make(map[entities.ServiceLevel]LevelTotal, len(entities.ServiceLevels))
	for _, level := range entities.ServiceLevels {
		totals[level] = LevelTotal{Subtotal: decimal.Zero}
	}
	return totals
}

// Aggregate rolls trips up into a clinic's billing summary for a period.
//
// A trip is included iff it belongs to the clinic and its resolved billing
// date falls inside the period, inclusive on both ends. Subtotals are sums
// of already-rounded per-trip amounts, so no further rounding is applied.
func Aggregate(trips []*entities.Trip, clinic *entities.Clinic, period Period) *Summary {
	summary := &Summary{
		ByLevel:    newLevelTotals(),
		GrandTotal: decimal.Zero,
	}

	for _, trip := range trips {
		if trip.ClinicID != clinic.ID {
			continue
		}

		if !period.Contains(ResolveBillingDate(trip)) {
			continue
		}

		amount := ComputeBillableAmount(trip, clinic)

		total := summary.ByLevel[trip.ServiceLevel]
		total.Count++
		total.Subtotal = total.Subtotal.Add(amount)
		summary.ByLevel[trip.ServiceLevel] = total

		summary.GrandTotal = summary.GrandTotal.Add(amount)
	}

	return summary
}

// AggregateDriverEarnings rolls trips up into a driver's net earnings for
// a period. Only trips in a settled status (completed, cancelled, no-show)
// are earned; pending work is excluded. Each trip's amount is the gross
// payout with the driver's deductions applied.
func AggregateDriverEarnings(trips []*entities.Trip, driver *entities.Driver, period Period) *EarningsSummary {
	summary := &EarningsSummary{
		ByLevel:    newLevelTotals(),
		GrandTotal: decimal.Zero,
	}

	for _, trip := range trips {
		if trip.DriverID != driver.ID {
			continue
		}

		if !trip.IsEarnable() {
			continue
		}

		if !period.Contains(ResolveBillingDate(trip)) {
			continue
		}

		payout := ComputePayout(trip, driver)
		if payout.Unconfigured {
			summary.Warnings = append(summary.Warnings, Warning{
				TripID:       trip.ID,
				DriverID:     driver.ID,
				ServiceLevel: trip.ServiceLevel,
			})
		}

		net := ApplyDeductions(payout.Amount, driver.Deductions)

		total := summary.ByLevel[trip.ServiceLevel]
		total.Count++
		total.Subtotal = total.Subtotal.Add(net)
		summary.ByLevel[trip.ServiceLevel] = total

		summary.GrandTotal = summary.GrandTotal.Add(net)
	}

	return summary
}
