package billing

import (
	"github.com/shopspring/decimal"

	"nemt-billing/internal/domain/entities"
)

// PayoutResult the gross payout for one trip.
// Unconfigured is set when the driver has no tiers for the trip's service
// level; the amount is then 0 so that one misconfigured driver cannot
// abort a multi-trip billing run.
type PayoutResult struct {
	Amount       decimal.Decimal `json:"amount"`
	Unconfigured bool            `json:"unconfigured,omitempty"`
}

// ComputePayout computes the gross amount owed to a driver for one trip.
//
// Priority order: cancellation and no-show rates win over everything, a
// positive manual override wins over the formula, otherwise the amount
// comes from the tier table for the trip's service level.
func ComputePayout(trip *entities.Trip, driver *entities.Driver) PayoutResult {
	switch trip.Status {
	case entities.TripStatusCancelled:
		return PayoutResult{Amount: roundMoney(driver.CancellationRate)}
	case entities.TripStatusNoShow:
		return PayoutResult{Amount: roundMoney(driver.NoShowRate)}
	}

	if trip.HasPayoutOverride() {
		// Manual override is returned unchanged, not re-rounded.
		return PayoutResult{Amount: trip.DriverPayoutOverride.Decimal}
	}

	rates, ok := driver.Rates.ForLevel(trip.ServiceLevel)
	if !ok {
		return PayoutResult{Amount: decimal.Zero, Unconfigured: true}
	}

	miles := billedMiles(trip.DistanceMiles)
	return PayoutResult{Amount: roundMoney(tieredAmount(rates, miles))}
}

// tieredAmount resolves a rounded mileage into an amount using a tier list
// already known to be valid (contiguous, starting at mile 1).
func tieredAmount(rates entities.ServiceLevelRates, miles int) decimal.Decimal {
	tiers := rates.Tiers
	first := tiers[0]
	last := tiers[len(tiers)-1]

	if miles < first.FromMiles {
		return first.FlatRate
	}

	if miles > last.ToMiles {
		excess := decimal.NewFromInt(int64(miles - last.ToMiles))
		return last.FlatRate.Add(excess.Mul(rates.AdditionalMileRate))
	}

	for _, tier := range tiers {
		if miles >= tier.FromMiles && miles <= tier.ToMiles {
			return tier.FlatRate
		}
	}

	// Unreachable for valid tier lists; fall back to the last bracket.
	return last.FlatRate
}

// billedMiles clamps a distance to zero and rounds it to the nearest
// whole mile, ties rounding up
func billedMiles(distance float64) int {
	if distance < 0 {
		distance = 0
	}
	return int(decimal.NewFromFloat(distance).Round(0).IntPart())
}

// roundMoney rounds a monetary amount half-up to 2 decimal places,
// the rule used for every monetary output of this engine
func roundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
