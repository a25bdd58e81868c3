package billing

import (
	"errors"
	"fmt"

	"nemt-billing/internal/domain/entities"
)

// Tier configuration errors, surfaced to the user editing a rate schedule.
// These are the only errors the engine produces: once a schedule passes
// validation, every calculation path has a defined default instead.
var (
	ErrEmptyTierList      = errors.New("tier list is empty")
	ErrTiersNonContiguous = errors.New("tiers must be contiguous")
	ErrTierDegenerate     = errors.New("tier upper bound must exceed lower bound")
)

// firstTierStart mileage where every tier list must begin
const firstTierStart = 1

// ValidateTiers checks a service level's tier list before it is persisted.
// A valid list is sorted, starts at mile 1, has each tier begin exactly one
// mile after the previous ends, and has a strictly positive bracket width.
func ValidateTiers(tiers []entities.RateTier) error {
	if len(tiers) == 0 {
		return ErrEmptyTierList
	}

	for i, tier := range tiers {
		want := firstTierStart
		if i > 0 {
			want = tiers[i-1].ToMiles + 1
		}

		if tier.FromMiles != want {
			return fmt.Errorf("tier %d: starts at mile %d, want %d: %w",
				i, tier.FromMiles, want, ErrTiersNonContiguous)
		}

		if tier.ToMiles <= tier.FromMiles {
			return fmt.Errorf("tier %d: %d-%d: %w",
				i, tier.FromMiles, tier.ToMiles, ErrTierDegenerate)
		}
	}

	return nil
}

// ValidateSchedule validates every configured service level of a schedule.
// Levels without any configuration are allowed; the payout calculator
// treats them as unconfigured and pays 0 with a warning.
func ValidateSchedule(schedule entities.RateSchedule) error {
	for level, rates := range schedule.Levels {
		if err := ValidateTiers(rates.Tiers); err != nil {
			return fmt.Errorf("service level %s: %w", level, err)
		}

		if rates.AdditionalMileRate.IsNegative() {
			return fmt.Errorf("service level %s: %w", level, entities.ErrNegativeRate)
		}
	}

	return nil
}
