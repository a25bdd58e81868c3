package billing

import (
	"time"

	"nemt-billing/internal/domain/entities"
)

// legacyYearCutoff scheduled times before this year are placeholder dates
// from historical will-call records, created before scheduled dates were
// populated correctly.
const legacyYearCutoff = 2020

// ResolveBillingDate maps a trip to the calendar date it is attributed to
// for period-based billing. The fallback chain is total and deterministic;
// every trip resolves to a date.
//
//  1. A completed trip with an actual pickup belongs to the day service
//     actually happened.
//  2. A trip with no scheduled time, or a legacy placeholder one, belongs
//     to the day it was created.
//  3. Everything else belongs to its scheduled day.
func ResolveBillingDate(trip *entities.Trip) time.Time {
	if trip.Status == entities.TripStatusCompleted && trip.ActualPickupTime != nil {
		return DateOf(*trip.ActualPickupTime)
	}

	if trip.ScheduledTime == nil || trip.ScheduledTime.Year() < legacyYearCutoff {
		return DateOf(trip.CreatedAt)
	}

	return DateOf(*trip.ScheduledTime)
}
