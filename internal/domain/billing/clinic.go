package billing

import (
	"github.com/shopspring/decimal"

	"nemt-billing/internal/domain/entities"
)

// ComputeBillableAmount computes the amount a clinic is billed for one trip.
//
// Clinics pay the contracted fare for every trip that consumed dispatch
// and vehicle capacity, whether or not it has completed yet. Only the
// explicit failure statuses get the clinic's reduced flat rate.
func ComputeBillableAmount(trip *entities.Trip, clinic *entities.Clinic) decimal.Decimal {
	switch trip.Status {
	case entities.TripStatusCancelled:
		return roundMoney(clinic.CancellationRate)
	case entities.TripStatusNoShow:
		return roundMoney(clinic.NoShowRate)
	default:
		return roundMoney(trip.ContractedFare)
	}
}
