package billing

import (
	"github.com/shopspring/decimal"

	"nemt-billing/internal/domain/entities"
)

var oneHundred = decimal.NewFromInt(100)

// ApplyDeductions converts a gross payout into a net payout.
//
// Fixed deductions (vehicle rental, insurance) come off first, then the
// percentage applies to the remainder. Net payout is floored at zero; a
// driver never owes money on a trip.
func ApplyDeductions(gross decimal.Decimal, deductions entities.Deductions) decimal.Decimal {
	net := gross.Sub(deductions.VehicleRental).Sub(deductions.Insurance)

	factor := decimal.NewFromInt(1).Sub(deductions.Percentage.Div(oneHundred))
	net = net.Mul(factor)

	if net.IsNegative() {
		return decimal.Zero
	}

	return roundMoney(net)
}
