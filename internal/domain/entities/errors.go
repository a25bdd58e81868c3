package entities

import "errors"

// Domain errors
var (
	// Driver errors
	ErrDriverNotFound  = errors.New("driver not found")
	ErrDriverExists    = errors.New("driver already exists")
	ErrInvalidPhone    = errors.New("invalid phone number")
	ErrInvalidEmail    = errors.New("invalid email address")
	ErrInvalidName     = errors.New("invalid name")
	ErrInvalidLicense  = errors.New("invalid license number")
	ErrInvalidDriverID = errors.New("invalid driver ID")

	// Clinic errors
	ErrClinicNotFound      = errors.New("clinic not found")
	ErrClinicExists        = errors.New("clinic already exists")
	ErrInvalidClinicID     = errors.New("invalid clinic ID")
	ErrInvalidClinicName   = errors.New("invalid clinic name")
	ErrInvalidPaymentTerms = errors.New("invalid payment terms")

	// Trip errors
	ErrTripNotFound        = errors.New("trip not found")
	ErrInvalidTripStatus   = errors.New("invalid trip status")
	ErrInvalidServiceLevel = errors.New("invalid service level")
	ErrNegativeDistance    = errors.New("trip distance cannot be negative")
	ErrNegativeFare        = errors.New("contracted fare cannot be negative")
	ErrInvalidOverride     = errors.New("payout override must be positive")

	// Rate configuration errors
	ErrNegativeRate            = errors.New("rate cannot be negative")
	ErrNegativeDeduction       = errors.New("deduction amount cannot be negative")
	ErrInvalidDeductionPercent = errors.New("deduction percentage must be between 0 and 100")

	// Period errors
	ErrInvalidPeriod = errors.New("period start must not be after period end")
)
