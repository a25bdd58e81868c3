package entities

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// RateScheduleVersion current schema version for persisted rate schedules
const RateScheduleVersion = 1

// RateTier a contiguous mileage bracket with a flat payout rate
type RateTier struct {
	FromMiles int             `json:"from_miles"`
	ToMiles   int             `json:"to_miles"`
	FlatRate  decimal.Decimal `json:"flat_rate"`
}

// ServiceLevelRates tier configuration for one service level.
// AdditionalMileRate applies to mileage beyond the last tier's ToMiles.
type ServiceLevelRates struct {
	Tiers              []RateTier      `json:"tiers"`
	AdditionalMileRate decimal.Decimal `json:"additional_mile_rate"`
}

// RateSchedule per-service-level rate configuration for a driver.
// Persisted as a single versioned JSON document; the decode happens
// here at the persistence boundary, never inside calculation code.
type RateSchedule struct {
	SchemaVersion int                                `json:"schema_version"`
	Levels        map[ServiceLevel]ServiceLevelRates `json:"levels"`
}

// NewRateSchedule creates an empty rate schedule at the current schema version
func NewRateSchedule() RateSchedule {
	return RateSchedule{
		SchemaVersion: RateScheduleVersion,
		Levels:        make(map[ServiceLevel]ServiceLevelRates),
	}
}

// ForLevel returns the rate configuration for a service level.
// The second value is false when the level is not configured.
func (rs RateSchedule) ForLevel(level ServiceLevel) (ServiceLevelRates, bool) {
	rates, ok := rs.Levels[level]
	if !ok || len(rates.Tiers) == 0 {
		return ServiceLevelRates{}, false
	}
	return rates, true
}

// Value implements driver.Valuer for database serialization
func (rs RateSchedule) Value() (driver.Value, error) {
	if rs.Levels == nil {
		rs.Levels = make(map[ServiceLevel]ServiceLevelRates)
	}
	if rs.SchemaVersion == 0 {
		rs.SchemaVersion = RateScheduleVersion
	}
	return json.Marshal(rs)
}

// Scan implements sql.Scanner for database deserialization
func (rs *RateSchedule) Scan(value interface{}) error {
	if value == nil {
		*rs = NewRateSchedule()
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into RateSchedule", value)
	}

	if err := json.Unmarshal(bytes, rs); err != nil {
		return err
	}

	if rs.Levels == nil {
		rs.Levels = make(map[ServiceLevel]ServiceLevelRates)
	}

	return nil
}

// Deductions fixed and percentage deductions applied to a driver's gross payout
type Deductions struct {
	VehicleRental decimal.Decimal `json:"vehicle_rental"`
	Insurance     decimal.Decimal `json:"insurance"`
	Percentage    decimal.Decimal `json:"percentage"`
}

// Validate checks the deduction amounts
func (d Deductions) Validate() error {
	if d.VehicleRental.IsNegative() || d.Insurance.IsNegative() {
		return ErrNegativeDeduction
	}

	if d.Percentage.IsNegative() || d.Percentage.GreaterThan(decimal.NewFromInt(100)) {
		return ErrInvalidDeductionPercent
	}

	return nil
}

// Value implements driver.Valuer for database serialization
func (d Deductions) Value() (driver.Value, error) {
	return json.Marshal(d)
}

// Scan implements sql.Scanner for database deserialization
func (d *Deductions) Scan(value interface{}) error {
	if value == nil {
		*d = Deductions{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into Deductions", value)
	}

	return json.Unmarshal(bytes, d)
}
