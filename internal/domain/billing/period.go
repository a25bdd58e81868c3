// Package billing contains the billing and payout calculation engine.
//
// Every function in this package is a pure computation over entity values:
// no I/O, no shared state, safe for concurrent use. Monetary results are
// rounded half-up to 2 decimal places before being returned; callers
// (renderers, handlers) must not re-round them.
package billing

import (
	"time"

	"nemt-billing/internal/domain/entities"
)

// DateOf returns the date portion of a timestamp as a UTC midnight value.
// All billing comparisons are date-only; time of day never leaks in.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Period an inclusive date range over which trips are aggregated
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewPeriod creates a period from two timestamps, keeping date portions only
func NewPeriod(start, end time.Time) (Period, error) {
	p := Period{Start: DateOf(start), End: DateOf(end)}
	if p.Start.After(p.End) {
		return Period{}, entities.ErrInvalidPeriod
	}
	return p, nil
}

// Contains reports whether the given date falls inside the period,
// inclusive on both ends
func (p Period) Contains(date time.Time) bool {
	d := DateOf(date)
	return !d.Before(p.Start) && !d.After(p.End)
}
