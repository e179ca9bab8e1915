package entity

import "time"

// Pagination defaults and bounds for booking lists.
const (
	DefaultBookingPageLimit = 20
	MaxBookingPageLimit     = 100
)

// BookingFilter is a domain-level filter for booking lists.
// Used by repository layer to avoid coupling with delivery DTOs.
type BookingFilter struct {
	Status   *BookingStatus
	DateFrom *time.Time // scheduled_at >= DateFrom
	DateTo   *time.Time // scheduled_at <= DateTo
	Page     int
	Limit    int
}

// Normalize applies page/limit defaults and clamps.
func (f BookingFilter) Normalize() BookingFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultBookingPageLimit
	}
	if f.Limit > MaxBookingPageLimit {
		f.Limit = MaxBookingPageLimit
	}
	return f
}

func (f BookingFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}
