package entity

// BookingStatus is a node of the booking lifecycle graph.
type BookingStatus string

const (
	BookingStatusRequested        BookingStatus = "REQUESTED"
	BookingStatusQuoted           BookingStatus = "QUOTED"
	BookingStatusAccepted         BookingStatus = "ACCEPTED"
	BookingStatusProviderEnRoute  BookingStatus = "PROVIDER_EN_ROUTE"
	BookingStatusInProgress       BookingStatus = "IN_PROGRESS"
	BookingStatusEvidenceUploaded BookingStatus = "EVIDENCE_UPLOADED"
	BookingStatusCompleted        BookingStatus = "COMPLETED"
	BookingStatusCancelled        BookingStatus = "CANCELLED"
	BookingStatusDisputed         BookingStatus = "DISPUTED"
)

// bookingTransitions is the adjacency table of the lifecycle.
// DISPUTED is entered only by the external dispute workflow, so nothing here points at it.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusRequested:        {BookingStatusQuoted, BookingStatusAccepted, BookingStatusCancelled},
	BookingStatusQuoted:           {BookingStatusAccepted, BookingStatusCancelled},
	BookingStatusAccepted:         {BookingStatusProviderEnRoute, BookingStatusCancelled},
	BookingStatusProviderEnRoute:  {BookingStatusInProgress, BookingStatusCancelled},
	BookingStatusInProgress:       {BookingStatusEvidenceUploaded, BookingStatusCompleted, BookingStatusCancelled},
	BookingStatusEvidenceUploaded: {BookingStatusCompleted, BookingStatusCancelled},
	BookingStatusCompleted:        {},
	BookingStatusCancelled:        {},
	BookingStatusDisputed:         {},
}

// AllBookingStatuses lists every status in lifecycle order.
func AllBookingStatuses() []BookingStatus {
	return []BookingStatus{
		BookingStatusRequested,
		BookingStatusQuoted,
		BookingStatusAccepted,
		BookingStatusProviderEnRoute,
		BookingStatusInProgress,
		BookingStatusEvidenceUploaded,
		BookingStatusCompleted,
		BookingStatusCancelled,
		BookingStatusDisputed,
	}
}

// IsValid reports whether s is a known status.
func (s BookingStatus) IsValid() bool {
	_, ok := bookingTransitions[s]
	return ok
}

// CanTransitionTo reports whether target is directly reachable from s.
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether s has no outgoing transitions.
func (s BookingStatus) IsTerminal() bool {
	return len(bookingTransitions[s]) == 0
}

// AllowedTransitions returns a copy of the statuses reachable from s.
func (s BookingStatus) AllowedTransitions() []BookingStatus {
	out := make([]BookingStatus, len(bookingTransitions[s]))
	copy(out, bookingTransitions[s])
	return out
}

// ActiveBookingStatuses are the statuses that occupy a provider's calendar.
func ActiveBookingStatuses() []BookingStatus {
	return []BookingStatus{
		BookingStatusAccepted,
		BookingStatusProviderEnRoute,
		BookingStatusInProgress,
	}
}

// CancelledBy records which party ended a booking.
type CancelledBy string

const (
	CancelledByClient   CancelledBy = "CLIENT"
	CancelledByProvider CancelledBy = "PROVIDER"
	CancelledBySystem   CancelledBy = "SYSTEM"
	CancelledByAdmin    CancelledBy = "ADMIN"
)
