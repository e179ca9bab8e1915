package usecase

import (
	"context"
	"errors"
	"time"

	"marketplace-booking/internal/domain/entity"
	"marketplace-booking/internal/domain/repository"
	"marketplace-booking/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"
	"gorm.io/gorm"
)

const (
	// ConflictWindow is how far either side of an accepted booking pending requests get swept
	ConflictWindow = 2 * time.Hour

	ConflictCancellationReason = "El proveedor aceptó otra solicitud en este horario"

	// conflictSweepConcurrency bounds the sibling cancellations running at once
	conflictSweepConcurrency = 4
)

// errStatusMoved signals a lost compare-and-set inside a transaction.
var errStatusMoved = errors.New("booking status changed concurrently")

// Clock returns the current time. Tests pin it.
type Clock func() time.Time

// transition is one edge applied to a booking.
type transition struct {
	to     entity.BookingStatus
	fields map[string]interface{}
	note   string
	// after runs inside the same transaction once the status write succeeded
	after func(tx *gorm.DB) error
}

// ConflictFailure is a sibling the sweep could not cancel.
type ConflictFailure struct {
	BookingID uuid.UUID
	Err       error
}

// ConflictReport is the outcome of a conflict sweep.
type ConflictReport struct {
	Cancelled []uuid.UUID
	Failed    []ConflictFailure
}

// bookingStateMachine applies validated transitions. Every write is a compare-and-set on the
// status read by the caller, so two racing callers cannot both win.
type bookingStateMachine struct {
	db             *gorm.DB
	log            *logrus.Logger
	transactor     repository.Transactor
	bookingRepo    repository.BookingRepository
	historyService service.BookingHistoryService
	notifier       service.Notifier
	now            Clock
}

func newBookingStateMachine(
	db *gorm.DB,
	log *logrus.Logger,
	transactor repository.Transactor,
	bookingRepo repository.BookingRepository,
	historyService service.BookingHistoryService,
	notifier service.Notifier,
	now Clock,
) *bookingStateMachine {
	if now == nil {
		now = time.Now
	}
	return &bookingStateMachine{
		db:             db,
		log:            log,
		transactor:     transactor,
		bookingRepo:    bookingRepo,
		historyService: historyService,
		notifier:       notifier,
		now:            now,
	}
}

func (m *bookingStateMachine) findBooking(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	booking, err := m.bookingRepo.FindByID(m.db.WithContext(ctx), id)
	if err != nil {
		m.log.Warnf("Failed to find booking %s: %+v", id, err)
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	return booking, nil
}

// apply moves booking from its current status along t in one unit of work and
// returns the reloaded booking.
func (m *bookingStateMachine) apply(ctx context.Context, booking *entity.Booking, changedBy uuid.UUID, t transition) (*entity.Booking, error) {
	from := booking.Status
	if !from.CanTransitionTo(t.to) {
		return nil, invalidTransition(from, t.to)
	}

	err := m.transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		rows, err := m.bookingRepo.UpdateStatusIfCurrent(tx, booking.ID, from, t.to, t.fields)
		if err != nil {
			return err
		}
		if rows == 0 {
			return errStatusMoved
		}
		if err := m.historyService.RecordTransition(ctx, tx, booking.ID, from, t.to, changedBy, t.note); err != nil {
			return err
		}
		if t.after != nil {
			return t.after(tx)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, errStatusMoved) {
			return nil, m.staleTransition(ctx, booking.ID, from, t.to)
		}
		m.log.Warnf("Failed to transition booking %s %s -> %s: %+v", booking.ID, from, t.to, err)
		return nil, err
	}

	m.log.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"from":       from,
		"to":         t.to,
	}).Info("Booking status changed")

	return m.findBooking(ctx, booking.ID)
}

// staleTransition reports a lost race with the status that won it.
func (m *bookingStateMachine) staleTransition(ctx context.Context, id uuid.UUID, from, to entity.BookingStatus) error {
	current, err := m.bookingRepo.FindByID(m.db.WithContext(ctx), id)
	if err != nil || current == nil {
		return invalidTransition(from, to)
	}
	return invalidTransition(current.Status, to)
}

func (m *bookingStateMachine) cancelFields(reason string, by entity.CancelledBy) map[string]interface{} {
	return map[string]interface{}{
		"cancelled_at":        m.now().UTC(),
		"cancellation_reason": reason,
		"cancelled_by":        by,
	}
}

// sweepConflicts cancels the provider's other REQUESTED bookings scheduled within
// ConflictWindow of accepted. Each sibling is cancelled in its own transaction; a failure
// on one never affects the others or the accept that triggered the sweep.
func (m *bookingStateMachine) sweepConflicts(ctx context.Context, accepted *entity.Booking, providerUserID uuid.UUID) ConflictReport {
	report := ConflictReport{Cancelled: []uuid.UUID{}}
	if accepted.ProviderID == nil {
		return report
	}

	siblings, err := m.bookingRepo.FindRequestedInWindow(
		m.db.WithContext(ctx),
		*accepted.ProviderID,
		accepted.ID,
		accepted.ScheduledAt.Add(-ConflictWindow),
		accepted.ScheduledAt.Add(ConflictWindow),
	)
	if err != nil {
		m.log.WithField("booking_id", accepted.ID).Errorf("Failed to find conflicting bookings: %+v", err)
		return report
	}
	if len(siblings) == 0 {
		return report
	}

	p := pool.NewWithResults[ConflictFailure]().WithMaxGoroutines(conflictSweepConcurrency)
	for i := range siblings {
		sibling := siblings[i]
		p.Go(func() ConflictFailure {
			return ConflictFailure{BookingID: sibling.ID, Err: m.cancelConflict(ctx, &sibling, providerUserID)}
		})
	}
	outcomes := p.Wait()

	// report in schedule order regardless of completion order
	byID := make(map[uuid.UUID]error, len(outcomes))
	for _, o := range outcomes {
		byID[o.BookingID] = o.Err
	}
	for _, sibling := range siblings {
		if err := byID[sibling.ID]; err != nil {
			report.Failed = append(report.Failed, ConflictFailure{BookingID: sibling.ID, Err: err})
			continue
		}
		report.Cancelled = append(report.Cancelled, sibling.ID)
	}

	m.log.WithFields(logrus.Fields{
		"booking_id":  accepted.ID,
		"provider_id": *accepted.ProviderID,
		"cancelled":   len(report.Cancelled),
		"failed":      len(report.Failed),
	}).Info("Conflict sweep finished")

	return report
}

func (m *bookingStateMachine) cancelConflict(ctx context.Context, sibling *entity.Booking, providerUserID uuid.UUID) error {
	_, err := m.apply(ctx, sibling, providerUserID, transition{
		to:     entity.BookingStatusCancelled,
		fields: m.cancelFields(ConflictCancellationReason, entity.CancelledBySystem),
		note:   ConflictCancellationReason,
	})
	if err != nil {
		m.log.WithFields(logrus.Fields{
			"booking_id":  sibling.ID,
			"provider_id": sibling.ProviderID,
		}).Warnf("Failed to cancel conflicting booking: %+v", err)
		return err
	}

	m.notify(ctx, service.Notification{
		UserID:    sibling.ClientID,
		Event:     service.EventBookingConflictCancelled,
		Message:   ConflictCancellationReason,
		BookingID: sibling.ID,
	})
	return nil
}

// notify delivers best-effort; errors are logged and dropped.
func (m *bookingStateMachine) notify(ctx context.Context, n service.Notification) {
	if n.OccurredAt.IsZero() {
		n.OccurredAt = m.now().UTC()
	}
	if err := m.notifier.Notify(ctx, n); err != nil {
		m.log.WithFields(logrus.Fields{
			"booking_id": n.BookingID,
			"user_id":    n.UserID,
			"event":      n.Event,
		}).Errorf("Failed to send notification: %+v", err)
	}
}
