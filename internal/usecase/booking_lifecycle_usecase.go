package usecase

import (
	"context"

	"marketplace-booking/internal/converter"
	"marketplace-booking/internal/delivery/dto"
	"marketplace-booking/internal/domain/entity"
	"marketplace-booking/internal/domain/repository"
	"marketplace-booking/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	DefaultRejectReason      = "Rejected by provider"
	DefaultCancelReason      = "Cancelled by user"
	DefaultForceCancelReason = "Cancelled by administrator"
)

// BookingLifecycleUsecase drives a booking along the lifecycle graph.
type BookingLifecycleUsecase interface {
	Quote(ctx context.Context, actor entity.Actor, bookingID uuid.UUID, req *dto.QuoteBookingRequest) (*dto.BookingResponse, error)
	Accept(ctx context.Context, actor entity.Actor, bookingID uuid.UUID, note string) (*dto.AcceptBookingResponse, error)
	MarkEnRoute(ctx context.Context, actor entity.Actor, bookingID uuid.UUID, note string) (*dto.BookingResponse, error)
	Start(ctx context.Context, actor entity.Actor, bookingID uuid.UUID, note string) (*dto.BookingResponse, error)
	UploadEvidence(ctx context.Context, actor entity.Actor, bookingID uuid.UUID, note string) (*dto.BookingResponse, error)
	Complete(ctx context.Context, actor entity.Actor, bookingID uuid.UUID, note string) (*dto.BookingResponse, error)
	Reject(ctx context.Context, actor entity.Actor, bookingID uuid.UUID, reason string) (*dto.BookingResponse, error)
	Cancel(ctx context.Context, actor entity.Actor, bookingID uuid.UUID, reason string) (*dto.BookingResponse, error)
	ForceCancel(ctx context.Context, actor entity.Actor, bookingID uuid.UUID, reason string) (*dto.BookingResponse, error)
}

type bookingLifecycleUsecase struct {
	log          *logrus.Logger
	machine      *bookingStateMachine
	providerRepo repository.ProviderRepository
}

func NewBookingLifecycleUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	transactor repository.Transactor,
	bookingRepo repository.BookingRepository,
	providerRepo repository.ProviderRepository,
	historyService service.BookingHistoryService,
	notifier service.Notifier,
	now Clock,
) BookingLifecycleUsecase {
	return &bookingLifecycleUsecase{
		log:          log,
		machine:      newBookingStateMachine(db, log, transactor, bookingRepo, historyService, notifier, now),
		providerRepo: providerRepo,
	}
}

// providerBooking loads the booking and checks the caller is its assigned provider.
func (u *bookingLifecycleUsecase) providerBooking(ctx context.Context, actor entity.Actor, bookingID uuid.UUID) (*entity.Booking, *entity.Provider, error) {
	booking, err := u.machine.findBooking(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}

	provider, err := u.providerRepo.FindByUserID(u.machine.db.WithContext(ctx), actor.UserID)
	if err != nil {
		u.log.Warnf("Failed to find provider for user %s: %+v", actor.UserID, err)
		return nil, nil, err
	}
	if provider == nil || !booking.IsAssignedTo(provider.ID) {
		return nil, nil, ErrNotAssignedProvider
	}

	return booking, provider, nil
}

// Quote attaches a price to a REQUESTED booking.
func (u *bookingLifecycleUsecase) Quote(ctx context.Context, actor entity.Actor, bookingID uuid.UUID, req *dto.QuoteBookingRequest) (*dto.BookingResponse, error) {
	if !req.QuotedPrice.IsPositive() || (req.QuotedMaterials != nil && req.QuotedMaterials.IsNegative()) {
		return nil, ErrInvalidQuote
	}

	booking, _, err := u.providerBooking(ctx, actor, bookingID)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{
		"quoted_price": decimal.NewNullDecimal(req.QuotedPrice),
	}
	if req.QuotedMaterials != nil {
		fields["quoted_materials"] = decimal.NewNullDecimal(*req.QuotedMaterials)
	}
	if req.EstimatedDuration != nil {
		fields["estimated_duration"] = *req.EstimatedDuration
	}

	updated, err := u.machine.apply(ctx, booking, actor.UserID, transition{
		to:     entity.BookingStatusQuoted,
		fields: fields,
		note:   req.Note,
	})
	if err != nil {
		return nil, err
	}
	return converter.BookingToResponse(updated), nil
}

// Accept commits the provider to the booking, then sweeps the provider's overlapping
// pending requests. The sweep runs after the accept is committed and cannot undo it.
func (u *bookingLifecycleUsecase) Accept(ctx context.Context, actor entity.Actor, bookingID uuid.UUID, note string) (*dto.AcceptBookingResponse, error) {
	booking, provider, err := u.providerBooking(ctx, actor, bookingID)
	if err != nil {
		return nil, err
	}

	updated, err := u.machine.apply(ctx, booking, actor.UserID, transition{
		to:   entity.BookingStatusAccepted,
		note: note,
	})
	if err != nil {
		return nil, err
	}

	report := u.machine.sweepConflicts(ctx, updated, provider.UserID)

	u.machine.notify(ctx, service.Notification{
		UserID:    updated.ClientID,
		Event:     service.EventBookingAccepted,
		Message:   "Your booking was accepted",
		BookingID: updated.ID,
	})

	return &dto.AcceptBookingResponse{
		Booking:   converter.BookingToResponse(updated),
		Conflicts: conflictReportToResponse(report),
	}, nil
}

func (u *bookingLifecycleUsecase) MarkEnRoute(ctx context.Context, actor entity.Actor, bookingID uuid.UUID, note string) (*dto.BookingResponse, error) {
	return u.providerTransition(ctx, actor, bookingID, transition{
		to:   entity.BookingStatusProviderEnRoute,
		note: note,
	})
}

func (u *bookingLifecycleUsecase) Start(ctx context.Context, actor entity.Actor, bookingID uuid.UUID, note string) (*dto.BookingResponse, error) {
	return u.providerTransition(ctx, actor, bookingID, transition{
		to:     entity.BookingStatusInProgress,
		fields: map[string]interface{}{"started_at": u.machine.now().UTC()},
		note:   note,
	})
}

// UploadEvidence records that evidence was handed to the media store; the files themselves live elsewhere.
func (u *bookingLifecycleUsecase) UploadEvidence(ctx context.Context, actor entity.Actor, bookingID uuid.UUID, note string) (*dto.BookingResponse, error) {
	return u.providerTransition(ctx, actor, bookingID, transition{
		to:   entity.BookingStatusEvidenceUploaded,
		note: note,
	})
}

// Complete closes the booking and bumps the provider's completed-bookings counter in the same transaction.
func (u *bookingLifecycleUsecase) Complete(ctx context.Context, actor entity.Actor, bookingID uuid.UUID, note string) (*dto.BookingResponse, error) {
	booking, provider, err := u.providerBooking(ctx, actor, bookingID)
	if err != nil {
		return nil, err
	}

	updated, err := u.machine.apply(ctx, booking, actor.UserID, transition{
		to:     entity.BookingStatusCompleted,
		fields: map[string]interface{}{"completed_at": u.machine.now().UTC()},
		note:   note,
		after: func(tx *gorm.DB) error {
			return u.providerRepo.IncrementTotalBookings(tx, provider.ID)
		},
	})
	if err != nil {
		return nil, err
	}

	u.machine.notify(ctx, service.Notification{
		UserID:    updated.ClientID,
		Event:     service.EventBookingCompleted,
		Message:   "Your booking was completed",
		BookingID: updated.ID,
	})

	return converter.BookingToResponse(updated), nil
}

// Reject declines a booking that has not been accepted yet.
func (u *bookingLifecycleUsecase) Reject(ctx context.Context, actor entity.Actor, bookingID uuid.UUID, reason string) (*dto.BookingResponse, error) {
	booking, _, err := u.providerBooking(ctx, actor, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.Status != entity.BookingStatusRequested && booking.Status != entity.BookingStatusQuoted {
		return nil, ErrRejectNotAllowed
	}

	if reason == "" {
		reason = DefaultRejectReason
	}

	updated, err := u.machine.apply(ctx, booking, actor.UserID, transition{
		to:     entity.BookingStatusCancelled,
		fields: u.machine.cancelFields(reason, entity.CancelledByProvider),
		note:   reason,
	})
	if err != nil {
		return nil, err
	}

	u.notifyCancelled(ctx, updated, updated.ClientID, reason)
	return converter.BookingToResponse(updated), nil
}

// Cancel ends a booking on behalf of its client or assigned provider.
// Admin callers are recorded as ADMIN whether or not they are a party.
func (u *bookingLifecycleUsecase) Cancel(ctx context.Context, actor entity.Actor, bookingID uuid.UUID, reason string) (*dto.BookingResponse, error) {
	if actor.IsAdmin() {
		return u.ForceCancel(ctx, actor, bookingID, reason)
	}

	booking, err := u.machine.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	isClient := booking.ClientID == actor.UserID
	isProvider := booking.Provider != nil && booking.Provider.UserID == actor.UserID
	if !isClient && !isProvider {
		return nil, ErrNotBookingParty
	}

	cancelledBy := entity.CancelledByProvider
	if isClient {
		cancelledBy = entity.CancelledByClient
	}

	storedReason := reason
	if storedReason == "" {
		storedReason = DefaultCancelReason
	}

	updated, err := u.machine.apply(ctx, booking, actor.UserID, transition{
		to:     entity.BookingStatusCancelled,
		fields: u.machine.cancelFields(storedReason, cancelledBy),
		note:   reason,
	})
	if err != nil {
		return nil, err
	}

	if isClient {
		if updated.Provider != nil {
			u.notifyCancelled(ctx, updated, updated.Provider.UserID, storedReason)
		}
	} else {
		u.notifyCancelled(ctx, updated, updated.ClientID, storedReason)
	}

	return converter.BookingToResponse(updated), nil
}

// ForceCancel is the admin override: any non-terminal booking, regardless of party.
func (u *bookingLifecycleUsecase) ForceCancel(ctx context.Context, actor entity.Actor, bookingID uuid.UUID, reason string) (*dto.BookingResponse, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}

	booking, err := u.machine.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if reason == "" {
		reason = DefaultForceCancelReason
	}

	updated, err := u.machine.apply(ctx, booking, actor.UserID, transition{
		to:     entity.BookingStatusCancelled,
		fields: u.machine.cancelFields(reason, entity.CancelledByAdmin),
		note:   reason,
	})
	if err != nil {
		return nil, err
	}

	u.notifyCancelled(ctx, updated, updated.ClientID, reason)
	if updated.Provider != nil {
		u.notifyCancelled(ctx, updated, updated.Provider.UserID, reason)
	}

	return converter.BookingToResponse(updated), nil
}

func (u *bookingLifecycleUsecase) providerTransition(ctx context.Context, actor entity.Actor, bookingID uuid.UUID, t transition) (*dto.BookingResponse, error) {
	booking, _, err := u.providerBooking(ctx, actor, bookingID)
	if err != nil {
		return nil, err
	}

	updated, err := u.machine.apply(ctx, booking, actor.UserID, t)
	if err != nil {
		return nil, err
	}
	return converter.BookingToResponse(updated), nil
}

func (u *bookingLifecycleUsecase) notifyCancelled(ctx context.Context, booking *entity.Booking, userID uuid.UUID, reason string) {
	u.machine.notify(ctx, service.Notification{
		UserID:    userID,
		Event:     service.EventBookingCancelled,
		Message:   reason,
		BookingID: booking.ID,
	})
}

func conflictReportToResponse(report ConflictReport) dto.ConflictReport {
	response := dto.ConflictReport{CancelledIDs: report.Cancelled}
	for _, f := range report.Failed {
		response.Failed = append(response.Failed, dto.ConflictFailureResponse{
			BookingID: f.BookingID,
			Reason:    f.Err.Error(),
		})
	}
	return response
}
