package usecase

import (
	"context"
	"errors"
	"time"

	"marketplace-booking/internal/converter"
	"marketplace-booking/internal/delivery/dto"
	"marketplace-booking/internal/domain/entity"
	"marketplace-booking/internal/domain/repository"
	"marketplace-booking/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const ClaimNote = "Provider claimed open request"

// errClaimLost signals a claim compare-and-set that matched no row.
var errClaimLost = errors.New("open request no longer claimable")

// OpenRequestUsecase matches open requests with providers and resolves competing claims.
type OpenRequestUsecase interface {
	ListOpenRequests(ctx context.Context, actor entity.Actor, filter entity.BookingFilter) (*dto.BookingListResponse, error)
	Claim(ctx context.Context, actor entity.Actor, bookingID uuid.UUID) (*dto.AcceptBookingResponse, error)
	BusySlots(ctx context.Context, providerID uuid.UUID, date string) (*dto.BusySlotsResponse, error)
}

type OpenRequestOptions struct {
	// ClaimTriggersConflictSweep runs the accept-time conflict sweep after a claim too
	ClaimTriggersConflictSweep bool
}

type openRequestUsecase struct {
	log          *logrus.Logger
	machine      *bookingStateMachine
	providerRepo repository.ProviderRepository
	opts         OpenRequestOptions
}

func NewOpenRequestUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	transactor repository.Transactor,
	bookingRepo repository.BookingRepository,
	providerRepo repository.ProviderRepository,
	historyService service.BookingHistoryService,
	notifier service.Notifier,
	now Clock,
	opts OpenRequestOptions,
) OpenRequestUsecase {
	return &openRequestUsecase{
		log:          log,
		machine:      newBookingStateMachine(db, log, transactor, bookingRepo, historyService, notifier, now),
		providerRepo: providerRepo,
		opts:         opts,
	}
}

func (u *openRequestUsecase) callerProvider(ctx context.Context, actor entity.Actor) (*entity.Provider, error) {
	provider, err := u.providerRepo.FindByUserID(u.machine.db.WithContext(ctx), actor.UserID)
	if err != nil {
		u.log.Warnf("Failed to find provider for user %s: %+v", actor.UserID, err)
		return nil, err
	}
	if provider == nil {
		return nil, ErrProviderProfileRequired
	}
	return provider, nil
}

// ListOpenRequests returns unclaimed requests in the categories the caller actively offers.
// A provider with no active offers gets an empty page.
func (u *openRequestUsecase) ListOpenRequests(ctx context.Context, actor entity.Actor, filter entity.BookingFilter) (*dto.BookingListResponse, error) {
	filter = filter.Normalize()

	provider, err := u.callerProvider(ctx, actor)
	if err != nil {
		return nil, err
	}

	db := u.machine.db.WithContext(ctx)

	categoryIDs, err := u.providerRepo.FindActiveCategoryIDs(db, provider.ID)
	if err != nil {
		u.log.Warnf("Failed to find categories for provider %s: %+v", provider.ID, err)
		return nil, err
	}

	bookings, total, err := u.machine.bookingRepo.FindOpenRequests(db, categoryIDs, filter)
	if err != nil {
		u.log.Warnf("Failed to list open requests for provider %s: %+v", provider.ID, err)
		return nil, err
	}

	return &dto.BookingListResponse{
		Bookings: converter.BookingsToResponses(bookings),
		Total:    total,
		Page:     filter.Page,
		Limit:    filter.Limit,
	}, nil
}

// Claim attaches the caller to an open request.
//
// The pre-checks give precise errors for the common cases; the decision itself is the
// compare-and-set on (provider_id IS NULL AND status = REQUESTED), so under concurrent
// claims exactly one caller wins and the rest see ErrAlreadyClaimed.
func (u *openRequestUsecase) Claim(ctx context.Context, actor entity.Actor, bookingID uuid.UUID) (*dto.AcceptBookingResponse, error) {
	provider, err := u.callerProvider(ctx, actor)
	if err != nil {
		return nil, err
	}

	booking, err := u.machine.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.ProviderID != nil {
		return nil, ErrAlreadyClaimed
	}
	if booking.CategoryID == nil || booking.Status != entity.BookingStatusRequested {
		return nil, invalidTransition(booking.Status, entity.BookingStatusAccepted)
	}
	if booking.ClientID == provider.UserID {
		return nil, ErrSelfClaim
	}

	if err := u.checkOffersCategory(ctx, provider.ID, *booking.CategoryID); err != nil {
		return nil, err
	}

	err = u.machine.transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		rows, err := u.machine.bookingRepo.ClaimIfOpen(tx, booking.ID, provider.ID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return errClaimLost
		}
		return u.machine.historyService.RecordTransition(
			ctx, tx, booking.ID,
			entity.BookingStatusRequested, entity.BookingStatusAccepted,
			provider.UserID, ClaimNote,
		)
	})
	if err != nil {
		if errors.Is(err, errClaimLost) {
			return nil, u.lostClaim(ctx, booking.ID)
		}
		u.log.Warnf("Failed to claim booking %s: %+v", booking.ID, err)
		return nil, err
	}

	u.log.WithFields(logrus.Fields{
		"booking_id":  booking.ID,
		"provider_id": provider.ID,
	}).Info("Open request claimed")

	claimed, err := u.machine.findBooking(ctx, booking.ID)
	if err != nil {
		return nil, err
	}

	report := ConflictReport{Cancelled: []uuid.UUID{}}
	if u.opts.ClaimTriggersConflictSweep {
		report = u.machine.sweepConflicts(ctx, claimed, provider.UserID)
	}

	u.machine.notify(ctx, service.Notification{
		UserID:    claimed.ClientID,
		Event:     service.EventBookingAccepted,
		Message:   "A provider accepted your request",
		BookingID: claimed.ID,
	})

	return &dto.AcceptBookingResponse{
		Booking:   converter.BookingToResponse(claimed),
		Conflicts: conflictReportToResponse(report),
	}, nil
}

func (u *openRequestUsecase) checkOffersCategory(ctx context.Context, providerID, categoryID uuid.UUID) error {
	categoryIDs, err := u.providerRepo.FindActiveCategoryIDs(u.machine.db.WithContext(ctx), providerID)
	if err != nil {
		u.log.Warnf("Failed to find categories for provider %s: %+v", providerID, err)
		return err
	}
	for _, id := range categoryIDs {
		if id == categoryID {
			return nil
		}
	}
	return ErrCategoryNotOffered
}

// lostClaim explains why the compare-and-set matched nothing.
func (u *openRequestUsecase) lostClaim(ctx context.Context, bookingID uuid.UUID) error {
	current, err := u.machine.bookingRepo.FindByID(u.machine.db.WithContext(ctx), bookingID)
	if err != nil || current == nil || current.ProviderID != nil {
		return ErrAlreadyClaimed
	}
	return invalidTransition(current.Status, entity.BookingStatusAccepted)
}

// BusySlots lists the provider's occupied [start, end) intervals on a UTC calendar date,
// with the weekly availability declared for that weekday. Nothing here blocks creation.
func (u *openRequestUsecase) BusySlots(ctx context.Context, providerID uuid.UUID, date string) (*dto.BusySlotsResponse, error) {
	day, err := time.ParseInLocation(time.DateOnly, date, time.UTC)
	if err != nil {
		return nil, ErrInvalidDate
	}

	db := u.machine.db.WithContext(ctx)

	provider, err := u.providerRepo.FindByID(db, providerID)
	if err != nil {
		u.log.Warnf("Failed to find provider %s: %+v", providerID, err)
		return nil, err
	}
	if provider == nil {
		return nil, ErrProviderNotFound
	}

	bookings, err := u.machine.bookingRepo.FindActiveByProviderBetween(db, provider.ID, day, day.AddDate(0, 0, 1))
	if err != nil {
		u.log.Warnf("Failed to find busy slots for provider %s: %+v", provider.ID, err)
		return nil, err
	}

	availability, err := u.providerRepo.FindAvailabilityByDay(db, provider.ID, mondayFirstWeekday(day))
	if err != nil {
		u.log.Warnf("Failed to find availability for provider %s: %+v", provider.ID, err)
		return nil, err
	}

	return &dto.BusySlotsResponse{
		ProviderID:   provider.ID,
		Date:         day.Format(time.DateOnly),
		BusySlots:    converter.BusySlotsToResponses(bookings),
		Availability: converter.AvailabilityToResponses(availability),
	}, nil
}

// mondayFirstWeekday maps time.Weekday (Sunday=0) onto 0=Monday .. 6=Sunday.
func mondayFirstWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}
