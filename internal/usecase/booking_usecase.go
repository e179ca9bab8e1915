package usecase

import (
	"context"
	"time"

	"marketplace-booking/internal/converter"
	"marketplace-booking/internal/delivery/dto"
	"marketplace-booking/internal/domain/entity"
	"marketplace-booking/internal/domain/repository"
	"marketplace-booking/internal/service"
	"marketplace-booking/pkg/geo"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Scheduling window for new bookings, relative to creation time.
const (
	MinLeadTime = time.Hour
	MaxLeadTime = 30 * 24 * time.Hour
)

type BookingUsecase interface {
	CreateBooking(ctx context.Context, actor entity.Actor, req *dto.CreateBookingRequest) (*dto.BookingResponse, error)
	GetBooking(ctx context.Context, actor entity.Actor, bookingID uuid.UUID) (*dto.BookingResponse, error)
	ListClientBookings(ctx context.Context, actor entity.Actor, filter entity.BookingFilter) (*dto.BookingListResponse, error)
	ListProviderBookings(ctx context.Context, actor entity.Actor, filter entity.BookingFilter) (*dto.BookingListResponse, error)
}

type bookingUsecase struct {
	db             *gorm.DB
	log            *logrus.Logger
	transactor     repository.Transactor
	bookingRepo    repository.BookingRepository
	providerRepo   repository.ProviderRepository
	catalogRepo    repository.CatalogRepository
	historyService service.BookingHistoryService
	categoryCache  *service.CategoryCache
	now            Clock
}

func NewBookingUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	transactor repository.Transactor,
	bookingRepo repository.BookingRepository,
	providerRepo repository.ProviderRepository,
	catalogRepo repository.CatalogRepository,
	historyService service.BookingHistoryService,
	categoryCache *service.CategoryCache,
	now Clock,
) BookingUsecase {
	if now == nil {
		now = time.Now
	}
	return &bookingUsecase{
		db:             db,
		log:            log,
		transactor:     transactor,
		bookingRepo:    bookingRepo,
		providerRepo:   providerRepo,
		catalogRepo:    catalogRepo,
		historyService: historyService,
		categoryCache:  categoryCache,
		now:            now,
	}
}

// CreateBooking creates a direct booking or an open request.
//
// Flow:
// 1. Decide the kind from which ids are present (exactly one shape is accepted)
// 2. Validate the scheduling window against the clock
// 3. Validate the provider/service or the category
// 4. Insert the booking and its initial history row in one transaction
func (u *bookingUsecase) CreateBooking(ctx context.Context, actor entity.Actor, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
	hasCategory := req.CategoryID != nil || req.CategorySlug != ""
	isDirect := req.ProviderID != nil && req.ServiceID != nil && !hasCategory
	isOpen := req.ProviderID == nil && req.ServiceID == nil && hasCategory
	if !isDirect && !isOpen {
		return nil, ErrBookingTarget
	}

	if req.Latitude == nil || req.Longitude == nil {
		return nil, ErrLocationRequired
	}
	if !(geo.Point{Latitude: *req.Latitude, Longitude: *req.Longitude}).Valid() {
		return nil, ErrInvalidLocation
	}

	scheduledAt := req.ScheduledAt.UTC()
	if err := u.validateSchedule(scheduledAt); err != nil {
		return nil, err
	}

	booking := &entity.Booking{
		ClientID:    actor.UserID,
		Status:      entity.BookingStatusRequested,
		ScheduledAt: scheduledAt,
		Description: req.Description,
		Address:     req.Address,
		Latitude:    *req.Latitude,
		Longitude:   *req.Longitude,
	}

	var err error
	if isDirect {
		err = u.prepareDirectBooking(ctx, actor, req, booking)
	} else {
		err = u.prepareOpenRequest(ctx, req, booking)
	}
	if err != nil {
		return nil, err
	}

	err = u.transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		if err := u.bookingRepo.Create(tx, booking); err != nil {
			return err
		}
		return u.historyService.RecordCreated(ctx, tx, booking, actor.UserID, req.Notes)
	})
	if err != nil {
		u.log.Warnf("Failed to create booking: %+v", err)
		return nil, err
	}

	u.log.WithFields(logrus.Fields{
		"booking_id":   booking.ID,
		"client_id":    booking.ClientID,
		"open_request": isOpen,
	}).Info("Booking created")

	created, err := u.bookingRepo.FindByID(u.db.WithContext(ctx), booking.ID)
	if err != nil || created == nil {
		u.log.Warnf("Failed to reload booking %s: %+v", booking.ID, err)
		return converter.BookingToResponse(booking), nil
	}

	return converter.BookingToResponse(created), nil
}

func (u *bookingUsecase) validateSchedule(scheduledAt time.Time) error {
	now := u.now()
	if scheduledAt.Before(now.Add(MinLeadTime)) {
		return ErrScheduleTooSoon
	}
	if scheduledAt.After(now.Add(MaxLeadTime)) {
		return ErrScheduleTooFar
	}
	return nil
}

func (u *bookingUsecase) prepareDirectBooking(ctx context.Context, actor entity.Actor, req *dto.CreateBookingRequest, booking *entity.Booking) error {
	db := u.db.WithContext(ctx)

	provider, err := u.providerRepo.FindByID(db, *req.ProviderID)
	if err != nil {
		u.log.Warnf("Failed to find provider %s: %+v", *req.ProviderID, err)
		return err
	}
	if provider == nil {
		return ErrProviderNotFound
	}
	if !provider.IsApproved() {
		return ErrProviderNotApproved
	}
	if !provider.User.IsActive() {
		return ErrProviderInactive
	}
	if provider.UserID == actor.UserID {
		return ErrSelfBooking
	}

	offer, err := u.catalogRepo.FindProviderService(db, provider.ID, *req.ServiceID)
	if err != nil {
		u.log.Warnf("Failed to find provider service: %+v", err)
		return err
	}
	if offer == nil || !offer.IsActive {
		return ErrServiceNotOffered
	}

	booking.ProviderID = &provider.ID
	booking.ServiceID = &offer.ServiceID
	return nil
}

func (u *bookingUsecase) prepareOpenRequest(ctx context.Context, req *dto.CreateBookingRequest, booking *entity.Booking) error {
	categoryID := req.CategoryID
	if categoryID == nil {
		resolved, err := u.categoryCache.ResolveSlug(ctx, req.CategorySlug)
		if err != nil {
			return err
		}
		if resolved == nil {
			return ErrCategoryUnavailable
		}
		categoryID = resolved
	}

	category, err := u.catalogRepo.FindCategoryByID(u.db.WithContext(ctx), *categoryID)
	if err != nil {
		u.log.Warnf("Failed to find category %s: %+v", *categoryID, err)
		return err
	}
	if category == nil {
		if req.CategoryID == nil {
			// slug resolved to a deleted category; the cached id is stale
			u.categoryCache.Invalidate(ctx, req.CategorySlug)
		}
		return ErrCategoryUnavailable
	}
	if !category.IsActive {
		return ErrCategoryUnavailable
	}

	if req.Budget != nil {
		if req.Budget.IsNegative() {
			return ErrNegativeBudget
		}
		booking.QuotedPrice = decimal.NewNullDecimal(*req.Budget)
	}

	booking.CategoryID = &category.ID
	return nil
}

// GetBooking returns a booking with its full history. Visible to its client, its provider,
// admins, and any provider while it is still an open request.
func (u *bookingUsecase) GetBooking(ctx context.Context, actor entity.Actor, bookingID uuid.UUID) (*dto.BookingResponse, error) {
	db := u.db.WithContext(ctx)

	booking, err := u.bookingRepo.FindByID(db, bookingID)
	if err != nil {
		u.log.Warnf("Failed to find booking %s: %+v", bookingID, err)
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}

	if !canView(actor, booking) {
		return nil, ErrNotBookingParty
	}

	history, err := u.historyService.History(ctx, db, booking.ID)
	if err != nil {
		u.log.Warnf("Failed to load history for booking %s: %+v", booking.ID, err)
		return nil, err
	}
	booking.StatusHistory = history

	return converter.BookingToResponse(booking), nil
}

func canView(actor entity.Actor, booking *entity.Booking) bool {
	switch {
	case actor.IsAdmin():
		return true
	case booking.ClientID == actor.UserID:
		return true
	case booking.Provider != nil && booking.Provider.UserID == actor.UserID:
		return true
	case booking.IsOpenRequest() && actor.Role == entity.RoleProvider:
		return true
	}
	return false
}

// ListClientBookings returns the caller's own bookings, newest first.
func (u *bookingUsecase) ListClientBookings(ctx context.Context, actor entity.Actor, filter entity.BookingFilter) (*dto.BookingListResponse, error) {
	filter = filter.Normalize()

	bookings, total, err := u.bookingRepo.FindByClientID(u.db.WithContext(ctx), actor.UserID, filter)
	if err != nil {
		u.log.Warnf("Failed to list bookings for client %s: %+v", actor.UserID, err)
		return nil, err
	}

	return &dto.BookingListResponse{
		Bookings: converter.BookingsToResponses(bookings),
		Total:    total,
		Page:     filter.Page,
		Limit:    filter.Limit,
	}, nil
}

// ListProviderBookings returns the bookings assigned to the caller's provider profile.
func (u *bookingUsecase) ListProviderBookings(ctx context.Context, actor entity.Actor, filter entity.BookingFilter) (*dto.BookingListResponse, error) {
	filter = filter.Normalize()
	db := u.db.WithContext(ctx)

	provider, err := u.providerRepo.FindByUserID(db, actor.UserID)
	if err != nil {
		u.log.Warnf("Failed to find provider for user %s: %+v", actor.UserID, err)
		return nil, err
	}
	if provider == nil {
		return nil, ErrProviderProfileRequired
	}

	bookings, total, err := u.bookingRepo.FindByProviderID(db, provider.ID, filter)
	if err != nil {
		u.log.Warnf("Failed to list bookings for provider %s: %+v", provider.ID, err)
		return nil, err
	}

	return &dto.BookingListResponse{
		Bookings: converter.BookingsToResponses(bookings),
		Total:    total,
		Page:     filter.Page,
		Limit:    filter.Limit,
	}, nil
}
