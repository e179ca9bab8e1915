package repository

import (
	"errors"
	"time"

	"marketplace-booking/internal/domain/entity"
	domainRepo "marketplace-booking/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type bookingRepository struct{}

func NewBookingRepository() domainRepo.BookingRepository {
	return &bookingRepository{}
}

func (r *bookingRepository) Create(db *gorm.DB, booking *entity.Booking) error {
	return db.Create(booking).Error
}

func (r *bookingRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Booking, error) {
	var booking entity.Booking
	err := withBookingRelations(db).Where("id = ?", id).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByClientID(db *gorm.DB, clientID uuid.UUID, filter entity.BookingFilter) ([]entity.Booking, int64, error) {
	return r.page(db, func(q *gorm.DB) *gorm.DB {
		return applyBookingFilter(q.Where("client_id = ?", clientID), filter)
	}, filter)
}

func (r *bookingRepository) FindByProviderID(db *gorm.DB, providerID uuid.UUID, filter entity.BookingFilter) ([]entity.Booking, int64, error) {
	return r.page(db, func(q *gorm.DB) *gorm.DB {
		return applyBookingFilter(q.Where("provider_id = ?", providerID), filter)
	}, filter)
}

// FindOpenRequests returns unclaimed REQUESTED bookings in the given categories, newest first.
func (r *bookingRepository) FindOpenRequests(db *gorm.DB, categoryIDs []uuid.UUID, filter entity.BookingFilter) ([]entity.Booking, int64, error) {
	if len(categoryIDs) == 0 {
		return []entity.Booking{}, 0, nil
	}
	return r.page(db, func(q *gorm.DB) *gorm.DB {
		return q.Where("provider_id IS NULL AND status = ? AND category_id IN ?", entity.BookingStatusRequested, categoryIDs)
	}, filter)
}

// UpdateStatusIfCurrent is a compare-and-set on the status column.
// Returns affected rows: 1 = applied, 0 = status moved underneath the caller.
func (r *bookingRepository) UpdateStatusIfCurrent(db *gorm.DB, id uuid.UUID, from, to entity.BookingStatus, fields map[string]interface{}) (int64, error) {
	updates := map[string]interface{}{"status": to}
	for k, v := range fields {
		updates[k] = v
	}
	result := db.Model(&entity.Booking{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	return result.RowsAffected, result.Error
}

// ClaimIfOpen atomically attaches a provider to an open request ONLY if nobody claimed it first.
// Returns affected rows: 1 = claimed, 0 = already claimed or no longer REQUESTED.
func (r *bookingRepository) ClaimIfOpen(db *gorm.DB, id, providerID uuid.UUID) (int64, error) {
	result := db.Model(&entity.Booking{}).
		Where("id = ? AND provider_id IS NULL AND status = ?", id, entity.BookingStatusRequested).
		Updates(map[string]interface{}{
			"provider_id": providerID,
			"status":      entity.BookingStatusAccepted,
		})
	return result.RowsAffected, result.Error
}

// FindRequestedInWindow returns the provider's other REQUESTED bookings scheduled within [from, to].
func (r *bookingRepository) FindRequestedInWindow(db *gorm.DB, providerID, excludeID uuid.UUID, from, to time.Time) ([]entity.Booking, error) {
	var bookings []entity.Booking
	err := db.Where("provider_id = ? AND status = ? AND id <> ?", providerID, entity.BookingStatusRequested, excludeID).
		Where("scheduled_at >= ? AND scheduled_at <= ?", from.UTC(), to.UTC()).
		Order("scheduled_at ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// FindActiveByProviderBetween returns bookings occupying the provider's calendar with scheduled_at in [from, to).
func (r *bookingRepository) FindActiveByProviderBetween(db *gorm.DB, providerID uuid.UUID, from, to time.Time) ([]entity.Booking, error) {
	var bookings []entity.Booking
	err := db.Where("provider_id = ? AND status IN ?", providerID, entity.ActiveBookingStatuses()).
		Where("scheduled_at >= ? AND scheduled_at < ?", from.UTC(), to.UTC()).
		Order("scheduled_at ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) page(db *gorm.DB, scope func(*gorm.DB) *gorm.DB, filter entity.BookingFilter) ([]entity.Booking, int64, error) {
	filter = filter.Normalize()

	var total int64
	if err := db.Model(&entity.Booking{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	bookings := []entity.Booking{}
	err := withBookingRelations(db).
		Scopes(scope).
		Order("created_at DESC, id DESC").
		Limit(filter.Limit).
		Offset(filter.Offset()).
		Find(&bookings).Error
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

func applyBookingFilter(q *gorm.DB, filter entity.BookingFilter) *gorm.DB {
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.DateFrom != nil {
		q = q.Where("scheduled_at >= ?", filter.DateFrom.UTC())
	}
	if filter.DateTo != nil {
		q = q.Where("scheduled_at <= ?", filter.DateTo.UTC())
	}
	return q
}

func withBookingRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Provider.User").
		Preload("Service.Category").
		Preload("Category")
}
