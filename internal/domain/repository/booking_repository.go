package repository

import (
	"time"

	"marketplace-booking/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingRepository interface {
	Create(db *gorm.DB, booking *entity.Booking) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Booking, error)
	FindByClientID(db *gorm.DB, clientID uuid.UUID, filter entity.BookingFilter) ([]entity.Booking, int64, error)
	FindByProviderID(db *gorm.DB, providerID uuid.UUID, filter entity.BookingFilter) ([]entity.Booking, int64, error)
	FindOpenRequests(db *gorm.DB, categoryIDs []uuid.UUID, filter entity.BookingFilter) ([]entity.Booking, int64, error)
	// UpdateStatusIfCurrent moves a booking from `from` to `to` and applies fields in the same statement.
	// Returns affected rows: 0 means the booking was no longer in `from`.
	UpdateStatusIfCurrent(db *gorm.DB, id uuid.UUID, from, to entity.BookingStatus, fields map[string]interface{}) (int64, error)
	// ClaimIfOpen assigns providerID only while the booking is unclaimed and REQUESTED.
	ClaimIfOpen(db *gorm.DB, id, providerID uuid.UUID) (int64, error)
	FindRequestedInWindow(db *gorm.DB, providerID, excludeID uuid.UUID, from, to time.Time) ([]entity.Booking, error)
	FindActiveByProviderBetween(db *gorm.DB, providerID uuid.UUID, from, to time.Time) ([]entity.Booking, error)
}
