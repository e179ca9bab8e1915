package repository

import (
	"marketplace-booking/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingHistoryRepository interface {
	Append(db *gorm.DB, history *entity.BookingStatusHistory) error
	FindByBookingID(db *gorm.DB, bookingID uuid.UUID) ([]entity.BookingStatusHistory, error)
}
