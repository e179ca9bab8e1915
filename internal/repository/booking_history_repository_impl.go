package repository

import (
	"marketplace-booking/internal/domain/entity"
	domainRepo "marketplace-booking/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type bookingHistoryRepository struct{}

func NewBookingHistoryRepository() domainRepo.BookingHistoryRepository {
	return &bookingHistoryRepository{}
}

func (r *bookingHistoryRepository) Append(db *gorm.DB, history *entity.BookingStatusHistory) error {
	return db.Create(history).Error
}

// FindByBookingID returns the history in commit order.
func (r *bookingHistoryRepository) FindByBookingID(db *gorm.DB, bookingID uuid.UUID) ([]entity.BookingStatusHistory, error) {
	history := []entity.BookingStatusHistory{}
	err := db.Where("booking_id = ?", bookingID).Order("id ASC").Find(&history).Error
	if err != nil {
		return nil, err
	}
	return history, nil
}
