package service

import (
	"context"

	"marketplace-booking/internal/domain/entity"
	"marketplace-booking/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// BookingHistoryService appends audit rows. It always writes through the caller's tx
// so the row commits with the status change it describes.
type BookingHistoryService interface {
	RecordCreated(ctx context.Context, tx *gorm.DB, booking *entity.Booking, changedBy uuid.UUID, note string) error
	RecordTransition(ctx context.Context, tx *gorm.DB, bookingID uuid.UUID, from, to entity.BookingStatus, changedBy uuid.UUID, note string) error
	History(ctx context.Context, db *gorm.DB, bookingID uuid.UUID) ([]entity.BookingStatusHistory, error)
}

type bookingHistoryService struct {
	log         *logrus.Logger
	historyRepo repository.BookingHistoryRepository
}

func NewBookingHistoryService(log *logrus.Logger, historyRepo repository.BookingHistoryRepository) BookingHistoryService {
	return &bookingHistoryService{
		log:         log,
		historyRepo: historyRepo,
	}
}

// RecordCreated writes the initial entry, with no from status.
func (s *bookingHistoryService) RecordCreated(ctx context.Context, tx *gorm.DB, booking *entity.Booking, changedBy uuid.UUID, note string) error {
	history := &entity.BookingStatusHistory{
		BookingID: booking.ID,
		ToStatus:  booking.Status,
		ChangedBy: changedBy,
		Note:      optionalString(note),
	}

	if err := s.historyRepo.Append(tx.WithContext(ctx), history); err != nil {
		s.log.Warnf("Failed to create booking history: %+v", err)
		return err
	}

	return nil
}

func (s *bookingHistoryService) RecordTransition(ctx context.Context, tx *gorm.DB, bookingID uuid.UUID, from, to entity.BookingStatus, changedBy uuid.UUID, note string) error {
	history := &entity.BookingStatusHistory{
		BookingID:  bookingID,
		FromStatus: &from,
		ToStatus:   to,
		ChangedBy:  changedBy,
		Note:       optionalString(note),
	}

	if err := s.historyRepo.Append(tx.WithContext(ctx), history); err != nil {
		s.log.Warnf("Failed to append booking history %s -> %s: %+v", from, to, err)
		return err
	}

	return nil
}

func (s *bookingHistoryService) History(ctx context.Context, db *gorm.DB, bookingID uuid.UUID) ([]entity.BookingStatusHistory, error) {
	return s.historyRepo.FindByBookingID(db.WithContext(ctx), bookingID)
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
