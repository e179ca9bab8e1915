package entity

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatusHistory is one append-only row per committed transition.
// FromStatus is nil only for the creation event.
type BookingStatusHistory struct {
	ID         int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	BookingID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"booking_id"`
	FromStatus *BookingStatus `gorm:"type:varchar(30)" json:"from_status"`
	ToStatus   BookingStatus  `gorm:"type:varchar(30);not null" json:"to_status"`
	ChangedBy  uuid.UUID      `gorm:"type:uuid;not null" json:"changed_by"`
	Note       *string        `gorm:"type:text" json:"note,omitempty"`
	CreatedAt  time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
}

func (BookingStatusHistory) TableName() string {
	return "booking_status_history"
}
