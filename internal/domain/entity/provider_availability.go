package entity

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProviderAvailability is a declared weekly slot. It is informational; bookings are not blocked by it.
// DayOfWeek follows 0=Monday .. 6=Sunday. StartTime/EndTime use HH:MM.
type ProviderAvailability struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProviderID uuid.UUID `gorm:"type:uuid;not null;index" json:"provider_id"`
	DayOfWeek  int       `gorm:"not null" json:"day_of_week"`
	StartTime  string    `gorm:"type:varchar(5);not null" json:"start_time"`
	EndTime    string    `gorm:"type:varchar(5);not null" json:"end_time"`
	IsActive   bool      `gorm:"not null;default:true" json:"is_active"`
}

func (ProviderAvailability) TableName() string {
	return "provider_availability"
}

func (a *ProviderAvailability) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
