package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultEstimatedDuration is used when a booking carries no duration estimate, in minutes.
const DefaultEstimatedDuration = 120

// Booking is a client request for a time-bound service.
// Direct bookings carry ProviderID+ServiceID; open requests carry CategoryID until a provider claims them.
type Booking struct {
	ID                 uuid.UUID            `gorm:"type:uuid;primaryKey" json:"id"`
	ClientID           uuid.UUID            `gorm:"type:uuid;not null;index" json:"client_id"`
	ProviderID         *uuid.UUID           `gorm:"type:uuid;index" json:"provider_id,omitempty"`
	ServiceID          *uuid.UUID           `gorm:"type:uuid;index" json:"service_id,omitempty"`
	CategoryID         *uuid.UUID           `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Status             BookingStatus        `gorm:"type:varchar(30);not null;default:'REQUESTED';index" json:"status"`
	ScheduledAt        time.Time            `gorm:"not null;index" json:"scheduled_at"`
	EstimatedDuration  *int                 `json:"estimated_duration,omitempty"`
	StartedAt          *time.Time           `json:"started_at,omitempty"`
	CompletedAt        *time.Time           `json:"completed_at,omitempty"`
	CancelledAt        *time.Time           `json:"cancelled_at,omitempty"`
	CancellationReason *string              `gorm:"type:text" json:"cancellation_reason,omitempty"`
	CancelledBy        *CancelledBy         `gorm:"type:varchar(20)" json:"cancelled_by,omitempty"`
	QuotedPrice        decimal.NullDecimal  `gorm:"type:numeric(12,2)" json:"quoted_price"`
	QuotedMaterials    decimal.NullDecimal  `gorm:"type:numeric(12,2)" json:"quoted_materials"`
	Description        string               `gorm:"type:text;not null" json:"description"`
	Address            string               `gorm:"type:varchar(500);not null" json:"address"`
	Latitude           float64              `gorm:"type:double precision;not null" json:"latitude"`
	Longitude          float64              `gorm:"type:double precision;not null" json:"longitude"`
	CreatedAt          time.Time            `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt          time.Time            `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Provider      *Provider              `gorm:"foreignKey:ProviderID" json:"provider,omitempty"`
	Service       *Service               `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
	Category      *ServiceCategory       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	StatusHistory []BookingStatusHistory `gorm:"foreignKey:BookingID" json:"status_history,omitempty"`
}

func (Booking) TableName() string {
	return "bookings"
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// IsOpenRequest reports whether the booking is still waiting for any provider to claim it.
func (b *Booking) IsOpenRequest() bool {
	return b.ProviderID == nil && b.CategoryID != nil
}

// IsAssignedTo reports whether providerID is the booking's provider.
func (b *Booking) IsAssignedTo(providerID uuid.UUID) bool {
	return b.ProviderID != nil && *b.ProviderID == providerID
}

// DurationMinutes returns the estimated duration, falling back to the default.
func (b *Booking) DurationMinutes() int {
	if b.EstimatedDuration == nil || *b.EstimatedDuration <= 0 {
		return DefaultEstimatedDuration
	}
	return *b.EstimatedDuration
}

// EndsAt is the end of the slot occupied by the booking.
func (b *Booking) EndsAt() time.Time {
	return b.ScheduledAt.Add(time.Duration(b.DurationMinutes()) * time.Minute)
}
