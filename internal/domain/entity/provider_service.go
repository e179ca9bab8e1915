package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProviderService is what a provider offers and at which price. Unique on (provider, service).
type ProviderService struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ProviderID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_provider_service" json:"provider_id"`
	ServiceID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_provider_service" json:"service_id"`
	Price      decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"price"`
	IsActive   bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`

	Service Service `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
}

func (ProviderService) TableName() string {
	return "provider_services"
}

func (ps *ProviderService) BeforeCreate(tx *gorm.DB) error {
	if ps.ID == uuid.Nil {
		ps.ID = uuid.New()
	}
	return nil
}

// IsPriced reports whether the offer carries a positive price.
func (ps *ProviderService) IsPriced() bool {
	return ps.Price.IsPositive()
}
