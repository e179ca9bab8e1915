package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ServiceCategory groups services, e.g. "plomeria".
type ServiceCategory struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	Slug      string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"slug"`
	IconURL   string    `gorm:"type:text" json:"icon_url,omitempty"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Services []Service `gorm:"foreignKey:CategoryID" json:"services,omitempty"`
}

func (ServiceCategory) TableName() string {
	return "service_categories"
}

func (c *ServiceCategory) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Service belongs to exactly one category.
type Service struct {
	ID          uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	CategoryID  uuid.UUID           `gorm:"type:uuid;not null;index" json:"category_id"`
	Name        string              `gorm:"type:varchar(150);not null" json:"name"`
	Slug        string              `gorm:"type:varchar(150);uniqueIndex;not null" json:"slug"`
	Description string              `gorm:"type:text" json:"description,omitempty"`
	BasePrice   decimal.NullDecimal `gorm:"type:numeric(12,2)" json:"base_price"`
	IsActive    bool                `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time           `gorm:"autoCreateTime" json:"created_at"`

	Category ServiceCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

func (Service) TableName() string {
	return "services"
}

func (s *Service) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
