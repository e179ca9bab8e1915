package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VerificationStatus is written by the external verification workflow.
type VerificationStatus string

const (
	VerificationPendingDocuments   VerificationStatus = "PENDING_DOCUMENTS"
	VerificationDocumentsSubmitted VerificationStatus = "DOCUMENTS_SUBMITTED"
	VerificationApproved           VerificationStatus = "APPROVED"
	VerificationRejected           VerificationStatus = "REJECTED"
	VerificationSuspended          VerificationStatus = "SUSPENDED"
)

// Provider is the service-offering profile owned 1:1 by a user.
type Provider struct {
	ID                 uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	UserID             uuid.UUID          `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Bio                string             `gorm:"type:text" json:"bio,omitempty"`
	Address            string             `gorm:"type:varchar(500)" json:"address,omitempty"`
	Latitude           *float64           `gorm:"type:double precision" json:"latitude,omitempty"`
	Longitude          *float64           `gorm:"type:double precision" json:"longitude,omitempty"`
	VerificationStatus VerificationStatus `gorm:"type:varchar(30);not null;default:'PENDING_DOCUMENTS';index" json:"verification_status"`
	Rating             float64            `gorm:"type:numeric(3,2);not null;default:0" json:"rating"`
	TotalReviews       int                `gorm:"not null;default:0" json:"total_reviews"`
	TotalBookings      int                `gorm:"not null;default:0" json:"total_bookings"`
	CreatedAt          time.Time          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time          `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	User         User                   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Services     []ProviderService      `gorm:"foreignKey:ProviderID" json:"services,omitempty"`
	Availability []ProviderAvailability `gorm:"foreignKey:ProviderID" json:"availability,omitempty"`
}

func (Provider) TableName() string {
	return "providers"
}

func (p *Provider) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (p *Provider) IsApproved() bool {
	return p.VerificationStatus == VerificationApproved
}

// ProviderCandidate is the slim projection used to rank search results before hydration.
type ProviderCandidate struct {
	ID           uuid.UUID
	Latitude     *float64
	Longitude    *float64
	Rating       float64
	TotalReviews int
}
