package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserStatus is owned by the account workflow; this service only reads it.
type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
	UserStatusBanned    UserStatus = "BANNED"
)

// User represents the account behind a client or provider
type User struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	FirstName string     `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName  string     `gorm:"type:varchar(100);not null" json:"last_name"`
	Phone     string     `gorm:"type:varchar(30)" json:"phone,omitempty"`
	AvatarURL string     `gorm:"type:text" json:"avatar_url,omitempty"`
	Role      UserRole   `gorm:"type:varchar(20);not null;default:'CLIENT'" json:"role"`
	Status    UserStatus `gorm:"type:varchar(20);not null;default:'ACTIVE';index" json:"status"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}
