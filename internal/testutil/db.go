// Package testutil builds throwaway databases and fixtures for package tests.
package testutil

import (
	"io"
	"testing"
	"time"

	"marketplace-booking/internal/domain/entity"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens an in-memory SQLite database with the full schema migrated.
// A single connection keeps the in-memory database alive and serialises writers the way row locks would.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	err = db.AutoMigrate(
		&entity.User{},
		&entity.ServiceCategory{},
		&entity.Service{},
		&entity.Provider{},
		&entity.ProviderService{},
		&entity.ProviderAvailability{},
		&entity.Booking{},
		&entity.BookingStatusHistory{},
	)
	require.NoError(t, err)

	return db
}

// NewLogger returns a logger that discards output.
func NewLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// Fixtures creates rows with sensible defaults.
type Fixtures struct {
	t  *testing.T
	db *gorm.DB
}

func NewFixtures(t *testing.T, db *gorm.DB) *Fixtures {
	return &Fixtures{t: t, db: db}
}

func (f *Fixtures) User(role entity.UserRole, firstName string) *entity.User {
	f.t.Helper()
	user := &entity.User{
		Email:     uuid.NewString() + "@example.com",
		FirstName: firstName,
		LastName:  "Test",
		Role:      role,
		Status:    entity.UserStatusActive,
	}
	require.NoError(f.t, f.db.Create(user).Error)
	return user
}

func (f *Fixtures) Category(name, slug string) *entity.ServiceCategory {
	f.t.Helper()
	category := &entity.ServiceCategory{Name: name, Slug: slug, IsActive: true}
	require.NoError(f.t, f.db.Create(category).Error)
	return category
}

func (f *Fixtures) Service(category *entity.ServiceCategory, name string) *entity.Service {
	f.t.Helper()
	service := &entity.Service{
		CategoryID: category.ID,
		Name:       name,
		Slug:       uuid.NewString(),
		IsActive:   true,
	}
	require.NoError(f.t, f.db.Create(service).Error)
	return service
}

// Provider creates an approved provider; lat/lng may be nil.
func (f *Fixtures) Provider(firstName string, lat, lng *float64, rating float64, reviews int) *entity.Provider {
	f.t.Helper()
	user := f.User(entity.RoleProvider, firstName)
	provider := &entity.Provider{
		UserID:             user.ID,
		Bio:                firstName + " does home services",
		Latitude:           lat,
		Longitude:          lng,
		VerificationStatus: entity.VerificationApproved,
		Rating:             rating,
		TotalReviews:       reviews,
	}
	require.NoError(f.t, f.db.Create(provider).Error)
	provider.User = *user
	return provider
}

// Offer links a provider to a service at price.
func (f *Fixtures) Offer(provider *entity.Provider, service *entity.Service, price string) *entity.ProviderService {
	f.t.Helper()
	offer := &entity.ProviderService{
		ProviderID: provider.ID,
		ServiceID:  service.ID,
		Price:      decimal.RequireFromString(price),
		IsActive:   true,
	}
	require.NoError(f.t, f.db.Create(offer).Error)
	return offer
}

// Deactivate flips is_active off. Creating with IsActive false would fall back to the column default.
func (f *Fixtures) Deactivate(model interface{}) {
	f.t.Helper()
	require.NoError(f.t, f.db.Model(model).Update("is_active", false).Error)
}

// DirectBooking inserts a REQUESTED booking for provider at scheduledAt.
func (f *Fixtures) DirectBooking(client *entity.User, provider *entity.Provider, service *entity.Service, scheduledAt time.Time) *entity.Booking {
	f.t.Helper()
	booking := &entity.Booking{
		ClientID:    client.ID,
		ProviderID:  &provider.ID,
		ServiceID:   &service.ID,
		Status:      entity.BookingStatusRequested,
		ScheduledAt: scheduledAt.UTC(),
		Description: "Kitchen sink is leaking",
		Address:     "Calle 10 # 43-12",
		Latitude:    6.2442,
		Longitude:   -75.5812,
	}
	require.NoError(f.t, f.db.Create(booking).Error)
	return booking
}

// OpenRequest inserts an unclaimed REQUESTED booking in category.
func (f *Fixtures) OpenRequest(client *entity.User, category *entity.ServiceCategory, scheduledAt time.Time) *entity.Booking {
	f.t.Helper()
	booking := &entity.Booking{
		ClientID:    client.ID,
		CategoryID:  &category.ID,
		Status:      entity.BookingStatusRequested,
		ScheduledAt: scheduledAt.UTC(),
		Description: "Need someone to fix a leak",
		Address:     "Carrera 70 # 1-20",
		Latitude:    6.2442,
		Longitude:   -75.5812,
	}
	require.NoError(f.t, f.db.Create(booking).Error)
	return booking
}

// SetStatus forces a booking into status without going through the lifecycle.
func (f *Fixtures) SetStatus(booking *entity.Booking, status entity.BookingStatus) {
	f.t.Helper()
	require.NoError(f.t, f.db.Model(booking).Update("status", status).Error)
	booking.Status = status
}

func Float(v float64) *float64 {
	return &v
}
