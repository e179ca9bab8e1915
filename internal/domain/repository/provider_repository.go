package repository

import (
	"marketplace-booking/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProviderRepository interface {
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Provider, error)
	FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.Provider, error)
	FindActiveCategoryIDs(db *gorm.DB, providerID uuid.UUID) ([]uuid.UUID, error)
	IncrementTotalBookings(db *gorm.DB, providerID uuid.UUID) error
	FindSearchCandidates(db *gorm.DB, filter entity.ProviderSearchFilter) ([]entity.ProviderCandidate, error)
	FindMinActivePrices(db *gorm.DB, providerIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error)
	FindByIDsWithServices(db *gorm.DB, ids []uuid.UUID) ([]entity.Provider, error)
	FindAvailabilityByDay(db *gorm.DB, providerID uuid.UUID, dayOfWeek int) ([]entity.ProviderAvailability, error)
}
