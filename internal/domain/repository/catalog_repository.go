package repository

import (
	"marketplace-booking/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CatalogRepository interface {
	FindCategoryByID(db *gorm.DB, id uuid.UUID) (*entity.ServiceCategory, error)
	FindCategoryBySlug(db *gorm.DB, slug string) (*entity.ServiceCategory, error)
	FindProviderService(db *gorm.DB, providerID, serviceID uuid.UUID) (*entity.ProviderService, error)
}
