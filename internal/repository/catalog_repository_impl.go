package repository

import (
	"errors"

	"marketplace-booking/internal/domain/entity"
	domainRepo "marketplace-booking/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type catalogRepository struct{}

func NewCatalogRepository() domainRepo.CatalogRepository {
	return &catalogRepository{}
}

func (r *catalogRepository) FindCategoryByID(db *gorm.DB, id uuid.UUID) (*entity.ServiceCategory, error) {
	var category entity.ServiceCategory
	if err := db.Where("id = ?", id).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (r *catalogRepository) FindCategoryBySlug(db *gorm.DB, slug string) (*entity.ServiceCategory, error) {
	var category entity.ServiceCategory
	if err := db.Where("slug = ?", slug).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

// FindProviderService returns the offer regardless of its active flag; callers decide.
func (r *catalogRepository) FindProviderService(db *gorm.DB, providerID, serviceID uuid.UUID) (*entity.ProviderService, error) {
	var offer entity.ProviderService
	err := db.Preload("Service").
		Where("provider_id = ? AND service_id = ?", providerID, serviceID).
		First(&offer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &offer, nil
}
