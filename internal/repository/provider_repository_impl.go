package repository

import (
	"errors"
	"strings"

	"marketplace-booking/internal/domain/entity"
	domainRepo "marketplace-booking/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type providerRepository struct{}

func NewProviderRepository() domainRepo.ProviderRepository {
	return &providerRepository{}
}

func (r *providerRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Provider, error) {
	var provider entity.Provider
	err := db.Preload("User").Where("id = ?", id).First(&provider).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &provider, nil
}

func (r *providerRepository) FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.Provider, error) {
	var provider entity.Provider
	err := db.Preload("User").Where("user_id = ?", userID).First(&provider).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &provider, nil
}

// FindActiveCategoryIDs returns the distinct categories across the provider's active offers.
func (r *providerRepository) FindActiveCategoryIDs(db *gorm.DB, providerID uuid.UUID) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	err := db.Model(&entity.ProviderService{}).
		Joins("JOIN services ON services.id = provider_services.service_id").
		Where("provider_services.provider_id = ? AND provider_services.is_active = ?", providerID, true).
		Distinct().
		Pluck("services.category_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *providerRepository) IncrementTotalBookings(db *gorm.DB, providerID uuid.UUID) error {
	result := db.Model(&entity.Provider{}).
		Where("id = ?", providerID).
		UpdateColumn("total_bookings", gorm.Expr("total_bookings + ?", 1))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindSearchCandidates applies every SQL-expressible search filter and returns the slim projection
// the ranker needs. Radius, ordering and paging happen in memory afterwards.
func (r *providerRepository) FindSearchCandidates(db *gorm.DB, filter entity.ProviderSearchFilter) ([]entity.ProviderCandidate, error) {
	query := db.Model(&entity.Provider{}).
		Select("providers.id, providers.latitude, providers.longitude, providers.rating, providers.total_reviews").
		Joins("JOIN users ON users.id = providers.user_id").
		Where("providers.verification_status = ? AND users.status = ?", entity.VerificationApproved, entity.UserStatusActive)

	if term := strings.TrimSpace(filter.Query); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		query = query.Where(
			"(LOWER(users.first_name) LIKE ? OR LOWER(users.last_name) LIKE ? OR LOWER(providers.bio) LIKE ?)",
			like, like, like,
		)
	}

	if filter.CategoryID != nil || filter.CategorySlug != "" {
		offers := db.Session(&gorm.Session{NewDB: true}).
			Table("provider_services").
			Select("1").
			Joins("JOIN services ON services.id = provider_services.service_id").
			Joins("JOIN service_categories ON service_categories.id = services.category_id").
			Where("provider_services.provider_id = providers.id").
			Where("provider_services.is_active = ? AND services.is_active = ?", true, true).
			Where("service_categories.is_active = ?", true)
		if filter.CategoryID != nil {
			offers = offers.Where("service_categories.id = ?", *filter.CategoryID)
		} else {
			offers = offers.Where("service_categories.slug = ?", filter.CategorySlug)
		}
		query = query.Where("EXISTS (?)", offers)
	}

	if filter.MinRating != nil {
		query = query.Where("providers.rating >= ?", *filter.MinRating)
	}

	candidates := []entity.ProviderCandidate{}
	if err := query.Order("providers.id ASC").Scan(&candidates).Error; err != nil {
		return nil, err
	}
	return candidates, nil
}

type providerPriceRow struct {
	ProviderID uuid.UUID
	Price      decimal.Decimal
}

// FindMinActivePrices returns the lowest positive price among each provider's active offers.
// Providers without a priced offer are absent from the map.
func (r *providerRepository) FindMinActivePrices(db *gorm.DB, providerIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	prices := make(map[uuid.UUID]decimal.Decimal, len(providerIDs))
	if len(providerIDs) == 0 {
		return prices, nil
	}

	var rows []providerPriceRow
	err := db.Model(&entity.ProviderService{}).
		Select("provider_id, price").
		Where("provider_id IN ? AND is_active = ? AND price > 0", providerIDs, true).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		current, ok := prices[row.ProviderID]
		if !ok || row.Price.LessThan(current) {
			prices[row.ProviderID] = row.Price
		}
	}
	return prices, nil
}

// FindByIDsWithServices hydrates providers with their user and active offers.
// Result order is unspecified; callers reorder by id.
func (r *providerRepository) FindByIDsWithServices(db *gorm.DB, ids []uuid.UUID) ([]entity.Provider, error) {
	providers := []entity.Provider{}
	if len(ids) == 0 {
		return providers, nil
	}
	err := db.Preload("User").
		Preload("Services", "is_active = ?", true).
		Preload("Services.Service.Category").
		Where("id IN ?", ids).
		Find(&providers).Error
	if err != nil {
		return nil, err
	}
	return providers, nil
}

func (r *providerRepository) FindAvailabilityByDay(db *gorm.DB, providerID uuid.UUID, dayOfWeek int) ([]entity.ProviderAvailability, error) {
	slots := []entity.ProviderAvailability{}
	err := db.Where("provider_id = ? AND day_of_week = ? AND is_active = ?", providerID, dayOfWeek, true).
		Order("start_time ASC").
		Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}
