package converter

import (
	"marketplace-booking/internal/delivery/dto"
	"marketplace-booking/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func CategoryToResponse(category *entity.ServiceCategory) *dto.CategoryResponse {
	if category == nil || category.ID == uuid.Nil {
		return nil
	}
	return &dto.CategoryResponse{
		ID:   category.ID,
		Name: category.Name,
		Slug: category.Slug,
	}
}

func ServiceToResponse(service *entity.Service) *dto.ServiceResponse {
	if service == nil || service.ID == uuid.Nil {
		return nil
	}
	return &dto.ServiceResponse{
		ID:         service.ID,
		CategoryID: service.CategoryID,
		Name:       service.Name,
		Slug:       service.Slug,
	}
}

// ProviderToSearchResult builds a search row. Categories are distinct in first-seen order;
// MinPrice/MaxPrice only consider active offers with a positive price.
func ProviderToSearchResult(provider *entity.Provider, distanceKm *float64) dto.ProviderSearchResult {
	result := dto.ProviderSearchResult{
		ID:            provider.ID,
		FirstName:     provider.User.FirstName,
		LastName:      provider.User.LastName,
		AvatarURL:     provider.User.AvatarURL,
		Bio:           provider.Bio,
		Rating:        provider.Rating,
		TotalReviews:  provider.TotalReviews,
		TotalBookings: provider.TotalBookings,
		Latitude:      provider.Latitude,
		Longitude:     provider.Longitude,
		DistanceKm:    distanceKm,
		Categories:    []dto.CategoryResponse{},
		Services:      []dto.OfferResponse{},
	}

	seen := make(map[uuid.UUID]bool)
	var minPrice, maxPrice *decimal.Decimal

	for i := range provider.Services {
		offer := &provider.Services[i]
		if !offer.IsActive {
			continue
		}

		result.Services = append(result.Services, dto.OfferResponse{
			ServiceID: offer.ServiceID,
			Name:      offer.Service.Name,
			Price:     offer.Price,
		})

		if category := CategoryToResponse(&offer.Service.Category); category != nil && !seen[category.ID] {
			seen[category.ID] = true
			result.Categories = append(result.Categories, *category)
		}

		if !offer.IsPriced() {
			continue
		}
		price := offer.Price
		if minPrice == nil || price.LessThan(*minPrice) {
			minPrice = &price
		}
		if maxPrice == nil || price.GreaterThan(*maxPrice) {
			maxPrice = &price
		}
	}

	result.MinPrice = minPrice
	result.MaxPrice = maxPrice
	return result
}
