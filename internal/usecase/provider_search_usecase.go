package usecase

import (
	"context"

	"marketplace-booking/internal/converter"
	"marketplace-booking/internal/delivery/dto"
	"marketplace-booking/internal/domain/entity"
	"marketplace-booking/internal/domain/repository"
	"marketplace-booking/internal/service"
	"marketplace-booking/pkg/geo"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type ProviderSearchUsecase interface {
	Search(ctx context.Context, filter entity.ProviderSearchFilter) (*dto.ProviderSearchResponse, error)
}

type providerSearchUsecase struct {
	db            *gorm.DB
	log           *logrus.Logger
	providerRepo  repository.ProviderRepository
	ranker        *service.ProviderRanker
	categoryCache *service.CategoryCache
}

func NewProviderSearchUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	providerRepo repository.ProviderRepository,
	ranker *service.ProviderRanker,
	categoryCache *service.CategoryCache,
) ProviderSearchUsecase {
	return &providerSearchUsecase{
		db:            db,
		log:           log,
		providerRepo:  providerRepo,
		ranker:        ranker,
		categoryCache: categoryCache,
	}
}

// Search ranks providers in four steps:
// 1. SQL filters (approval, active account, text, category, min rating) give slim candidates
// 2. The ranker applies the radius and orders the whole candidate set
// 3. The ordered ids are paginated
// 4. Only the page is hydrated with services and categories
func (u *providerSearchUsecase) Search(ctx context.Context, filter entity.ProviderSearchFilter) (*dto.ProviderSearchResponse, error) {
	if (filter.Latitude == nil) != (filter.Longitude == nil) {
		return nil, ErrIncompleteOrigin
	}
	if filter.HasOrigin() && !(geo.Point{Latitude: *filter.Latitude, Longitude: *filter.Longitude}).Valid() {
		return nil, ErrInvalidLocation
	}
	filter = filter.Normalize()

	empty := &dto.ProviderSearchResponse{
		Providers: []dto.ProviderSearchResult{},
		Page:      filter.Page,
		Limit:     filter.Limit,
	}

	if filter.CategoryID == nil && filter.CategorySlug != "" {
		categoryID, err := u.categoryCache.ResolveSlug(ctx, filter.CategorySlug)
		if err != nil {
			return nil, err
		}
		if categoryID == nil {
			return empty, nil
		}
		filter.CategoryID = categoryID
		filter.CategorySlug = ""
	}

	db := u.db.WithContext(ctx)

	candidates, err := u.providerRepo.FindSearchCandidates(db, filter)
	if err != nil {
		u.log.Warnf("Failed to find search candidates: %+v", err)
		return nil, err
	}
	if len(candidates) == 0 {
		return empty, nil
	}

	var minPrices map[uuid.UUID]decimal.Decimal
	if filter.SortBy == entity.SearchSortPrice {
		ids := make([]uuid.UUID, len(candidates))
		for i, c := range candidates {
			ids[i] = c.ID
		}
		minPrices, err = u.providerRepo.FindMinActivePrices(db, ids)
		if err != nil {
			u.log.Warnf("Failed to find provider prices: %+v", err)
			return nil, err
		}
	}

	ranked := u.ranker.Rank(candidates, minPrices, filter)
	page := service.Page(ranked, filter.Page, filter.Limit)

	pageIDs := make([]uuid.UUID, len(page))
	for i, r := range page {
		pageIDs[i] = r.ID
	}

	providers, err := u.providerRepo.FindByIDsWithServices(db, pageIDs)
	if err != nil {
		u.log.Warnf("Failed to hydrate providers: %+v", err)
		return nil, err
	}

	byID := make(map[uuid.UUID]*entity.Provider, len(providers))
	for i := range providers {
		byID[providers[i].ID] = &providers[i]
	}

	results := make([]dto.ProviderSearchResult, 0, len(page))
	for _, r := range page {
		provider, ok := byID[r.ID]
		if !ok {
			continue
		}
		var distance *float64
		if r.DistanceKm != nil {
			rounded := geo.RoundKm(*r.DistanceKm)
			distance = &rounded
		}
		results = append(results, converter.ProviderToSearchResult(provider, distance))
	}

	return &dto.ProviderSearchResponse{
		Providers: results,
		Total:     int64(len(ranked)),
		Page:      filter.Page,
		Limit:     filter.Limit,
	}, nil
}
