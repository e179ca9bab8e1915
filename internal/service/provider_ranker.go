package service

import (
	"bytes"
	"sort"

	"marketplace-booking/internal/domain/entity"
	"marketplace-booking/pkg/geo"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RankedProvider is a candidate that survived the radius filter, in final order.
type RankedProvider struct {
	ID           uuid.UUID
	DistanceKm   *float64
	Rating       float64
	TotalReviews int
	MinPrice     *decimal.Decimal
}

// ProviderRanker orders search candidates. It holds no state and never touches storage.
type ProviderRanker struct{}

func NewProviderRanker() *ProviderRanker {
	return &ProviderRanker{}
}

// Rank filters by radius when the filter carries an origin, then orders by the sort key.
// With an origin the base order is distance ascending; without one it is id order.
// minPrices is only consulted for price sorting and may be nil otherwise.
func (r *ProviderRanker) Rank(candidates []entity.ProviderCandidate, minPrices map[uuid.UUID]decimal.Decimal, filter entity.ProviderSearchFilter) []RankedProvider {
	ranked := make([]RankedProvider, 0, len(candidates))

	var origin geo.Point
	hasOrigin := filter.HasOrigin()
	if hasOrigin {
		origin = geo.Point{Latitude: *filter.Latitude, Longitude: *filter.Longitude}
	}

	for _, c := range candidates {
		item := RankedProvider{
			ID:           c.ID,
			Rating:       c.Rating,
			TotalReviews: c.TotalReviews,
		}

		if hasOrigin {
			if c.Latitude == nil || c.Longitude == nil {
				continue
			}
			d := geo.DistanceKm(origin, geo.Point{Latitude: *c.Latitude, Longitude: *c.Longitude})
			if d > filter.RadiusKm {
				continue
			}
			item.DistanceKm = &d
		}

		if price, ok := minPrices[c.ID]; ok {
			p := price
			item.MinPrice = &p
		}

		ranked = append(ranked, item)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if hasOrigin && *a.DistanceKm != *b.DistanceKm {
			return *a.DistanceKm < *b.DistanceKm
		}
		return bytes.Compare(a.ID[:], b.ID[:]) < 0
	})

	if less := sortKeyLess(filter.SortBy); less != nil {
		sort.SliceStable(ranked, func(i, j int) bool {
			return less(ranked[i], ranked[j])
		})
	}

	return ranked
}

func sortKeyLess(key entity.SearchSort) func(a, b RankedProvider) bool {
	switch key {
	case entity.SearchSortRating:
		return func(a, b RankedProvider) bool {
			if a.Rating != b.Rating {
				return a.Rating > b.Rating
			}
			return a.TotalReviews > b.TotalReviews
		}
	case entity.SearchSortReviews:
		return func(a, b RankedProvider) bool {
			if a.TotalReviews != b.TotalReviews {
				return a.TotalReviews > b.TotalReviews
			}
			return a.Rating > b.Rating
		}
	case entity.SearchSortPrice:
		return func(a, b RankedProvider) bool {
			switch {
			case a.MinPrice == nil:
				return false
			case b.MinPrice == nil:
				return true
			default:
				return a.MinPrice.LessThan(*b.MinPrice)
			}
		}
	}
	// distance is already the base order when an origin exists; without one it has no meaning
	return nil
}

// Page returns the slice of ranked for a 1-based page.
func Page(ranked []RankedProvider, page, limit int) []RankedProvider {
	start := (page - 1) * limit
	if start < 0 || start >= len(ranked) {
		return []RankedProvider{}
	}
	end := start + limit
	if end > len(ranked) {
		end = len(ranked)
	}
	return ranked[start:end]
}
