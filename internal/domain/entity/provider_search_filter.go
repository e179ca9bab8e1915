package entity

import (
	"math"

	"github.com/google/uuid"
)

// SearchSort names the ordering applied to provider search results.
type SearchSort string

const (
	SearchSortRating   SearchSort = "rating"
	SearchSortDistance SearchSort = "distance"
	SearchSortReviews  SearchSort = "reviews"
	SearchSortPrice    SearchSort = "price"
)

// Search defaults and bounds.
const (
	DefaultSearchRadiusKm = 30.0
	MinSearchRadiusKm     = 1.0
	MaxSearchRadiusKm     = 100.0
	DefaultSearchLimit    = 15
	MaxSearchLimit        = 50
)

func (s SearchSort) IsValid() bool {
	switch s {
	case SearchSortRating, SearchSortDistance, SearchSortReviews, SearchSortPrice:
		return true
	}
	return false
}

// ProviderSearchFilter holds every optional search parameter.
// Zero values mean "not supplied"; Normalize fills in defaults.
type ProviderSearchFilter struct {
	Query        string
	CategoryID   *uuid.UUID
	CategorySlug string
	Latitude     *float64
	Longitude    *float64
	RadiusKm     float64
	MinRating    *float64
	SortBy       SearchSort
	Page         int
	Limit        int
}

// HasOrigin reports whether a client origin point was supplied.
func (f ProviderSearchFilter) HasOrigin() bool {
	return f.Latitude != nil && f.Longitude != nil
}

// Normalize applies documented defaults and clamps out-of-range values.
func (f ProviderSearchFilter) Normalize() ProviderSearchFilter {
	if f.RadiusKm == 0 || math.IsNaN(f.RadiusKm) {
		f.RadiusKm = DefaultSearchRadiusKm
	}
	if f.RadiusKm < MinSearchRadiusKm {
		f.RadiusKm = MinSearchRadiusKm
	}
	if f.RadiusKm > MaxSearchRadiusKm {
		f.RadiusKm = MaxSearchRadiusKm
	}
	if !f.SortBy.IsValid() {
		f.SortBy = SearchSortRating
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultSearchLimit
	}
	if f.Limit > MaxSearchLimit {
		f.Limit = MaxSearchLimit
	}
	return f
}

func (f ProviderSearchFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}
