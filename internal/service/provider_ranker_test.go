package service

import (
	"testing"

	"marketplace-booking/internal/domain/entity"
	"marketplace-booking/pkg/geo"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var medellin = geo.Point{Latitude: 6.2442, Longitude: -75.5812}

func candidate(id string, lat, lng float64, rating float64, reviews int) entity.ProviderCandidate {
	return entity.ProviderCandidate{
		ID:           uuid.MustParse(id),
		Latitude:     &lat,
		Longitude:    &lng,
		Rating:       rating,
		TotalReviews: reviews,
	}
}

func originFilter(radius float64, sortBy entity.SearchSort) entity.ProviderSearchFilter {
	lat, lng := medellin.Latitude, medellin.Longitude
	return entity.ProviderSearchFilter{Latitude: &lat, Longitude: &lng, RadiusKm: radius, SortBy: sortBy}
}

func rankedIDs(ranked []RankedProvider) []string {
	ids := make([]string, len(ranked))
	for i, r := range ranked {
		ids[i] = r.ID.String()
	}
	return ids
}

func TestRankRadiusBoundaryIsInclusive(t *testing.T) {
	c := candidate("00000000-0000-0000-0000-000000000001", 6.30, -75.55, 4.0, 1)
	d := geo.DistanceKm(medellin, geo.Point{Latitude: *c.Latitude, Longitude: *c.Longitude})

	ranker := NewProviderRanker()

	exact := ranker.Rank([]entity.ProviderCandidate{c}, nil, originFilter(d, entity.SearchSortDistance))
	require.Len(t, exact, 1)
	assert.Equal(t, d, *exact[0].DistanceKm)

	inside := ranker.Rank([]entity.ProviderCandidate{c}, nil, originFilter(d-0.01, entity.SearchSortDistance))
	assert.Empty(t, inside)
}

func TestRankDropsCandidatesWithoutLocationWhenOriginGiven(t *testing.T) {
	located := candidate("00000000-0000-0000-0000-000000000001", 6.25, -75.58, 4.0, 1)
	unlocated := entity.ProviderCandidate{ID: uuid.MustParse("00000000-0000-0000-0000-000000000002"), Rating: 5}

	ranker := NewProviderRanker()

	withOrigin := ranker.Rank([]entity.ProviderCandidate{located, unlocated}, nil, originFilter(30, entity.SearchSortRating))
	assert.Equal(t, []string{located.ID.String()}, rankedIDs(withOrigin))

	withoutOrigin := ranker.Rank([]entity.ProviderCandidate{located, unlocated}, nil, entity.ProviderSearchFilter{SortBy: entity.SearchSortRating})
	require.Len(t, withoutOrigin, 2)
	assert.Nil(t, withoutOrigin[0].DistanceKm)
}

func TestRankSortKeys(t *testing.T) {
	near := candidate("00000000-0000-0000-0000-00000000000a", 6.2450, -75.5810, 4.0, 50)
	mid := candidate("00000000-0000-0000-0000-00000000000b", 6.2600, -75.5800, 4.8, 5)
	far := candidate("00000000-0000-0000-0000-00000000000c", 6.3000, -75.5500, 4.8, 20)
	candidates := []entity.ProviderCandidate{far, mid, near}

	prices := map[uuid.UUID]decimal.Decimal{
		mid.ID: decimal.NewFromInt(90000),
		far.ID: decimal.NewFromInt(40000),
	}

	tests := []struct {
		name   string
		sortBy entity.SearchSort
		want   []entity.ProviderCandidate
	}{
		{"distance ascending", entity.SearchSortDistance, []entity.ProviderCandidate{near, mid, far}},
		{"rating then reviews", entity.SearchSortRating, []entity.ProviderCandidate{far, mid, near}},
		{"reviews then rating", entity.SearchSortReviews, []entity.ProviderCandidate{near, far, mid}},
		{"price with unpriced last", entity.SearchSortPrice, []entity.ProviderCandidate{far, mid, near}},
	}

	ranker := NewProviderRanker()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranked := ranker.Rank(candidates, prices, originFilter(30, tt.sortBy))

			want := make([]string, len(tt.want))
			for i, c := range tt.want {
				want[i] = c.ID.String()
			}
			assert.Equal(t, want, rankedIDs(ranked))
		})
	}
}

func TestRankTiesFallBackToDistance(t *testing.T) {
	near := candidate("00000000-0000-0000-0000-0000000000ff", 6.2450, -75.5810, 4.5, 10)
	far := candidate("00000000-0000-0000-0000-000000000001", 6.3000, -75.5500, 4.5, 10)

	ranked := NewProviderRanker().Rank([]entity.ProviderCandidate{far, near}, nil, originFilter(30, entity.SearchSortRating))

	assert.Equal(t, []string{near.ID.String(), far.ID.String()}, rankedIDs(ranked))
}

func TestRankWithoutOriginUsesIDOrder(t *testing.T) {
	a := entity.ProviderCandidate{ID: uuid.MustParse("00000000-0000-0000-0000-000000000001"), Rating: 4}
	b := entity.ProviderCandidate{ID: uuid.MustParse("00000000-0000-0000-0000-000000000002"), Rating: 4}

	ranked := NewProviderRanker().Rank([]entity.ProviderCandidate{b, a}, nil, entity.ProviderSearchFilter{SortBy: entity.SearchSortDistance})

	assert.Equal(t, []string{a.ID.String(), b.ID.String()}, rankedIDs(ranked))
}

func TestPage(t *testing.T) {
	ranked := make([]RankedProvider, 5)
	for i := range ranked {
		ranked[i].ID = uuid.New()
	}

	assert.Len(t, Page(ranked, 1, 2), 2)
	assert.Equal(t, ranked[4].ID, Page(ranked, 3, 2)[0].ID)
	assert.Len(t, Page(ranked, 3, 2), 1)
	assert.Empty(t, Page(ranked, 4, 2))
	assert.Empty(t, Page(nil, 1, 10))
}
