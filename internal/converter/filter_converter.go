package converter

import (
	"marketplace-booking/internal/delivery/dto"
	"marketplace-booking/internal/domain/entity"
)

func BookingQueryToFilter(q *dto.BookingListQuery) entity.BookingFilter {
	filter := entity.BookingFilter{
		DateFrom: q.DateFrom,
		DateTo:   q.DateTo,
		Page:     q.Page,
		Limit:    q.Limit,
	}
	if q.Status != "" {
		status := entity.BookingStatus(q.Status)
		filter.Status = &status
	}
	return filter
}

func SearchQueryToFilter(q *dto.SearchProvidersQuery) entity.ProviderSearchFilter {
	filter := entity.ProviderSearchFilter{
		Query:        q.Query,
		CategoryID:   q.CategoryID,
		CategorySlug: q.CategorySlug,
		Latitude:     q.Latitude,
		Longitude:    q.Longitude,
		MinRating:    q.MinRating,
		SortBy:       entity.SearchSort(q.SortBy),
		Page:         q.Page,
		Limit:        q.Limit,
	}
	if q.RadiusKm != nil {
		filter.RadiusKm = *q.RadiusKm
	}
	return filter
}
