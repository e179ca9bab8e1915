package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SearchProvidersQuery mirrors the accepted query parameters of provider search.
type SearchProvidersQuery struct {
	Query        string     `query:"query" validate:"omitempty,max=100"`
	CategoryID   *uuid.UUID `query:"category_id"`
	CategorySlug string     `query:"category_slug" validate:"omitempty,max=100"`
	Latitude     *float64   `query:"latitude" validate:"omitempty,latitude"`
	Longitude    *float64   `query:"longitude" validate:"omitempty,longitude"`
	RadiusKm     *float64   `query:"radius_km" validate:"omitempty,min=1,max=100"`
	MinRating    *float64   `query:"min_rating" validate:"omitempty,min=1,max=5"`
	SortBy       string     `query:"sort_by" validate:"omitempty,oneof=rating distance reviews price"`
	Page         int        `query:"page" validate:"omitempty,min=1"`
	Limit        int        `query:"limit" validate:"omitempty,min=1,max=50"`
}

type ProviderSearchResult struct {
	ID            uuid.UUID          `json:"id"`
	FirstName     string             `json:"first_name"`
	LastName      string             `json:"last_name"`
	AvatarURL     string             `json:"avatar_url,omitempty"`
	Bio           string             `json:"bio,omitempty"`
	Rating        float64            `json:"rating"`
	TotalReviews  int                `json:"total_reviews"`
	TotalBookings int                `json:"total_bookings"`
	Latitude      *float64           `json:"latitude,omitempty"`
	Longitude     *float64           `json:"longitude,omitempty"`
	DistanceKm    *float64           `json:"distance_km"`
	MinPrice      *decimal.Decimal   `json:"min_price"`
	MaxPrice      *decimal.Decimal   `json:"max_price"`
	Categories    []CategoryResponse `json:"categories"`
	Services      []OfferResponse    `json:"services"`
}

type ProviderSearchResponse struct {
	Providers []ProviderSearchResult `json:"providers"`
	Total     int64                  `json:"total"`
	Page      int                    `json:"-"`
	Limit     int                    `json:"-"`
}

type CategoryResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

type ServiceResponse struct {
	ID         uuid.UUID `json:"id"`
	CategoryID uuid.UUID `json:"category_id"`
	Name       string    `json:"name"`
	Slug       string    `json:"slug"`
}

// OfferResponse is one active service a provider offers, with its price.
type OfferResponse struct {
	ServiceID uuid.UUID       `json:"service_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
}
