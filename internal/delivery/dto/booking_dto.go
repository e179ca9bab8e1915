package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

// CreateBookingRequest is either a direct booking (provider_id + service_id)
// or an open request (category_id or category_slug).
type CreateBookingRequest struct {
	ProviderID   *uuid.UUID       `json:"provider_id"`
	ServiceID    *uuid.UUID       `json:"service_id"`
	CategoryID   *uuid.UUID       `json:"category_id"`
	CategorySlug string           `json:"category_slug" validate:"omitempty,max=100"`
	ScheduledAt  time.Time        `json:"scheduled_at" validate:"required"`
	Description  string           `json:"description" validate:"required,min=10,max=1000"`
	Address      string           `json:"address" validate:"required,min=5,max=500"`
	Latitude     *float64         `json:"latitude" validate:"required,latitude"`
	Longitude    *float64         `json:"longitude" validate:"required,longitude"`
	Notes        string           `json:"notes" validate:"omitempty,max=500"`
	Budget       *decimal.Decimal `json:"budget"`
}

type QuoteBookingRequest struct {
	QuotedPrice       decimal.Decimal  `json:"quoted_price"`
	QuotedMaterials   *decimal.Decimal `json:"quoted_materials"`
	EstimatedDuration *int             `json:"estimated_duration" validate:"omitempty,min=15,max=1440"`
	Note              string           `json:"note" validate:"omitempty,max=500"`
}

// TransitionRequest carries the optional note or reason of a lifecycle action.
type TransitionRequest struct {
	Note string `json:"note" validate:"omitempty,max=500"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

type BookingListQuery struct {
	Status   string     `query:"status" validate:"omitempty,oneof=REQUESTED QUOTED ACCEPTED PROVIDER_EN_ROUTE IN_PROGRESS EVIDENCE_UPLOADED COMPLETED CANCELLED DISPUTED"`
	DateFrom *time.Time `query:"date_from"`
	DateTo   *time.Time `query:"date_to"`
	Page     int        `query:"page" validate:"omitempty,min=1"`
	Limit    int        `query:"limit" validate:"omitempty,min=1,max=100"`
}

// Response DTOs

type BookingResponse struct {
	ID                 uuid.UUID                `json:"id"`
	ClientID           uuid.UUID                `json:"client_id"`
	ProviderID         *uuid.UUID               `json:"provider_id,omitempty"`
	ServiceID          *uuid.UUID               `json:"service_id,omitempty"`
	CategoryID         *uuid.UUID               `json:"category_id,omitempty"`
	Status             string                   `json:"status"`
	ScheduledAt        time.Time                `json:"scheduled_at"`
	EstimatedDuration  int                      `json:"estimated_duration"`
	StartedAt          *time.Time               `json:"started_at,omitempty"`
	CompletedAt        *time.Time               `json:"completed_at,omitempty"`
	CancelledAt        *time.Time               `json:"cancelled_at,omitempty"`
	CancellationReason *string                  `json:"cancellation_reason,omitempty"`
	CancelledBy        *string                  `json:"cancelled_by,omitempty"`
	QuotedPrice        *decimal.Decimal         `json:"quoted_price,omitempty"`
	QuotedMaterials    *decimal.Decimal         `json:"quoted_materials,omitempty"`
	Description        string                   `json:"description"`
	Address            string                   `json:"address"`
	Latitude           float64                  `json:"latitude"`
	Longitude          float64                  `json:"longitude"`
	Provider           *BookingProviderResponse `json:"provider,omitempty"`
	Service            *ServiceResponse         `json:"service,omitempty"`
	Category           *CategoryResponse        `json:"category,omitempty"`
	StatusHistory      []StatusHistoryResponse  `json:"status_history,omitempty"`
	CreatedAt          time.Time                `json:"created_at"`
	UpdatedAt          time.Time                `json:"updated_at"`
}

type BookingProviderResponse struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Rating    float64   `json:"rating"`
}

type StatusHistoryResponse struct {
	FromStatus *string   `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	ChangedBy  uuid.UUID `json:"changed_by"`
	Note       *string   `json:"note,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Total    int64             `json:"total"`
	Page     int               `json:"-"`
	Limit    int               `json:"-"`
}

// ConflictReport lists the sibling requests swept by an accept.
type ConflictReport struct {
	CancelledIDs []uuid.UUID              `json:"cancelled_ids"`
	Failed       []ConflictFailureResponse `json:"failed,omitempty"`
}

type ConflictFailureResponse struct {
	BookingID uuid.UUID `json:"booking_id"`
	Reason    string    `json:"reason"`
}

type AcceptBookingResponse struct {
	Booking   *BookingResponse `json:"booking"`
	Conflicts ConflictReport   `json:"conflicts"`
}

type BusySlotResponse struct {
	BookingID uuid.UUID `json:"booking_id"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Status    string    `json:"status"`
}

type AvailabilitySlotResponse struct {
	DayOfWeek int    `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type BusySlotsResponse struct {
	ProviderID   uuid.UUID                  `json:"provider_id"`
	Date         string                     `json:"date"`
	BusySlots    []BusySlotResponse         `json:"busy_slots"`
	Availability []AvailabilitySlotResponse `json:"availability"`
}
