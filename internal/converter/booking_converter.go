package converter

import (
	"marketplace-booking/internal/delivery/dto"
	"marketplace-booking/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BookingToResponse converts a Booking entity to BookingResponse DTO
func BookingToResponse(booking *entity.Booking) *dto.BookingResponse {
	if booking == nil {
		return nil
	}

	response := &dto.BookingResponse{
		ID:                 booking.ID,
		ClientID:           booking.ClientID,
		ProviderID:         booking.ProviderID,
		ServiceID:          booking.ServiceID,
		CategoryID:         booking.CategoryID,
		Status:             string(booking.Status),
		ScheduledAt:        booking.ScheduledAt,
		EstimatedDuration:  booking.DurationMinutes(),
		StartedAt:          booking.StartedAt,
		CompletedAt:        booking.CompletedAt,
		CancelledAt:        booking.CancelledAt,
		CancellationReason: booking.CancellationReason,
		QuotedPrice:        nullDecimal(booking.QuotedPrice),
		QuotedMaterials:    nullDecimal(booking.QuotedMaterials),
		Description:        booking.Description,
		Address:            booking.Address,
		Latitude:           booking.Latitude,
		Longitude:          booking.Longitude,
		CreatedAt:          booking.CreatedAt,
		UpdatedAt:          booking.UpdatedAt,
	}

	if booking.CancelledBy != nil {
		by := string(*booking.CancelledBy)
		response.CancelledBy = &by
	}

	if booking.Provider != nil && booking.Provider.ID != uuid.Nil {
		response.Provider = &dto.BookingProviderResponse{
			ID:        booking.Provider.ID,
			FirstName: booking.Provider.User.FirstName,
			LastName:  booking.Provider.User.LastName,
			Rating:    booking.Provider.Rating,
		}
	}

	if booking.Service != nil {
		response.Service = ServiceToResponse(booking.Service)
	}

	if booking.Category != nil {
		response.Category = CategoryToResponse(booking.Category)
	}

	if len(booking.StatusHistory) > 0 {
		response.StatusHistory = HistoryToResponses(booking.StatusHistory)
	}

	return response
}

// BookingsToResponses converts a slice of Booking entities to slice of BookingResponse DTOs
func BookingsToResponses(bookings []entity.Booking) []dto.BookingResponse {
	responses := make([]dto.BookingResponse, len(bookings))
	for i := range bookings {
		if resp := BookingToResponse(&bookings[i]); resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}

func HistoryToResponses(history []entity.BookingStatusHistory) []dto.StatusHistoryResponse {
	responses := make([]dto.StatusHistoryResponse, len(history))
	for i, h := range history {
		var from *string
		if h.FromStatus != nil {
			s := string(*h.FromStatus)
			from = &s
		}
		responses[i] = dto.StatusHistoryResponse{
			FromStatus: from,
			ToStatus:   string(h.ToStatus),
			ChangedBy:  h.ChangedBy,
			Note:       h.Note,
			CreatedAt:  h.CreatedAt,
		}
	}
	return responses
}

func BusySlotsToResponses(bookings []entity.Booking) []dto.BusySlotResponse {
	slots := make([]dto.BusySlotResponse, len(bookings))
	for i := range bookings {
		slots[i] = dto.BusySlotResponse{
			BookingID: bookings[i].ID,
			Start:     bookings[i].ScheduledAt,
			End:       bookings[i].EndsAt(),
			Status:    string(bookings[i].Status),
		}
	}
	return slots
}

func AvailabilityToResponses(slots []entity.ProviderAvailability) []dto.AvailabilitySlotResponse {
	responses := make([]dto.AvailabilitySlotResponse, len(slots))
	for i, s := range slots {
		responses[i] = dto.AvailabilitySlotResponse{
			DayOfWeek: s.DayOfWeek,
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
		}
	}
	return responses
}

func nullDecimal(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}
