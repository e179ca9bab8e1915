package handler

import (
	"net/http"

	"marketplace-booking/internal/converter"
	"marketplace-booking/internal/usecase"
	"marketplace-booking/pkg/response"
	"marketplace-booking/pkg/validator"

	"github.com/sirupsen/logrus"
)

type OpenRequestHandler struct {
	openRequestUsecase usecase.OpenRequestUsecase
	validator          *validator.CustomValidator
	log                *logrus.Logger
}

func NewOpenRequestHandler(openRequestUsecase usecase.OpenRequestUsecase, validator *validator.CustomValidator, log *logrus.Logger) *OpenRequestHandler {
	return &OpenRequestHandler{
		openRequestUsecase: openRequestUsecase,
		validator:          validator,
		log:                log,
	}
}

func (h *OpenRequestHandler) ListOpenRequests(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}

	query, ok := parseBookingListQuery(w, r, h.validator)
	if !ok {
		return
	}

	result, err := h.openRequestUsecase.ListOpenRequests(r.Context(), actor, converter.BookingQueryToFilter(query))
	if err != nil {
		writeError(w, h.log, err, "Failed to get open requests")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Open requests retrieved successfully", result.Bookings,
		response.NewMeta(result.Page, result.Limit, result.Total))
}

func (h *OpenRequestHandler) ClaimOpenRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}
	bookingID, ok := pathUUID(w, r, "id", "booking")
	if !ok {
		return
	}

	result, err := h.openRequestUsecase.Claim(r.Context(), actor, bookingID)
	if err != nil {
		writeError(w, h.log, err, "Failed to claim open request")
		return
	}

	response.Success(w, http.StatusOK, "Open request claimed successfully", result)
}

func (h *OpenRequestHandler) GetBusySlots(w http.ResponseWriter, r *http.Request) {
	providerID, ok := pathUUID(w, r, "providerId", "provider")
	if !ok {
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		response.ValidationError(w, map[string]string{"date": "date is required"})
		return
	}

	slots, err := h.openRequestUsecase.BusySlots(r.Context(), providerID, date)
	if err != nil {
		writeError(w, h.log, err, "Failed to get busy slots")
		return
	}

	response.Success(w, http.StatusOK, "Busy slots retrieved successfully", slots)
}
