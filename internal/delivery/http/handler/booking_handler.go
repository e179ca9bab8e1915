package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"marketplace-booking/internal/converter"
	"marketplace-booking/internal/delivery/dto"
	"marketplace-booking/internal/domain/entity"
	"marketplace-booking/internal/usecase"
	"marketplace-booking/pkg/response"
	"marketplace-booking/pkg/validator"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type BookingHandler struct {
	bookingUsecase   usecase.BookingUsecase
	lifecycleUsecase usecase.BookingLifecycleUsecase
	validator        *validator.CustomValidator
	log              *logrus.Logger
}

func NewBookingHandler(
	bookingUsecase usecase.BookingUsecase,
	lifecycleUsecase usecase.BookingLifecycleUsecase,
	validator *validator.CustomValidator,
	log *logrus.Logger,
) *BookingHandler {
	return &BookingHandler{
		bookingUsecase:   bookingUsecase,
		lifecycleUsecase: lifecycleUsecase,
		validator:        validator,
		log:              log,
	}
}

func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}

	var req dto.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	booking, err := h.bookingUsecase.CreateBooking(r.Context(), actor, &req)
	if err != nil {
		writeError(w, h.log, err, "Failed to create booking")
		return
	}

	response.Success(w, http.StatusCreated, "Booking created successfully", booking)
}

func (h *BookingHandler) GetMyBookings(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}

	query, ok := h.bookingListQuery(w, r)
	if !ok {
		return
	}

	result, err := h.bookingUsecase.ListClientBookings(r.Context(), actor, converter.BookingQueryToFilter(query))
	if err != nil {
		writeError(w, h.log, err, "Failed to get bookings")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Bookings retrieved successfully", result.Bookings,
		response.NewMeta(result.Page, result.Limit, result.Total))
}

func (h *BookingHandler) GetProviderBookings(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}

	query, ok := h.bookingListQuery(w, r)
	if !ok {
		return
	}

	result, err := h.bookingUsecase.ListProviderBookings(r.Context(), actor, converter.BookingQueryToFilter(query))
	if err != nil {
		writeError(w, h.log, err, "Failed to get bookings")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Bookings retrieved successfully", result.Bookings,
		response.NewMeta(result.Page, result.Limit, result.Total))
}

func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}
	bookingID, ok := pathUUID(w, r, "id", "booking")
	if !ok {
		return
	}

	booking, err := h.bookingUsecase.GetBooking(r.Context(), actor, bookingID)
	if err != nil {
		writeError(w, h.log, err, "Failed to get booking")
		return
	}

	response.Success(w, http.StatusOK, "Booking retrieved successfully", booking)
}

func (h *BookingHandler) QuoteBooking(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}
	bookingID, ok := pathUUID(w, r, "id", "booking")
	if !ok {
		return
	}

	var req dto.QuoteBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	booking, err := h.lifecycleUsecase.Quote(r.Context(), actor, bookingID, &req)
	if err != nil {
		writeError(w, h.log, err, "Failed to quote booking")
		return
	}

	response.Success(w, http.StatusOK, "Booking quoted successfully", booking)
}

func (h *BookingHandler) AcceptBooking(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}
	bookingID, ok := pathUUID(w, r, "id", "booking")
	if !ok {
		return
	}
	req, ok := h.transitionRequest(w, r)
	if !ok {
		return
	}

	result, err := h.lifecycleUsecase.Accept(r.Context(), actor, bookingID, req.Note)
	if err != nil {
		writeError(w, h.log, err, "Failed to accept booking")
		return
	}

	response.Success(w, http.StatusOK, "Booking accepted successfully", result)
}

func (h *BookingHandler) MarkEnRoute(w http.ResponseWriter, r *http.Request) {
	h.noteTransition(w, r, h.lifecycleUsecase.MarkEnRoute, "Provider is en route", "Failed to mark booking en route")
}

func (h *BookingHandler) StartBooking(w http.ResponseWriter, r *http.Request) {
	h.noteTransition(w, r, h.lifecycleUsecase.Start, "Service started successfully", "Failed to start booking")
}

func (h *BookingHandler) UploadEvidence(w http.ResponseWriter, r *http.Request) {
	h.noteTransition(w, r, h.lifecycleUsecase.UploadEvidence, "Evidence recorded successfully", "Failed to record evidence")
}

func (h *BookingHandler) CompleteBooking(w http.ResponseWriter, r *http.Request) {
	h.noteTransition(w, r, h.lifecycleUsecase.Complete, "Service completed successfully", "Failed to complete booking")
}

func (h *BookingHandler) RejectBooking(w http.ResponseWriter, r *http.Request) {
	h.reasonTransition(w, r, h.lifecycleUsecase.Reject, "Booking rejected successfully", "Failed to reject booking")
}

func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	h.reasonTransition(w, r, h.lifecycleUsecase.Cancel, "Booking cancelled successfully", "Failed to cancel booking")
}

// ForceCancelBooking is mounted under /admin.
func (h *BookingHandler) ForceCancelBooking(w http.ResponseWriter, r *http.Request) {
	h.reasonTransition(w, r, h.lifecycleUsecase.ForceCancel, "Booking cancelled by administrator", "Failed to cancel booking")
}

type bookingAction func(ctx context.Context, actor entity.Actor, bookingID uuid.UUID, text string) (*dto.BookingResponse, error)

func (h *BookingHandler) noteTransition(w http.ResponseWriter, r *http.Request, action bookingAction, message, fallback string) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}
	bookingID, ok := pathUUID(w, r, "id", "booking")
	if !ok {
		return
	}
	req, ok := h.transitionRequest(w, r)
	if !ok {
		return
	}

	booking, err := action(r.Context(), actor, bookingID, req.Note)
	if err != nil {
		writeError(w, h.log, err, fallback)
		return
	}

	response.Success(w, http.StatusOK, message, booking)
}

func (h *BookingHandler) reasonTransition(w http.ResponseWriter, r *http.Request, action bookingAction, message, fallback string) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}
	bookingID, ok := pathUUID(w, r, "id", "booking")
	if !ok {
		return
	}

	var req dto.CancelBookingRequest
	if err := decodeOptionalBody(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	booking, err := action(r.Context(), actor, bookingID, req.Reason)
	if err != nil {
		writeError(w, h.log, err, fallback)
		return
	}

	response.Success(w, http.StatusOK, message, booking)
}

func (h *BookingHandler) transitionRequest(w http.ResponseWriter, r *http.Request) (*dto.TransitionRequest, bool) {
	var req dto.TransitionRequest
	if err := decodeOptionalBody(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return nil, false
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return nil, false
	}
	return &req, true
}

func (h *BookingHandler) bookingListQuery(w http.ResponseWriter, r *http.Request) (*dto.BookingListQuery, bool) {
	return parseBookingListQuery(w, r, h.validator)
}

func parseBookingListQuery(w http.ResponseWriter, r *http.Request, v *validator.CustomValidator) (*dto.BookingListQuery, bool) {
	errs := queryErrors{}
	query := &dto.BookingListQuery{
		Status:   r.URL.Query().Get("status"),
		DateFrom: errs.timeParam(r, "date_from"),
		DateTo:   errs.timeParam(r, "date_to"),
		Page:     errs.intParam(r, "page"),
		Limit:    errs.intParam(r, "limit"),
	}
	if len(errs) > 0 {
		response.ValidationError(w, errs)
		return nil, false
	}
	if err := v.Validate(query); err != nil {
		response.ValidationError(w, v.FormatValidationErrors(err))
		return nil, false
	}
	return query, true
}
