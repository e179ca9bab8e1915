package usecase

import (
	"marketplace-booking/internal/domain/entity"
	"marketplace-booking/pkg/apperror"
)

var (
	ErrBookingNotFound  = apperror.New(apperror.KindNotFound, "booking not found")
	ErrProviderNotFound = apperror.New(apperror.KindNotFound, "provider not found")

	ErrInvalidTransition = apperror.New(apperror.KindInvalidTransition, "invalid booking status transition")
	ErrAlreadyClaimed    = apperror.Refine(ErrInvalidTransition, apperror.KindAlreadyClaimed, "this request has already been claimed")

	ErrNotBookingParty         = apperror.New(apperror.KindForbidden, "you are not part of this booking")
	ErrNotAssignedProvider     = apperror.New(apperror.KindForbidden, "this booking does not belong to you")
	ErrProviderProfileRequired = apperror.New(apperror.KindForbidden, "a provider profile is required for this action")
	ErrAdminOnly               = apperror.New(apperror.KindForbidden, "only administrators can perform this action")
	ErrCategoryNotOffered      = apperror.New(apperror.KindForbidden, "you do not offer services in this request's category")

	ErrValidation          = apperror.New(apperror.KindValidation, "validation failed")
	ErrBookingTarget       = apperror.Wrap(ErrValidation, "provide (provider_id + service_id) for a direct booking, or category_id for an open request")
	ErrScheduleTooSoon     = apperror.Wrap(ErrValidation, "scheduled time must be at least 1 hour in the future")
	ErrScheduleTooFar      = apperror.Wrap(ErrValidation, "cannot schedule more than 30 days in advance")
	ErrProviderNotApproved = apperror.Wrap(ErrValidation, "provider is not approved to receive bookings")
	ErrSelfBooking         = apperror.Wrap(ErrValidation, "cannot book your own services")
	ErrSelfClaim           = apperror.Wrap(ErrValidation, "cannot claim your own request")
	ErrServiceNotOffered   = apperror.Wrap(ErrValidation, "provider does not offer this service")
	ErrCategoryUnavailable = apperror.Wrap(ErrValidation, "category not found or inactive")
	ErrInvalidQuote        = apperror.Wrap(ErrValidation, "quoted_price must be greater than zero and quoted_materials must not be negative")
	ErrNegativeBudget      = apperror.Wrap(ErrValidation, "budget must not be negative")
	ErrIncompleteOrigin    = apperror.Wrap(ErrValidation, "latitude and longitude must be supplied together")
	ErrInvalidDate         = apperror.Wrap(ErrValidation, "date must use the YYYY-MM-DD format")
	ErrLocationRequired    = apperror.Wrap(ErrValidation, "latitude and longitude are required")
	ErrInvalidLocation     = apperror.Wrap(ErrValidation, "latitude must be within [-90, 90] and longitude within [-180, 180]")
	ErrProviderInactive    = apperror.Wrap(ErrValidation, "provider account is not active")
	ErrRejectNotAllowed    = apperror.Wrap(ErrInvalidTransition, "only REQUESTED or QUOTED bookings can be rejected")
)

// invalidTransition names the current and attempted status.
func invalidTransition(current, target entity.BookingStatus) error {
	return apperror.Wrap(ErrInvalidTransition, "cannot transition booking from %s to %s", current, target)
}
