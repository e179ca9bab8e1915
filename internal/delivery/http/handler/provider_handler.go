package handler

import (
	"net/http"

	"marketplace-booking/internal/converter"
	"marketplace-booking/internal/delivery/dto"
	"marketplace-booking/internal/usecase"
	"marketplace-booking/pkg/response"
	"marketplace-booking/pkg/validator"

	"github.com/sirupsen/logrus"
)

type ProviderHandler struct {
	searchUsecase usecase.ProviderSearchUsecase
	validator     *validator.CustomValidator
	log           *logrus.Logger
}

func NewProviderHandler(searchUsecase usecase.ProviderSearchUsecase, validator *validator.CustomValidator, log *logrus.Logger) *ProviderHandler {
	return &ProviderHandler{
		searchUsecase: searchUsecase,
		validator:     validator,
		log:           log,
	}
}

// SearchProviders handles GET /providers/search.
func (h *ProviderHandler) SearchProviders(w http.ResponseWriter, r *http.Request) {
	errs := queryErrors{}
	values := r.URL.Query()
	query := &dto.SearchProvidersQuery{
		Query:        values.Get("query"),
		CategoryID:   errs.uuidParam(r, "category_id"),
		CategorySlug: values.Get("category_slug"),
		Latitude:     errs.floatParam(r, "latitude"),
		Longitude:    errs.floatParam(r, "longitude"),
		RadiusKm:     errs.floatParam(r, "radius_km"),
		MinRating:    errs.floatParam(r, "min_rating"),
		SortBy:       values.Get("sort_by"),
		Page:         errs.intParam(r, "page"),
		Limit:        errs.intParam(r, "limit"),
	}
	if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}
	if err := h.validator.Validate(query); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.searchUsecase.Search(r.Context(), converter.SearchQueryToFilter(query))
	if err != nil {
		writeError(w, h.log, err, "Failed to search providers")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Providers retrieved successfully", result.Providers,
		response.NewMeta(result.Page, result.Limit, result.Total))
}
