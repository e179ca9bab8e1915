package http

import (
	"net/http"

	"marketplace-booking/internal/delivery/http/handler"
	"marketplace-booking/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router             *mux.Router
	bookingHandler     *handler.BookingHandler
	openRequestHandler *handler.OpenRequestHandler
	providerHandler    *handler.ProviderHandler
	authMiddleware     *middleware.AuthMiddleware
	corsMiddleware     *middleware.CORSMiddleware
}

func NewRouter(
	bookingHandler *handler.BookingHandler,
	openRequestHandler *handler.OpenRequestHandler,
	providerHandler *handler.ProviderHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:             mux.NewRouter(),
		bookingHandler:     bookingHandler,
		openRequestHandler: openRequestHandler,
		providerHandler:    providerHandler,
		authMiddleware:     authMiddleware,
		corsMiddleware:     corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Provider search (public)
	providers := api.PathPrefix("/providers").Subrouter()
	providers.HandleFunc("/search", r.providerHandler.SearchProviders).Methods(http.MethodGet)
	providers.HandleFunc("/{providerId}/busy-slots", r.openRequestHandler.GetBusySlots).Methods(http.MethodGet)

	// Provider-facing booking routes, registered before /{id}
	providerBookings := api.PathPrefix("/bookings").Subrouter()
	providerBookings.Use(r.authMiddleware.Authenticate)
	providerBookings.Use(middleware.RequireProvider)
	providerBookings.HandleFunc("/provider", r.bookingHandler.GetProviderBookings).Methods(http.MethodGet)
	providerBookings.HandleFunc("/open-requests", r.openRequestHandler.ListOpenRequests).Methods(http.MethodGet)
	providerBookings.HandleFunc("/{id}/quote", r.bookingHandler.QuoteBooking).Methods(http.MethodPatch)
	providerBookings.HandleFunc("/{id}/accept", r.bookingHandler.AcceptBooking).Methods(http.MethodPatch)
	providerBookings.HandleFunc("/{id}/claim", r.openRequestHandler.ClaimOpenRequest).Methods(http.MethodPatch)
	providerBookings.HandleFunc("/{id}/reject", r.bookingHandler.RejectBooking).Methods(http.MethodPatch)
	providerBookings.HandleFunc("/{id}/en-route", r.bookingHandler.MarkEnRoute).Methods(http.MethodPatch)
	providerBookings.HandleFunc("/{id}/start", r.bookingHandler.StartBooking).Methods(http.MethodPatch)
	providerBookings.HandleFunc("/{id}/evidence", r.bookingHandler.UploadEvidence).Methods(http.MethodPatch)
	providerBookings.HandleFunc("/{id}/complete", r.bookingHandler.CompleteBooking).Methods(http.MethodPatch)

	// Booking routes (authenticated)
	bookings := api.PathPrefix("/bookings").Subrouter()
	bookings.Use(r.authMiddleware.Authenticate)
	bookings.HandleFunc("", r.bookingHandler.CreateBooking).Methods(http.MethodPost)
	bookings.HandleFunc("/me", r.bookingHandler.GetMyBookings).Methods(http.MethodGet)
	bookings.HandleFunc("/{id}", r.bookingHandler.GetBooking).Methods(http.MethodGet)
	bookings.HandleFunc("/{id}/cancel", r.bookingHandler.CancelBooking).Methods(http.MethodPatch)

	// Admin routes (protected - admin only)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/bookings/{id}/cancel", r.bookingHandler.ForceCancelBooking).Methods(http.MethodPatch)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
