// Package router assembles the HTTP surface. Handlers own their feature
// semantics; this is the only place routes, auth requirements and CORS are
// declared.
package router

import (
	"net/http"

	"github.com/rs/cors"

	"github.com/sitterlink/backend/internal/auth"
	"github.com/sitterlink/backend/internal/booking"
	"github.com/sitterlink/backend/internal/dashboard"
	"github.com/sitterlink/backend/internal/middleware"
	"github.com/sitterlink/backend/internal/models"
	"github.com/sitterlink/backend/internal/payments"
	"github.com/sitterlink/backend/internal/profiles"
	"github.com/sitterlink/backend/internal/reviews"
)

type Deps struct {
	AuthSvc   auth.Service
	Auth      *auth.Handler
	Profiles  *profiles.Handler
	Bookings  *booking.Handler
	Payments  *payments.Handler
	Reviews   *reviews.Handler
	Dashboard *dashboard.Handler

	// OpenBookingLimit caps how many pending bookings a parent may hold;
	// wired in front of booking creation only.
	OpenBookingLimit func(http.Handler) http.Handler

	CORSOrigins []string
}

func New(d Deps) http.Handler {
	mux := http.NewServeMux()
	requireAuth := middleware.JWTAuth(d.AuthSvc)

	// Public.
	mux.HandleFunc("POST /api/v1/auth/register", d.Auth.Register)
	mux.HandleFunc("POST /api/v1/auth/login", d.Auth.Login)
	mux.HandleFunc("GET /api/v1/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Processor callbacks authenticate by transaction reference, not JWT.
	mux.HandleFunc("POST /api/v1/payments/webhook/confirm", d.Payments.WebhookConfirm)
	mux.HandleFunc("POST /api/v1/payments/webhook/fail", d.Payments.WebhookFail)
	mux.HandleFunc("POST /api/v1/payments/webhook/cancel", d.Payments.WebhookCancel)

	// Authenticated.
	createBooking := http.HandlerFunc(d.Bookings.CreateBooking)
	if d.OpenBookingLimit != nil {
		mux.Handle("POST /api/v1/bookings", requireAuth(d.OpenBookingLimit(createBooking)))
	} else {
		mux.Handle("POST /api/v1/bookings", requireAuth(createBooking))
	}
	mux.Handle("GET /api/v1/bookings", requireAuth(http.HandlerFunc(d.Bookings.ListBookings)))
	mux.Handle("GET /api/v1/bookings/{id}", requireAuth(http.HandlerFunc(d.Bookings.GetBooking)))
	mux.Handle("PUT /api/v1/bookings/{id}", requireAuth(http.HandlerFunc(d.Bookings.UpdateBooking)))

	mux.Handle("POST /api/v1/sitters", requireAuth(middleware.RequireRole(models.RoleSitter)(http.HandlerFunc(d.Profiles.CreateProfile))))
	mux.Handle("GET /api/v1/sitters", requireAuth(http.HandlerFunc(d.Profiles.ListSitters)))
	mux.Handle("GET /api/v1/sitters/{id}/reviews", requireAuth(http.HandlerFunc(d.Reviews.ListSitterReviews)))

	mux.Handle("POST /api/v1/payments/init-payment", requireAuth(http.HandlerFunc(d.Payments.InitPayment)))

	mux.Handle("POST /api/v1/reviews", requireAuth(http.HandlerFunc(d.Reviews.SubmitReview)))
	mux.Handle("POST /api/v1/reports", requireAuth(http.HandlerFunc(d.Reviews.SubmitReport)))

	mux.Handle("GET /api/v1/account/me", requireAuth(http.HandlerFunc(d.Dashboard.Me)))
	mux.Handle("GET /api/v1/account/earnings", requireAuth(http.HandlerFunc(d.Dashboard.Earnings)))
	mux.Handle("GET /api/v1/account/ledger", requireAuth(http.HandlerFunc(d.Dashboard.Ledger)))

	c := cors.New(cors.Options{
		AllowedOrigins:   d.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})
	return c.Handler(mux)
}
