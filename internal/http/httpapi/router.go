package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"scholarhub/internal/domain"
	"scholarhub/internal/http/handlers"
	"scholarhub/internal/middleware"
)

// Options carries the cross-cutting pieces the router wires around handlers.
type Options struct {
	Logger          zerolog.Logger
	AllowedOrigins  []string
	RateLimitPerMin int
	Country         middleware.CountryLookup
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(opts.Logger),
		middleware.CORS(opts.AllowedOrigins),
		middleware.Geo(opts.Country),
	)
	if opts.RateLimitPerMin > 0 {
		r.Use(middleware.RateLimit(opts.RateLimitPerMin, time.Minute))
	}

	auth := middleware.AuthJWT(app.JWTSecret, app.TokenVersion)
	adminOnly := middleware.RequireRole(string(domain.UserRoleAdmin))
	studentOnly := middleware.RequireRole(string(domain.UserRoleStudent))
	donorOnly := middleware.RequireRole(string(domain.UserRoleDonor))

	r.Get("/v1/healthz", app.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1/auth", func(r chi.Router) {
		r.Post("/register", app.Register)
		r.Post("/login", app.Login)
		r.Group(func(r chi.Router) {
			r.Use(auth)
			r.Get("/me", app.Me)
			r.Post("/change-password", app.ChangePassword)
		})
	})

	r.Route("/v1/scholarships", func(r chi.Router) {
		r.Get("/", app.ListScholarships)
		r.Get("/{id}", app.GetScholarship)
		r.Group(func(r chi.Router) {
			r.Use(auth)
			r.Post("/", app.CreateScholarship)
			r.With(adminOnly).Post("/{id}/close", app.CloseScholarship)
			r.With(adminOnly).Get("/{id}/applications", app.ListScholarshipApplications)
			r.With(studentOnly).Post("/{id}/apply", app.Apply)
		})
	})

	r.Route("/v1/applications", func(r chi.Router) {
		r.Use(auth)
		r.With(studentOnly).Get("/mine", app.ListMyApplications)
		r.With(studentOnly).Post("/{id}/withdraw", app.WithdrawApplication)
		r.With(adminOnly).Post("/{id}/review", app.ReviewApplication)
	})

	r.Route("/v1/profile", func(r chi.Router) {
		r.Use(auth)
		r.With(studentOnly).Put("/student", app.UpdateStudentProfile)
	})

	r.Route("/v1/donations", func(r chi.Router) {
		r.Use(auth, donorOnly)
		r.Post("/intent", app.CreateDonationIntent)
		r.Get("/dashboard", app.DonorDashboard)
	})

	r.Post("/v1/webhooks/payment", app.PaymentWebhook)

	r.Route("/v1/payments", func(r chi.Router) {
		r.Use(auth, adminOnly)
		r.Post("/{id}/refund", app.RefundPayment)
	})

	r.Route("/v1/notifications", func(r chi.Router) {
		r.Use(auth)
		r.Get("/", app.ListNotifications)
		r.Post("/{id}/read", app.MarkNotificationRead)
	})

	r.Route("/v1/admin", func(r chi.Router) {
		r.Use(auth, adminOnly)
		r.Get("/stats", app.AdminStats)
		r.Get("/scholarships/pending", app.ListPendingScholarships)
		r.Post("/scholarships/{id}/review", app.ReviewScholarship)
		r.Post("/users/{id}/active", app.SetUserActive)
	})

	return r
}
