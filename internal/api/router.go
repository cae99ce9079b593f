package api

import (
	"net/http"
	"time"
	"tour-guide-service/internal/api/handlers"
	"tour-guide-service/internal/auth"
	"tour-guide-service/internal/domain"
	"tour-guide-service/internal/ports"
	"tour-guide-service/internal/services"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	Tours    *services.TourService
	Comments *services.CommentService
	Admin    *services.AdminService
	Auth     *services.AuthService
	Images   ports.ImageStore
	Tokens   *auth.JWTManager
	Denylist ports.TokenDenylist

	// DirectionsBreaker is reported by /health when set.
	DirectionsBreaker handlers.BreakerState

	// UploadDir is served under /Uploads/. Empty disables static serving.
	UploadDir      string
	AllowedOrigins []string
	// LoginRateLimit is login attempts per IP per minute; 0 disables limiting.
	LoginRateLimit int
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(requestIDMiddleware)
	r.Use(chimiddleware.RealIP)
	r.Use(accessLogMiddleware)
	r.Use(chimiddleware.Recoverer)
	r.Use(corsMiddleware(d.AllowedOrigins))

	tourHandler := &handlers.TourHandler{Tours: d.Tours}
	commentHandler := &handlers.CommentHandler{Comments: d.Comments}
	authHandler := &handlers.AuthHandler{Auth: d.Auth}
	fileHandler := &handlers.FileHandler{Images: d.Images}
	adminHandler := &handlers.AdminHandler{Admin: d.Admin}
	healthHandler := &handlers.HealthHandler{Directions: d.DirectionsBreaker}

	authenticate := auth.Authenticate(d.Tokens, d.Denylist)

	r.Get("/health", healthHandler.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.With(loginLimiter(d.LoginRateLimit)).Post("/login", authHandler.Login)
		r.With(authenticate).Post("/logout", authHandler.Logout)
	})

	r.Route("/api/tours", func(r chi.Router) {
		r.Get("/", tourHandler.List)
		r.Get("/{id}/details", tourHandler.Details)
		r.With(authenticate, auth.RequireRoles(domain.AuthorRoles()...)).
			Post("/", tourHandler.Create)
	})

	r.Route("/api/comments", func(r chi.Router) {
		r.Get("/tours/{tourId}", commentHandler.List)
		r.With(authenticate).Post("/tours/{tourId}", commentHandler.Add)
		r.With(authenticate).Delete("/{commentId}", commentHandler.Delete)
	})

	r.With(authenticate).Post("/api/files/upload-image", fileHandler.UploadImage)

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(authenticate, auth.RequireRoles(domain.RoleAdministrator))

		r.Get("/tours", adminHandler.ListTours)
		r.Get("/tours/by-creator", adminHandler.ToursByCreator)
		r.Put("/tours/{tourId}/status", adminHandler.UpdateTourStatus)
		r.Delete("/tours/{tourId}", adminHandler.DeleteTour)
		r.Get("/tours/{tourId}/full-details", adminHandler.TourDetails)
		r.Get("/users", adminHandler.ListUsers)
		r.Get("/users/{userId}/full-details", adminHandler.UserDetails)
		r.Delete("/users/{userId}", adminHandler.DeleteUser)
	})

	if d.UploadDir != "" {
		r.Handle("/Uploads/*", http.StripPrefix("/Uploads/", http.FileServer(http.Dir(d.UploadDir))))
	}

	return r
}

func corsMiddleware(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Location", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	})
}

func loginLimiter(perMinute int) func(http.Handler) http.Handler {
	if perMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.LimitByIP(perMinute, time.Minute)
}
