// @title UNIV.LIVE Tenant Registry API
// @version 1.0.0
// @description Slug registry, student enrollment and seat billing for live coaching tenants

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/univlive/univlive/internal/audit"
	"github.com/univlive/univlive/internal/billing"
	"github.com/univlive/univlive/internal/enrollment"
	"github.com/univlive/univlive/internal/identity"
	"github.com/univlive/univlive/internal/registry"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Handler holds HTTP handlers and dependencies
type Handler struct {
	registryService   *registry.Service
	enrollmentService *enrollment.Service
	billingService    *billing.Service
	identityService   *identity.Service
	auditLogger       audit.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(
	registryService *registry.Service,
	enrollmentService *enrollment.Service,
	billingService *billing.Service,
	identityService *identity.Service,
	auditLogger audit.Logger,
) *Handler {
	return &Handler{
		registryService:   registryService,
		enrollmentService: enrollmentService,
		billingService:    billingService,
		identityService:   identityService,
		auditLogger:       auditLogger,
	}
}

// NewRouter creates a new HTTP router
func NewRouter(h *Handler, rateLimiter *RateLimiter) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(RateLimitMiddleware(rateLimiter))
	r.Use(func(handler http.Handler) http.Handler {
		return otelhttp.NewHandler(handler, "http_request",
			otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			}),
		)
	})
	r.Use(LoggingMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// Health check
	r.Get("/health", h.HealthCheck)

	r.Route("/api", func(r chi.Router) {
		r.Use(h.AuthMiddleware)

		r.Route("/tenant", func(r chi.Router) {
			// Learners enroll themselves; educator tokens cannot
			// enroll on a student's behalf.
			r.Group(func(r chi.Router) {
				r.Use(h.RequireRole(identity.RoleStudent))
				r.Post("/register-student", h.RegisterStudent)
			})

			r.Group(func(r chi.Router) {
				r.Use(h.RequireRole(identity.RoleEducator, identity.RoleAdmin))
				r.Post("/change-slug", h.ChangeSlug)
			})
		})

		r.Route("/billing", func(r chi.Router) {
			r.Use(h.RequireRole(identity.RoleEducator, identity.RoleAdmin))
			r.Post("/update-quantity", h.UpdateQuantity)
			r.Post("/revoke-seat", h.RevokeSeat)
		})
	})

	return r
}

// HealthCheck returns the health status
// @Summary Health Check
// @Description Checks if the service is up and running
// @Tags System
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "univlive",
	})
}

// Helper functions
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// respondForbidden writes the uniform denial body used for every
// authentication and authorization failure.
func respondForbidden(w http.ResponseWriter) {
	respondError(w, http.StatusForbidden, "Forbidden")
}

func getIPAddress(r *http.Request) string {
	// Check X-Forwarded-For header first
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	// Check X-Real-IP header
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}
