package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/gdg-garage/campus-events/internal/auth"
	"github.com/gdg-garage/campus-events/internal/config"
	"github.com/gdg-garage/campus-events/internal/logging"
	"github.com/gdg-garage/campus-events/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// Handlers bundles every operation handler of the API.
type Handlers struct {
	Auth         *auth.AuthHandler
	Colleges     *CollegeHandler
	Students     *StudentHandler
	Events       *EventHandler
	Registration *RegistrationHandler
	Reports      *ReportHandler
	APIKeys      *APIKeyHandler
}

// Server holds what RegisterRoutes wires around the API.
type Server struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Metrics  *metrics.Metrics
	Handlers Handlers
	// Static serves the student page; nil disables it.
	Static http.Handler
}

func APIConfig() huma.Config {
	config := huma.DefaultConfig("Campus Events API", "1.0.0")
	config.Components.SecuritySchemes = auth.SecuritySchemes()
	return config
}

func RegisterRoutes(r *chi.Mux, s Server) huma.API {
	r.Use(logging.Middleware(s.Logger))
	r.Use(middleware.Recoverer)
	r.Use(s.Metrics.Middleware)
	if s.Config.EnableCORS {
		r.Use(cors.New(cors.Options{
			AllowedOrigins:   s.Config.CORSAllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Content-Type", auth.APIKeyHeader, logging.RequestIDHeader},
			AllowCredentials: true,
		}).Handler)
	}

	api := humachi.New(r, APIConfig())

	// Public routes
	r.Handle("/metrics", s.Metrics.Handler())

	// Auth routes
	r.Get("/auth/discord/login", s.Handlers.Auth.HandleLogin)
	r.Get("/auth/discord/callback", s.Handlers.Auth.HandleCallback)

	Register(api, s.Handlers)

	if s.Static != nil {
		r.Handle("/*", s.Static)
	}
	return api
}

type HealthOutput struct {
	Body struct {
		Status string `json:"status" example:"ok"`
	}
}

func handleHealth(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	out := &HealthOutput{}
	out.Body.Status = "ok"
	return out, nil
}

// Register adds every API operation and the admin authentication
// middleware to api.
func Register(api huma.API, h Handlers) {
	api.UseMiddleware(h.Auth.Middleware(api))

	admin := func(o *huma.Operation) {
		o.Security = auth.AdminSecurity
	}
	created := func(o *huma.Operation) {
		o.DefaultStatus = http.StatusCreated
	}
	tags := func(tags ...string) func(o *huma.Operation) {
		return func(o *huma.Operation) {
			o.Tags = tags
		}
	}

	huma.Get(api, "/health", handleHealth, tags("Health"))
	huma.Get(api, "/me", h.Auth.HandleMe, admin, tags("Auth"))

	huma.Get(api, "/colleges", h.Colleges.HandleList, tags("Colleges"))
	huma.Post(api, "/colleges", h.Colleges.HandleCreate, admin, created, tags("Colleges"))

	huma.Get(api, "/students", h.Students.HandleList, admin, tags("Students"))
	huma.Post(api, "/students", h.Students.HandleCreate, admin, created, tags("Students"))
	huma.Get(api, "/students/{id}", h.Students.HandleGet, admin, tags("Students"))

	huma.Get(api, "/events", h.Events.HandleList, tags("Events"))
	huma.Post(api, "/events", h.Events.HandleCreate, admin, created, tags("Events"))
	huma.Get(api, "/events/{id}", h.Events.HandleGet, tags("Events"))

	huma.Post(api, "/events/{id}/register", h.Registration.HandleRegister, created, tags("Participation"))
	huma.Post(api, "/events/{id}/attendance", h.Registration.HandleMarkAttendance, admin, created, tags("Participation"))
	huma.Post(api, "/events/{id}/feedback", h.Registration.HandleSubmitFeedback, created, tags("Participation"))

	huma.Get(api, "/reports/event-popularity", h.Reports.HandleEventPopularity, admin, tags("Reports"))
	huma.Get(api, "/reports/student-participation/{studentId}", h.Reports.HandleStudentParticipation, admin, tags("Reports"))
	huma.Get(api, "/reports/top-students", h.Reports.HandleTopStudents, admin, tags("Reports"))
	huma.Get(api, "/reports/feedback/{eventId}", h.Reports.HandleFeedbackSummary, admin, tags("Reports"))
	huma.Get(api, "/reports/attendance-percentage", h.Reports.HandleAttendancePercentage, admin, tags("Reports"))

	huma.Post(api, "/api-keys", h.APIKeys.HandleCreate, admin, created, tags("API Keys"))
	huma.Get(api, "/api-keys", h.APIKeys.HandleList, admin, tags("API Keys"))
	huma.Delete(api, "/api-keys/{id}", h.APIKeys.HandleDelete, admin, tags("API Keys"))
}
