package rest

import (
	"log/slog"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/onboarding-tracker/internal/audit"
	"github.com/frahmantamala/onboarding-tracker/internal/auth"
	"github.com/frahmantamala/onboarding-tracker/internal/checklist"
	"github.com/frahmantamala/onboarding-tracker/internal/content"
	"github.com/frahmantamala/onboarding-tracker/internal/document"
	"github.com/frahmantamala/onboarding-tracker/internal/inventory"
	"github.com/frahmantamala/onboarding-tracker/internal/progress"
	"github.com/frahmantamala/onboarding-tracker/internal/training"
	"github.com/frahmantamala/onboarding-tracker/internal/transport/middleware"
	"github.com/frahmantamala/onboarding-tracker/internal/transport/swagger"
	"github.com/frahmantamala/onboarding-tracker/internal/user"
)

const APIPrefix = "/api/v1"

type Handlers struct {
	Health    *HealthHandler
	Auth      *auth.Handler
	RBAC      *auth.RBACAuthorization
	User      *user.Handler
	Inventory *inventory.Handler
	Checklist *checklist.Handler
	Document  *document.Handler
	Progress  *progress.Handler
	Training  *training.Handler
	Content   *content.Handler
	Audit     *audit.Handler
}

type Options struct {
	AllowedOrigins  string
	OpenAPISpecPath string
	// Validator is optional; nil skips OpenAPI request validation.
	Validator *middleware.RequestValidator
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, opts Options, logger *slog.Logger) {
	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware)

	if opts.OpenAPISpecPath != "" {
		router.Get(swagger.DocumentPath, swagger.DocumentHandler(opts.OpenAPISpecPath))
		router.Handle("/swagger/*", swagger.Handler())
	}

	// validation runs after authentication so unauthenticated callers get 401 first
	validate := func(r chi.Router) {
		if opts.Validator != nil {
			r.Use(opts.Validator.Middleware)
		}
	}

	router.Route(APIPrefix, func(r chi.Router) {
		r.Get("/health", h.Health.Check)
		r.Get("/ping", h.Health.Ping)

		r.Route("/auth", func(ar chi.Router) {
			validate(ar)
			ar.Post("/login", h.Auth.Login)
			ar.Post("/refresh", h.Auth.RefreshToken)
			ar.Post("/logout", h.Auth.Logout)
		})

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)
			validate(pr)

			// any authenticated caller
			pr.Get("/users/me", h.User.GetCurrentUser)
			pr.Get("/documents/{id}", h.Document.Get)
			pr.Get("/documents/{id}/file", h.Document.Download)
			pr.Get("/trainings", h.Training.List)
			pr.Get("/announcements", h.Content.ListAnnouncements)
			pr.Get("/faqs", h.Content.ListFAQs)

			pr.Group(func(hr chi.Router) {
				hr.Use(h.RBAC.RequireHR())

				hr.Post("/users", h.User.CreateEmployee)
				hr.Get("/users", h.User.ListEmployees)
				hr.Post("/users/{id}/checklist/init", h.Checklist.Instantiate)

				hr.Post("/equipment", h.Inventory.CreateEquipment)
				hr.Get("/equipment", h.Inventory.ListEquipment)
				hr.Post("/assignments", h.Inventory.Assign)
				hr.Get("/assignments", h.Inventory.ListLedger)
				hr.Patch("/assignments/{id}/return", h.Inventory.MarkReturned)

				hr.Post("/checklist/items", h.Checklist.CreateItem)
				hr.Get("/checklist/items", h.Checklist.ListItems)
				hr.Put("/checklist/items/{id}", h.Checklist.UpdateItem)
				hr.Delete("/checklist/items/{id}", h.Checklist.DeactivateItem)

				hr.Get("/documents/pending", h.Document.ListPending)
				hr.Patch("/documents/{id}/review", h.Document.Review)
				hr.Get("/documents/{id}/history", h.Audit.DocumentHistory)

				hr.Post("/trainings", h.Training.Create)

				hr.Post("/announcements", h.Content.CreateAnnouncement)
				hr.Delete("/announcements/{id}", h.Content.DeleteAnnouncement)
				hr.Post("/faqs", h.Content.CreateFAQ)
				hr.Delete("/faqs/{id}", h.Content.DeleteFAQ)

				hr.Get("/progress", h.Progress.Dashboard)
				hr.Get("/progress/{userId}", h.Progress.ForUser)
			})

			pr.Group(func(er chi.Router) {
				er.Use(h.RBAC.RequireEmployee())

				er.Patch("/assignments/{id}/ack", h.Inventory.Acknowledge)
				er.Get("/me/equipment", h.Inventory.ListMine)

				er.Get("/me/checklist", h.Checklist.ListMine)
				er.Get("/me/checklist/progress", h.Checklist.Progress)
				er.Patch("/me/checklist/{itemId}", h.Checklist.SetStatus)

				er.Post("/documents", h.Document.Upload)
				er.Get("/me/documents", h.Document.ListMine)

				er.Get("/me/trainings", h.Training.ListMine)
				er.Patch("/trainings/{id}/attendance", h.Training.SetAttendance)

				er.Get("/me/progress", h.Progress.Mine)
			})
		})
	})
}
