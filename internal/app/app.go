// Package app assembles repositories, services and handlers into a router.
package app

import (
	"fmt"
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"

	"github.com/frahmantamala/onboarding-tracker/internal"
	"github.com/frahmantamala/onboarding-tracker/internal/audit"
	"github.com/frahmantamala/onboarding-tracker/internal/auth"
	authPostgres "github.com/frahmantamala/onboarding-tracker/internal/auth/postgres"
	"github.com/frahmantamala/onboarding-tracker/internal/checklist"
	checklistPostgres "github.com/frahmantamala/onboarding-tracker/internal/checklist/postgres"
	"github.com/frahmantamala/onboarding-tracker/internal/content"
	contentPostgres "github.com/frahmantamala/onboarding-tracker/internal/content/postgres"
	"github.com/frahmantamala/onboarding-tracker/internal/core/events"
	"github.com/frahmantamala/onboarding-tracker/internal/document"
	documentPostgres "github.com/frahmantamala/onboarding-tracker/internal/document/postgres"
	"github.com/frahmantamala/onboarding-tracker/internal/inventory"
	inventoryPostgres "github.com/frahmantamala/onboarding-tracker/internal/inventory/postgres"
	"github.com/frahmantamala/onboarding-tracker/internal/progress"
	progressPostgres "github.com/frahmantamala/onboarding-tracker/internal/progress/postgres"
	"github.com/frahmantamala/onboarding-tracker/internal/storage"
	"github.com/frahmantamala/onboarding-tracker/internal/training"
	trainingPostgres "github.com/frahmantamala/onboarding-tracker/internal/training/postgres"
	"github.com/frahmantamala/onboarding-tracker/internal/transport/middleware"
	"github.com/frahmantamala/onboarding-tracker/internal/transport/rest"
	"github.com/frahmantamala/onboarding-tracker/internal/user"
	userPostgres "github.com/frahmantamala/onboarding-tracker/internal/user/postgres"
)

// Dependencies are the process-level resources the application is built on.
// Gorm and SQLx share one *sql.DB.
type Dependencies struct {
	Config *internal.Config
	Gorm   *gorm.DB
	SQLX   *sqlx.DB
	Logger *slog.Logger
}

type App struct {
	Router    *chi.Mux
	Bus       *events.EventBus
	Auth      *auth.Service
	Inventory *inventory.Service
	Checklist *checklist.Service
	Recorder  *audit.Recorder
}

func New(deps Dependencies) (*App, error) {
	cfg := deps.Config
	lg := deps.Logger

	blobs, err := storage.NewLocalStore(cfg.Storage.UploadDir, cfg.Storage.MaxUploadSize)
	if err != nil {
		return nil, fmt.Errorf("init document storage: %w", err)
	}

	bus := events.NewEventBus(lg)
	recorder := audit.NewRecorder(deps.Gorm, lg)
	recorder.Subscribe(bus)

	tokens := auth.NewJWTTokenGenerator(
		cfg.Security.AccessTokenSecret,
		cfg.Security.RefreshTokenSecret,
		cfg.Security.AccessTokenDuration,
		cfg.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authPostgres.NewRepository(deps.Gorm), tokens, cfg.Security.BCryptCost, lg)

	checklistService := checklist.NewService(checklistPostgres.NewChecklistRepository(deps.Gorm), lg)
	userService := user.NewService(userPostgres.NewUserRepository(deps.Gorm), authService, checklistService, lg)
	inventoryService := inventory.NewService(inventoryPostgres.NewInventoryRepository(deps.Gorm), bus, lg)
	documentService := document.NewService(
		documentPostgres.NewDocumentRepository(deps.Gorm),
		blobs,
		bus,
		document.Policy{AllowReReview: cfg.Documents.AllowReReview},
		lg,
	)
	progressService := progress.NewService(progressPostgres.NewProgressRepository(deps.SQLX), lg)
	trainingService := training.NewService(trainingPostgres.NewTrainingRepository(deps.Gorm), lg)
	contentService := content.NewService(contentPostgres.NewContentRepository(deps.Gorm), lg)

	opts := rest.Options{
		AllowedOrigins:  cfg.Server.AllowedOrigins,
		OpenAPISpecPath: cfg.Server.OpenAPISpecPath,
	}
	if cfg.Server.ValidateRequests && cfg.Server.OpenAPISpecPath != "" {
		doc, err := middleware.LoadOpenAPI(cfg.Server.OpenAPISpecPath)
		if err != nil {
			return nil, err
		}
		validator, err := middleware.NewRequestValidator(doc, rest.APIPrefix, lg)
		if err != nil {
			return nil, err
		}
		opts.Validator = validator
	}

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, rest.Handlers{
		Health:    rest.NewHealthHandler(deps.SQLX.DB, cfg.Storage.UploadDir),
		Auth:      auth.NewHandler(authService),
		RBAC:      auth.NewRBACAuthorization(auth.NewRoleChecker(), lg),
		User:      user.NewHandler(userService),
		Inventory: inventory.NewHandler(inventoryService),
		Checklist: checklist.NewHandler(checklistService),
		Document:  document.NewHandler(documentService, cfg.Storage.MaxUploadSize),
		Progress:  progress.NewHandler(progressService),
		Training:  training.NewHandler(trainingService),
		Content:   content.NewHandler(contentService),
		Audit:     audit.NewHandler(recorder),
	}, opts, lg)

	return &App{
		Router:    router,
		Bus:       bus,
		Auth:      authService,
		Inventory: inventoryService,
		Checklist: checklistService,
		Recorder:  recorder,
	}, nil
}
