package user

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/frahmantamala/onboarding-tracker/internal"
	userDatamodel "github.com/frahmantamala/onboarding-tracker/internal/core/datamodel/user"
)

// Repository persists accounts. Create returns internal.ErrEmailTaken for a duplicate email.
type Repository interface {
	Create(ctx context.Context, u *userDatamodel.User) error
	GetByID(ctx context.Context, id int64) (*userDatamodel.User, error)
	ListByRole(ctx context.Context, role string) ([]*userDatamodel.User, error)
}

type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

// ChecklistInstantiator gives a new employee their onboarding checklist.
type ChecklistInstantiator interface {
	InstantiateForUser(ctx context.Context, userID int64) (int64, error)
}

type Service struct {
	repo      Repository
	hasher    PasswordHasher
	checklist ChecklistInstantiator
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo Repository, hasher PasswordHasher, checklist ChecklistInstantiator, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		hasher:    hasher,
		checklist: checklist,
		logger:    logger,
		now:       time.Now,
	}
}

// CreateEmployee registers an EMPLOYEE account and instantiates its checklist.
// A failed instantiation is logged only; HR can re-run it on demand.
func (s *Service) CreateEmployee(ctx context.Context, dto CreateEmployeeDTO) (*User, error) {
	dto.Email = strings.ToLower(strings.TrimSpace(dto.Email))
	if err := dto.Validate(); err != nil {
		s.logger.Warn("employee validation failed", "error", err)
		return nil, err
	}

	hash, err := s.hasher.HashPassword(dto.Password)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return nil, internal.NewInternalError("failed to create employee", err)
	}

	now := s.now()
	u := &userDatamodel.User{
		Email:        dto.Email,
		Name:         strings.TrimSpace(dto.Name),
		PasswordHash: hash,
		Role:         internal.RoleEmployee,
		Department:   dto.Department,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if !internal.IsKind(err, internal.ErrorTypeConflict) {
			s.logger.Error("failed to create employee", "error", err)
		}
		return nil, internal.AsAppError(err, "failed to create employee")
	}

	if s.checklist != nil {
		created, err := s.checklist.InstantiateForUser(ctx, u.ID)
		if err != nil {
			s.logger.Error("failed to instantiate checklist for new employee", "error", err, "user_id", u.ID)
		} else {
			s.logger.Info("checklist instantiated for new employee", "user_id", u.ID, "entries", created)
		}
	}

	s.logger.Info("employee created", "user_id", u.ID)
	return FromDataModel(u), nil
}

func (s *Service) Get(ctx context.Context, userID int64) (*User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, internal.AsAppError(err, "failed to get user")
	}
	return FromDataModel(u), nil
}

func (s *Service) ListEmployees(ctx context.Context) ([]*User, error) {
	users, err := s.repo.ListByRole(ctx, internal.RoleEmployee)
	if err != nil {
		s.logger.Error("failed to list employees", "error", err)
		return nil, internal.AsAppError(err, "failed to list employees")
	}
	return FromDataModelSlice(users), nil
}
