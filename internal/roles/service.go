package roles

import (
	"context"
	"errors"
	"fmt"

	"github.com/feastlyhq/feastly-backend/pkg/db/models"
	"github.com/feastlyhq/feastly-backend/pkg/enums"
	pkgerrors "github.com/feastlyhq/feastly-backend/pkg/errors"
	"github.com/feastlyhq/feastly-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type roleRepository interface {
	InsertIfAbsent(ctx context.Context, userID uuid.UUID, role enums.Role) error
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.UserRole, error)
}

type roleHintMirror interface {
	UpsertRoleHint(ctx context.Context, userID uuid.UUID, role enums.Role, displayName string) error
}

// Service exposes the one-time role selection operations.
type Service interface {
	Assign(ctx context.Context, userID uuid.UUID, role enums.Role) (*AssignmentDTO, error)
	Get(ctx context.Context, userID uuid.UUID) (*AssignmentDTO, error)
}

type service struct {
	repo   roleRepository
	mirror roleHintMirror
	logg   *logger.Logger
}

// NewService builds a role service with the provided repositories.
func NewService(repo roleRepository, mirror roleHintMirror, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("role repository required")
	}
	return &service{
		repo:   repo,
		mirror: mirror,
		logg:   logg,
	}, nil
}

// AssignmentDTO is the transport shape for a role assignment.
type AssignmentDTO struct {
	UserID uuid.UUID  `json:"user_id"`
	Role   enums.Role `json:"role"`
}

// Assign performs the one-time role selection. The insert is
// insert-if-absent at the storage layer, and the read-back afterwards is
// the single source of truth: whichever role the row holds wins.
// Re-submitting the held role is a no-op success; submitting a different
// role reports the permanent binding.
func (s *service) Assign(ctx context.Context, userID uuid.UUID, role enums.Role) (*AssignmentDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if !role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown role %q", role))
	}

	if err := s.repo.InsertIfAbsent(ctx, userID, role); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert role assignment")
	}

	held, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read back role assignment")
	}

	if held.Role != role {
		msg := fmt.Sprintf("This account is already registered as a %s. Please use another account.", held.Role.Label())
		return nil, pkgerrors.New(pkgerrors.CodeRoleConflict, msg)
	}

	// Mirror into the profile for display. Failures here never fail the
	// assignment: the user_roles row is authoritative.
	if s.mirror != nil {
		if mirrorErr := s.mirror.UpsertRoleHint(ctx, userID, role, ""); mirrorErr != nil && s.logg != nil {
			s.logg.Warn(s.logg.WithUserID(ctx, userID.String()), "role hint mirror failed: "+mirrorErr.Error())
		}
	}

	return &AssignmentDTO{UserID: held.UserID, Role: held.Role}, nil
}

// Get returns the role assignment for the user, or NotFound when the
// user has not selected one yet.
func (s *service) Get(ctx context.Context, userID uuid.UUID) (*AssignmentDTO, error) {
	held, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no role selected")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load role assignment")
	}
	return &AssignmentDTO{UserID: held.UserID, Role: held.Role}, nil
}
