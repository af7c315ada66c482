package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/feastlyhq/feastly-backend/internal/profiles"
	"github.com/feastlyhq/feastly-backend/internal/users"
	"github.com/feastlyhq/feastly-backend/pkg/config"
	"github.com/feastlyhq/feastly-backend/pkg/db"
	"github.com/feastlyhq/feastly-backend/pkg/db/models"
	pkgerrors "github.com/feastlyhq/feastly-backend/pkg/errors"
	"github.com/feastlyhq/feastly-backend/pkg/security"
	"gorm.io/gorm"
)

// RegisterService handles the signup transaction.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
}

// RegisterServiceParams packages the dependencies for the signup flow.
type RegisterServiceParams struct {
	DB             *db.Client
	Login          Service
	PasswordConfig config.PasswordConfig
}

type registerService struct {
	db          *db.Client
	login       Service
	passwordCfg config.PasswordConfig
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client required")
	}
	if params.Login == nil {
		return nil, fmt.Errorf("login service required")
	}
	return &registerService{
		db:          params.DB,
		login:       params.Login,
		passwordCfg: params.PasswordConfig,
	}, nil
}

// Register creates the user and profile in one transaction, then signs
// the new account in so the client receives a token pair immediately.
// The role assignment is deliberately NOT created here: role selection
// is a separate explicit step.
func (s *registerService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := users.NewRepository(tx)
		profileRepo := profiles.NewRepository(tx)

		if _, err := userRepo.FindByEmail(ctx, email); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
		}

		user, err := userRepo.Create(ctx, users.CreateUserDTO{
			Email:        email,
			PasswordHash: passwordHash,
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			Phone:        req.Phone,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}

		profile := &models.Profile{
			UserID:      user.ID,
			DisplayName: strings.TrimSpace(req.FirstName + " " + req.LastName),
		}
		if err := profileRepo.CreateWithTx(tx, profile); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create profile")
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.login.Login(ctx, LoginRequest{Email: email, Password: req.Password})
}
