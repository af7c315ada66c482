package addresses

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/feastlyhq/feastly-backend/pkg/db/models"
	pkgerrors "github.com/feastlyhq/feastly-backend/pkg/errors"
)

type addressRepository interface {
	Create(ctx context.Context, address *models.CustomerAddress) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.CustomerAddress, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]models.CustomerAddress, error)
	Update(ctx context.Context, address *models.CustomerAddress) error
	Delete(ctx context.Context, id uuid.UUID) error
	ClearDefault(ctx context.Context, userID uuid.UUID) error
}

// AddressDTO exposes a saved delivery address.
type AddressDTO struct {
	ID        uuid.UUID `json:"id"`
	Label     string    `json:"label"`
	Line1     string    `json:"line1"`
	Line2     *string   `json:"line2,omitempty"`
	City      string    `json:"city"`
	Pincode   string    `json:"pincode"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateAddressInput holds creation-time data.
type CreateAddressInput struct {
	Label     string  `json:"label" validate:"required"`
	Line1     string  `json:"line1" validate:"required"`
	Line2     *string `json:"line2"`
	City      string  `json:"city" validate:"required"`
	Pincode   string  `json:"pincode" validate:"required"`
	IsDefault bool    `json:"is_default"`
}

// UpdateAddressInput captures the mutable address fields.
type UpdateAddressInput struct {
	Label     *string `json:"label"`
	Line1     *string `json:"line1"`
	Line2     *string `json:"line2"`
	City      *string `json:"city"`
	Pincode   *string `json:"pincode"`
	IsDefault *bool   `json:"is_default"`
}

// Service exposes saved address management. At most one address per user is
// the default.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateAddressInput) (*AddressDTO, error)
	List(ctx context.Context, userID uuid.UUID) ([]AddressDTO, error)
	Update(ctx context.Context, userID, addressID uuid.UUID, input UpdateAddressInput) (*AddressDTO, error)
	Delete(ctx context.Context, userID, addressID uuid.UUID) error
}

type service struct {
	repo addressRepository
}

// NewService builds an address service.
func NewService(repo addressRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("address repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, input CreateAddressInput) (*AddressDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	label := strings.TrimSpace(input.Label)
	line1 := strings.TrimSpace(input.Line1)
	city := strings.TrimSpace(input.City)
	pincode := strings.TrimSpace(input.Pincode)
	if label == "" || line1 == "" || city == "" || pincode == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "label, line1, city and pincode are required")
	}

	existing, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list addresses")
	}
	makeDefault := input.IsDefault || len(existing) == 0
	if makeDefault && len(existing) > 0 {
		if err := s.repo.ClearDefault(ctx, userID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear default address")
		}
	}

	address := &models.CustomerAddress{
		UserID:    userID,
		Label:     label,
		Line1:     line1,
		Line2:     input.Line2,
		City:      city,
		Pincode:   pincode,
		IsDefault: makeDefault,
	}
	if err := s.repo.Create(ctx, address); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create address")
	}
	return fromModel(address), nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]AddressDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	rows, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list addresses")
	}
	dtos := make([]AddressDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *fromModel(&rows[i]))
	}
	return dtos, nil
}

func (s *service) Update(ctx context.Context, userID, addressID uuid.UUID, input UpdateAddressInput) (*AddressDTO, error) {
	address, err := s.owned(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}

	if input.Label != nil {
		label := strings.TrimSpace(*input.Label)
		if label == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "label cannot be empty")
		}
		address.Label = label
	}
	if input.Line1 != nil {
		line1 := strings.TrimSpace(*input.Line1)
		if line1 == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line1 cannot be empty")
		}
		address.Line1 = line1
	}
	if input.Line2 != nil {
		cpy := *input.Line2
		address.Line2 = &cpy
	}
	if input.City != nil {
		address.City = strings.TrimSpace(*input.City)
	}
	if input.Pincode != nil {
		address.Pincode = strings.TrimSpace(*input.Pincode)
	}
	if input.IsDefault != nil && *input.IsDefault && !address.IsDefault {
		if err := s.repo.ClearDefault(ctx, userID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear default address")
		}
		address.IsDefault = true
	}

	if err := s.repo.Update(ctx, address); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update address")
	}
	return fromModel(address), nil
}

func (s *service) Delete(ctx context.Context, userID, addressID uuid.UUID) error {
	if _, err := s.owned(ctx, userID, addressID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, addressID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete address")
	}
	return nil
}

func (s *service) owned(ctx context.Context, userID, addressID uuid.UUID) (*models.CustomerAddress, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	address, err := s.repo.FindByID(ctx, addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load address")
	}
	if address.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "address belongs to another user")
	}
	return address, nil
}

func fromModel(m *models.CustomerAddress) *AddressDTO {
	return &AddressDTO{
		ID:        m.ID,
		Label:     m.Label,
		Line1:     m.Line1,
		Line2:     m.Line2,
		City:      m.City,
		Pincode:   m.Pincode,
		IsDefault: m.IsDefault,
		CreatedAt: m.CreatedAt,
	}
}
