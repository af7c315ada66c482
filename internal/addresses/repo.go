package addresses

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/feastlyhq/feastly-backend/pkg/db/models"
)

// Repository handles saved address persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to address operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new address row.
func (r *Repository) Create(ctx context.Context, address *models.CustomerAddress) error {
	return r.db.WithContext(ctx).Create(address).Error
}

// FindByID loads an address by id.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.CustomerAddress, error) {
	var address models.CustomerAddress
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&address).Error; err != nil {
		return nil, err
	}
	return &address, nil
}

// FindByUser returns the user's addresses, default first.
func (r *Repository) FindByUser(ctx context.Context, userID uuid.UUID) ([]models.CustomerAddress, error) {
	var addresses []models.CustomerAddress
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC, created_at ASC").
		Find(&addresses).Error
	if err != nil {
		return nil, err
	}
	return addresses, nil
}

// Update saves the provided address.
func (r *Repository) Update(ctx context.Context, address *models.CustomerAddress) error {
	return r.db.WithContext(ctx).Save(address).Error
}

// Delete removes an address row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.CustomerAddress{}).Error
}

// ClearDefault unsets the default flag on every address of the user.
func (r *Repository) ClearDefault(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.CustomerAddress{}).
		Where("user_id = ? AND is_default", userID).
		Update("is_default", false).Error
}
