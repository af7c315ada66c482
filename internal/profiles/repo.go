package profiles

import (
	"context"

	"github.com/feastlyhq/feastly-backend/pkg/db/models"
	"github.com/feastlyhq/feastly-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository exposes profile persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a profiles repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a profile row for the given user.
func (r *Repository) Create(ctx context.Context, profile *models.Profile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

// CreateWithTx inserts a profile using the provided transaction.
func (r *Repository) CreateWithTx(tx *gorm.DB, profile *models.Profile) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	return tx.Create(profile).Error
}

// FindByUserID loads the profile belonging to the given user.
func (r *Repository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// Update saves the provided profile.
func (r *Repository) Update(ctx context.Context, profile *models.Profile) error {
	if profile == nil {
		return gorm.ErrInvalidValue
	}
	return r.db.WithContext(ctx).Save(profile).Error
}

// UpsertRoleHint mirrors the assigned role onto the profile, creating the
// row when missing. The hint is display metadata only.
func (r *Repository) UpsertRoleHint(ctx context.Context, userID uuid.UUID, role enums.Role, displayName string) error {
	profile := models.Profile{
		UserID:      userID,
		DisplayName: displayName,
		RoleHint:    &role,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]any{"role_hint": role.String()}),
		}).
		Create(&profile).Error
}
