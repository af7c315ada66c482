package roles

import (
	"context"

	"github.com/feastlyhq/feastly-backend/pkg/db/models"
	"github.com/feastlyhq/feastly-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository exposes role-assignment persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a roles repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// InsertIfAbsent attempts the one-time role insert. The unique index on
// user_id plus ON CONFLICT DO NOTHING makes the write atomic, so two
// racing first-time selections never both win. Callers must read back
// to learn which role actually holds.
func (r *Repository) InsertIfAbsent(ctx context.Context, userID uuid.UUID, role enums.Role) error {
	assignment := models.UserRole{
		UserID: userID,
		Role:   role,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&assignment).Error
}

// FindByUserID loads the role assignment for the given user.
func (r *Repository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.UserRole, error) {
	var assignment models.UserRole
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&assignment).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}
