package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/feastlyhq/feastly-backend/pkg/enums"
)

// Profile holds display attributes for a user. RoleHint mirrors the
// user's assigned role for client convenience and is never consulted
// for authorization.
type Profile struct {
	ID          uuid.UUID   `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID   `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	DisplayName string      `gorm:"column:display_name;not null"`
	AvatarURL   *string     `gorm:"column:avatar_url"`
	RoleHint    *enums.Role `gorm:"column:role_hint;type:text"`
	CreatedAt   time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}
