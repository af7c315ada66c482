package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/feastlyhq/feastly-backend/pkg/enums"
)

// UserRole binds a user to exactly one role. The unique index on
// user_id is what makes role assignment first-write-wins.
type UserRole struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID  `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	Role      enums.Role `gorm:"column:role;type:text;not null"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
