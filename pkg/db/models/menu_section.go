package models

import (
	"time"

	"github.com/google/uuid"
)

// MenuSection groups menu items under a named heading.
type MenuSection struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RestaurantID uuid.UUID  `gorm:"column:restaurant_id;type:uuid;not null;index"`
	Name         string     `gorm:"column:name;not null"`
	Position     int        `gorm:"column:position;not null;default:0"`
	Items        []MenuItem `gorm:"foreignKey:SectionID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
