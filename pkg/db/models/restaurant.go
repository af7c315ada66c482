package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/feastlyhq/feastly-backend/pkg/types"
)

// Restaurant represents an owner's storefront. Each owner has at most
// one restaurant, enforced by the unique index on owner_id.
type Restaurant struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID       uuid.UUID           `gorm:"column:owner_id;type:uuid;not null;uniqueIndex"`
	Name          string              `gorm:"column:name;not null"`
	UniqueKey     string              `gorm:"column:unique_key;not null;uniqueIndex"`
	Description   *string             `gorm:"column:description"`
	Phone         *string             `gorm:"column:phone"`
	Address       string              `gorm:"column:address;not null"`
	City          string              `gorm:"column:city;not null"`
	Lat           *float64            `gorm:"column:lat;type:numeric(9,6)"`
	Lng           *float64            `gorm:"column:lng;type:numeric(9,6)"`
	CuisineTags   pq.StringArray      `gorm:"column:cuisine_tags;type:text[]"`
	Images        pq.StringArray      `gorm:"column:images;type:text[]"`
	BannerURL     *string             `gorm:"column:banner_url"`
	BusinessHours types.BusinessHours `gorm:"column:business_hours;type:jsonb;serializer:json"`
	Rating        *float64            `gorm:"column:rating;type:numeric(3,2)"`
	DeliveryTime  int                 `gorm:"column:delivery_time_mins;not null;default:30"`
	IsOpen        bool                `gorm:"column:is_open;not null;default:true"`
	Sections      []MenuSection       `gorm:"foreignKey:RestaurantID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
