package models

import (
	"time"

	"github.com/google/uuid"
)

// FavoriteRestaurant bookmarks a restaurant for a customer.
type FavoriteRestaurant struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID       uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_fav_restaurant"`
	RestaurantID uuid.UUID `gorm:"column:restaurant_id;type:uuid;not null;uniqueIndex:idx_fav_restaurant"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

// FavoriteMenuItem bookmarks a dish for a customer.
type FavoriteMenuItem struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_fav_menu_item"`
	MenuItemID uuid.UUID `gorm:"column:menu_item_id;type:uuid;not null;uniqueIndex:idx_fav_menu_item"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
