package favorites

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/feastlyhq/feastly-backend/pkg/db/models"
)

// Repository handles favorite persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to favorite operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// AddRestaurant bookmarks the restaurant; re-adding is a no-op.
func (r *Repository) AddRestaurant(ctx context.Context, userID, restaurantID uuid.UUID) error {
	fav := models.FavoriteRestaurant{UserID: userID, RestaurantID: restaurantID}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "restaurant_id"}},
			DoNothing: true,
		}).
		Create(&fav).Error
}

// RemoveRestaurant deletes the bookmark if present.
func (r *Repository) RemoveRestaurant(ctx context.Context, userID, restaurantID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND restaurant_id = ?", userID, restaurantID).
		Delete(&models.FavoriteRestaurant{}).Error
}

// ListRestaurants returns the restaurants the user bookmarked, newest first.
func (r *Repository) ListRestaurants(ctx context.Context, userID uuid.UUID) ([]models.Restaurant, error) {
	var restaurants []models.Restaurant
	err := r.db.WithContext(ctx).
		Joins("JOIN favorite_restaurants f ON f.restaurant_id = restaurants.id").
		Where("f.user_id = ?", userID).
		Order("f.created_at DESC").
		Find(&restaurants).Error
	if err != nil {
		return nil, err
	}
	return restaurants, nil
}

// AddMenuItem bookmarks the dish; re-adding is a no-op.
func (r *Repository) AddMenuItem(ctx context.Context, userID, menuItemID uuid.UUID) error {
	fav := models.FavoriteMenuItem{UserID: userID, MenuItemID: menuItemID}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "menu_item_id"}},
			DoNothing: true,
		}).
		Create(&fav).Error
}

// RemoveMenuItem deletes the bookmark if present.
func (r *Repository) RemoveMenuItem(ctx context.Context, userID, menuItemID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND menu_item_id = ?", userID, menuItemID).
		Delete(&models.FavoriteMenuItem{}).Error
}

// ListMenuItems returns the dishes the user bookmarked, newest first.
func (r *Repository) ListMenuItems(ctx context.Context, userID uuid.UUID) ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := r.db.WithContext(ctx).
		Joins("JOIN favorite_menu_items f ON f.menu_item_id = menu_items.id").
		Where("f.user_id = ?", userID).
		Order("f.created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
