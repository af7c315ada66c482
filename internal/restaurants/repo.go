package restaurants

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/feastlyhq/feastly-backend/pkg/db/models"
)

// Repository handles restaurant and menu persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to restaurant operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new restaurant row.
func (r *Repository) Create(ctx context.Context, restaurant *models.Restaurant) error {
	if restaurant == nil {
		return fmt.Errorf("restaurant is required")
	}
	return r.db.WithContext(ctx).Create(restaurant).Error
}

// FindByID loads a restaurant by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&restaurant).Error; err != nil {
		return nil, err
	}
	return &restaurant, nil
}

// FindByKey loads a restaurant by its public unique key.
func (r *Repository) FindByKey(ctx context.Context, key string) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := r.db.WithContext(ctx).Where("unique_key = ?", key).First(&restaurant).Error; err != nil {
		return nil, err
	}
	return &restaurant, nil
}

// FindByOwner returns the restaurant owned by the provided user, if any.
func (r *Repository) FindByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&restaurant).Error; err != nil {
		return nil, err
	}
	return &restaurant, nil
}

// List returns restaurants ordered by name. A non-empty search term
// filters by case-insensitive name match.
func (r *Repository) List(ctx context.Context, search string, limit, offset int) ([]models.Restaurant, error) {
	var restaurants []models.Restaurant
	query := r.db.WithContext(ctx).Order("name asc")
	if search != "" {
		query = query.Where("lower(name) LIKE lower(?)", "%"+search+"%")
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&restaurants).Error; err != nil {
		return nil, err
	}
	return restaurants, nil
}

// Update saves the provided restaurant.
func (r *Repository) Update(ctx context.Context, restaurant *models.Restaurant) error {
	if restaurant == nil {
		return fmt.Errorf("restaurant is required")
	}
	return r.db.WithContext(ctx).Save(restaurant).Error
}

// CreateSection persists a new menu section.
func (r *Repository) CreateSection(ctx context.Context, section *models.MenuSection) error {
	if section == nil {
		return fmt.Errorf("section is required")
	}
	return r.db.WithContext(ctx).Create(section).Error
}

// FindSectionByID loads a menu section by id.
func (r *Repository) FindSectionByID(ctx context.Context, id uuid.UUID) (*models.MenuSection, error) {
	var section models.MenuSection
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&section).Error; err != nil {
		return nil, err
	}
	return &section, nil
}

// ListSections returns a restaurant's sections with their items, both ordered
// by position.
func (r *Repository) ListSections(ctx context.Context, restaurantID uuid.UUID) ([]models.MenuSection, error) {
	var sections []models.MenuSection
	if err := r.db.WithContext(ctx).
		Preload("Items", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("position asc, created_at asc")
		}).
		Where("restaurant_id = ?", restaurantID).
		Order("position asc, created_at asc").
		Find(&sections).Error; err != nil {
		return nil, err
	}
	return sections, nil
}

// UpdateSection saves the provided section.
func (r *Repository) UpdateSection(ctx context.Context, section *models.MenuSection) error {
	if section == nil {
		return fmt.Errorf("section is required")
	}
	return r.db.WithContext(ctx).Save(section).Error
}

// DeleteSection removes a section and cascades to its items.
func (r *Repository) DeleteSection(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.MenuSection{}).Error
}

// CreateItem persists a new menu item.
func (r *Repository) CreateItem(ctx context.Context, item *models.MenuItem) error {
	if item == nil {
		return fmt.Errorf("item is required")
	}
	return r.db.WithContext(ctx).Create(item).Error
}

// FindItemByID loads a menu item by id.
func (r *Repository) FindItemByID(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// FindItemsByIDs loads the menu items matching the provided ids.
func (r *Repository) FindItemsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.MenuItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var items []models.MenuItem
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateItem saves the provided item.
func (r *Repository) UpdateItem(ctx context.Context, item *models.MenuItem) error {
	if item == nil {
		return fmt.Errorf("item is required")
	}
	return r.db.WithContext(ctx).Save(item).Error
}

// DeleteItem removes a menu item.
func (r *Repository) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.MenuItem{}).Error
}
