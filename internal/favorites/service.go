package favorites

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/feastlyhq/feastly-backend/internal/restaurants"
	"github.com/feastlyhq/feastly-backend/pkg/db/models"
	pkgerrors "github.com/feastlyhq/feastly-backend/pkg/errors"
)

type favoritesRepository interface {
	AddRestaurant(ctx context.Context, userID, restaurantID uuid.UUID) error
	RemoveRestaurant(ctx context.Context, userID, restaurantID uuid.UUID) error
	ListRestaurants(ctx context.Context, userID uuid.UUID) ([]models.Restaurant, error)
	AddMenuItem(ctx context.Context, userID, menuItemID uuid.UUID) error
	RemoveMenuItem(ctx context.Context, userID, menuItemID uuid.UUID) error
	ListMenuItems(ctx context.Context, userID uuid.UUID) ([]models.MenuItem, error)
}

type restaurantLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error)
	FindItemByID(ctx context.Context, id uuid.UUID) (*models.MenuItem, error)
}

// Service exposes customer bookmarks.
type Service interface {
	AddRestaurant(ctx context.Context, userID, restaurantID uuid.UUID) error
	RemoveRestaurant(ctx context.Context, userID, restaurantID uuid.UUID) error
	Restaurants(ctx context.Context, userID uuid.UUID) ([]restaurants.RestaurantDTO, error)
	AddMenuItem(ctx context.Context, userID, menuItemID uuid.UUID) error
	RemoveMenuItem(ctx context.Context, userID, menuItemID uuid.UUID) error
	MenuItems(ctx context.Context, userID uuid.UUID) ([]restaurants.MenuItemDTO, error)
}

type service struct {
	repo    favoritesRepository
	catalog restaurantLookup
}

// NewService builds a favorites service.
func NewService(repo favoritesRepository, catalog restaurantLookup) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("favorites repository required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("restaurant lookup required")
	}
	return &service{repo: repo, catalog: catalog}, nil
}

func (s *service) AddRestaurant(ctx context.Context, userID, restaurantID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if _, err := s.catalog.FindByID(ctx, restaurantID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "restaurant not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load restaurant")
	}
	if err := s.repo.AddRestaurant(ctx, userID, restaurantID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add favorite restaurant")
	}
	return nil
}

func (s *service) RemoveRestaurant(ctx context.Context, userID, restaurantID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if err := s.repo.RemoveRestaurant(ctx, userID, restaurantID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove favorite restaurant")
	}
	return nil
}

func (s *service) Restaurants(ctx context.Context, userID uuid.UUID) ([]restaurants.RestaurantDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	rows, err := s.repo.ListRestaurants(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list favorite restaurants")
	}
	dtos := make([]restaurants.RestaurantDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *restaurants.FromModel(&rows[i]))
	}
	return dtos, nil
}

func (s *service) AddMenuItem(ctx context.Context, userID, menuItemID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if _, err := s.catalog.FindItemByID(ctx, menuItemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "menu item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load menu item")
	}
	if err := s.repo.AddMenuItem(ctx, userID, menuItemID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add favorite menu item")
	}
	return nil
}

func (s *service) RemoveMenuItem(ctx context.Context, userID, menuItemID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if err := s.repo.RemoveMenuItem(ctx, userID, menuItemID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove favorite menu item")
	}
	return nil
}

func (s *service) MenuItems(ctx context.Context, userID uuid.UUID) ([]restaurants.MenuItemDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	rows, err := s.repo.ListMenuItems(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list favorite menu items")
	}
	dtos := make([]restaurants.MenuItemDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, restaurants.ItemFromModel(&rows[i]))
	}
	return dtos, nil
}
