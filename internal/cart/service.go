package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/feastlyhq/feastly-backend/pkg/db/models"
	pkgerrors "github.com/feastlyhq/feastly-backend/pkg/errors"
)

// cartTTL keeps abandoned carts around long enough to resume a session.
const cartTTL = 30 * 24 * time.Hour

type cartStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	CartKey(userID string) string
}

type menuItemLoader interface {
	FindItemByID(ctx context.Context, id uuid.UUID) (*models.MenuItem, error)
}

// Service exposes the per-user cart operations.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
	AddItem(ctx context.Context, userID, menuItemID uuid.UUID, quantity int) (*CartDTO, error)
	UpdateQuantity(ctx context.Context, userID, menuItemID uuid.UUID, quantity int) (*CartDTO, error)
	RemoveItem(ctx context.Context, userID, menuItemID uuid.UUID) (*CartDTO, error)
	Clear(ctx context.Context, userID uuid.UUID) error
	Snapshot(ctx context.Context, userID uuid.UUID) (*Cart, error)
}

type service struct {
	store cartStore
	items menuItemLoader
}

// NewService builds a cart service backed by redis and the menu catalog.
func NewService(store cartStore, items menuItemLoader) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if items == nil {
		return nil, fmt.Errorf("menu item loader required")
	}
	return &service{store: store, items: items}, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	cart, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toDTO(cart), nil
}

// Snapshot returns the raw cart, or nil when none exists. Used by checkout.
func (s *service) Snapshot(ctx context.Context, userID uuid.UUID) (*Cart, error) {
	return s.load(ctx, userID)
}

// AddItem puts a menu item into the cart. Adding from a different restaurant
// replaces the whole cart; adding an item already present increments its
// quantity.
func (s *service) AddItem(ctx context.Context, userID, menuItemID uuid.UUID, quantity int) (*CartDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if quantity <= 0 {
		quantity = 1
	}

	item, err := s.items.FindItemByID(ctx, menuItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "menu item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load menu item")
	}
	if !item.IsAvailable {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "menu item is currently unavailable")
	}

	cart, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil || cart.RestaurantID != item.RestaurantID {
		cart = &Cart{RestaurantID: item.RestaurantID}
	}

	if line := cart.find(menuItemID); line != nil {
		line.Quantity += quantity
	} else {
		cart.Items = append(cart.Items, CartItem{
			MenuItemID: item.ID,
			Name:       item.Name,
			UnitPrice:  item.Price,
			Quantity:   quantity,
			ImageURL:   item.ImageURL,
		})
	}

	if err := s.save(ctx, userID, cart); err != nil {
		return nil, err
	}
	return toDTO(cart), nil
}

// UpdateQuantity sets a line's quantity exactly; zero or below removes the
// line.
func (s *service) UpdateQuantity(ctx context.Context, userID, menuItemID uuid.UUID, quantity int) (*CartDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}

	cart, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil || cart.find(menuItemID) == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item is not in the cart")
	}

	if quantity <= 0 {
		cart.remove(menuItemID)
	} else {
		cart.find(menuItemID).Quantity = quantity
	}

	if len(cart.Items) == 0 {
		if err := s.Clear(ctx, userID); err != nil {
			return nil, err
		}
		return toDTO(nil), nil
	}

	if err := s.save(ctx, userID, cart); err != nil {
		return nil, err
	}
	return toDTO(cart), nil
}

func (s *service) RemoveItem(ctx context.Context, userID, menuItemID uuid.UUID) (*CartDTO, error) {
	return s.UpdateQuantity(ctx, userID, menuItemID, 0)
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if err := s.store.Del(ctx, s.store.CartKey(userID.String())); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

func (s *service) load(ctx context.Context, userID uuid.UUID) (*Cart, error) {
	raw, err := s.store.Get(ctx, s.store.CartKey(userID.String()))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	var cart Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode cart")
	}
	return &cart, nil
}

func (s *service) save(ctx context.Context, userID uuid.UUID, cart *Cart) error {
	cart.UpdatedAt = time.Now().UTC()
	raw, err := json.Marshal(cart)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart")
	}
	if err := s.store.Set(ctx, s.store.CartKey(userID.String()), string(raw), cartTTL); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return nil
}
