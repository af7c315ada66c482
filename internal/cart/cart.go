package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart is the per-user cart snapshot persisted as JSON in redis. All items
// belong to a single restaurant.
type Cart struct {
	RestaurantID uuid.UUID  `json:"restaurant_id"`
	Items        []CartItem `json:"items"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// CartItem is one menu item line with its price snapshot at add time.
type CartItem struct {
	MenuItemID uuid.UUID       `json:"menu_item_id"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   int             `json:"quantity"`
	ImageURL   *string         `json:"image_url,omitempty"`
}

// Total sums price times quantity across all lines.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// ItemCount sums the quantities across all lines.
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

func (c *Cart) find(menuItemID uuid.UUID) *CartItem {
	for i := range c.Items {
		if c.Items[i].MenuItemID == menuItemID {
			return &c.Items[i]
		}
	}
	return nil
}

func (c *Cart) remove(menuItemID uuid.UUID) {
	kept := c.Items[:0]
	for _, item := range c.Items {
		if item.MenuItemID != menuItemID {
			kept = append(kept, item)
		}
	}
	c.Items = kept
}

// CartDTO is the API shape of a cart, totals included.
type CartDTO struct {
	RestaurantID uuid.UUID       `json:"restaurant_id"`
	Items        []CartItem      `json:"items"`
	Total        decimal.Decimal `json:"total"`
	ItemCount    int             `json:"item_count"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func toDTO(c *Cart) *CartDTO {
	if c == nil {
		return &CartDTO{Items: []CartItem{}, Total: decimal.Zero}
	}
	items := append([]CartItem(nil), c.Items...)
	if items == nil {
		items = []CartItem{}
	}
	return &CartDTO{
		RestaurantID: c.RestaurantID,
		Items:        items,
		Total:        c.Total(),
		ItemCount:    c.ItemCount(),
		UpdatedAt:    c.UpdatedAt,
	}
}
