package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/feastlyhq/feastly-backend/pkg/enums"
)

// Order represents a placed customer order. Total is computed at
// creation and never rewritten; status is the only mutable field.
type Order struct {
	ID                   uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID           uuid.UUID         `gorm:"column:customer_id;type:uuid;not null;index"`
	RestaurantID         uuid.UUID         `gorm:"column:restaurant_id;type:uuid;not null;index"`
	Status               enums.OrderStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	Subtotal             decimal.Decimal   `gorm:"column:subtotal;type:numeric(10,2);not null"`
	DeliveryFee          decimal.Decimal   `gorm:"column:delivery_fee;type:numeric(10,2);not null;default:0"`
	Total                decimal.Decimal   `gorm:"column:total;type:numeric(10,2);not null"`
	DeliveryAddress      string            `gorm:"column:delivery_address;not null"`
	DeliveryInstructions *string           `gorm:"column:delivery_instructions"`
	DeliveredAt          *time.Time        `gorm:"column:delivered_at"`
	CancelledAt          *time.Time        `gorm:"column:cancelled_at"`
	Items                []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Payment              *Payment          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt            time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
