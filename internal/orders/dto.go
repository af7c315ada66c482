package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/feastlyhq/feastly-backend/pkg/db/models"
	"github.com/feastlyhq/feastly-backend/pkg/enums"
)

// OrderDTO exposes an order with its lines and optional payment.
type OrderDTO struct {
	ID                   uuid.UUID         `json:"id"`
	CustomerID           uuid.UUID         `json:"customer_id"`
	RestaurantID         uuid.UUID         `json:"restaurant_id"`
	Status               enums.OrderStatus `json:"status"`
	Subtotal             decimal.Decimal   `json:"subtotal"`
	DeliveryFee          decimal.Decimal   `json:"delivery_fee"`
	Total                decimal.Decimal   `json:"total"`
	DeliveryAddress      string            `json:"delivery_address"`
	DeliveryInstructions *string           `json:"delivery_instructions,omitempty"`
	Items                []OrderItemDTO    `json:"items"`
	Payment              *PaymentDTO       `json:"payment,omitempty"`
	DeliveredAt          *time.Time        `json:"delivered_at,omitempty"`
	CancelledAt          *time.Time        `json:"cancelled_at,omitempty"`
	CreatedAt            time.Time         `json:"created_at"`
	UpdatedAt            time.Time         `json:"updated_at"`
}

// OrderItemDTO is one priced line of an order.
type OrderItemDTO struct {
	ID                  uuid.UUID       `json:"id"`
	MenuItemID          *uuid.UUID      `json:"menu_item_id,omitempty"`
	Name                string          `json:"name"`
	UnitPrice           decimal.Decimal `json:"unit_price"`
	Quantity            int             `json:"quantity"`
	LineTotal           decimal.Decimal `json:"line_total"`
	SpecialInstructions *string         `json:"special_instructions,omitempty"`
}

// PaymentDTO exposes the payment attached to an order.
type PaymentDTO struct {
	ID            uuid.UUID           `json:"id"`
	Method        enums.PaymentMethod `json:"method"`
	Status        enums.PaymentStatus `json:"status"`
	Amount        decimal.Decimal     `json:"amount"`
	TransactionID *string             `json:"transaction_id,omitempty"`
	CompletedAt   *time.Time          `json:"completed_at,omitempty"`
}

// CreateOrderInput carries the checkout payload. Line prices are looked up
// server-side; the client only points at cart contents.
type CreateOrderInput struct {
	DeliveryAddress      string              `json:"delivery_address" validate:"required"`
	DeliveryInstructions *string             `json:"delivery_instructions"`
	PaymentMethod        enums.PaymentMethod `json:"payment_method"`
}

// FromModel maps the persisted order into a DTO.
func FromModel(m *models.Order) *OrderDTO {
	if m == nil {
		return nil
	}
	dto := &OrderDTO{
		ID:                   m.ID,
		CustomerID:           m.CustomerID,
		RestaurantID:         m.RestaurantID,
		Status:               m.Status,
		Subtotal:             m.Subtotal,
		DeliveryFee:          m.DeliveryFee,
		Total:                m.Total,
		DeliveryAddress:      m.DeliveryAddress,
		DeliveryInstructions: m.DeliveryInstructions,
		Items:                make([]OrderItemDTO, 0, len(m.Items)),
		DeliveredAt:          m.DeliveredAt,
		CancelledAt:          m.CancelledAt,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
	for i := range m.Items {
		item := &m.Items[i]
		dto.Items = append(dto.Items, OrderItemDTO{
			ID:                  item.ID,
			MenuItemID:          item.MenuItemID,
			Name:                item.Name,
			UnitPrice:           item.UnitPrice,
			Quantity:            item.Quantity,
			LineTotal:           item.LineTotal,
			SpecialInstructions: item.SpecialInstructions,
		})
	}
	if m.Payment != nil {
		dto.Payment = &PaymentDTO{
			ID:            m.Payment.ID,
			Method:        m.Payment.Method,
			Status:        m.Payment.Status,
			Amount:        m.Payment.Amount,
			TransactionID: m.Payment.TransactionID,
			CompletedAt:   m.Payment.CompletedAt,
		}
	}
	return dto
}
