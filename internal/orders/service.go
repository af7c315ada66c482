package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/feastlyhq/feastly-backend/internal/cart"
	"github.com/feastlyhq/feastly-backend/pkg/config"
	"github.com/feastlyhq/feastly-backend/pkg/db/models"
	"github.com/feastlyhq/feastly-backend/pkg/enums"
	pkgerrors "github.com/feastlyhq/feastly-backend/pkg/errors"
	"github.com/feastlyhq/feastly-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartSource interface {
	Snapshot(ctx context.Context, userID uuid.UUID) (*cart.Cart, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

type restaurantLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error)
}

// Service exposes the order lifecycle.
type Service interface {
	Create(ctx context.Context, customerID uuid.UUID, input CreateOrderInput) (*OrderDTO, error)
	CustomerOrders(ctx context.Context, customerID uuid.UUID) ([]OrderDTO, error)
	CustomerOrderByID(ctx context.Context, customerID, orderID uuid.UUID) (*OrderDTO, error)
	RestaurantOrders(ctx context.Context, restaurantID uuid.UUID) ([]OrderDTO, error)
	RestaurantOrderByID(ctx context.Context, restaurantID, orderID uuid.UUID) (*OrderDTO, error)
	UpdateStatus(ctx context.Context, restaurantID, orderID uuid.UUID, status enums.OrderStatus) (*OrderDTO, error)
	Cancel(ctx context.Context, customerID, orderID uuid.UUID) (*OrderDTO, error)
	UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, status enums.PaymentStatus, transactionID *string) (*OrderDTO, error)
	Stats(ctx context.Context, restaurantID uuid.UUID) (*OrderStats, error)
	DailyRevenue(ctx context.Context, restaurantID uuid.UUID, days int) ([]RevenuePoint, error)
}

// ServiceParams groups the dependencies for NewService.
type ServiceParams struct {
	Repo        Repository
	TX          txRunner
	Cart        cartSource
	Restaurants restaurantLoader
	Orders      config.OrdersConfig
	Logger      *logger.Logger
}

type service struct {
	repo        Repository
	tx          txRunner
	cart        cartSource
	restaurants restaurantLoader
	deliveryFee decimal.Decimal
	logg        *logger.Logger
}

// NewService builds an order service with the provided stack.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.TX == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Cart == nil {
		return nil, fmt.Errorf("cart source required")
	}
	if params.Restaurants == nil {
		return nil, fmt.Errorf("restaurant loader required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	fee := decimal.Zero
	if raw := strings.TrimSpace(params.Orders.DeliveryFee); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil || parsed.IsNegative() {
			return nil, fmt.Errorf("invalid delivery fee %q", raw)
		}
		fee = parsed
	}
	return &service{
		repo:        params.Repo,
		tx:          params.TX,
		cart:        params.Cart,
		restaurants: params.Restaurants,
		deliveryFee: fee,
		logg:        params.Logger,
	}, nil
}

// Create turns the customer's cart into an order. The order and its items are
// written in a single transaction; the pending payment row is inserted after
// commit and its failure is tolerated so the order always survives.
func (s *service) Create(ctx context.Context, customerID uuid.UUID, input CreateOrderInput) (*OrderDTO, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	address := strings.TrimSpace(input.DeliveryAddress)
	if address == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery address is required")
	}
	method := input.PaymentMethod
	if method == "" {
		method = enums.PaymentMethodCOD
	}
	if !method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}

	snapshot, err := s.cart.Snapshot(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if snapshot == nil || len(snapshot.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	restaurant, err := s.restaurants.FindByID(ctx, snapshot.RestaurantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "restaurant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load restaurant")
	}
	if !restaurant.IsOpen {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "restaurant is not accepting orders right now")
	}

	subtotal := snapshot.Total()
	order := &models.Order{
		CustomerID:           customerID,
		RestaurantID:         snapshot.RestaurantID,
		Status:               enums.OrderStatusPending,
		Subtotal:             subtotal,
		DeliveryFee:          s.deliveryFee,
		Total:                subtotal.Add(s.deliveryFee),
		DeliveryAddress:      address,
		DeliveryInstructions: input.DeliveryInstructions,
	}
	for _, line := range snapshot.Items {
		itemID := line.MenuItemID
		order.Items = append(order.Items, models.OrderItem{
			MenuItemID: &itemID,
			Name:       line.Name,
			UnitPrice:  line.UnitPrice,
			Quantity:   line.Quantity,
			LineTotal:  line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))),
		})
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Create(ctx, order)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}

	payment := &models.Payment{
		OrderID: order.ID,
		Method:  method,
		Status:  enums.PaymentStatusPending,
		Amount:  order.Total,
	}
	if err := s.repo.CreatePayment(ctx, payment); err != nil {
		lctx := s.logg.WithField(ctx, "order_id", order.ID.String())
		s.logg.Error(lctx, "payment record insert failed after order commit", err)
	} else {
		order.Payment = payment
	}

	if err := s.cart.Clear(ctx, customerID); err != nil {
		lctx := s.logg.WithUserID(ctx, customerID.String())
		s.logg.Warn(lctx, "cart clear failed after checkout")
	}

	return FromModel(order), nil
}

func (s *service) CustomerOrders(ctx context.Context, customerID uuid.UUID) ([]OrderDTO, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	rows, err := s.repo.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customer orders")
	}
	return toDTOs(rows), nil
}

func (s *service) CustomerOrderByID(ctx context.Context, customerID, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != customerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another customer")
	}
	return FromModel(order), nil
}

func (s *service) RestaurantOrders(ctx context.Context, restaurantID uuid.UUID) ([]OrderDTO, error) {
	rows, err := s.repo.FindByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list restaurant orders")
	}
	return toDTOs(rows), nil
}

func (s *service) RestaurantOrderByID(ctx context.Context, restaurantID, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.RestaurantID != restaurantID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another restaurant")
	}
	return FromModel(order), nil
}

// UpdateStatus moves an order through its lifecycle. Once an order reaches
// delivered or cancelled no further update is accepted; repeating the current
// status is a no-op success.
func (s *service) UpdateStatus(ctx context.Context, restaurantID, orderID uuid.UUID, status enums.OrderStatus) (*OrderDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order.RestaurantID != restaurantID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another restaurant")
		}
		if order.Status == status {
			updated = order
			return nil
		}
		if order.Status.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("order is already %s and cannot change status", order.Status))
		}

		updates := map[string]any{"status": status}
		now := time.Now().UTC()
		switch status {
		case enums.OrderStatusDelivered:
			updates["delivered_at"] = now
			order.DeliveredAt = &now
		case enums.OrderStatusCancelled:
			updates["cancelled_at"] = now
			order.CancelledAt = &now
		}
		if err := repo.UpdateOrder(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		order.Status = status
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	lctx := s.logg.WithRestaurantID(ctx, restaurantID.String())
	s.logg.Info(s.logg.WithField(lctx, "order_id", updated.ID.String()), "order status updated to "+string(updated.Status))
	return FromModel(updated), nil
}

// Cancel lets the customer abort an order that the restaurant has not picked
// up yet.
func (s *service) Cancel(ctx context.Context, customerID, orderID uuid.UUID) (*OrderDTO, error) {
	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order.CustomerID != customerID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another customer")
		}
		if order.Status == enums.OrderStatusCancelled {
			updated = order
			return nil
		}
		if order.Status != enums.OrderStatusPending {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "only pending orders can be cancelled")
		}

		now := time.Now().UTC()
		updates := map[string]any{"status": enums.OrderStatusCancelled, "cancelled_at": now}
		if err := repo.UpdateOrder(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel order")
		}
		order.Status = enums.OrderStatusCancelled
		order.CancelledAt = &now
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(updated), nil
}

// UpdatePaymentStatus records the settlement outcome reported for an order.
func (s *service) UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, status enums.PaymentStatus, transactionID *string) (*OrderDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment status")
	}
	payment, err := s.repo.FindPaymentByOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payment")
	}

	updates := map[string]any{"status": status}
	if transactionID != nil {
		updates["transaction_id"] = *transactionID
	}
	if status == enums.PaymentStatusCompleted {
		updates["completed_at"] = time.Now().UTC()
	}
	if err := s.repo.UpdatePayment(ctx, payment.ID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update payment")
	}
	return s.load(ctx, orderID)
}

func (s *service) Stats(ctx context.Context, restaurantID uuid.UUID) (*OrderStats, error) {
	rows, err := s.repo.FindByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list restaurant orders")
	}
	stats := ComputeStats(rows)
	return &stats, nil
}

func (s *service) DailyRevenue(ctx context.Context, restaurantID uuid.UUID, days int) ([]RevenuePoint, error) {
	if days <= 0 {
		days = 30
	}
	since := time.Now().UTC().AddDate(0, 0, -days)
	rows, err := s.repo.FindByRestaurantSince(ctx, restaurantID, since)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list restaurant orders")
	}
	return ComputeDailyRevenue(rows), nil
}

func (s *service) load(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return FromModel(order), nil
}

func (s *service) loadOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func toDTOs(rows []models.Order) []OrderDTO {
	dtos := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return dtos
}
