package orders

import (
	"context"
	"errors"
	"io"
	"testing"
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

func TestCreateComputesTotalsServerSide(t *testing.T) {
	fix := newFixture(t)
	customerID := uuid.New()
	fix.carts.carts[customerID] = &cart.Cart{
		RestaurantID: fix.restaurant.ID,
		Items: []cart.CartItem{
			{MenuItemID: uuid.New(), Name: "Pizza", UnitPrice: decimal.RequireFromString("450"), Quantity: 2},
			{MenuItemID: uuid.New(), Name: "Garlic Bread", UnitPrice: decimal.RequireFromString("120"), Quantity: 1},
		},
	}

	dto, err := fix.svc.Create(context.Background(), customerID, CreateOrderInput{
		DeliveryAddress: "221B Baker Street",
		PaymentMethod:   enums.PaymentMethodUPI,
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if !dto.Subtotal.Equal(decimal.RequireFromString("1020")) {
		t.Fatalf("expected subtotal 1020 got %s", dto.Subtotal)
	}
	if !dto.Total.Equal(decimal.RequireFromString("1060")) {
		t.Fatalf("expected total 1060 got %s", dto.Total)
	}
	if dto.Status != enums.OrderStatusPending {
		t.Fatalf("expected pending status, got %s", dto.Status)
	}
	if dto.Payment == nil || dto.Payment.Method != enums.PaymentMethodUPI {
		t.Fatalf("expected upi payment, got %+v", dto.Payment)
	}
	if len(dto.Items) != 2 {
		t.Fatalf("expected 2 lines got %d", len(dto.Items))
	}
	if _, ok := fix.carts.carts[customerID]; ok {
		t.Fatal("expected cart cleared after checkout")
	}
}

func TestCreateZeroFeeTotalEqualsSubtotal(t *testing.T) {
	fix := newFixtureWithOrders(t, config.OrdersConfig{})
	customerID := uuid.New()
	fix.carts.carts[customerID] = &cart.Cart{
		RestaurantID: fix.restaurant.ID,
		Items: []cart.CartItem{
			{MenuItemID: uuid.New(), Name: "Dosa", UnitPrice: decimal.RequireFromString("12.5"), Quantity: 2},
			{MenuItemID: uuid.New(), Name: "Chai", UnitPrice: decimal.RequireFromString("3.0"), Quantity: 1},
		},
	}

	dto, err := fix.svc.Create(context.Background(), customerID, CreateOrderInput{
		DeliveryAddress: "12 Hill Rd",
		PaymentMethod:   enums.PaymentMethodUPI,
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if !dto.DeliveryFee.IsZero() {
		t.Fatalf("expected zero delivery fee got %s", dto.DeliveryFee)
	}
	if !dto.Total.Equal(dto.Subtotal) || !dto.Total.Equal(decimal.RequireFromString("28")) {
		t.Fatalf("expected total 28 matching subtotal, got total %s subtotal %s", dto.Total, dto.Subtotal)
	}
}

func TestCreateEmptyCartRejected(t *testing.T) {
	fix := newFixture(t)
	_, err := fix.svc.Create(context.Background(), uuid.New(), CreateOrderInput{DeliveryAddress: "a"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
}

func TestCreateClosedRestaurantRejected(t *testing.T) {
	fix := newFixture(t)
	fix.restaurant.IsOpen = false
	customerID := uuid.New()
	fix.carts.carts[customerID] = &cart.Cart{
		RestaurantID: fix.restaurant.ID,
		Items:        []cart.CartItem{{MenuItemID: uuid.New(), Name: "X", UnitPrice: decimal.NewFromInt(10), Quantity: 1}},
	}

	_, err := fix.svc.Create(context.Background(), customerID, CreateOrderInput{DeliveryAddress: "a"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict code, got %v", err)
	}
}

func TestCreateToleratesPaymentInsertFailure(t *testing.T) {
	fix := newFixture(t)
	fix.repo.paymentErr = errors.New("payments table on fire")
	customerID := uuid.New()
	fix.carts.carts[customerID] = &cart.Cart{
		RestaurantID: fix.restaurant.ID,
		Items:        []cart.CartItem{{MenuItemID: uuid.New(), Name: "X", UnitPrice: decimal.NewFromInt(10), Quantity: 1}},
	}

	dto, err := fix.svc.Create(context.Background(), customerID, CreateOrderInput{DeliveryAddress: "a"})
	if err != nil {
		t.Fatalf("expected order to survive payment failure, got %v", err)
	}
	if dto.Payment != nil {
		t.Fatal("expected no payment attached when insert fails")
	}
	if len(fix.repo.orders) != 1 {
		t.Fatalf("expected order persisted, got %d", len(fix.repo.orders))
	}
}

func TestCreateTxFailureCreatesNothing(t *testing.T) {
	fix := newFixture(t)
	fix.repo.createErr = errors.New("insert failed")
	customerID := uuid.New()
	fix.carts.carts[customerID] = &cart.Cart{
		RestaurantID: fix.restaurant.ID,
		Items:        []cart.CartItem{{MenuItemID: uuid.New(), Name: "X", UnitPrice: decimal.NewFromInt(10), Quantity: 1}},
	}

	_, err := fix.svc.Create(context.Background(), customerID, CreateOrderInput{DeliveryAddress: "a"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency code, got %v", err)
	}
	if len(fix.repo.payments) != 0 {
		t.Fatal("expected no payment row without an order")
	}
}

func TestUpdateStatusSameStatusIsNoOp(t *testing.T) {
	fix := newFixture(t)
	order := fix.seedOrder(enums.OrderStatusPreparing)

	dto, err := fix.svc.UpdateStatus(context.Background(), order.RestaurantID, order.ID, enums.OrderStatusPreparing)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if dto.Status != enums.OrderStatusPreparing {
		t.Fatalf("expected preparing, got %s", dto.Status)
	}
}

func TestUpdateStatusTerminalRejected(t *testing.T) {
	fix := newFixture(t)
	for _, terminal := range []enums.OrderStatus{enums.OrderStatusDelivered, enums.OrderStatusCancelled} {
		order := fix.seedOrder(terminal)
		_, err := fix.svc.UpdateStatus(context.Background(), order.RestaurantID, order.ID, enums.OrderStatusConfirmed)
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
			t.Fatalf("expected state conflict out of %s, got %v", terminal, err)
		}
	}
}

func TestUpdateStatusSetsDeliveredAt(t *testing.T) {
	fix := newFixture(t)
	order := fix.seedOrder(enums.OrderStatusOutForDelivery)

	dto, err := fix.svc.UpdateStatus(context.Background(), order.RestaurantID, order.ID, enums.OrderStatusDelivered)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if dto.DeliveredAt == nil {
		t.Fatal("expected delivered_at set")
	}
}

func TestUpdateStatusWrongRestaurantForbidden(t *testing.T) {
	fix := newFixture(t)
	order := fix.seedOrder(enums.OrderStatusPending)

	_, err := fix.svc.UpdateStatus(context.Background(), uuid.New(), order.ID, enums.OrderStatusConfirmed)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestCancelPendingOnly(t *testing.T) {
	fix := newFixture(t)
	order := fix.seedOrder(enums.OrderStatusPending)

	dto, err := fix.svc.Cancel(context.Background(), order.CustomerID, order.ID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if dto.Status != enums.OrderStatusCancelled || dto.CancelledAt == nil {
		t.Fatalf("expected cancelled order, got %+v", dto)
	}

	confirmed := fix.seedOrder(enums.OrderStatusConfirmed)
	_, err = fix.svc.Cancel(context.Background(), confirmed.CustomerID, confirmed.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestCancelOtherCustomersOrderForbidden(t *testing.T) {
	fix := newFixture(t)
	order := fix.seedOrder(enums.OrderStatusPending)

	_, err := fix.svc.Cancel(context.Background(), uuid.New(), order.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestUpdatePaymentStatusCompletes(t *testing.T) {
	fix := newFixture(t)
	order := fix.seedOrder(enums.OrderStatusDelivered)
	payment := &models.Payment{
		ID:      uuid.New(),
		OrderID: order.ID,
		Method:  enums.PaymentMethodCard,
		Status:  enums.PaymentStatusPending,
		Amount:  order.Total,
	}
	fix.repo.payments[order.ID] = payment
	order.Payment = payment
	txn := "txn_12345"

	dto, err := fix.svc.UpdatePaymentStatus(context.Background(), order.ID, enums.PaymentStatusCompleted, &txn)
	if err != nil {
		t.Fatalf("update payment: %v", err)
	}
	if dto.Payment == nil || dto.Payment.Status != enums.PaymentStatusCompleted {
		t.Fatalf("expected completed payment, got %+v", dto.Payment)
	}
	if dto.Payment.TransactionID == nil || *dto.Payment.TransactionID != txn {
		t.Fatalf("expected transaction id recorded, got %v", dto.Payment.TransactionID)
	}
	if dto.Payment.CompletedAt == nil {
		t.Fatal("expected completed_at set")
	}
}

func TestCustomerOrderByIDScoped(t *testing.T) {
	fix := newFixture(t)
	order := fix.seedOrder(enums.OrderStatusPending)

	if _, err := fix.svc.CustomerOrderByID(context.Background(), order.CustomerID, order.ID); err != nil {
		t.Fatalf("own order: %v", err)
	}
	_, err := fix.svc.CustomerOrderByID(context.Background(), uuid.New(), order.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

type fixture struct {
	svc        Service
	repo       *stubOrderRepo
	carts      *stubCartSource
	restaurant *models.Restaurant
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithOrders(t, config.OrdersConfig{DeliveryFee: "40.00"})
}

func newFixtureWithOrders(t *testing.T, orders config.OrdersConfig) *fixture {
	t.Helper()
	repo := newStubOrderRepo()
	carts := &stubCartSource{carts: make(map[uuid.UUID]*cart.Cart)}
	restaurant := &models.Restaurant{ID: uuid.New(), OwnerID: uuid.New(), Name: "Spice Route", IsOpen: true}
	loader := &stubRestaurantLoader{restaurants: map[uuid.UUID]*models.Restaurant{restaurant.ID: restaurant}}
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	svc, err := NewService(ServiceParams{
		Repo:        repo,
		TX:          stubTxRunner{},
		Cart:        carts,
		Restaurants: loader,
		Orders:      orders,
		Logger:      logg,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return &fixture{svc: svc, repo: repo, carts: carts, restaurant: restaurant}
}

func (f *fixture) seedOrder(status enums.OrderStatus) *models.Order {
	order := &models.Order{
		ID:           uuid.New(),
		CustomerID:   uuid.New(),
		RestaurantID: f.restaurant.ID,
		Status:       status,
		Subtotal:     decimal.NewFromInt(500),
		DeliveryFee:  decimal.NewFromInt(40),
		Total:        decimal.NewFromInt(540),
		CreatedAt:    time.Now().UTC(),
	}
	f.repo.orders[order.ID] = order
	return order
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

type stubCartSource struct {
	carts map[uuid.UUID]*cart.Cart
}

func (s *stubCartSource) Snapshot(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	return s.carts[userID], nil
}

func (s *stubCartSource) Clear(ctx context.Context, userID uuid.UUID) error {
	delete(s.carts, userID)
	return nil
}

type stubRestaurantLoader struct {
	restaurants map[uuid.UUID]*models.Restaurant
}

func (s *stubRestaurantLoader) FindByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	if r, ok := s.restaurants[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubOrderRepo struct {
	orders     map[uuid.UUID]*models.Order
	payments   map[uuid.UUID]*models.Payment
	createErr  error
	paymentErr error
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{
		orders:   make(map[uuid.UUID]*models.Order),
		payments: make(map[uuid.UUID]*models.Payment),
	}
}

func (s *stubOrderRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubOrderRepo) Create(ctx context.Context, order *models.Order) error {
	if s.createErr != nil {
		return s.createErr
	}
	order.ID = uuid.New()
	s.orders[order.ID] = order
	return nil
}

func (s *stubOrderRepo) CreatePayment(ctx context.Context, payment *models.Payment) error {
	if s.paymentErr != nil {
		return s.paymentErr
	}
	payment.ID = uuid.New()
	s.payments[payment.OrderID] = payment
	return nil
}

func (s *stubOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if order, ok := s.orders[id]; ok {
		return order, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrderRepo) FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Order, error) {
	var out []models.Order
	for _, order := range s.orders {
		if order.CustomerID == customerID {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (s *stubOrderRepo) FindByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]models.Order, error) {
	var out []models.Order
	for _, order := range s.orders {
		if order.RestaurantID == restaurantID {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (s *stubOrderRepo) FindByRestaurantSince(ctx context.Context, restaurantID uuid.UUID, since time.Time) ([]models.Order, error) {
	var out []models.Order
	for _, order := range s.orders {
		if order.RestaurantID == restaurantID && !order.CreatedAt.Before(since) {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (s *stubOrderRepo) UpdateOrder(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	order, ok := s.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if status, ok := updates["status"].(enums.OrderStatus); ok {
		order.Status = status
	}
	if at, ok := updates["delivered_at"].(time.Time); ok {
		order.DeliveredAt = &at
	}
	if at, ok := updates["cancelled_at"].(time.Time); ok {
		order.CancelledAt = &at
	}
	return nil
}

func (s *stubOrderRepo) FindPaymentByOrder(ctx context.Context, orderID uuid.UUID) (*models.Payment, error) {
	if payment, ok := s.payments[orderID]; ok {
		return payment, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrderRepo) UpdatePayment(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	for _, payment := range s.payments {
		if payment.ID != id {
			continue
		}
		if status, ok := updates["status"].(enums.PaymentStatus); ok {
			payment.Status = status
		}
		if txn, ok := updates["transaction_id"].(string); ok {
			payment.TransactionID = &txn
		}
		if at, ok := updates["completed_at"].(time.Time); ok {
			payment.CompletedAt = &at
		}
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (s *stubOrderRepo) CountByStatus(ctx context.Context, restaurantID uuid.UUID, status enums.OrderStatus) (int64, error) {
	var count int64
	for _, order := range s.orders {
		if order.RestaurantID == restaurantID && order.Status == status {
			count++
		}
	}
	return count, nil
}
