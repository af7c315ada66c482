package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/feastlyhq/feastly-backend/pkg/db/models"
	"github.com/feastlyhq/feastly-backend/pkg/enums"
)

// Repository abstracts order persistence so services and jobs can run against
// the live DB or a transaction-bound view.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) error
	CreatePayment(ctx context.Context, payment *models.Payment) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Order, error)
	FindByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]models.Order, error)
	FindByRestaurantSince(ctx context.Context, restaurantID uuid.UUID, since time.Time) ([]models.Order, error)
	UpdateOrder(ctx context.Context, id uuid.UUID, updates map[string]any) error
	FindPaymentByOrder(ctx context.Context, orderID uuid.UUID) (*models.Payment, error)
	UpdatePayment(ctx context.Context, id uuid.UUID, updates map[string]any) error
	CountByStatus(ctx context.Context, restaurantID uuid.UUID, status enums.OrderStatus) (int64, error)
}
