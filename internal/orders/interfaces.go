package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/threadline/threadline-backend/pkg/db/models"
	"github.com/threadline/threadline-backend/pkg/events"
)

// Repository defines persistence operations for orders and the rows they
// reference.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	FindClient(ctx context.Context, clientID uuid.UUID) (*models.Client, error)
	FindProject(ctx context.Context, projectID uuid.UUID) (*models.Project, error)
	FindEvent(ctx context.Context, eventID uuid.UUID) (*models.Event, error)
	IsEventParticipant(ctx context.Context, eventID, clientID uuid.UUID) (bool, error)

	OrderNumberExists(ctx context.Context, adminID uuid.UUID, number string) (bool, error)
	CreateOrder(ctx context.Context, order *models.Order) error
	CreatePayment(ctx context.Context, payment *models.Payment) error
	ReplaceStyleImages(ctx context.Context, orderID uuid.UUID, imageIDs []uuid.UUID) error

	FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	FindOrderForUpdate(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	FindOrderDetail(ctx context.Context, orderID uuid.UUID) (*OrderDetail, error)
	OrderUpdatedAt(ctx context.Context, orderID uuid.UUID) (time.Time, error)
	ListAdminOrders(ctx context.Context, adminID uuid.UUID, offset, limit int) ([]OrderDetail, error)
	CountAdminOrders(ctx context.Context, adminID uuid.UUID) (int64, error)
	ListClientOrders(ctx context.Context, clientID uuid.UUID, offset, limit int) ([]OrderDetail, error)
	CountClientOrders(ctx context.Context, clientID uuid.UUID) (int64, error)
	CountPayments(ctx context.Context, orderID uuid.UUID) (int64, error)

	UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error
	DeleteOrder(ctx context.Context, orderID uuid.UUID) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type eventEmitter interface {
	Emit(ctx context.Context, event events.Event)
}
