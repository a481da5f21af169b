package payments

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/threadline/threadline-backend/pkg/db/models"
)

// Repository manages persistence for ledger entries.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	FindOrderForUpdate(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	FindPayment(ctx context.Context, paymentID uuid.UUID) (*models.Payment, error)
	ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]models.Payment, error)
	Create(ctx context.Context, payment *models.Payment) error
	Delete(ctx context.Context, paymentID uuid.UUID) error
	TouchOrder(ctx context.Context, orderID uuid.UUID, at time.Time) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a payments repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Where("id = ?", orderID).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// FindOrderForUpdate locks the order row so concurrent payments against it
// serialize on the balance check.
func (r *repository) FindOrderForUpdate(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", orderID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindPayment(ctx context.Context, paymentID uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.WithContext(ctx).Where("id = ?", paymentID).First(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

// ListByOrderID returns the order's payments newest first.
func (r *repository) ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]models.Payment, error) {
	var payments []models.Payment
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *repository) Create(ctx context.Context, payment *models.Payment) error {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *repository) Delete(ctx context.Context, paymentID uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", paymentID).Delete(&models.Payment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// TouchOrder bumps the order's updated_at so cached readers can tell the
// ledger moved.
func (r *repository) TouchOrder(ctx context.Context, orderID uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		UpdateColumn("updated_at", at).Error
}
