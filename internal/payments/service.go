package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/threadline/threadline-backend/pkg/cache"
	"github.com/threadline/threadline-backend/pkg/db/models"
	"github.com/threadline/threadline-backend/pkg/enums"
	pkgerrors "github.com/threadline/threadline-backend/pkg/errors"
	"github.com/threadline/threadline-backend/pkg/events"
	"github.com/threadline/threadline-backend/pkg/logger"
	"github.com/threadline/threadline-backend/pkg/metrics"
	"github.com/threadline/threadline-backend/pkg/validation"
)

const (
	rejectInvalidAmount  = "invalid_amount"
	rejectExceedsBalance = "exceeds_balance"
)

// Service defines payment ledger operations scoped to an admin.
type Service interface {
	AddPayment(ctx context.Context, input AddPaymentInput) (*AddPaymentResult, error)
	ListPayments(ctx context.Context, orderID, adminID uuid.UUID) (*PaymentList, error)
	DeletePayment(ctx context.Context, paymentID, adminID uuid.UUID) (*DeletePaymentResult, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type eventEmitter interface {
	Emit(ctx context.Context, event events.Event)
}

// ServiceParams wires the payment service.
type ServiceParams struct {
	Repository  Repository
	Tx          txRunner
	Invalidator *cache.Invalidator
	Emitter     eventEmitter
	Metrics     *metrics.LedgerMetrics
	Logger      *logger.Logger
}

type service struct {
	repo        Repository
	tx          txRunner
	invalidator *cache.Invalidator
	emitter     eventEmitter
	metrics     *metrics.LedgerMetrics
	logg        *logger.Logger
	now         func() time.Time
}

// NewService builds a payment service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repository == nil {
		return nil, fmt.Errorf("payments repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Emitter == nil {
		return nil, fmt.Errorf("event emitter required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		repo:        params.Repository,
		tx:          params.Tx,
		invalidator: params.Invalidator,
		emitter:     params.Emitter,
		metrics:     params.Metrics,
		logg:        logg,
		now:         time.Now,
	}, nil
}

func (s *service) AddPayment(ctx context.Context, input AddPaymentInput) (*AddPaymentResult, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveDuration("add_payment", time.Since(start)) }()

	if input.AdminID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "admin identity missing")
	}
	amount, err := parseAmount(input.Amount)
	if err != nil {
		s.metrics.IncPaymentRejected(rejectInvalidAmount)
		return nil, err
	}

	var (
		order   *models.Order
		payment *models.Payment
		summary Summary
	)
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		locked, err := repo.FindOrderForUpdate(ctx, input.OrderID)
		if err != nil {
			return mapOrderLookupErr(err)
		}
		if locked.AdminID != input.AdminID {
			return forbiddenOrder()
		}
		order = locked

		existing, err := repo.ListByOrderID(ctx, locked.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payments")
		}
		current := Summarize(locked.Price, existing)
		if current.TotalPaid.Add(amount).GreaterThan(locked.Price) {
			s.metrics.IncPaymentRejected(rejectExceedsBalance)
			return pkgerrors.New(pkgerrors.CodeBalance, "payment exceeds remaining balance").
				WithDetails(map[string]any{
					"orderTotal":       locked.Price.String(),
					"totalPaid":        current.TotalPaid.String(),
					"remainingBalance": current.RemainingBalance.String(),
					"attemptedPayment": amount.String(),
				})
		}

		payment = &models.Payment{OrderID: locked.ID, Amount: amount, Notes: input.Notes}
		if err := repo.Create(ctx, payment); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create payment")
		}
		if err := repo.TouchOrder(ctx, locked.ID, s.now().UTC()); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "touch order")
		}

		rows, err := repo.ListByOrderID(ctx, locked.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload payments")
		}
		summary = Summarize(locked.Price, rows)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncPaymentRecorded(string(order.Currency))
	s.invalidator.OrdersChanged(ctx, order.AdminID, order.ClientID, order.ID)
	s.emit(ctx, enums.EventPaymentAdded, order, payment.ID, map[string]any{
		"amount":           payment.Amount.String(),
		"totalPaid":        summary.TotalPaid.String(),
		"remainingBalance": summary.RemainingBalance.String(),
		"isFullyPaid":      summary.IsFullyPaid,
	})

	return &AddPaymentResult{Payment: NewPaymentView(*payment), Summary: summary}, nil
}

func (s *service) ListPayments(ctx context.Context, orderID, adminID uuid.UUID) (*PaymentList, error) {
	if adminID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "admin identity missing")
	}
	order, err := s.repo.FindOrder(ctx, orderID)
	if err != nil {
		return nil, mapOrderLookupErr(err)
	}
	if order.AdminID != adminID {
		return nil, forbiddenOrder()
	}
	rows, err := s.repo.ListByOrderID(ctx, order.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list payments")
	}
	return &PaymentList{
		OrderID:  order.ID,
		Payments: NewPaymentViews(rows),
		Summary:  Summarize(order.Price, rows),
	}, nil
}

func (s *service) DeletePayment(ctx context.Context, paymentID, adminID uuid.UUID) (*DeletePaymentResult, error) {
	if adminID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "admin identity missing")
	}

	var (
		order   *models.Order
		payment *models.Payment
		summary Summary
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		found, err := repo.FindPayment(ctx, paymentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payment")
		}
		payment = found

		locked, err := repo.FindOrderForUpdate(ctx, found.OrderID)
		if err != nil {
			return mapOrderLookupErr(err)
		}
		if locked.AdminID != adminID {
			return forbiddenOrder()
		}
		order = locked

		if err := repo.Delete(ctx, found.ID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete payment")
		}
		if err := repo.TouchOrder(ctx, locked.ID, s.now().UTC()); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "touch order")
		}

		rows, err := repo.ListByOrderID(ctx, locked.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload payments")
		}
		summary = Summarize(locked.Price, rows)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidator.OrdersChanged(ctx, order.AdminID, order.ClientID, order.ID)
	s.emit(ctx, enums.EventPaymentDeleted, order, payment.ID, map[string]any{
		"amount":           payment.Amount.String(),
		"totalPaid":        summary.TotalPaid.String(),
		"remainingBalance": summary.RemainingBalance.String(),
	})

	return &DeletePaymentResult{PaymentID: payment.ID, OrderID: order.ID, Summary: summary}, nil
}

func (s *service) emit(ctx context.Context, eventType enums.ChangeEventType, order *models.Order, paymentID uuid.UUID, data map[string]any) {
	clientID := order.ClientID
	s.emitter.Emit(ctx, events.Event{
		Type:        eventType,
		AdminID:     order.AdminID,
		EntityID:    paymentID,
		OrderID:     order.ID,
		ClientID:    &clientID,
		OrderNumber: order.OrderNumber,
		Data:        data,
	})
}

// parseAmount validates a payment amount and rounds it for storage. Amounts
// that round to zero are rejected.
func parseAmount(value any) (decimal.Decimal, error) {
	d, err := validation.ParsePrice(value)
	if err != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid amount").
			WithDetails(map[string]any{"field": "amount", "max": validation.MaxPrice.String()})
	}
	d = validation.RoundMoney(d)
	if !d.IsPositive() {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "amount must be greater than zero").
			WithDetails(map[string]any{"field": "amount"})
	}
	return d, nil
}

func mapOrderLookupErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
}

func forbiddenOrder() error {
	return pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to admin")
}
