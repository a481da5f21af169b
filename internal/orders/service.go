package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/threadline/threadline-backend/internal/payments"
	"github.com/threadline/threadline-backend/pkg/cache"
	"github.com/threadline/threadline-backend/pkg/db"
	"github.com/threadline/threadline-backend/pkg/db/models"
	"github.com/threadline/threadline-backend/pkg/enums"
	pkgerrors "github.com/threadline/threadline-backend/pkg/errors"
	"github.com/threadline/threadline-backend/pkg/events"
	"github.com/threadline/threadline-backend/pkg/logger"
	"github.com/threadline/threadline-backend/pkg/metrics"
	"github.com/threadline/threadline-backend/pkg/pagination"
	"github.com/threadline/threadline-backend/pkg/types"
	"github.com/threadline/threadline-backend/pkg/validation"
)

const (
	defaultCacheTTL = 300 * time.Second

	cacheScopeOrder      = "order"
	cacheScopeAdminList  = "admin_list"
	cacheScopeClientList = "client_list"
)

// Service defines order operations scoped to an admin.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*OrderDetail, error)
	GetByID(ctx context.Context, orderID, adminID uuid.UUID) (*OrderDetail, error)
	List(ctx context.Context, adminID uuid.UUID, page pagination.Page) (*OrderList, error)
	ListByClient(ctx context.Context, clientID, adminID uuid.UUID, page pagination.Page) (*OrderList, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status string, adminID uuid.UUID) (*OrderDetail, error)
	UpdateDetails(ctx context.Context, input UpdateOrderInput) (*OrderDetail, error)
	Delete(ctx context.Context, orderID, adminID uuid.UUID) error
}

// ServiceParams wires the order service.
type ServiceParams struct {
	Repository      Repository
	Tx              txRunner
	Cache           cache.Cache
	Invalidator     *cache.Invalidator
	Emitter         eventEmitter
	Numbers         *NumberGenerator
	Metrics         *metrics.LedgerMetrics
	Logger          *logger.Logger
	OrderTTL        time.Duration
	ListTTL         time.Duration
	DefaultCurrency string
}

type service struct {
	repo            Repository
	tx              txRunner
	cache           cache.Cache
	invalidator     *cache.Invalidator
	emitter         eventEmitter
	numbers         *NumberGenerator
	metrics         *metrics.LedgerMetrics
	logg            *logger.Logger
	orderTTL        time.Duration
	listTTL         time.Duration
	defaultCurrency enums.Currency
	now             func() time.Time
}

// NewService builds an order service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repository == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Cache == nil {
		return nil, fmt.Errorf("cache required")
	}
	if params.Emitter == nil {
		return nil, fmt.Errorf("event emitter required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	numbers := params.Numbers
	if numbers == nil {
		numbers = NewNumberGenerator(defaultNumberAttempts)
	}
	invalidator := params.Invalidator
	if invalidator == nil {
		invalidator = cache.NewInvalidator(params.Cache, logg)
	}
	currency := enums.CurrencyNGN
	if params.DefaultCurrency != "" {
		parsed, err := enums.ParseCurrency(params.DefaultCurrency)
		if err != nil {
			return nil, err
		}
		currency = parsed
	}
	return &service{
		repo:            params.Repository,
		tx:              params.Tx,
		cache:           params.Cache,
		invalidator:     invalidator,
		emitter:         params.Emitter,
		numbers:         numbers,
		metrics:         params.Metrics,
		logg:            logg,
		orderTTL:        ttlOrDefault(params.OrderTTL),
		listTTL:         ttlOrDefault(params.ListTTL),
		defaultCurrency: currency,
		now:             time.Now,
	}, nil
}

func ttlOrDefault(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return defaultCacheTTL
	}
	return ttl
}

func (s *service) Create(ctx context.Context, input CreateOrderInput) (*OrderDetail, error) {
	if input.AdminID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "admin identity missing")
	}
	if input.ClientID == uuid.Nil {
		return nil, validationError("clientId", "client id required")
	}

	price, err := parseMoney("price", input.Price)
	if err != nil {
		return nil, err
	}
	dueDate, err := parseDueDate(input.DueDate)
	if err != nil {
		return nil, err
	}
	currency, err := s.resolveCurrency(input.Currency)
	if err != nil {
		return nil, err
	}

	var deposit *decimal.Decimal
	if input.Deposit != nil {
		d, err := parseMoney("deposit", input.Deposit)
		if err != nil {
			return nil, err
		}
		if err := checkDeposit(d, price); err != nil {
			return nil, err
		}
		deposit = &d
	}

	details := input.Details
	if details == nil {
		details = types.JSONMap{}
	}

	order := &models.Order{
		AdminID:          input.AdminID,
		ClientID:         input.ClientID,
		ProjectID:        input.ProjectID,
		EventID:          input.EventID,
		Details:          details,
		Price:            price,
		Currency:         currency,
		DueDate:          dueDate,
		Status:           enums.OrderStatusPendingPayment,
		Deposit:          deposit,
		StyleDescription: input.StyleDescription,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if _, err := loadOwnedClient(ctx, repo, input.ClientID, input.AdminID); err != nil {
			return err
		}
		if input.EventID != nil {
			if err := checkEvent(ctx, repo, *input.EventID, input.ClientID, input.AdminID); err != nil {
				return err
			}
		}
		if input.ProjectID != nil {
			if err := checkProject(ctx, repo, *input.ProjectID, input.ClientID, input.AdminID); err != nil {
				return err
			}
		}

		number, err := s.numbers.Generate(ctx, input.AdminID, repo.OrderNumberExists)
		if err != nil {
			return err
		}
		order.OrderNumber = number

		if err := repo.CreateOrder(ctx, order); err != nil {
			if db.IsUniqueViolation(err) {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "order number already in use")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		if deposit != nil && deposit.IsPositive() {
			note := payments.InitialDepositNote
			payment := &models.Payment{OrderID: order.ID, Amount: *deposit, Notes: &note}
			if err := repo.CreatePayment(ctx, payment); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create deposit payment")
			}
		}

		if len(input.StyleImageIDs) > 0 {
			if err := repo.ReplaceStyleImages(ctx, order.ID, input.StyleImageIDs); err != nil {
				return mapStyleImageErr(err, "link style images")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidator.OrdersChanged(ctx, order.AdminID, order.ClientID)
	s.emit(ctx, enums.EventOrderCreated, order, map[string]any{
		"price":   order.Price.String(),
		"deposit": decimalString(order.Deposit),
	})

	detail, err := s.repo.FindOrderDetail(ctx, order.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load created order")
	}
	return detail, nil
}

func (s *service) GetByID(ctx context.Context, orderID, adminID uuid.UUID) (*OrderDetail, error) {
	if adminID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "admin identity missing")
	}
	key := cache.OrderKey(orderID)

	var cached OrderDetail
	if s.readCache(ctx, cacheScopeOrder, key, &cached) {
		if cached.AdminID != adminID {
			return nil, forbiddenOrder()
		}
		return &cached, nil
	}

	detail, err := s.repo.FindOrderDetail(ctx, orderID)
	if err != nil {
		return nil, mapOrderLookupErr(err)
	}
	if detail.AdminID != adminID {
		return nil, forbiddenOrder()
	}
	s.cacheOrderDetail(ctx, key, detail)
	return detail, nil
}

func (s *service) List(ctx context.Context, adminID uuid.UUID, page pagination.Page) (*OrderList, error) {
	if adminID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "admin identity missing")
	}
	page = pagination.NormalizePage(page)
	key := cache.AdminOrdersKey(adminID, page.Page, page.PageSize)

	var cached OrderList
	if s.readCache(ctx, cacheScopeAdminList, key, &cached) {
		return &cached, nil
	}

	list, err := s.loadPage(ctx, page,
		func(ctx context.Context) (int64, error) { return s.repo.CountAdminOrders(ctx, adminID) },
		func(ctx context.Context) ([]OrderDetail, error) {
			return s.repo.ListAdminOrders(ctx, adminID, page.Offset(), page.PageSize)
		},
	)
	if err != nil {
		return nil, err
	}
	s.writeCache(ctx, key, list, s.listTTL)
	return list, nil
}

func (s *service) ListByClient(ctx context.Context, clientID, adminID uuid.UUID, page pagination.Page) (*OrderList, error) {
	if adminID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "admin identity missing")
	}
	if _, err := loadOwnedClient(ctx, s.repo, clientID, adminID); err != nil {
		return nil, err
	}
	page = pagination.NormalizePage(page)
	key := cache.ClientOrdersKey(clientID, page.Page, page.PageSize)

	var cached OrderList
	if s.readCache(ctx, cacheScopeClientList, key, &cached) {
		return &cached, nil
	}

	list, err := s.loadPage(ctx, page,
		func(ctx context.Context) (int64, error) { return s.repo.CountClientOrders(ctx, clientID) },
		func(ctx context.Context) ([]OrderDetail, error) {
			return s.repo.ListClientOrders(ctx, clientID, page.Offset(), page.PageSize)
		},
	)
	if err != nil {
		return nil, err
	}
	s.writeCache(ctx, key, list, s.listTTL)
	return list, nil
}

// loadPage runs the count and page queries concurrently.
func (s *service) loadPage(
	ctx context.Context,
	page pagination.Page,
	count func(context.Context) (int64, error),
	rows func(context.Context) ([]OrderDetail, error),
) (*OrderList, error) {
	var (
		total  int64
		orders []OrderDetail
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := count(gctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders")
		}
		total = n
		return nil
	})
	g.Go(func() error {
		list, err := rows(gctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
		}
		orders = list
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []OrderDetail{}
	}
	return &OrderList{Orders: orders, Pagination: pagination.Info(page, total)}, nil
}

func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, status string, adminID uuid.UUID) (*OrderDetail, error) {
	if adminID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "admin identity missing")
	}
	order, err := loadOwnedOrder(ctx, s.repo, orderID, adminID)
	if err != nil {
		return nil, err
	}
	target, err := enums.ParseOrderStatus(strings.TrimSpace(status))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order status").
			WithDetails(map[string]any{"field": "status", "allowed": enums.OrderStatuses()})
	}

	updates := map[string]any{"status": target, "updated_at": s.now().UTC()}
	if err := s.repo.UpdateOrder(ctx, order.ID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}

	s.invalidator.OrdersChanged(ctx, order.AdminID, order.ClientID, order.ID)
	s.emit(ctx, enums.EventOrderUpdated, order, map[string]any{
		"previousStatus": string(order.Status),
		"status":         string(target),
	})

	detail, err := s.repo.FindOrderDetail(ctx, order.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
	}
	return detail, nil
}

func (s *service) UpdateDetails(ctx context.Context, input UpdateOrderInput) (*OrderDetail, error) {
	if input.AdminID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "admin identity missing")
	}

	var (
		order   *models.Order
		changed []string
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		locked, err := repo.FindOrderForUpdate(ctx, input.OrderID)
		if err != nil {
			return mapOrderLookupErr(err)
		}
		if locked.AdminID != input.AdminID {
			return forbiddenOrder()
		}
		order = locked

		updates, fields, err := s.buildUpdates(ctx, repo, locked, input)
		if err != nil {
			return err
		}
		changed = fields

		if input.StyleImageIDs != nil {
			if err := repo.ReplaceStyleImages(ctx, locked.ID, input.StyleImageIDs); err != nil {
				return mapStyleImageErr(err, "replace style images")
			}
			changed = append(changed, "styleImageIds")
		}
		if len(changed) > 0 {
			updates["updated_at"] = s.now().UTC()
			if err := repo.UpdateOrder(ctx, locked.ID, updates); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidator.OrdersChanged(ctx, order.AdminID, order.ClientID, order.ID)
	s.emit(ctx, enums.EventOrderUpdated, order, map[string]any{"fields": changed})

	detail, err := s.repo.FindOrderDetail(ctx, order.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
	}
	return detail, nil
}

// buildUpdates validates the edit against the locked order and returns the
// column updates plus the names of the fields that changed.
func (s *service) buildUpdates(ctx context.Context, repo Repository, order *models.Order, input UpdateOrderInput) (map[string]any, []string, error) {
	updates := map[string]any{}
	var fields []string

	var (
		newPrice   *decimal.Decimal
		newDeposit *decimal.Decimal
	)
	if input.Price != nil {
		p, err := parseMoney("price", input.Price)
		if err != nil {
			return nil, nil, err
		}
		newPrice = &p
	}
	if input.Deposit != nil {
		d, err := parseMoney("deposit", input.Deposit)
		if err != nil {
			return nil, nil, err
		}
		newDeposit = &d
	}

	priceChanges := newPrice != nil && !newPrice.Equal(order.Price)
	depositChanges := newDeposit != nil && (order.Deposit == nil || !newDeposit.Equal(*order.Deposit))
	if priceChanges || depositChanges {
		paid, err := repo.CountPayments(ctx, order.ID)
		if err != nil {
			return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count payments")
		}
		if paid > 0 {
			return nil, nil, pkgerrors.New(pkgerrors.CodeForbidden, "cannot modify price or deposit after payment")
		}

		effectivePrice := order.Price
		if newPrice != nil {
			effectivePrice = *newPrice
		}
		effectiveDeposit := order.Deposit
		if newDeposit != nil {
			effectiveDeposit = newDeposit
		}
		if effectiveDeposit != nil {
			if err := checkDeposit(*effectiveDeposit, effectivePrice); err != nil {
				return nil, nil, err
			}
		}
		if priceChanges {
			updates["price"] = *newPrice
			fields = append(fields, "price")
		}
		if depositChanges {
			updates["deposit"] = *newDeposit
			fields = append(fields, "deposit")
		}
	}

	if input.ProjectID != nil && (order.ProjectID == nil || *order.ProjectID != *input.ProjectID) {
		if err := checkProject(ctx, repo, *input.ProjectID, order.ClientID, order.AdminID); err != nil {
			return nil, nil, err
		}
		updates["project_id"] = *input.ProjectID
		fields = append(fields, "projectId")
	}

	if input.Details != nil {
		updates["details"] = input.Details
		fields = append(fields, "details")
	}

	if input.Currency != nil {
		currency, err := s.resolveCurrency(*input.Currency)
		if err != nil {
			return nil, nil, err
		}
		updates["currency"] = currency
		fields = append(fields, "currency")
	}

	if input.DueDate != nil {
		due, err := parseDueDate(*input.DueDate)
		if err != nil {
			return nil, nil, err
		}
		if due == nil {
			updates["due_date"] = nil
		} else {
			updates["due_date"] = *due
		}
		fields = append(fields, "dueDate")
	}

	if input.StyleDescription != nil {
		updates["style_description"] = *input.StyleDescription
		fields = append(fields, "styleDescription")
	}

	return updates, fields, nil
}

func (s *service) Delete(ctx context.Context, orderID, adminID uuid.UUID) error {
	if adminID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "admin identity missing")
	}

	var order *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		locked, err := repo.FindOrderForUpdate(ctx, orderID)
		if err != nil {
			return mapOrderLookupErr(err)
		}
		if locked.AdminID != adminID {
			return forbiddenOrder()
		}
		order = locked
		if err := repo.DeleteOrder(ctx, locked.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidator.OrdersChanged(ctx, order.AdminID, order.ClientID, order.ID)
	s.emit(ctx, enums.EventOrderDeleted, order, nil)
	return nil
}

func (s *service) resolveCurrency(raw string) (enums.Currency, error) {
	if strings.TrimSpace(raw) == "" {
		return s.defaultCurrency, nil
	}
	currency, err := enums.ParseCurrency(raw)
	if err != nil {
		return "", validationError("currency", "currency must be a 3-letter code")
	}
	return currency, nil
}

func (s *service) readCache(ctx context.Context, scope, key string, dst any) bool {
	found, err := cache.GetJSON(ctx, s.cache, key, dst)
	if err != nil {
		s.metrics.ObserveCacheLookup(scope, metrics.CacheError)
		s.logg.WarnErr(s.logg.WithField(ctx, "cache_key", key), "cache read failed", err)
		return false
	}
	if !found {
		s.metrics.ObserveCacheLookup(scope, metrics.CacheMiss)
		return false
	}
	s.metrics.ObserveCacheLookup(scope, metrics.CacheHit)
	return true
}

func (s *service) writeCache(ctx context.Context, key string, value any, ttl time.Duration) {
	if err := cache.SetJSON(ctx, s.cache, key, value, ttl); err != nil {
		s.logg.WarnErr(s.logg.WithField(ctx, "cache_key", key), "cache write failed", err)
	}
}

// cacheOrderDetail stores detail, then drops it again when the order's
// updated_at moved after detail was loaded. Every order and payment write
// bumps updated_at before it invalidates.
func (s *service) cacheOrderDetail(ctx context.Context, key string, detail *OrderDetail) {
	s.writeCache(ctx, key, detail, s.orderTTL)
	current, err := s.repo.OrderUpdatedAt(ctx, detail.ID)
	if err == nil && current.Equal(detail.UpdatedAt) {
		return
	}
	if err := s.cache.Del(ctx, key); err != nil {
		s.logg.WarnErr(s.logg.WithField(ctx, "cache_key", key), "stale cache drop failed", err)
	}
}

func (s *service) emit(ctx context.Context, eventType enums.ChangeEventType, order *models.Order, data map[string]any) {
	clientID := order.ClientID
	s.emitter.Emit(ctx, events.Event{
		Type:        eventType,
		AdminID:     order.AdminID,
		EntityID:    order.ID,
		OrderID:     order.ID,
		ClientID:    &clientID,
		OrderNumber: order.OrderNumber,
		Data:        data,
	})
}

func loadOwnedOrder(ctx context.Context, repo Repository, orderID, adminID uuid.UUID) (*models.Order, error) {
	order, err := repo.FindOrder(ctx, orderID)
	if err != nil {
		return nil, mapOrderLookupErr(err)
	}
	if order.AdminID != adminID {
		return nil, forbiddenOrder()
	}
	return order, nil
}

func loadOwnedClient(ctx context.Context, repo Repository, clientID, adminID uuid.UUID) (*models.Client, error) {
	client, err := repo.FindClient(ctx, clientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "client not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load client")
	}
	if client.AdminID != adminID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "client does not belong to admin")
	}
	return client, nil
}

func checkEvent(ctx context.Context, repo Repository, eventID, clientID, adminID uuid.UUID) error {
	event, err := repo.FindEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "event not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load event")
	}
	if event.AdminID != adminID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "event does not belong to admin")
	}
	ok, err := repo.IsEventParticipant(ctx, eventID, clientID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load event participants")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeValidation, "client is not a participant of the event").
			WithDetails(map[string]any{"field": "eventId", "reason": "client_not_in_event"})
	}
	return nil
}

func checkProject(ctx context.Context, repo Repository, projectID, clientID, adminID uuid.UUID) error {
	project, err := repo.FindProject(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "project not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load project")
	}
	if project.AdminID != adminID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "project does not belong to admin")
	}
	if project.ClientID != clientID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "project does not belong to client")
	}
	return nil
}

// mapStyleImageErr reports unknown style image ids as a validation failure.
func mapStyleImageErr(err error, action string) error {
	if db.IsForeignKeyViolation(err) {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown style image").
			WithDetails(map[string]any{"field": "styleImageIds", "reason": "style_image_not_found"})
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, action)
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

// parseMoney validates a price-like value and rounds it for storage.
func parseMoney(field string, value any) (decimal.Decimal, error) {
	d, err := validation.ParsePrice(value)
	if err != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("invalid %s", field)).
			WithDetails(map[string]any{"field": field, "max": validation.MaxPrice.String()})
	}
	return validation.RoundMoney(d), nil
}

func checkDeposit(deposit, price decimal.Decimal) error {
	if deposit.IsNegative() {
		return validationError("deposit", "deposit cannot be negative")
	}
	if deposit.GreaterThan(price) {
		return validationError("deposit", "deposit cannot exceed price")
	}
	return nil
}

func parseDueDate(value any) (*time.Time, error) {
	due, err := validation.ParseOrderDate(value)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid due date").
			WithDetails(map[string]any{"field": "dueDate", "error": err.Error()})
	}
	return due, nil
}

func validationError(field, message string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, message).WithDetails(map[string]any{"field": field})
}

func decimalString(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}
