package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/threadline/threadline-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindClient(ctx context.Context, clientID uuid.UUID) (*models.Client, error) {
	var client models.Client
	if err := r.db.WithContext(ctx).Where("id = ?", clientID).First(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *repository) FindProject(ctx context.Context, projectID uuid.UUID) (*models.Project, error) {
	var project models.Project
	if err := r.db.WithContext(ctx).Where("id = ?", projectID).First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *repository) FindEvent(ctx context.Context, eventID uuid.UUID) (*models.Event, error) {
	var event models.Event
	if err := r.db.WithContext(ctx).Where("id = ?", eventID).First(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *repository) IsEventParticipant(ctx context.Context, eventID, clientID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.EventParticipant{}).
		Where("event_id = ? AND client_id = ?", eventID, clientID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) OrderNumberExists(ctx context.Context, adminID uuid.UUID, number string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("admin_id = ? AND order_number = ?", adminID, number).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) CreateOrder(ctx context.Context, order *models.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repository) CreatePayment(ctx context.Context, payment *models.Payment) error {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(payment).Error
}

// ReplaceStyleImages deletes every link for the order then inserts imageIDs.
// Duplicate ids are collapsed.
func (r *repository) ReplaceStyleImages(ctx context.Context, orderID uuid.UUID, imageIDs []uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("order_id = ?", orderID).Delete(&models.OrderStyleImage{}).Error; err != nil {
		return err
	}
	seen := make(map[uuid.UUID]struct{}, len(imageIDs))
	rows := make([]models.OrderStyleImage, 0, len(imageIDs))
	for _, id := range imageIDs {
		if id == uuid.Nil {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		rows = append(rows, models.OrderStyleImage{OrderID: orderID, StyleImageID: id})
	}
	if len(rows) == 0 {
		return nil
	}
	return db.Create(&rows).Error
}

func (r *repository) FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Where("id = ?", orderID).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// FindOrderForUpdate loads the order holding a row lock until the
// surrounding transaction ends.
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

func (r *repository) OrderUpdatedAt(ctx context.Context, orderID uuid.UUID) (time.Time, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Select("updated_at").
		Where("id = ?", orderID).
		First(&order).Error
	if err != nil {
		return time.Time{}, err
	}
	return order.UpdatedAt, nil
}

func (r *repository) FindOrderDetail(ctx context.Context, orderID uuid.UUID) (*OrderDetail, error) {
	order, err := r.FindOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	details, err := r.hydrate(ctx, []models.Order{*order})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

func (r *repository) ListAdminOrders(ctx context.Context, adminID uuid.UUID, offset, limit int) ([]OrderDetail, error) {
	return r.listOrders(ctx, "admin_id = ?", adminID, offset, limit)
}

func (r *repository) CountAdminOrders(ctx context.Context, adminID uuid.UUID) (int64, error) {
	return r.countOrders(ctx, "admin_id = ?", adminID)
}

func (r *repository) ListClientOrders(ctx context.Context, clientID uuid.UUID, offset, limit int) ([]OrderDetail, error) {
	return r.listOrders(ctx, "client_id = ?", clientID, offset, limit)
}

func (r *repository) CountClientOrders(ctx context.Context, clientID uuid.UUID) (int64, error) {
	return r.countOrders(ctx, "client_id = ?", clientID)
}

func (r *repository) listOrders(ctx context.Context, where string, id uuid.UUID, offset, limit int) ([]OrderDetail, error) {
	var rows []models.Order
	err := r.db.WithContext(ctx).
		Where(where, id).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return r.hydrate(ctx, rows)
}

func (r *repository) countOrders(ctx context.Context, where string, id uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Order{}).Where(where, id).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) CountPayments(ctx context.Context, orderID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Payment{}).Where("order_id = ?", orderID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(updates).Error
}

// DeleteOrder removes payments, style image links and the order itself.
// Callers run it inside a transaction.
func (r *repository) DeleteOrder(ctx context.Context, orderID uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("order_id = ?", orderID).Delete(&models.Payment{}).Error; err != nil {
		return err
	}
	if err := db.Where("order_id = ?", orderID).Delete(&models.OrderStyleImage{}).Error; err != nil {
		return err
	}
	result := db.Where("id = ?", orderID).Delete(&models.Order{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// hydrate batch-loads the names, payments and style images for orders.
func (r *repository) hydrate(ctx context.Context, orders []models.Order) ([]OrderDetail, error) {
	if len(orders) == 0 {
		return []OrderDetail{}, nil
	}
	db := r.db.WithContext(ctx)

	orderIDs := make([]uuid.UUID, 0, len(orders))
	clientIDs := make([]uuid.UUID, 0, len(orders))
	var projectIDs, eventIDs []uuid.UUID
	for _, o := range orders {
		orderIDs = append(orderIDs, o.ID)
		clientIDs = append(clientIDs, o.ClientID)
		if o.ProjectID != nil {
			projectIDs = append(projectIDs, *o.ProjectID)
		}
		if o.EventID != nil {
			eventIDs = append(eventIDs, *o.EventID)
		}
	}

	rel := orderRelations{
		clients:     map[uuid.UUID]models.Client{},
		projects:    map[uuid.UUID]models.Project{},
		events:      map[uuid.UUID]models.Event{},
		payments:    map[uuid.UUID][]models.Payment{},
		styleImages: map[uuid.UUID][]models.StyleImage{},
	}

	var clients []models.Client
	if err := db.Where("id IN ?", clientIDs).Find(&clients).Error; err != nil {
		return nil, err
	}
	for _, c := range clients {
		rel.clients[c.ID] = c
	}

	if len(projectIDs) > 0 {
		var projects []models.Project
		if err := db.Where("id IN ?", projectIDs).Find(&projects).Error; err != nil {
			return nil, err
		}
		for _, p := range projects {
			rel.projects[p.ID] = p
		}
	}

	if len(eventIDs) > 0 {
		var evts []models.Event
		if err := db.Where("id IN ?", eventIDs).Find(&evts).Error; err != nil {
			return nil, err
		}
		for _, e := range evts {
			rel.events[e.ID] = e
		}
	}

	var paymentRows []models.Payment
	if err := db.Where("order_id IN ?", orderIDs).Order("created_at DESC, id DESC").Find(&paymentRows).Error; err != nil {
		return nil, err
	}
	for _, p := range paymentRows {
		rel.payments[p.OrderID] = append(rel.payments[p.OrderID], p)
	}

	var links []styleImageLink
	err := db.Table("order_style_images AS osi").
		Select("osi.order_id AS order_id, si.id AS id, si.url AS url, si.caption AS caption").
		Joins("JOIN style_images si ON si.id = osi.style_image_id").
		Where("osi.order_id IN ?", orderIDs).
		Order("si.id").
		Scan(&links).Error
	if err != nil {
		return nil, err
	}
	for _, link := range links {
		rel.styleImages[link.OrderID] = append(rel.styleImages[link.OrderID], models.StyleImage{
			ID:      link.ID,
			URL:     link.URL,
			Caption: link.Caption,
		})
	}

	out := make([]OrderDetail, 0, len(orders))
	for _, o := range orders {
		out = append(out, newOrderDetail(o, rel))
	}
	return out, nil
}

type styleImageLink struct {
	OrderID uuid.UUID `gorm:"column:order_id"`
	ID      uuid.UUID `gorm:"column:id"`
	URL     string    `gorm:"column:url"`
	Caption *string   `gorm:"column:caption"`
}
