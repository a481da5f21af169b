package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/threadline/threadline-backend/internal/payments"
	"github.com/threadline/threadline-backend/pkg/db/models"
	"github.com/threadline/threadline-backend/pkg/enums"
	"github.com/threadline/threadline-backend/pkg/pagination"
	"github.com/threadline/threadline-backend/pkg/types"
)

// CreateOrderInput carries a new order. Price, Deposit and DueDate accept the
// raw request values so validation can report precise errors.
type CreateOrderInput struct {
	AdminID          uuid.UUID
	ClientID         uuid.UUID
	ProjectID        *uuid.UUID
	EventID          *uuid.UUID
	Details          types.JSONMap
	Price            any
	Currency         string
	DueDate          any
	Deposit          any
	StyleDescription *string
	StyleImageIDs    []uuid.UUID
}

// UpdateOrderInput carries a partial edit. Nil fields are left unchanged; an
// empty DueDate clears it; a non-nil empty StyleImageIDs clears the links.
type UpdateOrderInput struct {
	OrderID          uuid.UUID
	AdminID          uuid.UUID
	ProjectID        *uuid.UUID
	Details          types.JSONMap
	Price            any
	Currency         *string
	DueDate          *string
	Deposit          any
	StyleDescription *string
	StyleImageIDs    []uuid.UUID
}

// NamedRef is a linked entity reduced to its display name.
type NamedRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// StyleImageRef is a reference image attached to an order.
type StyleImageRef struct {
	ID      uuid.UUID `json:"id"`
	URL     string    `json:"url"`
	Caption *string   `json:"caption,omitempty"`
}

// OrderDetail is the order with its linked names, payments and balance.
type OrderDetail struct {
	ID               uuid.UUID              `json:"id"`
	AdminID          uuid.UUID              `json:"adminId"`
	OrderNumber      string                 `json:"orderNumber"`
	Details          types.JSONMap          `json:"details"`
	Price            decimal.Decimal        `json:"price"`
	Currency         enums.Currency         `json:"currency"`
	DueDate          *time.Time             `json:"dueDate,omitempty"`
	Status           enums.OrderStatus      `json:"status"`
	Deposit          *decimal.Decimal       `json:"deposit,omitempty"`
	StyleDescription *string                `json:"styleDescription,omitempty"`
	Client           NamedRef               `json:"client"`
	Project          *NamedRef              `json:"project,omitempty"`
	Event            *NamedRef              `json:"event,omitempty"`
	Payments         []payments.PaymentView `json:"payments"`
	StyleImages      []StyleImageRef        `json:"styleImages"`
	PaymentSummary   payments.Summary       `json:"paymentSummary"`
	CreatedAt        time.Time              `json:"createdAt"`
	UpdatedAt        time.Time              `json:"updatedAt"`
}

// OrderList is one page of orders.
type OrderList struct {
	Orders     []OrderDetail       `json:"orders"`
	Pagination pagination.PageInfo `json:"pagination"`
}

// orderRelations holds the rows hydrated around a set of orders.
type orderRelations struct {
	clients     map[uuid.UUID]models.Client
	projects    map[uuid.UUID]models.Project
	events      map[uuid.UUID]models.Event
	payments    map[uuid.UUID][]models.Payment
	styleImages map[uuid.UUID][]models.StyleImage
}

func newOrderDetail(order models.Order, rel orderRelations) OrderDetail {
	detail := OrderDetail{
		ID:               order.ID,
		AdminID:          order.AdminID,
		OrderNumber:      order.OrderNumber,
		Details:          order.Details,
		Price:            order.Price,
		Currency:         order.Currency,
		DueDate:          order.DueDate,
		Status:           order.Status,
		Deposit:          order.Deposit,
		StyleDescription: order.StyleDescription,
		Client:           NamedRef{ID: order.ClientID},
		CreatedAt:        order.CreatedAt,
		UpdatedAt:        order.UpdatedAt,
	}
	if detail.Details == nil {
		detail.Details = types.JSONMap{}
	}
	if client, ok := rel.clients[order.ClientID]; ok {
		detail.Client.Name = client.Name
	}
	if order.ProjectID != nil {
		ref := &NamedRef{ID: *order.ProjectID}
		if project, ok := rel.projects[*order.ProjectID]; ok {
			ref.Name = project.Name
		}
		detail.Project = ref
	}
	if order.EventID != nil {
		ref := &NamedRef{ID: *order.EventID}
		if event, ok := rel.events[*order.EventID]; ok {
			ref.Name = event.Name
		}
		detail.Event = ref
	}

	paymentRows := rel.payments[order.ID]
	detail.Payments = payments.NewPaymentViews(paymentRows)
	detail.PaymentSummary = payments.Summarize(order.Price, paymentRows)

	images := rel.styleImages[order.ID]
	detail.StyleImages = make([]StyleImageRef, 0, len(images))
	for _, img := range images {
		detail.StyleImages = append(detail.StyleImages, StyleImageRef{ID: img.ID, URL: img.URL, Caption: img.Caption})
	}
	return detail
}
