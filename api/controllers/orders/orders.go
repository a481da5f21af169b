package orders

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/threadline/threadline-backend/api/middleware"
	"github.com/threadline/threadline-backend/api/responses"
	"github.com/threadline/threadline-backend/api/validators"
	internalorders "github.com/threadline/threadline-backend/internal/orders"
	pkgerrors "github.com/threadline/threadline-backend/pkg/errors"
	"github.com/threadline/threadline-backend/pkg/logger"
	"github.com/threadline/threadline-backend/pkg/pagination"
	"github.com/threadline/threadline-backend/pkg/types"
)

const (
	maxStyleDescriptionLen = 2000
	maxPageNumber          = 1_000_000
)

type createOrderRequest struct {
	ClientID         uuid.UUID     `json:"clientId"`
	ProjectID        *uuid.UUID    `json:"projectId"`
	EventID          *uuid.UUID    `json:"eventId"`
	Details          types.JSONMap `json:"details"`
	Price            any           `json:"price"`
	Currency         string        `json:"currency" validate:"omitempty,len=3"`
	DueDate          any           `json:"dueDate"`
	Deposit          any           `json:"deposit"`
	StyleDescription *string       `json:"styleDescription"`
	StyleImageIDs    []uuid.UUID   `json:"styleImageIds" validate:"omitempty,max=50"`
}

type updateOrderRequest struct {
	ProjectID        *uuid.UUID    `json:"projectId"`
	Details          types.JSONMap `json:"details"`
	Price            any           `json:"price"`
	Currency         *string       `json:"currency" validate:"omitempty,len=3"`
	DueDate          *string       `json:"dueDate"`
	Deposit          any           `json:"deposit"`
	StyleDescription *string       `json:"styleDescription"`
	StyleImageIDs    []uuid.UUID   `json:"styleImageIds" validate:"omitempty,max=50"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// Create records a new order, and its deposit payment when one is given.
func Create(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		adminID, err := adminIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.Create(r.Context(), internalorders.CreateOrderInput{
			AdminID:          adminID,
			ClientID:         payload.ClientID,
			ProjectID:        payload.ProjectID,
			EventID:          payload.EventID,
			Details:          payload.Details,
			Price:            payload.Price,
			Currency:         strings.TrimSpace(payload.Currency),
			DueDate:          payload.DueDate,
			Deposit:          payload.Deposit,
			StyleDescription: sanitizeDescription(payload.StyleDescription),
			StyleImageIDs:    payload.StyleImageIDs,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, detail)
	}
}

// List returns the admin's orders, newest first.
func List(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		adminID, err := adminIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := parsePage(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), adminID, page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// ListByClient returns one client's orders after checking the client belongs to the admin.
func ListByClient(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		adminID, err := adminIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		clientID, err := parseUUIDParam(r, "clientId", "client id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := parsePage(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListByClient(r.Context(), clientID, adminID, page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// Detail returns the order with its payments and balance.
func Detail(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		adminID, err := adminIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := parseUUIDParam(r, "orderId", "order id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.GetByID(r.Context(), orderID, adminID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// UpdateDetails applies a partial edit to the order.
func UpdateDetails(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		adminID, err := adminIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := parseUUIDParam(r, "orderId", "order id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.UpdateDetails(r.Context(), internalorders.UpdateOrderInput{
			OrderID:          orderID,
			AdminID:          adminID,
			ProjectID:        payload.ProjectID,
			Details:          payload.Details,
			Price:            payload.Price,
			Currency:         payload.Currency,
			DueDate:          payload.DueDate,
			Deposit:          payload.Deposit,
			StyleDescription: sanitizeDescription(payload.StyleDescription),
			StyleImageIDs:    payload.StyleImageIDs,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// UpdateStatus moves the order to any known status.
func UpdateStatus(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		adminID, err := adminIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := parseUUIDParam(r, "orderId", "order id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.UpdateStatus(r.Context(), orderID, strings.TrimSpace(payload.Status), adminID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// Delete removes the order together with its payments and style image links.
func Delete(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		adminID, err := adminIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := parseUUIDParam(r, "orderId", "order id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), orderID, adminID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"deleted": true, "orderId": orderID})
	}
}

func adminIDFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := middleware.AdminIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "admin context missing")
	}
	adminID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid admin id")
	}
	return adminID, nil
}

func parseUUIDParam(r *http.Request, key, label string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, key))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, label+" is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+label)
	}
	return id, nil
}

func parsePage(r *http.Request) (pagination.Page, error) {
	page, err := validators.ParseQueryInt(r, "page", 1, 1, maxPageNumber)
	if err != nil {
		return pagination.Page{}, err
	}
	size, err := validators.ParseQueryInt(r, "pageSize", pagination.DefaultPageSize, 1, pagination.MaxPageSize)
	if err != nil {
		return pagination.Page{}, err
	}
	return pagination.Page{Page: page, PageSize: size}, nil
}

func sanitizeDescription(value *string) *string {
	if value == nil {
		return nil
	}
	cleaned := validators.SanitizeString(*value, maxStyleDescriptionLen)
	return &cleaned
}
