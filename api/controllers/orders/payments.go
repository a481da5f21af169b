package orders

import (
	"net/http"

	"github.com/threadline/threadline-backend/api/responses"
	"github.com/threadline/threadline-backend/api/validators"
	"github.com/threadline/threadline-backend/internal/payments"
	pkgerrors "github.com/threadline/threadline-backend/pkg/errors"
	"github.com/threadline/threadline-backend/pkg/logger"
)

const maxPaymentNotesLen = 500

type addPaymentRequest struct {
	Amount any     `json:"amount" validate:"required"`
	Notes  *string `json:"notes"`
}

// AddPayment records a payment against the order's remaining balance.
func AddPayment(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payments service unavailable"))
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

		var payload addPaymentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var notes *string
		if payload.Notes != nil {
			if cleaned := validators.SanitizeString(*payload.Notes, maxPaymentNotesLen); cleaned != "" {
				notes = &cleaned
			}
		}

		result, err := svc.AddPayment(r.Context(), payments.AddPaymentInput{
			OrderID: orderID,
			AdminID: adminID,
			Amount:  payload.Amount,
			Notes:   notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// ListPayments returns the order's payments, newest first, with its balance.
func ListPayments(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payments service unavailable"))
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

		list, err := svc.ListPayments(r.Context(), orderID, adminID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// DeletePayment removes a payment and reports the recomputed balance.
func DeletePayment(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payments service unavailable"))
			return
		}
		adminID, err := adminIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		paymentID, err := parseUUIDParam(r, "paymentId", "payment id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.DeletePayment(r.Context(), paymentID, adminID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
