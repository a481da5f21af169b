package payments

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/threadline/threadline-backend/pkg/db/models"
)

// InitialDepositNote labels the payment created alongside an order deposit.
const InitialDepositNote = "Initial deposit"

// PaymentView is the API shape of a ledger entry.
type PaymentView struct {
	ID        uuid.UUID       `json:"id"`
	OrderID   uuid.UUID       `json:"orderId"`
	Amount    decimal.Decimal `json:"amount"`
	Notes     *string         `json:"notes,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Summary reports the running balance of an order.
type Summary struct {
	TotalPaid        decimal.Decimal `json:"totalPaid"`
	RemainingBalance decimal.Decimal `json:"remainingBalance"`
	IsFullyPaid      bool            `json:"isFullyPaid"`
}

// AddPaymentInput captures a payment request. Amount accepts any value
// understood by validation.ParsePrice.
type AddPaymentInput struct {
	OrderID uuid.UUID
	AdminID uuid.UUID
	Amount  any
	Notes   *string
}

// AddPaymentResult is returned after a payment commits.
type AddPaymentResult struct {
	Payment PaymentView `json:"payment"`
	Summary
}

// PaymentList is an order's payments, newest first, with its balance.
type PaymentList struct {
	OrderID  uuid.UUID     `json:"orderId"`
	Payments []PaymentView `json:"payments"`
	Summary
}

// DeletePaymentResult reports the balance after a payment is removed.
type DeletePaymentResult struct {
	PaymentID uuid.UUID `json:"paymentId"`
	OrderID   uuid.UUID `json:"orderId"`
	Summary
}

// NewPaymentView maps a payment row to its API shape.
func NewPaymentView(p models.Payment) PaymentView {
	return PaymentView{
		ID:        p.ID,
		OrderID:   p.OrderID,
		Amount:    p.Amount,
		Notes:     p.Notes,
		CreatedAt: p.CreatedAt,
	}
}

// NewPaymentViews maps rows preserving order.
func NewPaymentViews(rows []models.Payment) []PaymentView {
	out := make([]PaymentView, 0, len(rows))
	for _, row := range rows {
		out = append(out, NewPaymentView(row))
	}
	return out
}

// Summarize sums payments against price. Totals are computed from the rows
// rather than trusted from any precomputed value.
func Summarize(price decimal.Decimal, rows []models.Payment) Summary {
	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(row.Amount)
	}
	remaining := price.Sub(total)
	return Summary{
		TotalPaid:        total,
		RemainingBalance: remaining,
		IsFullyPaid:      !remaining.IsPositive(),
	}
}
