package orders

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/threadline/threadline-backend/api/middleware"
	internalorders "github.com/threadline/threadline-backend/internal/orders"
	"github.com/threadline/threadline-backend/internal/payments"
	pkgerrors "github.com/threadline/threadline-backend/pkg/errors"
	"github.com/threadline/threadline-backend/pkg/logger"
	"github.com/threadline/threadline-backend/pkg/pagination"
)

type stubOrdersService struct {
	createFn       func(ctx context.Context, input internalorders.CreateOrderInput) (*internalorders.OrderDetail, error)
	getFn          func(ctx context.Context, orderID, adminID uuid.UUID) (*internalorders.OrderDetail, error)
	listFn         func(ctx context.Context, adminID uuid.UUID, page pagination.Page) (*internalorders.OrderList, error)
	listByClientFn func(ctx context.Context, clientID, adminID uuid.UUID, page pagination.Page) (*internalorders.OrderList, error)
	statusFn       func(ctx context.Context, orderID uuid.UUID, status string, adminID uuid.UUID) (*internalorders.OrderDetail, error)
	updateFn       func(ctx context.Context, input internalorders.UpdateOrderInput) (*internalorders.OrderDetail, error)
	deleteFn       func(ctx context.Context, orderID, adminID uuid.UUID) error
}

func (s *stubOrdersService) Create(ctx context.Context, input internalorders.CreateOrderInput) (*internalorders.OrderDetail, error) {
	return s.createFn(ctx, input)
}

func (s *stubOrdersService) GetByID(ctx context.Context, orderID, adminID uuid.UUID) (*internalorders.OrderDetail, error) {
	return s.getFn(ctx, orderID, adminID)
}

func (s *stubOrdersService) List(ctx context.Context, adminID uuid.UUID, page pagination.Page) (*internalorders.OrderList, error) {
	return s.listFn(ctx, adminID, page)
}

func (s *stubOrdersService) ListByClient(ctx context.Context, clientID, adminID uuid.UUID, page pagination.Page) (*internalorders.OrderList, error) {
	return s.listByClientFn(ctx, clientID, adminID, page)
}

func (s *stubOrdersService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status string, adminID uuid.UUID) (*internalorders.OrderDetail, error) {
	return s.statusFn(ctx, orderID, status, adminID)
}

func (s *stubOrdersService) UpdateDetails(ctx context.Context, input internalorders.UpdateOrderInput) (*internalorders.OrderDetail, error) {
	return s.updateFn(ctx, input)
}

func (s *stubOrdersService) Delete(ctx context.Context, orderID, adminID uuid.UUID) error {
	return s.deleteFn(ctx, orderID, adminID)
}

type stubPaymentsService struct {
	addFn    func(ctx context.Context, input payments.AddPaymentInput) (*payments.AddPaymentResult, error)
	listFn   func(ctx context.Context, orderID, adminID uuid.UUID) (*payments.PaymentList, error)
	deleteFn func(ctx context.Context, paymentID, adminID uuid.UUID) (*payments.DeletePaymentResult, error)
}

func (s *stubPaymentsService) AddPayment(ctx context.Context, input payments.AddPaymentInput) (*payments.AddPaymentResult, error) {
	return s.addFn(ctx, input)
}

func (s *stubPaymentsService) ListPayments(ctx context.Context, orderID, adminID uuid.UUID) (*payments.PaymentList, error) {
	return s.listFn(ctx, orderID, adminID)
}

func (s *stubPaymentsService) DeletePayment(ctx context.Context, paymentID, adminID uuid.UUID) (*payments.DeletePaymentResult, error) {
	return s.deleteFn(ctx, paymentID, adminID)
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func newRequest(method, target, body string, adminID uuid.UUID, params map[string]string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	ctx := req.Context()
	if adminID != uuid.Nil {
		ctx = middleware.WithAdminID(ctx, adminID.String())
	}
	routeCtx := chi.NewRouteContext()
	for key, value := range params {
		routeCtx.URLParams.Add(key, value)
	}
	ctx = context.WithValue(ctx, chi.RouteCtxKey, routeCtx)
	return req.WithContext(ctx)
}

type errorEnvelope struct {
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	if err := json.Unmarshal(resp.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	return env
}

func TestCreateOrderPassesRawMoneyValues(t *testing.T) {
	adminID := uuid.New()
	clientID := uuid.New()
	var captured internalorders.CreateOrderInput
	svc := &stubOrdersService{
		createFn: func(ctx context.Context, input internalorders.CreateOrderInput) (*internalorders.OrderDetail, error) {
			captured = input
			return &internalorders.OrderDetail{ID: uuid.New(), OrderNumber: "ORD-20250101-042"}, nil
		},
	}

	body := `{"clientId":"` + clientID.String() + `","price":1000.50,"deposit":"250","currency":"ngn","dueDate":"2025-03-01","styleDescription":"  agbada  "}`
	req := newRequest(http.MethodPost, "/api/v1/orders", body, adminID, nil)
	resp := httptest.NewRecorder()
	Create(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if captured.AdminID != adminID || captured.ClientID != clientID {
		t.Fatalf("unexpected ids %+v", captured)
	}
	if num, ok := captured.Price.(json.Number); !ok || num.String() != "1000.50" {
		t.Fatalf("expected exact json number price, got %#v", captured.Price)
	}
	if captured.Deposit != "250" {
		t.Fatalf("expected deposit string, got %#v", captured.Deposit)
	}
	if captured.StyleDescription == nil || *captured.StyleDescription != "agbada" {
		t.Fatalf("expected trimmed description, got %v", captured.StyleDescription)
	}
}

func TestCreateOrderRequiresAdmin(t *testing.T) {
	svc := &stubOrdersService{}
	req := newRequest(http.MethodPost, "/api/v1/orders", `{}`, uuid.Nil, nil)
	resp := httptest.NewRecorder()
	Create(svc, testLogger())(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestCreateOrderRejectsUnknownFields(t *testing.T) {
	svc := &stubOrdersService{}
	req := newRequest(http.MethodPost, "/api/v1/orders", `{"price":"10","bogus":true}`, uuid.New(), nil)
	resp := httptest.NewRecorder()
	Create(svc, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestListOrdersParsesPage(t *testing.T) {
	adminID := uuid.New()
	svc := &stubOrdersService{
		listFn: func(ctx context.Context, id uuid.UUID, page pagination.Page) (*internalorders.OrderList, error) {
			if id != adminID {
				t.Fatalf("unexpected admin %s", id)
			}
			if page.Page != 3 || page.PageSize != 20 {
				t.Fatalf("unexpected page %+v", page)
			}
			return &internalorders.OrderList{Orders: []internalorders.OrderDetail{}, Pagination: pagination.PageInfo{Page: 3, PageSize: 20}}, nil
		},
	}

	req := newRequest(http.MethodGet, "/api/v1/orders?page=3&pageSize=20", "", adminID, nil)
	resp := httptest.NewRecorder()
	List(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestListOrdersRejectsOversizedPage(t *testing.T) {
	svc := &stubOrdersService{}
	req := newRequest(http.MethodGet, "/api/v1/orders?pageSize=1000", "", uuid.New(), nil)
	resp := httptest.NewRecorder()
	List(svc, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestListByClientUsesPathParam(t *testing.T) {
	adminID := uuid.New()
	clientID := uuid.New()
	called := false
	svc := &stubOrdersService{
		listByClientFn: func(ctx context.Context, cid, aid uuid.UUID, page pagination.Page) (*internalorders.OrderList, error) {
			called = true
			if cid != clientID || aid != adminID {
				t.Fatalf("unexpected ids %s %s", cid, aid)
			}
			if page.Page != 1 || page.PageSize != pagination.DefaultPageSize {
				t.Fatalf("expected default page, got %+v", page)
			}
			return &internalorders.OrderList{}, nil
		},
	}

	req := newRequest(http.MethodGet, "/api/v1/clients/"+clientID.String()+"/orders", "", adminID, map[string]string{"clientId": clientID.String()})
	resp := httptest.NewRecorder()
	ListByClient(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK || !called {
		t.Fatalf("expected service call and 200, got %d", resp.Code)
	}
}

func TestDetailMapsServiceErrors(t *testing.T) {
	orderID := uuid.New()
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", pkgerrors.New(pkgerrors.CodeNotFound, "order not found"), http.StatusNotFound},
		{"forbidden", pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another admin"), http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubOrdersService{
				getFn: func(ctx context.Context, id, adminID uuid.UUID) (*internalorders.OrderDetail, error) {
					return nil, tt.err
				},
			}
			req := newRequest(http.MethodGet, "/api/v1/orders/"+orderID.String(), "", uuid.New(), map[string]string{"orderId": orderID.String()})
			resp := httptest.NewRecorder()
			Detail(svc, testLogger())(resp, req)
			if resp.Code != tt.status {
				t.Fatalf("expected %d got %d", tt.status, resp.Code)
			}
		})
	}
}

func TestDetailRejectsInvalidOrderID(t *testing.T) {
	svc := &stubOrdersService{}
	req := newRequest(http.MethodGet, "/api/v1/orders/nope", "", uuid.New(), map[string]string{"orderId": "nope"})
	resp := httptest.NewRecorder()
	Detail(svc, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestUpdateDetailsDistinguishesClearedFields(t *testing.T) {
	adminID := uuid.New()
	orderID := uuid.New()
	var captured internalorders.UpdateOrderInput
	svc := &stubOrdersService{
		updateFn: func(ctx context.Context, input internalorders.UpdateOrderInput) (*internalorders.OrderDetail, error) {
			captured = input
			return &internalorders.OrderDetail{ID: orderID}, nil
		},
	}

	req := newRequest(http.MethodPatch, "/api/v1/orders/"+orderID.String(), `{"dueDate":"","styleImageIds":[]}`, adminID, map[string]string{"orderId": orderID.String()})
	resp := httptest.NewRecorder()
	UpdateDetails(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if captured.OrderID != orderID || captured.AdminID != adminID {
		t.Fatalf("unexpected ids %+v", captured)
	}
	if captured.DueDate == nil || *captured.DueDate != "" {
		t.Fatalf("expected empty due date to pass through, got %v", captured.DueDate)
	}
	if captured.StyleImageIDs == nil || len(captured.StyleImageIDs) != 0 {
		t.Fatalf("expected non-nil empty image ids, got %#v", captured.StyleImageIDs)
	}
	if captured.Price != nil || captured.Currency != nil {
		t.Fatalf("expected untouched fields to stay nil")
	}
}

func TestUpdateStatusRequiresStatus(t *testing.T) {
	orderID := uuid.New()
	svc := &stubOrdersService{}
	req := newRequest(http.MethodPatch, "/api/v1/orders/"+orderID.String()+"/status", `{}`, uuid.New(), map[string]string{"orderId": orderID.String()})
	resp := httptest.NewRecorder()
	UpdateStatus(svc, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestUpdateStatusSuccess(t *testing.T) {
	orderID := uuid.New()
	svc := &stubOrdersService{
		statusFn: func(ctx context.Context, id uuid.UUID, status string, adminID uuid.UUID) (*internalorders.OrderDetail, error) {
			if status != "PROCESSING" {
				t.Fatalf("unexpected status %q", status)
			}
			return &internalorders.OrderDetail{ID: id}, nil
		},
	}
	req := newRequest(http.MethodPatch, "/api/v1/orders/"+orderID.String()+"/status", `{"status":" PROCESSING "}`, uuid.New(), map[string]string{"orderId": orderID.String()})
	resp := httptest.NewRecorder()
	UpdateStatus(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestDeleteOrder(t *testing.T) {
	orderID := uuid.New()
	deleted := false
	svc := &stubOrdersService{
		deleteFn: func(ctx context.Context, id, adminID uuid.UUID) error {
			deleted = id == orderID
			return nil
		},
	}
	req := newRequest(http.MethodDelete, "/api/v1/orders/"+orderID.String(), "", uuid.New(), map[string]string{"orderId": orderID.String()})
	resp := httptest.NewRecorder()
	Delete(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK || !deleted {
		t.Fatalf("expected delete, got %d", resp.Code)
	}
}

func TestAddPaymentBalanceErrorCarriesDetails(t *testing.T) {
	orderID := uuid.New()
	svc := &stubPaymentsService{
		addFn: func(ctx context.Context, input payments.AddPaymentInput) (*payments.AddPaymentResult, error) {
			if input.OrderID != orderID {
				t.Fatalf("unexpected order %s", input.OrderID)
			}
			if input.Notes != nil {
				t.Fatalf("expected blank notes to be dropped")
			}
			return nil, pkgerrors.New(pkgerrors.CodeBalance, "payment exceeds remaining balance").WithDetails(map[string]any{
				"orderTotal":       "1000",
				"totalPaid":        "600",
				"remainingBalance": "400",
				"attemptedPayment": "500",
			})
		},
	}

	req := newRequest(http.MethodPost, "/api/v1/orders/"+orderID.String()+"/payments", `{"amount":500,"notes":"   "}`, uuid.New(), map[string]string{"orderId": orderID.String()})
	resp := httptest.NewRecorder()
	AddPayment(svc, testLogger())(resp, req)

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}
	env := decodeError(t, resp)
	if env.Error.Code != string(pkgerrors.CodeBalance) {
		t.Fatalf("unexpected code %s", env.Error.Code)
	}
	if env.Error.Details["remainingBalance"] != "400" {
		t.Fatalf("expected remaining balance detail, got %v", env.Error.Details)
	}
}

func TestAddPaymentRequiresAmount(t *testing.T) {
	orderID := uuid.New()
	svc := &stubPaymentsService{}
	req := newRequest(http.MethodPost, "/api/v1/orders/"+orderID.String()+"/payments", `{"notes":"cash"}`, uuid.New(), map[string]string{"orderId": orderID.String()})
	resp := httptest.NewRecorder()
	AddPayment(svc, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAddPaymentCreated(t *testing.T) {
	orderID := uuid.New()
	svc := &stubPaymentsService{
		addFn: func(ctx context.Context, input payments.AddPaymentInput) (*payments.AddPaymentResult, error) {
			if input.Notes == nil || *input.Notes != "transfer" {
				t.Fatalf("expected notes, got %v", input.Notes)
			}
			return &payments.AddPaymentResult{
				Payment: payments.PaymentView{ID: uuid.New(), OrderID: orderID, Amount: decimal.RequireFromString("400")},
				Summary: payments.Summary{TotalPaid: decimal.RequireFromString("1000"), RemainingBalance: decimal.Zero, IsFullyPaid: true},
			}, nil
		},
	}

	req := newRequest(http.MethodPost, "/api/v1/orders/"+orderID.String()+"/payments", `{"amount":"400.00","notes":"transfer"}`, uuid.New(), map[string]string{"orderId": orderID.String()})
	resp := httptest.NewRecorder()
	AddPayment(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	var env struct {
		Data struct {
			IsFullyPaid bool `json:"isFullyPaid"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !env.Data.IsFullyPaid {
		t.Fatal("expected fully paid flag in response")
	}
}

func TestDeletePaymentUsesPaymentParam(t *testing.T) {
	paymentID := uuid.New()
	svc := &stubPaymentsService{
		deleteFn: func(ctx context.Context, id, adminID uuid.UUID) (*payments.DeletePaymentResult, error) {
			if id != paymentID {
				t.Fatalf("unexpected payment %s", id)
			}
			return &payments.DeletePaymentResult{PaymentID: id}, nil
		},
	}
	req := newRequest(http.MethodDelete, "/api/v1/payments/"+paymentID.String(), "", uuid.New(), map[string]string{"paymentId": paymentID.String()})
	resp := httptest.NewRecorder()
	DeletePayment(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestListPayments(t *testing.T) {
	orderID := uuid.New()
	svc := &stubPaymentsService{
		listFn: func(ctx context.Context, id, adminID uuid.UUID) (*payments.PaymentList, error) {
			return &payments.PaymentList{OrderID: id, Payments: []payments.PaymentView{}}, nil
		},
	}
	req := newRequest(http.MethodGet, "/api/v1/orders/"+orderID.String()+"/payments", "", uuid.New(), map[string]string{"orderId": orderID.String()})
	resp := httptest.NewRecorder()
	ListPayments(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}
