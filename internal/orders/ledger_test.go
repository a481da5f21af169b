package orders

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threadline/threadline-backend/internal/payments"
	"github.com/threadline/threadline-backend/pkg/cache"
	"github.com/threadline/threadline-backend/pkg/db"
	"github.com/threadline/threadline-backend/pkg/db/sqlitetest"
	pkgerrors "github.com/threadline/threadline-backend/pkg/errors"
)

func TestRepriceAfterRemovingPaymentOnPaidOrder(t *testing.T) {
	conn := sqlitetest.Open(t)
	mem := cache.NewMemoryCache(cache.MemoryOptions{})
	t.Cleanup(func() { _ = mem.Close() })
	invalidator := cache.NewInvalidator(mem, nil)
	tx := db.NewFromGorm(conn)

	ordersSvc, err := NewService(ServiceParams{
		Repository:  NewRepository(conn),
		Tx:          tx,
		Cache:       mem,
		Invalidator: invalidator,
		Emitter:     &recordingEmitter{},
	})
	require.NoError(t, err)
	paymentsSvc, err := payments.NewService(payments.ServiceParams{
		Repository:  payments.NewRepository(conn),
		Tx:          tx,
		Invalidator: invalidator,
		Emitter:     &recordingEmitter{},
	})
	require.NoError(t, err)

	admin := sqlitetest.SeedAdmin(t, conn, "Adaeze")
	client := sqlitetest.SeedClient(t, conn, admin.ID, "Chioma")
	ctx := context.Background()

	created, err := ordersSvc.Create(ctx, CreateOrderInput{AdminID: admin.ID, ClientID: client.ID, Price: 1000})
	require.NoError(t, err)
	paid, err := paymentsSvc.AddPayment(ctx, payments.AddPaymentInput{OrderID: created.ID, AdminID: admin.ID, Amount: 1000})
	require.NoError(t, err)
	require.True(t, paid.IsFullyPaid)

	before, err := ordersSvc.GetByID(ctx, created.ID, admin.ID)
	require.NoError(t, err)
	assert.True(t, before.PaymentSummary.IsFullyPaid)
	_, found, err := mem.Get(ctx, cache.OrderKey(created.ID))
	require.NoError(t, err)
	require.True(t, found)

	_, err = ordersSvc.UpdateDetails(ctx, UpdateOrderInput{OrderID: created.ID, AdminID: admin.ID, Price: 1200})
	requireCode(t, err, pkgerrors.CodeForbidden)

	_, err = paymentsSvc.DeletePayment(ctx, paid.Payment.ID, admin.ID)
	require.NoError(t, err)

	afterDelete, err := ordersSvc.GetByID(ctx, created.ID, admin.ID)
	require.NoError(t, err)
	assert.Empty(t, afterDelete.Payments)
	assert.False(t, afterDelete.PaymentSummary.IsFullyPaid)
	assert.Equal(t, "1000", afterDelete.PaymentSummary.RemainingBalance.String())

	repriced, err := ordersSvc.UpdateDetails(ctx, UpdateOrderInput{OrderID: created.ID, AdminID: admin.ID, Price: 1200})
	require.NoError(t, err)
	assert.Equal(t, "1200", repriced.Price.String())

	got, err := ordersSvc.GetByID(ctx, created.ID, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "1200", got.Price.String())
	assert.Equal(t, "1200", got.PaymentSummary.RemainingBalance.String())
}
