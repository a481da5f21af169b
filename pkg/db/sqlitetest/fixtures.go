package sqlitetest

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/threadline/threadline-backend/pkg/db/models"
	"github.com/threadline/threadline-backend/pkg/enums"
	"github.com/threadline/threadline-backend/pkg/types"
)

// SeedAdmin inserts an admin.
func SeedAdmin(t *testing.T, db *gorm.DB, name string) *models.Admin {
	t.Helper()
	admin := &models.Admin{ID: uuid.New(), Name: name, Email: uuid.NewString() + "@threadline.test"}
	require.NoError(t, db.Create(admin).Error)
	return admin
}

// SeedClient inserts a client owned by adminID.
func SeedClient(t *testing.T, db *gorm.DB, adminID uuid.UUID, name string) *models.Client {
	t.Helper()
	client := &models.Client{ID: uuid.New(), AdminID: adminID, Name: name}
	require.NoError(t, db.Create(client).Error)
	return client
}

// SeedProject inserts a project for the client.
func SeedProject(t *testing.T, db *gorm.DB, adminID, clientID uuid.UUID, name string) *models.Project {
	t.Helper()
	project := &models.Project{ID: uuid.New(), AdminID: adminID, ClientID: clientID, Name: name}
	require.NoError(t, db.Create(project).Error)
	return project
}

// SeedEvent inserts an event with the given participants.
func SeedEvent(t *testing.T, db *gorm.DB, adminID uuid.UUID, name string, participants ...uuid.UUID) *models.Event {
	t.Helper()
	event := &models.Event{ID: uuid.New(), AdminID: adminID, Name: name}
	require.NoError(t, db.Create(event).Error)
	for _, clientID := range participants {
		require.NoError(t, db.Create(&models.EventParticipant{EventID: event.ID, ClientID: clientID}).Error)
	}
	return event
}

// SeedStyleImage inserts a gallery image.
func SeedStyleImage(t *testing.T, db *gorm.DB, adminID uuid.UUID, url string) *models.StyleImage {
	t.Helper()
	img := &models.StyleImage{ID: uuid.New(), AdminID: adminID, URL: url}
	require.NoError(t, db.Create(img).Error)
	return img
}

// SeedOrder inserts an order with the given price created at created.
func SeedOrder(t *testing.T, db *gorm.DB, adminID, clientID uuid.UUID, number, price string, created time.Time) *models.Order {
	t.Helper()
	order := &models.Order{
		ID:          uuid.New(),
		AdminID:     adminID,
		ClientID:    clientID,
		OrderNumber: number,
		Details:     types.JSONMap{},
		Price:       decimal.RequireFromString(price),
		Currency:    enums.CurrencyNGN,
		Status:      enums.OrderStatusPendingPayment,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

// SeedPayment inserts a payment against orderID.
func SeedPayment(t *testing.T, db *gorm.DB, orderID uuid.UUID, amount string, created time.Time) *models.Payment {
	t.Helper()
	payment := &models.Payment{ID: uuid.New(), OrderID: orderID, Amount: decimal.RequireFromString(amount), CreatedAt: created}
	require.NoError(t, db.Create(payment).Error)
	return payment
}
