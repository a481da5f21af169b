package db

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/threadline/threadline-backend/pkg/config"
)

type testModel struct {
	ID   int
	Name string
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&testModel{}); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}
	return conn
}

func TestWithTx_CommitsAndRollbacks(t *testing.T) {
	db := newTestDB(t)
	client := &Client{conn: db}

	ctx := context.Background()
	if err := client.WithTx(ctx, func(tx *gorm.DB) error {
		return tx.Create(&testModel{Name: "committed"}).Error
	}); err != nil {
		t.Fatalf("WithTx commit failed: %v", err)
	}

	var count int64
	if err := db.Model(&testModel{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 record, got %d", count)
	}

	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&testModel{Name: "rolled"}).Error; err != nil {
			return err
		}
		return errors.New("boom")
	})
	if err == nil {
		t.Fatal("expected WithTx to return an error")
	}
	if err := db.Model(&testModel{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed after rollback: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected rollback to leave 1 record, got %d", count)
	}
}

func TestPing(t *testing.T) {
	db := newTestDB(t)
	client := &Client{conn: db}
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected ping error: %v", err)
	}
}

func TestDialectorFor(t *testing.T) {
	d, err := dialectorFor(config.DBConfig{SQLitePath: "dev.db"}, config.FeatureFlagsConfig{UseSQLite: true})
	if err != nil {
		t.Fatalf("unexpected sqlite dialector error: %v", err)
	}
	if d.Name() != "sqlite" {
		t.Fatalf("expected sqlite dialector, got %s", d.Name())
	}

	if _, err := dialectorFor(config.DBConfig{}, config.FeatureFlagsConfig{}); err == nil {
		t.Fatal("expected missing dsn error for postgres")
	}

	d, err = dialectorFor(config.DBConfig{DSN: "postgres://u:p@localhost:5432/db"}, config.FeatureFlagsConfig{})
	if err != nil {
		t.Fatalf("unexpected postgres dialector error: %v", err)
	}
	if d.Name() != "postgres" {
		t.Fatalf("expected postgres dialector, got %s", d.Name())
	}
}

func TestIsUniqueViolation(t *testing.T) {
	pgDup := &pgconn.PgError{Code: "23505", ConstraintName: "ux_orders_admin_number"}
	pqDup := &pq.Error{Code: "23505", Constraint: "ux_orders_admin_number"}
	tests := []struct {
		name        string
		err         error
		constraints []string
		want        bool
	}{
		{"nil", nil, nil, false},
		{"pgx any constraint", fmt.Errorf("create order: %w", pgDup), nil, true},
		{"pgx named constraint", pgDup, []string{"ux_orders_admin_number"}, true},
		{"pgx other constraint", pgDup, []string{"admins_email_key"}, false},
		{"pgx foreign key", &pgconn.PgError{Code: "23503"}, nil, false},
		{"lib/pq", pqDup, []string{"ux_orders_admin_number"}, true},
		{"sqlite", errors.New("UNIQUE constraint failed: orders.admin_id, orders.order_number"), nil, true},
		{"sqlite column match", errors.New("UNIQUE constraint failed: orders.admin_id, orders.order_number"), []string{"orders.order_number"}, true},
		{"plain error", errors.New("connection reset"), nil, false},
	}
	for _, tt := range tests {
		if got := IsUniqueViolation(tt.err, tt.constraints...); got != tt.want {
			t.Fatalf("%s: expected %v got %v", tt.name, tt.want, got)
		}
	}
}

func TestIsForeignKeyViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"pgx", fmt.Errorf("link style images: %w", &pgconn.PgError{Code: "23503"}), true},
		{"pgx unique", &pgconn.PgError{Code: "23505"}, false},
		{"lib/pq", &pq.Error{Code: "23503"}, true},
		{"sqlite", errors.New("FOREIGN KEY constraint failed"), true},
		{"plain error", errors.New("connection reset"), false},
	}
	for _, tt := range tests {
		if got := IsForeignKeyViolation(tt.err); got != tt.want {
			t.Fatalf("%s: expected %v got %v", tt.name, tt.want, got)
		}
	}
}

func TestNewSQLiteCreatesLedgerSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dev.db")
	cfg := config.DBConfig{SQLitePath: path}
	flags := config.FeatureFlagsConfig{UseSQLite: true, AutoMigrate: true}

	for attempt := 0; attempt < 2; attempt++ {
		client, err := New(context.Background(), cfg, flags, nil)
		if err != nil {
			t.Fatalf("open sqlite (attempt %d): %v", attempt, err)
		}
		for _, table := range []string{"admins", "clients", "orders", "order_style_images", "payments", "notifications"} {
			var count int64
			if err := client.DB().Table(table).Count(&count).Error; err != nil {
				t.Fatalf("table %s missing: %v", table, err)
			}
		}
		if err := client.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
	}
}

func TestApplySQLiteSchemaIsIdempotent(t *testing.T) {
	conn := newTestDB(t)
	if err := ApplySQLiteSchema(context.Background(), conn); err != nil {
		t.Fatalf("sqlite connection should accept schema: %v", err)
	}
	if err := ApplySQLiteSchema(context.Background(), conn); err != nil {
		t.Fatalf("schema should be idempotent: %v", err)
	}
}
