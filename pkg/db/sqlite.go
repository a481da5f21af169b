package db

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// The goose migrations are Postgres only. SQLite dev databases and tests get
// this equivalent schema instead, with money stored as text.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS admins (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  created_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS clients (
  id TEXT PRIMARY KEY,
  admin_id TEXT NOT NULL REFERENCES admins(id),
  name TEXT NOT NULL,
  email TEXT,
  phone TEXT
);`,
	`CREATE TABLE IF NOT EXISTS projects (
  id TEXT PRIMARY KEY,
  admin_id TEXT NOT NULL REFERENCES admins(id),
  client_id TEXT NOT NULL REFERENCES clients(id),
  name TEXT NOT NULL
);`,
	`CREATE TABLE IF NOT EXISTS events (
  id TEXT PRIMARY KEY,
  admin_id TEXT NOT NULL REFERENCES admins(id),
  name TEXT NOT NULL,
  event_date DATE
);`,
	`CREATE TABLE IF NOT EXISTS event_participants (
  event_id TEXT NOT NULL REFERENCES events(id),
  client_id TEXT NOT NULL REFERENCES clients(id),
  PRIMARY KEY (event_id, client_id)
);`,
	`CREATE TABLE IF NOT EXISTS style_images (
  id TEXT PRIMARY KEY,
  admin_id TEXT NOT NULL REFERENCES admins(id),
  url TEXT NOT NULL,
  caption TEXT
);`,
	`CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  admin_id TEXT NOT NULL REFERENCES admins(id),
  client_id TEXT NOT NULL REFERENCES clients(id),
  project_id TEXT REFERENCES projects(id),
  event_id TEXT REFERENCES events(id),
  order_number TEXT NOT NULL,
  details TEXT NOT NULL DEFAULT '{}',
  price TEXT NOT NULL,
  currency TEXT NOT NULL DEFAULT 'NGN',
  due_date DATE,
  status TEXT NOT NULL DEFAULT 'PENDING_PAYMENT',
  deposit TEXT,
  style_description TEXT,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (admin_id, order_number)
);`,
	`CREATE TABLE IF NOT EXISTS order_style_images (
  order_id TEXT NOT NULL REFERENCES orders(id),
  style_image_id TEXT NOT NULL REFERENCES style_images(id),
  PRIMARY KEY (order_id, style_image_id)
);`,
	`CREATE TABLE IF NOT EXISTS payments (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL REFERENCES orders(id),
  amount TEXT NOT NULL,
  notes TEXT,
  created_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS notifications (
  id TEXT PRIMARY KEY,
  admin_id TEXT NOT NULL REFERENCES admins(id),
  type TEXT NOT NULL,
  title TEXT NOT NULL,
  message TEXT NOT NULL,
  link TEXT,
  read_at DATETIME,
  created_at DATETIME
);`,
}

// ApplySQLiteSchema creates any missing ledger tables. It is safe to run on
// every start.
func ApplySQLiteSchema(ctx context.Context, conn *gorm.DB) error {
	if conn.Dialector.Name() != "sqlite" {
		return fmt.Errorf("sqlite schema requested for %s connection", conn.Dialector.Name())
	}
	for _, stmt := range sqliteSchema {
		if err := conn.WithContext(ctx).Exec(stmt).Error; err != nil {
			return fmt.Errorf("applying sqlite schema: %w", err)
		}
	}
	return nil
}
