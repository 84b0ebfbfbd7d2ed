package fulfillment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/stockroomhq/stockroom-backend/internal/inventory"
	"github.com/stockroomhq/stockroom-backend/pkg/db"
	"github.com/stockroomhq/stockroom-backend/pkg/db/models"
	"github.com/stockroomhq/stockroom-backend/pkg/enums"
)

var fulfillmentDDL = []string{
	`CREATE TABLE IF NOT EXISTS areas (
  area_id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL
);`,
	`CREATE TABLE IF NOT EXISTS employees (
  account_id INTEGER PRIMARY KEY AUTOINCREMENT,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  phone_number TEXT,
  address TEXT,
  city TEXT,
  state TEXT,
  zip_code TEXT,
  position TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS items (
  barcode_id TEXT PRIMARY KEY,
  barcode_type TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT,
  total_quantity INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS item_locations (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  item_barcode_id TEXT NOT NULL,
  bin TEXT NOT NULL,
  quantity INTEGER NOT NULL DEFAULT 0,
  type TEXT NOT NULL,
  area_id INTEGER NOT NULL,
  position INTEGER NOT NULL DEFAULT 0
);`,
	`CREATE TABLE IF NOT EXISTS orders (
  order_id INTEGER PRIMARY KEY AUTOINCREMENT,
  order_date DATETIME,
  status TEXT NOT NULL DEFAULT 'pending'
);`,
	`CREATE TABLE IF NOT EXISTS order_lines (
  order_id INTEGER NOT NULL,
  barcode_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  picked_quantity INTEGER NOT NULL DEFAULT 0,
  picked_by INTEGER,
  completed_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME,
  PRIMARY KEY (order_id, barcode_id)
);`,
}

var fulfillmentTables = []string{
	"order_lines", "orders", "item_locations", "items", "employees", "areas",
}

func setupFulfillmentDB(t *testing.T) (*db.Client, *gorm.DB) {
	t.Helper()

	client, err := db.NewSQLite(context.Background(), "file::memory:?cache=shared", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	conn := client.DB()
	for _, ddl := range fulfillmentDDL {
		require.NoError(t, conn.Exec(ddl).Error)
	}
	for _, table := range fulfillmentTables {
		require.NoError(t, conn.Exec("DELETE FROM "+table).Error)
	}
	return client, conn
}

func seedArea(t *testing.T, conn *gorm.DB, name string) *models.Area {
	t.Helper()

	area := &models.Area{Name: name}
	require.NoError(t, conn.Create(area).Error)
	return area
}

func seedEmployee(t *testing.T, conn *gorm.DB, first, last, email string) *models.Employee {
	t.Helper()

	employee := &models.Employee{FirstName: first, LastName: last, Email: email}
	require.NoError(t, conn.Create(employee).Error)
	return employee
}

func seedItem(t *testing.T, conn *gorm.DB, barcodeID, name string, total int, locations []models.ItemLocation) *models.Item {
	t.Helper()

	item := &models.Item{
		BarcodeID:     barcodeID,
		BarcodeType:   "upc",
		Name:          name,
		TotalQuantity: total,
		Locations:     locations,
	}
	require.NoError(t, conn.Create(item).Error)
	return item
}

func seedOrder(t *testing.T, conn *gorm.DB, status enums.OrderStatus, lines []models.OrderLine) *models.Order {
	t.Helper()

	order := &models.Order{Status: status, Lines: lines}
	require.NoError(t, conn.Create(order).Error)
	return order
}

func newFulfillmentService(t *testing.T) (Service, *db.Client, *gorm.DB) {
	t.Helper()

	client, conn := setupFulfillmentDB(t)
	svc, err := NewService(NewRepository(conn), inventory.NewRepository(conn), client)
	require.NoError(t, err)
	return svc, client, conn
}
