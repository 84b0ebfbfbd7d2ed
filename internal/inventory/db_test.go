package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/stockroomhq/stockroom-backend/pkg/db"
)

var inventoryDDL = []string{
	`CREATE TABLE IF NOT EXISTS areas (
  area_id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL
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
}

var inventoryTables = []string{"item_locations", "items", "areas"}

func setupInventoryDB(t *testing.T) (*db.Client, *gorm.DB) {
	t.Helper()

	client, err := db.NewSQLite(context.Background(), "file::memory:?cache=shared", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	conn := client.DB()
	for _, ddl := range inventoryDDL {
		require.NoError(t, conn.Exec(ddl).Error)
	}
	for _, table := range inventoryTables {
		require.NoError(t, conn.Exec("DELETE FROM "+table).Error)
	}
	return client, conn
}
