package areas

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/stockroomhq/stockroom-backend/pkg/db"
	"github.com/stockroomhq/stockroom-backend/pkg/db/models"
)

func setupAreaDB(t *testing.T) *gorm.DB {
	t.Helper()

	client, err := db.NewSQLite(context.Background(), "file::memory:?cache=shared", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	conn := client.DB()
	require.NoError(t, conn.Exec(`CREATE TABLE IF NOT EXISTS areas (
  area_id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL
);`).Error)
	require.NoError(t, conn.Exec("DELETE FROM areas").Error)
	return conn
}

func TestListOrdersByName(t *testing.T) {
	conn := setupAreaDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	for _, name := range []string{"Receiving", "Cold Storage", "Mezzanine"} {
		require.NoError(t, conn.Create(&models.Area{Name: name}).Error)
	}

	listed, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, "Cold Storage", listed[0].Name)
	assert.Equal(t, "Mezzanine", listed[1].Name)
	assert.Equal(t, "Receiving", listed[2].Name)
}

func TestLookupNames(t *testing.T) {
	conn := setupAreaDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	first := &models.Area{Name: "Receiving"}
	second := &models.Area{Name: "Cold Storage"}
	require.NoError(t, conn.Create(first).Error)
	require.NoError(t, conn.Create(second).Error)

	names, err := repo.LookupNames(ctx, []int64{first.ID, second.ID, 9999})
	require.NoError(t, err)
	assert.Equal(t, map[int64]string{
		first.ID:  "Receiving",
		second.ID: "Cold Storage",
	}, names)

	empty, err := repo.LookupNames(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
