package areas

import (
	"context"

	"gorm.io/gorm"

	"github.com/stockroomhq/stockroom-backend/pkg/db/models"
)

// Repository reads the warehouse area reference data.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// List returns all areas ordered by name.
func (r *Repository) List(ctx context.Context) ([]models.Area, error) {
	var rows []models.Area
	err := r.db.WithContext(ctx).
		Order("name").
		Find(&rows).
		Error
	return rows, err
}

// LookupNames resolves a batch of area ids to their names. Unknown ids are
// simply absent from the result map.
func (r *Repository) LookupNames(ctx context.Context, ids []int64) (map[int64]string, error) {
	result := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var rows []models.Area
	err := r.db.WithContext(ctx).
		Where("area_id IN ?", ids).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.ID] = row.Name
	}
	return result, nil
}
