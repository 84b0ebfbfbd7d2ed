package inventory

import (
	"context"

	"gorm.io/gorm"

	"github.com/stockroomhq/stockroom-backend/pkg/db/models"
)

// Repository persists items and their location ledgers.
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

// FindWithLedger loads an item with its ledger ordered by submitted position.
func (r *Repository) FindWithLedger(ctx context.Context, barcodeID string) (*models.Item, error) {
	var item models.Item
	err := r.db.WithContext(ctx).
		Preload("Locations", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&item, "barcode_id = ?", barcodeID).
		Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Create inserts the item row along with any attached ledger entries.
func (r *Repository) Create(ctx context.Context, item *models.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// AddTotalQuantity adds delta to the item's cached total.
func (r *Repository) AddTotalQuantity(ctx context.Context, barcodeID string, delta int) error {
	return r.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("barcode_id = ?", barcodeID).
		UpdateColumn("total_quantity", gorm.Expr("total_quantity + ?", delta)).
		Error
}

// UpdateFields overwrites the item's mutable columns.
func (r *Repository) UpdateFields(ctx context.Context, barcodeID, name string, description *string, totalQuantity int) error {
	return r.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("barcode_id = ?", barcodeID).
		Updates(map[string]any{
			"name":           name,
			"description":    description,
			"total_quantity": totalQuantity,
		}).
		Error
}

// ReplaceLedger replaces the item's entire ledger.
func (r *Repository) ReplaceLedger(ctx context.Context, barcodeID string, entries []models.ItemLocation) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("item_barcode_id = ?", barcodeID).Delete(&models.ItemLocation{}).Error; err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}
	return tx.Create(&entries).Error
}

// DecrementBin subtracts amount from the ledger entry whose bin matches
// case-insensitively, and from the item's cached total. At most one ledger
// row is touched, so the total stays equal to the sum of the bins even if a
// ledger predating duplicate-bin validation holds colliding names. Returns
// false when no bin matched; callers are expected to validate bin membership
// first.
func (r *Repository) DecrementBin(ctx context.Context, barcodeID, bin string, amount int) (bool, error) {
	match := r.db.Session(&gorm.Session{NewDB: true}).
		Model(&models.ItemLocation{}).
		Select("id").
		Where("item_barcode_id = ? AND LOWER(TRIM(bin)) = LOWER(TRIM(?))", barcodeID, bin).
		Order("id").
		Limit(1)
	res := r.db.WithContext(ctx).
		Model(&models.ItemLocation{}).
		Where("id = (?)", match).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", amount))
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}

	err := r.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("barcode_id = ?", barcodeID).
		UpdateColumn("total_quantity", gorm.Expr("total_quantity - ?", amount)).
		Error
	if err != nil {
		return false, err
	}
	return true, nil
}
