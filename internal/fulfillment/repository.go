package fulfillment

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/stockroomhq/stockroom-backend/pkg/db/models"
	"github.com/stockroomhq/stockroom-backend/pkg/enums"
)

// candidateOrdersQuery finds pending orders whose every line references an
// item with at least one ledger location and none outside the selected areas.
const candidateOrdersQuery = `
SELECT o.order_id
FROM orders o
JOIN order_lines ol ON ol.order_id = o.order_id
JOIN items i ON i.barcode_id = ol.barcode_id
WHERE o.status = 'pending'
GROUP BY o.order_id
HAVING MIN(CASE
  WHEN EXISTS (
         SELECT 1 FROM item_locations il
         WHERE il.item_barcode_id = i.barcode_id
       )
   AND NOT EXISTS (
         SELECT 1 FROM item_locations il
         WHERE il.item_barcode_id = i.barcode_id
           AND il.area_id NOT IN ?
       )
  THEN 1 ELSE 0 END) = 1
ORDER BY o.order_id
LIMIT ?
`

const employeeLogQuery = `
SELECT ol.order_id,
       ol.barcode_id,
       i.name AS item_name,
       ol.quantity,
       ol.picked_quantity,
       ol.completed_at AS completion_time,
       (e.first_name || ' ' || e.last_name) AS employee_name
FROM order_lines ol
JOIN items i ON i.barcode_id = ol.barcode_id
JOIN employees e ON e.account_id = ol.picked_by
WHERE ol.picked_by = ?
  AND ol.picked_quantity >= ol.quantity
ORDER BY (ol.completed_at IS NULL), ol.completed_at DESC
`

// Repository persists orders and their lines for the fulfillment workflow.
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

// CreateOrder inserts the order row along with its lines.
func (r *Repository) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// FindCandidateIDs returns pending order ids fully contained in the given
// areas, oldest first.
func (r *Repository) FindCandidateIDs(ctx context.Context, areaIDs []int64, limit int) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Raw(candidateOrdersQuery, areaIDs, limit).
		Scan(&ids).
		Error
	return ids, err
}

// MarkInProgressIfPending atomically promotes a pending order to in_progress.
// Returns false when the order was not pending, e.g. another picker won.
func (r *Repository) MarkInProgressIfPending(ctx context.Context, orderID int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("order_id = ? AND status = ?", orderID, enums.OrderStatusPending).
		UpdateColumn("status", enums.OrderStatusInProgress)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// FindLine loads one order line by its composite key.
func (r *Repository) FindLine(ctx context.Context, orderID int64, barcodeID string) (*models.OrderLine, error) {
	var line models.OrderLine
	err := r.db.WithContext(ctx).
		First(&line, "order_id = ? AND barcode_id = ?", orderID, barcodeID).
		Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// SetLineClaim assigns the line to an employee.
func (r *Repository) SetLineClaim(ctx context.Context, orderID int64, barcodeID string, pickedBy int64) error {
	return r.db.WithContext(ctx).
		Model(&models.OrderLine{}).
		Where("order_id = ? AND barcode_id = ?", orderID, barcodeID).
		UpdateColumn("picked_by", pickedBy).
		Error
}

// ApplyPick increments the line's picked quantity and records the picker,
// returning the updated line. Returns gorm.ErrRecordNotFound when no line
// matched.
func (r *Repository) ApplyPick(ctx context.Context, orderID int64, barcodeID string, amount int, pickedBy int64) (*models.OrderLine, error) {
	res := r.db.WithContext(ctx).
		Model(&models.OrderLine{}).
		Where("order_id = ? AND barcode_id = ?", orderID, barcodeID).
		UpdateColumns(map[string]any{
			"picked_quantity": gorm.Expr("picked_quantity + ?", amount),
			"picked_by":       pickedBy,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.FindLine(ctx, orderID, barcodeID)
}

// StampLineCompleted sets the line's completion timestamp.
func (r *Repository) StampLineCompleted(ctx context.Context, orderID int64, barcodeID string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.OrderLine{}).
		Where("order_id = ? AND barcode_id = ?", orderID, barcodeID).
		UpdateColumn("completed_at", at).
		Error
}

// CompletionCounts returns the total line count and the count of fully picked
// lines for an order.
func (r *Repository) CompletionCounts(ctx context.Context, orderID int64) (int64, int64, error) {
	var total, completed int64

	base := r.db.WithContext(ctx).Model(&models.OrderLine{}).Where("order_id = ?", orderID)
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	err := base.Session(&gorm.Session{}).
		Where("picked_quantity >= quantity").
		Count(&completed).
		Error
	if err != nil {
		return 0, 0, err
	}
	return total, completed, nil
}

// SetStatus overwrites the order's status.
func (r *Repository) SetStatus(ctx context.Context, orderID int64, status enums.OrderStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("order_id = ?", orderID).
		UpdateColumn("status", status).
		Error
}

// ResetIfInProgress moves an in_progress order back to pending. Returns false
// when the order was pending already or completed.
func (r *Repository) ResetIfInProgress(ctx context.Context, orderID int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("order_id = ? AND status = ?", orderID, enums.OrderStatusInProgress).
		UpdateColumn("status", enums.OrderStatusPending)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ListClaimedIncomplete returns lines claimed by the employee that are not yet
// fully picked.
func (r *Repository) ListClaimedIncomplete(ctx context.Context, employeeID int64) ([]models.OrderLine, error) {
	var lines []models.OrderLine
	err := r.db.WithContext(ctx).
		Where("picked_by = ? AND picked_quantity < quantity", employeeID).
		Find(&lines).
		Error
	return lines, err
}

// ClearClaim releases the line without touching its picked quantity.
func (r *Repository) ClearClaim(ctx context.Context, orderID int64, barcodeID string) error {
	return r.db.WithContext(ctx).
		Model(&models.OrderLine{}).
		Where("order_id = ? AND barcode_id = ?", orderID, barcodeID).
		UpdateColumn("picked_by", nil).
		Error
}

// EmployeeLog lists the employee's fully picked lines, most recent first.
func (r *Repository) EmployeeLog(ctx context.Context, employeeID int64) ([]EmployeeLogEntry, error) {
	var entries []EmployeeLogEntry
	err := r.db.WithContext(ctx).
		Raw(employeeLogQuery, employeeID).
		Scan(&entries).
		Error
	return entries, err
}
