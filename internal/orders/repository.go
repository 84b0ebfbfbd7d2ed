package orders

import (
	"context"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/stockroomhq/stockroom-backend/pkg/db/models"
)

// Repository serves the order read models used by the console and the floor
// app. All writes go through the fulfillment package.
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

// List returns all orders with their lines and picker display names, newest
// order first.
func (r *Repository) List(ctx context.Context) ([]OrderDTO, error) {
	var rows []models.Order
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("barcode_id")
		}).
		Order("order_id DESC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}

	pickers, err := r.pickerNames(ctx, collectPickerIDs(rows))
	if err != nil {
		return nil, err
	}

	result := make([]OrderDTO, 0, len(rows))
	for _, order := range rows {
		dto := OrderDTO{
			OrderID:   order.ID,
			OrderDate: order.OrderDate,
			Status:    order.Status,
			Items:     make([]LineSummaryDTO, 0, len(order.Lines)),
		}
		for _, line := range order.Lines {
			dto.Items = append(dto.Items, LineSummaryDTO{
				BarcodeID:      line.BarcodeID,
				Quantity:       line.Quantity,
				PickedQuantity: line.PickedQuantity,
				PickedByName:   pickerName(pickers, line.PickedBy),
			})
		}
		result = append(result, dto)
	}
	return result, nil
}

// LineDetail returns the order's lines joined with item fields and ledger,
// ordered by item name the way the pick screen lists them.
func (r *Repository) LineDetail(ctx context.Context, orderID int64) ([]OrderItemDetailDTO, error) {
	var lines []models.OrderLine
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Find(&lines).
		Error
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return []OrderItemDetailDTO{}, nil
	}

	barcodes := make([]string, 0, len(lines))
	for _, line := range lines {
		barcodes = append(barcodes, line.BarcodeID)
	}

	var items []models.Item
	err = r.db.WithContext(ctx).
		Preload("Locations", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("barcode_id IN ?", barcodes).
		Find(&items).
		Error
	if err != nil {
		return nil, err
	}
	itemsByBarcode := make(map[string]models.Item, len(items))
	for _, item := range items {
		itemsByBarcode[item.BarcodeID] = item
	}

	pickers, err := r.pickerNames(ctx, collectPickerIDs([]models.Order{{Lines: lines}}))
	if err != nil {
		return nil, err
	}

	result := make([]OrderItemDetailDTO, 0, len(lines))
	for _, line := range lines {
		item, ok := itemsByBarcode[line.BarcodeID]
		if !ok {
			continue
		}
		locations := make([]LineLocationDTO, 0, len(item.Locations))
		for _, loc := range item.Locations {
			locations = append(locations, LineLocationDTO{
				Quantity: loc.Quantity,
				Bin:      loc.Bin,
				Type:     loc.Type,
				AreaID:   loc.AreaID,
			})
		}
		result = append(result, OrderItemDetailDTO{
			BarcodeID:      item.BarcodeID,
			Name:           item.Name,
			Description:    item.Description,
			Locations:      locations,
			TotalQuantity:  item.TotalQuantity,
			Quantity:       line.Quantity,
			PickedQuantity: line.PickedQuantity,
			PickedByName:   pickerName(pickers, line.PickedBy),
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return strings.ToLower(result[i].Name) < strings.ToLower(result[j].Name)
	})
	return result, nil
}

func (r *Repository) pickerNames(ctx context.Context, ids []int64) (map[int64]string, error) {
	names := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	var employees []models.Employee
	err := r.db.WithContext(ctx).
		Where("account_id IN ?", ids).
		Find(&employees).
		Error
	if err != nil {
		return nil, err
	}
	for _, employee := range employees {
		names[employee.AccountID] = employee.DisplayName()
	}
	return names, nil
}

func collectPickerIDs(rows []models.Order) []int64 {
	seen := make(map[int64]struct{})
	var ids []int64
	for _, order := range rows {
		for _, line := range order.Lines {
			if line.PickedBy == nil {
				continue
			}
			if _, ok := seen[*line.PickedBy]; ok {
				continue
			}
			seen[*line.PickedBy] = struct{}{}
			ids = append(ids, *line.PickedBy)
		}
	}
	return ids
}

func pickerName(names map[int64]string, id *int64) *string {
	if id == nil {
		return nil
	}
	name, ok := names[*id]
	if !ok {
		return nil
	}
	return &name
}
