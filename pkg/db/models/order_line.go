package models

import "time"

// OrderLine is one item's requested quantity within an order, keyed by
// (order_id, barcode_id). PickedBy holds the claiming employee's account id
// while the line is being worked.
type OrderLine struct {
	OrderID        int64      `gorm:"column:order_id;primaryKey"`
	BarcodeID      string     `gorm:"column:barcode_id;primaryKey"`
	Quantity       int        `gorm:"column:quantity;not null"`
	PickedQuantity int        `gorm:"column:picked_quantity;not null;default:0"`
	PickedBy       *int64     `gorm:"column:picked_by"`
	CompletedAt    *time.Time `gorm:"column:completed_at"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (OrderLine) TableName() string {
	return "order_lines"
}
