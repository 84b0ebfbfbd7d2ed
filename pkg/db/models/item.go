package models

import "time"

// Item is one stocked product, keyed by its barcode. The cached
// TotalQuantity mirrors the sum of its location quantities.
type Item struct {
	BarcodeID     string         `gorm:"column:barcode_id;primaryKey"`
	BarcodeType   string         `gorm:"column:barcode_type;not null"`
	Name          string         `gorm:"column:name;not null"`
	Description   *string        `gorm:"column:description"`
	TotalQuantity int            `gorm:"column:total_quantity;not null;default:0"`
	Locations     []ItemLocation `gorm:"foreignKey:ItemBarcodeID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (Item) TableName() string {
	return "items"
}
