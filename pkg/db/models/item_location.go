package models

// ItemLocation is one bin in an item's location ledger. Position preserves
// the order the ledger was submitted in; bins are matched case-insensitively.
type ItemLocation struct {
	ID            int64  `gorm:"column:id;primaryKey;autoIncrement"`
	ItemBarcodeID string `gorm:"column:item_barcode_id;not null;index"`
	Bin           string `gorm:"column:bin;not null"`
	Quantity      int    `gorm:"column:quantity;not null;default:0"`
	Type          string `gorm:"column:type;not null"`
	AreaID        int64  `gorm:"column:area_id;not null"`
	Position      int    `gorm:"column:position;not null;default:0"`
}

func (ItemLocation) TableName() string {
	return "item_locations"
}
