package models

import (
	"time"

	"github.com/stockroomhq/stockroom-backend/pkg/enums"
)

// Order groups the line items a picker works through. Status transitions are
// driven entirely by line-level progress.
type Order struct {
	ID        int64             `gorm:"column:order_id;primaryKey;autoIncrement"`
	OrderDate time.Time         `gorm:"column:order_date;autoCreateTime"`
	Status    enums.OrderStatus `gorm:"column:status;not null;default:'pending'"`
	Lines     []OrderLine       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (Order) TableName() string {
	return "orders"
}
