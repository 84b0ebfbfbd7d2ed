package orders

import (
	"time"

	"github.com/stockroomhq/stockroom-backend/pkg/enums"
)

// LineSummaryDTO is one line in the admin console's order list.
type LineSummaryDTO struct {
	BarcodeID      string  `json:"barcode_id"`
	Quantity       int     `json:"quantity"`
	PickedQuantity int     `json:"picked_quantity"`
	PickedByName   *string `json:"picked_by_name"`
}

// OrderDTO is one order with its nested lines.
type OrderDTO struct {
	OrderID   int64             `json:"order_id"`
	OrderDate time.Time         `json:"order_date"`
	Status    enums.OrderStatus `json:"status"`
	Items     []LineSummaryDTO  `json:"items"`
}

// LineLocationDTO is a ledger entry shown alongside an order line so the
// picker knows which bins hold the item.
type LineLocationDTO struct {
	Quantity int    `json:"quantity"`
	Bin      string `json:"bin"`
	Type     string `json:"type"`
	AreaID   int64  `json:"area_id"`
}

// OrderItemDetailDTO is one order line joined with its item and ledger.
type OrderItemDetailDTO struct {
	BarcodeID      string            `json:"barcode_id"`
	Name           string            `json:"name"`
	Description    *string           `json:"description"`
	Locations      []LineLocationDTO `json:"locations"`
	TotalQuantity  int               `json:"total_quantity"`
	Quantity       int               `json:"quantity"`
	PickedQuantity int               `json:"picked_quantity"`
	PickedByName   *string           `json:"picked_by_name"`
}
