package fulfillment

import (
	"time"

	"github.com/stockroomhq/stockroom-backend/pkg/db/models"
)

// OrderCreatedDTO is returned after an order and its lines are inserted.
type OrderCreatedDTO struct {
	OrderID   int64     `json:"order_id"`
	OrderDate time.Time `json:"order_date"`
}

// LineDTO is the order line state returned from claim and pick operations.
type LineDTO struct {
	OrderID        int64      `json:"order_id"`
	BarcodeID      string     `json:"barcode_id"`
	Quantity       int        `json:"quantity"`
	PickedQuantity int        `json:"picked_quantity"`
	PickedBy       *int64     `json:"picked_by"`
	CompletedAt    *time.Time `json:"completed_at"`
}

// CleanupResult summarizes an abandoned-claim cleanup pass.
type CleanupResult struct {
	CleanedLines int    `json:"cleaned_lines"`
	Message      string `json:"message"`
}

// EmployeeLogEntry is one completed pick in an employee's history.
type EmployeeLogEntry struct {
	OrderID        int64      `json:"order_id"`
	BarcodeID      string     `json:"barcode_id"`
	ItemName       string     `json:"item_name"`
	Quantity       int        `json:"quantity"`
	PickedQuantity int        `json:"picked_quantity"`
	CompletionTime *time.Time `json:"completion_time"`
	EmployeeName   string     `json:"employee_name"`
}

func toLineDTO(line *models.OrderLine) *LineDTO {
	return &LineDTO{
		OrderID:        line.OrderID,
		BarcodeID:      line.BarcodeID,
		Quantity:       line.Quantity,
		PickedQuantity: line.PickedQuantity,
		PickedBy:       line.PickedBy,
		CompletedAt:    line.CompletedAt,
	}
}
