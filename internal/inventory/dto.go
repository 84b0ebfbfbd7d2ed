package inventory

import (
	"time"

	"github.com/stockroomhq/stockroom-backend/pkg/db/models"
)

// LocationDTO is one ledger entry with its area resolved to a display name.
type LocationDTO struct {
	Bin      string `json:"bin"`
	Quantity int    `json:"quantity"`
	Type     string `json:"type"`
	AreaID   int64  `json:"area_id"`
	AreaName string `json:"area_name"`
}

// ItemDTO is the item read model returned to the console and the floor app.
type ItemDTO struct {
	BarcodeID     string        `json:"barcode_id"`
	BarcodeType   string        `json:"barcode_type"`
	Name          string        `json:"name"`
	Description   *string       `json:"description"`
	TotalQuantity int           `json:"total_quantity"`
	Locations     []LocationDTO `json:"locations"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

func toItemDTO(item *models.Item, areaNames map[int64]string) *ItemDTO {
	locations := make([]LocationDTO, 0, len(item.Locations))
	for _, loc := range item.Locations {
		locations = append(locations, LocationDTO{
			Bin:      loc.Bin,
			Quantity: loc.Quantity,
			Type:     loc.Type,
			AreaID:   loc.AreaID,
			AreaName: areaNames[loc.AreaID],
		})
	}

	return &ItemDTO{
		BarcodeID:     item.BarcodeID,
		BarcodeType:   item.BarcodeType,
		Name:          item.Name,
		Description:   item.Description,
		TotalQuantity: item.TotalQuantity,
		Locations:     locations,
		CreatedAt:     item.CreatedAt,
		UpdatedAt:     item.UpdatedAt,
	}
}
