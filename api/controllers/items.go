package controllers

import (
	"net/http"
	"strings"

	"github.com/stockroomhq/stockroom-backend/api/responses"
	"github.com/stockroomhq/stockroom-backend/api/validators"
	"github.com/stockroomhq/stockroom-backend/internal/inventory"
	pkgerrors "github.com/stockroomhq/stockroom-backend/pkg/errors"
	"github.com/stockroomhq/stockroom-backend/pkg/logger"
	"github.com/stockroomhq/stockroom-backend/pkg/types"
)

type locationRequest struct {
	Bin      string        `json:"bin"`
	Quantity types.FlexInt `json:"quantity"`
	Type     string        `json:"type"`
	AreaID   types.FlexInt `json:"area_id"`
}

type receiveItemRequest struct {
	BarcodeID     string            `json:"barcode_id" validate:"required"`
	BarcodeType   string            `json:"barcode_type"`
	Name          string            `json:"name"`
	Description   *string           `json:"description,omitempty"`
	Locations     []locationRequest `json:"locations,omitempty"`
	TotalQuantity types.FlexInt     `json:"total_quantity"`
}

type updateItemRequest struct {
	BarcodeID     string            `json:"barcode_id" validate:"required"`
	Name          string            `json:"name"`
	Description   *string           `json:"description,omitempty"`
	Locations     []locationRequest `json:"locations,omitempty"`
	TotalQuantity types.FlexInt     `json:"total_quantity"`
}

func toLocationInputs(entries []locationRequest) []inventory.LocationInput {
	inputs := make([]inventory.LocationInput, 0, len(entries))
	for _, entry := range entries {
		inputs = append(inputs, inventory.LocationInput{
			Bin:      entry.Bin,
			Quantity: entry.Quantity.Int(),
			Type:     entry.Type,
			AreaID:   entry.AreaID.Int64(),
		})
	}
	return inputs
}

// ReceiveItem handles stock receipt: 201 when a new item is created, 200 when
// an existing one is updated.
func ReceiveItem(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload receiveItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, created, err := svc.Receive(r.Context(), inventory.ReceiveInput{
			BarcodeID:   payload.BarcodeID,
			BarcodeType: payload.BarcodeType,
			Name:        payload.Name,
			Description: payload.Description,
			Locations:   toLocationInputs(payload.Locations),
			Quantity:    payload.TotalQuantity.Int(),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		responses.WriteSuccessStatus(w, status, item)
	}
}

// UpdateItem overwrites an item's name, description, ledger, and total.
func UpdateItem(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload updateItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Update(r.Context(), inventory.UpdateInput{
			BarcodeID:     payload.BarcodeID,
			Name:          payload.Name,
			Description:   payload.Description,
			Locations:     toLocationInputs(payload.Locations),
			TotalQuantity: payload.TotalQuantity.Int(),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, item)
	}
}

// GetItem looks an item up by the barcode_id query parameter.
func GetItem(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		barcodeID := strings.TrimSpace(r.URL.Query().Get("barcode_id"))
		if barcodeID == "" {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "barcode_id is required"))
			return
		}

		ctx := logg.WithBarcodeID(r.Context(), barcodeID)
		item, err := svc.Get(ctx, barcodeID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, item)
	}
}
