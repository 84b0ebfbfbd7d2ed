package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stockroomhq/stockroom-backend/api/responses"
	"github.com/stockroomhq/stockroom-backend/api/validators"
	"github.com/stockroomhq/stockroom-backend/internal/fulfillment"
	pkgerrors "github.com/stockroomhq/stockroom-backend/pkg/errors"
	"github.com/stockroomhq/stockroom-backend/pkg/logger"
	"github.com/stockroomhq/stockroom-backend/pkg/types"
)

type createOrderRequest struct {
	Items []createOrderLineRequest `json:"items" validate:"required,min=1,dive"`
}

type createOrderLineRequest struct {
	BarcodeID string        `json:"barcode_id" validate:"required"`
	Quantity  types.FlexInt `json:"quantity" validate:"required"`
}

type recordPickRequest struct {
	PickedQuantity types.FlexInt `json:"picked_quantity" validate:"required"`
	PickedLocation string        `json:"picked_location" validate:"required"`
	PickedBy       types.FlexInt `json:"picked_by" validate:"required"`
}

type claimLineRequest struct {
	PickedBy types.FlexInt `json:"picked_by" validate:"required"`
}

type cleanupRequest struct {
	EmployeeID types.FlexInt `json:"employee_id" validate:"required"`
}

// CreateOrder inserts an order with its lines, all or nothing.
func CreateOrder(svc fulfillment.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lines := make([]fulfillment.OrderLineInput, 0, len(payload.Items))
		for _, line := range payload.Items {
			lines = append(lines, fulfillment.OrderLineInput{
				BarcodeID: line.BarcodeID,
				Quantity:  line.Quantity.Int(),
			})
		}

		created, err := svc.CreateOrder(r.Context(), fulfillment.CreateOrderInput{Lines: lines})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// SelectOrderForAreas finds and reserves the next pending order fully
// contained in the requested areas.
func SelectOrderForAreas(svc fulfillment.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		areaIDs, err := validators.ParseQueryIDList(r, "locations")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := svc.SelectForAreas(r.Context(), areaIDs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int64{"order_id": orderID})
	}
}

// RecordPick applies one pick against an order line and its bin.
func RecordPick(svc fulfillment.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParseURLInt64(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		barcodeID := chi.URLParam(r, "barcodeID")
		if barcodeID == "" {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "barcode_id is required"))
			return
		}

		var payload recordPickRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithOrderID(r.Context(), orderID)
		ctx = logg.WithBarcodeID(ctx, barcodeID)
		ctx = logg.WithEmployeeID(ctx, payload.PickedBy.Int64())

		line, err := svc.RecordPick(ctx, fulfillment.PickInput{
			OrderID:   orderID,
			BarcodeID: barcodeID,
			Quantity:  payload.PickedQuantity.Int(),
			Location:  payload.PickedLocation,
			PickedBy:  payload.PickedBy.Int64(),
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, line)
	}
}

// ClaimLine assigns an order line to a picker.
func ClaimLine(svc fulfillment.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParseURLInt64(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		barcodeID := chi.URLParam(r, "barcodeID")
		if barcodeID == "" {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "barcode_id is required"))
			return
		}

		var payload claimLineRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithOrderID(r.Context(), orderID)
		ctx = logg.WithEmployeeID(ctx, payload.PickedBy.Int64())

		line, err := svc.ClaimLine(ctx, orderID, barcodeID, payload.PickedBy.Int64())
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, line)
	}
}

// ResetOrder moves an in_progress order back to pending.
func ResetOrder(svc fulfillment.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParseURLInt64(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithOrderID(r.Context(), orderID)
		if err := svc.ResetToPending(ctx, orderID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"message": "order reset to pending"})
	}
}

// CleanupUserProgress releases an employee's abandoned claims.
func CleanupUserProgress(svc fulfillment.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload cleanupRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithEmployeeID(r.Context(), payload.EmployeeID.Int64())
		result, err := svc.CleanupUserProgress(ctx, payload.EmployeeID.Int64())
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// EmployeeLog returns an employee's completed pick history.
func EmployeeLog(svc fulfillment.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		employeeID, err := validators.ParseURLInt64(r, "employeeID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithEmployeeID(r.Context(), employeeID)
		entries, err := svc.EmployeeLog(ctx, employeeID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, entries)
	}
}
