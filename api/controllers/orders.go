package controllers

import (
	"context"
	"net/http"

	"github.com/stockroomhq/stockroom-backend/api/responses"
	"github.com/stockroomhq/stockroom-backend/api/validators"
	ordersvc "github.com/stockroomhq/stockroom-backend/internal/orders"
	"github.com/stockroomhq/stockroom-backend/pkg/logger"
)

// OrderReader is the order read-model surface consumed by the console.
type OrderReader interface {
	List(ctx context.Context) ([]ordersvc.OrderDTO, error)
	LineDetail(ctx context.Context, orderID int64) ([]ordersvc.OrderItemDetailDTO, error)
}

// ListOrders returns all orders with nested lines and picker names.
func ListOrders(reader OrderReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := reader.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// OrderLineDetail returns one order's lines joined with item and ledger data.
func OrderLineDetail(reader OrderReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParseURLInt64(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithOrderID(r.Context(), orderID)
		result, err := reader.LineDetail(ctx, orderID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
