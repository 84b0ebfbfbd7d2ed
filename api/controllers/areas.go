package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/stockroomhq/stockroom-backend/api/responses"
	"github.com/stockroomhq/stockroom-backend/api/validators"
	"github.com/stockroomhq/stockroom-backend/pkg/db/models"
	"github.com/stockroomhq/stockroom-backend/pkg/logger"
)

// AreaDirectory is the read surface of the area reference data.
type AreaDirectory interface {
	List(ctx context.Context) ([]models.Area, error)
	LookupNames(ctx context.Context, ids []int64) (map[int64]string, error)
}

type areaResponse struct {
	AreaID int64  `json:"area_id"`
	Name   string `json:"name"`
}

type areaLookupRequest struct {
	AreaIDs []int64 `json:"area_ids" validate:"required,min=1"`
}

// ListAreas returns all areas ordered by name.
func ListAreas(directory AreaDirectory, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := directory.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result := make([]areaResponse, 0, len(rows))
		for _, row := range rows {
			result = append(result, areaResponse{AreaID: row.ID, Name: row.Name})
		}
		responses.WriteSuccess(w, result)
	}
}

// LookupAreas resolves a batch of area ids to names for the floor app.
func LookupAreas(directory AreaDirectory, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload areaLookupRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		names, err := directory.LookupNames(r.Context(), payload.AreaIDs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result := make(map[string]string, len(names))
		for id, name := range names {
			result[strconv.FormatInt(id, 10)] = name
		}
		responses.WriteSuccess(w, result)
	}
}
