package controllers

import (
	"net/http"

	"github.com/stockroomhq/stockroom-backend/api/responses"
	"github.com/stockroomhq/stockroom-backend/api/validators"
	employeesvc "github.com/stockroomhq/stockroom-backend/internal/employees"
	"github.com/stockroomhq/stockroom-backend/pkg/logger"
)

type updateEmployeeRequest struct {
	FirstName   string  `json:"first_name" validate:"required"`
	LastName    string  `json:"last_name" validate:"required"`
	Email       string  `json:"email" validate:"required,email"`
	PhoneNumber *string `json:"phone_number,omitempty"`
	Address     *string `json:"address,omitempty"`
	City        *string `json:"city,omitempty"`
	State       *string `json:"state,omitempty"`
	ZipCode     *string `json:"zip_code,omitempty"`
	Position    *string `json:"position,omitempty"`
	AccountType *string `json:"account_type,omitempty"`
	Password    *string `json:"password,omitempty"`
}

// ListEmployees returns the roster with joined account types.
func ListEmployees(svc employeesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// UpdateEmployee overwrites an employee profile and optionally its account.
func UpdateEmployee(svc employeesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID, err := validators.ParseURLInt64(r, "accountID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateEmployeeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithEmployeeID(r.Context(), accountID)
		err = svc.Update(ctx, accountID, employeesvc.UpdateEmployeeInput{
			FirstName:   payload.FirstName,
			LastName:    payload.LastName,
			Email:       payload.Email,
			PhoneNumber: payload.PhoneNumber,
			Address:     payload.Address,
			City:        payload.City,
			State:       payload.State,
			ZipCode:     payload.ZipCode,
			Position:    payload.Position,
			AccountType: payload.AccountType,
			Password:    payload.Password,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"message": "employee updated"})
	}
}
