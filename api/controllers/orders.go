package controllers

import (
	"net/http"
	"strings"

	"github.com/arjunkhanna/secondmart-backend/api/responses"
	"github.com/arjunkhanna/secondmart-backend/api/validators"
	"github.com/arjunkhanna/secondmart-backend/internal/orders"
	"github.com/arjunkhanna/secondmart-backend/pkg/db/models"
	"github.com/arjunkhanna/secondmart-backend/pkg/enums"
	pkgerrors "github.com/arjunkhanna/secondmart-backend/pkg/errors"
	"github.com/arjunkhanna/secondmart-backend/pkg/logger"
)

type orderDetailResponse struct {
	*models.Order
	Progress float64 `json:"progress"`
}

// AdminListOrders returns the paginated order list with optional status and
// step filters.
func AdminListOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pageParams, err := parsePageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var filters orders.ListFilters
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseOrderStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			filters.Status = &status
		}
		step, err := validators.ParseQueryInt(r, "step", 0, 1, orders.StepCount+1)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if step != 0 {
			filters.Step = &step
		}

		list, err := svc.List(r.Context(), orders.ListParams{
			Filters: filters,
			Params:  pageParams,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// AdminOrderDetail returns a single order with its steps and progress ratio.
func AdminOrderDetail(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := parseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Get(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orderDetailResponse{Order: order, Progress: orders.Progress(order)})
	}
}

type completeStepRequest struct {
	StepNumber int    `json:"step_number" validate:"required,min=1,max=7"`
	Details    string `json:"details" validate:"required"`
}

// AdminCompleteStep completes the order's current fulfillment step.
func AdminCompleteStep(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminID, err := adminIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := parseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload completeStepRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.CompleteStep(r.Context(), orders.CompleteStepInput{
			OrderID:    orderID,
			StepNumber: payload.StepNumber,
			Details:    payload.Details,
			AdminID:    adminID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orderDetailResponse{Order: order, Progress: orders.Progress(order)})
	}
}

type failStepRequest struct {
	StepNumber int    `json:"step_number" validate:"required,min=1,max=7"`
	Reason     string `json:"reason" validate:"required"`
}

// AdminFailStep marks a step failed and the whole order terminally failed.
func AdminFailStep(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminID, err := adminIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := parseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload failStepRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.FailStep(r.Context(), orders.FailStepInput{
			OrderID:    orderID,
			StepNumber: payload.StepNumber,
			Reason:     payload.Reason,
			AdminID:    adminID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orderDetailResponse{Order: order, Progress: orders.Progress(order)})
	}
}
