package controllers

import (
	"net/http"

	"github.com/arjunkhanna/secondmart-backend/api/responses"
	"github.com/arjunkhanna/secondmart-backend/internal/aggregation"
	"github.com/arjunkhanna/secondmart-backend/pkg/logger"
)

// AdminDashboard returns the combined order, payment, and settlement rollups.
func AdminDashboard(svc aggregation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dashboard, err := svc.Dashboard(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dashboard)
	}
}
