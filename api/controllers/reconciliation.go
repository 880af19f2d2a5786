package controllers

import (
	"net/http"

	"github.com/arjunkhanna/secondmart-backend/api/responses"
	"github.com/arjunkhanna/secondmart-backend/internal/reconcile"
	pkgerrors "github.com/arjunkhanna/secondmart-backend/pkg/errors"
	"github.com/arjunkhanna/secondmart-backend/pkg/logger"
)

// AdminRunReconciliation triggers an on-demand reconciliation sweep and
// returns the per-proof counts. Per-item failures show up in the failed
// count; only a sweep that could not query its batch is an error.
func AdminRunReconciliation(job *reconcile.Job, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := adminIDFromRequest(r); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := job.Sweep(r.Context())
		if err != nil && result.Failed == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reconciliation sweep failed"))
			return
		}
		responses.WriteSuccessStatus(w, http.StatusAccepted, result)
	}
}
