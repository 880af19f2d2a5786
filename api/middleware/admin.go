package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/arjunkhanna/secondmart-backend/api/responses"
	pkgerrors "github.com/arjunkhanna/secondmart-backend/pkg/errors"
	"github.com/arjunkhanna/secondmart-backend/pkg/logger"
)

const adminIDHeader = "X-Admin-Id"

// AdminContext requires a valid admin identifier header on every request and
// injects it into the request context and log fields.
func AdminContext(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get(adminIDHeader))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "admin identity header missing"))
				return
			}
			adminID, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid admin identity header"))
				return
			}

			ctx := WithAdminID(r.Context(), adminID.String())
			if logg != nil {
				ctx = logg.WithAdminID(ctx, adminID.String())
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
