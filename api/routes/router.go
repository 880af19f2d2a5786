package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/arjunkhanna/secondmart-backend/api/controllers"
	"github.com/arjunkhanna/secondmart-backend/api/middleware"
	"github.com/arjunkhanna/secondmart-backend/internal/aggregation"
	"github.com/arjunkhanna/secondmart-backend/internal/notifications"
	"github.com/arjunkhanna/secondmart-backend/internal/orders"
	"github.com/arjunkhanna/secondmart-backend/internal/payments"
	"github.com/arjunkhanna/secondmart-backend/internal/reconcile"
	"github.com/arjunkhanna/secondmart-backend/internal/settlements"
	"github.com/arjunkhanna/secondmart-backend/pkg/config"
	"github.com/arjunkhanna/secondmart-backend/pkg/db"
	"github.com/arjunkhanna/secondmart-backend/pkg/logger"
	"github.com/arjunkhanna/secondmart-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	paymentsSvc payments.Service,
	ordersSvc orders.Service,
	settlementsSvc settlements.Service,
	aggregationSvc aggregation.Service,
	notificationsSvc notifications.Service,
	reconcileJob *reconcile.Job,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/payments", controllers.SubmitPaymentProof(paymentsSvc, logg))

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(notificationsSvc, logg))
			r.Post("/{notificationId}/read", controllers.MarkNotificationRead(notificationsSvc, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(notificationsSvc, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.AdminContext(logg))

		r.Route("/payments", func(r chi.Router) {
			r.Get("/", controllers.AdminListPayments(paymentsSvc, logg))
			r.Post("/{paymentId}/verify", controllers.AdminVerifyPayment(paymentsSvc, logg))
			r.Post("/{paymentId}/reject", controllers.AdminRejectPayment(paymentsSvc, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminListOrders(ordersSvc, logg))
			r.Get("/{orderId}", controllers.AdminOrderDetail(ordersSvc, logg))
			r.Post("/{orderId}/steps/complete", controllers.AdminCompleteStep(ordersSvc, logg))
			r.Post("/{orderId}/steps/fail", controllers.AdminFailStep(ordersSvc, logg))
		})

		r.Route("/settlements", func(r chi.Router) {
			r.Get("/", controllers.AdminListSettlements(settlementsSvc, logg))
			r.Post("/", controllers.AdminRequestPayout(settlementsSvc, logg))
			r.Get("/{transactionId}", controllers.AdminSettlementDetail(settlementsSvc, logg))
			r.Patch("/{transactionId}/status", controllers.AdminUpdateSettlement(settlementsSvc, logg))
		})

		r.Route("/commission", func(r chi.Router) {
			r.Get("/", controllers.AdminGetCommission(settlementsSvc, logg))
			r.Put("/", controllers.AdminUpdateCommission(settlementsSvc, logg))
		})

		r.Get("/dashboard", controllers.AdminDashboard(aggregationSvc, logg))
		r.Post("/reconciliation/run", controllers.AdminRunReconciliation(reconcileJob, logg))
	})

	return r
}
