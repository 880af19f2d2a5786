package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/arjunkhanna/secondmart-backend/internal/aggregation"
	"github.com/arjunkhanna/secondmart-backend/internal/notifications"
	"github.com/arjunkhanna/secondmart-backend/internal/orders"
	"github.com/arjunkhanna/secondmart-backend/internal/payments"
	"github.com/arjunkhanna/secondmart-backend/internal/reconcile"
	"github.com/arjunkhanna/secondmart-backend/internal/settlements"
	"github.com/arjunkhanna/secondmart-backend/pkg/config"
	"github.com/arjunkhanna/secondmart-backend/pkg/db/models"
	"github.com/arjunkhanna/secondmart-backend/pkg/enums"
	"github.com/arjunkhanna/secondmart-backend/pkg/logger"
	"github.com/arjunkhanna/secondmart-backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubPaymentsService struct {
	submit func(ctx context.Context, input payments.SubmitProofInput) (*models.PaymentProof, error)
}

func (s stubPaymentsService) SubmitProof(ctx context.Context, input payments.SubmitProofInput) (*models.PaymentProof, error) {
	if s.submit != nil {
		return s.submit(ctx, input)
	}
	return &models.PaymentProof{ID: uuid.New(), Status: enums.PaymentProofStatusPendingVerification}, nil
}

func (stubPaymentsService) Verify(ctx context.Context, proofID, adminID uuid.UUID) (*models.PaymentProof, error) {
	return &models.PaymentProof{ID: proofID, Status: enums.PaymentProofStatusVerified}, nil
}

func (stubPaymentsService) Reject(ctx context.Context, proofID, adminID uuid.UUID, reason string) (*models.PaymentProof, error) {
	panic("unimplemented")
}

func (stubPaymentsService) ListByStatus(ctx context.Context, params payments.ListParams) (*pagination.Result[models.PaymentProof], error) {
	return pagination.NewResult[models.PaymentProof](nil, params.Normalize(), 0), nil
}

type stubOrdersService struct{}

func (stubOrdersService) CreateFromPayment(ctx context.Context, proof *models.PaymentProof) (*models.Order, error) {
	panic("unimplemented")
}

func (stubOrdersService) CompleteStep(ctx context.Context, input orders.CompleteStepInput) (*models.Order, error) {
	panic("unimplemented")
}

func (stubOrdersService) FailStep(ctx context.Context, input orders.FailStepInput) (*models.Order, error) {
	panic("unimplemented")
}

func (stubOrdersService) Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	return &models.Order{ID: orderID, Status: enums.OrderStatusInProgress, CurrentStep: 2}, nil
}

func (stubOrdersService) List(ctx context.Context, params orders.ListParams) (*pagination.Result[models.Order], error) {
	return pagination.NewResult[models.Order](nil, params.Normalize(), 0), nil
}

func (stubOrdersService) MarkSellerPaymentCompleted(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) error {
	panic("unimplemented")
}

func (stubOrdersService) MarkSellerPaymentFailed(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) error {
	panic("unimplemented")
}

type stubSettlementsService struct{}

func (stubSettlementsService) RequestPayout(ctx context.Context, input settlements.RequestPayoutInput) (*models.SellerTransaction, error) {
	panic("unimplemented")
}

func (stubSettlementsService) UpdateStatus(ctx context.Context, input settlements.UpdateStatusInput) (*models.SellerTransaction, error) {
	panic("unimplemented")
}

func (stubSettlementsService) Get(ctx context.Context, transactionID uuid.UUID) (*models.SellerTransaction, error) {
	panic("unimplemented")
}

func (stubSettlementsService) List(ctx context.Context, params settlements.ListParams) (*pagination.Result[models.SellerTransaction], error) {
	return pagination.NewResult[models.SellerTransaction](nil, params.Normalize(), 0), nil
}

func (stubSettlementsService) GetCommission(ctx context.Context) (*models.CommissionSetting, error) {
	return &models.CommissionSetting{ID: models.CommissionSettingID, CommissionPercent: decimal.NewFromInt(10)}, nil
}

func (stubSettlementsService) UpdateCommission(ctx context.Context, percent decimal.Decimal, adminID uuid.UUID) (*models.CommissionSetting, error) {
	panic("unimplemented")
}

type stubAggregationService struct{}

func (stubAggregationService) OrderStatusCounts(ctx context.Context) (*aggregation.OrderCounts, error) {
	panic("unimplemented")
}

func (stubAggregationService) PaymentStatusCounts(ctx context.Context) (*aggregation.PaymentCounts, error) {
	panic("unimplemented")
}

func (stubAggregationService) SettlementSummary(ctx context.Context) (*aggregation.SettlementSummary, error) {
	panic("unimplemented")
}

func (stubAggregationService) Dashboard(ctx context.Context) (*aggregation.Dashboard, error) {
	return &aggregation.Dashboard{}, nil
}

type stubNotificationsService struct{}

func (stubNotificationsService) Notify(ctx context.Context, input notifications.NotifyInput) (*models.Notification, error) {
	panic("unimplemented")
}

func (stubNotificationsService) List(ctx context.Context, params notifications.ListParams) (*pagination.Result[models.Notification], error) {
	return pagination.NewResult[models.Notification](nil, params.Normalize(), 0), nil
}

func (stubNotificationsService) MarkRead(ctx context.Context, recipientID, notificationID uuid.UUID) error {
	return nil
}

func (stubNotificationsService) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	return 0, nil
}

type stubUnlinkedReader struct{}

func (stubUnlinkedReader) ListVerifiedUnlinked(context.Context, int) ([]models.PaymentProof, error) {
	return nil, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
	}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	job, err := reconcile.NewJob(reconcile.JobParams{
		Logger: logg,
		Proofs: stubUnlinkedReader{},
		Orders: stubOrdersService{},
	})
	if err != nil {
		t.Fatalf("build reconcile job: %v", err)
	}
	return NewRouter(
		testConfig(),
		logg,
		stubPinger{},
		stubPinger{},
		stubPaymentsService{},
		stubOrdersService{},
		stubSettlementsService{},
		stubAggregationService{},
		stubNotificationsService{},
		job,
	)
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for liveness got %d", resp.Code)
	}
}

func TestHealthReady(t *testing.T) {
	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for readiness got %d", resp.Code)
	}
}

func TestAdminGroupRequiresAdminHeader(t *testing.T) {
	router := newTestRouter(t)

	anonymous := httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, anonymous)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without admin header got %d", resp.Code)
	}

	malformed := httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders", nil)
	malformed.Header.Set("X-Admin-Id", "not-a-uuid")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, malformed)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for malformed admin header got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders", nil)
	admin.Header.Set("X-Admin-Id", uuid.NewString())
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin list got %d", resp.Code)
	}
}

func TestSubmitPaymentRejectsBadJSON(t *testing.T) {
	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid payload got %d", resp.Code)
	}
}

func TestSubmitPaymentAcceptsGoodJSON(t *testing.T) {
	router := newTestRouter(t)
	body := `{"buyer_id":"` + uuid.NewString() + `","listing_id":"` + uuid.NewString() + `","amount_cents":250000,"payment_reference":"UPI-1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 for valid payload got %d", resp.Code)
	}
}

func TestNotificationsRequireRecipient(t *testing.T) {
	router := newTestRouter(t)

	missing := httptest.NewRequest(http.MethodGet, "/api/v1/notifications", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, missing)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without recipient_id got %d", resp.Code)
	}

	scoped := httptest.NewRequest(http.MethodGet, "/api/v1/notifications?recipient_id="+uuid.NewString(), nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, scoped)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for scoped list got %d", resp.Code)
	}
}

func TestReconciliationRunEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/reconciliation/run", nil)
	req.Header.Set("X-Admin-Id", uuid.NewString())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusAccepted {
		t.Fatalf("expected 202 for reconciliation run got %d", resp.Code)
	}

	var envelope struct {
		Data reconcile.Result `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode reconciliation response: %v", err)
	}
	want := reconcile.Result{}
	if envelope.Data != want {
		t.Fatalf("expected empty sweep counts, got %+v", envelope.Data)
	}
}

func TestAdminListOrdersStepFilter(t *testing.T) {
	router := newTestRouter(t)

	filtered := httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders?step=3", nil)
	filtered.Header.Set("X-Admin-Id", uuid.NewString())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, filtered)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for step filter got %d", resp.Code)
	}

	outOfRange := httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders?step=0", nil)
	outOfRange.Header.Set("X-Admin-Id", uuid.NewString())
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, outOfRange)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for out-of-range step got %d", resp.Code)
	}
}
