package reconcile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/arjunkhanna/secondmart-backend/internal/orders"
	"github.com/arjunkhanna/secondmart-backend/internal/payments"
	"github.com/arjunkhanna/secondmart-backend/internal/refdata"
	"github.com/arjunkhanna/secondmart-backend/pkg/db/models"
	"github.com/arjunkhanna/secondmart-backend/pkg/enums"
	pkgerrors "github.com/arjunkhanna/secondmart-backend/pkg/errors"
	"github.com/arjunkhanna/secondmart-backend/pkg/logger"
)

type stubProofReader struct {
	proofs []models.PaymentProof
	err    error
}

func (s *stubProofReader) ListVerifiedUnlinked(context.Context, int) ([]models.PaymentProof, error) {
	return s.proofs, s.err
}

type stubOrderCreator struct {
	calls   int
	failOn  map[uuid.UUID]error
	created []uuid.UUID
}

func (s *stubOrderCreator) CreateFromPayment(_ context.Context, proof *models.PaymentProof) (*models.Order, error) {
	s.calls++
	if err, ok := s.failOn[proof.ID]; ok {
		return nil, err
	}
	s.created = append(s.created, proof.ID)
	return &models.Order{ID: uuid.New(), SourcePaymentID: proof.ID}, nil
}

func testProofs(n int) []models.PaymentProof {
	proofs := make([]models.PaymentProof, 0, n)
	for i := 0; i < n; i++ {
		proofs = append(proofs, models.PaymentProof{
			ID:     uuid.New(),
			Status: enums.PaymentProofStatusVerified,
		})
	}
	return proofs
}

func newTestJob(t *testing.T, reader *stubProofReader, creator *stubOrderCreator) *Job {
	t.Helper()
	job, err := NewJob(JobParams{
		Logger: logger.New(logger.Options{ServiceName: "test"}),
		Proofs: reader,
		Orders: creator,
	})
	require.NoError(t, err)
	return job
}

func TestSweepCreatesOrderPerProof(t *testing.T) {
	reader := &stubProofReader{proofs: testProofs(3)}
	creator := &stubOrderCreator{}
	job := newTestJob(t, reader, creator)

	result, err := job.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Result{Scanned: 3, Created: 3}, result)
	assert.Equal(t, 3, creator.calls)
	assert.Len(t, creator.created, 3)
}

func TestSweepSkipsDuplicateLinks(t *testing.T) {
	proofs := testProofs(3)
	creator := &stubOrderCreator{failOn: map[uuid.UUID]error{
		proofs[1].ID: pkgerrors.New(pkgerrors.CodeDuplicateLink, "payment already linked to an order"),
	}}
	job := newTestJob(t, &stubProofReader{proofs: proofs}, creator)

	// A raced duplicate is a success from the sweep's point of view.
	result, err := job.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Result{Scanned: 3, Created: 2, Skipped: 1}, result)
	assert.Len(t, creator.created, 2)
}

func TestSweepIsolatesFailuresAndReportsBothCounts(t *testing.T) {
	proofs := testProofs(4)
	boom := errors.New("listing lookup timeout")
	creator := &stubOrderCreator{failOn: map[uuid.UUID]error{
		proofs[0].ID: boom,
		proofs[2].ID: pkgerrors.New(pkgerrors.CodeDependency, "insert failed"),
	}}
	job := newTestJob(t, &stubProofReader{proofs: proofs}, creator)

	result, err := job.Sweep(context.Background())
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)
	assert.ErrorIs(t, err, boom)
	// The two healthy proofs were still processed and both outcomes counted.
	assert.Equal(t, Result{Scanned: 4, Created: 2, Failed: 2}, result)
	assert.Equal(t, 4, creator.calls)
	assert.Len(t, creator.created, 2)
}

func TestSweepFailsFastWhenQueryFails(t *testing.T) {
	reader := &stubProofReader{err: errors.New("connection refused")}
	creator := &stubOrderCreator{}
	job := newTestJob(t, reader, creator)

	result, err := job.Sweep(context.Background())
	require.Error(t, err)
	assert.Equal(t, Result{}, result)
	assert.Equal(t, 0, creator.calls)
}

func TestRunSurfacesSweepError(t *testing.T) {
	proofs := testProofs(2)
	boom := errors.New("insert failed")
	creator := &stubOrderCreator{failOn: map[uuid.UUID]error{proofs[0].ID: boom}}
	job := newTestJob(t, &stubProofReader{proofs: proofs}, creator)

	require.ErrorIs(t, job.Run(context.Background()), boom)

	clean := newTestJob(t, &stubProofReader{proofs: testProofs(2)}, &stubOrderCreator{})
	require.NoError(t, clean.Run(context.Background()))
}

type reconcileRefdata struct{}

func (reconcileRefdata) ListingSummary(context.Context, uuid.UUID) refdata.ListingSummary {
	return refdata.ListingSummary{SellerID: uuid.New(), Title: "Road Bike", PriceCents: 800000, Found: true}
}

func (reconcileRefdata) UserContact(context.Context, uuid.UUID) string { return "buyer@example.com" }

type reconcileTxRunner struct{ db *gorm.DB }

func (r reconcileTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

// Two consecutive sweeps over the same verified proofs must yield exactly one
// order per proof.
func TestSweepTwiceIsIdempotent(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	ddl := []string{`
CREATE TABLE IF NOT EXISTS payment_proofs (
  id TEXT PRIMARY KEY,
  buyer_id TEXT NOT NULL,
  listing_id TEXT NOT NULL,
  amount_cents INTEGER NOT NULL,
  payment_method TEXT NOT NULL DEFAULT 'upi',
  payment_reference TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending_verification',
  rejection_reason TEXT,
  verified_at DATETIME,
  reviewed_by TEXT,
  submitted_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  source_payment_id TEXT NOT NULL UNIQUE,
  listing_id TEXT NOT NULL,
  buyer_id TEXT NOT NULL,
  seller_id TEXT NOT NULL,
  buyer_contact TEXT NOT NULL,
  seller_contact TEXT NOT NULL,
  product_title TEXT NOT NULL,
  amount_cents INTEGER NOT NULL,
  status TEXT NOT NULL DEFAULT 'in_progress',
  current_step INTEGER NOT NULL DEFAULT 1,
  seller_payment_status TEXT NOT NULL DEFAULT 'pending',
  failure_reason TEXT,
  completed_at DATETIME,
  failed_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS order_steps (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  step_number INTEGER NOT NULL,
  name TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  details TEXT,
  completed_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE(order_id, step_number)
);`}
	for _, stmt := range ddl {
		require.NoError(t, db.Exec(stmt).Error)
	}

	now := time.Now().UTC()
	paymentsRepo := payments.NewRepository(db)
	for i := 0; i < 3; i++ {
		_, err := paymentsRepo.Create(context.Background(), &models.PaymentProof{
			BuyerID:          uuid.New(),
			ListingID:        uuid.New(),
			AmountCents:      50000,
			PaymentMethod:    enums.PaymentMethodUPI,
			PaymentReference: "UPI-SWEEP",
			Status:           enums.PaymentProofStatusVerified,
			VerifiedAt:       &now,
		})
		require.NoError(t, err)
	}

	ordersSvc, err := orders.NewService(orders.NewRepository(db), reconcileTxRunner{db: db}, reconcileRefdata{})
	require.NoError(t, err)
	job, err := NewJob(JobParams{
		Logger: logger.New(logger.Options{ServiceName: "test"}),
		Proofs: paymentsRepo,
		Orders: ordersSvc,
	})
	require.NoError(t, err)

	first, err := job.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Result{Scanned: 3, Created: 3}, first)

	second, err := job.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Result{}, second)

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.EqualValues(t, 3, count)
}
