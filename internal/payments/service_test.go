package payments

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/arjunkhanna/secondmart-backend/pkg/db/models"
	"github.com/arjunkhanna/secondmart-backend/pkg/enums"
	pkgerrors "github.com/arjunkhanna/secondmart-backend/pkg/errors"
	"github.com/arjunkhanna/secondmart-backend/pkg/pagination"
)

func setupPaymentsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	proofs := `
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
);`
	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  source_payment_id TEXT NOT NULL UNIQUE,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(proofs).Error)
	require.NoError(t, db.Exec(orders).Error)
	return db
}

func newPaymentsService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)
	return svc
}

func submitTestProof(t *testing.T, svc Service) *models.PaymentProof {
	t.Helper()
	proof, err := svc.SubmitProof(context.Background(), SubmitProofInput{
		BuyerID:          uuid.New(),
		ListingID:        uuid.New(),
		AmountCents:      125000,
		PaymentReference: "UPI-TXN-9001",
	})
	require.NoError(t, err)
	return proof
}

func TestSubmitProofDefaultsToUPI(t *testing.T) {
	db := setupPaymentsTestDB(t)
	svc := newPaymentsService(t, db)

	proof := submitTestProof(t, svc)
	assert.NotEqual(t, uuid.Nil, proof.ID)
	assert.Equal(t, enums.PaymentMethodUPI, proof.PaymentMethod)
	assert.Equal(t, enums.PaymentProofStatusPendingVerification, proof.Status)
}

func TestSubmitProofValidation(t *testing.T) {
	db := setupPaymentsTestDB(t)
	svc := newPaymentsService(t, db)

	cases := []struct {
		name  string
		input SubmitProofInput
	}{
		{"missing buyer", SubmitProofInput{ListingID: uuid.New(), AmountCents: 100, PaymentReference: "ref"}},
		{"missing listing", SubmitProofInput{BuyerID: uuid.New(), AmountCents: 100, PaymentReference: "ref"}},
		{"non-positive amount", SubmitProofInput{BuyerID: uuid.New(), ListingID: uuid.New(), PaymentReference: "ref"}},
		{"blank reference", SubmitProofInput{BuyerID: uuid.New(), ListingID: uuid.New(), AmountCents: 100, PaymentReference: "  "}},
		{"bad method", SubmitProofInput{BuyerID: uuid.New(), ListingID: uuid.New(), AmountCents: 100, PaymentReference: "ref", PaymentMethod: "cheque"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.SubmitProof(context.Background(), tc.input)
			assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
		})
	}
}

func TestVerifyMarksProofAndRecordsReviewer(t *testing.T) {
	db := setupPaymentsTestDB(t)
	svc := newPaymentsService(t, db)
	adminID := uuid.New()

	proof := submitTestProof(t, svc)
	verified, err := svc.Verify(context.Background(), proof.ID, adminID)
	require.NoError(t, err)

	assert.Equal(t, enums.PaymentProofStatusVerified, verified.Status)
	assert.NotNil(t, verified.VerifiedAt)
	require.NotNil(t, verified.ReviewedBy)
	assert.Equal(t, adminID, *verified.ReviewedBy)
}

func TestVerifyTwiceReportsConflict(t *testing.T) {
	db := setupPaymentsTestDB(t)
	svc := newPaymentsService(t, db)
	adminID := uuid.New()

	proof := submitTestProof(t, svc)
	_, err := svc.Verify(context.Background(), proof.ID, adminID)
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), proof.ID, adminID)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeStateConflict))

	_, err = svc.Reject(context.Background(), proof.ID, adminID, "late rejection")
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeStateConflict))
}

func TestVerifyUnknownProofIsNotFound(t *testing.T) {
	db := setupPaymentsTestDB(t)
	svc := newPaymentsService(t, db)

	_, err := svc.Verify(context.Background(), uuid.New(), uuid.New())
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}

func TestRejectRequiresReason(t *testing.T) {
	db := setupPaymentsTestDB(t)
	svc := newPaymentsService(t, db)

	proof := submitTestProof(t, svc)
	_, err := svc.Reject(context.Background(), proof.ID, uuid.New(), "  ")
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	rejected, err := svc.Reject(context.Background(), proof.ID, uuid.New(), "amount mismatch")
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentProofStatusRejected, rejected.Status)
	require.NotNil(t, rejected.RejectionReason)
	assert.Equal(t, "amount mismatch", *rejected.RejectionReason)
}

func TestListByStatusFiltersQueue(t *testing.T) {
	db := setupPaymentsTestDB(t)
	svc := newPaymentsService(t, db)
	adminID := uuid.New()

	first := submitTestProof(t, svc)
	submitTestProof(t, svc)
	_, err := svc.Verify(context.Background(), first.ID, adminID)
	require.NoError(t, err)

	pending, err := svc.ListByStatus(context.Background(), ListParams{
		Status: enums.PaymentProofStatusPendingVerification,
		Params: pagination.Params{Page: 1, PageSize: 10},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, pending.TotalCount)

	all, err := svc.ListByStatus(context.Background(), ListParams{Params: pagination.Params{Page: 1, PageSize: 10}})
	require.NoError(t, err)
	assert.EqualValues(t, 2, all.TotalCount)

	_, err = svc.ListByStatus(context.Background(), ListParams{Status: "bogus"})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestListVerifiedUnlinkedSkipsLinkedProofs(t *testing.T) {
	db := setupPaymentsTestDB(t)
	repo := NewRepository(db)
	svc := newPaymentsService(t, db)
	adminID := uuid.New()

	linked := submitTestProof(t, svc)
	unlinked := submitTestProof(t, svc)
	for _, p := range []*models.PaymentProof{linked, unlinked} {
		_, err := svc.Verify(context.Background(), p.ID, adminID)
		require.NoError(t, err)
	}
	// A pending proof must never surface regardless of linkage.
	submitTestProof(t, svc)

	require.NoError(t, db.Exec(
		"INSERT INTO orders (id, source_payment_id, created_at, updated_at) VALUES (?, ?, ?, ?)",
		uuid.New().String(), linked.ID.String(), time.Now().UTC(), time.Now().UTC(),
	).Error)

	proofs, err := repo.ListVerifiedUnlinked(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, proofs, 1)
	assert.Equal(t, unlinked.ID, proofs[0].ID)
}
