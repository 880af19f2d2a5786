package reconcile

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/arjunkhanna/secondmart-backend/pkg/db/models"
	pkgerrors "github.com/arjunkhanna/secondmart-backend/pkg/errors"
	"github.com/arjunkhanna/secondmart-backend/pkg/logger"
)

// DefaultBatchLimit bounds how many unlinked proofs a single sweep handles.
const DefaultBatchLimit = 250

type unlinkedProofReader interface {
	ListVerifiedUnlinked(ctx context.Context, limit int) ([]models.PaymentProof, error)
}

type orderCreator interface {
	CreateFromPayment(ctx context.Context, proof *models.PaymentProof) (*models.Order, error)
}

// JobParams configure the payment-to-order reconciliation sweep.
type JobParams struct {
	Logger     *logger.Logger
	Proofs     unlinkedProofReader
	Orders     orderCreator
	BatchLimit int
}

// NewJob builds the cron job that creates orders for verified payments that
// have none yet.
func NewJob(params JobParams) (*Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Proofs == nil {
		return nil, fmt.Errorf("payment proof reader required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("order creator required")
	}
	limit := params.BatchLimit
	if limit <= 0 {
		limit = DefaultBatchLimit
	}
	return &Job{
		logg:   params.Logger,
		proofs: params.Proofs,
		orders: params.Orders,
		limit:  limit,
		now:    time.Now,
	}, nil
}

// Job sweeps verified payment proofs without orders and creates one per
// proof. Each proof is handled independently so one failure never blocks the
// rest of the batch.
type Job struct {
	logg   *logger.Logger
	proofs unlinkedProofReader
	orders orderCreator
	limit  int
	now    func() time.Time
}

func (j *Job) Name() string { return "payment-reconcile" }

// Result summarizes one sweep: how many proofs were scanned, how many orders
// were created, how many proofs were already linked, and how many failed.
type Result struct {
	Scanned int `json:"scanned"`
	Created int `json:"created"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// Sweep processes one batch of unlinked proofs and reports per-proof
// outcomes. Failures are aggregated into the returned error without
// interrupting the batch.
func (j *Job) Sweep(ctx context.Context) (Result, error) {
	started := j.now()
	proofs, err := j.proofs.ListVerifiedUnlinked(ctx, j.limit)
	if err != nil {
		return Result{}, fmt.Errorf("query unlinked payment proofs: %w", err)
	}

	result := Result{Scanned: len(proofs)}
	var errs []error
	for _, proof := range proofs {
		_, err := j.orders.CreateFromPayment(ctx, &proof)
		if err != nil {
			// Another sweep or admin action linked the proof first. The
			// payment still ends up with exactly one order, so move on.
			if pkgerrors.HasCode(err, pkgerrors.CodeDuplicateLink) {
				result.Skipped++
				continue
			}
			logCtx := j.logg.WithField(ctx, "payment_proof_id", proof.ID.String())
			j.logg.Error(logCtx, "reconcile payment proof failed", err)
			errs = append(errs, fmt.Errorf("proof %s: %w", proof.ID, err))
			result.Failed++
			continue
		}
		result.Created++
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"scanned":     result.Scanned,
		"created":     result.Created,
		"skipped":     result.Skipped,
		"failed":      result.Failed,
		"duration_ms": j.now().Sub(started).Milliseconds(),
	})
	j.logg.Info(logCtx, "payment reconciliation sweep complete")
	return result, multierr.Combine(errs...)
}

// Run adapts Sweep to the cron job contract.
func (j *Job) Run(ctx context.Context) error {
	_, err := j.Sweep(ctx)
	return err
}
