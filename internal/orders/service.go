package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arjunkhanna/secondmart-backend/internal/refdata"
	"github.com/arjunkhanna/secondmart-backend/pkg/db"
	"github.com/arjunkhanna/secondmart-backend/pkg/db/models"
	"github.com/arjunkhanna/secondmart-backend/pkg/enums"
	pkgerrors "github.com/arjunkhanna/secondmart-backend/pkg/errors"
	"github.com/arjunkhanna/secondmart-backend/pkg/pagination"
)

const sourcePaymentConstraint = "idx_orders_source_payment"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service owns the 7-step fulfillment state machine per order.
type Service interface {
	CreateFromPayment(ctx context.Context, proof *models.PaymentProof) (*models.Order, error)
	CompleteStep(ctx context.Context, input CompleteStepInput) (*models.Order, error)
	FailStep(ctx context.Context, input FailStepInput) (*models.Order, error)
	Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	List(ctx context.Context, params ListParams) (*pagination.Result[models.Order], error)
	// MarkSellerPaymentCompleted records a finished payout on the order and
	// closes it out. Runs inside the caller's transaction.
	MarkSellerPaymentCompleted(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) error
	// MarkSellerPaymentFailed records a failed payout without touching the
	// step pipeline.
	MarkSellerPaymentFailed(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) error
}

// CompleteStepInput captures the data required to complete the current step.
type CompleteStepInput struct {
	OrderID    uuid.UUID
	StepNumber int
	Details    string
	AdminID    uuid.UUID
}

// FailStepInput captures the data required to fail a step terminally.
type FailStepInput struct {
	OrderID    uuid.UUID
	StepNumber int
	Reason     string
	AdminID    uuid.UUID
}

// ListParams configures the paginated admin order list.
type ListParams struct {
	Filters ListFilters
	pagination.Params
}

type service struct {
	repo    Repository
	tx      txRunner
	refdata refdata.Service
	now     func() time.Time
}

// NewService builds the fulfillment engine with the required dependencies.
func NewService(repo Repository, tx txRunner, ref refdata.Service) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if ref == nil {
		return nil, fmt.Errorf("refdata service required")
	}
	return &service{
		repo:    repo,
		tx:      tx,
		refdata: ref,
		now:     time.Now,
	}, nil
}

// Progress returns the completed fraction of the pipeline in [0,1].
func Progress(order *models.Order) float64 {
	if order == nil {
		return 0
	}
	completed := 0
	for _, step := range order.Steps {
		if step.Status == enums.StepStatusCompleted {
			completed++
		}
	}
	return float64(completed) / float64(StepCount)
}

func (s *service) CreateFromPayment(ctx context.Context, proof *models.PaymentProof) (*models.Order, error) {
	if proof == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment proof required")
	}
	if proof.Status != enums.PaymentProofStatusVerified {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "payment proof is not verified")
	}

	now := s.now().UTC()
	verifiedAt := now
	if proof.VerifiedAt != nil {
		verifiedAt = *proof.VerifiedAt
	}

	listing := s.refdata.ListingSummary(ctx, proof.ListingID)
	order := &models.Order{
		SourcePaymentID: proof.ID,
		ListingID:       proof.ListingID,
		BuyerID:         proof.BuyerID,
		SellerID:        listing.SellerID,
		BuyerContact:    s.refdata.UserContact(ctx, proof.BuyerID),
		SellerContact:   s.refdata.UserContact(ctx, listing.SellerID),
		ProductTitle:    listing.Title,
		AmountCents:     proof.AmountCents,
		Status:          enums.OrderStatusInProgress,
		// The reconciler only sees verified proofs, so the payment step is
		// completed at creation and fulfillment starts at step 2.
		CurrentStep:         StepPaymentVerified + 1,
		SellerPaymentStatus: enums.SellerPaymentStatusPending,
	}

	steps := make([]models.OrderStep, 0, StepCount)
	for number := 1; number <= StepCount; number++ {
		step := models.OrderStep{
			StepNumber: number,
			Name:       StepName(number),
			Status:     enums.StepStatusPending,
		}
		if number == StepPaymentVerified {
			details := "Payment verified against submitted proof"
			step.Status = enums.StepStatusCompleted
			step.Details = &details
			step.CompletedAt = &verifiedAt
		}
		steps = append(steps, step)
	}
	order.Steps = steps

	created, err := s.repo.CreateOrder(ctx, order)
	if err != nil {
		if db.IsUniqueViolation(err, sourcePaymentConstraint) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDuplicateLink, err, "payment already linked to an order").
				WithDetails(map[string]any{"source_payment_id": proof.ID})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}
	return created, nil
}

func (s *service) CompleteStep(ctx context.Context, input CompleteStepInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.StepNumber < 1 || input.StepNumber > StepCount {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "step number out of range")
	}
	if strings.TrimSpace(input.Details) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "step details required")
	}
	if input.AdminID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "admin identity missing")
	}

	details := strings.TrimSpace(input.Details)
	now := s.now().UTC()

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindByID(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order.Status.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeOrderTerminal, "order accepts no further steps").
				WithDetails(map[string]any{"status": order.Status})
		}
		if input.StepNumber != order.CurrentStep {
			if input.StepNumber < order.CurrentStep {
				return pkgerrors.New(pkgerrors.CodeAlreadyCompleted, "step already completed").
					WithDetails(map[string]any{"step": input.StepNumber, "current_step": order.CurrentStep})
			}
			return pkgerrors.New(pkgerrors.CodeOutOfOrderStep, "previous steps are still pending").
				WithDetails(map[string]any{"step": input.StepNumber, "current_step": order.CurrentStep})
		}

		rows, err := repo.CompleteStepIfPending(ctx, order.ID, input.StepNumber, details, now)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "complete step")
		}
		if rows == 0 {
			return pkgerrors.New(pkgerrors.CodeAlreadyCompleted, "step already completed").
				WithDetails(map[string]any{"step": input.StepNumber})
		}

		updates := map[string]any{"current_step": input.StepNumber + 1}
		if input.StepNumber == StepCount {
			updates["status"] = enums.OrderStatusCompleted
			updates["completed_at"] = now
		}
		rows, err = repo.AdvanceIfCurrent(ctx, order.ID, input.StepNumber, updates)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "advance order")
		}
		if rows == 0 {
			// A concurrent mutation moved the order first; the step update
			// above rolls back with this transaction.
			return pkgerrors.New(pkgerrors.CodeAlreadyCompleted, "order advanced concurrently").
				WithDetails(map[string]any{"step": input.StepNumber})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, input.OrderID)
}

func (s *service) FailStep(ctx context.Context, input FailStepInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.StepNumber < 1 || input.StepNumber > StepCount {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "step number out of range")
	}
	if strings.TrimSpace(input.Reason) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "failure reason required")
	}
	if input.AdminID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "admin identity missing")
	}

	reason := strings.TrimSpace(input.Reason)
	now := s.now().UTC()

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindByID(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order.Status.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeOrderTerminal, "order accepts no further steps").
				WithDetails(map[string]any{"status": order.Status})
		}

		rows, err := repo.FailStepIfPending(ctx, order.ID, input.StepNumber, reason)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fail step")
		}
		if rows == 0 {
			return pkgerrors.New(pkgerrors.CodeAlreadyCompleted, "step already decided").
				WithDetails(map[string]any{"step": input.StepNumber})
		}

		rows, err = repo.UpdateIfInProgress(ctx, order.ID, map[string]any{
			"status":         enums.OrderStatusFailed,
			"failure_reason": reason,
			"failed_at":      now,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark order failed")
		}
		if rows == 0 {
			return pkgerrors.New(pkgerrors.CodeOrderTerminal, "order reached a terminal state concurrently")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, input.OrderID)
}

func (s *service) Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*pagination.Result[models.Order], error) {
	if params.Filters.Status != nil && !params.Filters.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	if params.Filters.Step != nil && (*params.Filters.Step < 1 || *params.Filters.Step > StepCount+1) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "step filter out of range")
	}
	page := params.Normalize()
	rows, total, err := s.repo.List(ctx, params.Filters, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return pagination.NewResult(rows, page, total), nil
}

func (s *service) MarkSellerPaymentCompleted(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) error {
	if orderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	repo := s.repo.WithTx(tx)
	updates := map[string]any{
		"seller_payment_status": enums.SellerPaymentStatusCompleted,
		"status":                enums.OrderStatusCompleted,
		"completed_at":          s.now().UTC(),
	}
	if err := repo.UpdateSellerPayment(ctx, orderID, updates); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark seller payment completed")
	}
	return nil
}

func (s *service) MarkSellerPaymentFailed(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) error {
	if orderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	repo := s.repo.WithTx(tx)
	updates := map[string]any{
		"seller_payment_status": enums.SellerPaymentStatusFailed,
	}
	if err := repo.UpdateSellerPayment(ctx, orderID, updates); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark seller payment failed")
	}
	return nil
}
