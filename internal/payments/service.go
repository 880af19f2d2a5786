package payments

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arjunkhanna/secondmart-backend/pkg/db/models"
	"github.com/arjunkhanna/secondmart-backend/pkg/enums"
	pkgerrors "github.com/arjunkhanna/secondmart-backend/pkg/errors"
	"github.com/arjunkhanna/secondmart-backend/pkg/pagination"
)

// Service defines payment proof submission and review operations.
type Service interface {
	SubmitProof(ctx context.Context, input SubmitProofInput) (*models.PaymentProof, error)
	Verify(ctx context.Context, proofID, adminID uuid.UUID) (*models.PaymentProof, error)
	Reject(ctx context.Context, proofID, adminID uuid.UUID, reason string) (*models.PaymentProof, error)
	ListByStatus(ctx context.Context, params ListParams) (*pagination.Result[models.PaymentProof], error)
}

// SubmitProofInput carries the buyer-submitted payment evidence.
type SubmitProofInput struct {
	BuyerID          uuid.UUID
	ListingID        uuid.UUID
	AmountCents      int64
	PaymentMethod    enums.PaymentMethod
	PaymentReference string
}

// ListParams configures the paginated review queue.
type ListParams struct {
	Status enums.PaymentProofStatus
	pagination.Params
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService wires the payment verification dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "payments repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

func (s *service) SubmitProof(ctx context.Context, input SubmitProofInput) (*models.PaymentProof, error) {
	if input.BuyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer id required")
	}
	if input.ListingID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "listing id required")
	}
	if input.AmountCents <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	if strings.TrimSpace(input.PaymentReference) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment reference required")
	}
	method := input.PaymentMethod
	if method == "" {
		method = enums.PaymentMethodUPI
	}
	if !method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}

	proof := &models.PaymentProof{
		BuyerID:          input.BuyerID,
		ListingID:        input.ListingID,
		AmountCents:      input.AmountCents,
		PaymentMethod:    method,
		PaymentReference: strings.TrimSpace(input.PaymentReference),
		Status:           enums.PaymentProofStatusPendingVerification,
	}
	created, err := s.repo.Create(ctx, proof)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create payment proof")
	}
	return created, nil
}

func (s *service) Verify(ctx context.Context, proofID, adminID uuid.UUID) (*models.PaymentProof, error) {
	if proofID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "proof id required")
	}
	if adminID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "admin identity missing")
	}

	now := s.now().UTC()
	updates := map[string]any{
		"status":      enums.PaymentProofStatusVerified,
		"verified_at": now,
		"reviewed_by": adminID,
	}
	rows, err := s.repo.UpdateIfPending(ctx, proofID, updates)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "verify payment proof")
	}
	if rows == 0 {
		return nil, s.classifyDecisionConflict(ctx, proofID)
	}
	return s.reload(ctx, proofID)
}

func (s *service) Reject(ctx context.Context, proofID, adminID uuid.UUID, reason string) (*models.PaymentProof, error) {
	if proofID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "proof id required")
	}
	if adminID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "admin identity missing")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rejection reason required")
	}

	updates := map[string]any{
		"status":           enums.PaymentProofStatusRejected,
		"rejection_reason": reason,
		"reviewed_by":      adminID,
	}
	rows, err := s.repo.UpdateIfPending(ctx, proofID, updates)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reject payment proof")
	}
	if rows == 0 {
		return nil, s.classifyDecisionConflict(ctx, proofID)
	}
	return s.reload(ctx, proofID)
}

func (s *service) ListByStatus(ctx context.Context, params ListParams) (*pagination.Result[models.PaymentProof], error) {
	if params.Status != "" && !params.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment proof status")
	}
	page := params.Normalize()
	proofs, total, err := s.repo.ListByStatus(ctx, params.Status, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list payment proofs")
	}
	return pagination.NewResult(proofs, page, total), nil
}

// classifyDecisionConflict explains why a conditional review update matched no
// rows: the proof is gone, or it was already decided.
func (s *service) classifyDecisionConflict(ctx context.Context, proofID uuid.UUID) error {
	proof, err := s.repo.FindByID(ctx, proofID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "payment proof not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payment proof")
	}
	return pkgerrors.New(pkgerrors.CodeStateConflict, "payment proof already reviewed").
		WithDetails(map[string]any{"status": proof.Status})
}

func (s *service) reload(ctx context.Context, proofID uuid.UUID) (*models.PaymentProof, error) {
	proof, err := s.repo.FindByID(ctx, proofID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload payment proof")
	}
	return proof, nil
}
