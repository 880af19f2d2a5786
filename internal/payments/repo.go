package payments

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arjunkhanna/secondmart-backend/pkg/db/models"
	"github.com/arjunkhanna/secondmart-backend/pkg/enums"
	"github.com/arjunkhanna/secondmart-backend/pkg/pagination"
)

// Repository defines persistence operations for payment proofs.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, proof *models.PaymentProof) (*models.PaymentProof, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.PaymentProof, error)
	// UpdateIfPending applies updates only while the proof is still awaiting
	// review and reports how many rows changed. Zero rows means the proof was
	// already decided or does not exist.
	UpdateIfPending(ctx context.Context, id uuid.UUID, updates map[string]any) (int64, error)
	ListByStatus(ctx context.Context, status enums.PaymentProofStatus, page pagination.Page) ([]models.PaymentProof, int64, error)
	// ListVerifiedUnlinked returns verified proofs that have no order linked
	// via orders.source_payment_id, oldest first.
	ListVerifiedUnlinked(ctx context.Context, limit int) ([]models.PaymentProof, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a payment proof repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, proof *models.PaymentProof) (*models.PaymentProof, error) {
	if proof.ID == uuid.Nil {
		proof.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(proof).Error; err != nil {
		return nil, err
	}
	return proof, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.PaymentProof, error) {
	var proof models.PaymentProof
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&proof).Error
	if err != nil {
		return nil, err
	}
	return &proof, nil
}

func (r *repository) UpdateIfPending(ctx context.Context, id uuid.UUID, updates map[string]any) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.PaymentProof{}).
		Where("id = ? AND status = ?", id, enums.PaymentProofStatusPendingVerification).
		Updates(updates)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *repository) ListByStatus(ctx context.Context, status enums.PaymentProofStatus, page pagination.Page) ([]models.PaymentProof, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.PaymentProof{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var proofs []models.PaymentProof
	err := query.
		Order("submitted_at DESC").
		Order("id DESC").
		Limit(page.Size).
		Offset(page.Offset()).
		Find(&proofs).Error
	if err != nil {
		return nil, 0, err
	}
	return proofs, total, nil
}

func (r *repository) ListVerifiedUnlinked(ctx context.Context, limit int) ([]models.PaymentProof, error) {
	var proofs []models.PaymentProof
	query := r.db.WithContext(ctx).
		Model(&models.PaymentProof{}).
		Joins("LEFT JOIN orders ON orders.source_payment_id = payment_proofs.id").
		Where("payment_proofs.status = ?", enums.PaymentProofStatusVerified).
		Where("orders.id IS NULL").
		Order("payment_proofs.submitted_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&proofs).Error; err != nil {
		return nil, err
	}
	return proofs, nil
}
