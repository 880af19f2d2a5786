package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arjunkhanna/secondmart-backend/pkg/db/models"
	"github.com/arjunkhanna/secondmart-backend/pkg/enums"
	"github.com/arjunkhanna/secondmart-backend/pkg/pagination"
)

// ListFilters describe the inputs supported by the admin order list.
type ListFilters struct {
	Status *enums.OrderStatus
	Step   *int
}

// Repository defines persistence operations for orders and their steps.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindBySourcePayment(ctx context.Context, paymentID uuid.UUID) (*models.Order, error)
	FindStep(ctx context.Context, orderID uuid.UUID, stepNumber int) (*models.OrderStep, error)
	// CompleteStepIfPending flips the step to completed only while it is
	// still pending. Zero rows means the step was already decided.
	CompleteStepIfPending(ctx context.Context, orderID uuid.UUID, stepNumber int, details string, completedAt time.Time) (int64, error)
	// FailStepIfPending marks the step failed only while it is still pending.
	FailStepIfPending(ctx context.Context, orderID uuid.UUID, stepNumber int, reason string) (int64, error)
	// AdvanceIfCurrent moves current_step forward only when the order is
	// still in progress at fromStep. Zero rows means a concurrent mutation won.
	AdvanceIfCurrent(ctx context.Context, orderID uuid.UUID, fromStep int, updates map[string]any) (int64, error)
	// UpdateIfInProgress applies updates only while the order is in progress.
	UpdateIfInProgress(ctx context.Context, orderID uuid.UUID, updates map[string]any) (int64, error)
	UpdateSellerPayment(ctx context.Context, orderID uuid.UUID, updates map[string]any) error
	List(ctx context.Context, filters ListFilters, page pagination.Page) ([]models.Order, int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	for i := range order.Steps {
		if order.Steps[i].ID == uuid.Nil {
			order.Steps[i].ID = uuid.New()
		}
		order.Steps[i].OrderID = order.ID
	}
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Steps", func(db *gorm.DB) *gorm.DB {
			return db.Order("step_number ASC")
		}).
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindBySourcePayment(ctx context.Context, paymentID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Where("source_payment_id = ?", paymentID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindStep(ctx context.Context, orderID uuid.UUID, stepNumber int) (*models.OrderStep, error) {
	var step models.OrderStep
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND step_number = ?", orderID, stepNumber).
		First(&step).Error
	if err != nil {
		return nil, err
	}
	return &step, nil
}

func (r *repository) CompleteStepIfPending(ctx context.Context, orderID uuid.UUID, stepNumber int, details string, completedAt time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.OrderStep{}).
		Where("order_id = ? AND step_number = ? AND status = ?", orderID, stepNumber, enums.StepStatusPending).
		Updates(map[string]any{
			"status":       enums.StepStatusCompleted,
			"details":      details,
			"completed_at": completedAt,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *repository) FailStepIfPending(ctx context.Context, orderID uuid.UUID, stepNumber int, reason string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.OrderStep{}).
		Where("order_id = ? AND step_number = ? AND status = ?", orderID, stepNumber, enums.StepStatusPending).
		Updates(map[string]any{
			"status":  enums.StepStatusFailed,
			"details": reason,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *repository) AdvanceIfCurrent(ctx context.Context, orderID uuid.UUID, fromStep int, updates map[string]any) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND current_step = ? AND status = ?", orderID, fromStep, enums.OrderStatusInProgress).
		Updates(updates)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *repository) UpdateIfInProgress(ctx context.Context, orderID uuid.UUID, updates map[string]any) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, enums.OrderStatusInProgress).
		Updates(updates)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *repository) UpdateSellerPayment(ctx context.Context, orderID uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(updates).Error
}

func (r *repository) List(ctx context.Context, filters ListFilters, page pagination.Page) ([]models.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Order{})
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.Step != nil {
		query = query.Where("current_step = ?", *filters.Step)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	err := query.
		Preload("Steps", func(db *gorm.DB) *gorm.DB {
			return db.Order("step_number ASC")
		}).
		Order("created_at DESC").
		Order("id DESC").
		Limit(page.Size).
		Offset(page.Offset()).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}
