package settlements

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arjunkhanna/secondmart-backend/pkg/db/models"
	"github.com/arjunkhanna/secondmart-backend/pkg/enums"
	"github.com/arjunkhanna/secondmart-backend/pkg/pagination"
)

// ListFilters describe the inputs supported by the settlement list.
type ListFilters struct {
	Status   *enums.SettlementStatus
	SellerID *uuid.UUID
}

// Repository defines persistence operations for seller transactions and the
// commission settings row.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, transaction *models.SellerTransaction) (*models.SellerTransaction, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.SellerTransaction, error)
	FindByOrder(ctx context.Context, orderID uuid.UUID) (*models.SellerTransaction, error)
	// UpdateIfStatus applies updates only while the transaction is still in
	// fromStatus. Zero rows means a concurrent transition won.
	UpdateIfStatus(ctx context.Context, id uuid.UUID, fromStatus enums.SettlementStatus, updates map[string]any) (int64, error)
	List(ctx context.Context, filters ListFilters, page pagination.Page) ([]models.SellerTransaction, int64, error)
	GetCommission(ctx context.Context) (*models.CommissionSetting, error)
	SaveCommission(ctx context.Context, setting *models.CommissionSetting) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a settlements repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, transaction *models.SellerTransaction) (*models.SellerTransaction, error) {
	if transaction.ID == uuid.Nil {
		transaction.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(transaction).Error; err != nil {
		return nil, err
	}
	return transaction, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.SellerTransaction, error) {
	var transaction models.SellerTransaction
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&transaction).Error
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (r *repository) FindByOrder(ctx context.Context, orderID uuid.UUID) (*models.SellerTransaction, error) {
	var transaction models.SellerTransaction
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		First(&transaction).Error
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (r *repository) UpdateIfStatus(ctx context.Context, id uuid.UUID, fromStatus enums.SettlementStatus, updates map[string]any) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.SellerTransaction{}).
		Where("id = ? AND status = ?", id, fromStatus).
		Updates(updates)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *repository) List(ctx context.Context, filters ListFilters, page pagination.Page) ([]models.SellerTransaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.SellerTransaction{})
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.SellerID != nil {
		query = query.Where("seller_id = ?", *filters.SellerID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var transactions []models.SellerTransaction
	err := query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(page.Size).
		Offset(page.Offset()).
		Find(&transactions).Error
	if err != nil {
		return nil, 0, err
	}
	return transactions, total, nil
}

func (r *repository) GetCommission(ctx context.Context) (*models.CommissionSetting, error) {
	var setting models.CommissionSetting
	err := r.db.WithContext(ctx).
		Where("id = ?", models.CommissionSettingID).
		First(&setting).Error
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *repository) SaveCommission(ctx context.Context, setting *models.CommissionSetting) error {
	setting.ID = models.CommissionSettingID
	return r.db.WithContext(ctx).Save(setting).Error
}
