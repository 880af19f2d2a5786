package settlements

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/arjunkhanna/secondmart-backend/internal/notifications"
	"github.com/arjunkhanna/secondmart-backend/internal/orders"
	"github.com/arjunkhanna/secondmart-backend/internal/refdata"
	"github.com/arjunkhanna/secondmart-backend/pkg/db/models"
	"github.com/arjunkhanna/secondmart-backend/pkg/enums"
	pkgerrors "github.com/arjunkhanna/secondmart-backend/pkg/errors"
	"github.com/arjunkhanna/secondmart-backend/pkg/logger"
	"github.com/arjunkhanna/secondmart-backend/pkg/pagination"
	"github.com/arjunkhanna/secondmart-backend/pkg/types"
)

var oneHundred = decimal.NewFromInt(100)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type orderGateway interface {
	Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	MarkSellerPaymentCompleted(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) error
	MarkSellerPaymentFailed(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) error
}

type notifier interface {
	Notify(ctx context.Context, input notifications.NotifyInput) (*models.Notification, error)
}

// Service owns seller payout transactions and commission settings.
type Service interface {
	RequestPayout(ctx context.Context, input RequestPayoutInput) (*models.SellerTransaction, error)
	UpdateStatus(ctx context.Context, input UpdateStatusInput) (*models.SellerTransaction, error)
	Get(ctx context.Context, transactionID uuid.UUID) (*models.SellerTransaction, error)
	List(ctx context.Context, params ListParams) (*pagination.Result[models.SellerTransaction], error)
	GetCommission(ctx context.Context) (*models.CommissionSetting, error)
	UpdateCommission(ctx context.Context, percent decimal.Decimal, adminID uuid.UUID) (*models.CommissionSetting, error)
}

// RequestPayoutInput initiates a payout for a fulfilled order.
type RequestPayoutInput struct {
	OrderID    uuid.UUID
	AdminID    uuid.UUID
	AdminNotes string
}

// UpdateStatusInput drives a settlement through its status machine.
type UpdateStatusInput struct {
	TransactionID        uuid.UUID
	Target               enums.SettlementStatus
	AdminID              uuid.UUID
	AdminNotes           string
	TransactionReference string
}

// ListParams configures the paginated settlement list.
type ListParams struct {
	Filters ListFilters
	pagination.Params
}

// Params wire the settlement engine dependencies.
type Params struct {
	Repo                     Repository
	Tx                       txRunner
	Orders                   orderGateway
	Refdata                  refdata.Service
	Notifier                 notifier
	Logger                   *logger.Logger
	DefaultCommissionPercent decimal.Decimal
}

type service struct {
	repo           Repository
	tx             txRunner
	orders         orderGateway
	refdata        refdata.Service
	notifier       notifier
	logg           *logger.Logger
	defaultPercent decimal.Decimal
	now            func() time.Time
}

// NewService builds the settlement engine with the required dependencies.
func NewService(params Params) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("settlements repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("order gateway required")
	}
	if params.Refdata == nil {
		return nil, fmt.Errorf("refdata service required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DefaultCommissionPercent.IsNegative() || params.DefaultCommissionPercent.GreaterThan(oneHundred) {
		return nil, fmt.Errorf("default commission percent out of range")
	}
	return &service{
		repo:           params.Repo,
		tx:             params.Tx,
		orders:         params.Orders,
		refdata:        params.Refdata,
		notifier:       params.Notifier,
		logg:           params.Logger,
		defaultPercent: params.DefaultCommissionPercent,
		now:            time.Now,
	}, nil
}

// ComputePayoutCents applies a commission percentage to a gross amount and
// rounds to the nearest cent.
func ComputePayoutCents(grossCents int64, commissionPercent decimal.Decimal) int64 {
	gross := decimal.NewFromInt(grossCents)
	net := gross.Mul(oneHundred.Sub(commissionPercent)).Div(oneHundred)
	return net.Round(0).IntPart()
}

func (s *service) RequestPayout(ctx context.Context, input RequestPayoutInput) (*models.SellerTransaction, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.AdminID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "admin identity missing")
	}

	order, err := s.orders.Get(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	if order.Status == enums.OrderStatusFailed {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "failed orders cannot be settled")
	}
	if order.CurrentStep < orders.PayoutUnlockStep {
		return nil, pkgerrors.New(pkgerrors.CodePrematurePayout, "fulfillment has not reached the payment release step").
			WithDetails(map[string]any{"current_step": order.CurrentStep, "required_step": orders.PayoutUnlockStep})
	}

	if existing, err := s.repo.FindByOrder(ctx, input.OrderID); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "payout already requested for order").
			WithDetails(map[string]any{"transaction_id": existing.ID, "status": existing.Status})
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing payout")
	}

	percent, err := s.commissionPercentFor(ctx, order.ListingID)
	if err != nil {
		return nil, err
	}

	transaction := &models.SellerTransaction{
		OrderID:      order.ID,
		SellerID:     order.SellerID,
		BuyerID:      order.BuyerID,
		ListingID:    order.ListingID,
		ProductTitle: order.ProductTitle,
		AmountCents:  ComputePayoutCents(order.AmountCents, percent),
		Status:       enums.SettlementStatusPending,
	}
	if notes := strings.TrimSpace(input.AdminNotes); notes != "" {
		transaction.AdminNotes = &notes
	}

	created, err := s.repo.Create(ctx, transaction)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create seller transaction")
	}
	return created, nil
}

func (s *service) UpdateStatus(ctx context.Context, input UpdateStatusInput) (*models.SellerTransaction, error) {
	if input.TransactionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction id required")
	}
	if input.AdminID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "admin identity missing")
	}
	if !input.Target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid settlement status")
	}
	reference := strings.TrimSpace(input.TransactionReference)
	if input.Target == enums.SettlementStatusCompleted && reference == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction reference required to complete a payout")
	}

	transaction, err := s.repo.FindByID(ctx, input.TransactionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "seller transaction not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load seller transaction")
	}
	if !transaction.Status.CanTransitionTo(input.Target) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "settlement status transition not allowed").
			WithDetails(map[string]any{"from": transaction.Status, "to": input.Target})
	}

	now := s.now().UTC()
	updates := map[string]any{"status": input.Target}
	if notes := strings.TrimSpace(input.AdminNotes); notes != "" {
		updates["admin_notes"] = notes
	}
	if reference != "" {
		updates["transaction_reference"] = reference
	}
	switch input.Target {
	case enums.SettlementStatusProcessing:
		updates["processed_at"] = now
	case enums.SettlementStatusCompleted:
		updates["completed_at"] = now
	case enums.SettlementStatusFailed:
		updates["failed_at"] = now
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		rows, err := repo.UpdateIfStatus(ctx, transaction.ID, transaction.Status, updates)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update seller transaction")
		}
		if rows == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "settlement changed concurrently").
				WithDetails(map[string]any{"from": transaction.Status, "to": input.Target})
		}
		switch input.Target {
		case enums.SettlementStatusCompleted:
			return s.orders.MarkSellerPaymentCompleted(ctx, tx, transaction.OrderID)
		case enums.SettlementStatusFailed:
			return s.orders.MarkSellerPaymentFailed(ctx, tx, transaction.OrderID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.FindByID(ctx, transaction.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload seller transaction")
	}

	s.notifySeller(ctx, updated)
	return updated, nil
}

func (s *service) Get(ctx context.Context, transactionID uuid.UUID) (*models.SellerTransaction, error) {
	if transactionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction id required")
	}
	transaction, err := s.repo.FindByID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "seller transaction not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load seller transaction")
	}
	return transaction, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*pagination.Result[models.SellerTransaction], error) {
	if params.Filters.Status != nil && !params.Filters.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid settlement status")
	}
	page := params.Normalize()
	rows, total, err := s.repo.List(ctx, params.Filters, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list seller transactions")
	}
	return pagination.NewResult(rows, page, total), nil
}

func (s *service) GetCommission(ctx context.Context) (*models.CommissionSetting, error) {
	setting, err := s.repo.GetCommission(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.CommissionSetting{
				ID:                models.CommissionSettingID,
				CommissionPercent: s.defaultPercent,
			}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load commission setting")
	}
	return setting, nil
}

func (s *service) UpdateCommission(ctx context.Context, percent decimal.Decimal, adminID uuid.UUID) (*models.CommissionSetting, error) {
	if adminID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "admin identity missing")
	}
	if percent.IsNegative() || percent.GreaterThan(oneHundred) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "commission percent must be between 0 and 100")
	}

	setting := &models.CommissionSetting{
		ID:                models.CommissionSettingID,
		CommissionPercent: percent,
		UpdatedBy:         &adminID,
	}
	if err := s.repo.SaveCommission(ctx, setting); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save commission setting")
	}
	return setting, nil
}

// commissionPercentFor resolves the effective rate: per-listing override,
// then the platform row, then the configured default.
func (s *service) commissionPercentFor(ctx context.Context, listingID uuid.UUID) (decimal.Decimal, error) {
	listing := s.refdata.ListingSummary(ctx, listingID)
	if listing.CommissionOverridePercent != nil {
		return *listing.CommissionOverridePercent, nil
	}
	setting, err := s.repo.GetCommission(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.defaultPercent, nil
		}
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load commission setting")
	}
	return setting.CommissionPercent, nil
}

// notifySeller records an in-app notification for the payout change. Failures
// are logged and never surfaced to the caller.
func (s *service) notifySeller(ctx context.Context, transaction *models.SellerTransaction) {
	var (
		notifType enums.NotificationType
		title     string
		body      string
	)
	switch transaction.Status {
	case enums.SettlementStatusCompleted:
		notifType = enums.NotificationTypePayoutCompleted
		title = "Payout completed"
		body = fmt.Sprintf("Your payout for %s has been paid out.", transaction.ProductTitle)
	case enums.SettlementStatusFailed:
		notifType = enums.NotificationTypePayoutFailed
		title = "Payout failed"
		body = fmt.Sprintf("Your payout for %s could not be completed. Our team will follow up.", transaction.ProductTitle)
	default:
		notifType = enums.NotificationTypePayoutUpdate
		title = "Payout update"
		body = fmt.Sprintf("Your payout for %s is now %s.", transaction.ProductTitle, transaction.Status)
	}

	_, err := s.notifier.Notify(ctx, notifications.NotifyInput{
		RecipientID:   transaction.SellerID,
		RecipientRole: enums.RecipientRoleSeller,
		Type:          notifType,
		Title:         title,
		Body:          body,
		RelatedEntity: &types.RelatedEntity{
			TransactionID: transaction.ID,
			OrderID:       transaction.OrderID,
			AmountCents:   transaction.AmountCents,
			Reference:     transaction.TransactionReference,
		},
	})
	if err != nil {
		logCtx := s.logg.WithField(ctx, "transaction_id", transaction.ID.String())
		s.logg.Error(logCtx, "seller payout notification failed", err)
	}
}
