package aggregation

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/arjunkhanna/secondmart-backend/pkg/db/models"
	"github.com/arjunkhanna/secondmart-backend/pkg/enums"
	pkgerrors "github.com/arjunkhanna/secondmart-backend/pkg/errors"
)

// OrderCounts breaks orders down by overall status and by current step.
type OrderCounts struct {
	ByStatus map[enums.OrderStatus]int64 `json:"by_status"`
	ByStep   map[int]int64               `json:"by_step"`
	Total    int64                       `json:"total"`
}

// PaymentCounts breaks payment proofs down by status and totals the verified
// amount.
type PaymentCounts struct {
	ByStatus            map[enums.PaymentProofStatus]int64 `json:"by_status"`
	VerifiedAmountCents int64                              `json:"verified_amount_cents"`
	Total               int64                              `json:"total"`
}

// SettlementSummary breaks seller transactions down by status with amount
// sums for the money still owed and already paid.
type SettlementSummary struct {
	ByStatus             map[enums.SettlementStatus]int64 `json:"by_status"`
	PendingAmountCents   int64                            `json:"pending_amount_cents"`
	CompletedAmountCents int64                            `json:"completed_amount_cents"`
	Total                int64                            `json:"total"`
}

// Dashboard bundles all rollups for the admin overview endpoint.
type Dashboard struct {
	Orders      OrderCounts       `json:"orders"`
	Payments    PaymentCounts     `json:"payments"`
	Settlements SettlementSummary `json:"settlements"`
}

// Service computes read-only rollups across payments, orders, and
// settlements. Queries hit the stores directly so results always reflect
// current state.
type Service interface {
	OrderStatusCounts(ctx context.Context) (*OrderCounts, error)
	PaymentStatusCounts(ctx context.Context) (*PaymentCounts, error)
	SettlementSummary(ctx context.Context) (*SettlementSummary, error)
	Dashboard(ctx context.Context) (*Dashboard, error)
}

type service struct {
	db *gorm.DB
}

// NewService builds the aggregation service bound to the provided DB.
func NewService(db *gorm.DB) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("db required")
	}
	return &service{db: db}, nil
}

type statusCountRow struct {
	Status string
	Count  int64
}

type stepCountRow struct {
	CurrentStep int
	Count       int64
}

type statusAmountRow struct {
	Status      string
	Count       int64
	AmountCents int64
}

func (s *service) OrderStatusCounts(ctx context.Context) (*OrderCounts, error) {
	var statusRows []statusCountRow
	err := s.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&statusRows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders by status")
	}

	var stepRows []stepCountRow
	err = s.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("current_step, COUNT(*) AS count").
		Group("current_step").
		Scan(&stepRows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders by step")
	}

	counts := &OrderCounts{
		ByStatus: make(map[enums.OrderStatus]int64, len(statusRows)),
		ByStep:   make(map[int]int64, len(stepRows)),
	}
	for _, row := range statusRows {
		counts.ByStatus[enums.OrderStatus(row.Status)] = row.Count
		counts.Total += row.Count
	}
	for _, row := range stepRows {
		counts.ByStep[row.CurrentStep] = row.Count
	}
	return counts, nil
}

func (s *service) PaymentStatusCounts(ctx context.Context) (*PaymentCounts, error) {
	var rows []statusAmountRow
	err := s.db.WithContext(ctx).
		Model(&models.PaymentProof{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(amount_cents), 0) AS amount_cents").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count payment proofs by status")
	}

	counts := &PaymentCounts{
		ByStatus: make(map[enums.PaymentProofStatus]int64, len(rows)),
	}
	for _, row := range rows {
		status := enums.PaymentProofStatus(row.Status)
		counts.ByStatus[status] = row.Count
		counts.Total += row.Count
		if status == enums.PaymentProofStatusVerified {
			counts.VerifiedAmountCents = row.AmountCents
		}
	}
	return counts, nil
}

func (s *service) SettlementSummary(ctx context.Context) (*SettlementSummary, error) {
	var rows []statusAmountRow
	err := s.db.WithContext(ctx).
		Model(&models.SellerTransaction{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(amount_cents), 0) AS amount_cents").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "summarize seller transactions")
	}

	summary := &SettlementSummary{
		ByStatus: make(map[enums.SettlementStatus]int64, len(rows)),
	}
	for _, row := range rows {
		status := enums.SettlementStatus(row.Status)
		summary.ByStatus[status] = row.Count
		summary.Total += row.Count
		switch status {
		case enums.SettlementStatusPending:
			summary.PendingAmountCents = row.AmountCents
		case enums.SettlementStatusCompleted:
			summary.CompletedAmountCents = row.AmountCents
		}
	}
	return summary, nil
}

func (s *service) Dashboard(ctx context.Context) (*Dashboard, error) {
	orders, err := s.OrderStatusCounts(ctx)
	if err != nil {
		return nil, err
	}
	payments, err := s.PaymentStatusCounts(ctx)
	if err != nil {
		return nil, err
	}
	settlements, err := s.SettlementSummary(ctx)
	if err != nil {
		return nil, err
	}
	return &Dashboard{
		Orders:      *orders,
		Payments:    *payments,
		Settlements: *settlements,
	}, nil
}
