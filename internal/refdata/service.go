package refdata

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/arjunkhanna/secondmart-backend/pkg/db/models"
	"github.com/arjunkhanna/secondmart-backend/pkg/logger"
)

// UnknownValue stands in for reference data that could not be resolved.
const UnknownValue = "Unknown"

// ListingSummary is the slice of listing data order creation needs.
type ListingSummary struct {
	SellerID                  uuid.UUID
	Title                     string
	PriceCents                int64
	CommissionOverridePercent *decimal.Decimal
	Found                     bool
}

// Service resolves listing and user reference data. Lookups are best effort:
// missing or unreadable rows degrade to placeholder values instead of failing
// the caller.
type Service interface {
	ListingSummary(ctx context.Context, listingID uuid.UUID) ListingSummary
	UserContact(ctx context.Context, userID uuid.UUID) string
}

type service struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewService builds a refdata service bound to the provided DB.
func NewService(db *gorm.DB, log *logger.Logger) (Service, error) {
	if db == nil {
		return nil, errors.New("db required")
	}
	if log == nil {
		return nil, errors.New("logger required")
	}
	return &service{db: db, log: log}, nil
}

func (s *service) ListingSummary(ctx context.Context, listingID uuid.UUID) ListingSummary {
	fallback := ListingSummary{Title: UnknownValue}
	if listingID == uuid.Nil {
		return fallback
	}

	var listing models.Listing
	err := s.db.WithContext(ctx).
		Where("id = ?", listingID).
		First(&listing).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Error(s.log.WithField(ctx, "listing_id", listingID.String()), "listing lookup failed", err)
		}
		return fallback
	}

	title := strings.TrimSpace(listing.Title)
	if title == "" {
		title = UnknownValue
	}
	return ListingSummary{
		SellerID:                  listing.SellerID,
		Title:                     title,
		PriceCents:                listing.PriceCents,
		CommissionOverridePercent: listing.CommissionOverridePercent,
		Found:                     true,
	}
}

func (s *service) UserContact(ctx context.Context, userID uuid.UUID) string {
	if userID == uuid.Nil {
		return UnknownValue
	}

	var user models.User
	err := s.db.WithContext(ctx).
		Where("id = ?", userID).
		First(&user).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Error(s.log.WithField(ctx, "user_id", userID.String()), "user lookup failed", err)
		}
		return UnknownValue
	}

	if contact := strings.TrimSpace(user.Phone); contact != "" {
		return contact
	}
	if contact := strings.TrimSpace(user.Email); contact != "" {
		return contact
	}
	return UnknownValue
}
