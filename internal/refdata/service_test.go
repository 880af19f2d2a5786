package refdata

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/arjunkhanna/secondmart-backend/pkg/db/models"
	"github.com/arjunkhanna/secondmart-backend/pkg/logger"
)

func setupRefdataTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	listings := `
CREATE TABLE IF NOT EXISTS listings (
  id TEXT PRIMARY KEY,
  seller_id TEXT NOT NULL,
  title TEXT NOT NULL,
  price_cents INTEGER NOT NULL,
  commission_override_percent NUMERIC,
  created_at DATETIME,
  updated_at DATETIME
);`
	users := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  phone TEXT,
  email TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(listings).Error)
	require.NoError(t, db.Exec(users).Error)
	return db
}

func newRefdataService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(db, logger.New(logger.Options{ServiceName: "test"}))
	require.NoError(t, err)
	return svc
}

func TestListingSummaryResolvesListing(t *testing.T) {
	db := setupRefdataTestDB(t)
	svc := newRefdataService(t, db)

	override := decimal.RequireFromString("7.5")
	listing := &models.Listing{
		ID:                        uuid.New(),
		SellerID:                  uuid.New(),
		Title:                     "Mountain Bike",
		PriceCents:                650000,
		CommissionOverridePercent: &override,
	}
	require.NoError(t, db.Create(listing).Error)

	summary := svc.ListingSummary(context.Background(), listing.ID)
	assert.True(t, summary.Found)
	assert.Equal(t, listing.SellerID, summary.SellerID)
	assert.Equal(t, "Mountain Bike", summary.Title)
	assert.EqualValues(t, 650000, summary.PriceCents)
	require.NotNil(t, summary.CommissionOverridePercent)
	assert.True(t, summary.CommissionOverridePercent.Equal(override))
}

func TestListingSummaryDegradesWhenMissing(t *testing.T) {
	db := setupRefdataTestDB(t)
	svc := newRefdataService(t, db)

	summary := svc.ListingSummary(context.Background(), uuid.New())
	assert.False(t, summary.Found)
	assert.Equal(t, UnknownValue, summary.Title)
	assert.Equal(t, uuid.Nil, summary.SellerID)

	summary = svc.ListingSummary(context.Background(), uuid.Nil)
	assert.False(t, summary.Found)
}

func TestUserContactPrefersPhone(t *testing.T) {
	db := setupRefdataTestDB(t)
	svc := newRefdataService(t, db)

	withPhone := &models.User{ID: uuid.New(), Name: "Asha", Phone: "+91 90000 00001", Email: "asha@example.com"}
	emailOnly := &models.User{ID: uuid.New(), Name: "Ravi", Email: "ravi@example.com"}
	blank := &models.User{ID: uuid.New(), Name: "Ghost"}
	for _, u := range []*models.User{withPhone, emailOnly, blank} {
		require.NoError(t, db.Create(u).Error)
	}

	assert.Equal(t, "+91 90000 00001", svc.UserContact(context.Background(), withPhone.ID))
	assert.Equal(t, "ravi@example.com", svc.UserContact(context.Background(), emailOnly.ID))
	assert.Equal(t, UnknownValue, svc.UserContact(context.Background(), blank.ID))
	assert.Equal(t, UnknownValue, svc.UserContact(context.Background(), uuid.New()))
}
