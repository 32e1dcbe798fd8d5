package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"cryptofolio/internal/models"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestAsset creates a crypto asset with a unique symbol.
func CreateTestAsset(t *testing.T, db *gorm.DB, userID string) *models.Asset {
	t.Helper()

	n := nextID()
	asset := &models.Asset{
		UserID:      userID,
		Symbol:      fmt.Sprintf("TST%d", n),
		Name:        fmt.Sprintf("Test Coin %d", n),
		Type:        models.AssetTypeCrypto,
		CoinGeckoID: fmt.Sprintf("test-coin-%d", n),
	}
	if err := db.Create(asset).Error; err != nil {
		t.Fatalf("failed to create test asset: %v", err)
	}
	return asset
}

// CreateTestCashAsset creates the user's cash asset (symbol USD).
func CreateTestCashAsset(t *testing.T, db *gorm.DB, userID string) *models.Asset {
	t.Helper()

	asset := &models.Asset{
		UserID: userID,
		Symbol: "USD",
		Name:   "US Dollar",
		Type:   models.AssetTypeCash,
	}
	if err := db.Create(asset).Error; err != nil {
		t.Fatalf("failed to create test cash asset: %v", err)
	}
	return asset
}

// CreateTestTrade creates a trade with total value computed from
// quantity and price, executed at the given time.
func CreateTestTrade(t *testing.T, db *gorm.DB, userID, assetID string, side models.TradeSide, quantity, pricePerUnit string, executedAt time.Time) *models.Trade {
	t.Helper()

	q := decimal.RequireFromString(quantity)
	p := decimal.RequireFromString(pricePerUnit)

	trade := &models.Trade{
		UserID:       userID,
		AssetID:      assetID,
		Side:         side,
		Quantity:     q,
		PricePerUnit: p,
		TotalValue:   q.Mul(p),
		ExecutedAt:   executedAt,
	}
	if err := db.Create(trade).Error; err != nil {
		t.Fatalf("failed to create test trade: %v", err)
	}
	return trade
}

// CreateTestHolding creates a holding directly, bypassing reconciliation.
func CreateTestHolding(t *testing.T, db *gorm.DB, userID, assetID string, quantity, averageBuyPrice string) *models.Holding {
	t.Helper()

	holding := &models.Holding{
		UserID:          userID,
		AssetID:         assetID,
		Quantity:        decimal.RequireFromString(quantity),
		AverageBuyPrice: decimal.RequireFromString(averageBuyPrice),
	}
	if err := db.Create(holding).Error; err != nil {
		t.Fatalf("failed to create test holding: %v", err)
	}
	return holding
}

// CreateTestTarget creates a target allocation for the given asset.
func CreateTestTarget(t *testing.T, db *gorm.DB, userID, assetID string, percent string) *models.TargetAllocation {
	t.Helper()

	target := &models.TargetAllocation{
		UserID:  userID,
		AssetID: assetID,
		Percent: decimal.RequireFromString(percent),
	}
	if err := db.Create(target).Error; err != nil {
		t.Fatalf("failed to create test target: %v", err)
	}
	return target
}
