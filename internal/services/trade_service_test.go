package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"cryptofolio/internal/models"
	"cryptofolio/internal/pagination"
	"cryptofolio/internal/testutil"
	"cryptofolio/internal/uuid"
)

func TestCreateTrade(t *testing.T) {
	t.Run("valid buy reconciles the holding", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		assetSvc := NewAssetService(db)
		holdingSvc := NewHoldingService(db)
		svc := NewTradeService(db, assetSvc, holdingSvc)
		user := testutil.CreateTestUser(t, db)
		asset := testutil.CreateTestAsset(t, db, user.ID)

		trade, err := svc.CreateTrade(user.ID, asset.ID, models.TradeSideBuy,
			decimal.RequireFromString("2"), decimal.RequireFromString("150"), time.Now(), "first buy")
		testutil.AssertNoError(t, err)

		testutil.AssertDecimalEqual(t, trade.TotalValue, "300")
		if trade.Note != "first buy" {
			t.Errorf("expected note to persist, got %q", trade.Note)
		}

		holding, err := holdingSvc.GetHoldingByAsset(user.ID, asset.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, holding.Quantity, "2")
		testutil.AssertDecimalEqual(t, holding.AverageBuyPrice, "150")
	})

	t.Run("defaults executed_at to now", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTradeService(db, NewAssetService(db), NewHoldingService(db))
		user := testutil.CreateTestUser(t, db)
		asset := testutil.CreateTestAsset(t, db, user.ID)

		trade, err := svc.CreateTrade(user.ID, asset.ID, models.TradeSideBuy,
			decimal.RequireFromString("1"), decimal.RequireFromString("10"), time.Time{}, "")
		testutil.AssertNoError(t, err)

		if trade.ExecutedAt.IsZero() {
			t.Error("expected executed_at to default to the current time")
		}
	})

	t.Run("invalid side", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTradeService(db, NewAssetService(db), NewHoldingService(db))
		user := testutil.CreateTestUser(t, db)
		asset := testutil.CreateTestAsset(t, db, user.ID)

		_, err := svc.CreateTrade(user.ID, asset.ID, models.TradeSide("SHORT"),
			decimal.RequireFromString("1"), decimal.RequireFromString("10"), time.Now(), "")
		testutil.AssertAppError(t, err, "INVALID_TRADE_SIDE")
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTradeService(db, NewAssetService(db), NewHoldingService(db))
		user := testutil.CreateTestUser(t, db)
		asset := testutil.CreateTestAsset(t, db, user.ID)

		_, err := svc.CreateTrade(user.ID, asset.ID, models.TradeSideBuy,
			decimal.Zero, decimal.RequireFromString("10"), time.Now(), "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("non-positive price", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTradeService(db, NewAssetService(db), NewHoldingService(db))
		user := testutil.CreateTestUser(t, db)
		asset := testutil.CreateTestAsset(t, db, user.ID)

		_, err := svc.CreateTrade(user.ID, asset.ID, models.TradeSideBuy,
			decimal.RequireFromString("1"), decimal.RequireFromString("-5"), time.Now(), "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("unknown asset", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTradeService(db, NewAssetService(db), NewHoldingService(db))
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateTrade(user.ID, uuid.New(), models.TradeSideBuy,
			decimal.RequireFromString("1"), decimal.RequireFromString("10"), time.Now(), "")
		testutil.AssertAppError(t, err, "ASSET_NOT_FOUND")
	})
}

func TestGetUserTrades(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	at := func(h int) time.Time { return base.Add(time.Duration(h) * time.Hour) }

	t.Run("newest first with side filter", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTradeService(db, NewAssetService(db), NewHoldingService(db))
		user := testutil.CreateTestUser(t, db)
		asset := testutil.CreateTestAsset(t, db, user.ID)
		testutil.CreateTestTrade(t, db, user.ID, asset.ID, models.TradeSideBuy, "1", "100", at(0))
		testutil.CreateTestTrade(t, db, user.ID, asset.ID, models.TradeSideSell, "1", "110", at(1))
		testutil.CreateTestTrade(t, db, user.ID, asset.ID, models.TradeSideBuy, "2", "90", at(2))

		all, err := svc.GetUserTrades(user.ID, pagination.PageRequest{}, TradeFilter{})
		testutil.AssertNoError(t, err)
		if all.TotalItems != 3 {
			t.Fatalf("expected 3 trades, got %d", all.TotalItems)
		}
		if !all.Data[0].ExecutedAt.After(all.Data[2].ExecutedAt) {
			t.Error("expected trades ordered newest first")
		}

		buySide := models.TradeSideBuy
		buys, err := svc.GetUserTrades(user.ID, pagination.PageRequest{}, TradeFilter{Side: &buySide})
		testutil.AssertNoError(t, err)
		if buys.TotalItems != 2 {
			t.Errorf("expected 2 buys, got %d", buys.TotalItems)
		}
	})

	t.Run("date range filter", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTradeService(db, NewAssetService(db), NewHoldingService(db))
		user := testutil.CreateTestUser(t, db)
		asset := testutil.CreateTestAsset(t, db, user.ID)
		testutil.CreateTestTrade(t, db, user.ID, asset.ID, models.TradeSideBuy, "1", "100", at(0))
		testutil.CreateTestTrade(t, db, user.ID, asset.ID, models.TradeSideBuy, "1", "100", at(10))

		from := at(5)
		result, err := svc.GetUserTrades(user.ID, pagination.PageRequest{}, TradeFilter{FromDate: &from})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 1 {
			t.Errorf("expected 1 trade after the cutoff, got %d", result.TotalItems)
		}
	})
}

func TestGetAssetTrades(t *testing.T) {
	t.Run("scoped to one asset", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTradeService(db, NewAssetService(db), NewHoldingService(db))
		user := testutil.CreateTestUser(t, db)
		asset := testutil.CreateTestAsset(t, db, user.ID)
		other := testutil.CreateTestAsset(t, db, user.ID)
		testutil.CreateTestTrade(t, db, user.ID, asset.ID, models.TradeSideBuy, "1", "100", time.Now())
		testutil.CreateTestTrade(t, db, user.ID, other.ID, models.TradeSideBuy, "1", "100", time.Now())

		result, err := svc.GetAssetTrades(user.ID, asset.ID, pagination.PageRequest{}, TradeFilter{})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 1 {
			t.Errorf("expected 1 trade for the asset, got %d", result.TotalItems)
		}
	})

	t.Run("unknown asset", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTradeService(db, NewAssetService(db), NewHoldingService(db))
		user := testutil.CreateTestUser(t, db)

		_, err := svc.GetAssetTrades(user.ID, uuid.New(), pagination.PageRequest{}, TradeFilter{})
		testutil.AssertAppError(t, err, "ASSET_NOT_FOUND")
	})
}

func TestUpdateTrade(t *testing.T) {
	t.Run("recomputes total value and reconciles", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		holdingSvc := NewHoldingService(db)
		svc := NewTradeService(db, NewAssetService(db), holdingSvc)
		user := testutil.CreateTestUser(t, db)
		asset := testutil.CreateTestAsset(t, db, user.ID)

		trade, err := svc.CreateTrade(user.ID, asset.ID, models.TradeSideBuy,
			decimal.RequireFromString("1"), decimal.RequireFromString("100"), time.Now(), "")
		testutil.AssertNoError(t, err)

		newQuantity := decimal.RequireFromString("2")
		updated, err := svc.UpdateTrade(user.ID, trade.ID, &newQuantity, nil, nil, nil)
		testutil.AssertNoError(t, err)

		var stored models.Trade
		testutil.AssertNoError(t, db.First(&stored, "id = ?", updated.ID).Error)
		testutil.AssertDecimalEqual(t, stored.TotalValue, "200")

		holding, err := holdingSvc.GetHoldingByAsset(user.ID, asset.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, holding.Quantity, "2")
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTradeService(db, NewAssetService(db), NewHoldingService(db))
		user := testutil.CreateTestUser(t, db)
		asset := testutil.CreateTestAsset(t, db, user.ID)

		trade, err := svc.CreateTrade(user.ID, asset.ID, models.TradeSideBuy,
			decimal.RequireFromString("1"), decimal.RequireFromString("100"), time.Now(), "")
		testutil.AssertNoError(t, err)

		zero := decimal.Zero
		_, err = svc.UpdateTrade(user.ID, trade.ID, &zero, nil, nil, nil)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("unknown trade", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTradeService(db, NewAssetService(db), NewHoldingService(db))
		user := testutil.CreateTestUser(t, db)

		_, err := svc.UpdateTrade(user.ID, uuid.New(), nil, nil, nil, nil)
		testutil.AssertAppError(t, err, "TRADE_NOT_FOUND")
	})
}

func TestDeleteTrade(t *testing.T) {
	t.Run("reconciles the holding afterwards", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		holdingSvc := NewHoldingService(db)
		svc := NewTradeService(db, NewAssetService(db), holdingSvc)
		user := testutil.CreateTestUser(t, db)
		asset := testutil.CreateTestAsset(t, db, user.ID)

		first, err := svc.CreateTrade(user.ID, asset.ID, models.TradeSideBuy,
			decimal.RequireFromString("1"), decimal.RequireFromString("100"), time.Now(), "")
		testutil.AssertNoError(t, err)
		_, err = svc.CreateTrade(user.ID, asset.ID, models.TradeSideBuy,
			decimal.RequireFromString("1"), decimal.RequireFromString("200"), time.Now().Add(time.Hour), "")
		testutil.AssertNoError(t, err)

		testutil.AssertNoError(t, svc.DeleteTrade(user.ID, first.ID))

		holding, err := holdingSvc.GetHoldingByAsset(user.ID, asset.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, holding.Quantity, "1")
		testutil.AssertDecimalEqual(t, holding.AverageBuyPrice, "200")
	})

	t.Run("other user's trade", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTradeService(db, NewAssetService(db), NewHoldingService(db))
		owner := testutil.CreateTestUser(t, db)
		intruder := testutil.CreateTestUser(t, db)
		asset := testutil.CreateTestAsset(t, db, owner.ID)
		trade := testutil.CreateTestTrade(t, db, owner.ID, asset.ID, models.TradeSideBuy, "1", "100", time.Now())

		err := svc.DeleteTrade(intruder.ID, trade.ID)
		testutil.AssertAppError(t, err, "TRADE_NOT_FOUND")
	})
}
