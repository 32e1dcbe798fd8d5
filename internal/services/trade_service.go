package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "cryptofolio/internal/errors"
	"cryptofolio/internal/models"
	"cryptofolio/internal/pagination"
)

// tradeService handles trade-related business logic. Every mutation ends
// with a holding reconciliation for the affected asset, so the derived
// holding never drifts from its trade history.
type tradeService struct {
	db             *gorm.DB
	assetService   AssetServicer
	holdingService HoldingServicer
}

// NewTradeService creates a new TradeServicer.
func NewTradeService(db *gorm.DB, assetService AssetServicer, holdingService HoldingServicer) TradeServicer {
	return &tradeService{db: db, assetService: assetService, holdingService: holdingService}
}

// CreateTrade records a buy or sell against an asset. TotalValue is
// computed here, at write time, and persisted with the trade.
func (s *tradeService) CreateTrade(
	userID, assetID string,
	side models.TradeSide,
	quantity, pricePerUnit decimal.Decimal,
	executedAt time.Time,
	note string,
) (*models.Trade, error) {
	if side != models.TradeSideBuy && side != models.TradeSideSell {
		return nil, apperrors.ErrInvalidTradeSide
	}
	if !quantity.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Quantity must be positive")
	}
	if !pricePerUnit.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Price per unit must be positive")
	}

	asset, err := s.assetService.GetAssetByID(userID, assetID)
	if err != nil {
		return nil, err
	}

	if executedAt.IsZero() {
		executedAt = time.Now()
	}

	trade := &models.Trade{
		UserID:       userID,
		AssetID:      asset.ID,
		Side:         side,
		Quantity:     quantity,
		PricePerUnit: pricePerUnit,
		TotalValue:   quantity.Mul(pricePerUnit),
		ExecutedAt:   executedAt,
		Note:         note,
	}

	if err := s.db.Create(trade).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.holdingService.ReconcileHolding(userID, asset.ID); err != nil {
		return nil, err
	}

	trade.Asset = *asset
	return trade, nil
}

// GetAssetTrades returns a paginated list of trades for one asset, newest first.
func (s *tradeService) GetAssetTrades(userID, assetID string, page pagination.PageRequest, filter TradeFilter) (*pagination.PageResponse[models.Trade], error) {
	if _, err := s.assetService.GetAssetByID(userID, assetID); err != nil {
		return nil, err
	}
	return s.listTrades(s.db.Where("asset_id = ?", assetID), page, filter)
}

// GetUserTrades returns a paginated list of all of a user's trades, newest first.
func (s *tradeService) GetUserTrades(userID string, page pagination.PageRequest, filter TradeFilter) (*pagination.PageResponse[models.Trade], error) {
	return s.listTrades(s.db.Where("user_id = ?", userID), page, filter)
}

func (s *tradeService) listTrades(base *gorm.DB, page pagination.PageRequest, filter TradeFilter) (*pagination.PageResponse[models.Trade], error) {
	page.Defaults()

	query := base.Model(&models.Trade{})
	if filter.Side != nil {
		query = query.Where("side = ?", *filter.Side)
	}
	if filter.FromDate != nil {
		query = query.Where("executed_at >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("executed_at <= ?", *filter.ToDate)
	}

	var totalItems int64
	if err := query.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var trades []models.Trade
	if err := query.Preload("Asset").Order("executed_at DESC").
		Scopes(pagination.Paginate(page)).Find(&trades).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(trades, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetTradeByID returns a trade if it belongs to the user.
func (s *tradeService) GetTradeByID(userID, tradeID string) (*models.Trade, error) {
	var trade models.Trade
	if err := s.db.Preload("Asset").
		Where("id = ? AND user_id = ?", tradeID, userID).
		First(&trade).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTradeNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &trade, nil
}

// UpdateTrade edits a trade's quantity, price, timestamp, or note. Side
// and asset are immutable; delete and recreate instead. The holding is
// reconciled afterwards because edits shift the replayed position.
func (s *tradeService) UpdateTrade(
	userID, tradeID string,
	quantity, pricePerUnit *decimal.Decimal,
	executedAt *time.Time,
	note *string,
) (*models.Trade, error) {
	trade, err := s.GetTradeByID(userID, tradeID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	newQuantity := trade.Quantity
	newPrice := trade.PricePerUnit

	if quantity != nil {
		if !quantity.IsPositive() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Quantity must be positive")
		}
		newQuantity = *quantity
		updates["quantity"] = newQuantity
	}
	if pricePerUnit != nil {
		if !pricePerUnit.IsPositive() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Price per unit must be positive")
		}
		newPrice = *pricePerUnit
		updates["price_per_unit"] = newPrice
	}
	if quantity != nil || pricePerUnit != nil {
		updates["total_value"] = newQuantity.Mul(newPrice)
	}
	if executedAt != nil {
		updates["executed_at"] = *executedAt
	}
	if note != nil {
		updates["note"] = *note
	}

	if len(updates) > 0 {
		if err := s.db.Model(trade).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := s.holdingService.ReconcileHolding(userID, trade.AssetID); err != nil {
			return nil, err
		}
	}

	return trade, nil
}

// DeleteTrade removes a trade and reconciles the asset's holding.
func (s *tradeService) DeleteTrade(userID, tradeID string) error {
	trade, err := s.GetTradeByID(userID, tradeID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(&models.Trade{}, "id = ?", trade.ID).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.holdingService.ReconcileHolding(userID, trade.AssetID)
}
