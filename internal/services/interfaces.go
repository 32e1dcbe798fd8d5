package services

import (
	"time"

	"github.com/shopspring/decimal"

	"cryptofolio/internal/models"
	"cryptofolio/internal/pagination"
	"cryptofolio/internal/portfolio"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
	DeleteUser(userID string) error
}

// AssetServicer defines the contract for asset-related business logic.
type AssetServicer interface {
	CreateAsset(userID, symbol, name string, assetType models.AssetType, coinGeckoID string) (*models.Asset, error)
	GetUserAssets(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Asset], error)
	GetAssetByID(userID, assetID string) (*models.Asset, error)
	UpdateAsset(userID, assetID, name, coinGeckoID string) (*models.Asset, error)
	DeleteAsset(userID, assetID string) error
	ListPriceFeedIDs() ([]string, error)
}

// TradeFilter holds optional filter parameters for listing trades.
type TradeFilter struct {
	Side     *models.TradeSide
	FromDate *time.Time
	ToDate   *time.Time
}

// TradeServicer defines the contract for trade-related business logic.
// Every mutation reconciles the affected asset's holding before returning.
type TradeServicer interface {
	CreateTrade(userID, assetID string, side models.TradeSide, quantity, pricePerUnit decimal.Decimal, executedAt time.Time, note string) (*models.Trade, error)
	GetAssetTrades(userID, assetID string, page pagination.PageRequest, filter TradeFilter) (*pagination.PageResponse[models.Trade], error)
	GetUserTrades(userID string, page pagination.PageRequest, filter TradeFilter) (*pagination.PageResponse[models.Trade], error)
	GetTradeByID(userID, tradeID string) (*models.Trade, error)
	UpdateTrade(userID, tradeID string, quantity, pricePerUnit *decimal.Decimal, executedAt *time.Time, note *string) (*models.Trade, error)
	DeleteTrade(userID, tradeID string) error
}

// HoldingServicer defines the contract for derived holding records.
type HoldingServicer interface {
	ReconcileHolding(userID, assetID string) error
	GetUserHoldings(userID string) ([]models.Holding, error)
	GetHoldingByAsset(userID, assetID string) (*models.Holding, error)
}

// TargetServicer defines the contract for target allocations.
type TargetServicer interface {
	CreateTarget(userID, assetID string, percent *decimal.Decimal) (*models.TargetAllocation, error)
	GetUserTargets(userID string) ([]models.TargetAllocation, error)
	UpdateTarget(userID, targetID string, percent decimal.Decimal) (*models.TargetAllocation, error)
	DeleteTarget(userID, targetID string) error
}

// PriceSource supplies the current quote snapshot, keyed by price-feed ID.
type PriceSource interface {
	Snapshot() map[string]portfolio.Quote
}

// PortfolioOverview is the dashboard payload: holdings valued at live
// prices plus portfolio-level aggregates. Recomputed on every request.
type PortfolioOverview struct {
	Holdings         []portfolio.EnrichedHolding `json:"holdings"`
	TotalValueUSD    decimal.Decimal             `json:"total_value_usd"`
	Change24hPercent decimal.Decimal             `json:"change_24h_percent"`
}

// PortfolioServicer defines the contract for portfolio-level computations.
type PortfolioServicer interface {
	GetOverview(userID string) (*PortfolioOverview, error)
	GetRebalancePlan(userID string) ([]portfolio.RebalanceAction, error)
}
