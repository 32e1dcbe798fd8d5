package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeSide represents the direction of a trade.
type TradeSide string

const (
	TradeSideBuy  TradeSide = "BUY"
	TradeSideSell TradeSide = "SELL"
)

// Trade represents a single buy or sell event against an asset.
// Trades are conceptually append-only; deletions are supported but
// trigger a holding reconciliation for the affected asset.
// TotalValue is computed at write time and persisted, never recomputed
// by the reconciler.
type Trade struct {
	Base
	UserID       string          `gorm:"type:uuid;not null;index" json:"user_id"`
	AssetID      string          `gorm:"type:uuid;not null;index" json:"asset_id"`
	Side         TradeSide       `gorm:"not null" json:"side"`
	Quantity     decimal.Decimal `gorm:"type:decimal(30,10);not null" json:"quantity"`
	PricePerUnit decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"price_per_unit"`
	TotalValue   decimal.Decimal `gorm:"type:decimal(30,10);not null" json:"total_value"`
	ExecutedAt   time.Time       `gorm:"not null;index" json:"executed_at"`
	Note         string          `json:"note"`

	// Relationships
	Asset Asset `gorm:"foreignKey:AssetID" json:"asset,omitempty"`
}
