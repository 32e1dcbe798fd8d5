package models

import "github.com/shopspring/decimal"

// Holding is a derived record: the reconciler's only output. Its quantity
// and average buy price must always equal the result of replaying the
// asset's full trade history — there is no independent source of truth.
// A holding is never created at zero quantity, but an existing one is
// updated down to zero and retained.
type Holding struct {
	Base
	UserID          string          `gorm:"type:uuid;not null;index" json:"user_id"`
	AssetID         string          `gorm:"type:uuid;not null;uniqueIndex" json:"asset_id"`
	Quantity        decimal.Decimal `gorm:"type:decimal(30,10);not null" json:"quantity"`
	AverageBuyPrice decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"average_buy_price"`

	// Relationships
	Asset Asset `gorm:"foreignKey:AssetID" json:"asset,omitempty"`
}
