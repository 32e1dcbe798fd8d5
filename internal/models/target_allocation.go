package models

import "github.com/shopspring/decimal"

// TargetAllocation is a user-defined allocation goal for one asset.
// The sum of a user's targets must not exceed 100%; the cash asset's
// target defaults to the residual percentage when created without one.
type TargetAllocation struct {
	Base
	UserID  string          `gorm:"type:uuid;not null;index" json:"user_id"`
	AssetID string          `gorm:"type:uuid;not null;uniqueIndex" json:"asset_id"`
	Percent decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"percent"`

	// Relationships
	Asset Asset `gorm:"foreignKey:AssetID" json:"asset,omitempty"`
}
