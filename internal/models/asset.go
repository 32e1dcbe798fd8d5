package models

// AssetType represents the type of a tradable or cash instrument.
type AssetType string

const (
	AssetTypeCrypto     AssetType = "crypto"
	AssetTypeStablecoin AssetType = "stablecoin"
	AssetTypeCash       AssetType = "cash"
)

// Asset represents a tradable or cash instrument owned by a user.
// Each user has at most one cash asset (symbol USD by convention);
// cash is valued at a fixed 1.0 and never hits the price feed.
type Asset struct {
	Base
	UserID      string    `gorm:"type:uuid;not null;uniqueIndex:uq_assets_user_symbol" json:"user_id"`
	Symbol      string    `gorm:"not null;uniqueIndex:uq_assets_user_symbol" json:"symbol"`
	Name        string    `gorm:"not null" json:"name"`
	Type        AssetType `gorm:"not null" json:"type"`
	CoinGeckoID string    `json:"coingecko_id,omitempty"`

	// Relationships
	Trades  []Trade  `gorm:"foreignKey:AssetID" json:"trades,omitempty"`
	Holding *Holding `gorm:"foreignKey:AssetID" json:"holding,omitempty"`
}
