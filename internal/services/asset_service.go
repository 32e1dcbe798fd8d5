package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "cryptofolio/internal/errors"
	"cryptofolio/internal/models"
	"cryptofolio/internal/pagination"
)

// assetService handles asset-related business logic.
type assetService struct {
	db *gorm.DB
}

// NewAssetService creates a new AssetServicer.
func NewAssetService(db *gorm.DB) AssetServicer {
	return &assetService{db: db}
}

// CreateAsset creates a new asset for a user. At most one cash asset is
// allowed per user; non-cash assets need a price-feed identifier to be
// valued by the dashboard, but one is not required at creation time.
func (s *assetService) CreateAsset(userID, symbol, name string, assetType models.AssetType, coinGeckoID string) (*models.Asset, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Symbol is required")
	}
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Name is required")
	}

	if assetType == models.AssetTypeCash {
		var count int64
		if err := s.db.Model(&models.Asset{}).
			Where("user_id = ? AND type = ?", userID, models.AssetTypeCash).
			Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			return nil, apperrors.ErrDuplicateCashAsset
		}
	}

	asset := &models.Asset{
		UserID:      userID,
		Symbol:      symbol,
		Name:        name,
		Type:        assetType,
		CoinGeckoID: coinGeckoID,
	}

	if err := s.db.Create(asset).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.ErrDuplicateAsset
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return asset, nil
}

// GetUserAssets returns a paginated list of the user's assets ordered by symbol.
func (s *assetService) GetUserAssets(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Asset], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.Asset{}).Where("user_id = ?", userID)
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var assets []models.Asset
	if err := base.Order("symbol ASC").Scopes(pagination.Paginate(page)).Find(&assets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(assets, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetAssetByID returns an asset if it belongs to the user.
func (s *assetService) GetAssetByID(userID, assetID string) (*models.Asset, error) {
	var asset models.Asset
	if err := s.db.Where("id = ? AND user_id = ?", assetID, userID).First(&asset).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAssetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &asset, nil
}

// UpdateAsset updates an asset's display name and price-feed identifier.
// Symbol and type are immutable once trades may reference the asset.
func (s *assetService) UpdateAsset(userID, assetID, name, coinGeckoID string) (*models.Asset, error) {
	asset, err := s.GetAssetByID(userID, assetID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if strings.TrimSpace(name) != "" {
		updates["name"] = name
	}
	if coinGeckoID != "" {
		updates["coin_gecko_id"] = coinGeckoID
	}
	if len(updates) == 0 {
		return asset, nil
	}

	if err := s.db.Model(asset).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return asset, nil
}

// DeleteAsset removes an asset and cascades to its trades, holding, and
// target allocation in a single transaction.
func (s *assetService) DeleteAsset(userID, assetID string) error {
	if _, err := s.GetAssetByID(userID, assetID); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{
			&models.Trade{},
			&models.Holding{},
			&models.TargetAllocation{},
		} {
			if txErr := tx.Where("asset_id = ?", assetID).Delete(model).Error; txErr != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
			}
		}
		if txErr := tx.Delete(&models.Asset{}, "id = ?", assetID).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}
		return nil
	})
}

// ListPriceFeedIDs returns the distinct CoinGecko IDs across all non-cash
// assets, for the price feed poller.
func (s *assetService) ListPriceFeedIDs() ([]string, error) {
	var ids []string
	if err := s.db.Model(&models.Asset{}).
		Where("coin_gecko_id <> '' AND type <> ?", models.AssetTypeCash).
		Distinct("coin_gecko_id").
		Pluck("coin_gecko_id", &ids).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return ids, nil
}

// isUniqueConstraintError checks if a GORM error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || // SQLite
		strings.Contains(msg, "duplicate key value violates unique constraint") // PostgreSQL
}
