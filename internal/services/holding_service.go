package services

import (
	"errors"
	"sync"

	"gorm.io/gorm"

	apperrors "cryptofolio/internal/errors"
	"cryptofolio/internal/models"
	"cryptofolio/internal/portfolio"
)

// holdingService owns derived holding records. Holdings are never edited
// directly: the only write path is ReconcileHolding, which replays the
// asset's trade history.
type holdingService struct {
	db *gorm.DB

	// Per-asset serialization of the reconcile-then-upsert sequence, so
	// concurrent trade mutations for the same asset cannot interleave a
	// stale read-modify-write.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewHoldingService creates a new HoldingServicer.
func NewHoldingService(db *gorm.DB) HoldingServicer {
	return &holdingService{db: db, locks: make(map[string]*sync.Mutex)}
}

func (s *holdingService) assetLock(assetID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[assetID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[assetID] = lock
	}
	return lock
}

// ReconcileHolding recomputes an asset's holding from its full trade
// history and upserts the result. An existing holding is updated even
// down to zero quantity; a new one is created only when the computed
// quantity is positive. Must be called after every trade create, update,
// or delete for the asset. Any collaborator failure aborts before the
// holding is written.
func (s *holdingService) ReconcileHolding(userID, assetID string) error {
	lock := s.assetLock(assetID)
	lock.Lock()
	defer lock.Unlock()

	// Verify asset ownership before touching derived state.
	var asset models.Asset
	if err := s.db.Where("id = ? AND user_id = ?", assetID, userID).First(&asset).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrAssetNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// Chronological order with creation order as the tie-break keeps the
	// replay deterministic for trades sharing a timestamp.
	var trades []models.Trade
	if err := s.db.Where("asset_id = ?", assetID).
		Order("executed_at ASC, created_at ASC, id ASC").
		Find(&trades).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	position := portfolio.Reconcile(trades)

	var holding models.Holding
	err := s.db.Where("asset_id = ?", assetID).First(&holding).Error
	switch {
	case err == nil:
		if updErr := s.db.Model(&holding).Updates(map[string]interface{}{
			"quantity":          position.Quantity,
			"average_buy_price": position.AverageBuyPrice,
		}).Error; updErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, updErr)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		// Never create a zero-quantity holding.
		if !position.Quantity.IsPositive() {
			return nil
		}
		holding = models.Holding{
			UserID:          userID,
			AssetID:         assetID,
			Quantity:        position.Quantity,
			AverageBuyPrice: position.AverageBuyPrice,
		}
		if createErr := s.db.Create(&holding).Error; createErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, createErr)
		}
	default:
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return nil
}

// GetUserHoldings returns all of a user's holdings with assets preloaded.
func (s *holdingService) GetUserHoldings(userID string) ([]models.Holding, error) {
	var holdings []models.Holding
	if err := s.db.Preload("Asset").Where("user_id = ?", userID).Find(&holdings).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return holdings, nil
}

// GetHoldingByAsset returns the holding for one asset if it exists.
func (s *holdingService) GetHoldingByAsset(userID, assetID string) (*models.Holding, error) {
	var holding models.Holding
	if err := s.db.Preload("Asset").
		Where("user_id = ? AND asset_id = ?", userID, assetID).
		First(&holding).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrHoldingNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &holding, nil
}
