package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "cryptofolio/internal/errors"
	"cryptofolio/internal/models"
)

var oneHundred = decimal.NewFromInt(100)

// targetService handles target allocation business logic.
type targetService struct {
	db           *gorm.DB
	assetService AssetServicer
}

// NewTargetService creates a new TargetServicer.
func NewTargetService(db *gorm.DB, assetService AssetServicer) TargetServicer {
	return &targetService{db: db, assetService: assetService}
}

// sumOtherTargets returns the total percentage of the user's targets,
// excluding the one with excludeID when non-empty.
func (s *targetService) sumOtherTargets(userID, excludeID string) (decimal.Decimal, error) {
	var targets []models.TargetAllocation
	query := s.db.Where("user_id = ?", userID)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Find(&targets).Error; err != nil {
		return decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	sum := decimal.Zero
	for i := range targets {
		sum = sum.Add(targets[i].Percent)
	}
	return sum, nil
}

// CreateTarget creates a target allocation for an asset. The sum of a
// user's targets may not exceed 100%. When percent is nil and the asset
// is the cash asset, the target defaults to the residual percentage.
func (s *targetService) CreateTarget(userID, assetID string, percent *decimal.Decimal) (*models.TargetAllocation, error) {
	asset, err := s.assetService.GetAssetByID(userID, assetID)
	if err != nil {
		return nil, err
	}

	sum, err := s.sumOtherTargets(userID, "")
	if err != nil {
		return nil, err
	}

	var pct decimal.Decimal
	switch {
	case percent != nil:
		pct = *percent
	case asset.Type == models.AssetTypeCash:
		pct = oneHundred.Sub(sum)
		if pct.IsNegative() {
			pct = decimal.Zero
		}
	default:
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Percent is required for non-cash assets")
	}

	if pct.IsNegative() || pct.GreaterThan(oneHundred) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Percent must be between 0 and 100")
	}
	if sum.Add(pct).GreaterThan(oneHundred) {
		return nil, apperrors.ErrAllocationExceeded
	}

	target := &models.TargetAllocation{
		UserID:  userID,
		AssetID: asset.ID,
		Percent: pct,
	}

	if err := s.db.Create(target).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.ErrDuplicateTarget
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	target.Asset = *asset
	return target, nil
}

// GetUserTargets returns all of a user's targets with assets preloaded.
func (s *targetService) GetUserTargets(userID string) ([]models.TargetAllocation, error) {
	var targets []models.TargetAllocation
	if err := s.db.Preload("Asset").Where("user_id = ?", userID).Find(&targets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return targets, nil
}

// UpdateTarget changes a target's percentage, revalidating the 100% cap.
func (s *targetService) UpdateTarget(userID, targetID string, percent decimal.Decimal) (*models.TargetAllocation, error) {
	var target models.TargetAllocation
	if err := s.db.Preload("Asset").
		Where("id = ? AND user_id = ?", targetID, userID).
		First(&target).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTargetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if percent.IsNegative() || percent.GreaterThan(oneHundred) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Percent must be between 0 and 100")
	}

	sum, err := s.sumOtherTargets(userID, targetID)
	if err != nil {
		return nil, err
	}
	if sum.Add(percent).GreaterThan(oneHundred) {
		return nil, apperrors.ErrAllocationExceeded
	}

	if err := s.db.Model(&target).Update("percent", percent).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	target.Percent = percent
	return &target, nil
}

// DeleteTarget removes a target allocation.
func (s *targetService) DeleteTarget(userID, targetID string) error {
	result := s.db.Where("id = ? AND user_id = ?", targetID, userID).Delete(&models.TargetAllocation{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrTargetNotFound
	}
	return nil
}
