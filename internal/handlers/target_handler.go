package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "cryptofolio/internal/errors"
	"cryptofolio/internal/services"
)

// TargetHandler handles target allocation requests.
type TargetHandler struct {
	targetService services.TargetServicer
}

// NewTargetHandler creates a new TargetHandler.
func NewTargetHandler(targetService services.TargetServicer) *TargetHandler {
	return &TargetHandler{targetService: targetService}
}

// CreateTargetRequest represents the request payload for creating a target
// allocation. Percent may be omitted for the cash asset, in which case it
// defaults to the unallocated remainder.
type CreateTargetRequest struct {
	AssetID string           `json:"asset_id" binding:"required,uuid"`
	Percent *decimal.Decimal `json:"percent"`
}

// UpdateTargetRequest represents the request payload for updating a target.
type UpdateTargetRequest struct {
	Percent decimal.Decimal `json:"percent" binding:"required"`
}

// CreateTarget handles creating a target allocation.
// @Summary     Create target allocation
// @Description Set a target percentage for an asset; the user's targets may not sum past 100%
// @Tags        targets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTargetRequest true "Target details"
// @Success     201 {object} models.TargetAllocation "Target created"
// @Failure     400 {object} ErrorResponse "Invalid input or allocation exceeds 100%"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Asset not found"
// @Failure     409 {object} ErrorResponse "Target already exists for asset"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /targets [post]
func (h *TargetHandler) CreateTarget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	target, err := h.targetService.CreateTarget(userID, req.AssetID, req.Percent)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"target": target})
}

// GetTargets handles listing the user's target allocations.
// @Summary     Get target allocations
// @Description Get all of the user's target allocations with their assets
// @Tags        targets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.TargetAllocation "Targets"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /targets [get]
func (h *TargetHandler) GetTargets(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	targets, err := h.targetService.GetUserTargets(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"targets": targets})
}

// UpdateTarget handles changing a target's percentage.
// @Summary     Update target allocation
// @Description Change a target's percentage; the 100% cap is revalidated
// @Tags        targets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string              true "Target ID"
// @Param       request body UpdateTargetRequest true "New percentage"
// @Success     200 {object} models.TargetAllocation "Updated target"
// @Failure     400 {object} ErrorResponse "Invalid input or allocation exceeds 100%"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Target not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /targets/{id} [put]
func (h *TargetHandler) UpdateTarget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	targetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateTargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	target, err := h.targetService.UpdateTarget(userID, targetID, req.Percent)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"target": target})
}

// DeleteTarget handles removing a target allocation.
// @Summary     Delete target allocation
// @Description Delete a target allocation
// @Tags        targets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Target ID"
// @Success     204 "Target deleted"
// @Failure     400 {object} ErrorResponse "Invalid target ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Target not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /targets/{id} [delete]
func (h *TargetHandler) DeleteTarget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	targetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.targetService.DeleteTarget(userID, targetID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
