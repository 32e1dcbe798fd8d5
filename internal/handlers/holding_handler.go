package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cryptofolio/internal/services"
)

// HoldingHandler handles holding-related requests. Holdings are derived
// records, so the surface is read-only plus an explicit reconcile trigger.
type HoldingHandler struct {
	holdingService services.HoldingServicer
}

// NewHoldingHandler creates a new HoldingHandler.
func NewHoldingHandler(holdingService services.HoldingServicer) *HoldingHandler {
	return &HoldingHandler{holdingService: holdingService}
}

// GetHoldings handles listing the user's holdings.
// @Summary     Get holdings
// @Description Get all of the user's holdings with their assets
// @Tags        holdings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.Holding "Holdings"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /holdings [get]
func (h *HoldingHandler) GetHoldings(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	holdings, err := h.holdingService.GetUserHoldings(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"holdings": holdings})
}

// GetAssetHolding handles retrieving the holding for one asset.
// @Summary     Get asset holding
// @Description Get the holding for a specific asset
// @Tags        holdings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Asset ID"
// @Success     200 {object} models.Holding "Holding details"
// @Failure     400 {object} ErrorResponse "Invalid asset ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Holding not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /assets/{id}/holding [get]
func (h *HoldingHandler) GetAssetHolding(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	assetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	holding, err := h.holdingService.GetHoldingByAsset(userID, assetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"holding": holding})
}

// ReconcileAssetHolding handles an explicit reconcile request. Normally
// reconciliation runs after every trade mutation; this endpoint exists as
// a repair hatch if a holding is suspected to have drifted.
// @Summary     Reconcile asset holding
// @Description Recompute the holding for an asset by replaying its trade history
// @Tags        holdings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Asset ID"
// @Success     200 {object} models.Holding "Reconciled holding"
// @Failure     400 {object} ErrorResponse "Invalid asset ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Asset not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /assets/{id}/holding/reconcile [post]
func (h *HoldingHandler) ReconcileAssetHolding(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	assetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.holdingService.ReconcileHolding(userID, assetID); err != nil {
		respondWithError(c, err)
		return
	}

	// A reconcile can legitimately end with no holding row (all trades
	// deleted, or sells consumed the position before one was created).
	holding, err := h.holdingService.GetHoldingByAsset(userID, assetID)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"holding": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{"holding": holding})
}
