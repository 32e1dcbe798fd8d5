package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "cryptofolio/internal/errors"
	"cryptofolio/internal/models"
	"cryptofolio/internal/pagination"
	"cryptofolio/internal/services"
)

// TradeHandler handles trade-related requests.
type TradeHandler struct {
	tradeService services.TradeServicer
}

// NewTradeHandler creates a new TradeHandler.
func NewTradeHandler(tradeService services.TradeServicer) *TradeHandler {
	return &TradeHandler{tradeService: tradeService}
}

// CreateTradeRequest represents the request payload for recording a trade.
type CreateTradeRequest struct {
	Side         models.TradeSide `json:"side" binding:"required,trade_side"`
	Quantity     decimal.Decimal  `json:"quantity" binding:"required"`
	PricePerUnit decimal.Decimal  `json:"price_per_unit" binding:"required"`
	ExecutedAt   time.Time        `json:"executed_at"`
	Note         string           `json:"note" binding:"max=500"`
}

// UpdateTradeRequest represents the request payload for editing a trade.
// Side and asset are immutable; omitted fields are left unchanged.
type UpdateTradeRequest struct {
	Quantity     *decimal.Decimal `json:"quantity"`
	PricePerUnit *decimal.Decimal `json:"price_per_unit"`
	ExecutedAt   *time.Time       `json:"executed_at"`
	Note         *string          `json:"note" binding:"omitempty,max=500"`
}

// tradeFilter parses the optional side/from/to query parameters.
func tradeFilter(c *gin.Context) (services.TradeFilter, error) {
	var filter services.TradeFilter

	if raw := c.Query("side"); raw != "" {
		side := models.TradeSide(raw)
		if side != models.TradeSideBuy && side != models.TradeSideSell {
			return filter, apperrors.ErrInvalidTradeSide
		}
		filter.Side = &side
	}
	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid from date, expected RFC3339")
		}
		filter.FromDate = &from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid to date, expected RFC3339")
		}
		filter.ToDate = &to
	}

	return filter, nil
}

// CreateTrade handles recording a trade against an asset.
// @Summary     Record trade
// @Description Record a buy or sell trade for an asset; the asset's holding is reconciled before the response
// @Tags        trades
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string             true "Asset ID"
// @Param       request body CreateTradeRequest true "Trade details"
// @Success     201 {object} models.Trade "Trade created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Asset not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /assets/{id}/trades [post]
func (h *TradeHandler) CreateTrade(c *gin.Context) {
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

	var req CreateTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	trade, err := h.tradeService.CreateTrade(userID, assetID, req.Side, req.Quantity, req.PricePerUnit, req.ExecutedAt, req.Note)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"trade": trade})
}

// GetAssetTrades handles listing trades for one asset.
// @Summary     Get asset trades
// @Description Get a paginated list of trades for an asset, newest first
// @Tags        trades
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id        path  string true  "Asset ID"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Param       side      query string false "Filter by side (BUY or SELL)"
// @Param       from      query string false "Filter trades executed at or after this RFC3339 time"
// @Param       to        query string false "Filter trades executed at or before this RFC3339 time"
// @Success     200 {object} pagination.PageResponse[models.Trade] "Paginated trades"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Asset not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /assets/{id}/trades [get]
func (h *TradeHandler) GetAssetTrades(c *gin.Context) {
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

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter, err := tradeFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.tradeService.GetAssetTrades(userID, assetID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetTrades handles listing all of the user's trades.
// @Summary     Get trades
// @Description Get a paginated list of all the user's trades, newest first
// @Tags        trades
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Param       side      query string false "Filter by side (BUY or SELL)"
// @Param       from      query string false "Filter trades executed at or after this RFC3339 time"
// @Param       to        query string false "Filter trades executed at or before this RFC3339 time"
// @Success     200 {object} pagination.PageResponse[models.Trade] "Paginated trades"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /trades [get]
func (h *TradeHandler) GetTrades(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter, err := tradeFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.tradeService.GetUserTrades(userID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetTrade handles retrieving a specific trade.
// @Summary     Get trade by ID
// @Description Get a specific trade by ID
// @Tags        trades
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Trade ID"
// @Success     200 {object} models.Trade "Trade details"
// @Failure     400 {object} ErrorResponse "Invalid trade ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Trade not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /trades/{id} [get]
func (h *TradeHandler) GetTrade(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	tradeID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	trade, err := h.tradeService.GetTradeByID(userID, tradeID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"trade": trade})
}

// UpdateTrade handles editing a trade.
// @Summary     Update trade
// @Description Edit a trade's quantity, price, timestamp, or note; the holding is reconciled afterwards
// @Tags        trades
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string             true "Trade ID"
// @Param       request body UpdateTradeRequest true "Fields to update"
// @Success     200 {object} models.Trade "Updated trade"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Trade not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /trades/{id} [put]
func (h *TradeHandler) UpdateTrade(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	tradeID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	trade, err := h.tradeService.UpdateTrade(userID, tradeID, req.Quantity, req.PricePerUnit, req.ExecutedAt, req.Note)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"trade": trade})
}

// DeleteTrade handles removing a trade.
// @Summary     Delete trade
// @Description Delete a trade; the asset's holding is reconciled afterwards
// @Tags        trades
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Trade ID"
// @Success     204 "Trade deleted"
// @Failure     400 {object} ErrorResponse "Invalid trade ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Trade not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /trades/{id} [delete]
func (h *TradeHandler) DeleteTrade(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	tradeID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.tradeService.DeleteTrade(userID, tradeID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
