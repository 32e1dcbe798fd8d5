package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cryptofolio/internal/services"
)

// PortfolioHandler handles portfolio-level requests: the valued dashboard
// and the rebalance plan. Both are computed fresh on every request from
// the latest price snapshot.
type PortfolioHandler struct {
	portfolioService services.PortfolioServicer
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(portfolioService services.PortfolioServicer) *PortfolioHandler {
	return &PortfolioHandler{portfolioService: portfolioService}
}

// GetOverview handles retrieving the portfolio dashboard.
// @Summary     Get portfolio overview
// @Description Get holdings valued at live prices, the portfolio total, and the weighted 24h change
// @Tags        portfolio
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.PortfolioOverview "Portfolio overview"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /portfolio [get]
func (h *PortfolioHandler) GetOverview(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	overview, err := h.portfolioService.GetOverview(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"portfolio": overview})
}

// GetRebalancePlan handles retrieving buy/sell/hold recommendations.
// @Summary     Get rebalance plan
// @Description Compare current allocations against targets and suggest trades, largest deviation first
// @Tags        portfolio
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} portfolio.RebalanceAction "Rebalance actions"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /portfolio/rebalance [get]
func (h *PortfolioHandler) GetRebalancePlan(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	actions, err := h.portfolioService.GetRebalancePlan(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"actions": actions})
}
