package services

import (
	"cryptofolio/internal/portfolio"
)

// portfolioService computes the dashboard and rebalance views. It is a
// thin orchestrator: it gathers holdings, targets, and the current price
// snapshot, and hands the math to the portfolio package. Everything is
// recomputed from the source of truth on each call; nothing is cached.
type portfolioService struct {
	holdingService HoldingServicer
	targetService  TargetServicer
	priceSource    PriceSource
}

// NewPortfolioService creates a new PortfolioServicer.
func NewPortfolioService(holdingService HoldingServicer, targetService TargetServicer, priceSource PriceSource) PortfolioServicer {
	return &portfolioService{
		holdingService: holdingService,
		targetService:  targetService,
		priceSource:    priceSource,
	}
}

// GetOverview returns the user's holdings valued at live prices, the
// portfolio total, and the value-weighted 24h change.
func (s *portfolioService) GetOverview(userID string) (*PortfolioOverview, error) {
	holdings, err := s.holdingService.GetUserHoldings(userID)
	if err != nil {
		return nil, err
	}

	enriched, total := portfolio.EnrichHoldings(holdings, s.priceSource.Snapshot())

	return &PortfolioOverview{
		Holdings:         enriched,
		TotalValueUSD:    total,
		Change24hPercent: portfolio.WeightedChange24h(enriched, total),
	}, nil
}

// GetRebalancePlan returns buy/sell/hold recommendations against the
// user's target allocations, largest deviation first.
func (s *portfolioService) GetRebalancePlan(userID string) ([]portfolio.RebalanceAction, error) {
	holdings, err := s.holdingService.GetUserHoldings(userID)
	if err != nil {
		return nil, err
	}
	targets, err := s.targetService.GetUserTargets(userID)
	if err != nil {
		return nil, err
	}

	enriched, total := portfolio.EnrichHoldings(holdings, s.priceSource.Snapshot())
	return portfolio.Plan(enriched, targets, total), nil
}
