// Package portfolio contains the pure portfolio computations: replaying a
// trade history into a position, valuing holdings at live prices, and
// producing rebalance recommendations. Nothing in this package touches
// storage or the network.
package portfolio

import (
	"github.com/shopspring/decimal"

	"cryptofolio/internal/models"
)

// Rounding applied at the persistence boundary only; the running
// computation stays at full precision to avoid compounding error.
const (
	QuantityPrecision = 8 // fractional crypto units
	PricePrecision    = 2 // USD cents
)

// Position is the result of replaying a trade history.
type Position struct {
	Quantity        decimal.Decimal `json:"quantity"`
	AverageBuyPrice decimal.Decimal `json:"average_buy_price"`
}

// Reconcile replays a chronologically ordered trade history for a single
// asset into its current quantity and weighted average buy price.
//
// Buys add quantity and cost at the trade price. Sells reduce quantity at
// the running average cost, leaving the average unchanged; a sell against
// an empty position is a no-op (no short positions). The average is zero
// whenever the quantity is zero.
//
// Callers must supply trades ordered by execution time, with insertion
// order as the tie-break, so the result is deterministic.
func Reconcile(trades []models.Trade) Position {
	quantity := decimal.Zero
	totalCost := decimal.Zero

	for i := range trades {
		t := &trades[i]
		switch t.Side {
		case models.TradeSideBuy:
			totalCost = totalCost.Add(t.Quantity.Mul(t.PricePerUnit))
			quantity = quantity.Add(t.Quantity)
		case models.TradeSideSell:
			if !quantity.IsPositive() {
				continue
			}
			avgCost := totalCost.Div(quantity)
			quantity = quantity.Sub(t.Quantity)
			if quantity.IsNegative() {
				quantity = decimal.Zero
			}
			totalCost = quantity.Mul(avgCost)
		}
	}

	average := decimal.Zero
	if quantity.IsPositive() {
		average = totalCost.Div(quantity)
	}

	return Position{
		Quantity:        quantity.Round(QuantityPrecision),
		AverageBuyPrice: average.Round(PricePrecision),
	}
}
