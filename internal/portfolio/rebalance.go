package portfolio

import (
	"sort"

	"github.com/shopspring/decimal"

	"cryptofolio/internal/models"
)

// Action is the recommendation emitted for a single target.
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
	ActionHold Action = "HOLD"
)

// rebalanceBand is the ±1 percentage-point dead zone around the target.
// Deviations inside the band (boundary included) are classified HOLD so
// rounding noise never turns into trivial trade recommendations.
var rebalanceBand = decimal.NewFromInt(1)

var hundred = decimal.NewFromInt(100)

// Quote is a live price observation for one asset, keyed by its external
// price-feed identifier.
type Quote struct {
	PriceUSD         decimal.Decimal `json:"price_usd"`
	Change24hPercent decimal.Decimal `json:"change_24h_percent"`
}

// EnrichedHolding is a holding joined with its asset and a live price.
type EnrichedHolding struct {
	AssetID           string           `json:"asset_id"`
	Symbol            string           `json:"symbol"`
	Name              string           `json:"name"`
	AssetType         models.AssetType `json:"asset_type"`
	Quantity          decimal.Decimal  `json:"quantity"`
	AverageBuyPrice   decimal.Decimal  `json:"average_buy_price"`
	PriceUSD          decimal.Decimal  `json:"price_usd"`
	ValueUSD          decimal.Decimal  `json:"value_usd"`
	AllocationPercent decimal.Decimal  `json:"allocation_percent"`
	Change24hPercent  decimal.Decimal  `json:"change_24h_percent"`
}

// RebalanceAction compares one target against the current allocation.
type RebalanceAction struct {
	AssetID           string          `json:"asset_id"`
	Symbol            string          `json:"symbol"`
	Action            Action          `json:"action"`
	TargetPercent     decimal.Decimal `json:"target_percent"`
	CurrentPercent    decimal.Decimal `json:"current_percent"`
	DiffPercent       decimal.Decimal `json:"diff_percent"`
	DiffValueUSD      decimal.Decimal `json:"diff_value_usd"`
	SuggestedQuantity decimal.Decimal `json:"suggested_quantity"`
}

// EnrichHoldings values each holding at its live price and computes its
// share of the total portfolio value. Cash assets are valued at a fixed
// 1.0; every other type is looked up in quotes by the asset's price-feed
// identifier, and a missing quote degrades the holding to zero value
// rather than failing. Returns the enriched holdings and the portfolio
// total in USD.
//
// Each holding's Asset must be populated.
func EnrichHoldings(holdings []models.Holding, quotes map[string]Quote) ([]EnrichedHolding, decimal.Decimal) {
	enriched := make([]EnrichedHolding, 0, len(holdings))
	total := decimal.Zero

	for i := range holdings {
		h := &holdings[i]

		var quote Quote
		if h.Asset.Type == models.AssetTypeCash {
			quote.PriceUSD = decimal.NewFromInt(1)
		} else {
			quote = quotes[h.Asset.CoinGeckoID]
		}

		value := h.Quantity.Mul(quote.PriceUSD)
		total = total.Add(value)

		enriched = append(enriched, EnrichedHolding{
			AssetID:          h.AssetID,
			Symbol:           h.Asset.Symbol,
			Name:             h.Asset.Name,
			AssetType:        h.Asset.Type,
			Quantity:         h.Quantity,
			AverageBuyPrice:  h.AverageBuyPrice,
			PriceUSD:         quote.PriceUSD,
			ValueUSD:         value,
			Change24hPercent: quote.Change24hPercent,
		})
	}

	if total.IsPositive() {
		for i := range enriched {
			enriched[i].AllocationPercent = enriched[i].ValueUSD.Div(total).Mul(hundred)
		}
	}

	return enriched, total
}

// Plan compares current allocations against the user's targets and emits
// one recommendation per target, largest deviation first. A target with
// no holding counts as 0% current allocation. Returns an empty list when
// the portfolio has no value or there are no targets.
//
// Each target's Asset must be populated.
func Plan(enriched []EnrichedHolding, targets []models.TargetAllocation, totalValue decimal.Decimal) []RebalanceAction {
	if !totalValue.IsPositive() || len(targets) == 0 {
		return []RebalanceAction{}
	}

	byAsset := make(map[string]*EnrichedHolding, len(enriched))
	for i := range enriched {
		byAsset[enriched[i].AssetID] = &enriched[i]
	}

	actions := make([]RebalanceAction, 0, len(targets))
	for i := range targets {
		tgt := &targets[i]

		current := decimal.Zero
		price := decimal.Zero
		if h, ok := byAsset[tgt.AssetID]; ok {
			current = h.AllocationPercent
			price = h.PriceUSD
		} else if tgt.Asset.Type == models.AssetTypeCash {
			price = decimal.NewFromInt(1)
		}

		diffPercent := tgt.Percent.Sub(current)
		diffValue := diffPercent.Div(hundred).Mul(totalValue)

		action := ActionHold
		switch {
		case diffPercent.GreaterThan(rebalanceBand):
			action = ActionBuy
		case diffPercent.LessThan(rebalanceBand.Neg()):
			action = ActionSell
		}

		// A trade cannot be sized without a price; the percentage
		// deviation is still reported.
		suggested := decimal.Zero
		if price.IsPositive() {
			suggested = diffValue.Abs().Div(price).Round(QuantityPrecision)
		}

		actions = append(actions, RebalanceAction{
			AssetID:           tgt.AssetID,
			Symbol:            tgt.Asset.Symbol,
			Action:            action,
			TargetPercent:     tgt.Percent,
			CurrentPercent:    current,
			DiffPercent:       diffPercent,
			DiffValueUSD:      diffValue,
			SuggestedQuantity: suggested,
		})
	}

	sort.SliceStable(actions, func(i, j int) bool {
		a, b := actions[i].DiffPercent.Abs(), actions[j].DiffPercent.Abs()
		if !a.Equal(b) {
			return a.GreaterThan(b)
		}
		return actions[i].Symbol < actions[j].Symbol
	})

	return actions
}

// WeightedChange24h returns the portfolio's 24-hour change, weighting each
// holding's change by its share of total value. Zero when the portfolio
// has no value.
func WeightedChange24h(enriched []EnrichedHolding, totalValue decimal.Decimal) decimal.Decimal {
	if !totalValue.IsPositive() {
		return decimal.Zero
	}

	sum := decimal.Zero
	for i := range enriched {
		sum = sum.Add(enriched[i].Change24hPercent.Mul(enriched[i].ValueUSD))
	}
	return sum.Div(totalValue)
}
