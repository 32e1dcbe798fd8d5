package portfolio

import (
	"testing"

	"github.com/shopspring/decimal"

	"cryptofolio/internal/models"
)

func holding(assetID, symbol string, assetType models.AssetType, coinGeckoID, quantity, average string) models.Holding {
	return models.Holding{
		AssetID:         assetID,
		Quantity:        decimal.RequireFromString(quantity),
		AverageBuyPrice: decimal.RequireFromString(average),
		Asset: models.Asset{
			Symbol:      symbol,
			Type:        assetType,
			CoinGeckoID: coinGeckoID,
		},
	}
}

func target(assetID, symbol string, assetType models.AssetType, percent string) models.TargetAllocation {
	return models.TargetAllocation{
		AssetID: assetID,
		Percent: decimal.RequireFromString(percent),
		Asset: models.Asset{
			Symbol: symbol,
			Type:   assetType,
		},
	}
}

func quote(price, change string) Quote {
	return Quote{
		PriceUSD:         decimal.RequireFromString(price),
		Change24hPercent: decimal.RequireFromString(change),
	}
}

func TestEnrichHoldings(t *testing.T) {
	t.Run("values holdings at live prices", func(t *testing.T) {
		holdings := []models.Holding{
			holding("a1", "BTC", models.AssetTypeCrypto, "bitcoin", "0.5", "40000"),
			holding("a2", "USD", models.AssetTypeCash, "", "5000", "1"),
		}
		quotes := map[string]Quote{
			"bitcoin": quote("50000", "2"),
		}

		enriched, total := EnrichHoldings(holdings, quotes)

		if !total.Equal(decimal.RequireFromString("30000")) {
			t.Fatalf("expected total 30000, got %s", total.String())
		}
		if !enriched[0].ValueUSD.Equal(decimal.RequireFromString("25000")) {
			t.Errorf("expected BTC value 25000, got %s", enriched[0].ValueUSD.String())
		}
		// Cash is valued at a fixed 1.0 without a quote.
		if !enriched[1].ValueUSD.Equal(decimal.RequireFromString("5000")) {
			t.Errorf("expected cash value 5000, got %s", enriched[1].ValueUSD.String())
		}
		// 25000/30000 and 5000/30000.
		if enriched[0].AllocationPercent.Round(4).String() != "83.3333" {
			t.Errorf("expected BTC allocation 83.3333, got %s", enriched[0].AllocationPercent.Round(4).String())
		}
	})

	t.Run("missing quote degrades to zero value", func(t *testing.T) {
		holdings := []models.Holding{
			holding("a1", "OBS", models.AssetTypeCrypto, "obscure-coin", "10", "5"),
			holding("a2", "USD", models.AssetTypeCash, "", "100", "1"),
		}

		enriched, total := EnrichHoldings(holdings, map[string]Quote{})

		if !enriched[0].ValueUSD.IsZero() {
			t.Errorf("expected zero value for unquoted asset, got %s", enriched[0].ValueUSD.String())
		}
		if !total.Equal(decimal.RequireFromString("100")) {
			t.Errorf("expected total 100, got %s", total.String())
		}
	})

	t.Run("empty portfolio has zero total and no allocations", func(t *testing.T) {
		enriched, total := EnrichHoldings(nil, nil)
		if len(enriched) != 0 {
			t.Errorf("expected no enriched holdings, got %d", len(enriched))
		}
		if !total.IsZero() {
			t.Errorf("expected zero total, got %s", total.String())
		}
	})
}

func TestPlan(t *testing.T) {
	t.Run("underweight asset gets a buy sized in units", func(t *testing.T) {
		// $10,000 portfolio: BTC at 20%, target 35% -> buy $1,500 worth.
		holdings := []models.Holding{
			holding("btc", "BTC", models.AssetTypeCrypto, "bitcoin", "0.04", "45000"),
			holding("usd", "USD", models.AssetTypeCash, "", "8000", "1"),
		}
		quotes := map[string]Quote{"bitcoin": quote("50000", "0")}
		targets := []models.TargetAllocation{
			target("btc", "BTC", models.AssetTypeCrypto, "35"),
		}

		enriched, total := EnrichHoldings(holdings, quotes)
		actions := Plan(enriched, targets, total)

		if len(actions) != 1 {
			t.Fatalf("expected 1 action, got %d", len(actions))
		}
		a := actions[0]
		if a.Action != ActionBuy {
			t.Errorf("expected BUY, got %s", a.Action)
		}
		if !a.DiffPercent.Equal(decimal.RequireFromString("15")) {
			t.Errorf("expected diff 15, got %s", a.DiffPercent.String())
		}
		if !a.DiffValueUSD.Equal(decimal.RequireFromString("1500")) {
			t.Errorf("expected diff value 1500, got %s", a.DiffValueUSD.String())
		}
		if !a.SuggestedQuantity.Equal(decimal.RequireFromString("0.03")) {
			t.Errorf("expected suggested quantity 0.03, got %s", a.SuggestedQuantity.String())
		}
	})

	t.Run("overweight asset gets a sell", func(t *testing.T) {
		holdings := []models.Holding{
			holding("eth", "ETH", models.AssetTypeCrypto, "ethereum", "2", "1500"),
			holding("usd", "USD", models.AssetTypeCash, "", "2000", "1"),
		}
		quotes := map[string]Quote{"ethereum": quote("4000", "0")}
		targets := []models.TargetAllocation{
			target("eth", "ETH", models.AssetTypeCrypto, "50"),
		}

		// ETH is 8000/10000 = 80%, target 50% -> sell $3,000 worth.
		enriched, total := EnrichHoldings(holdings, quotes)
		actions := Plan(enriched, targets, total)

		a := actions[0]
		if a.Action != ActionSell {
			t.Errorf("expected SELL, got %s", a.Action)
		}
		if !a.SuggestedQuantity.Equal(decimal.RequireFromString("0.75")) {
			t.Errorf("expected suggested quantity 0.75, got %s", a.SuggestedQuantity.String())
		}
	})

	t.Run("deviation on the band boundary holds", func(t *testing.T) {
		// Current 50%, target 51%: diff exactly +1.0 stays inside the band.
		holdings := []models.Holding{
			holding("btc", "BTC", models.AssetTypeCrypto, "bitcoin", "1", "100"),
			holding("usd", "USD", models.AssetTypeCash, "", "100", "1"),
		}
		quotes := map[string]Quote{"bitcoin": quote("100", "0")}
		targets := []models.TargetAllocation{
			target("btc", "BTC", models.AssetTypeCrypto, "51"),
		}

		enriched, total := EnrichHoldings(holdings, quotes)
		actions := Plan(enriched, targets, total)

		if actions[0].Action != ActionHold {
			t.Errorf("expected HOLD at exactly +1.0, got %s", actions[0].Action)
		}
	})

	t.Run("deviation just past the band trades", func(t *testing.T) {
		holdings := []models.Holding{
			holding("btc", "BTC", models.AssetTypeCrypto, "bitcoin", "1", "100"),
			holding("usd", "USD", models.AssetTypeCash, "", "100", "1"),
		}
		quotes := map[string]Quote{"bitcoin": quote("100", "0")}
		targets := []models.TargetAllocation{
			target("btc", "BTC", models.AssetTypeCrypto, "51.01"),
		}

		enriched, total := EnrichHoldings(holdings, quotes)
		actions := Plan(enriched, targets, total)

		if actions[0].Action != ActionBuy {
			t.Errorf("expected BUY at +1.01, got %s", actions[0].Action)
		}
	})

	t.Run("zero portfolio value yields no actions", func(t *testing.T) {
		targets := []models.TargetAllocation{
			target("btc", "BTC", models.AssetTypeCrypto, "50"),
		}
		actions := Plan(nil, targets, decimal.Zero)
		if len(actions) != 0 {
			t.Errorf("expected no actions, got %d", len(actions))
		}
	})

	t.Run("no targets yields no actions", func(t *testing.T) {
		actions := Plan(nil, nil, decimal.RequireFromString("1000"))
		if len(actions) != 0 {
			t.Errorf("expected no actions, got %d", len(actions))
		}
	})

	t.Run("target without holding counts as zero percent", func(t *testing.T) {
		holdings := []models.Holding{
			holding("usd", "USD", models.AssetTypeCash, "", "1000", "1"),
		}
		quotes := map[string]Quote{"bitcoin": quote("50000", "0")}
		targets := []models.TargetAllocation{
			target("btc", "BTC", models.AssetTypeCrypto, "30"),
		}

		enriched, total := EnrichHoldings(holdings, quotes)
		actions := Plan(enriched, targets, total)

		a := actions[0]
		if a.Action != ActionBuy {
			t.Errorf("expected BUY, got %s", a.Action)
		}
		if !a.CurrentPercent.IsZero() {
			t.Errorf("expected current percent 0, got %s", a.CurrentPercent.String())
		}
		// No holding means no live price, so the trade cannot be sized.
		if !a.SuggestedQuantity.IsZero() {
			t.Errorf("expected suggested quantity 0 without a price, got %s", a.SuggestedQuantity.String())
		}
	})

	t.Run("cash target without holding is sized at a dollar each", func(t *testing.T) {
		holdings := []models.Holding{
			holding("btc", "BTC", models.AssetTypeCrypto, "bitcoin", "1", "100"),
		}
		quotes := map[string]Quote{"bitcoin": quote("1000", "0")}
		targets := []models.TargetAllocation{
			target("usd", "USD", models.AssetTypeCash, "10"),
		}

		enriched, total := EnrichHoldings(holdings, quotes)
		actions := Plan(enriched, targets, total)

		// 10% of $1,000 at $1 per unit.
		if !actions[0].SuggestedQuantity.Equal(decimal.RequireFromString("100")) {
			t.Errorf("expected suggested quantity 100, got %s", actions[0].SuggestedQuantity.String())
		}
	})

	t.Run("actions sort by absolute deviation then symbol", func(t *testing.T) {
		holdings := []models.Holding{
			holding("a", "AAA", models.AssetTypeCrypto, "aaa", "10", "10"), // 25%
			holding("b", "BBB", models.AssetTypeCrypto, "bbb", "10", "10"), // 25%
			holding("c", "CCC", models.AssetTypeCrypto, "ccc", "20", "10"), // 50%
		}
		quotes := map[string]Quote{
			"aaa": quote("10", "0"),
			"bbb": quote("10", "0"),
			"ccc": quote("10", "0"),
		}
		targets := []models.TargetAllocation{
			target("c", "CCC", models.AssetTypeCrypto, "30"), // diff -20
			target("a", "AAA", models.AssetTypeCrypto, "35"), // diff +10
			target("b", "BBB", models.AssetTypeCrypto, "35"), // diff +10
		}

		enriched, total := EnrichHoldings(holdings, quotes)
		actions := Plan(enriched, targets, total)

		symbols := []string{actions[0].Symbol, actions[1].Symbol, actions[2].Symbol}
		want := []string{"CCC", "AAA", "BBB"}
		for i := range want {
			if symbols[i] != want[i] {
				t.Fatalf("expected order %v, got %v", want, symbols)
			}
		}
	})
}

func TestWeightedChange24h(t *testing.T) {
	t.Run("weights each change by value share", func(t *testing.T) {
		holdings := []models.Holding{
			holding("btc", "BTC", models.AssetTypeCrypto, "bitcoin", "1", "100"),
			holding("eth", "ETH", models.AssetTypeCrypto, "ethereum", "1", "100"),
		}
		quotes := map[string]Quote{
			"bitcoin":  quote("3000", "10"),
			"ethereum": quote("1000", "-2"),
		}

		enriched, total := EnrichHoldings(holdings, quotes)
		change := WeightedChange24h(enriched, total)

		// (10*3000 + -2*1000) / 4000 = 7
		if !change.Equal(decimal.RequireFromString("7")) {
			t.Errorf("expected weighted change 7, got %s", change.String())
		}
	})

	t.Run("zero total yields zero change", func(t *testing.T) {
		change := WeightedChange24h(nil, decimal.Zero)
		if !change.IsZero() {
			t.Errorf("expected zero change, got %s", change.String())
		}
	})
}
