package agronomy

import "strings"

func lower(s string) string { return strings.ToLower(s) }

// Market trend classifications returned by PredictMarketTrend.
const (
	TrendUpward       = "Upward trend - Good time to sell"
	TrendDownward     = "Downward trend - Consider holding if storage available"
	TrendStable       = "Stable prices - Neutral market"
	TrendInsufficient = "Insufficient data"
)

// PredictMarketTrend compares the current price against the mean of the last
// three historical prices: more than 10% above classifies upward, more than
// 10% below downward, anything else stable. Fewer than three historical
// prices is insufficient data.
func PredictMarketTrend(historicalPrices []float64, currentPrice float64) string {
	if len(historicalPrices) < 3 {
		return TrendInsufficient
	}

	recent := historicalPrices[len(historicalPrices)-3:]
	var sum float64
	for _, p := range recent {
		sum += p
	}
	avg := sum / float64(len(recent))

	switch {
	case currentPrice > avg*1.1:
		return TrendUpward
	case currentPrice < avg*0.9:
		return TrendDownward
	default:
		return TrendStable
	}
}
