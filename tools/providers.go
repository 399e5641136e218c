package tools

import (
	"context"
	"strconv"
	"strings"
)

// WeatherReport is a localized weather summary in the shape handlers return
// to the model.
type WeatherReport struct {
	Location           string `json:"location"`
	Temperature        string `json:"temperature"`
	Humidity           string `json:"humidity"`
	RainfallPrediction string `json:"rainfall_prediction"`
	WindSpeed          string `json:"wind_speed"`
}

// WeatherProvider supplies weather data. The real provider is external to
// this core; the static implementation stands in for it.
type WeatherProvider interface {
	Forecast(ctx context.Context, location string) (WeatherReport, error)
}

// PriceInfo is a market price summary for one crop at one location.
type PriceInfo struct {
	CurrentPrice string   `json:"current_price"`
	MarketTrend  string   `json:"market_trend"`
	NearbyMandis []string `json:"nearby_mandis"`
}

// MarketProvider supplies current market prices. The real provider is
// external to this core; the static implementation stands in for it.
type MarketProvider interface {
	Price(ctx context.Context, cropName, location string) (PriceInfo, error)
}

// StaticWeather returns a fixed forecast for any location.
type StaticWeather struct{}

// Forecast implements WeatherProvider.
func (StaticWeather) Forecast(_ context.Context, location string) (WeatherReport, error) {
	return WeatherReport{
		Location:           location,
		Temperature:        "28°C",
		Humidity:           "65%",
		RainfallPrediction: "Light rain expected tomorrow",
		WindSpeed:          "12 km/h",
	}, nil
}

// StaticMarket returns a fixed price for any crop and location.
type StaticMarket struct{}

// Price implements MarketProvider.
func (StaticMarket) Price(_ context.Context, _, _ string) (PriceInfo, error) {
	return PriceInfo{
		CurrentPrice: "₹2,500 per quintal",
		MarketTrend:  "Stable",
		NearbyMandis: []string{"Kochi Mandi", "Ernakulam Market"},
	}, nil
}

// parseAmount extracts the digits of a display price such as
// "₹2,500 per quintal" as a number.
func parseAmount(s string) float64 {
	var digits strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0
	}
	n, _ := strconv.ParseFloat(digits.String(), 64)
	return n
}

// parseLeadingNumber reads the numeric prefix of a display value such as
// "28°C" or "65%".
func parseLeadingNumber(s string) float64 {
	end := 0
	for end < len(s) && (s[end] >= '0' && s[end] <= '9' || s[end] == '.') {
		end++
	}
	if end == 0 {
		return 0
	}
	n, _ := strconv.ParseFloat(s[:end], 64)
	return n
}
