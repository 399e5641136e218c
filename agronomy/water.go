package agronomy

import "math"

// Base water requirement in mm/day by crop and growth stage.
var cropWaterRequirements = map[string]map[string]float64{
	"rice":   {"vegetative": 8, "reproductive": 12, "maturity": 6},
	"wheat":  {"vegetative": 4, "reproductive": 6, "maturity": 3},
	"maize":  {"vegetative": 5, "reproductive": 8, "maturity": 4},
	"tomato": {"vegetative": 4, "reproductive": 6, "maturity": 3},
}

const defaultWaterRequirement = 5

var soilWaterAdjustment = map[string]float64{
	"sandy": 1.3,
	"clay":  0.8,
	"loamy": 1.0,
	"silt":  0.9,
}

// WeatherConditions carries the subset of a weather report that adjusts
// irrigation volume.
type WeatherConditions struct {
	TemperatureC float64
	HumidityPct  float64
}

// WaterRequirement returns the daily irrigation requirement in mm, starting
// from the crop/stage base and adjusting for hot weather (>30°C: +20%), dry
// air (<50% humidity: +10%) and soil type.
func WaterRequirement(crop, stage string, weather WeatherConditions, soilType string) int {
	base := defaultWaterRequirement
	if stages, ok := cropWaterRequirements[lower(crop)]; ok {
		if req, ok := stages[lower(stage)]; ok {
			base = int(req)
		}
	}

	adjustment := 1.0
	if weather.TemperatureC > 30 {
		adjustment *= 1.2
	}
	if weather.HumidityPct > 0 && weather.HumidityPct < 50 {
		adjustment *= 1.1
	}
	if soil, ok := soilWaterAdjustment[lower(soilType)]; ok {
		adjustment *= soil
	}

	return int(math.Round(float64(base) * adjustment))
}
