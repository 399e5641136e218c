package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/agriguru/agriguru/agronomy"
	"github.com/agriguru/agriguru/catalog"
	"github.com/agriguru/agriguru/core"
	"github.com/agriguru/agriguru/store"
	"github.com/agriguru/agriguru/tool"
)

type weatherArgs struct {
	Location string  `json:"location"`
	Days     float64 `json:"days"`
}

// weatherForecastHandler proxies the weather provider.
func (d *deps) weatherForecastHandler() tool.Handler {
	decl := catalog.MustGet("get_weather_forecast")
	return tool.NewFunc(decl.Name, decl.Description, decl.Parameters,
		func(ctx context.Context, _ string, args weatherArgs) (core.Result, error) {
			report, err := d.weather.Forecast(ctx, args.Location)
			if err != nil {
				return core.Result{}, err
			}
			return core.ObjectResult(report), nil
		})
}

type cropAdviceArgs struct {
	CropName    string `json:"crop_name"`
	GrowthStage string `json:"growth_stage"`
	Location    string `json:"location"`
}

// cropAdviceHandler composes the deterministic stage advice strings.
func (d *deps) cropAdviceHandler() tool.Handler {
	decl := catalog.MustGet("crop_advice")
	return tool.NewFunc(decl.Name, decl.Description, decl.Parameters,
		func(_ context.Context, _ string, args cropAdviceArgs) (core.Result, error) {
			return core.ObjectResult(map[string]any{
				"advice": fmt.Sprintf(
					"For %s in %s stage at %s, apply balanced fertilizer and ensure proper drainage.",
					args.CropName, args.GrowthStage, args.Location),
				"fertilizer_recommendation": "NPK 20-10-10",
				"watering_schedule":         "Water every 3-4 days",
			}), nil
		})
}

type soilHealthArgs struct {
	SoilType      string  `json:"soil_type"`
	PH            float64 `json:"pH"`
	OrganicMatter float64 `json:"organic_matter"`
	CropType      string  `json:"crop_type"`
}

// soilHealthHandler assesses the soil and logs the test for trend analysis.
func (d *deps) soilHealthHandler() tool.Handler {
	decl := catalog.MustGet("soil_health_recommendation")
	return tool.NewFunc(decl.Name, decl.Description, decl.Parameters,
		func(ctx context.Context, ownerID string, args soilHealthArgs) (core.Result, error) {
			pH := args.PH
			if pH == 0 {
				pH = 7
			}
			organic := args.OrganicMatter
			if organic == 0 {
				organic = 2
			}
			assessment := agronomy.AssessSoil(args.SoilType, pH, organic)

			test := core.SoilTest{
				FarmerID:        ownerID,
				SoilType:        args.SoilType,
				PH:              args.PH,
				CropType:        args.CropType,
				TestDate:        d.now(),
				Recommendations: assessment,
			}
			if _, err := d.store.Append(ctx, core.CollectionSoilTests, test); err != nil {
				return core.Result{}, err
			}
			return core.ObjectResult(assessment), nil
		})
}

type diseaseArgs struct {
	Symptoms string `json:"symptoms"`
	CropName string `json:"crop_name"`
}

// diseaseDiagnosisHandler looks up the disease table and logs the report.
func (d *deps) diseaseDiagnosisHandler() tool.Handler {
	decl := catalog.MustGet("disease_diagnosis")
	return tool.NewFunc(decl.Name, decl.Description, decl.Parameters,
		func(ctx context.Context, ownerID string, args diseaseArgs) (core.Result, error) {
			diagnosis := agronomy.DiagnoseDisease(args.CropName, args.Symptoms)

			report := core.DiseaseReport{
				FarmerID:   ownerID,
				CropName:   args.CropName,
				Symptoms:   args.Symptoms,
				Diagnosis:  diagnosis,
				ReportDate: d.now(),
			}
			if _, err := d.store.Append(ctx, core.CollectionDiseaseReports, report); err != nil {
				return core.Result{}, err
			}

			return core.ObjectResult(map[string]any{
				"disease":           diagnosis.Disease,
				"treatment":         diagnosis.Treatment,
				"prevention":        diagnosis.Prevention,
				"emergency_contact": "Contact local agricultural extension officer immediately if symptoms worsen",
			}), nil
		})
}

type marketPriceArgs struct {
	CropName string `json:"crop_name"`
	Location string `json:"location"`
}

// marketPriceHandler fetches the current price, logs the query, and runs
// trend analysis over the recorded price history.
func (d *deps) marketPriceHandler() tool.Handler {
	decl := catalog.MustGet("market_price_info")
	return tool.NewFunc(decl.Name, decl.Description, decl.Parameters,
		func(ctx context.Context, ownerID string, args marketPriceArgs) (core.Result, error) {
			priceInfo, err := d.market.Price(ctx, args.CropName, args.Location)
			if err != nil {
				return core.Result{}, err
			}

			query := core.PriceQuery{
				FarmerID:     ownerID,
				CropName:     args.CropName,
				Location:     args.Location,
				QueriedPrice: priceInfo.CurrentPrice,
				QueryDate:    d.now(),
			}
			if _, err := d.store.Append(ctx, core.CollectionPriceQueries, query); err != nil {
				return core.Result{}, err
			}

			docs, err := d.store.Query(ctx, core.CollectionPriceHistory, store.Query{
				Predicates: []store.Predicate{
					store.Where("crop_name", store.OpEqual, args.CropName),
					store.Where("location", store.OpEqual, args.Location),
				},
				OrderBy:    "date",
				Descending: true,
				Limit:      30,
			})
			if err != nil {
				return core.Result{}, err
			}

			historical := make([]float64, 0, len(docs))
			for _, doc := range docs {
				var p core.PricePoint
				if err := doc.Decode(&p); err != nil {
					return core.Result{}, err
				}
				historical = append(historical, p.Price)
			}

			trend := agronomy.PredictMarketTrend(historical, parseAmount(priceInfo.CurrentPrice))

			recent := historical
			if len(recent) > 7 {
				recent = recent[:7]
			}
			return core.ObjectResult(map[string]any{
				"current_price":  priceInfo.CurrentPrice,
				"market_trend":   priceInfo.MarketTrend,
				"nearby_mandis":  priceInfo.NearbyMandis,
				"trend_analysis": trend,
				"price_history":  recent,
			}), nil
		})
}

type schemeArgs struct {
	Category string `json:"category"`
	State    string `json:"state"`
}

// govtSchemeHandler matches schemes by category, personalizing the
// eligibility note when a profile exists.
func (d *deps) govtSchemeHandler() tool.Handler {
	decl := catalog.MustGet("govt_scheme_info")
	return tool.NewFunc(decl.Name, decl.Description, decl.Parameters,
		func(ctx context.Context, ownerID string, args schemeArgs) (core.Result, error) {
			eligibility := "Create your profile for personalized scheme recommendations"
			var profile core.Profile
			err := d.store.Get(ctx, core.CollectionProfiles, ownerID, &profile)
			if err == nil {
				eligibility = fmt.Sprintf(
					"Based on your %g acre farm, you are eligible for most schemes", profile.LandSize)
			} else if !errors.Is(err, store.ErrNotFound) {
				return core.Result{}, err
			}

			return core.ObjectResult(map[string]any{
				"category":                 args.Category,
				"matched_schemes":          agronomy.MatchSchemes(args.Category),
				"personalized_eligibility": eligibility,
			}), nil
		})
}

type waterNeedArgs struct {
	CropType      string  `json:"crop_type"`
	DaysSinceRain float64 `json:"days_since_rain"`
	SoilMoisture  float64 `json:"soil_moisture"`
}

// waterNeedHandler combines the profile, current weather and the water
// requirement arithmetic into an irrigation recommendation, logging the
// prediction.
func (d *deps) waterNeedHandler() tool.Handler {
	decl := catalog.MustGet("water_need_prediction")
	return tool.NewFunc(decl.Name, decl.Description, decl.Parameters,
		func(ctx context.Context, ownerID string, args waterNeedArgs) (core.Result, error) {
			place := "default"
			soilType := "loamy"
			var profile core.Profile
			err := d.store.Get(ctx, core.CollectionProfiles, ownerID, &profile)
			if err == nil {
				if profile.Place != "" {
					place = profile.Place
				}
				if profile.SoilType != "" {
					soilType = profile.SoilType
				}
			} else if !errors.Is(err, store.ErrNotFound) {
				return core.Result{}, err
			}

			report, err := d.weather.Forecast(ctx, place)
			if err != nil {
				return core.Result{}, err
			}
			conditions := agronomy.WeatherConditions{
				TemperatureC: parseLeadingNumber(report.Temperature),
				HumidityPct:  parseLeadingNumber(report.Humidity),
			}

			daily := agronomy.WaterRequirement(args.CropType, "vegetative", conditions, soilType)
			daysSinceRain := int(args.DaysSinceRain)

			irrigationNeeded := "Monitor"
			irrigationAmount := "Check soil moisture first"
			nextIrrigation := "Check again in 24 hours"
			if daysSinceRain > 3 {
				irrigationNeeded = "Yes"
				irrigationAmount = fmt.Sprintf("%d mm total", daily*daysSinceRain)
				nextIrrigation = "Irrigate immediately"
			}

			soilMoisture := any("unknown")
			if args.SoilMoisture != 0 {
				soilMoisture = args.SoilMoisture
			}

			prediction := map[string]any{
				"crop_type":               args.CropType,
				"days_since_rain":         daysSinceRain,
				"soil_moisture":           soilMoisture,
				"daily_water_requirement": fmt.Sprintf("%d mm/day", daily),
				"irrigation_needed":       irrigationNeeded,
				"irrigation_amount":       irrigationAmount,
				"next_irrigation":         nextIrrigation,
				"water_saving_tips": []string{
					"Use drip irrigation if available",
					"Mulch around plants",
					"Irrigate early morning or evening",
				},
			}

			record := core.IrrigationRecord{
				FarmerID:     ownerID,
				CropType:     args.CropType,
				Prediction:   prediction,
				RecordedDate: d.now(),
			}
			if _, err := d.store.Append(ctx, core.CollectionIrrigation, record); err != nil {
				return core.Result{}, err
			}
			return core.ObjectResult(prediction), nil
		})
}

type harvestArgs struct {
	CropName     string `json:"crop_name"`
	PlantingDate string `json:"planting_date"`
	GrowthStage  string `json:"growth_stage"`
}

// harvestPredictionHandler projects the harvest date and logs the forecast.
// Without a planting date the projection assumes planting 60 days ago.
func (d *deps) harvestPredictionHandler() tool.Handler {
	decl := catalog.MustGet("harvest_prediction")
	return tool.NewFunc(decl.Name, decl.Description, decl.Parameters,
		func(ctx context.Context, ownerID string, args harvestArgs) (core.Result, error) {
			now := d.now()
			plantingDate := now.AddDate(0, 0, -60)
			if args.PlantingDate != "" {
				parsed, err := parseReminderTime(args.PlantingDate)
				if err != nil {
					return core.Result{}, tool.NewHandlerError(decl.Name, err.Error(), tool.CodeValidation)
				}
				plantingDate = parsed
			}

			proj := agronomy.ProjectHarvest(args.CropName, plantingDate, now)

			marketAdvice := "Monitor market trends for optimal timing"
			if proj.DaysToHarvest <= 7 {
				marketAdvice = "Check current market prices before harvesting"
			}

			prediction := map[string]any{
				"crop_name":              proj.CropName,
				"planting_date":          proj.PlantingDate.Format("2006-01-02"),
				"current_growth_stage":   proj.CurrentStage,
				"estimated_harvest_date": proj.EstimatedDate.Format("2006-01-02"),
				"days_to_harvest":        proj.DaysToHarvest,
				"harvest_readiness":      proj.Readiness,
				"market_timing_advice":   marketAdvice,
				"preparation_checklist": []string{
					"Check crop maturity indicators",
					"Prepare harvesting equipment",
					"Arrange storage or immediate sale",
					"Check weather forecast for harvest window",
				},
			}

			forecast := core.HarvestForecast{
				FarmerID:      ownerID,
				Prediction:    prediction,
				PredictedDate: now,
			}
			if _, err := d.store.Append(ctx, core.CollectionHarvestForecasts, forecast); err != nil {
				return core.Result{}, err
			}
			return core.ObjectResult(prediction), nil
		})
}
