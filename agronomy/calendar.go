package agronomy

import (
	"math"
	"strings"
	"time"
)

type stagePeriod struct {
	stage      string
	start, end int // inclusive day range since planting
}

var cropCalendars = map[string][]stagePeriod{
	"rice": {
		{"germination", 0, 10},
		{"vegetative", 10, 55},
		{"reproductive", 55, 85},
		{"maturity", 85, 120},
	},
	"wheat": {
		{"germination", 0, 15},
		{"vegetative", 15, 70},
		{"reproductive", 70, 110},
		{"maturity", 110, 130},
	},
	"maize": {
		{"germination", 0, 10},
		{"vegetative", 10, 60},
		{"reproductive", 60, 90},
		{"maturity", 90, 120},
	},
}

// Days from planting to harvest per crop. Crops without an entry use
// defaultCropDuration.
var cropDurations = map[string]int{
	"rice":   120,
	"wheat":  130,
	"maize":  120,
	"tomato": 80,
}

const defaultCropDuration = 100

// GrowthStage maps elapsed days since planting to the crop's growth stage.
// Unknown crops report "Unknown crop"; days past the calendar report
// "Harvest ready".
func GrowthStage(crop string, plantingDate, now time.Time) string {
	calendar, ok := cropCalendars[strings.ToLower(crop)]
	if !ok {
		return "Unknown crop"
	}

	days := int(now.Sub(plantingDate).Hours() / 24)
	for _, period := range calendar {
		if days >= period.start && days <= period.end {
			return period.stage
		}
	}
	return "Harvest ready"
}

// HarvestProjection is the outcome of a harvest date estimate.
type HarvestProjection struct {
	CropName      string    `json:"crop_name"`
	PlantingDate  time.Time `json:"planting_date"`
	CurrentStage  string    `json:"current_growth_stage"`
	EstimatedDate time.Time `json:"estimated_harvest_date"`
	DaysToHarvest int       `json:"days_to_harvest"`
	Readiness     string    `json:"harvest_readiness"`
}

// Readiness labels by days remaining: <=0 ready, <=14 soon, else growing.
const (
	ReadinessReady   = "Ready for harvest"
	ReadinessSoon    = "Harvest soon"
	ReadinessGrowing = "Still growing"
)

// ProjectHarvest adds the crop's duration constant to the planting date and
// classifies readiness by the days remaining. Days to harvest is clamped to
// zero once the estimated date has passed.
func ProjectHarvest(crop string, plantingDate, now time.Time) HarvestProjection {
	duration, ok := cropDurations[strings.ToLower(crop)]
	if !ok {
		duration = defaultCropDuration
	}

	estimated := plantingDate.AddDate(0, 0, duration)
	daysToHarvest := int(math.Ceil(estimated.Sub(now).Hours() / 24))

	readiness := ReadinessGrowing
	switch {
	case daysToHarvest <= 0:
		readiness = ReadinessReady
	case daysToHarvest <= 14:
		readiness = ReadinessSoon
	}

	if daysToHarvest < 0 {
		daysToHarvest = 0
	}

	return HarvestProjection{
		CropName:      crop,
		PlantingDate:  plantingDate,
		CurrentStage:  GrowthStage(crop, plantingDate, now),
		EstimatedDate: estimated,
		DaysToHarvest: daysToHarvest,
		Readiness:     readiness,
	}
}
