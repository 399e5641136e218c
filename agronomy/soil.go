package agronomy

import "strings"

// SoilAssessment is the outcome of a soil health check.
type SoilAssessment struct {
	PHStatus           string   `json:"pH_status"`
	OrganicMatterLevel string   `json:"organic_matter_level"`
	Recommendations    []string `json:"recommendations"`
	SoilSpecificAdvice string   `json:"soil_specific_advice"`
}

var soilSpecificAdvice = map[string]string{
	"clay":  "Improve drainage, add organic matter to enhance structure",
	"sandy": "Increase water retention with organic matter",
	"loamy": "Maintain current soil structure with regular organic amendments",
	"silt":  "Prevent compaction, improve drainage if needed",
}

// AssessSoil classifies pH and organic matter against fixed thresholds and
// returns amendment recommendations plus per-soil-type advice.
func AssessSoil(soilType string, pH, organicMatter float64) SoilAssessment {
	recommendations := []string{}

	if pH < 6.0 {
		recommendations = append(recommendations, "Apply lime to increase pH")
	} else if pH > 8.0 {
		recommendations = append(recommendations, "Apply sulfur to decrease pH")
	}

	if organicMatter < 2.0 {
		recommendations = append(recommendations, "Add compost or organic matter")
	}

	phStatus := "Neutral"
	if pH < 6 {
		phStatus = "Acidic"
	} else if pH > 7 {
		phStatus = "Alkaline"
	}

	organicLevel := "Adequate"
	if organicMatter < 2 {
		organicLevel = "Low"
	} else if organicMatter > 4 {
		organicLevel = "High"
	}

	advice, ok := soilSpecificAdvice[strings.ToLower(soilType)]
	if !ok {
		advice = "General soil management practices"
	}

	return SoilAssessment{
		PHStatus:           phStatus,
		OrganicMatterLevel: organicLevel,
		Recommendations:    recommendations,
		SoilSpecificAdvice: advice,
	}
}
