package agronomy

// Scheme describes one government support program.
type Scheme struct {
	Name        string `json:"name"`
	Eligibility string `json:"eligibility"`
	Benefit     string `json:"benefit"`
	Application string `json:"application"`
}

var schemeTable = map[string][]Scheme{
	"subsidy": {
		{
			Name:        "PM-KISAN",
			Eligibility: "All farmers",
			Benefit:     "₹6,000 per year",
			Application: "Online or Common Service Centers",
		},
		{
			Name:        "Fertilizer Subsidy",
			Eligibility: "All farmers",
			Benefit:     "50% subsidy on fertilizers",
			Application: "Through authorized dealers",
		},
	},
	"insurance": {
		{
			Name:        "Pradhan Mantri Fasal Bima Yojana",
			Eligibility: "All farmers",
			Benefit:     "Crop insurance coverage",
			Application: "Banks and insurance companies",
		},
	},
	"loan": {
		{
			Name:        "Kisan Credit Card",
			Eligibility: "Farmers with land documents",
			Benefit:     "Low-interest agricultural loans",
			Application: "Banks and cooperative societies",
		},
	},
	"technology": {
		{
			Name:        "Sub-Mission on Agricultural Mechanization",
			Eligibility: "Small and marginal farmers",
			Benefit:     "50% subsidy on agricultural machinery",
			Application: "State agriculture departments",
		},
	},
}

// MatchSchemes returns the schemes for a category. Unknown categories fall
// back to the subsidy list.
func MatchSchemes(category string) []Scheme {
	if schemes, ok := schemeTable[lower(category)]; ok {
		return schemes
	}
	return schemeTable["subsidy"]
}
