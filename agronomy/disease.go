package agronomy

import "strings"

// Diagnosis is the outcome of a crop disease lookup.
type Diagnosis struct {
	Disease    string `json:"disease"`
	Treatment  string `json:"treatment"`
	Prevention string `json:"prevention"`
}

type diseaseEntry struct {
	symptomKey string
	diagnosis  Diagnosis
}

// Ordered so the first matching symptom key wins deterministically.
var diseaseTable = map[string][]diseaseEntry{
	"rice": {
		{"yellow leaves", Diagnosis{
			Disease:    "Bacterial Leaf Blight",
			Treatment:  "Apply copper-based fungicide",
			Prevention: "Avoid overhead watering, ensure good drainage",
		}},
		{"brown spots", Diagnosis{
			Disease:    "Rice Blast",
			Treatment:  "Apply Tricyclazole fungicide",
			Prevention: "Balanced fertilization, avoid water stress",
		}},
	},
	"wheat": {
		{"rust colored spots", Diagnosis{
			Disease:    "Wheat Rust",
			Treatment:  "Apply Propiconazole fungicide",
			Prevention: "Use resistant varieties, proper spacing",
		}},
		{"powdery coating", Diagnosis{
			Disease:    "Powdery Mildew",
			Treatment:  "Apply sulfur-based fungicide",
			Prevention: "Ensure good air circulation",
		}},
	},
	"tomato": {
		{"yellowing leaves", Diagnosis{
			Disease:    "Tomato Yellow Leaf Curl Virus",
			Treatment:  "Remove affected plants, control whiteflies",
			Prevention: "Use virus-free seeds, control vectors",
		}},
		{"black spots", Diagnosis{
			Disease:    "Early Blight",
			Treatment:  "Apply Mancozeb fungicide",
			Prevention: "Crop rotation, proper spacing",
		}},
	},
}

// DiagnoseDisease looks up the crop's disease table and returns the entry
// whose symptom key is a substring of the reported symptoms. Unknown crops
// and unrecognized symptoms fall back to generic consult-an-expert guidance.
// Identical input always yields the identical diagnosis.
func DiagnoseDisease(crop, symptoms string) Diagnosis {
	entries, ok := diseaseTable[strings.ToLower(crop)]
	if !ok {
		return Diagnosis{
			Disease:    "Unknown crop or disease",
			Treatment:  "Consult local agricultural extension officer",
			Prevention: "Follow general crop management practices",
		}
	}

	lowered := strings.ToLower(symptoms)
	for _, entry := range entries {
		if strings.Contains(lowered, entry.symptomKey) {
			return entry.diagnosis
		}
	}

	return Diagnosis{
		Disease:    "Symptoms not recognized",
		Treatment:  "Send photos to agricultural expert for diagnosis",
		Prevention: "Maintain good field hygiene",
	}
}
