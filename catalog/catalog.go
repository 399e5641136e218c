// Package catalog holds the static, declarative table of every operation the
// session core advertises to the model: name, description and a typed
// parameter schema. The table is the contract surface sent at connection
// setup and is immutable at runtime.
//
// Adding an operation means adding one declaration here plus one handler in
// the tools package; Verify enforces that the two stay name-synchronized.
package catalog

import (
	"fmt"
	"sort"
)

// Declaration describes one callable operation.
type Declaration struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

func obj(properties map[string]any, required ...string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func str() map[string]any    { return map[string]any{"type": "string"} }
func num() map[string]any    { return map[string]any{"type": "number"} }
func strArr() map[string]any { return map[string]any{"type": "array", "items": str()} }

var declarations = []Declaration{
	// Profile and record keeping
	{
		Name:        "create_farmer_profile",
		Description: "Creates a new farmer profile with basic information",
		Parameters: obj(map[string]any{
			"name":             str(),
			"age":              num(),
			"place":            str(),
			"district":         str(),
			"land_size":        num(),
			"soil_type":        str(),
			"crops_grown":      strArr(),
			"tools_owned":      strArr(),
			"experience_years": num(),
			"phone_number":     str(),
		}, "name", "age", "place", "district", "land_size", "soil_type", "experience_years"),
	},
	{
		Name:        "update_farmer_profile",
		Description: "Updates specific farmer profile information",
		Parameters: obj(map[string]any{
			"data_type": str(),
			"value":     str(),
		}, "data_type", "value"),
	},
	{
		Name:        "get_personalized_advice",
		Description: "Generates personalized farming advice based on farmer profile and current conditions",
		Parameters: obj(map[string]any{
			"current_crop":     str(),
			"growth_stage":     str(),
			"specific_concern": str(),
		}, "current_crop"),
	},
	{
		Name:        "record_past_decision",
		Description: "Records farming decisions and their outcomes for learning",
		Parameters: obj(map[string]any{
			"event":     str(),
			"decision":  str(),
			"result":    str(),
			"crop_name": str(),
			"season":    str(),
		}, "event", "decision", "result"),
	},
	{
		Name:        "generate_weekly_plan",
		Description: "Creates a weekly farming plan based on crop stage and weather",
		Parameters: obj(map[string]any{
			"current_crop":     str(),
			"crop_stage":       str(),
			"weather_forecast": str(),
		}, "current_crop", "crop_stage"),
	},
	{
		Name:        "compare_crop_choices",
		Description: "Recommends best crop choices based on season and land area",
		Parameters: obj(map[string]any{
			"season":    str(),
			"land_area": num(),
		}, "season", "land_area"),
	},
	{
		Name:        "reminder_set",
		Description: "Sets farming task reminders",
		Parameters: obj(map[string]any{
			"task":      str(),
			"date_time": str(),
		}, "task", "date_time"),
	},
	{
		Name:        "get_reminders",
		Description: "Retrieves upcoming farming reminders",
		Parameters: obj(map[string]any{
			"days_ahead": num(),
		}),
	},

	// External data
	{
		Name:        "get_weather_forecast",
		Description: "Provides localized weather updates",
		Parameters: obj(map[string]any{
			"location": str(),
			"days":     num(),
		}, "location"),
	},
	{
		Name:        "crop_advice",
		Description: "Gives context-aware crop advice",
		Parameters: obj(map[string]any{
			"crop_name":    str(),
			"growth_stage": str(),
			"location":     str(),
		}, "crop_name", "growth_stage", "location"),
	},
	{
		Name:        "soil_health_recommendation",
		Description: "Suggests soil amendments and nutrient plans",
		Parameters: obj(map[string]any{
			"soil_type":      str(),
			"pH":             num(),
			"organic_matter": num(),
			"crop_type":      str(),
		}, "soil_type", "crop_type"),
	},
	{
		Name:        "disease_diagnosis",
		Description: "Diagnoses crop diseases and provides treatment recommendations",
		Parameters: obj(map[string]any{
			"symptoms":  str(),
			"crop_name": str(),
		}, "symptoms", "crop_name"),
	},
	{
		Name:        "market_price_info",
		Description: "Provides real-time market prices",
		Parameters: obj(map[string]any{
			"crop_name": str(),
			"location":  str(),
		}, "crop_name", "location"),
	},
	{
		Name:        "govt_scheme_info",
		Description: "Provides information about government schemes for farmers",
		Parameters: obj(map[string]any{
			"category": str(),
			"state":    str(),
		}, "category"),
	},
	{
		Name:        "water_need_prediction",
		Description: "Predicts irrigation requirements",
		Parameters: obj(map[string]any{
			"crop_type":       str(),
			"days_since_rain": num(),
			"soil_moisture":   num(),
		}, "crop_type", "days_since_rain"),
	},
	{
		Name:        "harvest_prediction",
		Description: "Predicts harvest date and market timing",
		Parameters: obj(map[string]any{
			"crop_name":     str(),
			"planting_date": str(),
			"growth_stage":  str(),
		}, "crop_name"),
	},

	// Community and escalation
	{
		Name:        "connect_to_agri_expert",
		Description: "Connects farmer to agricultural experts",
		Parameters: obj(map[string]any{
			"question":         str(),
			"expertise_needed": str(),
		}, "question"),
	},
	{
		Name:        "community_query",
		Description: "Fetches advice from nearby farmers",
		Parameters: obj(map[string]any{
			"question":  str(),
			"crop_type": str(),
		}, "question"),
	},
	{
		Name:        "send_alert_to_nearby_farmers",
		Description: "Sends alerts to nearby farmers about pests or diseases",
		Parameters: obj(map[string]any{
			"alert_type":  str(),
			"severity":    str(),
			"description": str(),
		}, "alert_type", "description"),
	},

	// Social
	{
		Name:        "send_message",
		Description: "Sends a message to a specific user through the assistant",
		Parameters: obj(map[string]any{
			"name":    str(),
			"content": str(),
		}, "name", "content"),
	},
	{
		Name:        "find_users",
		Description: "Finds users based on interests and age range",
		Parameters: obj(map[string]any{
			"interests": strArr(),
			"ageRange": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"min": num(),
					"max": num(),
				},
			},
		}, "interests", "ageRange"),
	},
	{
		Name:        "connect_user",
		Description: "Adds a specific user to the connected friends list; take userid and friendName from the find_users result",
		Parameters: obj(map[string]any{
			"userid":     str(),
			"friendName": str(),
		}, "userid", "friendName"),
	},
	{
		Name:        "add_symptoms",
		Description: "Adds the details of symptoms and problems faced by the user in simplified language",
		Parameters: obj(map[string]any{
			"content": str(),
		}, "content"),
	},

	// Speech passthroughs; the host performs the actual audio work.
	{
		Name:        "speak_text",
		Description: "Converts text to speech",
		Parameters: obj(map[string]any{
			"text": str(),
		}, "text"),
	},
	{
		Name:        "read_message",
		Description: "Reads the message content aloud using text-to-speech",
		Parameters: obj(map[string]any{
			"messageContent": str(),
		}, "messageContent"),
	},
}

// All returns every operation declaration, sorted by name. The returned slice
// is a copy; the catalog itself cannot be mutated.
func All() []Declaration {
	out := make([]Declaration, len(declarations))
	copy(out, declarations)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Get returns the declaration for the given operation name.
func Get(name string) (Declaration, bool) {
	for _, d := range declarations {
		if d.Name == name {
			return d, true
		}
	}
	return Declaration{}, false
}

// MustGet is Get for registry construction paths where a missing declaration
// is a programming error.
func MustGet(name string) Declaration {
	d, ok := Get(name)
	if !ok {
		panic(fmt.Sprintf("catalog: no declaration for operation %q", name))
	}
	return d
}

// Verify checks that the set of registered handler names matches the catalog
// exactly. Registry construction calls this so a drifting catalog fails fast
// at session start instead of surfacing as not-implemented responses.
func Verify(handlerNames []string) error {
	registered := make(map[string]bool, len(handlerNames))
	for _, n := range handlerNames {
		registered[n] = true
	}
	for _, d := range declarations {
		if !registered[d.Name] {
			return fmt.Errorf("catalog operation %q has no registered handler", d.Name)
		}
	}
	if len(handlerNames) != len(declarations) {
		for _, n := range handlerNames {
			if _, ok := Get(n); !ok {
				return fmt.Errorf("handler %q has no catalog declaration", n)
			}
		}
	}
	return nil
}
