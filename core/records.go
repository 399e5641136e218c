package core

import "time"

// Collection names used by handlers, the scheduler and the message listener.
// Keys within a collection are owner ids for keyed records (profiles) and
// store-generated ids for appended records.
const (
	CollectionProfiles         = "farmer_profiles"
	CollectionDecisions        = "crop_decisions"
	CollectionWeeklyPlans      = "weekly_plans"
	CollectionReminders        = "reminders"
	CollectionMessages         = "messages"
	CollectionConnections      = "connected"
	CollectionUsers            = "users"
	CollectionSymptoms         = "symptoms"
	CollectionExpertRequests   = "expert_requests"
	CollectionSoilTests        = "soil_tests"
	CollectionDiseaseReports   = "disease_reports"
	CollectionPriceQueries     = "price_queries"
	CollectionPriceHistory     = "price_history"
	CollectionIrrigation       = "irrigation_records"
	CollectionHarvestForecasts = "harvest_predictions"
	CollectionCommunityQueries = "community_queries"
	CollectionAlerts           = "farmer_alerts"
)

// Profile is the per-owner farmer profile, keyed by owner id. Created once by
// create_farmer_profile (idempotent overwrite) and patched field by field via
// update_farmer_profile. The core never deletes it.
type Profile struct {
	Name            string    `json:"name"`
	Age             int       `json:"age"`
	Place           string    `json:"place"`
	District        string    `json:"district"`
	LandSize        float64   `json:"land_size"`
	SoilType        string    `json:"soil_type"`
	CropsGrown      []string  `json:"crops_grown,omitempty"`
	ToolsOwned      []string  `json:"tools_owned,omitempty"`
	ExperienceYears int       `json:"experience_years"`
	PhoneNumber     string    `json:"phone_number,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// DecisionRecord is an append-only log entry of a farming decision and its
// outcome, immutable once written.
type DecisionRecord struct {
	Event     string    `json:"event"`
	Decision  string    `json:"decision"`
	Result    string    `json:"result"`
	CropName  string    `json:"crop_name,omitempty"`
	Season    string    `json:"season,omitempty"`
	FarmerID  string    `json:"farmer_id"`
	Timestamp time.Time `json:"timestamp"`
}

// Reminder is a scheduled task notice. Completed transitions exactly once,
// false to true, when the scheduler fires it; it is never reset.
type Reminder struct {
	ID        string    `json:"id"`
	Task      string    `json:"task"`
	DueAt     time.Time `json:"date_time"`
	Completed bool      `json:"is_completed"`
	FarmerID  string    `json:"farmer_id"`
	CreatedAt time.Time `json:"created_at"`
}

// PlanTask is one entry of a weekly plan.
type PlanTask struct {
	Task             string `json:"task"`
	Priority         string `json:"priority"` // high, medium or low
	EstimatedTime    string `json:"estimated_duration"`
	WeatherDependent bool   `json:"weather_dependent"`
}

// WeeklyPlan is a generated weekly task list, read-only after creation.
type WeeklyPlan struct {
	FarmerID    string     `json:"farmer_id"`
	WeekStart   time.Time  `json:"week_start"`
	Tasks       []PlanTask `json:"tasks"`
	CropStage   string     `json:"crop_stage"`
	WeatherNote string     `json:"weather_considerations"`
}

// Message is one user-to-user message, written by send_message and observed
// by the realtime listener. Immutable.
type Message struct {
	ID          string    `json:"id,omitempty"`
	SenderID    string    `json:"senderId"`
	RecipientID string    `json:"recipientId"`
	Content     string    `json:"content"`
	Timestamp   time.Time `json:"timestamp"`
	IsAIMessage bool      `json:"isAIMessage"`
}

// Connection is a directed friendship edge created by connect_user. Repeat
// calls append duplicate edges; the store does not deduplicate them.
type Connection struct {
	SenderID   string `json:"senderId"`
	FriendID   string `json:"friendId"`
	FriendName string `json:"friendName"`
}

// User is a discoverable member row matched by find_users.
type User struct {
	ID        string   `json:"userid"`
	Name      string   `json:"name"`
	Age       int      `json:"age"`
	Interests []string `json:"interests,omitempty"`
}

// SymptomReport is a free-text health note appended by add_symptoms.
type SymptomReport struct {
	SenderID    string    `json:"senderId"`
	Content     string    `json:"content"`
	Timestamp   time.Time `json:"timestamp"`
	IsAIMessage bool      `json:"isAIMessage"`
}

// ExpertRequest is a pending help request routed to an agricultural expert.
type ExpertRequest struct {
	ID              string    `json:"id"`
	Question        string    `json:"question"`
	ExpertiseNeeded string    `json:"expertise_needed"`
	FarmerID        string    `json:"farmer_id"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

// SoilTest logs one soil_health_recommendation query with its outcome.
type SoilTest struct {
	FarmerID        string    `json:"farmer_id"`
	SoilType        string    `json:"soil_type"`
	PH              float64   `json:"pH"`
	CropType        string    `json:"crop_type"`
	TestDate        time.Time `json:"test_date"`
	Recommendations any       `json:"recommendations"`
}

// DiseaseReport logs one disease_diagnosis query with its outcome.
type DiseaseReport struct {
	FarmerID   string    `json:"farmer_id"`
	CropName   string    `json:"crop_name"`
	Symptoms   string    `json:"symptoms"`
	Diagnosis  any       `json:"diagnosis"`
	ReportDate time.Time `json:"report_date"`
	Location   string    `json:"location,omitempty"`
}

// PriceQuery logs one market_price_info lookup for later trend analysis.
type PriceQuery struct {
	FarmerID     string    `json:"farmer_id"`
	CropName     string    `json:"crop_name"`
	Location     string    `json:"location"`
	QueriedPrice string    `json:"queried_price"`
	QueryDate    time.Time `json:"query_date"`
}

// PricePoint is one historical market price row.
type PricePoint struct {
	CropName string    `json:"crop_name"`
	Location string    `json:"location"`
	Price    float64   `json:"price"`
	Date     time.Time `json:"date"`
}

// IrrigationRecord logs one water_need_prediction with its outcome.
type IrrigationRecord struct {
	FarmerID     string    `json:"farmer_id"`
	CropType     string    `json:"crop_type"`
	Prediction   any       `json:"prediction"`
	RecordedDate time.Time `json:"recorded_date"`
}

// CommunityQuery is a question posted to nearby farmers.
type CommunityQuery struct {
	Question  string    `json:"question"`
	CropType  string    `json:"crop_type,omitempty"`
	FarmerID  string    `json:"farmer_id"`
	CreatedAt time.Time `json:"created_at"`
}

// FarmerAlert is a pest or disease warning broadcast to nearby farmers.
type FarmerAlert struct {
	AlertType   string    `json:"alert_type"`
	Severity    string    `json:"severity,omitempty"`
	Description string    `json:"description"`
	FarmerID    string    `json:"farmer_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// HarvestForecast logs one harvest_prediction with its outcome.
type HarvestForecast struct {
	FarmerID      string    `json:"farmer_id"`
	Prediction    any       `json:"prediction"`
	PredictedDate time.Time `json:"predicted_date"`
}
