package types

import (
	"time"

	"github.com/google/uuid"
)

// PlanPreferences is the JSON stored on travel_plans.preferences.
type PlanPreferences struct {
	Request  PreferenceSet       `json:"request"`
	Analysis AnalyzedPreferences `json:"analysis"`
	Warnings []string            `json:"warnings"`
}

// TravelPlan is the consumer-facing read model of a persisted plan.
type TravelPlan struct {
	ID               uuid.UUID        `json:"id"`
	UserID           uuid.UUID        `json:"user_id"`
	Title            string           `json:"title"`
	Destination      string           `json:"destination"`
	Country          string           `json:"country"`
	StartDate        Date             `json:"start_date"`
	EndDate          Date             `json:"end_date"`
	TotalDays        int              `json:"total_days"`
	TotalNights      int              `json:"total_nights"`
	BudgetTotal      int64            `json:"budget_total"`
	Currency         string           `json:"currency"`
	TravelerType     TravelerType     `json:"traveler_type"`
	TravelerCount    int              `json:"traveler_count"`
	Preferences      PlanPreferences  `json:"preferences"`
	BudgetAllocated  *BudgetBreakdown `json:"budget_allocated,omitempty"`
	Status           PlanStatus       `json:"status"`
	AIModelVersion   string           `json:"ai_model_version"`
	GenerationTimeMs *int             `json:"generation_time_ms,omitempty"`
	DailyItineraries []DailyItinerary `json:"daily_itineraries"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// Bounds is a south-west / north-east bounding box.
type Bounds struct {
	SouthWest [2]float64 `json:"southwest"`
	NorthEast [2]float64 `json:"northeast"`
}

type DailyItinerary struct {
	ID        uuid.UUID        `json:"id"`
	DayNumber int              `json:"day_number"`
	Date      Date             `json:"date"`
	Theme     string           `json:"theme"`
	Notes     string           `json:"notes,omitempty"`
	Bounds    *Bounds          `json:"bounds,omitempty"`
	Places    []ItineraryPlace `json:"places"`
	Routes    []Route          `json:"routes"`
}

type ItineraryPlace struct {
	ID              uuid.UUID `json:"id"`
	Place           Place     `json:"place"`
	VisitOrder      int       `json:"visit_order"`
	VisitType       VisitType `json:"visit_type"`
	VisitTime       string    `json:"visit_time,omitempty"`
	DurationMinutes *int      `json:"duration_minutes,omitempty"`
	EstimatedCost   *int64    `json:"estimated_cost,omitempty"`
	Reason          string    `json:"reason,omitempty"`
	IsConfirmed     bool      `json:"is_confirmed"`
}

type Route struct {
	ID              uuid.UUID     `json:"id"`
	FromPlaceID     uuid.UUID     `json:"from_place_id"`
	ToPlaceID       uuid.UUID     `json:"to_place_id"`
	FromOrder       int           `json:"from_order"`
	ToOrder         int           `json:"to_order"`
	Mode            TransportMode `json:"transport_mode"`
	DistanceMeters  float64       `json:"distance_meters"`
	DurationMinutes *int          `json:"duration_minutes,omitempty"`
	EstimatedCost   int64         `json:"estimated_cost"`
	Polyline        string        `json:"polyline,omitempty"`
}

// TravelPlanSummary is a list row without the itinerary tree.
type TravelPlanSummary struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Destination string     `json:"destination"`
	Country     string     `json:"country"`
	StartDate   Date       `json:"start_date"`
	EndDate     Date       `json:"end_date"`
	BudgetTotal int64      `json:"budget_total"`
	Status      PlanStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
}

type PaginatedTravelPlans struct {
	Plans        []TravelPlanSummary `json:"plans"`
	TotalRecords int                 `json:"total_records"`
	Page         int                 `json:"page"`
	PageSize     int                 `json:"page_size"`
}

type PlanStatusResponse struct {
	PlanID           uuid.UUID  `json:"plan_id"`
	Status           PlanStatus `json:"status"`
	Progress         float64    `json:"progress"`
	GenerationTimeMs *int       `json:"generation_time_ms,omitempty"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// UpdateTravelPlanRequest is a partial update. Nil fields are left unchanged.
type UpdateTravelPlanRequest struct {
	Title  *string     `json:"title,omitempty"`
	Status *PlanStatus `json:"status,omitempty"`
	Notes  *string     `json:"notes,omitempty"`
}

// GeneratePlanResponse is returned from plan creation.
type GeneratePlanResponse struct {
	Plan     *TravelPlan `json:"plan"`
	Warnings []string    `json:"warnings"`
	Cached   bool        `json:"cached"`
}

// PlanRecord is the travel_plans row as written at the start of generation.
type PlanRecord struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	Title           string
	Request         TravelRequest
	Preferences     PlanPreferences
	BudgetAllocated BudgetBreakdown
	Status          PlanStatus
	AIModelVersion  string
}
