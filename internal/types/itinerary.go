package types

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// VisitType represents the DB ENUM 'visit_type_enum'.
type VisitType string

const (
	VisitOvernight VisitType = "overnight"
	VisitMeal      VisitType = "meal"
	VisitActivity  VisitType = "activity"
	VisitTransit   VisitType = "transit"
)

// TransportMode represents the DB ENUM 'transport_mode_enum'.
type TransportMode string

const (
	ModeWalking       TransportMode = "walking"
	ModeDriving       TransportMode = "driving"
	ModePublicTransit TransportMode = "public_transit"
	ModeTaxi          TransportMode = "taxi"
	ModeBicycle       TransportMode = "bicycle"
)

// PlanStatus represents the DB ENUM 'plan_status_enum'.
type PlanStatus string

const (
	PlanDraft      PlanStatus = "draft"
	PlanInProgress PlanStatus = "in_progress"
	PlanCompleted  PlanStatus = "completed"
	PlanFailed     PlanStatus = "failed"
)

func (s PlanStatus) Valid() bool {
	switch s {
	case PlanDraft, PlanInProgress, PlanCompleted, PlanFailed:
		return true
	}
	return false
}

// Scan implements the sql.Scanner interface for PlanStatus.
func (s *PlanStatus) Scan(value interface{}) error {
	strVal, ok := value.(string)
	if !ok {
		bytesVal, ok := value.([]byte)
		if !ok {
			return fmt.Errorf("failed to scan PlanStatus: expected string or []byte, got %T", value)
		}
		strVal = string(bytesVal)
	}
	if !PlanStatus(strVal).Valid() {
		return fmt.Errorf("unknown PlanStatus value: %s", strVal)
	}
	*s = PlanStatus(strVal)
	return nil
}

// Value implements the driver.Valuer interface for PlanStatus.
func (s PlanStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid PlanStatus value: %s", s)
	}
	return string(s), nil
}

// ItineraryPlaceDraft is one visit within a generated day.
type ItineraryPlaceDraft struct {
	Place           PlaceCandidate `json:"place"`
	VisitOrder      int            `json:"visit_order"`
	VisitType       VisitType      `json:"visit_type"`
	VisitTime       string         `json:"visit_time,omitempty"` // HH:MM
	DurationMinutes int            `json:"duration_minutes,omitempty"`
	EstimatedCost   int64          `json:"estimated_cost"`
	Reason          string         `json:"reason,omitempty"`
}

// RouteDraft connects two visits of the same day by visit order.
type RouteDraft struct {
	FromOrder       int           `json:"from_order"`
	ToOrder         int           `json:"to_order"`
	Mode            TransportMode `json:"transport_mode"`
	DistanceMeters  float64       `json:"distance_meters"`
	DurationMinutes int           `json:"duration_minutes"`
	EstimatedCost   int64         `json:"estimated_cost"`
	Polyline        string        `json:"polyline,omitempty"`
}

type DailyItineraryDraft struct {
	Date      Date                  `json:"date"`
	DayNumber int                   `json:"day_number"`
	Theme     string                `json:"theme"`
	Notes     string                `json:"notes,omitempty"`
	Places    []ItineraryPlaceDraft `json:"places"`
	Routes    []RouteDraft          `json:"routes"`
}

// TravelPlanDraft lives only during generation and is translated 1:1 into rows.
type TravelPlanDraft struct {
	Request          TravelRequest          `json:"request"`
	TotalDays        int                    `json:"total_days"`
	TotalNights      int                    `json:"total_nights"`
	Analysis         AnalyzedPreferences    `json:"analysis"`
	Budget           BudgetAllocationResult `json:"budget"`
	DailyItineraries []DailyItineraryDraft  `json:"daily_itineraries"`
	Warnings         []string               `json:"warnings"`
}

// NewTravelPlanDraft derives day and night counts from the request.
func NewTravelPlanDraft(req TravelRequest) *TravelPlanDraft {
	days := req.TotalDays()
	nights := days - 1
	if nights < 0 {
		nights = 0
	}
	return &TravelPlanDraft{Request: req, TotalDays: days, TotalNights: nights}
}

// ClockOf parses HH:MM into a duration since midnight.
func ClockOf(hhmm string) (time.Duration, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return 0, fmt.Errorf("invalid clock %q: %w", hhmm, err)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}
