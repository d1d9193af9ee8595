package types

import (
	"time"

	"github.com/google/uuid"
)

// BudgetFocus is the coarse budget tier that drives the allocator split.
type BudgetFocus string

const (
	FocusBudget   BudgetFocus = "budget"
	FocusModerate BudgetFocus = "moderate"
	FocusPremium  BudgetFocus = "premium"
)

// PreferenceRecord mirrors the user_preferences table. Every field is optional.
type PreferenceRecord struct {
	UserID                     uuid.UUID `json:"user_id"`
	DefaultBudgetMin           *int64    `json:"default_budget_min,omitempty"`
	DefaultBudgetMax           *int64    `json:"default_budget_max,omitempty"`
	PreferredTravelerTypes     []string  `json:"preferred_traveler_types"`
	PreferredInterests         []string  `json:"preferred_interests"`
	AvoidedActivities          []string  `json:"avoided_activities"`
	DietaryRestrictions        []string  `json:"dietary_restrictions"`
	MobilityConsiderations     []string  `json:"mobility_considerations"`
	PreferredAccommodationType []string  `json:"preferred_accommodation_type"`
	CreatedAt                  time.Time `json:"created_at"`
	UpdatedAt                  time.Time `json:"updated_at"`
}

// AnalyzedPreferences is the merged view of request and history used by every later stage.
type AnalyzedPreferences struct {
	Interests           []string     `json:"interests"`
	DietaryRestrictions []string     `json:"dietary_restrictions"`
	Persona             TravelerType `json:"persona"`
	Themes              []string     `json:"themes"`
	BudgetFocus         BudgetFocus  `json:"budget_focus"`
	Avoid               []string     `json:"avoid"`
	Pace                Pace         `json:"pace"`
	Notes               string       `json:"notes,omitempty"`
}

// HasInterest reports whether interest appears in the merged interest list.
func (a AnalyzedPreferences) HasInterest(interest string) bool {
	for _, i := range a.Interests {
		if i == interest {
			return true
		}
	}
	return false
}

// PlanHistoryEntry is the slice of a past plan the preference learner reads.
type PlanHistoryEntry struct {
	PlanID       uuid.UUID     `json:"plan_id"`
	BudgetTotal  int64         `json:"budget_total"`
	TravelerType TravelerType  `json:"traveler_type"`
	Request      PreferenceSet `json:"request"`
	Themes       []string      `json:"themes"` // analysis themes stored with the plan
	CreatedAt    time.Time     `json:"created_at"`
}

// UpdatePreferencesRequest replaces the user-editable part of a PreferenceRecord.
type UpdatePreferencesRequest struct {
	DefaultBudgetMin           *int64   `json:"default_budget_min,omitempty"`
	DefaultBudgetMax           *int64   `json:"default_budget_max,omitempty"`
	PreferredTravelerTypes     []string `json:"preferred_traveler_types"`
	PreferredInterests         []string `json:"preferred_interests"`
	AvoidedActivities          []string `json:"avoided_activities"`
	DietaryRestrictions        []string `json:"dietary_restrictions"`
	MobilityConsiderations     []string `json:"mobility_considerations"`
	PreferredAccommodationType []string `json:"preferred_accommodation_type"`
}
