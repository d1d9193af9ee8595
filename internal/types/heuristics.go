package types

import "fmt"

// Split holds whole-number percentages for the four budget categories.
type Split struct {
	Accommodation int `mapstructure:"accommodation" json:"accommodation"`
	Food          int `mapstructure:"food" json:"food"`
	Activities    int `mapstructure:"activities" json:"activities"`
	Transport     int `mapstructure:"transport" json:"transport"`
}

// Add returns the element-wise sum, used to nudge a base split.
func (s Split) Add(o Split) Split {
	return Split{
		Accommodation: s.Accommodation + o.Accommodation,
		Food:          s.Food + o.Food,
		Activities:    s.Activities + o.Activities,
		Transport:     s.Transport + o.Transport,
	}
}

// SlotPool names which bundle list a timeline slot draws from.
type SlotPool string

const (
	PoolAccommodations SlotPool = "accommodations"
	PoolActivities     SlotPool = "activities"
	PoolRestaurants    SlotPool = "restaurants"
	PoolCafes          SlotPool = "cafes"
)

// BudgetCategory names a breakdown bucket.
type BudgetCategory string

const (
	CategoryAccommodation BudgetCategory = "accommodation"
	CategoryFood          BudgetCategory = "food"
	CategoryActivities    BudgetCategory = "activities"
	CategoryTransport     BudgetCategory = "transport"
)

// SlotSpec is one fixed position in a generated day.
// Cost is breakdown[Category] / (days * Divisor).
type SlotSpec struct {
	Name            string         `mapstructure:"name" json:"name"`
	Pool            SlotPool       `mapstructure:"pool" json:"pool"`
	VisitType       VisitType      `mapstructure:"visit_type" json:"visit_type"`
	Clock           string         `mapstructure:"clock" json:"clock"` // HH:MM
	DurationMinutes int            `mapstructure:"duration_minutes" json:"duration_minutes"`
	Category        BudgetCategory `mapstructure:"category" json:"category"`
	Divisor         int            `mapstructure:"divisor" json:"divisor"`
	Reason          string         `mapstructure:"reason" json:"reason"`
}

// Heuristics gathers every tunable constant of the planning pipeline.
type Heuristics struct {
	BudgetFocusLow  int64 `mapstructure:"budget_focus_low"`  // below: budget
	BudgetFocusHigh int64 `mapstructure:"budget_focus_high"` // above: premium

	BaseSplit    Split `mapstructure:"base_split"`
	PremiumSplit Split `mapstructure:"premium_split"`
	BudgetSplit  Split `mapstructure:"budget_split"`
	FoodNudge    Split `mapstructure:"food_nudge"`

	DailyBudgetFloor          int64 `mapstructure:"daily_budget_floor"`
	AccommodationNightlyFloor int64 `mapstructure:"accommodation_nightly_floor"`

	WalkingMetersPerMinute float64 `mapstructure:"walking_meters_per_minute"`
	MinRouteMinutes        int     `mapstructure:"min_route_minutes"`
	WalkingMaxMeters       float64 `mapstructure:"walking_max_meters"`
	TransitMaxMeters       float64 `mapstructure:"transit_max_meters"`
	FlatFare               int64   `mapstructure:"flat_fare"`

	DefaultTheme       string     `mapstructure:"default_theme"`
	ProviderQueryLimit int        `mapstructure:"provider_query_limit"`
	ProviderResultCap  int        `mapstructure:"provider_result_cap"`
	Slots              []SlotSpec `mapstructure:"slots"`
}

func (s Split) sum() int {
	return s.Accommodation + s.Food + s.Activities + s.Transport
}

func (s Split) negative() bool {
	return s.Accommodation < 0 || s.Food < 0 || s.Activities < 0 || s.Transport < 0
}

// Validate rejects constants that would break allocation or route timing.
// Every split, including base plus food nudge, must be non-negative and sum to 100.
func (h Heuristics) Validate() error {
	splits := []struct {
		name  string
		split Split
	}{
		{"base_split", h.BaseSplit},
		{"premium_split", h.PremiumSplit},
		{"budget_split", h.BudgetSplit},
		{"base_split+food_nudge", h.BaseSplit.Add(h.FoodNudge)},
	}
	for _, s := range splits {
		if s.split.negative() {
			return fmt.Errorf("heuristics: %s has a negative share", s.name)
		}
		if got := s.split.sum(); got != 100 {
			return fmt.Errorf("heuristics: %s sums to %d, want 100", s.name, got)
		}
	}
	if h.WalkingMetersPerMinute <= 0 {
		return fmt.Errorf("heuristics: walking_meters_per_minute must be positive")
	}
	if h.BudgetFocusLow > h.BudgetFocusHigh {
		return fmt.Errorf("heuristics: budget_focus_low exceeds budget_focus_high")
	}
	for _, slot := range h.Slots {
		if slot.Divisor <= 0 {
			return fmt.Errorf("heuristics: slot %q needs a positive divisor", slot.Name)
		}
	}
	return nil
}

// DefaultHeuristics returns the production constants.
func DefaultHeuristics() Heuristics {
	return Heuristics{
		BudgetFocusLow:  500_000,
		BudgetFocusHigh: 2_000_000,

		BaseSplit:    Split{Accommodation: 38, Food: 27, Activities: 23, Transport: 12},
		PremiumSplit: Split{Accommodation: 45, Food: 25, Activities: 20, Transport: 10},
		BudgetSplit:  Split{Accommodation: 30, Food: 30, Activities: 22, Transport: 18},
		FoodNudge:    Split{Food: 5, Activities: -3, Transport: -2},

		DailyBudgetFloor:          120_000,
		AccommodationNightlyFloor: 70_000,

		WalkingMetersPerMinute: 80,
		MinRouteMinutes:        5,
		WalkingMaxMeters:       4_000,
		TransitMaxMeters:       15_000,
		FlatFare:               4_000,

		DefaultTheme:       "local highlights",
		ProviderQueryLimit: 2,
		ProviderResultCap:  2,
		Slots:              DefaultSlots(),
	}
}

// DefaultSlots is the fixed day layout: overnight base, two activities, three meals.
func DefaultSlots() []SlotSpec {
	return []SlotSpec{
		{Name: "accommodation", Pool: PoolAccommodations, VisitType: VisitOvernight, Clock: "08:00", DurationMinutes: 120, Category: CategoryAccommodation, Divisor: 1, Reason: "Convenient base for the day"},
		{Name: "morning_activity", Pool: PoolActivities, VisitType: VisitActivity, Clock: "10:00", DurationMinutes: 150, Category: CategoryActivities, Divisor: 2, Reason: "Signature experience aligned with interests"},
		{Name: "lunch", Pool: PoolRestaurants, VisitType: VisitMeal, Clock: "13:00", DurationMinutes: 90, Category: CategoryFood, Divisor: 2, Reason: "Popular dining spot featuring local flavours"},
		{Name: "afternoon_activity", Pool: PoolActivities, VisitType: VisitActivity, Clock: "15:30", DurationMinutes: 120, Category: CategoryActivities, Divisor: 2, Reason: "Complementary experience for the day"},
		{Name: "cafe", Pool: PoolCafes, VisitType: VisitMeal, Clock: "17:00", DurationMinutes: 60, Category: CategoryFood, Divisor: 4, Reason: "Relaxing cafe stop before evening"},
		{Name: "dinner", Pool: PoolRestaurants, VisitType: VisitMeal, Clock: "19:30", DurationMinutes: 90, Category: CategoryFood, Divisor: 2, Reason: "Chef-recommended dinner"},
	}
}
