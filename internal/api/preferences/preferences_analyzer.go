package preferences

import (
	"strings"

	"github.com/FACorreiaa/go-travel-planner/internal/types"
)

// Analyzer merges stored preference history with the current request.
// It never fails: absent or partial history is treated as empty.
type Analyzer struct {
	h types.Heuristics
}

func NewAnalyzer(h types.Heuristics) *Analyzer {
	return &Analyzer{h: h}
}

func (a *Analyzer) Analyze(req types.TravelRequest, history *types.PreferenceRecord) types.AnalyzedPreferences {
	if history == nil {
		history = &types.PreferenceRecord{}
	}
	prefs := req.Preferences

	themes := MergeLists(prefs.MustHave, history.PreferredInterests)
	notes := strings.TrimSpace(prefs.Notes)
	if notes != "" {
		themes = append(themes, "notes: "+notes)
	}

	return types.AnalyzedPreferences{
		Interests:           MergeLists(prefs.Interests, history.PreferredInterests),
		DietaryRestrictions: MergeLists(prefs.DietaryRestrictions, history.DietaryRestrictions),
		Avoid:               MergeLists(prefs.Avoid, history.AvoidedActivities),
		Persona:             a.persona(req.TravelerType, history.PreferredTravelerTypes),
		Themes:              themes,
		BudgetFocus:         a.focus(req.BudgetTotal, history),
		Pace:                prefs.Pace,
		Notes:               notes,
	}
}

// persona keeps the declared type unless history names other types and not this one.
func (a *Analyzer) persona(declared types.TravelerType, preferred []string) types.TravelerType {
	if len(preferred) == 0 {
		return declared
	}
	for _, p := range preferred {
		if types.TravelerType(p) == declared {
			return declared
		}
	}
	for _, p := range preferred {
		if t := types.TravelerType(strings.TrimSpace(p)); t.Valid() {
			return t
		}
	}
	return declared
}

func (a *Analyzer) focus(requestTotal int64, history *types.PreferenceRecord) types.BudgetFocus {
	focus := types.FocusModerate
	if avg, ok := historicalAverage(history); ok {
		focus = a.Classify(avg)
	}
	if requestTotal > 0 {
		focus = a.Classify(requestTotal)
	}
	return focus
}

// Classify maps an absolute amount to a budget tier.
func (a *Analyzer) Classify(amount int64) types.BudgetFocus {
	switch {
	case amount < a.h.BudgetFocusLow:
		return types.FocusBudget
	case amount > a.h.BudgetFocusHigh:
		return types.FocusPremium
	default:
		return types.FocusModerate
	}
}

func historicalAverage(history *types.PreferenceRecord) (int64, bool) {
	minB, maxB := history.DefaultBudgetMin, history.DefaultBudgetMax
	switch {
	case minB != nil && maxB != nil:
		return (*minB + *maxB) / 2, true
	case maxB != nil:
		return *maxB, true
	case minB != nil:
		return *minB, true
	}
	return 0, false
}

// MergeLists concatenates lists in argument order, dropping blanks and repeats.
func MergeLists(lists ...[]string) []string {
	merged := make([]string, 0)
	seen := make(map[string]struct{})
	for _, list := range lists {
		for _, item := range list {
			item = strings.TrimSpace(item)
			if item == "" {
				continue
			}
			if _, ok := seen[item]; ok {
				continue
			}
			seen[item] = struct{}{}
			merged = append(merged, item)
		}
	}
	return merged
}
