package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-travel-planner/internal/api/routes"
	"github.com/FACorreiaa/go-travel-planner/internal/types"
)

func place(name string, lat, lng float64) types.PlaceCandidate {
	return types.PlaceCandidate{Name: name, Latitude: lat, Longitude: lng, ExternalID: name}
}

func tokyoBundle() types.RecommendationBundle {
	return types.RecommendationBundle{
		Accommodations: []types.PlaceCandidate{place("hotel", 35.6938, 139.7034)},
		Activities: []types.PlaceCandidate{
			place("temple", 35.7148, 139.7967),
			place("museum", 35.6276, 139.7798),
			place("shrine", 35.6764, 139.6993),
		},
		Restaurants: []types.PlaceCandidate{
			place("ramen", 35.6932, 139.7030),
			place("sushi", 35.6617, 139.7326),
			place("market", 35.6654, 139.7708),
		},
		Cafes: []types.PlaceCandidate{place("coffee", 35.6635, 139.7083)},
	}
}

func newDraft(days int) *types.TravelPlanDraft {
	start := types.NewDate(2024, time.May, 1)
	return types.NewTravelPlanDraft(types.TravelRequest{
		Destination: "Tokyo",
		StartDate:   start,
		EndDate:     start.AddDays(days - 1),
	})
}

func newGenerator() *Generator {
	h := types.DefaultHeuristics()
	return NewGenerator(h, routes.NewOptimizer(h))
}

func alloc() types.BudgetAllocationResult {
	return types.BudgetAllocationResult{Breakdown: types.BudgetBreakdown{
		Accommodation: 700_000,
		Food:          560_000,
		Activities:    280_000,
		Transport:     60_000,
		Total:         1_600_000,
	}}
}

func TestGenerate_SevenDaysCyclesThemes(t *testing.T) {
	draft := newDraft(7)
	prefs := types.AnalyzedPreferences{Interests: []string{"culture", "food"}}

	days := newGenerator().Generate(draft, tokyoBundle(), prefs, alloc())

	require.Len(t, days, 7)
	assert.Equal(t, days, draft.DailyItineraries)
	for i, d := range days {
		assert.Equal(t, i+1, d.DayNumber)
		assert.Equal(t, "2024-05-0"+string(rune('1'+i)), d.Date.String())
		assert.Len(t, d.Places, 6)
		assert.Len(t, d.Routes, 5)
	}
	assert.Equal(t, "culture", days[0].Theme)
	assert.Equal(t, "food", days[1].Theme)
	assert.Equal(t, "culture", days[6].Theme)
	assert.Equal(t, "Balanced schedule generated via heuristics for food", days[1].Notes)
}

func TestGenerate_SlotLayoutAndCosts(t *testing.T) {
	days := newGenerator().Generate(newDraft(7), tokyoBundle(), types.AnalyzedPreferences{}, alloc())

	day := days[0]
	wantTypes := []types.VisitType{types.VisitOvernight, types.VisitActivity, types.VisitMeal, types.VisitActivity, types.VisitMeal, types.VisitMeal}
	wantTimes := []string{"08:00", "10:00", "13:00", "15:30", "17:00", "19:30"}
	wantDurations := []int{120, 150, 90, 120, 60, 90}
	wantCosts := []int64{100_000, 20_000, 40_000, 20_000, 20_000, 40_000}
	for i, p := range day.Places {
		assert.Equal(t, i+1, p.VisitOrder)
		assert.Equal(t, wantTypes[i], p.VisitType)
		assert.Equal(t, wantTimes[i], p.VisitTime)
		assert.Equal(t, wantDurations[i], p.DurationMinutes)
		assert.Equal(t, wantCosts[i], p.EstimatedCost)
		assert.NotEmpty(t, p.Reason)
	}
	assert.Equal(t, "local highlights", day.Theme)
}

func TestGenerate_RoundRobinCarriesAcrossDays(t *testing.T) {
	days := newGenerator().Generate(newDraft(2), tokyoBundle(), types.AnalyzedPreferences{}, alloc())

	names := func(d types.DailyItineraryDraft) []string {
		out := make([]string, 0, len(d.Places))
		for _, p := range d.Places {
			out = append(out, p.Place.Name)
		}
		return out
	}
	assert.Equal(t, []string{"hotel", "temple", "ramen", "museum", "coffee", "sushi"}, names(days[0]))
	assert.Equal(t, []string{"hotel", "shrine", "market", "temple", "coffee", "ramen"}, names(days[1]))
}

func TestGenerate_EmptyPoolSkipsSlot(t *testing.T) {
	bundle := tokyoBundle()
	bundle.Cafes = nil
	bundle.Accommodations = nil

	days := newGenerator().Generate(newDraft(1), bundle, types.AnalyzedPreferences{}, alloc())

	require.Len(t, days, 1)
	places := days[0].Places
	require.Len(t, places, 4)
	for i, p := range places {
		assert.Equal(t, i+1, p.VisitOrder)
		assert.NotEqual(t, types.VisitOvernight, p.VisitType)
	}
	require.Len(t, days[0].Routes, 3)
	for i, r := range days[0].Routes {
		assert.Equal(t, i+1, r.FromOrder)
		assert.Equal(t, i+2, r.ToOrder)
	}
}

func TestGenerate_EmptyBundleYieldsEmptyDays(t *testing.T) {
	days := newGenerator().Generate(newDraft(3), types.RecommendationBundle{}, types.AnalyzedPreferences{}, alloc())

	require.Len(t, days, 3)
	for _, d := range days {
		assert.Empty(t, d.Places)
		assert.Empty(t, d.Routes)
	}
}

func TestGenerate_PlacesAreCopies(t *testing.T) {
	bundle := tokyoBundle()
	days := newGenerator().Generate(newDraft(1), bundle, types.AnalyzedPreferences{}, alloc())

	days[0].Places[0].Place.Name = "changed"

	assert.Equal(t, "hotel", bundle.Accommodations[0].Name)
}

func TestGenerate_NotesIncludeTravelerNotes(t *testing.T) {
	prefs := types.AnalyzedPreferences{Interests: []string{"art"}, Notes: "slow mornings"}

	days := newGenerator().Generate(newDraft(1), tokyoBundle(), prefs, alloc())

	assert.Equal(t, "Balanced schedule generated via heuristics for art. Traveler notes: slow mornings", days[0].Notes)
}

func TestSlotCost_Truncates(t *testing.T) {
	b := types.BudgetBreakdown{Food: 100}
	slot := types.SlotSpec{Category: types.CategoryFood, Divisor: 4}

	assert.Equal(t, int64(8), SlotCost(b, slot, 3))
	assert.Equal(t, int64(0), SlotCost(b, slot, 0))
}
