package timeline

import (
	"fmt"

	"github.com/FACorreiaa/go-travel-planner/internal/api/routes"
	"github.com/FACorreiaa/go-travel-planner/internal/types"
)

const notesPrefix = "Balanced schedule generated via heuristics for"

// Generator lays out each day from the configured slot table.
type Generator struct {
	h      types.Heuristics
	routes *routes.Optimizer
}

func NewGenerator(h types.Heuristics, optimizer *routes.Optimizer) *Generator {
	if len(h.Slots) == 0 {
		h.Slots = types.DefaultSlots()
	}
	return &Generator{h: h, routes: optimizer}
}

// cursor cycles over one bundle pool. The position advances on every pull and
// carries over into the next day.
type cursor struct {
	items []types.PlaceCandidate
	next  int
}

func (c *cursor) pull() (types.PlaceCandidate, bool) {
	if len(c.items) == 0 {
		return types.PlaceCandidate{}, false
	}
	p := c.items[c.next%len(c.items)]
	c.next++
	return p.Clone(), true
}

// Generate fills draft.DailyItineraries and returns them.
func (g *Generator) Generate(draft *types.TravelPlanDraft, bundle types.RecommendationBundle, prefs types.AnalyzedPreferences, alloc types.BudgetAllocationResult) []types.DailyItineraryDraft {
	days := draft.TotalDays
	if days < 1 {
		days = 1
	}

	cursors := map[types.SlotPool]*cursor{}
	for _, slot := range g.h.Slots {
		if _, ok := cursors[slot.Pool]; !ok {
			cursors[slot.Pool] = &cursor{items: bundle.Pool(slot.Pool)}
		}
	}

	itineraries := make([]types.DailyItineraryDraft, 0, days)
	for day := 0; day < days; day++ {
		theme := g.themeFor(day, prefs.Interests)

		places := make([]types.ItineraryPlaceDraft, 0, len(g.h.Slots))
		order := 1
		for _, slot := range g.h.Slots {
			place, ok := cursors[slot.Pool].pull()
			if !ok {
				continue
			}
			places = append(places, types.ItineraryPlaceDraft{
				Place:           place,
				VisitOrder:      order,
				VisitType:       slot.VisitType,
				VisitTime:       slot.Clock,
				DurationMinutes: slot.DurationMinutes,
				EstimatedCost:   SlotCost(alloc.Breakdown, slot, days),
				Reason:          slot.Reason,
			})
			order++
		}

		itineraries = append(itineraries, types.DailyItineraryDraft{
			Date:      draft.Request.StartDate.AddDays(day),
			DayNumber: day + 1,
			Theme:     theme,
			Notes:     dayNotes(theme, prefs.Notes),
			Places:    places,
			Routes:    g.routes.BuildRoutes(places),
		})
	}

	draft.DailyItineraries = itineraries
	return itineraries
}

func (g *Generator) themeFor(day int, interests []string) string {
	if len(interests) == 0 {
		return g.h.DefaultTheme
	}
	return interests[day%len(interests)]
}

// SlotCost is the per-visit share of a budget bucket, truncated toward zero.
func SlotCost(b types.BudgetBreakdown, slot types.SlotSpec, days int) int64 {
	divisor := int64(days) * int64(max(slot.Divisor, 1))
	if divisor <= 0 {
		return 0
	}
	return b.Amount(slot.Category) / divisor
}

func dayNotes(theme, travelerNotes string) string {
	notes := fmt.Sprintf("%s %s", notesPrefix, theme)
	if travelerNotes != "" {
		notes += fmt.Sprintf(". Traveler notes: %s", travelerNotes)
	}
	return notes
}
