package budget

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/FACorreiaa/go-travel-planner/internal/types"
)

// Allocator splits a total budget into the four spending categories.
type Allocator struct {
	h types.Heuristics
}

func NewAllocator(h types.Heuristics) *Allocator {
	return &Allocator{h: h}
}

// SplitFor picks the percentage split for the analyzed preferences.
func (a *Allocator) SplitFor(prefs types.AnalyzedPreferences) types.Split {
	switch prefs.BudgetFocus {
	case types.FocusPremium:
		return a.h.PremiumSplit
	case types.FocusBudget:
		return a.h.BudgetSplit
	}
	if prefs.HasInterest("food") {
		return a.h.BaseSplit.Add(a.h.FoodNudge)
	}
	return a.h.BaseSplit
}

// Allocate always returns a breakdown whose categories sum to totalBudget.
// Rounding loss or surplus lands in activities.
func (a *Allocator) Allocate(totalBudget int64, totalDays int, prefs types.AnalyzedPreferences) types.BudgetAllocationResult {
	if totalDays < 1 {
		totalDays = 1
	}
	split := a.SplitFor(prefs)

	breakdown := types.BudgetBreakdown{
		Accommodation: portion(totalBudget, split.Accommodation),
		Food:          portion(totalBudget, split.Food),
		Activities:    portion(totalBudget, split.Activities),
		Transport:     portion(totalBudget, split.Transport),
		Total:         totalBudget,
	}
	remainder := totalBudget - (breakdown.Accommodation + breakdown.Food + breakdown.Activities + breakdown.Transport)
	breakdown.Activities += remainder

	perDay := totalBudget / int64(totalDays)

	warnings := make([]string, 0, 2)
	if perDay < a.h.DailyBudgetFloor {
		warnings = append(warnings, fmt.Sprintf(
			"Budget is tight: the recommended minimum is %s per day.", formatAmount(a.h.DailyBudgetFloor)))
	}
	if breakdown.Accommodation < int64(totalDays)*a.h.AccommodationNightlyFloor {
		warnings = append(warnings, fmt.Sprintf(
			"Accommodation budget is low: mid-range stays need about %s per night.", formatAmount(a.h.AccommodationNightlyFloor)))
	}

	return types.BudgetAllocationResult{
		Breakdown:     breakdown,
		PerDayAverage: perDay,
		Warnings:      warnings,
	}
}

func portion(total int64, pct int) int64 {
	return int64(math.RoundToEven(float64(total) * float64(pct) / 100))
}

var amountPrinter = message.NewPrinter(language.English)

// formatAmount renders 120000 as "120,000".
func formatAmount(v int64) string {
	return amountPrinter.Sprintf("%d", v)
}
