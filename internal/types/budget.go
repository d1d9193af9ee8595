package types

// BudgetBreakdown always sums exactly to Total.
type BudgetBreakdown struct {
	Accommodation int64 `json:"accommodation"`
	Food          int64 `json:"food"`
	Activities    int64 `json:"activities"`
	Transport     int64 `json:"transport"`
	Total         int64 `json:"total"`
}

// Amount returns the breakdown bucket for a category.
func (b BudgetBreakdown) Amount(c BudgetCategory) int64 {
	switch c {
	case CategoryAccommodation:
		return b.Accommodation
	case CategoryFood:
		return b.Food
	case CategoryActivities:
		return b.Activities
	case CategoryTransport:
		return b.Transport
	}
	return 0
}

type BudgetAllocationResult struct {
	Breakdown     BudgetBreakdown `json:"breakdown"`
	PerDayAverage int64           `json:"per_day_average"`
	Warnings      []string        `json:"warnings"`
}
