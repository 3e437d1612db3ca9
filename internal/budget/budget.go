// Package budget derives the read-only cost view of a trip: per-category
// totals, the grand total against the budget ceiling, and the display order of
// activities. Nothing here is cached or persisted; callers recompute it from
// the current document whenever they need it.
package budget

import (
	"cmp"
	"slices"

	"github.com/samber/lo"

	"github.com/choiyuns329/Japan-trip/internal/domain"
)

// Category identifies one slice of the budget.
type Category string

const (
	CategoryFlights        Category = "flights"
	CategoryAccommodations Category = "accommodations"
	CategoryActivities     Category = "activities"
	CategoryTransportation Category = "transportation"
)

// Slice is one non-empty category of spend.
type Slice struct {
	Category Category      `json:"category"`
	Amount   domain.Amount `json:"amount"`
}

// Summary is the aggregate view of a trip's costs.
type Summary struct {
	Flights        domain.Amount `json:"flights"`
	Accommodations domain.Amount `json:"accommodations"`
	Activities     domain.Amount `json:"activities"`
	Transportation domain.Amount `json:"transportation"`
	Total          domain.Amount `json:"total"`
	Budget         domain.Amount `json:"budget"`

	// Remaining is Budget - Total; negative when over budget.
	Remaining domain.Amount `json:"remaining"`

	// Empty signals "no budget data yet": the total is zero, so there is
	// nothing meaningful to chart.
	Empty bool `json:"empty"`

	// OverBudget is set when Total exceeds Budget. It is a display state,
	// not an error.
	OverBudget bool `json:"overBudget"`
}

// Summarize sums price over flights and accommodations and cost over
// activities and transportation.
func Summarize(trip domain.Trip) Summary {
	s := Summary{
		Flights:        lo.SumBy(trip.Flights, func(f domain.Flight) domain.Amount { return f.Price }),
		Accommodations: lo.SumBy(trip.Accommodations, func(a domain.Accommodation) domain.Amount { return a.Price }),
		Activities:     lo.SumBy(trip.Activities, func(a domain.Activity) domain.Amount { return a.Cost }),
		Transportation: lo.SumBy(trip.Transportation, func(t domain.Transportation) domain.Amount { return t.Cost }),
		Budget:         trip.Budget,
	}
	s.Total = s.Flights + s.Accommodations + s.Activities + s.Transportation
	s.Remaining = s.Budget - s.Total
	s.Empty = s.Total == 0
	s.OverBudget = s.Total > s.Budget
	return s
}

// Categories returns the categories with a non-zero amount, in fixed order.
func (s Summary) Categories() []Slice {
	all := []Slice{
		{CategoryFlights, s.Flights},
		{CategoryAccommodations, s.Accommodations},
		{CategoryActivities, s.Activities},
		{CategoryTransportation, s.Transportation},
	}
	return lo.Filter(all, func(c Slice, _ int) bool { return c.Amount > 0 })
}

// Itinerary returns the activities in display order: ascending by day, then by
// time string. Equal (day, time) pairs keep their storage order. The time
// comparison is a plain string comparison, which is correct for zero-padded
// 24-hour times ("09:00" < "13:30").
// The argument is not reordered.
func Itinerary(activities []domain.Activity) []domain.Activity {
	out := slices.Clone(activities)
	slices.SortStableFunc(out, func(a, b domain.Activity) int {
		return cmp.Or(cmp.Compare(a.Day, b.Day), cmp.Compare(a.Time, b.Time))
	})
	return out
}

// DayPlan is the activities of one trip day in display order.
type DayPlan struct {
	Day        int               `json:"day"`
	Activities []domain.Activity `json:"activities"`
	Cost       domain.Amount     `json:"cost"`
}

// Days groups the itinerary by day, in ascending day order.
func Days(activities []domain.Activity) []DayPlan {
	var out []DayPlan
	for _, a := range Itinerary(activities) {
		if n := len(out); n == 0 || out[n-1].Day != a.Day {
			out = append(out, DayPlan{Day: a.Day})
		}
		last := &out[len(out)-1]
		last.Activities = append(last.Activities, a)
		last.Cost += a.Cost
	}
	if out == nil {
		return []DayPlan{}
	}
	return out
}
