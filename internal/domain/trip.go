// Package domain contains the core data types for TripMate.
// It defines the trip document (the single unit of persistence), the four
// entity records it holds, their identity rules and validation.
// Every other internal package imports it; it imports no internal package.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultTitle is the title of a freshly created trip document.
const DefaultTitle = "즐거운 여행 계획"

// DefaultBudget is the budget ceiling of a freshly created trip document.
const DefaultBudget Amount = 1_000_000

// DateLayout is the layout of Trip.StartDate and Trip.EndDate.
const DateLayout = "2006-01-02"

// Trip is the root aggregate: trip metadata plus four entity lists.
// A Trip is treated as an immutable snapshot; editor and merge functions
// return a new Trip instead of changing the one they are given.
type Trip struct {
	Title          string           `json:"title" yaml:"title"`
	Destination    string           `json:"destination" yaml:"destination"`
	StartDate      string           `json:"startDate" yaml:"startDate"` // "2006-01-02"
	EndDate        string           `json:"endDate" yaml:"endDate"`     // "2006-01-02"
	Budget         Amount           `json:"budget" yaml:"budget"`
	Flights        []Flight         `json:"flights" yaml:"flights"`
	Accommodations []Accommodation  `json:"accommodations" yaml:"accommodations"`
	Activities     []Activity       `json:"activities" yaml:"activities"`
	Transportation []Transportation `json:"transportation" yaml:"transportation"`
}

// NewTrip returns the default document: empty lists, the default title and
// budget, and a date range from now's date to three days later.
func NewTrip(now time.Time) Trip {
	return Trip{
		Title:          DefaultTitle,
		StartDate:      now.Format(DateLayout),
		EndDate:        now.AddDate(0, 0, 3).Format(DateLayout),
		Budget:         DefaultBudget,
		Flights:        []Flight{},
		Accommodations: []Accommodation{},
		Activities:     []Activity{},
		Transportation: []Transportation{},
	}
}

// Clone returns a deep copy of t. Entities hold only value fields, so copying
// the four slices is enough.
func (t Trip) Clone() Trip {
	out := t
	out.Flights = append(make([]Flight, 0, len(t.Flights)), t.Flights...)
	out.Accommodations = append(make([]Accommodation, 0, len(t.Accommodations)), t.Accommodations...)
	out.Activities = append(make([]Activity, 0, len(t.Activities)), t.Activities...)
	out.Transportation = append(make([]Transportation, 0, len(t.Transportation)), t.Transportation...)
	return out
}

// Normalize returns a copy of t with non-nil lists and a unique, non-empty
// identifier on every element of every list. Elements whose id is empty or
// repeats an earlier id in the same list get a fresh one.
func (t Trip) Normalize() Trip {
	out := t.Clone()
	out.Flights = ensureIDs(out.Flights, func(f *Flight) *string { return &f.ID })
	out.Accommodations = ensureIDs(out.Accommodations, func(a *Accommodation) *string { return &a.ID })
	out.Activities = ensureIDs(out.Activities, func(a *Activity) *string { return &a.ID })
	out.Transportation = ensureIDs(out.Transportation, func(tr *Transportation) *string { return &tr.ID })
	return out
}

// NewID returns a fresh entity identifier.
// Identifiers are random (v4) UUIDs, unique within a list with overwhelming probability.
func NewID() string {
	return uuid.NewString()
}

// ensureIDs rewrites empty or duplicate identifiers in place. The slice must
// already be owned by the caller.
func ensureIDs[T any](list []T, id func(*T) *string) []T {
	seen := make(map[string]struct{}, len(list))
	for i := range list {
		p := id(&list[i])
		if _, dup := seen[*p]; *p == "" || dup {
			*p = NewID()
		}
		seen[*p] = struct{}{}
	}
	return list
}
