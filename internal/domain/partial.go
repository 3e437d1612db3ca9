package domain

import (
	"bytes"
	"encoding/json"
)

// Field is one field of a Partial. It records whether the key was present in
// the decoded JSON and whether it was an explicit null, which a plain pointer
// cannot tell apart.
//
//	key absent        → Set == false
//	"key": null       → Set == true,  Null == true
//	"key": <value>    → Set == true,  Null == false, Value holds it
type Field[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Some returns a Field holding v.
func Some[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: v}
}

// Null returns a Field that was present as an explicit null.
func Null[T any]() Field[T] {
	return Field[T]{Set: true, Null: true}
}

// Present reports whether the field carries a usable value.
func (f Field[T]) Present() bool {
	return f.Set && !f.Null
}

// UnmarshalJSON is only invoked by encoding/json when the key exists,
// so reaching it at all means Set.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.Null = true
		var zero T
		f.Value = zero
		return nil
	}
	f.Null = false
	return json.Unmarshal(data, &f.Value)
}

// MarshalJSON writes null for absent or null fields. Use Partial.MarshalJSON
// to drop absent keys entirely.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Present() {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// Partial is a Trip-shaped value in which any field may be absent.
// It is the output of the plan generator and the input of merge.
type Partial struct {
	Title          Field[string]           `json:"title"`
	Destination    Field[string]           `json:"destination"`
	StartDate      Field[string]           `json:"startDate"`
	EndDate        Field[string]           `json:"endDate"`
	Budget         Field[Amount]           `json:"budget"`
	Flights        Field[[]Flight]         `json:"flights"`
	Accommodations Field[[]Accommodation]  `json:"accommodations"`
	Activities     Field[[]Activity]       `json:"activities"`
	Transportation Field[[]Transportation] `json:"transportation"`
}

// MarshalJSON encodes only the keys that were set, keeping explicit nulls.
func (p Partial) MarshalJSON() ([]byte, error) {
	out := make(map[string]any)
	put := func(key string, set bool, v any) {
		if set {
			out[key] = v
		}
	}
	put("title", p.Title.Set, p.Title)
	put("destination", p.Destination.Set, p.Destination)
	put("startDate", p.StartDate.Set, p.StartDate)
	put("endDate", p.EndDate.Set, p.EndDate)
	put("budget", p.Budget.Set, p.Budget)
	put("flights", p.Flights.Set, p.Flights)
	put("accommodations", p.Accommodations.Set, p.Accommodations)
	put("activities", p.Activities.Set, p.Activities)
	put("transportation", p.Transportation.Set, p.Transportation)
	return json.Marshal(out)
}

// IsEmpty reports whether no field at all was present.
func (p Partial) IsEmpty() bool {
	return !p.Title.Set && !p.Destination.Set && !p.StartDate.Set && !p.EndDate.Set &&
		!p.Budget.Set && !p.Flights.Set && !p.Accommodations.Set &&
		!p.Activities.Set && !p.Transportation.Set
}

// Normalize returns a copy of p in which every present list is non-nil, has
// unique non-empty identifiers, and has its enumerated tags and day index
// defaulted the same way the New* constructors do.
func (p Partial) Normalize() Partial {
	out := p
	if p.Flights.Present() {
		list := append([]Flight{}, p.Flights.Value...)
		for i := range list {
			if list[i].Direction == "" {
				list[i].Direction = Outbound
			}
		}
		out.Flights.Value = ensureIDs(list, func(f *Flight) *string { return &f.ID })
	}
	if p.Accommodations.Present() {
		list := append([]Accommodation{}, p.Accommodations.Value...)
		out.Accommodations.Value = ensureIDs(list, func(a *Accommodation) *string { return &a.ID })
	}
	if p.Activities.Present() {
		list := append([]Activity{}, p.Activities.Value...)
		for i := range list {
			if list[i].Day == 0 {
				list[i].Day = 1
			}
		}
		out.Activities.Value = ensureIDs(list, func(a *Activity) *string { return &a.ID })
	}
	if p.Transportation.Present() {
		list := append([]Transportation{}, p.Transportation.Value...)
		for i := range list {
			if list[i].Mode == "" {
				list[i].Mode = ModeTaxi
			}
		}
		out.Transportation.Value = ensureIDs(list, func(t *Transportation) *string { return &t.ID })
	}
	return out
}
