// Package merge reconciles a partial trip document, usually produced by the
// plan generator, with the current document.
//
// Rules:
//   - a scalar present with a value overwrites; absent or null keeps the current value
//   - a list present with a value replaces the current list wholesale
//   - a list present as null becomes an empty list
//   - a list absent from the partial keeps the current list (KeepOmitted),
//     or is cleared (ClearOmitted)
//
// ClearOmitted is how the browser version of the planner treated a missing
// list: it replaced every list with the generated one or an empty one.
// KeepOmitted is the default here.
package merge

import (
	"github.com/choiyuns329/Japan-trip/internal/domain"
)

// OmittedLists selects what happens to a list the partial document does not mention.
type OmittedLists string

const (
	// KeepOmitted leaves lists absent from the partial untouched.
	KeepOmitted OmittedLists = "keep"
	// ClearOmitted empties lists absent from the partial, as the browser app did.
	ClearOmitted OmittedLists = "clear"
)

// ParseOmittedLists maps "keep" / "clear" to a policy. Anything else is KeepOmitted.
func ParseOmittedLists(s string) OmittedLists {
	if OmittedLists(s) == ClearOmitted {
		return ClearOmitted
	}
	return KeepOmitted
}

// Option customizes Apply.
type Option func(*options)

type options struct {
	omitted OmittedLists
}

// WithOmittedLists sets the policy for lists absent from the partial.
func WithOmittedLists(p OmittedLists) Option {
	return func(o *options) { o.omitted = p }
}

// Apply returns a new trip combining current and p. current is not modified.
// The result is normalized: lists are non-nil and identifiers are unique.
func Apply(current domain.Trip, p domain.Partial, opts ...Option) domain.Trip {
	o := options{omitted: KeepOmitted}
	for _, opt := range opts {
		opt(&o)
	}

	next := current.Clone()
	scalar(&next.Title, p.Title)
	scalar(&next.Destination, p.Destination)
	scalar(&next.StartDate, p.StartDate)
	scalar(&next.EndDate, p.EndDate)
	scalar(&next.Budget, p.Budget)

	next.Flights = list(next.Flights, p.Flights, o.omitted)
	next.Accommodations = list(next.Accommodations, p.Accommodations, o.omitted)
	next.Activities = list(next.Activities, p.Activities, o.omitted)
	next.Transportation = list(next.Transportation, p.Transportation, o.omitted)

	return next.Normalize()
}

func scalar[T any](dst *T, f domain.Field[T]) {
	if f.Present() {
		*dst = f.Value
	}
}

func list[T any](current []T, f domain.Field[[]T], omitted OmittedLists) []T {
	switch {
	case f.Present():
		return append(make([]T, 0, len(f.Value)), f.Value...)
	case f.Set: // explicit null
		return []T{}
	case omitted == ClearOmitted:
		return []T{}
	default:
		return current
	}
}
