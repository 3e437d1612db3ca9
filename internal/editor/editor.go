// Package editor implements the collection editor: add, update and delete over
// the four entity lists of a trip, plus edits of the trip's scalar fields.
//
// Every function is pure. It takes a domain.Trip and returns a new one; the
// argument is never modified, so callers can keep comparing the previous and
// next snapshot.
package editor

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/choiyuns329/Japan-trip/internal/domain"
)

// identifiable is satisfied by every entity type.
type identifiable interface {
	EntityID() string
}

// Append returns a new slice holding list followed by e.
func Append[T identifiable](list []T, e T) []T {
	out := make([]T, 0, len(list)+1)
	out = append(out, list...)
	return append(out, e)
}

// Replace returns a copy of list in which the element sharing e's id is
// replaced by e. If no element has that id the copy equals list.
func Replace[T identifiable](list []T, e T) []T {
	return lo.Map(list, func(item T, _ int) T {
		if item.EntityID() == e.EntityID() {
			return e
		}
		return item
	})
}

// Remove returns a copy of list without the element whose id is id.
// The relative order of the remaining elements is kept.
func Remove[T identifiable](list []T, id string) []T {
	return lo.Filter(list, func(item T, _ int) bool {
		return item.EntityID() != id
	})
}

// AddOption customizes the entity built by Add.
type AddOption func(*addOptions)

type addOptions struct {
	direction domain.Direction
}

// WithDirection sets the direction of a new flight. Ignored for other kinds.
func WithDirection(d domain.Direction) AddOption {
	return func(o *addOptions) { o.direction = d }
}

// Add appends a newly constructed default entity of the given kind to the end
// of its list and returns the new trip together with the created entity.
// It only fails for an unknown kind.
func Add(trip domain.Trip, kind domain.Kind, opts ...AddOption) (domain.Trip, domain.Entity, error) {
	var o addOptions
	for _, opt := range opts {
		opt(&o)
	}

	next := trip.Clone()
	var created domain.Entity
	switch kind {
	case domain.KindFlight:
		f := domain.NewFlight(o.direction)
		next.Flights = Append(next.Flights, f)
		created = f
	case domain.KindAccommodation:
		a := domain.NewAccommodation()
		next.Accommodations = Append(next.Accommodations, a)
		created = a
	case domain.KindActivity:
		a := domain.NewActivity()
		next.Activities = Append(next.Activities, a)
		created = a
	case domain.KindTransportation:
		t := domain.NewTransportation()
		next.Transportation = Append(next.Transportation, t)
		created = t
	default:
		return trip, nil, fmt.Errorf("editor.Add: %w: unknown entity kind %q", domain.ErrValidation, kind)
	}
	return next, created, nil
}

// Update replaces, within the list chosen by the entity's type, the element
// whose id equals the entity's id. An unknown id leaves the list unchanged;
// that is a no-op, not an error.
func Update(trip domain.Trip, e domain.Entity) domain.Trip {
	next := trip.Clone()
	switch v := e.(type) {
	case domain.Flight:
		next.Flights = Replace(next.Flights, v)
	case domain.Accommodation:
		next.Accommodations = Replace(next.Accommodations, v)
	case domain.Activity:
		next.Activities = Replace(next.Activities, v)
	case domain.Transportation:
		next.Transportation = Replace(next.Transportation, v)
	}
	return next
}

// Delete removes the element with the given id from the named list.
// An unknown id or kind leaves the trip unchanged.
func Delete(trip domain.Trip, kind domain.Kind, id string) domain.Trip {
	next := trip.Clone()
	switch kind {
	case domain.KindFlight:
		next.Flights = Remove(next.Flights, id)
	case domain.KindAccommodation:
		next.Accommodations = Remove(next.Accommodations, id)
	case domain.KindActivity:
		next.Activities = Remove(next.Activities, id)
	case domain.KindTransportation:
		next.Transportation = Remove(next.Transportation, id)
	}
	return next
}

// Find returns the entity with the given id from the named list.
func Find(trip domain.Trip, kind domain.Kind, id string) (domain.Entity, bool) {
	return lo.Find(trip.Entities(kind), func(e domain.Entity) bool {
		return e.EntityID() == id
	})
}

// InfoPatch carries optional new values for the trip's scalar fields.
// A nil pointer leaves the field unchanged.
type InfoPatch struct {
	Title       *string
	Destination *string
	StartDate   *string
	EndDate     *string
	Budget      *domain.Amount
}

// SetInfo applies the non-nil fields of p to a copy of trip.
func SetInfo(trip domain.Trip, p InfoPatch) domain.Trip {
	next := trip.Clone()
	if p.Title != nil {
		next.Title = *p.Title
	}
	if p.Destination != nil {
		next.Destination = *p.Destination
	}
	if p.StartDate != nil {
		next.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		next.EndDate = *p.EndDate
	}
	if p.Budget != nil {
		next.Budget = *p.Budget
	}
	return next
}
