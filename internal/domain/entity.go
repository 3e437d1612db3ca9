package domain

import (
	"fmt"
	"strings"
)

// Kind names one of the four entity lists of a Trip. The value doubles as the
// JSON field name of the list and as the path segment in the HTTP API.
type Kind string

const (
	KindFlight         Kind = "flights"
	KindAccommodation  Kind = "accommodations"
	KindActivity       Kind = "activities"
	KindTransportation Kind = "transportation"
)

// Kinds lists every entity kind in document order.
var Kinds = []Kind{KindFlight, KindAccommodation, KindActivity, KindTransportation}

// ParseKind maps a list name, or its singular form, to a Kind.
// Returns ErrValidation for anything else.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "flights", "flight":
		return KindFlight, nil
	case "accommodations", "accommodation", "hotel", "hotels":
		return KindAccommodation, nil
	case "activities", "activity":
		return KindActivity, nil
	case "transportation", "transport", "transports":
		return KindTransportation, nil
	}
	return "", fmt.Errorf("%w: unknown entity kind %q", ErrValidation, s)
}

// Entity is implemented by the four record types held in a Trip's lists.
type Entity interface {
	EntityID() string
	Kind() Kind
}

// Direction tags a flight as the way out or the way back.
type Direction string

const (
	Outbound Direction = "outbound"
	Inbound  Direction = "inbound"
)

// TransportMode is the kind of local transportation.
type TransportMode string

const (
	ModeRental TransportMode = "rental"
	ModeTrain  TransportMode = "train"
	ModeBus    TransportMode = "bus"
	ModeTaxi   TransportMode = "taxi"
	ModeOther  TransportMode = "other"
)

// Flight is a single flight leg. Times are free-form strings and are not validated.
type Flight struct {
	ID               string    `json:"id" yaml:"id"`
	Direction        Direction `json:"type" yaml:"type"`
	Airline          string    `json:"airline" yaml:"airline"`
	FlightNumber     string    `json:"flightNumber" yaml:"flightNumber"`
	DepartureTime    string    `json:"departureTime" yaml:"departureTime"`
	ArrivalTime      string    `json:"arrivalTime" yaml:"arrivalTime"`
	DepartureAirport string    `json:"departureAirport" yaml:"departureAirport"`
	ArrivalAirport   string    `json:"arrivalAirport" yaml:"arrivalAirport"`
	Price            Amount    `json:"price" yaml:"price"`
}

// Accommodation is a place to stay.
type Accommodation struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Address  string `json:"address" yaml:"address"`
	CheckIn  string `json:"checkIn" yaml:"checkIn"`
	CheckOut string `json:"checkOut" yaml:"checkOut"`
	Price    Amount `json:"price" yaml:"price"`
	Notes    string `json:"notes" yaml:"notes"`
}

// Activity is one itinerary item. Day is "day N of the trip", not a calendar
// date. Time is expected in zero-padded 24-hour form ("09:00") so that plain
// string comparison orders it correctly.
type Activity struct {
	ID          string `json:"id" yaml:"id"`
	Day         int    `json:"day" yaml:"day"`
	Time        string `json:"time" yaml:"time"`
	Title       string `json:"title" yaml:"title"`
	Location    string `json:"location" yaml:"location"`
	Description string `json:"description" yaml:"description"`
	Cost        Amount `json:"cost" yaml:"cost"`
}

// Transportation is a local means of getting around (rental car, rail pass, ...).
type Transportation struct {
	ID             string        `json:"id" yaml:"id"`
	Mode           TransportMode `json:"type" yaml:"type"`
	Details        string        `json:"details" yaml:"details"`
	PickupLocation string        `json:"pickupLocation" yaml:"pickupLocation"`
	Cost           Amount        `json:"cost" yaml:"cost"`
}

func (f Flight) EntityID() string         { return f.ID }
func (a Accommodation) EntityID() string  { return a.ID }
func (a Activity) EntityID() string       { return a.ID }
func (t Transportation) EntityID() string { return t.ID }

func (Flight) Kind() Kind         { return KindFlight }
func (Accommodation) Kind() Kind  { return KindAccommodation }
func (Activity) Kind() Kind       { return KindActivity }
func (Transportation) Kind() Kind { return KindTransportation }

// NewFlight returns an empty flight with a fresh id. An empty direction
// defaults to Outbound.
func NewFlight(dir Direction) Flight {
	if dir == "" {
		dir = Outbound
	}
	return Flight{ID: NewID(), Direction: dir}
}

// NewAccommodation returns an empty accommodation with a fresh id.
func NewAccommodation() Accommodation {
	return Accommodation{ID: NewID()}
}

// NewActivity returns an activity on day 1 at 10:00 with a fresh id.
func NewActivity() Activity {
	return Activity{ID: NewID(), Day: 1, Time: "10:00"}
}

// NewTransportation returns a taxi entry with a fresh id.
func NewTransportation() Transportation {
	return Transportation{ID: NewID(), Mode: ModeTaxi}
}

// Len returns the number of elements in the list named by kind.
func (t Trip) Len(kind Kind) int {
	switch kind {
	case KindFlight:
		return len(t.Flights)
	case KindAccommodation:
		return len(t.Accommodations)
	case KindActivity:
		return len(t.Activities)
	case KindTransportation:
		return len(t.Transportation)
	}
	return 0
}

// Entities returns the list named by kind as a slice of Entity, in storage order.
func (t Trip) Entities(kind Kind) []Entity {
	out := make([]Entity, 0, t.Len(kind))
	switch kind {
	case KindFlight:
		for _, e := range t.Flights {
			out = append(out, e)
		}
	case KindAccommodation:
		for _, e := range t.Accommodations {
			out = append(out, e)
		}
	case KindActivity:
		for _, e := range t.Activities {
			out = append(out, e)
		}
	case KindTransportation:
		for _, e := range t.Transportation {
			out = append(out, e)
		}
	}
	return out
}
