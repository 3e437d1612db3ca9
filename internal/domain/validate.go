package domain

import (
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// MaxAmount is the largest price, cost or budget accepted. At this ceiling a
// total stays inside int64 for any document with fewer than 9,000 priced entries.
const MaxAmount Amount = 1_000_000_000_000_000

// amountRange rejects amounts below zero or above MaxAmount. Zero is allowed
// and is what an absent amount decodes to.
var amountRange = []validation.Rule{
	validation.Min(Amount(0)),
	validation.Max(MaxAmount),
}

// isDate accepts an empty string or a "2006-01-02" date.
var isDate = validation.By(func(v any) error {
	s, _ := v.(string)
	if s == "" {
		return nil
	}
	if _, err := time.Parse(DateLayout, s); err != nil {
		return errors.New("must be a date in YYYY-MM-DD form")
	}
	return nil
})

// Validate checks the direction and price of a flight.
func (f Flight) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Direction, validation.Required, validation.In(Outbound, Inbound)),
		validation.Field(&f.Price, amountRange...),
	)
}

// Validate checks the price of an accommodation.
func (a Accommodation) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Price, amountRange...),
	)
}

// Validate checks the day index and cost of an activity.
func (a Activity) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Day, validation.Required, validation.Min(1)),
		validation.Field(&a.Cost, amountRange...),
	)
}

// Validate checks the mode and cost of a transportation entry.
func (t Transportation) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.Mode, validation.Required, validation.In(ModeRental, ModeTrain, ModeBus, ModeTaxi, ModeOther)),
		validation.Field(&t.Cost, amountRange...),
	)
}

// Validate checks the trip metadata and every element of every list.
// Errors are wrapped in ErrValidation.
func (t Trip) Validate() error {
	err := validation.ValidateStruct(&t,
		validation.Field(&t.StartDate, isDate),
		validation.Field(&t.EndDate, isDate),
		validation.Field(&t.Budget, amountRange...),
		validation.Field(&t.Flights),
		validation.Field(&t.Accommodations),
		validation.Field(&t.Activities),
		validation.Field(&t.Transportation),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

// ValidateEntity validates a single entity and wraps failures in ErrValidation.
func ValidateEntity(e Entity) error {
	v, ok := e.(validation.Validatable)
	if !ok {
		return nil
	}
	if err := v.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

// Validate checks every present field of a partial document with the same
// rules as Trip.Validate. Absent and null fields are not checked.
func (p Partial) Validate() error {
	err := validation.Errors{
		"startDate":      validation.Validate(p.StartDate.Value, isDate),
		"endDate":        validation.Validate(p.EndDate.Value, isDate),
		"budget":         validation.Validate(p.Budget.Value, amountRange...),
		"flights":        validation.Validate(p.Flights.Value),
		"accommodations": validation.Validate(p.Accommodations.Value),
		"activities":     validation.Validate(p.Activities.Value),
		"transportation": validation.Validate(p.Transportation.Value),
	}.Filter()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}
