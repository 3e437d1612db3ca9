package domain

import "errors"

// ErrNotFound is returned by repo functions when the requested slot key holds
// no value. The service treats it as "use the defaults".
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails business rule validation
// (e.g. unknown entity kind, negative price, malformed date).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrNoPlan is the single outcome of every failure in the plan generator:
// missing credential, transport failure, non-2xx status, malformed or
// mis-shaped JSON. Callers leave the document unchanged when they see it.
var ErrNoPlan = errors.New("no plan produced")

// ErrGenerationInFlight is returned when a plan generation is requested while
// another one is still outstanding. Handlers should map this to HTTP 409.
var ErrGenerationInFlight = errors.New("plan generation already in progress")

// ErrPersist is returned alongside a successfully applied mutation when the
// new document could not be written to the storage slot. The in-memory
// document stays authoritative.
var ErrPersist = errors.New("document not persisted")
