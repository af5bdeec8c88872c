package match

import "errors"

var (
	// ErrInvalidConfiguration is returned by New for an empty dictionary or a
	// non-positive slot count.
	ErrInvalidConfiguration = errors.New("match: invalid configuration")

	// ErrInvalidReference is returned for an unknown tile ID or slot position.
	// The engine is left untouched.
	ErrInvalidReference = errors.New("match: invalid reference")

	// ErrNoAvailableSlot is returned when every slot is occupied.
	// Callers conventionally treat it as an ignored tap.
	ErrNoAvailableSlot = errors.New("match: no available slot")
)
