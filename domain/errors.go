package domain

import "github.com/pkg/errors"

// Precondition violations, returned by New
var (
	ErrNilMap       = errors.New("domain: nil map")
	ErrNilLocomotor = errors.New("domain: nil locomotor")
	ErrEmptyGrid    = errors.New("domain: empty grid")
)

// ErrOutOfBounds is returned for cells outside the map
var ErrOutOfBounds = errors.New("domain: cell out of bounds")

// Invariant violations, fatal for the manager
var (
	ErrRerootCycle = errors.New("domain: parent chain exceeds cell count")
	ErrInvariant   = errors.New("domain: invariant violated")
)
