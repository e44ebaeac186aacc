package domain

import "errors"

// ErrNotTiltBeacon indicates the advertisement payload is too short or
// does not carry the expected beacon prefix. Foreign devices broadcast
// constantly, so this is expected traffic, not a fault.
var ErrNotTiltBeacon = errors.New("advertisement is not a tilt beacon")
