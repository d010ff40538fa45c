package model

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// ID is a minted identifier. Session-scoped kinds take the form
// "<kind>/<session>/<ordinal>", user-scoped kinds
// "users/<user>/<kind>/<ordinal>", and request/response/action
// identifiers are opaque UUIDs.
type ID string

type IDKind string

const (
	KindUtterance   IDKind = "utterance"
	KindIntent      IDKind = "intent"
	KindGeolocation IDKind = "geolocation"
)

// NewScopedID mints a session-scoped identifier. Ordinals are
// contiguous from 1 within one scope.
func NewScopedID(kind IDKind, scope string, ordinal uint64) ID {
	return ID(fmt.Sprintf("%s/%s/%d", kind, scope, ordinal))
}

// NewUserScopedID mints an identifier owned by a user rather than a
// session, e.g. "users/alice/geolocation/1".
func NewUserScopedID(user string, kind IDKind, ordinal uint64) ID {
	return ID(fmt.Sprintf("users/%s/%s/%d", user, kind, ordinal))
}

// NewOpaqueID mints a random token for identifiers that need no
// deduplication.
func NewOpaqueID() ID {
	return ID(uuid.New().String())
}

// Coordinate is a geolocation sample. Dedup is by the exact value
// pair, not by proximity.
type Coordinate struct {
	Lat float64
	Lng float64
}

// Key returns the exact cache key for the pair.
func (c Coordinate) Key() string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lng, 'f', -1, 64)
}

func (c Coordinate) String() string {
	return "(" + strconv.FormatFloat(c.Lat, 'f', -1, 64) + ", " + strconv.FormatFloat(c.Lng, 'f', -1, 64) + ")"
}
