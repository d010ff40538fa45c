package identity

import (
	"strings"

	"github.com/m-mizutani/provlog/pkg/model"
)

// UtteranceCache maps the exact ordered tuple of raw utterance
// alternatives to the identifier minted for it. Session scope:
// cleared on every session reset.
type UtteranceCache struct {
	ids map[string]model.ID
}

func NewUtteranceCache() *UtteranceCache {
	return &UtteranceCache{
		ids: make(map[string]model.ID),
	}
}

func utteranceKey(alternatives []string) string {
	return strings.Join(alternatives, "\x1f")
}

func (c *UtteranceCache) Resolve(alternatives []string) (model.ID, bool) {
	id, ok := c.ids[utteranceKey(alternatives)]
	return id, ok
}

func (c *UtteranceCache) Put(alternatives []string, id model.ID) {
	c.ids[utteranceKey(alternatives)] = id
}

func (c *UtteranceCache) Clear() {
	clear(c.ids)
}

// IntentCache remembers the most recent intent identifier resolved
// for each skill. Process lifetime, never cleared: a skill invocation
// may arrive after a session boundary while still belonging to the
// last intent resolved for that skill.
type IntentCache struct {
	ids map[string]model.ID
}

func NewIntentCache() *IntentCache {
	return &IntentCache{
		ids: make(map[string]model.ID),
	}
}

func (c *IntentCache) Put(skillID string, id model.ID) {
	c.ids[skillID] = id
}

func (c *IntentCache) Resolve(skillID string) (model.ID, bool) {
	id, ok := c.ids[skillID]
	return id, ok
}

// GeoCache deduplicates geolocation coordinate pairs per user. It is
// keyed by the exact value pair and only invalidated by process
// restart; it owns its own never-reset counters for the user-scoped
// ordinals.
type GeoCache struct {
	ids      map[string]model.ID
	ordinals map[string]uint64
}

func NewGeoCache() *GeoCache {
	return &GeoCache{
		ids:      make(map[string]model.ID),
		ordinals: make(map[string]uint64),
	}
}

// ResolveOrMint returns the identifier for the coordinate pair,
// minting a new one on first sight. The second return value reports
// whether a mint happened so the caller can document the new entity
// exactly once.
func (c *GeoCache) ResolveOrMint(user string, coord model.Coordinate) (model.ID, bool) {
	key := user + "/" + coord.Key()
	if id, ok := c.ids[key]; ok {
		return id, false
	}

	c.ordinals[user]++
	id := model.NewUserScopedID(user, model.KindGeolocation, c.ordinals[user])
	c.ids[key] = id
	return id, true
}
