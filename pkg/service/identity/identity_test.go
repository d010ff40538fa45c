package identity_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/provlog/pkg/model"
	"github.com/m-mizutani/provlog/pkg/service/identity"
)

func TestAllocatorContiguousOrdinals(t *testing.T) {
	alloc := identity.NewAllocator()

	for i := 1; i <= 5; i++ {
		id := alloc.Allocate(model.KindUtterance, "S1")
		gt.Equal(t, id, model.ID(fmt.Sprintf("utterance/S1/%d", i)))
	}

	// Independent counter per kind
	gt.Equal(t, alloc.Allocate(model.KindIntent, "S1"), model.ID("intent/S1/1"))
	gt.Equal(t, alloc.Allocate(model.KindIntent, "S1"), model.ID("intent/S1/2"))
}

func TestAllocatorReset(t *testing.T) {
	alloc := identity.NewAllocator()
	alloc.Allocate(model.KindIntent, "S1")
	alloc.Allocate(model.KindIntent, "S1")

	alloc.Reset()

	// First allocation of the new session is always ordinal 1
	gt.Equal(t, alloc.Allocate(model.KindIntent, "S2"), model.ID("intent/S2/1"))
}

func TestRegistryVerify(t *testing.T) {
	reg := identity.NewRegistry()
	reg.Mint("intent/S1/1")

	ok := &model.IntentMatching{
		UtteranceID: "utterance/S1/1",
		IntentID:    "intent/S1/1",
	}
	err := reg.Verify(ok)
	gt.Error(t, err) // utterance/S1/1 was never minted
	gt.True(t, errors.Is(err, model.ErrMissingIdentity))

	reg.Mint("utterance/S1/1")
	gt.NoError(t, reg.Verify(ok))
}

func TestUtteranceCacheTupleKey(t *testing.T) {
	cache := identity.NewUtteranceCache()
	cache.Put([]string{"turn on the light", "turn on the lights"}, "utterance/S1/1")

	id, ok := cache.Resolve([]string{"turn on the light", "turn on the lights"})
	gt.True(t, ok)
	gt.Equal(t, id, model.ID("utterance/S1/1"))

	// The key is the exact ordered tuple, not any single alternative
	_, ok = cache.Resolve([]string{"turn on the light"})
	gt.False(t, ok)

	cache.Clear()
	_, ok = cache.Resolve([]string{"turn on the light", "turn on the lights"})
	gt.False(t, ok)
}

func TestGeoCacheMintsOnce(t *testing.T) {
	cache := identity.NewGeoCache()
	coord := model.Coordinate{Lat: 45.47885, Lng: 133.42825}

	id, minted := cache.ResolveOrMint("alice", coord)
	gt.True(t, minted)
	gt.Equal(t, id, model.ID("users/alice/geolocation/1"))

	// Same pair resolves to the identical identifier with no new mint,
	// regardless of how many times it is requested
	for i := 0; i < 3; i++ {
		again, minted := cache.ResolveOrMint("alice", coord)
		gt.False(t, minted)
		gt.Equal(t, again, id)
	}

	// A different pair for the same user takes the next ordinal
	other, minted := cache.ResolveOrMint("alice", model.Coordinate{Lat: 0, Lng: 0})
	gt.True(t, minted)
	gt.Equal(t, other, model.ID("users/alice/geolocation/2"))

	// Ordinals are per user
	bob, minted := cache.ResolveOrMint("bob", coord)
	gt.True(t, minted)
	gt.Equal(t, bob, model.ID("users/bob/geolocation/1"))
}

func TestIntentCacheKeepsLatest(t *testing.T) {
	cache := identity.NewIntentCache()

	_, ok := cache.Resolve("weather-skill")
	gt.False(t, ok)

	cache.Put("weather-skill", "intent/S1/1")
	cache.Put("weather-skill", "intent/S1/2")

	id, ok := cache.Resolve("weather-skill")
	gt.True(t, ok)
	gt.Equal(t, id, model.ID("intent/S1/2"))
}
