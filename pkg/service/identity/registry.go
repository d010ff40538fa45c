package identity

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/provlog/pkg/model"
)

// Registry remembers every identifier minted during the process
// lifetime. It backs the no-forward-reference invariant: a binding
// may only reference identifiers that were minted before it is
// appended. The registry is never reset because the intent and
// geolocation caches outlive session boundaries.
type Registry struct {
	minted map[model.ID]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		minted: make(map[model.ID]struct{}),
	}
}

func (r *Registry) Mint(id model.ID) {
	r.minted[id] = struct{}{}
}

func (r *Registry) Minted(id model.ID) bool {
	_, ok := r.minted[id]
	return ok
}

// Verify fails fast with ErrMissingIdentity if the binding references
// an identifier that was never minted. This indicates a caller
// ordering bug, not a recoverable condition.
func (r *Registry) Verify(b model.Binding) error {
	for _, id := range b.Refs() {
		if !r.Minted(id) {
			return goerr.Wrap(model.ErrMissingIdentity, "binding references unknown identifier",
				goerr.V("kind", b.Kind()), goerr.V("id", id))
		}
	}
	return nil
}
