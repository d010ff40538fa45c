package recorder

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/provlog/pkg/model"
	"github.com/m-mizutani/provlog/pkg/service/identity"
	"github.com/m-mizutani/provlog/pkg/service/ledger"
	"github.com/m-mizutani/provlog/pkg/utils/logging"
)

// Recorder assigns identities to inbound notifications, deduplicates
// entities, and appends bindings to the ledger. The host runtime
// delivers notifications strictly one at a time; nothing here is safe
// for concurrent use.
type Recorder struct {
	ledger   *ledger.Ledger
	alloc    *identity.Allocator
	registry *identity.Registry

	utterances *identity.UtteranceCache
	intents    *identity.IntentCache
	geo        *identity.GeoCache

	// tracked session; nil until the first notification arrives
	session *model.Session
}

func New(l *ledger.Ledger) *Recorder {
	return &Recorder{
		ledger:     l,
		alloc:      identity.NewAllocator(),
		registry:   identity.NewRegistry(),
		utterances: identity.NewUtteranceCache(),
		intents:    identity.NewIntentCache(),
		geo:        identity.NewGeoCache(),
	}
}

// Session returns the currently tracked session, nil before the first
// notification.
func (r *Recorder) Session() *model.Session {
	return r.session
}

// track runs the session transition protocol. Sessions are compared
// by identity: a new *model.Session value triggers, in order, a flush
// of the buffer under the previous session, a counter reset, a clear
// of the utterance cache, and adoption of the new session. When the
// flush fails the previous session stays tracked so a retried flush
// cannot file its rows under the successor.
func (r *Recorder) track(ctx context.Context, s *model.Session) error {
	if s == nil {
		return goerr.New("nil session observed")
	}
	if r.session == s {
		return nil
	}

	if r.session != nil {
		if err := r.ledger.Flush(ctx, r.session); err != nil {
			return err
		}
		logging.From(ctx).Debug("session switch",
			"from", r.session.ID,
			"to", s.ID,
		)
	}

	r.alloc.Reset()
	r.utterances.Clear()
	r.session = s
	return nil
}

// append verifies the no-forward-reference invariant before handing
// the binding to the ledger.
func (r *Recorder) append(b model.Binding) error {
	if err := r.registry.Verify(b); err != nil {
		return err
	}
	r.ledger.Append(b)
	return nil
}

func (r *Recorder) resolveUtterance(alternatives []string) model.ID {
	if id, ok := r.utterances.Resolve(alternatives); ok {
		return id
	}

	id := r.alloc.Allocate(model.KindUtterance, string(r.session.ID))
	r.registry.Mint(id)
	r.utterances.Put(alternatives, id)
	return id
}

// Shutdown flushes any buffered bindings unconditionally. Called once
// on process shutdown to prevent data loss.
func (r *Recorder) Shutdown(ctx context.Context) error {
	if r.session == nil {
		return nil
	}
	return r.ledger.Flush(ctx, r.session)
}
