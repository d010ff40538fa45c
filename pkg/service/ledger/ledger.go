package ledger

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/provlog/pkg/interfaces"
	"github.com/m-mizutani/provlog/pkg/model"
	"github.com/m-mizutani/provlog/pkg/utils/logging"
)

// Ledger owns the in-memory ordered buffer of not-yet-persisted
// bindings. Appends preserve arrival order; the buffer is cleared
// only after a successful flush, so a failed write can be retried
// without losing data (at-least-once persistence).
type Ledger struct {
	store interfaces.Store
	buf   []model.Binding
}

func New(store interfaces.Store) *Ledger {
	return &Ledger{store: store}
}

// Append adds a binding to the buffer. It never fails.
func (l *Ledger) Append(b model.Binding) {
	l.buf = append(l.buf, b)
}

// Size returns the number of buffered bindings.
func (l *Ledger) Size() int {
	return len(l.buf)
}

// Flush writes the whole buffer to the store under the given session
// and empties it. Flushing an empty buffer is a no-op: no file is
// created and nothing is logged.
func (l *Ledger) Flush(ctx context.Context, session *model.Session) error {
	if len(l.buf) == 0 {
		return nil
	}

	if err := l.store.Write(ctx, session, l.buf); err != nil {
		return goerr.Wrap(err, "failed to flush ledger", goerr.V("buffered", len(l.buf)))
	}

	logging.From(ctx).Info("flushed bindings",
		"count", len(l.buf),
		"session", session.ID,
	)
	l.buf = nil
	return nil
}

// CollectAll returns every previously flushed record followed by the
// current unflushed buffer, in file-then-buffer order. This is the
// view handed to the expansion gateway.
func (l *Ledger) CollectAll(ctx context.Context) ([]model.Binding, error) {
	stored, err := l.store.ReadAll(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read stored bindings")
	}

	all := make([]model.Binding, 0, len(stored)+len(l.buf))
	all = append(all, stored...)
	all = append(all, l.buf...)
	return all, nil
}
