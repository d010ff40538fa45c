package interfaces

import (
	"context"

	"github.com/m-mizutani/provlog/pkg/model"
)

// Store defines the interface for durable binding persistence. Writes
// are append-only: existing rows are never rewritten or reordered.
type Store interface {
	// Write appends records to the partition of the given session,
	// creating the date hierarchy if absent.
	Write(ctx context.Context, session *model.Session, bindings []model.Binding) error

	// ReadAll returns every stored record under the storage root in a
	// deterministic order.
	ReadAll(ctx context.Context) ([]model.Binding, error)
}
