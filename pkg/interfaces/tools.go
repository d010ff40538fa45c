package interfaces

import "context"

// Expander turns a flat binding corpus into a full provenance graph
// document. Production adapters shell out to an external tool with a
// bounded timeout.
type Expander interface {
	Expand(ctx context.Context, corpus string) (string, error)
}

// Narrator turns a provenance graph document into narrative text for
// each named explanation plan, rendered with the given style profile.
type Narrator interface {
	Narrate(ctx context.Context, document string, plans []string, profile string) (map[string]string, error)
}
