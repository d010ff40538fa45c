package model

import "github.com/m-mizutani/goerr/v2"

var (
	// ErrStorage marks directory or file write failures. The ledger
	// buffer is retained, so the caller may retry on the next flush.
	ErrStorage = goerr.New("storage failure")

	// ErrToolExecution marks an external collaborator that exited
	// non-zero or exceeded its timeout. Wrapping errors carry the
	// captured diagnostic output and exit status.
	ErrToolExecution = goerr.New("external tool execution failed")

	// ErrMissingIdentity indicates a binding references an identifier
	// that was never minted. This is a caller ordering bug and must
	// fail fast rather than be recovered.
	ErrMissingIdentity = goerr.New("referenced identity was never minted")

	// ErrInvalidRecord indicates a stored row that cannot be parsed
	// back into a binding.
	ErrInvalidRecord = goerr.New("invalid binding record")
)
