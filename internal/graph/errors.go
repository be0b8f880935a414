package graph

import (
	"errors"
	"fmt"

	"github.com/pdiddy/lawgraph/pkg/types"
)

var (
	// ErrUpsertConflict is wrapped by every UpsertConflictError.
	ErrUpsertConflict = errors.New("upsert conflict")

	// ErrInvalidNode is returned for a node with an empty key or an
	// undeclared kind.
	ErrInvalidNode = errors.New("invalid node")

	// ErrInvalidEdge is returned for an edge with an empty endpoint, an
	// undeclared kind or a confidence outside [0, 1].
	ErrInvalidEdge = errors.New("invalid edge")
)

// UpsertConflictError reports an upsert whose kind differs from the kind
// already stored under the same key. It signals an identity defect upstream
// (two parsers disagreeing about what a key denotes), so the upsert is
// aborted and the stored node is left as it was.
type UpsertConflictError struct {
	// Key is the contested node key.
	Key string

	// Existing is the kind already stored.
	Existing types.NodeKind

	// Incoming is the kind of the rejected upsert.
	Incoming types.NodeKind
}

// Error implements the error interface.
func (e *UpsertConflictError) Error() string {
	return fmt.Sprintf("upsert conflict on %q: stored as %s, got %s", e.Key, e.Existing, e.Incoming)
}

// Unwrap lets errors.Is match ErrUpsertConflict.
func (e *UpsertConflictError) Unwrap() error { return ErrUpsertConflict }

// IsUpsertConflict reports whether err is or wraps an UpsertConflictError.
func IsUpsertConflict(err error) bool {
	var ue *UpsertConflictError
	return errors.As(err, &ue)
}
