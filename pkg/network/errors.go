package network

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrUnknownStop    = errors.New("edge references unknown stop")
	ErrDuplicateStop  = errors.New("duplicate stop with conflicting attributes")
	ErrSelfLoop       = errors.New("self-loop edge")
	ErrInvalidWeight  = errors.New("edge weight is negative or not finite")
	ErrGraphSealed    = errors.New("graph already built")
	ErrInvalidMode    = errors.New("invalid mode")
)

// MalformedTopologyError reports inconsistent builder input: an edge
// referencing a stop that was never added, a non-finite or negative weight, or
// conflicting duplicate stops. It is fatal for the mode being built.
type MalformedTopologyError struct {
	Op      string // operation that failed, e.g. "AddEdge", "Build"
	Mode    Mode   // mode of the graph under construction
	StopID  string // offending stop, if applicable
	FromID  string // offending edge endpoints, if applicable
	ToID    string
	Cause   error
	Context string
}

// Error implements the error interface.
func (e *MalformedTopologyError) Error() string {
	if e.FromID != "" || e.ToID != "" {
		return fmt.Sprintf("%s [%s] edge %q -> %q: %v", e.Op, e.Mode, e.FromID, e.ToID, e.Cause)
	}
	if e.StopID != "" {
		return fmt.Sprintf("%s [%s] stop %q: %v", e.Op, e.Mode, e.StopID, e.Cause)
	}
	if e.Context != "" {
		return fmt.Sprintf("%s [%s] (%s): %v", e.Op, e.Mode, e.Context, e.Cause)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Mode, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *MalformedTopologyError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches this error or its cause.
func (e *MalformedTopologyError) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}

// TopologyErrorBuilder provides a fluent interface for building
// MalformedTopologyErrors.
type TopologyErrorBuilder struct {
	err MalformedTopologyError
}

// NewTopologyError creates a new error builder for the given operation and mode.
func NewTopologyError(op string, mode Mode) *TopologyErrorBuilder {
	return &TopologyErrorBuilder{err: MalformedTopologyError{Op: op, Mode: mode}}
}

// Stop records the offending stop ID.
func (b *TopologyErrorBuilder) Stop(id string) *TopologyErrorBuilder {
	b.err.StopID = id
	return b
}

// Edge records the offending edge endpoints.
func (b *TopologyErrorBuilder) Edge(from, to string) *TopologyErrorBuilder {
	b.err.FromID = from
	b.err.ToID = to
	return b
}

// Context sets additional context information.
func (b *TopologyErrorBuilder) Context(ctx string) *TopologyErrorBuilder {
	b.err.Context = ctx
	return b
}

// Cause sets the underlying error cause.
func (b *TopologyErrorBuilder) Cause(err error) *TopologyErrorBuilder {
	b.err.Cause = err
	return b
}

// Err returns the error as an error interface.
func (b *TopologyErrorBuilder) Err() error {
	return &b.err
}

// IsMalformedTopology reports whether the error chain contains a
// MalformedTopologyError.
func IsMalformedTopology(err error) bool {
	var mt *MalformedTopologyError
	return errors.As(err, &mt)
}
