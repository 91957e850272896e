package efficiency

import (
	"errors"
	"fmt"

	"github.com/urbanmesh/linescout/pkg/network"
)

// Common sentinel errors
var (
	ErrTooFewStops   = errors.New("graph has fewer than two stops")
	ErrNoOrigins     = errors.New("representative origin set is empty")
	ErrNoPairs       = errors.New("no reachable origin-destination pairs")
	ErrNegativeGain  = errors.New("candidate increased mean travel time")
	ErrWrongMode     = errors.New("candidate mode does not match graph mode")
)

// InsufficientTopologyError reports a graph too small or an origin set too
// empty to score. It is fatal for the mode being evaluated; other modes
// proceed independently.
type InsufficientTopologyError struct {
	Op    string
	Mode  network.Mode
	Cause error
}

// Error implements the error interface.
func (e *InsufficientTopologyError) Error() string {
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Mode, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *InsufficientTopologyError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches this error or its cause.
func (e *InsufficientTopologyError) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}

func insufficientTopology(op string, mode network.Mode, cause error) error {
	return &InsufficientTopologyError{Op: op, Mode: mode, Cause: cause}
}

// IsInsufficientTopology reports whether the error chain contains an
// InsufficientTopologyError.
func IsInsufficientTopology(err error) bool {
	var it *InsufficientTopologyError
	return errors.As(err, &it)
}
