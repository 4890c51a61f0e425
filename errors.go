package policyreg

import (
	"errors"
	"fmt"
)

// ErrSelfLink rejects an attempt to link a policy configuration to itself.
var ErrSelfLink = errors.New("policyreg: cannot link a policy configuration to itself")

// ErrLinkTargetNotFound rejects a link whose target identifier has no
// registered link-group.
var ErrLinkTargetNotFound = errors.New("policyreg: link target is not registered")

// LinkError carries the identifiers involved in a failed link operation
// alongside the originating sentinel.
type LinkError struct {
	ID      string
	OtherID string
	Err     error
}

func (e *LinkError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("policyreg: link %q -> %q: %v", e.ID, e.OtherID, e.Err)
}

func (e *LinkError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ContextSourceError reports a failure of the ContextSource collaborator,
// as opposed to the source finding no identifier set.
type ContextSourceError struct {
	Err error
}

func (e *ContextSourceError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("policyreg: context source: %v", e.Err)
}

func (e *ContextSourceError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
