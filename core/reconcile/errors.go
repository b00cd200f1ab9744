package reconcile

import (
	"errors"
	"fmt"
)

var (
	// ErrIntegrity signals that the cache and the computed edge sets have
	// diverged. The run must abort.
	ErrIntegrity = errors.New("reconcile: integrity violation")

	// ErrUnknownType is returned at startup when a configured type name
	// cannot be resolved.
	ErrUnknownType = errors.New("reconcile: unknown type")
)

// IntegrityError describes a removed edge that has no cached counterpart.
type IntegrityError struct {
	PackageID        string
	DependencyID     string
	DependencyTypeID string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("removed edge (%s -> %s, type %s) not found in cache",
		e.PackageID, e.DependencyID, e.DependencyTypeID)
}

func (e *IntegrityError) Unwrap() error {
	return ErrIntegrity
}
