// Package platform is the boundary to the migration-capable runtime.
//
// The real mechanism that moves an execution context between nodes is owned
// by the kernel/runtime underneath; this package only declares the contract
// the coordinator depends on, plus an in-memory simulation of it.
package platform

import (
	"errors"

	"migctl/internal/model"
)

// Raw status codes returned by Migrate. Zero is success; the negative values
// mirror the errno convention of the underlying primitive.
const (
	StatusOK = 0

	CodeInvalidDestination   = -22 // EINVAL
	CodeDestinationOffline   = -11 // EAGAIN
	CodeAlreadyAtDestination = -16 // EBUSY
)

// ProposedDestination asks the platform to pick the migration target itself.
const ProposedDestination model.NodeID = -1

// ErrUnreachable is returned when the node or thread status table cannot be
// retrieved at all.
var ErrUnreachable = errors.New("platform introspection unreachable")

// Platform provides cluster introspection and thread attachment.
type Platform interface {
	// Nodes returns the per-node status/architecture table. A fresh snapshot
	// is taken on every call.
	Nodes() ([]model.Node, error)

	// Attach binds the calling execution context to the platform and returns
	// its thread handle, placed at the platform's boot node.
	Attach() (Thread, error)
}

// Thread is one attached execution context. All methods are only meaningful
// when called from the goroutine that owns the handle.
type Thread interface {
	// ID returns the context identifier. It must stay stable across a
	// migration round-trip.
	ID() model.ThreadID

	// Node reports which node the context is currently executing on.
	Node() (model.NodeID, error)

	// Migrate relocates the context to dest and returns the raw status code.
	// ProposedDestination accepts the platform's own proposal.
	Migrate(dest model.NodeID) int
}
