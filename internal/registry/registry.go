// Package registry answers node liveness and identity queries for one
// coordinator run. It is a read-only view: every query takes a fresh
// snapshot from the platform, nothing here mutates cluster state.
package registry

import (
	"fmt"

	"migctl/internal/model"
	"migctl/internal/platform"
)

// Registry is the authoritative node view for a run. Exactly one instance
// backs each coordinator.
type Registry struct {
	p platform.Platform
}

func New(p platform.Platform) *Registry {
	return &Registry{p: p}
}

// Snapshot returns the current node table.
func (r *Registry) Snapshot() ([]model.Node, error) {
	nodes, err := r.p.Nodes()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", platform.ErrUnreachable, err)
	}
	return nodes, nil
}

// Status looks up one node in a fresh snapshot. Nodes absent from the table
// are reported as offline with an unknown architecture, matching how the
// platform treats absent slots.
func (r *Registry) Status(id model.NodeID) (model.Node, error) {
	if !id.Valid() {
		return model.Node{}, fmt.Errorf("node id %d out of range [0,%d)", id, model.MaxNodes)
	}
	nodes, err := r.Snapshot()
	if err != nil {
		return model.Node{}, err
	}
	for _, n := range nodes {
		if n.ID == id {
			return n, nil
		}
	}
	return model.Node{ID: id, Arch: model.ArchUnknown, Liveness: model.Offline}, nil
}

// Current reports the node the given thread executes on, per the platform's
// thread-status view.
func (r *Registry) Current(t platform.Thread) (model.NodeID, error) {
	id, err := t.Node()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", platform.ErrUnreachable, err)
	}
	return id, nil
}
