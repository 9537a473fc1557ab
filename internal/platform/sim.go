package platform

import (
	"sync"

	"migctl/internal/model"
)

// FaultFunc lets a test or operator scenario override the outcome of one
// migration attempt. hop counts the attempts made by that thread so far,
// starting at 1 for the first call. Returning ok=false leaves the attempt to
// the simulator's normal rules.
type FaultFunc func(id model.ThreadID, hop int, dest model.NodeID) (code int, ok bool)

// Sim is an in-memory Platform. It keeps a per-thread location table and
// applies the same status-code rules as the kernel primitive: EINVAL for an
// unaddressable destination, EAGAIN for an offline one, EBUSY when the thread
// already runs there.
type Sim struct {
	mu       sync.Mutex
	nodes    []model.Node
	boot     model.NodeID
	fault    FaultFunc
	nodesErr error
	threadID func(n int) model.ThreadID

	attached int
	location map[model.ThreadID]model.NodeID
	hops     map[model.ThreadID]int
}

// SimOption configures a Sim.
type SimOption func(*Sim)

// WithBootNode places newly attached threads at id instead of node 0.
func WithBootNode(id model.NodeID) SimOption {
	return func(s *Sim) { s.boot = id }
}

// WithFault installs a migration fault hook.
func WithFault(f FaultFunc) SimOption {
	return func(s *Sim) { s.fault = f }
}

// WithThreadIDs overrides identity assignment; n is the attach ordinal
// starting at 0. Used to simulate identity corruption.
func WithThreadIDs(f func(n int) model.ThreadID) SimOption {
	return func(s *Sim) { s.threadID = f }
}

// NewSim builds a simulator over the given node table.
func NewSim(nodes []model.Node, opts ...SimOption) *Sim {
	s := &Sim{
		nodes:    append([]model.Node(nil), nodes...),
		location: make(map[model.ThreadID]model.NodeID),
		hops:     make(map[model.ThreadID]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TwoNodes is the canonical heterogeneous pair used by the functional tests:
// an x86-64 node 0 and an arm64 node 1, both online.
func TwoNodes() []model.Node {
	return []model.Node{
		{ID: 0, Arch: model.ArchX86_64, Liveness: model.Online},
		{ID: 1, Arch: model.ArchAArch64, Liveness: model.Online},
	}
}

// SetLiveness flips the reported liveness of one node.
func (s *Sim) SetLiveness(id model.NodeID, l model.Liveness) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.nodes {
		if s.nodes[i].ID == id {
			s.nodes[i].Liveness = l
		}
	}
}

// SetNodesError makes every subsequent introspection query fail with err.
func (s *Sim) SetNodesError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodesErr = err
}

// Nodes returns a copy of the current node table.
func (s *Sim) Nodes() ([]model.Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nodesErr != nil {
		return nil, s.nodesErr
	}
	return append([]model.Node(nil), s.nodes...), nil
}

// Attach registers a new thread at the boot node.
func (s *Sim) Attach() (Thread, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.attached
	s.attached++

	id := model.ThreadID(4000 + n)
	if s.threadID != nil {
		id = s.threadID(n)
	}
	s.location[id] = s.boot
	return &simThread{sim: s, id: id}, nil
}

type simThread struct {
	sim *Sim
	id  model.ThreadID
}

func (t *simThread) ID() model.ThreadID { return t.id }

func (t *simThread) Node() (model.NodeID, error) {
	s := t.sim
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nodesErr != nil {
		return 0, s.nodesErr
	}
	return s.location[t.id], nil
}

func (t *simThread) Migrate(dest model.NodeID) int {
	s := t.sim
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hops[t.id]++
	if s.fault != nil {
		if code, ok := s.fault(t.id, s.hops[t.id], dest); ok {
			return code
		}
	}

	if dest == ProposedDestination {
		dest = s.propose(s.location[t.id])
	}
	if !dest.Valid() {
		return CodeInvalidDestination
	}
	node, present := s.node(dest)
	if !present || !node.Online() {
		// Absent slots in the node table behave like offline nodes.
		return CodeDestinationOffline
	}
	if s.location[t.id] == dest {
		return CodeAlreadyAtDestination
	}
	s.location[t.id] = dest
	return StatusOK
}

// propose picks the first online node other than current, falling back to an
// invalid id when the cluster has no other live node.
func (s *Sim) propose(current model.NodeID) model.NodeID {
	for _, n := range s.nodes {
		if n.ID != current && n.Online() {
			return n.ID
		}
	}
	return model.NodeID(model.MaxNodes)
}

func (s *Sim) node(id model.NodeID) (model.Node, bool) {
	for _, n := range s.nodes {
		if n.ID == id {
			return n, true
		}
	}
	return model.Node{}, false
}
