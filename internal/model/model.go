package model

import "fmt"

// MaxNodes is the highest node count a cluster table can report.
// Node ids are always in [0, MaxNodes).
const MaxNodes = 32

// NodeID identifies an execution host in the cluster.
type NodeID int

// Valid reports whether the id is inside the addressable range.
func (id NodeID) Valid() bool {
	return id >= 0 && id < MaxNodes
}

func (id NodeID) String() string {
	return fmt.Sprintf("node-%d", int(id))
}

// ThreadID is the execution-context identifier expected to stay stable
// across a migration round-trip.
type ThreadID int64

// Valid reports whether the identifier is a usable positive value.
func (t ThreadID) Valid() bool {
	return t > 0
}

// Architecture is the instruction-set architecture of a node.
type Architecture int

const (
	ArchUnknown Architecture = iota
	ArchAArch64
	ArchX86_64
	ArchPPC64
)

var archNames = map[Architecture]string{
	ArchAArch64: "arm64",
	ArchX86_64:  "x86-64",
	ArchPPC64:   "ppc64le",
}

// String returns the display name. Every value, including ones outside the
// defined constants, maps to a name; unmapped values are "unknown".
func (a Architecture) String() string {
	if name, ok := archNames[a]; ok {
		return name
	}
	return "unknown"
}

// ParseArchitecture maps a display name back to its Architecture.
func ParseArchitecture(name string) (Architecture, error) {
	switch name {
	case "arm64", "aarch64":
		return ArchAArch64, nil
	case "x86-64", "x86_64", "amd64":
		return ArchX86_64, nil
	case "ppc64le", "ppc64":
		return ArchPPC64, nil
	case "unknown", "":
		return ArchUnknown, nil
	}
	return ArchUnknown, fmt.Errorf("unknown architecture %q", name)
}

// Liveness is the reported availability of a node.
type Liveness int

const (
	Offline Liveness = iota
	Online
)

func (l Liveness) String() string {
	if l == Online {
		return "online"
	}
	return "offline"
}

// Node is an immutable point-in-time snapshot of one cluster node.
type Node struct {
	ID       NodeID
	Arch     Architecture
	Liveness Liveness
}

// Online reports whether the snapshot shows the node as reachable.
func (n Node) Online() bool {
	return n.Liveness == Online
}
