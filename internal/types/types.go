// Package types defines the node and state value types shared across fleetd.
package types

import (
	"hash/fnv"
	"time"
)

// NodeState is the ordered classification a node moves through as the
// poller's probe stages observe it. Rank is compared, never the string.
type NodeState string

const (
	StateUnreachable NodeState = "unreachable"
	StateReachable   NodeState = "reachable"
	StateAccessible  NodeState = "accessible"
	StateUsable      NodeState = "usable"
)

var stateRank = map[NodeState]int{
	StateUnreachable: 1,
	StateReachable:   2,
	StateAccessible:  3,
	StateUsable:      4,
}

// Rank returns the total order position of the state. Unknown strings rank
// below StateUnreachable so they never compare >= a real state.
func (s NodeState) Rank() int {
	if r, ok := stateRank[s]; ok {
		return r
	}
	return 0
}

// AtLeast reports whether s is ordered at or above min.
func (s NodeState) AtLeast(min NodeState) bool {
	return s.Rank() >= min.Rank()
}

// Valid reports whether s is one of the four known states.
func (s NodeState) Valid() bool {
	_, ok := stateRank[s]
	return ok
}

const (
	// KernelUnknown and OSUnknown are the profile defaults for a node that
	// has never been successfully fingerprinted.
	KernelUnknown = "UNKNOWN"
	OSUnknown     = "UNKNOWN"
)

// Node is a single fleet member, keyed by a stable hash of its name.
type Node struct {
	ID        uint64
	Name      string
	Addr      string // IPv4 dotted-quad, "" if unresolved
	Authority string
	State     NodeState
	Kernel    string
	OS        string
	VSYS      bool
	LastSeen  time.Time
}

// NewNode constructs a fresh candidate node in the unreachable state with
// default profile attributes.
func NewNode(name, authority string) Node {
	return Node{
		ID:        NodeID(name),
		Name:      name,
		Authority: authority,
		State:     StateUnreachable,
		Kernel:    KernelUnknown,
		OS:        OSUnknown,
	}
}

// NodeID computes the stable 63-bit content hash used as a node's identity.
// Two nodes with equal names hash equal and are the same logical node.
func NodeID(name string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	// Clear the top bit so callers can treat IDs as fitting in int64 storage
	// columns (the embedded store's keys are textual anyway, but several
	// call sites format IDs as decimal and a sign bit would be surprising).
	return h.Sum64() &^ (1 << 63)
}

// Resolved reports whether the node has a usable IPv4 address.
func (n Node) Resolved() bool {
	return n.Addr != ""
}

// touchLastSeen updates LastSeen exactly when a stage raises state above
// unreachable.
func (n *Node) touchLastSeen(now time.Time) {
	if n.State.AtLeast(StateReachable) {
		n.LastSeen = now
	}
}

// SetState assigns a new state and refreshes LastSeen accordingly. It
// never mutates ID, Name, Authority, or Addr.
func (n *Node) SetState(s NodeState, now time.Time) {
	n.State = s
	n.touchLastSeen(now)
}
