// Package pool implements the Node Pool: the in-memory authoritative view
// of the fleet for the running daemon. It merges the Node Store and the
// seed file, holds each node's current classification and profile
// attributes, and offers selectors and positional setters the probe
// stages use to read a filtered view and write results back.
package pool

import (
	"context"
	"fmt"
	"time"

	"github.com/sliceops/fleetd/internal/store"
	"github.com/sliceops/fleetd/internal/types"
)

// Resolve is the function signature the Pool uses to validate new
// candidates' hostnames during Merge. internal/resolver.Resolver.ResolveAll
// satisfies it.
type Resolve func(ctx context.Context, names []string) map[string]string

// Pool owns the in-memory vector of Nodes in insertion order. It is owned
// exclusively by the Poller once the daemon is running; probe stages hold
// only transient borrowed views via Select.
type Pool struct {
	nodes []types.Node
	index map[uint64]int // id -> position in nodes, kept in sync by every mutator
}

// New returns an empty Pool.
func New() *Pool {
	return &Pool{index: make(map[uint64]int)}
}

// NewFromNodes builds a Pool directly from an already-known node set,
// bypassing Merge. Used by the probe stages' and poller's tests to seed a
// pool without a backing store.
func NewFromNodes(nodes []types.Node) *Pool {
	p := &Pool{nodes: nodes, index: make(map[uint64]int, len(nodes))}
	for i, n := range nodes {
		p.index[n.ID] = i
	}
	return p
}

// Merge reads every row from the store, reads candidates from the seed,
// and resolves the hostnames of candidates not already present in the
// store (by id). Only candidates that receive a valid IPv4 from resolve
// are kept, inserted into the store, and appended to the pool. Store-
// origin nodes are admitted unconditionally, with whatever addr the store
// last recorded. If the combined result is empty, Merge returns
// ErrEmptyPool and leaves the Pool unpopulated.
func (p *Pool) Merge(ctx context.Context, seedCandidates []types.Node, sess *store.Session, resolve Resolve) error {
	stored, err := sess.LoadAll()
	if err != nil {
		return fmt.Errorf("pool: merge: load store: %w", err)
	}

	storedIDs := make(map[uint64]bool, len(stored))
	for _, n := range stored {
		storedIDs[n.ID] = true
	}

	var fresh []types.Node
	var freshNames []string
	for _, c := range seedCandidates {
		if storedIDs[c.ID] {
			continue
		}
		fresh = append(fresh, c)
		freshNames = append(freshNames, c.Name)
	}

	var admitted []types.Node
	if len(fresh) > 0 {
		resolved := resolve(ctx, freshNames)
		for _, c := range fresh {
			addr, ok := resolved[c.Name]
			if !ok {
				continue
			}
			c.Addr = addr
			admitted = append(admitted, c)
		}
		if len(admitted) > 0 {
			if err := sess.InsertAll(admitted); err != nil {
				return fmt.Errorf("pool: merge: insert new nodes: %w", err)
			}
		}
	}

	combined := append(stored, admitted...)
	if len(combined) == 0 {
		return ErrEmptyPool
	}

	p.nodes = combined
	p.index = make(map[uint64]int, len(combined))
	for i, n := range combined {
		p.index[n.ID] = i
	}
	return nil
}

// Len returns the number of nodes currently in the pool.
func (p *Pool) Len() int {
	return len(p.nodes)
}

// Select returns the positions, in pool order, of every node whose state
// rank is at least min. Probe stages pair the returned positions with
// Nodes and a later SetStates/UpdateMany call — the same Select result
// must be reused for both halves of a stage so the correspondence holds.
func (p *Pool) Select(min types.NodeState) []int {
	var idx []int
	for i, n := range p.nodes {
		if n.State.AtLeast(min) {
			idx = append(idx, i)
		}
	}
	return idx
}

// Nodes returns copies of the pool's nodes at the given positions, in the
// same order as positions.
func (p *Pool) Nodes(positions []int) []types.Node {
	out := make([]types.Node, len(positions))
	for i, pos := range positions {
		out[i] = p.nodes[pos]
	}
	return out
}

// SetStates assigns states[i] to the node at positions[i], refreshing
// last_seen for every node whose new state is above unreachable. len
// (positions) must equal len(states); a mismatch is a programming error.
func (p *Pool) SetStates(positions []int, states []types.NodeState, now time.Time) {
	if len(positions) != len(states) {
		panic(fmt.Sprintf("pool: SetStates length mismatch: %d positions, %d states", len(positions), len(states)))
	}
	for i, pos := range positions {
		p.nodes[pos].SetState(states[i], now)
	}
}

// SetByAddr applies fn to the first node in the pool whose addr matches
// addr, reporting whether a match was found. fn must not change the
// node's ID.
func (p *Pool) SetByAddr(addr string, fn func(*types.Node)) bool {
	for i := range p.nodes {
		if p.nodes[i].Addr == addr {
			fn(&p.nodes[i])
			return true
		}
	}
	return false
}

// UpdateMany applies fn(i, node) to each node at positions[i], in order.
// Used by stages that write more than one attribute at once (the SSH
// profiler writes Kernel, OS, and VSYS together).
func (p *Pool) UpdateMany(positions []int, fn func(i int, n *types.Node)) {
	for i, pos := range positions {
		fn(i, &p.nodes[pos])
	}
}

// Commit writes every node in the pool back to the store by id.
func (p *Pool) Commit(sess *store.Session) error {
	for _, n := range p.nodes {
		if err := sess.Update(n); err != nil {
			return fmt.Errorf("pool: commit: update node %d: %w", n.ID, err)
		}
	}
	return nil
}
