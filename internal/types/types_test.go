package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNodeIDStable(t *testing.T) {
	a := NodeID("node1.example.edu")
	b := NodeID("node1.example.edu")
	c := NodeID("node2.example.edu")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestStateRankOrder(t *testing.T) {
	assert.True(t, StateReachable.Rank() > StateUnreachable.Rank())
	assert.True(t, StateAccessible.Rank() > StateReachable.Rank())
	assert.True(t, StateUsable.Rank() > StateAccessible.Rank())
}

func TestStateAtLeast(t *testing.T) {
	assert.True(t, StateUsable.AtLeast(StateAccessible))
	assert.False(t, StateReachable.AtLeast(StateAccessible))
	assert.True(t, StateReachable.AtLeast(StateReachable))
}

func TestStateValid(t *testing.T) {
	assert.True(t, StateUsable.Valid())
	assert.False(t, NodeState("bogus").Valid())
}

func TestNewNodeDefaults(t *testing.T) {
	n := NewNode("node1.example.edu", "auth1")

	assert.Equal(t, StateUnreachable, n.State)
	assert.Equal(t, KernelUnknown, n.Kernel)
	assert.Equal(t, OSUnknown, n.OS)
	assert.False(t, n.VSYS)
	assert.False(t, n.Resolved())
	assert.Equal(t, NodeID("node1.example.edu"), n.ID)
}

func TestSetStateTouchesLastSeenOnlyAboveUnreachable(t *testing.T) {
	n := NewNode("node1.example.edu", "auth1")
	zero := n.LastSeen

	now := time.Now().UTC()
	n.SetState(StateUnreachable, now)
	assert.Equal(t, zero, n.LastSeen, "unreachable must not touch last_seen")

	n.SetState(StateReachable, now)
	assert.Equal(t, now, n.LastSeen)
}
