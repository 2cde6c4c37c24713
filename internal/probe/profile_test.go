package probe

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sliceops/fleetd/internal/pool"
	"github.com/sliceops/fleetd/internal/types"
)

func accessibleNode(addr string) *pool.Pool {
	n := types.NewNode("node1", "auth1")
	n.Addr = addr
	n.SetState(types.StateAccessible, time.Now())
	return pool.NewFromNodes([]types.Node{n})
}

func TestProfileParsesAndElevatesToUsable(t *testing.T) {
	p := accessibleNode("192.0.2.1")
	out := magicSentinel + "\nLinux 4.9.0\nFedora 20\nfd_tuntap.control\n"

	pr := &Profile{
		Concurrency: 1,
		User:        "slice",
		Run: &fakeSSHRunner{responses: map[string]fakeResponse{
			"192.0.2.1|" + profileCommand:    {output: out, exitOK: true},
			"192.0.2.1|" + repairCommand(""): {exitOK: true},
		}},
	}
	pr.Stage(context.Background(), p)

	n := p.Nodes(p.Select(types.StateUnreachable))[0]
	assert.Equal(t, types.StateUsable, n.State)
	assert.Equal(t, "Linux 4.9.0", n.Kernel)
	assert.Equal(t, "Fedora 20", n.OS)
	assert.True(t, n.VSYS)
}

func TestProfileParseFailureStaysAccessible(t *testing.T) {
	p := accessibleNode("192.0.2.1")

	pr := &Profile{
		Concurrency: 1,
		User:        "slice",
		Run: &fakeSSHRunner{responses: map[string]fakeResponse{
			"192.0.2.1|" + profileCommand: {output: "garbage\n", exitOK: true},
		}},
	}
	pr.Stage(context.Background(), p)

	n := p.Nodes(p.Select(types.StateUnreachable))[0]
	assert.Equal(t, types.StateAccessible, n.State)
	assert.Equal(t, types.KernelUnknown, n.Kernel)
	assert.Equal(t, types.OSUnknown, n.OS)
}

func TestProfileRepairFailureDemotesToAccessible(t *testing.T) {
	p := accessibleNode("192.0.2.1")
	out := magicSentinel + "\nLinux 4.9.0\nFedora 20\n\n"

	pr := &Profile{
		Concurrency: 1,
		User:        "slice",
		Run: &fakeSSHRunner{responses: map[string]fakeResponse{
			"192.0.2.1|" + profileCommand:    {output: out, exitOK: true},
			"192.0.2.1|" + repairCommand(""): {exitOK: false},
		}},
	}
	pr.Stage(context.Background(), p)

	n := p.Nodes(p.Select(types.StateUnreachable))[0]
	assert.Equal(t, types.StateAccessible, n.State)
	assert.Equal(t, "Linux 4.9.0", n.Kernel)
}

func TestProfileUsesConfiguredRepairPackage(t *testing.T) {
	p := accessibleNode("192.0.2.1")
	out := magicSentinel + "\nLinux 4.9.0\nFedora 20\n\n"

	pr := &Profile{
		Concurrency: 1,
		User:        "slice",
		Package:     "openssh-clients",
		Run: &fakeSSHRunner{responses: map[string]fakeResponse{
			"192.0.2.1|" + profileCommand:                   {output: out, exitOK: true},
			"192.0.2.1|" + repairCommand("openssh-clients"): {exitOK: true},
		}},
	}
	pr.Stage(context.Background(), p)

	n := p.Nodes(p.Select(types.StateUnreachable))[0]
	assert.Equal(t, types.StateUsable, n.State)
}

func TestParseProfileMissingSentinelRejected(t *testing.T) {
	_, _, _, ok := parseProfile("not the sentinel\nLinux\n")
	assert.False(t, ok)
}
