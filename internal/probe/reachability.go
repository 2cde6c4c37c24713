package probe

import (
	"context"
	"time"

	"github.com/sliceops/fleetd/internal/concurrency"
	"github.com/sliceops/fleetd/internal/log"
	"github.com/sliceops/fleetd/internal/pool"
	"github.com/sliceops/fleetd/internal/types"
)

// reachabilityCommand mirrors ios.py's trivial reachability check: create
// the slice login's home directory if it isn't already there.
const reachabilityCommand = "mkdir -p ~"

// Reachability is the second probe stage: for every node at least
// reachable, open an SSH session under the configured slice login and run
// a trivial command. Exit status 0 promotes the node to accessible; any
// auth, connection, or timeout error leaves it unchanged so the next
// cycle retries.
type Reachability struct {
	Concurrency int
	User        string
	Timeout     time.Duration
	NumRetries  int
	Run         SSHRunner
}

// Stage runs the reachability probe over every node at least reachable.
func (r *Reachability) Stage(ctx context.Context, p *pool.Pool) {
	positions := p.Select(types.StateReachable)
	nodes := p.Nodes(positions)
	states := make([]types.NodeState, len(nodes))

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	retries := r.NumRetries
	if retries <= 0 {
		retries = 1
	}

	concurrency.Run(ctx, len(nodes), r.Concurrency, func(ctx context.Context, i int) {
		n := nodes[i]
		states[i] = n.State // unchanged unless promoted below
		logger := log.WithHost(n.Name)

		var ok bool
		var lastErr error
		for attempt := 0; attempt < retries; attempt++ {
			_, exitOK, err := r.Run.Run(ctx, n.Addr, r.User, reachabilityCommand, timeout)
			if err == nil && exitOK {
				ok = true
				break
			}
			lastErr = err
		}

		if ok {
			states[i] = types.StateAccessible
			logger.Debug().Msg("ssh reachability succeeded")
			return
		}
		logger.Debug().Err(lastErr).Msg("ssh reachability failed, staying reachable")
	})

	p.SetStates(positions, states, time.Now())
}
