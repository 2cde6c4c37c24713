package metrics

import "github.com/sliceops/fleetd/internal/types"

// PoolSizer is the subset of *pool.Pool the collector needs. Declared
// here so that metrics does not import internal/pool; *pool.Pool
// satisfies it.
type PoolSizer interface {
	CountByState() map[types.NodeState]int
}

// CollectPoolSize publishes PoolSize gauges from the current pool
// contents. Called by the Poller once per cycle, after the final commit.
func CollectPoolSize(p PoolSizer) {
	counts := p.CountByState()
	for _, s := range []types.NodeState{
		types.StateUnreachable,
		types.StateReachable,
		types.StateAccessible,
		types.StateUsable,
	} {
		PoolSize.WithLabelValues(string(s)).Set(float64(counts[s]))
	}
}
