package pool

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sliceops/fleetd/internal/types"
)

// Histogram maps an attribute name to a count of distinct values observed
// for that attribute across the filtered subset.
type Histogram map[string]map[string]int

// Status returns per-attribute value-count histograms over nodes whose
// state rank is at least min. Every histogram's counts sum to the number
// of nodes in the filtered subset (TestableProperty: status histograms
// sum to the filtered pool size).
func (p *Pool) Status(min types.NodeState) Histogram {
	h := Histogram{
		"state":     {},
		"kernel":    {},
		"os":        {},
		"vsys":      {},
		"authority": {},
	}
	for _, n := range p.nodes {
		if !n.State.AtLeast(min) {
			continue
		}
		h["state"][string(n.State)]++
		h["kernel"][n.Kernel]++
		h["os"][n.OS]++
		h["vsys"][fmt.Sprintf("%v", n.VSYS)]++
		h["authority"][n.Authority]++
	}
	return h
}

// CountByState returns the number of nodes currently at each state,
// consumed by internal/metrics to publish the pool-size gauge.
func (p *Pool) CountByState() map[types.NodeState]int {
	counts := make(map[types.NodeState]int, 4)
	for _, n := range p.nodes {
		counts[n.State]++
	}
	return counts
}

// UsableAddrs returns the addr of every node currently usable, in pool
// order. Used by the default (no -v) status rendering.
func (p *Pool) UsableAddrs() []string {
	return p.attrAtLeast(types.StateUsable, func(n types.Node) string { return n.Addr })
}

// UsableNames returns the name of every node currently usable, in pool
// order. Used by status -n.
func (p *Pool) UsableNames() []string {
	return p.attrAtLeast(types.StateUsable, func(n types.Node) string { return n.Name })
}

func (p *Pool) attrAtLeast(min types.NodeState, attr func(types.Node) string) []string {
	var out []string
	for _, n := range p.nodes {
		if n.State.AtLeast(min) {
			out = append(out, attr(n))
		}
	}
	return out
}

// String renders h grouped by attribute with per-value counts, sorted for
// stable output.
func (h Histogram) String() string {
	var attrs []string
	for a := range h {
		attrs = append(attrs, a)
	}
	sort.Strings(attrs)

	var b strings.Builder
	for _, a := range attrs {
		fmt.Fprintf(&b, "%s:\n", a)
		values := h[a]
		var keys []string
		for v := range values {
			keys = append(keys, v)
		}
		sort.Strings(keys)
		for _, v := range keys {
			fmt.Fprintf(&b, "  %s: %d\n", v, values[v])
		}
	}
	return b.String()
}
