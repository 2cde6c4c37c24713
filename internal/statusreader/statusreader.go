// Package statusreader implements the read-only path used by the
// separately invoked status subcommand: it opens the Node Store without
// mutating it, builds a Pool by merging an empty seed with the current
// store contents, and renders aggregates without ever engaging the
// Poller.
package statusreader

import (
	"context"
	"fmt"
	"io"

	"github.com/sliceops/fleetd/internal/pool"
	"github.com/sliceops/fleetd/internal/store"
	"github.com/sliceops/fleetd/internal/types"
)

// Verbosity selects how much of the pool status renders.
type Verbosity int

const (
	// Default lists usable node addresses (or names, with Names).
	Default Verbosity = iota
	// Verbose prints a histogram over usable nodes.
	Verbose
	// VeryVerbose prints a histogram over all nodes.
	VeryVerbose
)

// Options configures a single status read.
type Options struct {
	Verbosity   Verbosity
	Names       bool // print names instead of addresses at Default verbosity
	ByAuthority bool // render only the authority histogram, at any verbosity
}

// Read opens the store read-only (via an ordinary store session — the
// Node Store itself has no separate read-only mode, but statusreader
// never calls Commit or any mutating Pool operation), merges an empty
// seed against it, and writes the requested rendering to w.
func Read(st *store.Store, opts Options, w io.Writer) error {
	p := pool.New()
	err := st.WithSession(func(sess *store.Session) error {
		return p.Merge(context.Background(), nil, sess, noopResolve)
	})
	if err == pool.ErrEmptyPool {
		fmt.Fprintln(w, "No usable node found.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("statusreader: %w", err)
	}

	render(p, opts, w)
	return nil
}

func noopResolve(_ context.Context, _ []string) map[string]string {
	return nil
}

// renderByAuthority prints only the authority histogram, over the same
// min-state filter the requested verbosity would otherwise apply.
func renderByAuthority(p *pool.Pool, v Verbosity, w io.Writer) {
	min := types.StateUsable
	if v == VeryVerbose {
		min = types.StateUnreachable
	}
	h := p.Status(min)
	fmt.Fprint(w, pool.Histogram{"authority": h["authority"]}.String())
}

func render(p *pool.Pool, opts Options, w io.Writer) {
	if opts.ByAuthority {
		renderByAuthority(p, opts.Verbosity, w)
		return
	}
	switch opts.Verbosity {
	case VeryVerbose:
		fmt.Fprint(w, p.Status(types.StateUnreachable).String())
	case Verbose:
		fmt.Fprint(w, p.Status(types.StateUsable).String())
	default:
		var rows []string
		if opts.Names {
			rows = p.UsableNames()
		} else {
			rows = p.UsableAddrs()
		}
		if len(rows) == 0 {
			fmt.Fprintln(w, "No usable node found.")
			return
		}
		for _, r := range rows {
			fmt.Fprintln(w, r)
		}
	}
}
