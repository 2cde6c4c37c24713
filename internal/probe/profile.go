package probe

import (
	"context"
	"strings"
	"time"

	"github.com/sliceops/fleetd/internal/concurrency"
	"github.com/sliceops/fleetd/internal/log"
	"github.com/sliceops/fleetd/internal/pool"
	"github.com/sliceops/fleetd/internal/types"
)

// magicSentinel marks the first line of the profiler's composite command
// output so a truncated or garbled response is unambiguous.
const magicSentinel = "__FLEETD_MAGIC__"

// vsysMarker is the string the profiler's /vsys/ listing contains iff the
// node exposes the vsys capability.
const vsysMarker = "fd_tuntap.control"

// profileCommand prints the sentinel, the kernel release, the first line
// of the OS release file, and a best-effort listing of /vsys/.
const profileCommand = "echo " + magicSentinel + "; uname -sr; head -n1 /etc/*-release; ls /vsys/ 2>/dev/null"

// repairPackageDefault is the baseline package the repair step installs
// when Profile.Package is left empty.
const repairPackageDefault = "coreutils"

// repairCommand issues a package-manager install of pkg (or the default
// baseline package, if pkg is empty). This is what actually exercises the
// node's package manager: a successful install proves it is functional, a
// failure demotes the node back to accessible.
func repairCommand(pkg string) string {
	if pkg == "" {
		pkg = repairPackageDefault
	}
	return "yum install -y --nogpgcheck " + pkg
}

type profileResult struct {
	parsed bool
	kernel string
	os     string
	vsys   bool
	usable bool // survived parse + repair
}

// Profile is the third probe stage: run the composite fingerprint
// command, parse kernel/os/vsys from its output, and on success run the
// best-effort repair step. A node is left usable only if both the parse
// and the repair succeeded; any failure along the way leaves or returns
// it to accessible.
type Profile struct {
	Concurrency   int
	User          string
	Package       string
	Timeout       time.Duration
	RepairTimeout time.Duration
	Run           SSHRunner
}

// Stage runs the profiler and repairer over every node at least
// accessible.
func (pr *Profile) Stage(ctx context.Context, p *pool.Pool) {
	positions := p.Select(types.StateAccessible)
	nodes := p.Nodes(positions)
	results := make([]profileResult, len(nodes))

	timeout := pr.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	repairTimeout := pr.RepairTimeout
	if repairTimeout <= 0 {
		repairTimeout = 120 * time.Second
	}

	concurrency.Run(ctx, len(nodes), pr.Concurrency, func(ctx context.Context, i int) {
		n := nodes[i]
		logger := log.WithHost(n.Name)

		out, exitOK, err := pr.Run.Run(ctx, n.Addr, pr.User, profileCommand, timeout)
		if err != nil || !exitOK {
			logger.Debug().Err(err).Msg("profile command failed, staying accessible")
			return
		}

		kernel, os, vsys, ok := parseProfile(out)
		if !ok {
			logger.Debug().Str("output", out).Msg("profile parse failed, staying accessible")
			return
		}

		repairOK := true
		if _, exitOK, err := pr.Run.Run(ctx, n.Addr, pr.User, repairCommand(pr.Package), repairTimeout); err != nil || !exitOK {
			repairOK = false
			logger.Debug().Err(err).
				Str("name", n.Name).Str("addr", n.Addr).
				Msg("repair step failed, demoting to accessible")
		}

		results[i] = profileResult{parsed: true, kernel: kernel, os: os, vsys: vsys, usable: repairOK}
	})

	now := time.Now()
	p.UpdateMany(positions, func(i int, n *types.Node) {
		r := results[i]
		if !r.parsed {
			return
		}
		n.Kernel = r.kernel
		n.OS = r.os
		n.VSYS = r.vsys
		if r.usable {
			n.SetState(types.StateUsable, now)
		} else {
			n.SetState(types.StateAccessible, now)
		}
	})
}

// parseProfile parses the profiler's composite command output.
// Line 0 must contain the magic sentinel or the whole response is
// rejected. Line 1 is the kernel, line 2 the OS release, and lines 3
// onward the /vsys/ listing, one entry per line (vsys is set iff any of
// them contains vsysMarker). Exactly one /etc/*-release file is assumed;
// when several match, head(1) prints a "==> file <==" header on line 2,
// and the OS degrades silently to OSUnknown rather than being merged.
func parseProfile(output string) (kernel, os string, vsys bool, ok bool) {
	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")
	if len(lines) == 0 || !strings.Contains(lines[0], magicSentinel) {
		return "", "", false, false
	}
	if len(lines) > 1 {
		kernel = strings.TrimSpace(lines[1])
	}
	if len(lines) > 2 {
		os = strings.TrimSpace(lines[2])
		if strings.HasPrefix(os, "==> ") {
			os = ""
		}
	}
	if len(lines) > 3 {
		vsys = strings.Contains(strings.Join(lines[3:], "\n"), vsysMarker)
	}
	if kernel == "" {
		kernel = types.KernelUnknown
	}
	if os == "" {
		os = types.OSUnknown
	}
	return kernel, os, vsys, true
}
