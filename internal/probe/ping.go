package probe

import (
	"bytes"
	"context"
	"os/exec"
	"regexp"
	"strconv"
	"time"

	"github.com/sliceops/fleetd/internal/concurrency"
	"github.com/sliceops/fleetd/internal/log"
	"github.com/sliceops/fleetd/internal/pool"
	"github.com/sliceops/fleetd/internal/types"
)

// pingStatsRE matches ping(8)'s summary line across the common Linux and
// BSD/macOS phrasings: "N packets transmitted, M packets received" or
// "N packets transmitted, M received".
var pingStatsRE = regexp.MustCompile(`(\d+) packets transmitted, (\d+)(?: packets)? received`)

// PingRunner executes one ping(8) attempt against addr. The zero value of
// Pinger uses execPing, which spawns the real ping(8) binary; tests inject
// a fake.
type PingRunner func(ctx context.Context, addr string) Result

// Pinger is the first probe stage: for every node in the pool, spawn an
// ICMP echo subprocess with a 5s deadline and a single echo request,
// classifying received > 0 as reachable.
type Pinger struct {
	Concurrency int
	Deadline    time.Duration
	Run         PingRunner
}

// NewPinger returns a Pinger that spawns the real ping(8) binary.
func NewPinger(concurrency int) *Pinger {
	return &Pinger{
		Concurrency: concurrency,
		Deadline:    5 * time.Second,
		Run:         execPing,
	}
}

// Stage pings every node in p (the full pool — nodes without a resolved
// addr were never admitted) and writes the resulting state back
// positionally. A subprocess that fails to spawn or produces unparseable
// output is classified unreachable; there is no retry within a cycle.
func (pg *Pinger) Stage(ctx context.Context, p *pool.Pool) {
	positions := p.Select(types.StateUnreachable)
	nodes := p.Nodes(positions)
	states := make([]types.NodeState, len(nodes))

	run := pg.Run
	if run == nil {
		run = execPing
	}

	concurrency.Run(ctx, len(nodes), pg.Concurrency, func(ctx context.Context, i int) {
		n := nodes[i]
		logger := log.WithHost(n.Name)

		deadline := pg.Deadline
		if deadline <= 0 {
			deadline = 5 * time.Second
		}
		pctx, cancel := context.WithTimeout(ctx, deadline+time.Second)
		defer cancel()

		res := run(pctx, n.Addr)
		if res.Healthy {
			states[i] = types.StateReachable
		} else {
			states[i] = types.StateUnreachable
		}
		logger.Debug().
			Bool("reachable", res.Healthy).
			Str("detail", res.Message).
			Msg("ping stage")
	})

	p.SetStates(positions, states, time.Now())
}

func execPing(ctx context.Context, addr string) Result {
	start := time.Now()
	cmd := exec.CommandContext(ctx, "ping", "-c", "1", "-W", "5", addr)

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		return Result{
			Healthy:   false,
			Message:   "spawn or run failed: " + err.Error(),
			CheckedAt: start,
			Duration:  time.Since(start),
		}
	}

	transmitted, received, ok := parsePingStats(out.String())
	if !ok {
		return Result{
			Healthy:   false,
			Message:   "could not parse ping output",
			Output:    out.String(),
			CheckedAt: start,
			Duration:  time.Since(start),
		}
	}

	loss := 1.0
	if transmitted > 0 {
		loss = 1.0 - float64(received)/float64(transmitted)
	}

	return Result{
		Healthy:   received > 0,
		Message:   "received=" + strconv.Itoa(received) + " loss=" + strconv.FormatFloat(loss, 'f', 2, 64),
		Output:    out.String(),
		CheckedAt: start,
		Duration:  time.Since(start),
	}
}

// parsePingStats extracts the transmitted/received counts from ping(8)
// output. The loss ratio derived from them is logged at debug level only;
// classification itself stays exactly received > 0 → reachable.
func parsePingStats(output string) (transmitted, received int, ok bool) {
	m := pingStatsRE.FindStringSubmatch(output)
	if m == nil {
		return 0, 0, false
	}
	transmitted, err1 := strconv.Atoi(m[1])
	received, err2 := strconv.Atoi(m[2])
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return transmitted, received, true
}
