// Package poller implements the orchestrator: the periodic loop that
// runs the three probe stages in order, committing the pool to the Node
// Store between each, and exposes aggregate status without disturbing
// the pool.
package poller

import (
	"context"
	"time"

	"github.com/sliceops/fleetd/internal/log"
	"github.com/sliceops/fleetd/internal/metrics"
	"github.com/sliceops/fleetd/internal/pool"
	"github.com/sliceops/fleetd/internal/probe"
	"github.com/sliceops/fleetd/internal/store"
	"github.com/sliceops/fleetd/internal/types"
)

// Config holds the pipeline parameters the Poller needs: period, initial
// delay, and the three probe stages themselves (already configured with
// their own concurrency caps, timeouts, and SSH runner).
type Config struct {
	Period       time.Duration
	InitialDelay bool
	Pinger       *probe.Pinger
	Reachability *probe.Reachability
	Profile      *probe.Profile
}

// Poller owns the monotonic uptime timestamp, the pool, and the pipeline
// configuration. The pool is exclusively owned by the Poller for its
// entire lifetime once Run is entered.
type Poller struct {
	cfg     Config
	store   *store.Store
	pool    *pool.Pool
	startAt time.Time
	stopCh  chan struct{}
}

// New constructs a Poller over an already-merged pool and its backing
// store.
func New(cfg Config, st *store.Store, p *pool.Pool) *Poller {
	return &Poller{
		cfg:     cfg,
		store:   st,
		pool:    p,
		startAt: time.Now(),
		stopCh:  make(chan struct{}),
	}
}

// Stop signals Run to exit after the current sleep or stage completes.
func (pl *Poller) Stop() {
	close(pl.stopCh)
}

// Run enters the poller loop. It blocks until Stop is called. A period
// longer than the actual stage runtime is the common case; period is
// wall-clock, not drift-compensated — a cycle that overruns simply
// delays the next sleep rather than catching up.
func (pl *Poller) Run(ctx context.Context) error {
	logger := log.WithComponent("poller")
	logger.Info().Dur("period", pl.cfg.Period).Msg("poller starting")

	if pl.cfg.InitialDelay {
		if !pl.sleep(pl.cfg.Period) {
			return nil
		}
	}

	for {
		select {
		case <-pl.stopCh:
			logger.Info().Msg("poller stopped")
			return nil
		default:
		}

		cycleTimer := metrics.NewTimer()
		pl.runCycle(ctx)
		cycleTimer.ObserveDuration(metrics.CycleDuration)
		metrics.CollectPoolSize(pl.pool)

		if !pl.sleep(pl.cfg.Period) {
			return nil
		}
	}
}

// runCycle runs ping -> commit -> ssh-reach -> commit -> ssh-profile ->
// commit, in that fixed order, committing after every stage so a crash
// mid-cycle loses at most the most recent stage's observations.
func (pl *Poller) runCycle(ctx context.Context) {
	pl.runStage(ctx, "ping", pl.cfg.Pinger.Stage)
	pl.runStage(ctx, "ssh-reach", pl.cfg.Reachability.Stage)
	pl.runStage(ctx, "ssh-profile", pl.cfg.Profile.Stage)
}

func (pl *Poller) runStage(ctx context.Context, name string, stage func(context.Context, *pool.Pool)) {
	logger := log.WithComponent("poller")
	timer := metrics.NewTimer()
	stage(ctx, pl.pool)
	timer.ObserveDurationVec(metrics.ProbeDuration, name)

	err := pl.store.WithSession(func(sess *store.Session) error {
		return pl.pool.Commit(sess)
	})
	if err != nil {
		metrics.CommitFailuresTotal.WithLabelValues(name).Inc()
		logger.Error().Err(err).Str("stage", name).Msg("commit failed, continuing next cycle")
	}
}

// sleep waits for d or until Stop is called, whichever comes first,
// reporting false if it was woken by Stop.
func (pl *Poller) sleep(d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-pl.stopCh:
		return false
	}
}

// Status delegates to the Pool, exposing the same read-only aggregate the
// status subcommand renders.
func (pl *Poller) Status(min types.NodeState) pool.Histogram {
	return pl.pool.Status(min)
}
