package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/miekg/dns"
	"github.com/spf13/cobra"

	"github.com/sliceops/fleetd/internal/config"
	"github.com/sliceops/fleetd/internal/daemon"
	"github.com/sliceops/fleetd/internal/log"
	"github.com/sliceops/fleetd/internal/metrics"
	"github.com/sliceops/fleetd/internal/pool"
	"github.com/sliceops/fleetd/internal/poller"
	"github.com/sliceops/fleetd/internal/probe"
	"github.com/sliceops/fleetd/internal/resolver"
	"github.com/sliceops/fleetd/internal/seed"
	"github.com/sliceops/fleetd/internal/store"
)

// loadConfig reads the -c flag and parses the INI file, resolving
// relative paths against the process's invocation directory.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return config.Config{}, fmt.Errorf("-c PATH is required")
	}
	baseDir, err := os.Getwd()
	if err != nil {
		return config.Config{}, fmt.Errorf("determine invocation directory: %w", err)
	}
	return config.Load(path, baseDir)
}

func initLogging(cmd *cobra.Command, cfg config.Config) error {
	debug, _ := cmd.Flags().GetBool("debug")
	logName, _ := cmd.Flags().GetString("log")

	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}
	if err := os.MkdirAll(cfg.LogDir, 0755); err != nil {
		return fmt.Errorf("create log directory %s: %w", cfg.LogDir, err)
	}
	f, err := os.OpenFile(filepath.Join(cfg.LogDir, logName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	log.Init(log.Config{Level: level, Output: f})
	return nil
}

func pidPath(cfg config.Config) string {
	return filepath.Join(cfg.DataDir, "fleetd.pid")
}

// systemResolverServers reads the host's /etc/resolv.conf for the
// upstream DNS server list, the same source the OS resolver itself
// would use. Falls back to the public Google recursive resolvers if the
// file is absent or empty, so a bare container without /etc/resolv.conf
// still resolves.
func systemResolverServers() []string {
	cc, err := dns.ClientConfigFromFile("/etc/resolv.conf")
	if err != nil || len(cc.Servers) == 0 {
		return []string{"8.8.8.8:53", "8.8.4.4:53"}
	}
	servers := make([]string, len(cc.Servers))
	for i, s := range cc.Servers {
		servers[i] = net.JoinHostPort(s, cc.Port)
	}
	return servers
}

// buildPoller wires the Host Resolver, SSH runner, three probe stages,
// and the Poller itself over an already-opened Store, merging the seed
// file against it.
func buildPoller(cfg config.Config, st *store.Store) (*poller.Poller, error) {
	candidates, err := seed.Load(cfg.SeedPath())
	if err != nil {
		return nil, fmt.Errorf("load seed: %w", err)
	}

	res := resolver.New(systemResolverServers(), 3*time.Second, cfg.ThreadLimit)

	p := pool.New()
	err = st.WithSession(func(sess *store.Session) error {
		return p.Merge(context.Background(), candidates, sess, res.ResolveAll)
	})
	if err != nil {
		return nil, fmt.Errorf("merge pool: %w", err)
	}

	sshRunner, err := probe.NewSSHClient(cfg.SSHKeyLoc)
	if err != nil {
		return nil, fmt.Errorf("init ssh client: %w", err)
	}

	pollerCfg := poller.Config{
		Period:       time.Duration(cfg.ProbingPeriod) * time.Second,
		InitialDelay: cfg.InitialDelay,
		Pinger:       probe.NewPinger(cfg.ThreadLimit),
		Reachability: &probe.Reachability{
			Concurrency: cfg.SSHLimit,
			User:        cfg.Slice,
			Run:         sshRunner,
		},
		Profile: &probe.Profile{
			Concurrency: cfg.SSHLimit,
			User:        cfg.Slice,
			Package:     cfg.RepairPackage,
			Run:         sshRunner,
		},
	}

	return poller.New(pollerCfg, st, p), nil
}

func supervisorFor(cfg config.Config, run func() error) *daemon.Supervisor {
	return &daemon.Supervisor{
		Name:    "fleetd",
		PIDPath: pidPath(cfg),
		LogPath: filepath.Join(cfg.LogDir, "fleetd.daemon.log"),
		Run:     run,
	}
}

// runDaemon opens the store, wires the Poller, and runs it until
// Stop/signal. Shared by the start and restart subcommands, which both
// need the Supervisor's Run field populated identically. When debug is
// true it also serves Prometheus metrics on a loopback-only listener —
// never required for correctness, purely a debugging convenience.
func runDaemon(cfg config.Config, debug bool) func() error {
	return func() error {
		st, err := store.Open(cfg.DataDir)
		if err != nil {
			return err
		}
		defer st.Close()

		pl, err := buildPoller(cfg, st)
		if err != nil {
			return err
		}

		if debug {
			serveDebugMetrics()
		}

		return pl.Run(context.Background())
	}
}

func serveDebugMetrics() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{Addr: "127.0.0.1:9090", Handler: mux}
	go func() {
		logger := log.WithComponent("metrics")
		if err := srv.ListenAndServe(); err != nil {
			logger.Warn().Err(err).Msg("debug metrics server stopped")
		}
	}()
}
