// Package resolver implements the Host Resolver: bulk, parallel forward
// lookup of node hostnames to IPv4 addresses against a configurable
// upstream DNS server list, independent of the OS resolver.
package resolver

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/miekg/dns"

	"github.com/sliceops/fleetd/internal/concurrency"
	"github.com/sliceops/fleetd/internal/log"
)

// Resolver issues forward A-record queries against a fixed list of
// upstream servers (host:port form). It never returns an error to the
// caller: a failed or empty lookup simply yields no entry for that name.
type Resolver struct {
	upstream    []string
	timeout     time.Duration
	concurrency int
	client      *dns.Client
}

// New constructs a Resolver. upstream is a list of "ip:port" DNS server
// addresses tried in order for each query; timeout bounds each individual
// query; concurrency bounds how many lookups run at once within a batch.
func New(upstream []string, timeout time.Duration, concurrency int) *Resolver {
	return &Resolver{
		upstream:    upstream,
		timeout:     timeout,
		concurrency: concurrency,
		client:      &dns.Client{Timeout: timeout},
	}
}

// ResolveAll resolves every name in names, returning a map of only the
// names that produced a syntactically valid IPv4 answer. Names that
// NXDOMAIN, time out, or answer with something other than a valid IPv4
// address are simply absent from the result — the caller (the Pool's
// merge operation) treats absence as "drop this candidate". The batch as
// a whole respects ctx; individual query timeouts are this resolver's own
// concern and never propagate as an error.
func (r *Resolver) ResolveAll(ctx context.Context, names []string) map[string]string {
	results := make(map[string]string)
	var mu sync.Mutex

	concurrency.Run(ctx, len(names), r.concurrency, func(ctx context.Context, i int) {
		name := names[i]
		addr, ok := r.resolveOne(ctx, name)
		if !ok {
			return
		}
		mu.Lock()
		results[name] = addr
		mu.Unlock()
	})

	return results
}

func (r *Resolver) resolveOne(ctx context.Context, name string) (string, bool) {
	fqdn := dns.Fqdn(name)
	m := new(dns.Msg)
	m.SetQuestion(fqdn, dns.TypeA)
	m.RecursionDesired = true

	logger := log.WithHost(name)

	for _, server := range r.upstream {
		qCtx, cancel := context.WithTimeout(ctx, r.timeout)
		in, _, err := r.client.ExchangeContext(qCtx, m, server)
		cancel()
		if err != nil {
			logger.Debug().Err(err).Str("server", server).Msg("dns query failed")
			continue
		}
		if addr, ok := firstValidA(in); ok {
			return addr, true
		}
	}
	return "", false
}

func firstValidA(in *dns.Msg) (string, bool) {
	if in == nil {
		return "", false
	}
	for _, rr := range in.Answer {
		a, ok := rr.(*dns.A)
		if !ok {
			continue
		}
		if ValidIPv4(a.A.String()) {
			return a.A.String(), true
		}
	}
	return "", false
}

// ValidIPv4 reports whether s is a syntactically valid dotted-quad IPv4
// address. Every resolved address, regardless of source, passes through
// this validator before it is trusted by a caller.
func ValidIPv4(s string) bool {
	ip := net.ParseIP(s)
	if ip == nil {
		return false
	}
	return ip.To4() != nil
}
