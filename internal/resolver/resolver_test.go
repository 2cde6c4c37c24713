package resolver

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startTestServer runs an in-process DNS server on a loopback UDP socket
// answering answers[name] with an A record, NXDOMAIN otherwise. Returns
// its address and a shutdown func.
func startTestServer(t *testing.T, answers map[string]string) (addr string, shutdown func()) {
	t.Helper()

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)

	mux := dns.NewServeMux()
	mux.HandleFunc(".", func(w dns.ResponseWriter, r *dns.Msg) {
		m := new(dns.Msg)
		m.SetReply(r)
		if len(r.Question) == 1 {
			name := dns.Fqdn(r.Question[0].Name)
			if ip, ok := answers[name]; ok {
				rr, err := dns.NewRR(name + " 10 IN A " + ip)
				if err == nil {
					m.Answer = append(m.Answer, rr)
				}
			} else {
				m.Rcode = dns.RcodeNameError
			}
		}
		_ = w.WriteMsg(m)
	})

	srv := &dns.Server{PacketConn: pc, Handler: mux}
	go func() { _ = srv.ActivateAndServe() }()

	return pc.LocalAddr().String(), func() {
		_ = srv.Shutdown()
	}
}

func TestResolveAllReturnsValidAnswers(t *testing.T) {
	addr, shutdown := startTestServer(t, map[string]string{
		dns.Fqdn("node1.example.edu"): "192.0.2.1",
		dns.Fqdn("node2.example.edu"): "192.0.2.2",
	})
	defer shutdown()

	r := New([]string{addr}, time.Second, 4)
	got := r.ResolveAll(context.Background(), []string{"node1.example.edu", "node2.example.edu", "ghost.example.edu"})

	assert.Equal(t, "192.0.2.1", got["node1.example.edu"])
	assert.Equal(t, "192.0.2.2", got["node2.example.edu"])
	assert.NotContains(t, got, "ghost.example.edu")
}

func TestResolveAllEmptyInput(t *testing.T) {
	r := New([]string{"127.0.0.1:1"}, time.Second, 4)
	got := r.ResolveAll(context.Background(), nil)
	assert.Empty(t, got)
}

func TestResolveAllUnreachableUpstreamYieldsNoEntries(t *testing.T) {
	r := New([]string{"127.0.0.1:1"}, 100*time.Millisecond, 2)
	got := r.ResolveAll(context.Background(), []string{"node1.example.edu"})
	assert.Empty(t, got)
}

func TestValidIPv4(t *testing.T) {
	assert.True(t, ValidIPv4("192.0.2.1"))
	assert.False(t, ValidIPv4("not-an-ip"))
	assert.False(t, ValidIPv4("::1"))
}
