package statusreader

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sliceops/fleetd/internal/store"
	"github.com/sliceops/fleetd/internal/types"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestReadEmptyStorePrintsNoUsable(t *testing.T) {
	s := openTestStore(t)
	var buf bytes.Buffer
	require.NoError(t, Read(s, Options{}, &buf))
	assert.Contains(t, buf.String(), "No usable node found.")
}

func TestReadDefaultListsUsableAddrs(t *testing.T) {
	s := openTestStore(t)
	n := types.NewNode("node1.example.edu", "auth1")
	n.Addr = "192.0.2.1"
	n.SetState(types.StateUsable, time.Now())
	require.NoError(t, s.WithSession(func(sess *store.Session) error {
		return sess.InsertAll([]types.Node{n})
	}))

	var buf bytes.Buffer
	require.NoError(t, Read(s, Options{}, &buf))
	assert.Contains(t, buf.String(), "192.0.2.1")
}

func TestReadNamesFlagListsNames(t *testing.T) {
	s := openTestStore(t)
	n := types.NewNode("node1.example.edu", "auth1")
	n.Addr = "192.0.2.1"
	n.SetState(types.StateUsable, time.Now())
	require.NoError(t, s.WithSession(func(sess *store.Session) error {
		return sess.InsertAll([]types.Node{n})
	}))

	var buf bytes.Buffer
	require.NoError(t, Read(s, Options{Names: true}, &buf))
	assert.Contains(t, buf.String(), "node1.example.edu")
}

func TestReadByAuthorityGroupsHistogram(t *testing.T) {
	s := openTestStore(t)
	n := types.NewNode("node1.example.edu", "auth1")
	n.Addr = "192.0.2.1"
	n.SetState(types.StateUsable, time.Now())
	require.NoError(t, s.WithSession(func(sess *store.Session) error {
		return sess.InsertAll([]types.Node{n})
	}))

	var buf bytes.Buffer
	require.NoError(t, Read(s, Options{ByAuthority: true}, &buf))
	assert.Contains(t, buf.String(), "authority:")
	assert.Contains(t, buf.String(), "auth1: 1")
	assert.NotContains(t, buf.String(), "kernel:")
}

func TestReadVeryVerboseCoversAllStates(t *testing.T) {
	s := openTestStore(t)
	n := types.NewNode("node1.example.edu", "auth1")
	require.NoError(t, s.WithSession(func(sess *store.Session) error {
		return sess.InsertAll([]types.Node{n})
	}))

	var buf bytes.Buffer
	require.NoError(t, Read(s, Options{Verbosity: VeryVerbose}, &buf))
	assert.Contains(t, buf.String(), "unreachable")
}
