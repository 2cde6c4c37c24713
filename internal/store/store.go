// Package store implements the embedded Node Store: a single bbolt bucket
// of Nodes keyed by stable ID, accessed only through a scoped
// transactional session that elevates privileges on entry and drops them
// on exit.
package store

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/sliceops/fleetd/internal/daemon"
	"github.com/sliceops/fleetd/internal/types"
)

var bucketNodes = []byte("nodes")

// Store is the embedded, single-table Node Store. Never deleted by the
// core; an operator resets it by removing the backing file.
type Store struct {
	db *bolt.DB
}

// Open opens (creating if absent) the bbolt file under dataDir and applies
// the schema idempotently. Performed under an elevated session since the
// store file lives in a privileged location.
func Open(dataDir string) (*Store, error) {
	path := filepath.Join(dataDir, "fleetd.db")

	var db *bolt.DB
	err := daemon.WithRoot(func() error {
		var openErr error
		db, openErr = bolt.Open(path, 0600, &bolt.Options{Timeout: 5 * time.Second})
		if openErr != nil {
			return fmt.Errorf("open %s: %w", path, openErr)
		}
		return db.Update(func(tx *bolt.Tx) error {
			_, err := tx.CreateBucketIfNotExists(bucketNodes)
			return err
		})
	})
	if err != nil {
		return nil, &Error{Op: "open", Err: err}
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database file.
func (s *Store) Close() error {
	return s.db.Close()
}

// Session is the scoped transactional handle a caller is given inside
// WithSession.
type Session struct {
	tx *bolt.Tx
}

// WithSession elevates the process to root, begins a read-write
// transaction, runs fn, and commits on success or rolls back on any
// error — dropping privileges again on every path out, including a
// rollback. This is the only way the store's bucket is mutated.
func (s *Store) WithSession(fn func(*Session) error) error {
	return daemon.WithRoot(func() error {
		tx, err := s.db.Begin(true)
		if err != nil {
			return &Error{Op: "begin", Err: err}
		}

		if err := fn(&Session{tx: tx}); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				return &Error{Op: "rollback", Err: rbErr}
			}
			return err
		}

		if err := tx.Commit(); err != nil {
			return &Error{Op: "commit", Err: err}
		}
		return nil
	})
}

// LoadAll returns every Node currently persisted, in bucket iteration
// order (bbolt iterates keys in byte-sorted order, not insertion order —
// callers that need pool-insertion order build it themselves on merge).
func (sess *Session) LoadAll() ([]types.Node, error) {
	b := sess.tx.Bucket(bucketNodes)
	var nodes []types.Node
	err := b.ForEach(func(_, v []byte) error {
		var rec record
		if err := json.Unmarshal(v, &rec); err != nil {
			return fmt.Errorf("decode node record: %w", err)
		}
		nodes = append(nodes, rec.toNode())
		return nil
	})
	if err != nil {
		return nil, &Error{Op: "load-all", Err: err}
	}
	return nodes, nil
}

// InsertAll bulk-inserts new rows, used when the Pool admits nodes newly
// seen from the seed file.
func (sess *Session) InsertAll(nodes []types.Node) error {
	b := sess.tx.Bucket(bucketNodes)
	for _, n := range nodes {
		if err := putNode(b, n); err != nil {
			return &Error{Op: "insert", Err: err}
		}
	}
	return nil
}

// Update writes back a single row by ID, used after each probe stage and
// by the Pool's commit operation.
func (sess *Session) Update(n types.Node) error {
	b := sess.tx.Bucket(bucketNodes)
	if err := putNode(b, n); err != nil {
		return &Error{Op: "update", Err: err}
	}
	return nil
}

func putNode(b *bolt.Bucket, n types.Node) error {
	data, err := json.Marshal(fromNode(n))
	if err != nil {
		return fmt.Errorf("encode node %d: %w", n.ID, err)
	}
	return b.Put(idKey(n.ID), data)
}

func idKey(id uint64) []byte {
	return []byte(strconv.FormatUint(id, 10))
}

// record is the on-disk shape of a Node. State is stored as its textual
// name rather than an integer column so the bucket stays readable with a
// generic bbolt browser and survives reordering the NodeState constants.
type record struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Addr      string    `json:"addr"`
	Authority string    `json:"authority"`
	State     string    `json:"state"`
	Kernel    string    `json:"kernel"`
	OS        string    `json:"os"`
	VSYS      bool      `json:"vsys"`
	LastSeen  time.Time `json:"last_seen"`
}

func fromNode(n types.Node) record {
	return record{
		ID:        n.ID,
		Name:      n.Name,
		Addr:      n.Addr,
		Authority: n.Authority,
		State:     string(n.State),
		Kernel:    n.Kernel,
		OS:        n.OS,
		VSYS:      n.VSYS,
		LastSeen:  n.LastSeen,
	}
}

func (r record) toNode() types.Node {
	return types.Node{
		ID:        r.ID,
		Name:      r.Name,
		Addr:      r.Addr,
		Authority: r.Authority,
		State:     types.NodeState(r.State),
		Kernel:    r.Kernel,
		OS:        r.OS,
		VSYS:      r.VSYS,
		LastSeen:  r.LastSeen,
	}
}
