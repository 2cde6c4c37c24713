// Package seed loads the operator-maintained flat text list of candidate
// nodes: whitespace-delimited "<name> <authority> <boot-state>" triples,
// one per line, admitting only rows whose boot-state is "boot".
package seed

import (
	"bufio"
	"os"
	"strings"

	"github.com/sliceops/fleetd/internal/types"
)

const bootState = "boot"

// Load parses path and returns one candidate Node per admitted row, each
// freshly constructed at types.StateUnreachable with default profile
// attributes and no resolved address. Blank lines, malformed rows (not
// exactly three whitespace-delimited fields), and rows whose boot-state
// isn't "boot" are silently skipped. Load is idempotent and referentially
// transparent: it has no side effects beyond reading path.
func Load(path string) ([]types.Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	defer f.Close()

	var candidates []types.Node
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			continue
		}
		name, authority, boot := fields[0], fields[1], fields[2]
		if boot != bootState {
			continue
		}
		candidates = append(candidates, types.NewNode(name, authority))
	}
	if err := sc.Err(); err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	return candidates, nil
}
