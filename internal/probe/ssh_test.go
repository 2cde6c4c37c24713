package probe

import (
	"context"
	"errors"
	"time"
)

// fakeSSHRunner answers Run calls by addr+command, for use by reachability
// and profile stage tests without dialing a real SSH server.
type fakeSSHRunner struct {
	responses map[string]fakeResponse
}

type fakeResponse struct {
	output string
	exitOK bool
	err    error
}

func (f *fakeSSHRunner) Run(_ context.Context, addr, _ string, command string, _ time.Duration) (string, bool, error) {
	r, ok := f.responses[addr+"|"+command]
	if !ok {
		return "", false, errors.New("fake: no response configured for " + addr + " " + command)
	}
	return r.output, r.exitOK, r.err
}
