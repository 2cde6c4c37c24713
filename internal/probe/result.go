package probe

import "time"

// Result is the outcome of a single probe attempt against one host.
// Mirrors the Healthy/Message/Duration shape used for checker results
// elsewhere in this codebase, generalized to carry the raw command
// output of a ping attempt. The SSH stages do not use it; SSHRunner
// returns output, exit status, and error directly.
type Result struct {
	Healthy   bool
	Message   string
	Output    string
	CheckedAt time.Time
	Duration  time.Duration
}
