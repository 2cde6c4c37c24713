/*
Package probe implements the three bounded-concurrency stages the Poller
runs over the pool each cycle: Pinger, Reachability (SSH), and Profile
(SSH fingerprint + best-effort repair).

Each stage is a pure function from a pool snapshot to a set of positional
writes: it selects a subset of the pool by minimum state, runs one
external probe per selected node under internal/concurrency's bounded
executor, and writes state and/or profile attributes back. No stage
error ever propagates to the caller — a failed probe simply leaves the
node's state unchanged or demotes it, and the next cycle retries.
*/
package probe
