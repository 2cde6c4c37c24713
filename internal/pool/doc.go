/*
Package pool implements the Node Pool: the in-memory authoritative view
of the fleet for the running daemon. It merges the Node Store and the
seed file, holds each node's current classification and profile
attributes, and offers selectors and positional setters the probe stages
use to read a filtered view and write results back.

The Pool is owned exclusively by the Poller once the daemon is in start
mode; probe stages only ever hold transient borrowed views produced by
Select.
*/
package pool
