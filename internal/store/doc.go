/*
Package store implements the Node Store session: a single bbolt bucket
keyed by Node ID, opened once at daemon start and mutated only inside a
scoped session that elevates privileges on entry and drops them on exit.

Node state is persisted as its textual enum name rather than an integer
column — see the "Open Questions resolved" section of DESIGN.md.
*/
package store
