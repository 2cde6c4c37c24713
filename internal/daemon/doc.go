/*
Package daemon implements the PID-file-based single-instance process
lifecycle: start, stop, restart, status, and the privilege elevate/drop
primitives store sessions wrap themselves in.

Start re-execs the current binary into a new session with redirected
standard streams rather than a raw double-fork, since the Go runtime
cannot fork(2) without exec()-ing immediately. Everything downstream of
that exec — PID file, privilege drop, cleanup-on-signal — follows the
same process-lifecycle contract throughout.
*/
package daemon
