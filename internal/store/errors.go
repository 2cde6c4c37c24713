package store

// Error wraps a failure of the Node Store itself — open, begin, load-all,
// insert, update, rollback, or commit. An error returned by the caller's
// own function inside WithSession is passed back unchanged (not wrapped in
// Error) after the rollback. A session error rolls back
// the transaction and is logged by the caller; it never aborts the poller
// loop. Only a failure opening the store for the first time at daemon
// startup is fatal.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return "store: " + e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}
