package pool

import "errors"

// ErrEmptyPool is returned by Merge when store and seed both yield
// nothing: there is no node to poll.
var ErrEmptyPool = errors.New("pool: empty")
