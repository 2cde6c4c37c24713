package seed

// Error wraps a failure to read the seed file. It is fatal at daemon
// start.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return "seed: " + e.Path + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}
