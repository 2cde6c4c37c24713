package config

// Error wraps a configuration load failure: missing section, missing
// key, or an unparseable integer value. Fatal at daemon start.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return "config: " + e.Path + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}
