package daemon

import (
	"fmt"
	"sync"

	"golang.org/x/sys/unix"
)

var (
	privMu     sync.Mutex
	invokerUID = -1
)

// setInvokerUID records the original, unprivileged UID the daemon was
// invoked as (from SUDO_USER). DropPrivileges returns to this UID.
// Exported only to the daemon package; Start calls it once at startup.
func setInvokerUID(uid int) {
	privMu.Lock()
	defer privMu.Unlock()
	invokerUID = uid
}

// InvokerUID returns the UID recorded by setInvokerUID, or -1 if the
// supervisor never dropped privileges (e.g. when running in foreground for
// debugging under the invoking user's own UID).
func InvokerUID() int {
	privMu.Lock()
	defer privMu.Unlock()
	return invokerUID
}

// Elevate raises the effective UID to root. Only possible when the real UID
// is already root; if the real UID isn't root (local development, unit
// tests run unprivileged) there is nothing to elevate and Elevate is a
// no-op rather than an error.
func Elevate() error {
	if unix.Getuid() != 0 {
		return nil
	}
	if err := unix.Seteuid(0); err != nil {
		return fmt.Errorf("daemon: elevate privileges: %w", err)
	}
	return nil
}

// DropPrivileges lowers the effective UID back to the recorded invoker UID.
// A no-op if no invoker UID was ever recorded.
func DropPrivileges() error {
	uid := InvokerUID()
	if uid < 0 {
		return nil
	}
	if err := unix.Seteuid(uid); err != nil {
		return fmt.Errorf("daemon: drop privileges: %w", err)
	}
	return nil
}

// WithRoot elevates for the duration of fn and drops privileges again on
// every path out, including a panic recovered and re-raised by the caller's
// own defer chain. Centralizing elevate/drop here keeps every privileged
// section symmetric instead of trusting each call site to pair them.
func WithRoot(fn func() error) error {
	if err := Elevate(); err != nil {
		return err
	}
	defer func() {
		if err := DropPrivileges(); err != nil {
			// Best effort: a failure to drop privileges is discarded
			// here and is not reported to the caller.
			_ = err
		}
	}()
	return fn()
}
