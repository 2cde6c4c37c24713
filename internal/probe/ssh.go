package probe

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"golang.org/x/crypto/ssh"
)

// SSHRunner executes a single command over SSH against addr as user,
// returning whatever the command wrote to stdout+stderr and whether it
// exited with status 0. Concrete implementations classify connection,
// auth, and timeout failures as ok=false with a descriptive err; they
// never panic.
type SSHRunner interface {
	Run(ctx context.Context, addr, user, command string, timeout time.Duration) (output string, exitOK bool, err error)
}

// sshClient dials a real SSH session per call using the configured
// private key. Host-key checking is intentionally disabled: fleetd probes
// reachability and fingerprint, not host identity, so it never verifies
// the server key.
type sshClient struct {
	signer ssh.Signer
}

// NewSSHClient loads the private key at keyPath and returns a runner that
// dials real SSH sessions.
func NewSSHClient(keyPath string) (SSHRunner, error) {
	data, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("probe: read ssh key %s: %w", keyPath, err)
	}
	signer, err := ssh.ParsePrivateKey(data)
	if err != nil {
		return nil, fmt.Errorf("probe: parse ssh key %s: %w", keyPath, err)
	}
	return &sshClient{signer: signer}, nil
}

func (c *sshClient) Run(ctx context.Context, addr, user, command string, timeout time.Duration) (string, bool, error) {
	config := &ssh.ClientConfig{
		User:            user,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(c.signer)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         timeout,
	}

	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(addr, "22"))
	if err != nil {
		return "", false, fmt.Errorf("dial %s: %w", addr, err)
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, config)
	if err != nil {
		_ = conn.Close()
		return "", false, fmt.Errorf("handshake %s: %w", addr, err)
	}
	client := ssh.NewClient(sshConn, chans, reqs)
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return "", false, fmt.Errorf("new session %s: %w", addr, err)
	}
	defer session.Close()

	type runResult struct {
		out []byte
		err error
	}
	done := make(chan runResult, 1)
	go func() {
		out, err := session.CombinedOutput(command)
		done <- runResult{out, err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			if _, isExit := r.err.(*ssh.ExitError); isExit {
				return string(r.out), false, nil
			}
			return string(r.out), false, fmt.Errorf("run command on %s: %w", addr, r.err)
		}
		return string(r.out), true, nil
	case <-time.After(timeout):
		// session.Close unblocks CombinedOutput on the leaked goroutine;
		// its result is discarded on the buffered channel.
		session.Close()
		return "", false, fmt.Errorf("run command on %s: timed out after %s", addr, timeout)
	}
}
