// Copyright (c) 2026 Hostmaster Team
// Hostmaster - Linux host bootstrap tool
// This source code is licensed under the MIT license found in the LICENSE file.

// This file contains the SSH-backed runner used for bootstrapping remote
// hosts. Commands run through exec sessions; file writes go through SFTP
// with a temp-file-then-rename dance so remote files are replaced atomically.
package runner

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"path"
	"strings"
	"time"

	"github.com/pkg/sftp"
	"github.com/toeirei/hostmaster/internal/db"
	"golang.org/x/crypto/ssh"
)

// SSHRunner executes install sequences on a remote host.
type SSHRunner struct {
	client *ssh.Client
	sftp   *sftp.Client
}

// NewSSHRunner creates a new SSH connection to host as user. Authentication
// tries the given private key first and falls back to a running SSH agent.
// The remote host key is verified against the known_hosts table in the
// journal database; unknown hosts must be trusted first.
func NewSSHRunner(host, user, privateKey string) (*SSHRunner, error) {
	hostKeyCallback := func(hostname string, remote net.Addr, key ssh.PublicKey) error {
		// The hostname passed to the callback can include the port. Strip it
		// so we look up the right key.
		h, _, err := net.SplitHostPort(hostname)
		if err != nil {
			h = hostname
		}

		presentedKey := string(ssh.MarshalAuthorizedKey(key))

		knownKey, err := db.GetKnownHostKey(h)
		if err != nil {
			return fmt.Errorf("failed to query known_hosts database: %w", err)
		}
		if knownKey == "" {
			return fmt.Errorf("unknown host key for %s. run 'hostmaster trust-host' to add it", h)
		}
		if knownKey != presentedKey {
			return fmt.Errorf("!!! HOST KEY MISMATCH FOR %s !!!\nRemote key presented: %s\nThis could be a man-in-the-middle attack", h, presentedKey)
		}
		return nil
	}

	addr := host
	if _, _, err := net.SplitHostPort(host); err != nil {
		addr = net.JoinHostPort(host, "22")
	}

	var finalErr error

	// Attempt 1: the provided private key.
	if privateKey != "" {
		signer, err := ssh.ParsePrivateKey([]byte(privateKey))
		if err != nil {
			return nil, fmt.Errorf("unable to parse private key: %w", err)
		}
		config := &ssh.ClientConfig{
			User:            user,
			Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
			HostKeyCallback: hostKeyCallback,
			Timeout:         10 * time.Second,
		}
		client, err := ssh.Dial("tcp", addr, config)
		if err == nil {
			sftpClient, sftpErr := sftp.NewClient(client)
			if sftpErr != nil {
				client.Close()
				return nil, fmt.Errorf("failed to create sftp client: %w", sftpErr)
			}
			return &SSHRunner{client: client, sftp: sftpClient}, nil
		}
		if !strings.Contains(err.Error(), "unable to authenticate") {
			return nil, fmt.Errorf("connection with private key failed: %w", err)
		}
		finalErr = err
	}

	// Attempt 2: a running SSH agent.
	agentClient := getSSHAgent()
	if agentClient == nil {
		if finalErr != nil {
			return nil, fmt.Errorf("key authentication failed, and no SSH agent available for fallback: %w", finalErr)
		}
		return nil, fmt.Errorf("no authentication method available (no private key provided and no ssh agent found)")
	}

	config := &ssh.ClientConfig{
		User:            user,
		Auth:            []ssh.AuthMethod{ssh.PublicKeysCallback(agentClient.Signers)},
		HostKeyCallback: hostKeyCallback,
		Timeout:         10 * time.Second,
	}
	client, err := ssh.Dial("tcp", addr, config)
	if err != nil {
		return nil, fmt.Errorf("connection with ssh agent failed: %w", err)
	}
	sftpClient, err := sftp.NewClient(client)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to create sftp client: %w", err)
	}
	return &SSHRunner{client: client, sftp: sftpClient}, nil
}

// Close closes the underlying SSH and SFTP clients.
func (s *SSHRunner) Close() {
	if s.sftp != nil {
		s.sftp.Close()
	}
	if s.client != nil {
		s.client.Close()
	}
}

func (s *SSHRunner) session(ctx context.Context) (*ssh.Session, func(), error) {
	sess, err := s.client.NewSession()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open ssh session: %w", err)
	}
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = sess.Signal(ssh.SIGKILL)
			_ = sess.Close()
		case <-done:
		}
	}()
	cleanup := func() {
		close(done)
		_ = sess.Close()
	}
	return sess, cleanup, nil
}

// Run executes a command on the remote host, streaming its output.
func (s *SSHRunner) Run(ctx context.Context, name string, args ...string) error {
	return s.RunShell(ctx, ShellQuote(name, args...))
}

// Output executes a command and captures its standard output.
func (s *SSHRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	sess, cleanup, err := s.session(ctx)
	if err != nil {
		return nil, err
	}
	defer cleanup()
	sess.Stderr = os.Stderr
	out, err := sess.Output(ShellQuote(name, args...))
	if err != nil {
		return out, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

// RunShell executes a full shell line on the remote host.
func (s *SSHRunner) RunShell(ctx context.Context, script string) error {
	sess, cleanup, err := s.session(ctx)
	if err != nil {
		return err
	}
	defer cleanup()
	sess.Stdout = os.Stdout
	sess.Stderr = os.Stderr
	if err := sess.Run(script); err != nil {
		return fmt.Errorf("remote: %s: %w", script, err)
	}
	return nil
}

// RunInput executes a command feeding stdin over the session.
func (s *SSHRunner) RunInput(ctx context.Context, stdin, name string, args ...string) error {
	sess, cleanup, err := s.session(ctx)
	if err != nil {
		return err
	}
	defer cleanup()
	sess.Stdin = strings.NewReader(stdin)
	sess.Stderr = os.Stderr
	if err := sess.Run(ShellQuote(name, args...)); err != nil {
		return fmt.Errorf("remote: %s: %w", name, err)
	}
	return nil
}

// WriteFile uploads content to a temporary file and moves it into place
// atomically, mirroring the local runner's behavior.
func (s *SSHRunner) WriteFile(p string, data []byte, perm os.FileMode) error {
	dir := path.Dir(p)
	_ = s.sftp.MkdirAll(dir) // Ignore error if it already exists.

	tmpPath := path.Join(dir, fmt.Sprintf(".%s.hostmaster.%d", path.Base(p), time.Now().UnixNano()))
	f, err := s.sftp.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create temporary file on remote: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		_ = s.sftp.Remove(tmpPath)
		return fmt.Errorf("failed to write to temporary file on remote: %w", err)
	}
	f.Close()

	if err := s.sftp.Chmod(tmpPath, perm); err != nil {
		_ = s.sftp.Remove(tmpPath)
		return fmt.Errorf("failed to chmod temporary file: %w", err)
	}
	if err := s.sftp.Rename(tmpPath, p); err != nil {
		_ = s.sftp.Remove(tmpPath)
		return fmt.Errorf("failed to atomically rename %s: %w", p, err)
	}
	return nil
}

// ReadFile reads and returns the content of a remote file.
func (s *SSHRunner) ReadFile(p string) ([]byte, error) {
	f, err := s.sftp.Open(p)
	if err != nil {
		return nil, fmt.Errorf("failed to open remote file %s: %w", p, err)
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read from remote file %s: %w", p, err)
	}
	return content, nil
}

// LookPath probes for a binary on the remote host with `command -v`.
func (s *SSHRunner) LookPath(name string) (string, bool) {
	sess, err := s.client.NewSession()
	if err != nil {
		return "", false
	}
	defer sess.Close()
	out, err := sess.Output("command -v " + quoteArg(name))
	if err != nil {
		return "", false
	}
	p := strings.TrimSpace(string(out))
	return p, p != ""
}

// GetRemoteHostKey connects to a host just to retrieve its public key.
func GetRemoteHostKey(host string) (ssh.PublicKey, error) {
	keyChan := make(chan ssh.PublicKey, 1)

	config := &ssh.ClientConfig{
		// We don't need to authenticate for this, just start the handshake.
		User: "hostmaster-probe",
		HostKeyCallback: func(hostname string, remote net.Addr, key ssh.PublicKey) error {
			// We got the key, send it back on the channel.
			keyChan <- key
			// Return a specific error to gracefully stop the handshake.
			return fmt.Errorf("hostmaster: successfully retrieved host key")
		},
		Timeout: 5 * time.Second,
	}

	addr := host
	if _, _, err := net.SplitHostPort(host); err != nil {
		addr = net.JoinHostPort(host, "22")
	}

	// We expect ssh.Dial to fail with our specific error.
	_, err := ssh.Dial("tcp", addr, config)
	if err != nil {
		if strings.Contains(err.Error(), "hostmaster: successfully retrieved host key") {
			return <-keyChan, nil
		}
		return nil, fmt.Errorf("failed to connect to %s: %w", host, err)
	}
	return nil, fmt.Errorf("ssh.Dial succeeded unexpectedly, could not retrieve key")
}
