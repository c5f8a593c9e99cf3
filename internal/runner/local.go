// Copyright (c) 2026 Hostmaster Team
// Hostmaster - Linux host bootstrap tool
// This source code is licensed under the MIT license found in the LICENSE file.

package runner

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/toeirei/hostmaster/internal/logging"
)

// LocalRunner executes commands directly on the host Hostmaster runs on.
type LocalRunner struct {
	// Quiet suppresses streaming of child stdout (stderr is always shown).
	Quiet bool
}

// NewLocalRunner returns a runner for the local host.
func NewLocalRunner() *LocalRunner {
	return &LocalRunner{}
}

func (l *LocalRunner) command(ctx context.Context, name string, args ...string) *exec.Cmd {
	logging.Debugf("exec: %s", ShellQuote(name, args...))
	cmd := exec.CommandContext(ctx, name, args...)
	if !l.Quiet {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = os.Stderr
	return cmd
}

// Run executes a command, streaming output to the terminal.
func (l *LocalRunner) Run(ctx context.Context, name string, args ...string) error {
	if err := l.command(ctx, name, args...).Run(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// Output executes a command and captures its standard output.
func (l *LocalRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	logging.Debugf("exec (capture): %s", ShellQuote(name, args...))
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = os.Stderr
	out, err := cmd.Output()
	if err != nil {
		return out, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

// RunShell executes a full shell line via `sh -c`. This is how the
// curl-piped vendor installers (get.docker.com, get.k3s.io) are invoked.
func (l *LocalRunner) RunShell(ctx context.Context, script string) error {
	logging.Debugf("sh -c: %s", script)
	cmd := exec.CommandContext(ctx, "sh", "-c", script)
	if !l.Quiet {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("sh -c %q: %w", script, err)
	}
	return nil
}

// RunInput executes a command with the given stdin. Used for chpasswd so
// the password never appears in an argument vector.
func (l *LocalRunner) RunInput(ctx context.Context, stdin, name string, args ...string) error {
	logging.Debugf("exec (stdin): %s", ShellQuote(name, args...))
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = strings.NewReader(stdin)
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// WriteFile writes data to a temporary file next to the target and renames
// it into place so readers never observe a half-written file.
func (l *LocalRunner) WriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".hostmaster.*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}

// ReadFile returns the content of a local file.
func (l *LocalRunner) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// LookPath reports whether name resolves to an executable in PATH.
func (l *LocalRunner) LookPath(name string) (string, bool) {
	p, err := exec.LookPath(name)
	if err != nil {
		return "", false
	}
	return p, true
}
