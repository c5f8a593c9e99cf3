// Copyright (c) 2026 Hostmaster Team
// Hostmaster - Linux host bootstrap tool
// This source code is licensed under the MIT license found in the LICENSE file.

package runner

import (
	"context"
	"fmt"
	"io"
	"os"
)

// DryRunner prints the command plan instead of executing it. Reads are
// delegated to the wrapped runner so OS detection and idempotency checks
// still see the real host.
type DryRunner struct {
	Wrapped Runner
	Out     io.Writer
}

// NewDryRunner wraps a runner for plan-only execution.
func NewDryRunner(wrapped Runner) *DryRunner {
	return &DryRunner{Wrapped: wrapped, Out: os.Stdout}
}

func (d *DryRunner) plan(format string, args ...any) {
	fmt.Fprintf(d.Out, "[dry-run] "+format+"\n", args...)
}

// Run prints the command line that would have been executed.
func (d *DryRunner) Run(ctx context.Context, name string, args ...string) error {
	d.plan("%s", ShellQuote(name, args...))
	return nil
}

// Output delegates to the wrapped runner; capture commands are probes, not
// mutations, and the plan needs their real results to stay meaningful.
func (d *DryRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return d.Wrapped.Output(ctx, name, args...)
}

// RunShell prints the shell line that would have been executed.
func (d *DryRunner) RunShell(ctx context.Context, script string) error {
	d.plan("sh -c %q", script)
	return nil
}

// RunInput prints the command; stdin content is elided since it may be a secret.
func (d *DryRunner) RunInput(ctx context.Context, stdin, name string, args ...string) error {
	d.plan("%s <<< (stdin elided)", ShellQuote(name, args...))
	return nil
}

// WriteFile prints the write that would have happened.
func (d *DryRunner) WriteFile(path string, data []byte, perm os.FileMode) error {
	d.plan("write %s (%d bytes, mode %o)", path, len(data), perm)
	return nil
}

// ReadFile delegates to the wrapped runner.
func (d *DryRunner) ReadFile(path string) ([]byte, error) {
	return d.Wrapped.ReadFile(path)
}

// LookPath delegates to the wrapped runner.
func (d *DryRunner) LookPath(name string) (string, bool) {
	return d.Wrapped.LookPath(name)
}
