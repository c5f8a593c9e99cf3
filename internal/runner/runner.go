// Copyright (c) 2026 Hostmaster Team
// Hostmaster - Linux host bootstrap tool
// This source code is licensed under the MIT license found in the LICENSE file.

// package runner abstracts execution of external commands so the same
// install sequences can run against the local host, a remote host over SSH,
// or a scripted fake in tests.
package runner

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/toeirei/hostmaster/internal/logging"
)

// Runner executes external commands and touches files on the target host.
// Every step of every install sequence goes through this interface.
type Runner interface {
	// Run executes a command and waits for it, streaming its output.
	Run(ctx context.Context, name string, args ...string) error
	// Output executes a command and returns its combined standard output.
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
	// RunShell executes a full shell script line (for curl|sh installers).
	RunShell(ctx context.Context, script string) error
	// RunInput executes a command feeding stdin (for chpasswd).
	RunInput(ctx context.Context, stdin, name string, args ...string) error
	// WriteFile writes a file atomically (write temp, then rename).
	WriteFile(path string, data []byte, perm os.FileMode) error
	// ReadFile returns the content of a file on the target host.
	ReadFile(path string) ([]byte, error)
	// LookPath reports whether an executable is present on the target host.
	LookPath(name string) (string, bool)
}

// BestEffort runs fn and swallows its error after logging it. This is the
// `|| true` of the original shell workflow: service enables and group
// creations must not abort the run.
func BestEffort(what string, fn func() error) {
	if err := fn(); err != nil {
		logging.Warnf("%s failed (continuing): %v", what, err)
	}
}

// Candidate is one entry of a fallback chain (useradd before adduser,
// usermod before addgroup).
type Candidate struct {
	Name string
	Args []string
}

// Fallback tries each candidate command in order and returns nil on the
// first success. A candidate whose binary is missing is skipped without
// counting as a failure. The last error is returned when every candidate
// fails.
func Fallback(ctx context.Context, r Runner, candidates ...Candidate) error {
	var lastErr error
	tried := 0
	for _, c := range candidates {
		if _, ok := r.LookPath(c.Name); !ok {
			logging.Debugf("fallback: %s not found, trying next", c.Name)
			continue
		}
		tried++
		if err := r.Run(ctx, c.Name, c.Args...); err != nil {
			lastErr = fmt.Errorf("%s: %w", c.Name, err)
			logging.Debugf("fallback: %s failed: %v", c.Name, err)
			continue
		}
		return nil
	}
	if tried == 0 {
		names := make([]string, 0, len(candidates))
		for _, c := range candidates {
			names = append(names, c.Name)
		}
		return fmt.Errorf("none of %s available on target", strings.Join(names, ", "))
	}
	return lastErr
}

// ShellQuote renders a command and its arguments as a single shell line,
// quoting anything that needs it. Used by the SSH runner and the dry-run
// plan printer.
func ShellQuote(name string, args ...string) string {
	parts := make([]string, 0, len(args)+1)
	for _, p := range append([]string{name}, args...) {
		parts = append(parts, quoteArg(p))
	}
	return strings.Join(parts, " ")
}

func quoteArg(s string) string {
	if s == "" {
		return "''"
	}
	if strings.ContainsAny(s, " \t\n\"'\\$&|;<>()*?[]#~%{}`!") {
		return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
	}
	return s
}
