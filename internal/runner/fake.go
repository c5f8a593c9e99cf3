// Copyright (c) 2026 Hostmaster Team
// Hostmaster - Linux host bootstrap tool
// This source code is licensed under the MIT license found in the LICENSE file.

package runner

import (
	"context"
	"os"
	"sync"
)

// Fake is a scripted Runner for tests. It records every invocation and
// plays back configured results, so install sequences can be verified
// without touching package managers or the network.
type Fake struct {
	mu sync.Mutex

	// Calls records every command rendered as a shell line, in order.
	Calls []string
	// Files records WriteFile contents by path.
	Files map[string][]byte
	// FileData seeds ReadFile responses by path.
	FileData map[string][]byte
	// Missing marks binaries LookPath should report as absent.
	Missing map[string]bool
	// Errors maps a rendered command line to the error Run/RunInput/RunShell
	// should return for it.
	Errors map[string]error
	// Outputs maps a rendered command line to the bytes Output returns.
	Outputs map[string][]byte
}

// NewFake returns an empty scripted runner.
func NewFake() *Fake {
	return &Fake{
		Files:    map[string][]byte{},
		FileData: map[string][]byte{},
		Missing:  map[string]bool{},
		Errors:   map[string]error{},
		Outputs:  map[string][]byte{},
	}
}

func (f *Fake) record(line string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, line)
	return f.Errors[line]
}

// Run records the call and returns any scripted error.
func (f *Fake) Run(ctx context.Context, name string, args ...string) error {
	return f.record(ShellQuote(name, args...))
}

// Output records the call and returns the scripted output.
func (f *Fake) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	line := ShellQuote(name, args...)
	err := f.record(line)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Outputs[line], err
}

// RunShell records the script line.
func (f *Fake) RunShell(ctx context.Context, script string) error {
	return f.record("sh -c " + script)
}

// RunInput records the call; stdin is recorded separately under Files with
// a "stdin:" prefix so tests can assert on chpasswd input.
func (f *Fake) RunInput(ctx context.Context, stdin, name string, args ...string) error {
	line := ShellQuote(name, args...)
	f.mu.Lock()
	f.Files["stdin:"+line] = []byte(stdin)
	f.mu.Unlock()
	return f.record(line)
}

// WriteFile stores the content for later assertions.
func (f *Fake) WriteFile(path string, data []byte, perm os.FileMode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, "write "+path)
	cp := make([]byte, len(data))
	copy(cp, data)
	f.Files[path] = cp
	return nil
}

// ReadFile returns seeded content, falling back to previously written files.
func (f *Fake) ReadFile(path string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if data, ok := f.FileData[path]; ok {
		return data, nil
	}
	if data, ok := f.Files[path]; ok {
		return data, nil
	}
	return nil, os.ErrNotExist
}

// LookPath reports every binary as present unless marked Missing.
func (f *Fake) LookPath(name string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Missing[name] {
		return "", false
	}
	return "/usr/bin/" + name, true
}

// Ran reports whether a command line (rendered with ShellQuote) was recorded.
func (f *Fake) Ran(line string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.Calls {
		if c == line {
			return true
		}
	}
	return false
}
