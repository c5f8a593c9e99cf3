// Copyright (c) 2026 Hostmaster Team
// Hostmaster - Linux host bootstrap tool
// This source code is licensed under the MIT license found in the LICENSE file.

package model

import "fmt"

// OSInfo is the detected identity of the host being bootstrapped, taken
// from /etc/os-release.
type OSInfo struct {
	ID              string
	IDLike          []string
	PrettyName      string
	VersionCodename string
}

// JournalEntry is a single row of the provisioning journal. Every task the
// tool runs (or fails to run) leaves exactly one entry behind.
type JournalEntry struct {
	ID        int    `json:"id"`
	Timestamp string `json:"timestamp"`
	Action    string `json:"action"`
	Details   string `json:"details"`
}

// UserSpec describes the local user a provisioning run should create.
type UserSpec struct {
	Username         string
	FullName         string
	Shell            string
	Groups           []string
	GeneratePassword bool
	GenerateKey      bool
	UseRSA           bool
	AuthorizedKey    string
}

// String returns the username for log lines.
func (u UserSpec) String() string {
	return u.Username
}

// UserResult is what a completed user provisioning run reports back. The
// generated password is deliberately not part of it; it travels through the
// state mailbox so it can be zeroed after the one-time print.
type UserResult struct {
	Username           string
	Home               string
	PublicKey          string
	Fingerprint        string
	AuthorizedKeysPath string
	Created            bool
}

// StepResult records the outcome of one step of an install sequence for the
// final report.
type StepResult struct {
	Name    string
	Skipped bool
	Err     error
}

// Report is the human-readable summary a task prints when it finishes.
type Report struct {
	Task  string
	Steps []StepResult
	Notes []string
}

// Failed reports whether any non-skipped step ended with an error.
func (r *Report) Failed() bool {
	for _, s := range r.Steps {
		if s.Err != nil {
			return true
		}
	}
	return false
}

// AddStep appends a step outcome to the report.
func (r *Report) AddStep(name string, err error) {
	r.Steps = append(r.Steps, StepResult{Name: name, Err: err})
}

// AddSkipped appends a step that was deliberately not run.
func (r *Report) AddSkipped(name string) {
	r.Steps = append(r.Steps, StepResult{Name: name, Skipped: true})
}

// AddNote appends a free-form line to the report footer.
func (r *Report) AddNote(format string, args ...any) {
	r.Notes = append(r.Notes, fmt.Sprintf(format, args...))
}

// BackupData is the container for journal export/import files.
type BackupData struct {
	ExportedAt string         `json:"exported_at"`
	Entries    []JournalEntry `json:"entries"`
}
