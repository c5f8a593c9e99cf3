// Copyright (c) 2026 Hostmaster Team
// Hostmaster - Linux host bootstrap tool
// This source code is licensed under the MIT license found in the LICENSE file.

// package userprov provisions a local user account: creation with the
// useradd→adduser fallback chain, password via chpasswd, group membership,
// and SSH credentials.
package userprov

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/toeirei/hostmaster/internal/model"
	"github.com/toeirei/hostmaster/internal/osrelease"
	"github.com/toeirei/hostmaster/internal/runner"
	"github.com/toeirei/hostmaster/internal/state"
)

// ErrUserExists is returned when the requested account already exists.
// Callers translate it to exit code 2.
var ErrUserExists = errors.New("user already exists")

// usernameRe is the portable username charset (POSIX plus the common
// trailing-dash tolerance).
var usernameRe = regexp.MustCompile(`^[a-z_][a-z0-9_-]*\$?$`)

// ValidateUsername rejects names that useradd would refuse anyway, before
// any command runs.
func ValidateUsername(name string) error {
	if name == "" {
		return errors.New("username must not be empty")
	}
	if len(name) > 32 {
		return fmt.Errorf("username %q exceeds 32 characters", name)
	}
	if !usernameRe.MatchString(name) {
		return fmt.Errorf("username %q contains characters outside [a-z0-9_-]", name)
	}
	return nil
}

// Provision creates the user described by spec on the target host and
// returns the result for the final report. The generated password, if any,
// is parked in the state mailbox and never journaled.
func Provision(ctx context.Context, r runner.Runner, info *model.OSInfo, spec model.UserSpec) (*model.UserResult, error) {
	if err := ValidateUsername(spec.Username); err != nil {
		return nil, err
	}

	if userExists(ctx, r, spec.Username) {
		return nil, fmt.Errorf("%w: %s", ErrUserExists, spec.Username)
	}

	if err := createUser(ctx, r, info, spec); err != nil {
		return nil, fmt.Errorf("failed to create user %s: %w", spec.Username, err)
	}

	result := &model.UserResult{Username: spec.Username, Created: true}

	if spec.GeneratePassword {
		pass, err := GeneratePassword(PasswordLength)
		if err != nil {
			return result, err
		}
		if err := r.RunInput(ctx, fmt.Sprintf("%s:%s\n", spec.Username, pass), "chpasswd"); err != nil {
			return result, fmt.Errorf("failed to set password: %w", err)
		}
		state.PasswordCache.Set([]byte(pass))
	}

	for _, group := range spec.Groups {
		addToGroup(ctx, r, spec.Username, group)
	}

	home := homeDir(ctx, r, spec.Username)
	result.Home = home

	if spec.GenerateKey || spec.AuthorizedKey != "" {
		if err := setupSSH(ctx, r, spec, home, result); err != nil {
			return result, err
		}
	}

	return result, nil
}

// userExists probes with `id -u`, which works on every supported family.
func userExists(ctx context.Context, r runner.Runner, username string) bool {
	_, err := r.Output(ctx, "id", "-u", username)
	return err == nil
}

// createUser runs the family-appropriate creation command with the
// useradd→adduser fallback chain.
func createUser(ctx context.Context, r runner.Runner, info *model.OSInfo, spec model.UserSpec) error {
	shell := spec.Shell
	if shell == "" {
		shell = "/bin/bash"
	}
	if osrelease.FamilyOf(info) == osrelease.FamilyAlpine {
		// BusyBox adduser first; shadow's useradd may also be installed.
		busybox := []string{"-D", "-s", "/bin/sh"}
		if spec.FullName != "" {
			busybox = append(busybox, "-g", spec.FullName)
		}
		busybox = append(busybox, spec.Username)
		return runner.Fallback(ctx, r,
			runner.Candidate{Name: "adduser", Args: busybox},
			runner.Candidate{Name: "useradd", Args: useraddArgs(spec, shell)},
		)
	}
	return runner.Fallback(ctx, r,
		runner.Candidate{Name: "useradd", Args: useraddArgs(spec, shell)},
		runner.Candidate{Name: "adduser", Args: adduserArgs(spec)},
	)
}

func useraddArgs(spec model.UserSpec, shell string) []string {
	args := []string{"-m", "-s", shell}
	if spec.FullName != "" {
		args = append(args, "-c", spec.FullName)
	}
	return append(args, spec.Username)
}

func adduserArgs(spec model.UserSpec) []string {
	gecos := spec.FullName
	if gecos == "" {
		gecos = spec.Username
	}
	return []string{"--disabled-password", "--gecos", gecos, spec.Username}
}

// addToGroup ensures the group exists and adds the user, best effort, with
// the usermod→addgroup fallback chain.
func addToGroup(ctx context.Context, r runner.Runner, username, group string) {
	runner.BestEffort("create group "+group, func() error {
		return runner.Fallback(ctx, r,
			runner.Candidate{Name: "groupadd", Args: []string{"-f", group}},
			runner.Candidate{Name: "addgroup", Args: []string{group}},
		)
	})
	runner.BestEffort("add "+username+" to "+group, func() error {
		return runner.Fallback(ctx, r,
			runner.Candidate{Name: "usermod", Args: []string{"-aG", group, username}},
			runner.Candidate{Name: "addgroup", Args: []string{username, group}},
		)
	})
}

// homeDir resolves the account's home from getent, defaulting to
// /home/<name> when the database is not answering.
func homeDir(ctx context.Context, r runner.Runner, username string) string {
	out, err := r.Output(ctx, "getent", "passwd", username)
	if err == nil {
		fields := strings.Split(strings.TrimSpace(string(out)), ":")
		if len(fields) >= 6 && fields[5] != "" {
			return fields[5]
		}
	}
	return "/home/" + username
}
