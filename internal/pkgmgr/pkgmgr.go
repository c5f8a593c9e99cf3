// Copyright (c) 2026 Hostmaster Team
// Hostmaster - Linux host bootstrap tool
// This source code is licensed under the MIT license found in the LICENSE file.

// package pkgmgr maps an OS family to its package manager invocations so the
// install sequences can branch once and stay readable.
package pkgmgr

import (
	"context"
	"fmt"

	"github.com/toeirei/hostmaster/internal/model"
	"github.com/toeirei/hostmaster/internal/osrelease"
	"github.com/toeirei/hostmaster/internal/runner"
)

// Manager issues package-manager commands for one OS family.
type Manager struct {
	Family osrelease.Family
}

// For returns the package manager frontend for the detected OS.
func For(info *model.OSInfo) *Manager {
	return &Manager{Family: osrelease.FamilyOf(info)}
}

// Refresh updates the package index (apt-get update, apk update, dnf makecache).
func (m *Manager) Refresh(ctx context.Context, r runner.Runner) error {
	switch m.Family {
	case osrelease.FamilyDebian:
		return r.Run(ctx, "env", "DEBIAN_FRONTEND=noninteractive", "apt-get", "update")
	case osrelease.FamilyAlpine:
		return r.Run(ctx, "apk", "update")
	case osrelease.FamilyRHEL:
		return r.Run(ctx, m.rhelTool(r), "makecache")
	}
	return fmt.Errorf("%w: no package index refresh for family %q", osrelease.ErrUnsupported, m.Family)
}

// Install installs the given packages non-interactively.
func (m *Manager) Install(ctx context.Context, r runner.Runner, pkgs ...string) error {
	if len(pkgs) == 0 {
		return nil
	}
	switch m.Family {
	case osrelease.FamilyDebian:
		args := append([]string{"DEBIAN_FRONTEND=noninteractive", "apt-get", "install", "-y"}, pkgs...)
		return r.Run(ctx, "env", args...)
	case osrelease.FamilyAlpine:
		return r.Run(ctx, "apk", append([]string{"add"}, pkgs...)...)
	case osrelease.FamilyRHEL:
		return r.Run(ctx, m.rhelTool(r), append([]string{"install", "-y"}, pkgs...)...)
	}
	return fmt.Errorf("%w: no install sequence for family %q", osrelease.ErrUnsupported, m.Family)
}

// EnableService enables and starts a system service, best effort. Debian and
// RHEL families use systemd; Alpine uses OpenRC.
func (m *Manager) EnableService(ctx context.Context, r runner.Runner, service string) {
	switch m.Family {
	case osrelease.FamilyAlpine:
		runner.BestEffort("rc-update add "+service, func() error {
			return r.Run(ctx, "rc-update", "add", service, "boot")
		})
		runner.BestEffort("service start "+service, func() error {
			return r.Run(ctx, "service", service, "start")
		})
	default:
		runner.BestEffort("systemctl enable "+service, func() error {
			return r.Run(ctx, "systemctl", "enable", "--now", service)
		})
	}
}

// rhelTool prefers dnf and falls back to yum on older hosts.
func (m *Manager) rhelTool(r runner.Runner) string {
	if _, ok := r.LookPath("dnf"); ok {
		return "dnf"
	}
	return "yum"
}
