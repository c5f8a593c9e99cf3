// Copyright (c) 2026 Hostmaster Team
// Hostmaster - Linux host bootstrap tool
// This source code is licensed under the MIT license found in the LICENSE file.

package pkgmgr

import (
	"context"
	"errors"
	"testing"

	"github.com/toeirei/hostmaster/internal/model"
	"github.com/toeirei/hostmaster/internal/osrelease"
	"github.com/toeirei/hostmaster/internal/runner"
)

func TestRefreshPerFamily(t *testing.T) {
	tests := []struct {
		family osrelease.Family
		want   string
	}{
		{osrelease.FamilyDebian, "env DEBIAN_FRONTEND=noninteractive apt-get update"},
		{osrelease.FamilyAlpine, "apk update"},
		{osrelease.FamilyRHEL, "dnf makecache"},
	}
	for _, tt := range tests {
		t.Run(string(tt.family), func(t *testing.T) {
			f := runner.NewFake()
			m := &Manager{Family: tt.family}
			if err := m.Refresh(context.Background(), f); err != nil {
				t.Fatalf("Refresh: %v", err)
			}
			if !f.Ran(tt.want) {
				t.Errorf("expected %q, calls: %v", tt.want, f.Calls)
			}
		})
	}
}

func TestRefreshUnknownFamily(t *testing.T) {
	m := &Manager{Family: osrelease.FamilyUnknown}
	err := m.Refresh(context.Background(), runner.NewFake())
	if !errors.Is(err, osrelease.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestInstallPerFamily(t *testing.T) {
	tests := []struct {
		family osrelease.Family
		want   string
	}{
		{osrelease.FamilyDebian, "env DEBIAN_FRONTEND=noninteractive apt-get install -y curl jq"},
		{osrelease.FamilyAlpine, "apk add curl jq"},
		{osrelease.FamilyRHEL, "dnf install -y curl jq"},
	}
	for _, tt := range tests {
		t.Run(string(tt.family), func(t *testing.T) {
			f := runner.NewFake()
			m := &Manager{Family: tt.family}
			if err := m.Install(context.Background(), f, "curl", "jq"); err != nil {
				t.Fatalf("Install: %v", err)
			}
			if !f.Ran(tt.want) {
				t.Errorf("expected %q, calls: %v", tt.want, f.Calls)
			}
		})
	}
}

func TestInstallNoPackagesIsNoop(t *testing.T) {
	f := runner.NewFake()
	m := &Manager{Family: osrelease.FamilyDebian}
	if err := m.Install(context.Background(), f); err != nil {
		t.Fatalf("Install: %v", err)
	}
	if len(f.Calls) != 0 {
		t.Errorf("expected no calls, got %v", f.Calls)
	}
}

func TestRHELFallsBackToYum(t *testing.T) {
	f := runner.NewFake()
	f.Missing["dnf"] = true
	m := &Manager{Family: osrelease.FamilyRHEL}
	if err := m.Install(context.Background(), f, "docker-ce"); err != nil {
		t.Fatalf("Install: %v", err)
	}
	if !f.Ran("yum install -y docker-ce") {
		t.Errorf("expected yum fallback, calls: %v", f.Calls)
	}
}

func TestEnableServiceSystemd(t *testing.T) {
	f := runner.NewFake()
	m := For(&model.OSInfo{ID: "debian"})
	m.EnableService(context.Background(), f, "docker")
	if !f.Ran("systemctl enable --now docker") {
		t.Errorf("expected systemctl enable, calls: %v", f.Calls)
	}
}

func TestEnableServiceOpenRC(t *testing.T) {
	f := runner.NewFake()
	m := For(&model.OSInfo{ID: "alpine"})
	m.EnableService(context.Background(), f, "docker")
	if !f.Ran("rc-update add docker boot") {
		t.Errorf("expected rc-update add, calls: %v", f.Calls)
	}
	if !f.Ran("service docker start") {
		t.Errorf("expected service start, calls: %v", f.Calls)
	}
}

func TestEnableServiceFailureIsBestEffort(t *testing.T) {
	f := runner.NewFake()
	f.Errors["systemctl enable --now docker"] = errors.New("no systemd here")
	m := &Manager{Family: osrelease.FamilyDebian}
	// Must not panic or propagate; EnableService has no error return.
	m.EnableService(context.Background(), f, "docker")
}
