// Copyright (c) 2026 Hostmaster Team
// Hostmaster - Linux host bootstrap tool
// This source code is licensed under the MIT license found in the LICENSE file.

package runner

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestShellQuote(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"apt-get", []string{"install", "-y", "docker-ce"}, "apt-get install -y docker-ce"},
		{"useradd", []string{"-c", "Deploy User", "deploy"}, "useradd -c 'Deploy User' deploy"},
		{"echo", []string{"a'b"}, `echo 'a'"'"'b'`},
		{"touch", []string{""}, "touch ''"},
		{"curl", []string{"https://get.docker.com"}, "curl https://get.docker.com"},
	}
	for _, tt := range tests {
		got := ShellQuote(tt.name, tt.args...)
		if got != tt.want {
			t.Errorf("ShellQuote(%q, %v) = %q, want %q", tt.name, tt.args, got, tt.want)
		}
	}
}

func TestFallbackFirstSucceeds(t *testing.T) {
	f := NewFake()
	err := Fallback(context.Background(), f,
		Candidate{Name: "useradd", Args: []string{"-m", "deploy"}},
		Candidate{Name: "adduser", Args: []string{"deploy"}},
	)
	if err != nil {
		t.Fatalf("Fallback returned error: %v", err)
	}
	if !f.Ran("useradd -m deploy") {
		t.Error("expected useradd to run")
	}
	if f.Ran("adduser deploy") {
		t.Error("adduser should not run when useradd succeeded")
	}
}

func TestFallbackSkipsMissingBinary(t *testing.T) {
	f := NewFake()
	f.Missing["useradd"] = true
	err := Fallback(context.Background(), f,
		Candidate{Name: "useradd", Args: []string{"-m", "deploy"}},
		Candidate{Name: "adduser", Args: []string{"deploy"}},
	)
	if err != nil {
		t.Fatalf("Fallback returned error: %v", err)
	}
	if f.Ran("useradd -m deploy") {
		t.Error("useradd should be skipped when the binary is missing")
	}
	if !f.Ran("adduser deploy") {
		t.Error("expected adduser to run")
	}
}

func TestFallbackTriesNextOnFailure(t *testing.T) {
	f := NewFake()
	f.Errors["groupadd -f docker"] = errors.New("boom")
	err := Fallback(context.Background(), f,
		Candidate{Name: "groupadd", Args: []string{"-f", "docker"}},
		Candidate{Name: "addgroup", Args: []string{"docker"}},
	)
	if err != nil {
		t.Fatalf("Fallback returned error: %v", err)
	}
	if !f.Ran("addgroup docker") {
		t.Error("expected addgroup after groupadd failed")
	}
}

func TestFallbackAllMissing(t *testing.T) {
	f := NewFake()
	f.Missing["useradd"] = true
	f.Missing["adduser"] = true
	err := Fallback(context.Background(), f,
		Candidate{Name: "useradd"},
		Candidate{Name: "adduser"},
	)
	if err == nil {
		t.Fatal("expected error when every candidate binary is missing")
	}
	if !strings.Contains(err.Error(), "useradd") || !strings.Contains(err.Error(), "adduser") {
		t.Errorf("error should name the candidates, got: %v", err)
	}
}

func TestFallbackAllFail(t *testing.T) {
	f := NewFake()
	wantErr := errors.New("no such group")
	f.Errors["usermod -aG docker deploy"] = errors.New("first failure")
	f.Errors["addgroup deploy docker"] = wantErr
	err := Fallback(context.Background(), f,
		Candidate{Name: "usermod", Args: []string{"-aG", "docker", "deploy"}},
		Candidate{Name: "addgroup", Args: []string{"deploy", "docker"}},
	)
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected last error to surface, got: %v", err)
	}
}

func TestBestEffortSwallowsError(t *testing.T) {
	called := false
	BestEffort("doomed step", func() error {
		called = true
		return errors.New("nope")
	})
	if !called {
		t.Fatal("BestEffort did not invoke fn")
	}
}
