// Copyright (c) 2026 Hostmaster Team
// Hostmaster - Linux host bootstrap tool
// This source code is licensed under the MIT license found in the LICENSE file.

package userprov

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/toeirei/hostmaster/internal/model"
	"github.com/toeirei/hostmaster/internal/runner"
	"github.com/toeirei/hostmaster/internal/state"
)

func newAbsentUserFake(username string) *runner.Fake {
	f := runner.NewFake()
	f.Errors["id -u "+username] = errors.New("no such user")
	return f
}

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"deploy", false},
		{"_svc", false},
		{"web-runner", false},
		{"user2", false},
		{"", true},
		{"Deploy", true},
		{"bad name", true},
		{"-lead", true},
		{"root;rm", true},
		{strings.Repeat("a", 33), true},
	}
	for _, tt := range tests {
		err := ValidateUsername(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateUsername(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestProvisionExistingUser(t *testing.T) {
	f := runner.NewFake() // `id -u` succeeds, so the user exists
	_, err := Provision(context.Background(), f, &model.OSInfo{ID: "debian"}, model.UserSpec{Username: "deploy"})
	if !errors.Is(err, ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestProvisionDebian(t *testing.T) {
	f := newAbsentUserFake("deploy")
	f.Outputs["getent passwd deploy"] = []byte("deploy:x:1001:1001:Deploy User:/home/deploy:/bin/bash\n")
	defer state.PasswordCache.Clear()

	spec := model.UserSpec{
		Username:         "deploy",
		FullName:         "Deploy User",
		Groups:           []string{"sudo"},
		GeneratePassword: true,
	}
	result, err := Provision(context.Background(), f, &model.OSInfo{ID: "debian"}, spec)
	if err != nil {
		t.Fatalf("Provision: %v", err)
	}

	if !f.Ran("useradd -m -s /bin/bash -c 'Deploy User' deploy") {
		t.Errorf("expected useradd, calls: %v", f.Calls)
	}
	if result.Home != "/home/deploy" {
		t.Errorf("Home = %q, want /home/deploy", result.Home)
	}
	// The generated password lives only in the mailbox.
	pass := string(state.PasswordCache.Get())
	if pass == "" {
		t.Fatal("expected a generated password in the mailbox")
	}

	// chpasswd received the same user:password over stdin.
	stdin := string(f.Files["stdin:chpasswd"])
	if stdin != "deploy:"+pass+"\n" {
		t.Errorf("chpasswd stdin = %q", stdin)
	}

	if !f.Ran("groupadd -f sudo") || !f.Ran("usermod -aG sudo deploy") {
		t.Errorf("expected group handling, calls: %v", f.Calls)
	}
}

func TestProvisionAlpinePrefersAdduser(t *testing.T) {
	f := newAbsentUserFake("deploy")
	spec := model.UserSpec{Username: "deploy", FullName: "Deploy"}
	if _, err := Provision(context.Background(), f, &model.OSInfo{ID: "alpine"}, spec); err != nil {
		t.Fatalf("Provision: %v", err)
	}
	if !f.Ran("adduser -D -s /bin/sh -g Deploy deploy") {
		t.Errorf("expected busybox adduser first on alpine, calls: %v", f.Calls)
	}
}

func TestProvisionFallsBackToAdduser(t *testing.T) {
	f := newAbsentUserFake("deploy")
	f.Missing["useradd"] = true
	spec := model.UserSpec{Username: "deploy"}
	if _, err := Provision(context.Background(), f, &model.OSInfo{ID: "debian"}, spec); err != nil {
		t.Fatalf("Provision: %v", err)
	}
	if !f.Ran("adduser --disabled-password --gecos deploy deploy") {
		t.Errorf("expected adduser fallback, calls: %v", f.Calls)
	}
}

func TestProvisionGroupFailureIsBestEffort(t *testing.T) {
	f := newAbsentUserFake("deploy")
	f.Errors["groupadd -f sudo"] = errors.New("denied")
	f.Missing["addgroup"] = true
	f.Errors["usermod -aG sudo deploy"] = errors.New("denied")

	spec := model.UserSpec{Username: "deploy", Groups: []string{"sudo"}}
	if _, err := Provision(context.Background(), f, &model.OSInfo{ID: "debian"}, spec); err != nil {
		t.Fatalf("group trouble must not fail the run, got: %v", err)
	}
}

func TestProvisionHomeFallback(t *testing.T) {
	f := newAbsentUserFake("deploy")
	f.Errors["getent passwd deploy"] = errors.New("no getent")
	spec := model.UserSpec{Username: "deploy"}
	result, err := Provision(context.Background(), f, &model.OSInfo{ID: "debian"}, spec)
	if err != nil {
		t.Fatalf("Provision: %v", err)
	}
	if result.Home != "/home/deploy" {
		t.Errorf("Home = %q, want fallback /home/deploy", result.Home)
	}
}

func TestProvisionInvalidUsername(t *testing.T) {
	f := runner.NewFake()
	_, err := Provision(context.Background(), f, &model.OSInfo{ID: "debian"}, model.UserSpec{Username: "Bad Name"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if len(f.Calls) != 0 {
		t.Errorf("nothing should run for an invalid username, got %v", f.Calls)
	}
}
