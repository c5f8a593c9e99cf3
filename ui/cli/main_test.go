// Copyright (c) 2026 Hostmaster Team
// Hostmaster - Linux host bootstrap tool
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"testing"

	"github.com/toeirei/hostmaster/internal/db"
	"github.com/toeirei/hostmaster/internal/osrelease"
)

func TestResolveBuildVersionFromBuildInfo(t *testing.T) {
	info := &debug.BuildInfo{}
	info.Main.Version = "v1.4.0"
	info.Settings = []debug.BuildSetting{
		{Key: "vcs.revision", Value: "abc1234"},
		{Key: "vcs.time", Value: "2026-08-30T10:00:00Z"},
	}

	v, c, d := resolveBuildVersion(info)
	if v != "v1.4.0" {
		t.Errorf("version = %q, want v1.4.0", v)
	}
	if c != "abc1234" {
		t.Errorf("commit = %q, want abc1234", c)
	}
	if d != "2026-08-30T10:00:00Z" {
		t.Errorf("date = %q", d)
	}
}

func TestResolveBuildVersionDevelFallsThrough(t *testing.T) {
	info := &debug.BuildInfo{}
	info.Main.Version = "(devel)"
	v, _, _ := resolveBuildVersion(info)
	if v != "dev" && v != gitCommit {
		t.Errorf("version = %q, want the linker default", v)
	}
}

func TestNewRootCmdHasSubcommands(t *testing.T) {
	cmd := NewRootCmd()
	want := map[string]bool{
		"docker": false, "k3s": false, "user": false,
		"history": false, "trust-host": false, "version": false,
	}
	for _, sub := range cmd.Commands() {
		if _, ok := want[sub.Name()]; ok {
			want[sub.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestNewRootCmdFlags(t *testing.T) {
	cmd := NewRootCmd()
	for _, name := range []string{"config", "debug", "yes", "dry-run", "host", "ssh-key", "language"} {
		if cmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("persistent flag --%s not defined", name)
		}
	}
	if cmd.Flags().Lookup("database.type") == nil {
		t.Error("flag --database.type not defined")
	}
}

func TestNewRootCmdTwiceDoesNotPanic(t *testing.T) {
	// Package-level subcommands are shared; building a second root must not
	// redefine their flags.
	_ = NewRootCmd()
	_ = NewRootCmd()
}

// captureExit swaps osExit for a recorder that aborts failTask the way a
// real exit would, and returns a pointer to the recorded code.
func captureExit(t *testing.T) *int {
	t.Helper()
	orig := osExit
	t.Cleanup(func() { osExit = orig })
	code := -1
	osExit = func(c int) {
		code = c
		panic("exit")
	}
	return &code
}

func TestFailTaskRunsCleanupsBeforeExit(t *testing.T) {
	code := captureExit(t)
	cleaned := false

	func() {
		defer func() { _ = recover() }()
		failTask("DOCKER_INSTALL", errors.New("boom"), func() { cleaned = true })
	}()

	if !cleaned {
		t.Error("cleanup did not run before exit")
	}
	if *code != 1 {
		t.Errorf("exit code = %d, want 1", *code)
	}
}

func TestFailTaskUnsupportedOSExitsTwo(t *testing.T) {
	code := captureExit(t)

	func() {
		defer func() { _ = recover() }()
		failTask("K3S_INSTALL", fmt.Errorf("detect: %w", osrelease.ErrUnsupported))
	}()

	if *code != 2 {
		t.Errorf("exit code = %d, want 2", *code)
	}
}

func TestSetupWritesDefaultConfigOnFirstRun(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("relies on XDG_CONFIG_HOME resolution")
	}
	t.Chdir(t.TempDir())
	cfgHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", cfgHome)
	if _, err := os.Stat("/etc/hostmaster/hostmaster.yaml"); err == nil {
		t.Skip("system-wide config present")
	}

	// Pre-wire an in-memory store so setup does not create a database file.
	s, err := db.NewStoreFromDSN("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("NewStoreFromDSN: %v", err)
	}
	db.SetStore(s)
	t.Cleanup(func() {
		db.SetStore(nil)
		_ = s.Close()
	})

	cmd := NewRootCmd()
	if err := setupDefaultServices(cmd, nil); err != nil {
		t.Fatalf("setupDefaultServices: %v", err)
	}

	written := filepath.Join(cfgHome, "hostmaster", "hostmaster.yaml")
	if _, err := os.Stat(written); err != nil {
		t.Fatalf("starter config not written on first run: %v", err)
	}
}

func TestGetConfigPathFromCliUnset(t *testing.T) {
	cmd := NewRootCmd()
	path, err := getConfigPathFromCli(cmd)
	if err != nil {
		t.Fatalf("getConfigPathFromCli: %v", err)
	}
	if path != nil {
		t.Errorf("expected nil path when --config is not set, got %q", *path)
	}
}

func TestGetConfigPathFromCliMissingFile(t *testing.T) {
	cmd := NewRootCmd()
	if err := cmd.PersistentFlags().Set("config", "/does/not/exist.yaml"); err != nil {
		t.Fatal(err)
	}
	if _, err := getConfigPathFromCli(cmd); err == nil {
		t.Fatal("expected error for a missing config file")
	}
}

func TestGetConfigPathFromCliValidFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "hostmaster.yaml")
	if err := os.WriteFile(file, []byte("language: en\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cmd := NewRootCmd()
	if err := cmd.PersistentFlags().Set("config", file); err != nil {
		t.Fatal(err)
	}
	path, err := getConfigPathFromCli(cmd)
	if err != nil {
		t.Fatalf("getConfigPathFromCli: %v", err)
	}
	if path == nil || *path != file {
		t.Errorf("path = %v, want %q", path, file)
	}
}
