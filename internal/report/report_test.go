// Copyright (c) 2026 Hostmaster Team
// Hostmaster - Linux host bootstrap tool
// This source code is licensed under the MIT license found in the LICENSE file.

package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/toeirei/hostmaster/internal/model"
	"github.com/toeirei/hostmaster/internal/state"
)

func TestPrintReport(t *testing.T) {
	r := &model.Report{Task: "docker"}
	r.AddStep("refresh package index", nil)
	r.AddStep("install engine packages", errors.New("apt exploded"))
	r.AddSkipped("enable docker service")
	r.AddNote("Docker version 27.1.1")

	var buf bytes.Buffer
	Print(&buf, r)
	out := buf.String()

	for _, want := range []string{
		"docker",
		"refresh package index",
		"install engine packages",
		"apt exploded",
		"enable docker service",
		"Docker version 27.1.1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintUserShowsPasswordOnce(t *testing.T) {
	const pass = "Tr0ub4dor20Characters"
	state.PasswordCache.Set([]byte(pass))
	defer state.PasswordCache.Clear()

	res := &model.UserResult{
		Username:           "deploy",
		Home:               "/home/deploy",
		Fingerprint:        "SHA256:abcdef",
		AuthorizedKeysPath: "/home/deploy/.ssh/authorized_keys",
		PublicKey:          "ssh-ed25519 AAAA deploy@hostmaster",
	}

	var buf bytes.Buffer
	PrintUser(&buf, res)
	out := buf.String()

	if count := strings.Count(out, pass); count != 1 {
		t.Errorf("password printed %d times, want exactly once", count)
	}
	for _, want := range []string{"deploy", "/home/deploy", "SHA256:abcdef"} {
		if !strings.Contains(out, want) {
			t.Errorf("user summary missing %q:\n%s", want, out)
		}
	}
}

func TestPrintUserWithoutPassword(t *testing.T) {
	state.PasswordCache.Clear()
	res := &model.UserResult{Username: "deploy", Home: "/home/deploy"}
	var buf bytes.Buffer
	PrintUser(&buf, res)
	if strings.Contains(buf.String(), "Password") {
		t.Error("password row printed for a passwordless account")
	}
}

func TestTruncateKey(t *testing.T) {
	short := "ssh-ed25519 AAAA deploy"
	if got := truncateKey(short); got != short {
		t.Errorf("short key changed: %q", got)
	}
	long := strings.Repeat("A", 200)
	got := truncateKey(long)
	if len(got) >= 200 || !strings.Contains(got, "...") {
		t.Errorf("long key not truncated: %q", got)
	}
}
