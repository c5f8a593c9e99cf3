// Copyright (c) 2026 Hostmaster Team
// Hostmaster - Linux host bootstrap tool
// This source code is licensed under the MIT license found in the LICENSE file.

package userprov

import (
	"strings"
	"testing"
)

func TestGeneratePasswordLength(t *testing.T) {
	pass, err := GeneratePassword(PasswordLength)
	if err != nil {
		t.Fatalf("GeneratePassword: %v", err)
	}
	if len(pass) != PasswordLength {
		t.Errorf("len = %d, want %d", len(pass), PasswordLength)
	}
}

func TestGeneratePasswordDefaultsLength(t *testing.T) {
	pass, err := GeneratePassword(0)
	if err != nil {
		t.Fatalf("GeneratePassword: %v", err)
	}
	if len(pass) != PasswordLength {
		t.Errorf("len = %d, want default %d", len(pass), PasswordLength)
	}
}

func TestGeneratePasswordAlphabet(t *testing.T) {
	pass, err := GeneratePassword(256)
	if err != nil {
		t.Fatalf("GeneratePassword: %v", err)
	}
	for _, r := range pass {
		if !strings.ContainsRune(passwordAlphabet, r) {
			t.Fatalf("character %q outside the safe alphabet", r)
		}
	}
}

func TestGeneratePasswordUnique(t *testing.T) {
	a, err := GeneratePassword(PasswordLength)
	if err != nil {
		t.Fatal(err)
	}
	b, err := GeneratePassword(PasswordLength)
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Error("two generated passwords are identical")
	}
}
