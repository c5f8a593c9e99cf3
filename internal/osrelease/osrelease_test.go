// Copyright (c) 2026 Hostmaster Team
// Hostmaster - Linux host bootstrap tool
// This source code is licensed under the MIT license found in the LICENSE file.

package osrelease

import (
	"testing"

	"github.com/toeirei/hostmaster/internal/model"
)

const debianRelease = `PRETTY_NAME="Debian GNU/Linux 12 (bookworm)"
NAME="Debian GNU/Linux"
VERSION_ID="12"
VERSION="12 (bookworm)"
VERSION_CODENAME=bookworm
ID=debian
HOME_URL="https://www.debian.org/"
`

const alpineRelease = `NAME="Alpine Linux"
ID=alpine
VERSION_ID=3.20.2
PRETTY_NAME="Alpine Linux v3.20"
`

const rockyRelease = `NAME="Rocky Linux"
VERSION="9.4 (Blue Onyx)"
ID="rocky"
ID_LIKE="rhel centos fedora"
PRETTY_NAME="Rocky Linux 9.4 (Blue Onyx)"
`

func TestParseDebian(t *testing.T) {
	info, err := Parse([]byte(debianRelease))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if info.ID != "debian" {
		t.Errorf("ID = %q, want debian", info.ID)
	}
	if info.VersionCodename != "bookworm" {
		t.Errorf("VersionCodename = %q, want bookworm", info.VersionCodename)
	}
	if info.PrettyName != "Debian GNU/Linux 12 (bookworm)" {
		t.Errorf("PrettyName = %q", info.PrettyName)
	}
}

func TestParseIDLike(t *testing.T) {
	info, err := Parse([]byte(rockyRelease))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	want := []string{"rhel", "centos", "fedora"}
	if len(info.IDLike) != len(want) {
		t.Fatalf("IDLike = %v, want %v", info.IDLike, want)
	}
	for i := range want {
		if info.IDLike[i] != want[i] {
			t.Errorf("IDLike[%d] = %q, want %q", i, info.IDLike[i], want[i])
		}
	}
}

func TestParseTolerance(t *testing.T) {
	data := "# comment line\n\nID='ubuntu'\nGARBAGE\nPRETTY_NAME=Ubuntu\n"
	info, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if info.ID != "ubuntu" {
		t.Errorf("ID = %q, want ubuntu", info.ID)
	}
}

func TestParseMissingID(t *testing.T) {
	if _, err := Parse([]byte("PRETTY_NAME=Mystery\n")); err == nil {
		t.Fatal("expected error for os-release without ID")
	}
}

func TestFamilyOf(t *testing.T) {
	tests := []struct {
		name string
		info *model.OSInfo
		want Family
	}{
		{"debian", &model.OSInfo{ID: "debian"}, FamilyDebian},
		{"ubuntu", &model.OSInfo{ID: "ubuntu"}, FamilyDebian},
		{"raspbian", &model.OSInfo{ID: "raspbian"}, FamilyDebian},
		{"alpine", &model.OSInfo{ID: "alpine"}, FamilyAlpine},
		{"rocky via id", &model.OSInfo{ID: "rocky"}, FamilyRHEL},
		{"fedora", &model.OSInfo{ID: "fedora"}, FamilyRHEL},
		{"amazon linux", &model.OSInfo{ID: "amzn"}, FamilyRHEL},
		{"derivative via id_like", &model.OSInfo{ID: "zorin", IDLike: []string{"ubuntu", "debian"}}, FamilyDebian},
		{"unknown", &model.OSInfo{ID: "haiku"}, FamilyUnknown},
		{"nil", nil, FamilyUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FamilyOf(tt.info); got != tt.want {
				t.Errorf("FamilyOf(%v) = %q, want %q", tt.info, got, tt.want)
			}
		})
	}
}
