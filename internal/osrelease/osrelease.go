// Copyright (c) 2026 Hostmaster Team
// Hostmaster - Linux host bootstrap tool
// This source code is licensed under the MIT license found in the LICENSE file.

// package osrelease reads the host's /etc/os-release descriptor and maps it
// to the package-manager family the install sequences branch on.
package osrelease

import (
	"bufio"
	"bytes"
	"errors"
	"strings"

	"github.com/toeirei/hostmaster/internal/model"
)

// Path is the standard location of the os-release descriptor.
const Path = "/etc/os-release"

// Family groups distributions by the package manager they carry.
type Family string

const (
	FamilyDebian  Family = "debian"
	FamilyAlpine  Family = "alpine"
	FamilyRHEL    Family = "rhel"
	FamilyUnknown Family = "unknown"
)

// ErrUnsupported is returned when a task has no install sequence for the
// detected OS and no fallback path. Callers translate it to exit code 2.
var ErrUnsupported = errors.New("unsupported operating system")

// Parse extracts the fields Hostmaster cares about from os-release content.
// It tolerates comments, blank lines and both quoting styles.
func Parse(data []byte) (*model.OSInfo, error) {
	info := &model.OSInfo{}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		value = unquote(strings.TrimSpace(value))
		switch strings.TrimSpace(key) {
		case "ID":
			info.ID = strings.ToLower(value)
		case "ID_LIKE":
			for _, f := range strings.Fields(strings.ToLower(value)) {
				info.IDLike = append(info.IDLike, f)
			}
		case "PRETTY_NAME":
			info.PrettyName = value
		case "VERSION_CODENAME":
			info.VersionCodename = strings.ToLower(value)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if info.ID == "" {
		return nil, errors.New("os-release: missing ID field")
	}
	return info, nil
}

// FamilyOf maps an os-release identity to a package-manager family,
// consulting ID first and falling back to ID_LIKE.
func FamilyOf(info *model.OSInfo) Family {
	if info == nil {
		return FamilyUnknown
	}
	if f := familyOfID(info.ID); f != FamilyUnknown {
		return f
	}
	for _, like := range info.IDLike {
		if f := familyOfID(like); f != FamilyUnknown {
			return f
		}
	}
	return FamilyUnknown
}

func familyOfID(id string) Family {
	switch id {
	case "debian", "ubuntu", "raspbian", "linuxmint", "pop":
		return FamilyDebian
	case "alpine":
		return FamilyAlpine
	case "rhel", "centos", "rocky", "almalinux", "fedora", "ol", "amzn":
		return FamilyRHEL
	}
	return FamilyUnknown
}

func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
