// Copyright (c) 2026 Hostmaster Team
// Hostmaster - Linux host bootstrap tool
// This source code is licensed under the MIT license found in the LICENSE file.

package i18n

import (
	"strings"
	"testing"
)

func TestTranslateEnglish(t *testing.T) {
	Init("en")
	got := T("cli.cancelled")
	if got != "Cancelled." {
		t.Errorf("T(cli.cancelled) = %q", got)
	}
}

func TestTranslateGerman(t *testing.T) {
	Init("de")
	defer Init("en")
	got := T("cli.cancelled")
	if got != "Abgebrochen." {
		t.Errorf("T(cli.cancelled) in de = %q", got)
	}
}

func TestTranslateWithArgs(t *testing.T) {
	Init("en")
	got := T("cli.detected_os", "Debian GNU/Linux 12")
	if !strings.Contains(got, "Debian GNU/Linux 12") {
		t.Errorf("T with args = %q", got)
	}
}

func TestUnknownIDFallsBackToID(t *testing.T) {
	Init("en")
	if got := T("does.not.exist"); got != "does.not.exist" {
		t.Errorf("unknown ID returned %q", got)
	}
}

func TestUninitializedDefaultsToEnglish(t *testing.T) {
	localizer = nil
	bundle = nil
	if got := T("cli.cancelled"); got != "Cancelled." {
		t.Errorf("lazy init returned %q", got)
	}
}

func TestSetLang(t *testing.T) {
	SetLang("de")
	defer SetLang("en")
	if got := T("report.skipped"); got != "(übersprungen)" {
		t.Errorf("T(report.skipped) after SetLang(de) = %q", got)
	}
}
