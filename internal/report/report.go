// Copyright (c) 2026 Hostmaster Team
// Hostmaster - Linux host bootstrap tool
// This source code is licensed under the MIT license found in the LICENSE file.

// package report renders the end-of-run summary a task prints to the
// terminal.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/toeirei/hostmaster/internal/i18n"
	"github.com/toeirei/hostmaster/internal/model"
	"github.com/toeirei/hostmaster/internal/state"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")).
			MarginTop(1)
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	skipStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	noteStyle    = lipgloss.NewStyle().Faint(true)
	secretStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	labelStyle   = lipgloss.NewStyle().Width(18)
	sectionStyle = lipgloss.NewStyle().MarginLeft(2)
)

// Print renders the task report.
func Print(w io.Writer, r *model.Report) {
	fmt.Fprintln(w, titleStyle.Render(i18n.T("report.title", r.Task)))
	for _, s := range r.Steps {
		switch {
		case s.Skipped:
			fmt.Fprintln(w, sectionStyle.Render(skipStyle.Render("- ")+s.Name+" "+skipStyle.Render(i18n.T("report.skipped"))))
		case s.Err != nil:
			fmt.Fprintln(w, sectionStyle.Render(failStyle.Render("x ")+s.Name+": "+s.Err.Error()))
		default:
			fmt.Fprintln(w, sectionStyle.Render(okStyle.Render("+ ")+s.Name))
		}
	}
	for _, n := range r.Notes {
		fmt.Fprintln(w, sectionStyle.Render(noteStyle.Render(n)))
	}
}

// PrintUser renders the user provisioning summary. The generated password
// is read from the state mailbox and appears here exactly once.
func PrintUser(w io.Writer, res *model.UserResult) {
	fmt.Fprintln(w, titleStyle.Render(i18n.T("report.user_title", res.Username)))
	rows := []struct{ label, value string }{
		{i18n.T("report.user_home"), res.Home},
		{i18n.T("report.user_keys"), res.AuthorizedKeysPath},
		{i18n.T("report.user_fingerprint"), res.Fingerprint},
	}
	for _, row := range rows {
		if row.value == "" {
			continue
		}
		fmt.Fprintln(w, sectionStyle.Render(labelStyle.Render(row.label)+row.value))
	}
	if pass := state.PasswordCache.Get(); len(pass) > 0 {
		fmt.Fprintln(w, sectionStyle.Render(labelStyle.Render(i18n.T("report.user_password"))+secretStyle.Render(string(pass))))
		fmt.Fprintln(w, sectionStyle.Render(noteStyle.Render(i18n.T("report.password_warning"))))
	}
	if res.PublicKey != "" {
		fmt.Fprintln(w, sectionStyle.Render(labelStyle.Render(i18n.T("report.user_pubkey"))+truncateKey(res.PublicKey)))
	}
}

// truncateKey shortens long key material for display.
func truncateKey(key string) string {
	key = strings.TrimSpace(key)
	if len(key) <= 60 {
		return key
	}
	return key[:28] + "..." + key[len(key)-28:]
}
