// Copyright (c) 2026 Hostmaster Team
// Hostmaster - Linux host bootstrap tool
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/toeirei/hostmaster/internal/i18n"
	"github.com/toeirei/hostmaster/internal/model"
	"github.com/toeirei/hostmaster/internal/report"
	"github.com/toeirei/hostmaster/internal/state"
	"github.com/toeirei/hostmaster/internal/userprov"
)

var userFullName string
var userShell string
var userGroups []string
var userNoPassword bool
var userNoKey bool
var userRSA bool
var userAuthorizedKey string
var userCopyPassword bool

// userCmd represents the 'user' command.
// It provisions a local account with a generated password and SSH
// credentials, using the platform-appropriate user management tools.
var userCmd = &cobra.Command{
	Use:   "user <username>",
	Short: "Provision a local user with SSH credentials",
	Long: `Creates a local user account, sets a randomly generated password, adds
the account to the requested groups and installs SSH credentials: a
generated ed25519 key pair (RSA with --rsa) and an authorized_keys
entry. The generated password is printed exactly once and never stored.

An existing public key can be authorized instead of generating one:
  hostmaster user deploy --authorized-key "ssh-ed25519 AAAA... deploy@laptop"`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: setupDefaultServices,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Fprintln(os.Stderr, i18n.T("cli.username_required"))
			os.Exit(2)
		}
		shell := userShell
		if shell == "" {
			shell = appConfig.Shell
		}
		spec := model.UserSpec{
			Username:         args[0],
			FullName:         userFullName,
			Shell:            shell,
			Groups:           userGroups,
			GeneratePassword: !userNoPassword,
			GenerateKey:      !userNoKey && userAuthorizedKey == "",
			UseRSA:           userRSA,
			AuthorizedKey:    userAuthorizedKey,
		}
		runUserTask(cmd, spec)
	},
}

func init() {
	userCmd.Flags().StringVar(&userFullName, "full-name", "", "GECOS full name for the account")
	userCmd.Flags().StringVar(&userShell, "shell", "", "Login shell (default from config)")
	userCmd.Flags().StringSliceVar(&userGroups, "group", nil, "Supplementary group to add the user to (repeatable)")
	userCmd.Flags().BoolVar(&userNoPassword, "no-password", false, "Do not set a password")
	userCmd.Flags().BoolVar(&userNoKey, "no-key", false, "Do not generate an SSH key pair")
	userCmd.Flags().BoolVar(&userRSA, "rsa", false, "Generate an RSA 4096 key instead of ed25519")
	userCmd.Flags().StringVar(&userAuthorizedKey, "authorized-key", "", "Authorize this existing public key instead of generating one")
	userCmd.Flags().BoolVar(&userCopyPassword, "copy", false, "Copy the generated password to the clipboard")
}

// runUserTask is shared between the subcommand and the wizard.
func runUserTask(cmd *cobra.Command, spec model.UserSpec) {
	if err := userprov.ValidateUsername(spec.Username); err != nil {
		journal("USER_CREATE_FAIL", err.Error())
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	r, cleanup, err := newTargetRunner()
	if err != nil {
		failTask("USER_CREATE", err)
	}
	defer cleanup()

	info, err := detectOS(r)
	if err != nil {
		failTask("USER_CREATE", err, cleanup)
	}

	// The password lives in the mailbox only for the lifetime of this run.
	defer state.PasswordCache.Clear()

	result, err := userprov.Provision(cmd.Context(), r, info, spec)
	if err != nil {
		failTask("USER_CREATE", err, state.PasswordCache.Clear, cleanup)
	}

	report.PrintUser(os.Stdout, result)

	if pass := state.PasswordCache.Get(); userCopyPassword && len(pass) > 0 {
		if err := clipboard.WriteAll(string(pass)); err != nil {
			fmt.Fprintln(os.Stderr, i18n.T("cli.clipboard_failed", err))
		} else {
			fmt.Println(i18n.T("cli.clipboard_copied"))
		}
	}

	journal("USER_CREATE", i18n.T("journal.user_created", result.Username, result.Fingerprint))
}
