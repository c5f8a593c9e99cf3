// Copyright (c) 2026 Hostmaster Team
// Hostmaster - Linux host bootstrap tool
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"strings"

	log "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/ssh"

	"github.com/toeirei/hostmaster/internal/db"
	"github.com/toeirei/hostmaster/internal/i18n"
	"github.com/toeirei/hostmaster/internal/runner"
	"github.com/toeirei/hostmaster/internal/sshkey"
)

// trustHostCmd represents the 'trust-host' command.
// It facilitates the initial trust of a new host by fetching its public SSH
// key, displaying its fingerprint, and prompting the user to save it to the
// database as a known host. This is a required step before --host can
// bootstrap a remote machine.
var trustHostCmd = &cobra.Command{
	Use:   "trust-host <user@host>",
	Short: "Adds a host's public key to the list of known hosts",
	Long: `Connects to a host for the first time, retrieves its public key,
and prompts the user to save it to the database. This is a required
step before Hostmaster can bootstrap a remote host with --host.`,
	Args:    cobra.ExactArgs(1),
	PreRunE: setupDefaultServices,
	Run: func(cmd *cobra.Command, args []string) {
		target := args[0]
		hostname := target
		if strings.Contains(target, "@") {
			parts := strings.SplitN(target, "@", 2)
			hostname = parts[1]
		}

		fmt.Println(i18n.T("trust_host.retrieving", hostname))
		pubKey, err := runner.GetRemoteHostKey(hostname)
		if err != nil {
			log.Fatalf("%s", i18n.T("trust_host.error_get_key", err))
		}

		fmt.Println(i18n.T("trust_host.authenticity", hostname))
		fmt.Println(i18n.T("trust_host.fingerprint", ssh.FingerprintSHA256(pubKey)))
		if warn := sshkey.CheckHostKeyAlgorithm(pubKey); warn != "" {
			fmt.Println(warn)
		}

		if !confirm(i18n.T("trust_host.confirm")) {
			fmt.Println(i18n.T("cli.cancelled"))
			return
		}

		keyStr := string(ssh.MarshalAuthorizedKey(pubKey))
		if err := db.AddKnownHostKey(hostname, keyStr); err != nil {
			log.Fatalf("%s", i18n.T("trust_host.error_save", err))
		}
		journal("TRUST_HOST", i18n.T("journal.host_trusted", hostname))
		fmt.Println(i18n.T("trust_host.added", hostname, pubKey.Type()))
	},
}
