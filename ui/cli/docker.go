// Copyright (c) 2026 Hostmaster Team
// Hostmaster - Linux host bootstrap tool
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/toeirei/hostmaster/internal/docker"
	"github.com/toeirei/hostmaster/internal/i18n"
	"github.com/toeirei/hostmaster/internal/report"
)

var dockerAddUser string
var dockerForce bool

// dockerCmd represents the 'docker' command.
// It installs Docker Engine and the Compose plugin using the distribution's
// package repositories, falling back to the vendor convenience script on
// unrecognized systems.
var dockerCmd = &cobra.Command{
	Use:   "docker",
	Short: "Install Docker Engine and the Compose plugin",
	Long: `Installs Docker Engine, the CLI and the Compose plugin from the vendor
package repositories for Debian/Ubuntu, Alpine and RHEL-family systems.
On anything else it offers the get.docker.com convenience installer.

The install is skipped when a docker binary is already present; use
--force to reinstall anyway.`,
	PreRunE: setupDefaultServices,
	Run: func(cmd *cobra.Command, args []string) {
		runDockerTask(cmd, docker.Options{
			AddUser: dockerAddUser,
			Force:   dockerForce,
			Confirm: confirm,
		})
	},
}

func init() {
	dockerCmd.Flags().StringVar(&dockerAddUser, "add-user", "", "User to add to the docker group after the install")
	dockerCmd.Flags().BoolVar(&dockerForce, "force", false, "Reinstall even when docker is already present")
}

// runDockerTask is shared between the subcommand and the wizard.
func runDockerTask(cmd *cobra.Command, opts docker.Options) {
	r, cleanup, err := newTargetRunner()
	if err != nil {
		failTask("DOCKER_INSTALL", err)
	}
	defer cleanup()

	info, err := detectOS(r)
	if err != nil {
		failTask("DOCKER_INSTALL", err, cleanup)
	}
	fmt.Println(i18n.T("cli.detected_os", info.PrettyName))

	rep, err := docker.Install(cmd.Context(), r, info, opts)
	if rep != nil {
		report.Print(os.Stdout, rep)
	}
	if err != nil {
		failTask("DOCKER_INSTALL", err, cleanup)
	}
	journal("DOCKER_INSTALL", i18n.T("journal.docker_installed", info.PrettyName))
}
