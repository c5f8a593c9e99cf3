// Copyright (c) 2026 Hostmaster Team
// Hostmaster - Linux host bootstrap tool
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"
	"os"

	log "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/toeirei/hostmaster/internal/docker"
	"github.com/toeirei/hostmaster/internal/i18n"
	"github.com/toeirei/hostmaster/internal/k3s"
	"github.com/toeirei/hostmaster/internal/model"
	"github.com/toeirei/hostmaster/internal/tui"
)

// runWizard launches the interactive wizard and dispatches the collected
// answers to the same task functions the subcommands use.
func runWizard(cmd *cobra.Command) {
	res, err := tui.RunWizard()
	if err != nil {
		if errors.Is(err, tui.ErrWizardAborted) {
			fmt.Println(i18n.T("cli.cancelled"))
			os.Exit(0)
		}
		log.Fatalf("wizard failed: %v", err)
	}

	switch res.Task {
	case tui.TaskDocker:
		runDockerTask(cmd, docker.Options{
			AddUser: res.DockerAddUser,
			Confirm: confirm,
		})
	case tui.TaskK3s:
		opts := k3s.Options{
			Channel:        appConfig.K3s.Channel,
			DisableTraefik: res.DisableTraefik,
		}
		if res.MetalLBRange != "" {
			opts.MetalLB = &k3s.MetalLBOptions{AddressRange: res.MetalLBRange}
		}
		runK3sTask(cmd, opts)
	case tui.TaskUser:
		runUserTask(cmd, model.UserSpec{
			Username:         res.Username,
			FullName:         res.FullName,
			Shell:            appConfig.Shell,
			Groups:           res.Groups,
			GeneratePassword: res.GeneratePassword,
			GenerateKey:      res.GenerateKey,
		})
	}
}
