// Copyright (c) 2026 Hostmaster Team
// Hostmaster - Linux host bootstrap tool
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/toeirei/hostmaster/internal/i18n"
	"github.com/toeirei/hostmaster/internal/k3s"
	"github.com/toeirei/hostmaster/internal/report"
)

var k3sChannel string
var k3sDisableTraefik bool
var k3sExtraArgs []string
var k3sMetalLBRange string
var k3sMetalLBVersion string
var k3sForce bool

// k3sCmd represents the 'k3s' command.
// It installs a single-node k3s cluster through the vendor installer and
// waits for the node to report Ready before layering optional add-ons.
var k3sCmd = &cobra.Command{
	Use:   "k3s",
	Short: "Install a k3s Kubernetes node",
	Long: `Installs k3s through the get.k3s.io installer and waits for the node to
become Ready. The bundled Traefik ingress can be disabled, and MetalLB
can be installed on top with a layer-2 address pool.

Example:
  hostmaster k3s --disable-traefik --metallb 192.168.1.240-192.168.1.250`,
	PreRunE: setupDefaultServices,
	Run: func(cmd *cobra.Command, args []string) {
		channel := k3sChannel
		if channel == "" {
			channel = appConfig.K3s.Channel
		}
		opts := k3s.Options{
			Channel:        channel,
			DisableTraefik: k3sDisableTraefik,
			ExtraArgs:      k3sExtraArgs,
			Force:          k3sForce,
		}
		if k3sMetalLBRange != "" {
			opts.MetalLB = &k3s.MetalLBOptions{
				Version:      k3sMetalLBVersion,
				AddressRange: k3sMetalLBRange,
			}
		}
		runK3sTask(cmd, opts)
	},
}

func init() {
	k3sCmd.Flags().StringVar(&k3sChannel, "channel", "", "k3s release channel (stable, latest, v1.30, ...)")
	k3sCmd.Flags().BoolVar(&k3sDisableTraefik, "disable-traefik", false, "Disable the bundled Traefik ingress controller")
	k3sCmd.Flags().StringSliceVar(&k3sExtraArgs, "extra-arg", nil, "Extra k3s server argument (repeatable)")
	k3sCmd.Flags().StringVar(&k3sMetalLBRange, "metallb", "", "Install MetalLB with this address pool (CIDR or from-to range)")
	k3sCmd.Flags().StringVar(&k3sMetalLBVersion, "metallb-version", "", "MetalLB manifest version (default "+k3s.DefaultMetalLBVersion+")")
	k3sCmd.Flags().BoolVar(&k3sForce, "force", false, "Reinstall even when k3s is already present")
}

// runK3sTask is shared between the subcommand and the wizard.
func runK3sTask(cmd *cobra.Command, opts k3s.Options) {
	// Reject a bad pool before touching the host at all.
	if opts.MetalLB != nil {
		if err := k3s.ValidateAddressRange(opts.MetalLB.AddressRange); err != nil {
			failTask("K3S_INSTALL", err)
		}
	}

	r, cleanup, err := newTargetRunner()
	if err != nil {
		failTask("K3S_INSTALL", err)
	}
	defer cleanup()

	fmt.Println(i18n.T("cli.k3s_starting", opts.Channel))
	rep, err := k3s.Install(cmd.Context(), r, opts)
	if rep != nil {
		report.Print(os.Stdout, rep)
	}
	if err != nil {
		failTask("K3S_INSTALL", err, cleanup)
	}
	journal("K3S_INSTALL", i18n.T("journal.k3s_installed", opts.Channel))
}
