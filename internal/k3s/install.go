// Copyright (c) 2026 Hostmaster Team
// Hostmaster - Linux host bootstrap tool
// This source code is licensed under the MIT license found in the LICENSE file.

// package k3s installs the k3s Kubernetes distribution through the vendor
// installer and layers the optional add-ons (ingress toggle, MetalLB) on top.
package k3s

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/toeirei/hostmaster/internal/i18n"
	"github.com/toeirei/hostmaster/internal/logging"
	"github.com/toeirei/hostmaster/internal/model"
	"github.com/toeirei/hostmaster/internal/runner"
)

// InstallerURL is the vendor-provided installer script for k3s.
const InstallerURL = "https://get.k3s.io"

// KubeconfigPath is where k3s writes its admin kubeconfig.
const KubeconfigPath = "/etc/rancher/k3s/k3s.yaml"

// Readiness polling bounds: a fixed number of attempts with a fixed sleep,
// matching the original busy-wait.
const (
	DefaultReadyAttempts = 30
	DefaultReadyInterval = 10 * time.Second
)

// Options control a k3s install run.
type Options struct {
	// Channel selects the k3s release channel (stable, latest, v1.30, ...).
	Channel string
	// DisableTraefik drops the bundled ingress controller.
	DisableTraefik bool
	// ExtraArgs are passed through to the k3s server via INSTALL_K3S_EXEC.
	ExtraArgs []string
	// MetalLB, when non-nil, installs the MetalLB add-on after the node is ready.
	MetalLB *MetalLBOptions
	// Force reinstalls even when a k3s binary is already present.
	Force bool

	// ReadyAttempts/ReadyInterval override the readiness poll bounds; zero
	// values take the defaults. Tests shrink these.
	ReadyAttempts int
	ReadyInterval time.Duration
}

// execLine assembles the INSTALL_K3S_EXEC value from the options.
func (o Options) execLine() string {
	var parts []string
	if o.DisableTraefik {
		parts = append(parts, "--disable", "traefik")
	}
	parts = append(parts, o.ExtraArgs...)
	return strings.Join(parts, " ")
}

// Install runs the k3s installer and optional add-ons, returning a report.
func Install(ctx context.Context, r runner.Runner, opts Options) (*model.Report, error) {
	report := &model.Report{Task: "k3s"}

	if _, ok := r.LookPath("k3s"); ok && !opts.Force {
		report.AddSkipped(i18n.T("k3s.step_install"))
		report.AddNote("%s", i18n.T("k3s.already_installed"))
	} else {
		script := fmt.Sprintf("curl -sfL %s | ", InstallerURL)
		env := []string{}
		if opts.Channel != "" {
			env = append(env, fmt.Sprintf("INSTALL_K3S_CHANNEL=%s", opts.Channel))
		}
		if exec := opts.execLine(); exec != "" {
			env = append(env, fmt.Sprintf("INSTALL_K3S_EXEC=%q", exec))
		}
		if len(env) > 0 {
			script += strings.Join(env, " ") + " "
		}
		script += "sh -"

		if err := r.RunShell(ctx, script); err != nil {
			report.AddStep(i18n.T("k3s.step_install"), err)
			return report, err
		}
		report.AddStep(i18n.T("k3s.step_install"), nil)
	}

	attempts := opts.ReadyAttempts
	if attempts <= 0 {
		attempts = DefaultReadyAttempts
	}
	interval := opts.ReadyInterval
	if interval <= 0 {
		interval = DefaultReadyInterval
	}
	if err := WaitForNodeReady(ctx, r, attempts, interval); err != nil {
		report.AddStep(i18n.T("k3s.step_wait"), err)
		return report, err
	}
	report.AddStep(i18n.T("k3s.step_wait"), nil)

	if opts.DisableTraefik {
		report.AddNote("%s", i18n.T("k3s.traefik_disabled"))
	} else {
		report.AddNote("%s", i18n.T("k3s.traefik_enabled"))
	}

	if opts.MetalLB != nil {
		if err := InstallMetalLB(ctx, r, *opts.MetalLB); err != nil {
			report.AddStep(i18n.T("k3s.step_metallb"), err)
			return report, err
		}
		report.AddStep(i18n.T("k3s.step_metallb"), nil)
	}

	report.AddNote("%s", i18n.T("k3s.kubeconfig_hint", KubeconfigPath))
	return report, nil
}

// WaitForNodeReady polls `k3s kubectl get nodes` until a node reports Ready
// or the attempt budget is exhausted. A simple bounded busy-wait, not a
// scheduler.
func WaitForNodeReady(ctx context.Context, r runner.Runner, attempts int, interval time.Duration) error {
	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(interval):
			}
		}
		out, err := r.Output(ctx, "k3s", "kubectl", "get", "nodes", "--no-headers")
		if err != nil {
			lastErr = err
			logging.Debugf("node poll %d/%d: %v", i+1, attempts, err)
			continue
		}
		if nodeReady(string(out)) {
			return nil
		}
		lastErr = fmt.Errorf("node not ready yet: %s", strings.TrimSpace(string(out)))
		logging.Debugf("node poll %d/%d: not ready", i+1, attempts)
	}
	return fmt.Errorf("cluster did not become ready after %d attempts: %w", attempts, lastErr)
}

// nodeReady scans `kubectl get nodes --no-headers` output for a Ready
// status column that is not NotReady.
func nodeReady(out string) bool {
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		for _, cond := range strings.Split(fields[1], ",") {
			if cond == "Ready" {
				return true
			}
		}
	}
	return false
}
