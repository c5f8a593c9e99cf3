// Copyright (c) 2026 Hostmaster Team
// Hostmaster - Linux host bootstrap tool
// This source code is licensed under the MIT license found in the LICENSE file.

package k3s

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/toeirei/hostmaster/internal/runner"
)

// DefaultMetalLBVersion is the manifest tag applied when none is given.
const DefaultMetalLBVersion = "v0.14.9"

// poolManifestPath is where the generated address pool manifest is staged
// on the target host before kubectl apply.
const poolManifestPath = "/var/lib/rancher/k3s/hostmaster-metallb-pool.yaml"

// MetalLBOptions configure the MetalLB add-on.
type MetalLBOptions struct {
	// Version is the MetalLB release tag for the native manifest.
	Version string
	// AddressRange is the L2 pool, e.g. "192.168.1.240-192.168.1.250"
	// or a CIDR like "192.168.1.240/29".
	AddressRange string
}

// manifestURL returns the upstream metallb-native manifest for the version.
func (o MetalLBOptions) manifestURL() string {
	v := o.Version
	if v == "" {
		v = DefaultMetalLBVersion
	}
	return fmt.Sprintf("https://raw.githubusercontent.com/metallb/metallb/%s/config/manifests/metallb-native.yaml", v)
}

// ValidateAddressRange rejects obviously malformed pool specifications
// before anything is applied to the cluster.
func ValidateAddressRange(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("address range must not be empty")
	}
	if strings.Contains(s, "/") || strings.Contains(s, "-") {
		return nil
	}
	return fmt.Errorf("address range %q must be a CIDR or a from-to range", s)
}

// InstallMetalLB applies the upstream MetalLB manifest, waits for its
// webhook deployment, and then applies a generated IPAddressPool plus
// L2Advertisement for the configured range.
func InstallMetalLB(ctx context.Context, r runner.Runner, opts MetalLBOptions) error {
	if err := ValidateAddressRange(opts.AddressRange); err != nil {
		return err
	}

	kubectl := kubectlInvocation(r)
	if err := r.Run(ctx, kubectl[0], append(kubectl[1:], "apply", "-f", opts.manifestURL())...); err != nil {
		return fmt.Errorf("failed to apply metallb manifest: %w", err)
	}

	// The pool CRs are rejected until the webhook answers; wait for the
	// controller rollout before applying them.
	runner.BestEffort("wait for metallb controller", func() error {
		return r.Run(ctx, kubectl[0], append(kubectl[1:],
			"-n", "metallb-system", "rollout", "status", "deployment/controller", "--timeout=120s")...)
	})

	manifest, err := RenderPoolManifest(opts.AddressRange)
	if err != nil {
		return err
	}
	if err := r.WriteFile(poolManifestPath, manifest, 0o644); err != nil {
		return fmt.Errorf("failed to stage pool manifest: %w", err)
	}
	if err := r.Run(ctx, kubectl[0], append(kubectl[1:], "apply", "-f", poolManifestPath)...); err != nil {
		return fmt.Errorf("failed to apply address pool: %w", err)
	}
	return nil
}

// RenderPoolManifest produces the IPAddressPool and L2Advertisement YAML
// documents for the given address range.
func RenderPoolManifest(addressRange string) ([]byte, error) {
	pool := map[string]any{
		"apiVersion": "metallb.io/v1beta1",
		"kind":       "IPAddressPool",
		"metadata": map[string]any{
			"name":      "hostmaster-pool",
			"namespace": "metallb-system",
		},
		"spec": map[string]any{
			"addresses": []string{addressRange},
		},
	}
	adv := map[string]any{
		"apiVersion": "metallb.io/v1beta1",
		"kind":       "L2Advertisement",
		"metadata": map[string]any{
			"name":      "hostmaster-l2",
			"namespace": "metallb-system",
		},
		"spec": map[string]any{
			"ipAddressPools": []string{"hostmaster-pool"},
		},
	}

	var b strings.Builder
	enc := yaml.NewEncoder(&b)
	enc.SetIndent(2)
	for _, doc := range []map[string]any{pool, adv} {
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("failed to render pool manifest: %w", err)
		}
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}

// kubectlInvocation prefers a standalone kubectl and falls back to the
// embedded `k3s kubectl`.
func kubectlInvocation(r runner.Runner) []string {
	if _, ok := r.LookPath("kubectl"); ok {
		return []string{"kubectl"}
	}
	return []string{"k3s", "kubectl"}
}
