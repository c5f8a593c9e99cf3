// Copyright (c) 2026 Hostmaster Team
// Hostmaster - Linux host bootstrap tool
// This source code is licensed under the MIT license found in the LICENSE file.

// package docker installs Docker Engine and the Compose plugin on a target
// host. The sequences mirror the vendor's documented install steps per
// distribution family, with the curl|sh convenience installer as the last
// resort for unrecognized systems.
package docker

import (
	"context"
	"fmt"
	"strings"

	"github.com/toeirei/hostmaster/internal/i18n"
	"github.com/toeirei/hostmaster/internal/logging"
	"github.com/toeirei/hostmaster/internal/model"
	"github.com/toeirei/hostmaster/internal/osrelease"
	"github.com/toeirei/hostmaster/internal/pkgmgr"
	"github.com/toeirei/hostmaster/internal/runner"
)

// ConvenienceInstallerURL is the vendor's catch-all installer script.
const ConvenienceInstallerURL = "https://get.docker.com"

// enginePackages is the full engine set installed on apt/dnf systems.
var enginePackages = []string{
	"docker-ce", "docker-ce-cli", "containerd.io",
	"docker-buildx-plugin", "docker-compose-plugin",
}

// Options control a Docker install run.
type Options struct {
	// AddUser is a username to add to the docker group, if any.
	AddUser string
	// Force reinstalls even when a docker binary is already present.
	Force bool
	// Confirm asks the operator before falling back to the curl|sh
	// installer on unrecognized systems. Nil means "assume yes".
	Confirm func(prompt string) bool
}

// Install runs the Docker install sequence for the detected OS and returns
// a report of what happened.
func Install(ctx context.Context, r runner.Runner, info *model.OSInfo, opts Options) (*model.Report, error) {
	report := &model.Report{Task: "docker"}

	if _, ok := r.LookPath("docker"); ok && !opts.Force {
		report.AddSkipped(i18n.T("docker.step_install"))
		report.AddNote("%s", i18n.T("docker.already_installed"))
		return report, nil
	}

	family := osrelease.FamilyOf(info)
	mgr := pkgmgr.For(info)

	var err error
	switch family {
	case osrelease.FamilyDebian:
		err = installDebian(ctx, r, info, mgr, report)
	case osrelease.FamilyAlpine:
		err = installAlpine(ctx, r, mgr, report)
	case osrelease.FamilyRHEL:
		err = installRHEL(ctx, r, info, mgr, report)
	default:
		if opts.Confirm != nil && !opts.Confirm(i18n.T("docker.confirm_convenience", info.PrettyName)) {
			return report, fmt.Errorf("%w: %s", osrelease.ErrUnsupported, info.ID)
		}
		err = installConvenience(ctx, r, report)
	}
	if err != nil {
		return report, err
	}

	postInstall(ctx, r, mgr, opts, report)
	verify(ctx, r, report)
	return report, nil
}

// installDebian follows the documented apt repository setup: keyring dir,
// GPG key, source list, then the engine package set.
func installDebian(ctx context.Context, r runner.Runner, info *model.OSInfo, mgr *pkgmgr.Manager, report *model.Report) error {
	if err := mgr.Refresh(ctx, r); err != nil {
		report.AddStep(i18n.T("docker.step_refresh"), err)
		return err
	}
	if err := mgr.Install(ctx, r, "ca-certificates", "curl"); err != nil {
		report.AddStep(i18n.T("docker.step_prereqs"), err)
		return err
	}
	report.AddStep(i18n.T("docker.step_prereqs"), nil)

	distro := info.ID
	if distro != "ubuntu" && distro != "debian" {
		distro = "debian"
	}

	if err := r.Run(ctx, "install", "-m", "0755", "-d", "/etc/apt/keyrings"); err != nil {
		report.AddStep(i18n.T("docker.step_repo"), err)
		return err
	}
	gpgURL := fmt.Sprintf("https://download.docker.com/linux/%s/gpg", distro)
	if err := r.Run(ctx, "curl", "-fsSL", gpgURL, "-o", "/etc/apt/keyrings/docker.asc"); err != nil {
		report.AddStep(i18n.T("docker.step_repo"), err)
		return err
	}
	runner.BestEffort("chmod keyring", func() error {
		return r.Run(ctx, "chmod", "a+r", "/etc/apt/keyrings/docker.asc")
	})

	arch := "amd64"
	if out, err := r.Output(ctx, "dpkg", "--print-architecture"); err == nil {
		if a := strings.TrimSpace(string(out)); a != "" {
			arch = a
		}
	}
	codename := info.VersionCodename
	if codename == "" {
		return fmt.Errorf("os-release has no VERSION_CODENAME; cannot assemble apt source")
	}
	sourceLine := fmt.Sprintf(
		"deb [arch=%s signed-by=/etc/apt/keyrings/docker.asc] https://download.docker.com/linux/%s %s stable\n",
		arch, distro, codename)
	if err := r.WriteFile("/etc/apt/sources.list.d/docker.list", []byte(sourceLine), 0o644); err != nil {
		report.AddStep(i18n.T("docker.step_repo"), err)
		return err
	}
	report.AddStep(i18n.T("docker.step_repo"), nil)

	if err := mgr.Refresh(ctx, r); err != nil {
		report.AddStep(i18n.T("docker.step_refresh"), err)
		return err
	}
	report.AddStep(i18n.T("docker.step_refresh"), nil)

	if err := mgr.Install(ctx, r, enginePackages...); err != nil {
		report.AddStep(i18n.T("docker.step_install"), err)
		return err
	}
	report.AddStep(i18n.T("docker.step_install"), nil)
	return nil
}

func installAlpine(ctx context.Context, r runner.Runner, mgr *pkgmgr.Manager, report *model.Report) error {
	if err := mgr.Refresh(ctx, r); err != nil {
		report.AddStep(i18n.T("docker.step_refresh"), err)
		return err
	}
	report.AddStep(i18n.T("docker.step_refresh"), nil)
	if err := mgr.Install(ctx, r, "docker", "docker-cli-compose"); err != nil {
		report.AddStep(i18n.T("docker.step_install"), err)
		return err
	}
	report.AddStep(i18n.T("docker.step_install"), nil)
	return nil
}

func installRHEL(ctx context.Context, r runner.Runner, info *model.OSInfo, mgr *pkgmgr.Manager, report *model.Report) error {
	repoDistro := "centos"
	if info.ID == "fedora" {
		repoDistro = "fedora"
	}
	repoURL := fmt.Sprintf("https://download.docker.com/linux/%s/docker-ce.repo", repoDistro)

	runner.BestEffort("install dnf-plugins-core", func() error {
		return mgr.Install(ctx, r, "dnf-plugins-core")
	})
	tool := "dnf"
	if _, ok := r.LookPath("dnf"); !ok {
		tool = "yum"
	}
	if err := r.Run(ctx, tool, "config-manager", "--add-repo", repoURL); err != nil {
		report.AddStep(i18n.T("docker.step_repo"), err)
		return err
	}
	report.AddStep(i18n.T("docker.step_repo"), nil)

	if err := mgr.Install(ctx, r, enginePackages...); err != nil {
		report.AddStep(i18n.T("docker.step_install"), err)
		return err
	}
	report.AddStep(i18n.T("docker.step_install"), nil)
	return nil
}

func installConvenience(ctx context.Context, r runner.Runner, report *model.Report) error {
	logging.Infof("falling back to the vendor convenience installer")
	if err := r.RunShell(ctx, fmt.Sprintf("curl -fsSL %s | sh", ConvenienceInstallerURL)); err != nil {
		report.AddStep(i18n.T("docker.step_convenience"), err)
		return err
	}
	report.AddStep(i18n.T("docker.step_convenience"), nil)
	return nil
}

// postInstall covers the glue after the packages land: docker group, group
// membership and service enablement. All best effort, like the original
// `|| true` chains.
func postInstall(ctx context.Context, r runner.Runner, mgr *pkgmgr.Manager, opts Options, report *model.Report) {
	runner.BestEffort("create docker group", func() error {
		return runner.Fallback(ctx, r,
			runner.Candidate{Name: "groupadd", Args: []string{"docker"}},
			runner.Candidate{Name: "addgroup", Args: []string{"docker"}},
		)
	})
	if opts.AddUser != "" {
		err := runner.Fallback(ctx, r,
			runner.Candidate{Name: "usermod", Args: []string{"-aG", "docker", opts.AddUser}},
			runner.Candidate{Name: "addgroup", Args: []string{opts.AddUser, "docker"}},
		)
		report.AddStep(i18n.T("docker.step_group", opts.AddUser), err)
	}
	mgr.EnableService(ctx, r, "docker")
	report.AddStep(i18n.T("docker.step_service"), nil)
}

// verify confirms the installed binaries answer. Failures are reported but
// do not abort: on a remote host without the service started yet, `docker
// version` may legitimately fail while the install itself succeeded.
func verify(ctx context.Context, r runner.Runner, report *model.Report) {
	if out, err := r.Output(ctx, "docker", "--version"); err == nil {
		report.AddNote("%s", strings.TrimSpace(string(out)))
	} else {
		report.AddNote("%s", i18n.T("docker.verify_failed", err))
	}
	if out, err := r.Output(ctx, "docker", "compose", "version"); err == nil {
		report.AddNote("%s", strings.TrimSpace(string(out)))
	}
}
