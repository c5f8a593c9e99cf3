// Copyright (c) 2026 Hostmaster Team
// Hostmaster - Linux host bootstrap tool
// This source code is licensed under the MIT license found in the LICENSE file.

// main.go sets up the command-line interface (CLI) for the Hostmaster
// application using the Cobra library. It defines the root command,
// subcommands (like docker, k3s, user), flags, and the main entry point
// for execution.

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"runtime/debug"

	log "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/toeirei/hostmaster/internal/config"
	"github.com/toeirei/hostmaster/internal/db"
	"github.com/toeirei/hostmaster/internal/i18n"
	"github.com/toeirei/hostmaster/internal/logging"
	"github.com/toeirei/hostmaster/internal/model"
	"github.com/toeirei/hostmaster/internal/osrelease"
	"github.com/toeirei/hostmaster/internal/runner"
	"github.com/toeirei/hostmaster/internal/userprov"
)

var version = "dev"   // this will be set by the linker
var gitCommit = "dev" // set at build time with the short commit SHA
var buildDate = ""    // set at build time (RFC3339)

var cfgFile string
var debugFlag bool
var showVersionFlag bool
var assumeYes bool
var dryRun bool
var targetHost string // --host user@host for remote bootstrap
var sshKeyFile string // --ssh-key private key for remote bootstrap

var appConfig config.Config

func setupDefaultServices(cmd *cobra.Command, args []string) error {
	// Load optional config file argument from cli
	optional_config_path, err := getConfigPathFromCli(cmd)
	if err != nil {
		return err
	}

	defaults := map[string]any{
		"database.type": "sqlite",
		"database.dsn":  "./hostmaster.db",
		"language":      "en",
		"shell":         "/bin/bash",
		"k3s.channel":   "stable",
	}

	appConfig, err = config.LoadConfig[config.Config](cmd, defaults, optional_config_path)
	// A "file not found" error is expected on first run, so we handle it
	// specifically. Other errors during loading are fatal.
	if errors.As(err, &viper.ConfigFileNotFoundError{}) {
		// First run, or the config file was deleted. Create a default one.
		if writeErr := config.WriteConfigFile(&appConfig, false); writeErr != nil {
			// Log a warning but don't fail, as the app can run on defaults.
			log.Warnf("Warning: could not write default config file: %v", writeErr)
		}
	} else if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	// Post-process config to ensure critical values are not empty, falling
	// back to defaults. This handles a config file with empty fields.
	if appConfig.Database.Type == "" {
		appConfig.Database.Type = defaults["database.type"].(string)
	}
	if appConfig.Database.Dsn == "" {
		appConfig.Database.Dsn = defaults["database.dsn"].(string)
	}
	if appConfig.Language == "" {
		appConfig.Language = defaults["language"].(string)
	}
	if appConfig.Shell == "" {
		appConfig.Shell = defaults["shell"].(string)
	}
	if appConfig.K3s.Channel == "" {
		appConfig.K3s.Channel = defaults["k3s.channel"].(string)
	}

	// Initialize i18n
	i18n.Init(appConfig.Language)

	// Initialize the journal database if not already initialized by tests.
	if !db.IsInitialized() {
		if err := db.InitDB(appConfig.Database.Type, appConfig.Database.Dsn); err != nil {
			return errors.New(i18n.T("config.error_init_db", err))
		}
	}

	return nil
}

// Execute runs the CLI entrypoint. The root main package should call this
// function and handle process exit.
func Execute() error {
	rootCmd := NewRootCmd()
	return rootCmd.Execute()
}

func applyDefaultFlags(cmd *cobra.Command) {
	// Avoid redefining flags if they already exist (NewRootCmd may be called
	// multiple times in tests which creates a new root but uses package-level
	// subcommands). pflag panics on duplicate flag definitions, so check first.
	if cmd.Flags().Lookup("database.type") == nil {
		cmd.Flags().String("database.type", "sqlite", "Database type (e.g., sqlite, postgres, mysql)")
	}
	if cmd.Flags().Lookup("database.dsn") == nil {
		cmd.Flags().String("database.dsn", "./hostmaster.db", "Database connection string (DSN)")
	}
}

func getConfigPathFromCli(cmd *cobra.Command) (*string, error) {
	// Only proceed if the user has explicitly set the --config flag.
	if cmd.PersistentFlags().Changed("config") {
		path, err := cmd.PersistentFlags().GetString("config")
		if err != nil {
			return nil, fmt.Errorf("could not read --config flag: %w", err)
		}
		if path == "" {
			return nil, nil
		}
		// Make sure the user-provided file exists to avoid unwanted behavior.
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file specified via --config flag not found or is not accessible: %w", err)
		}
		return &path, nil
	}
	return nil, nil
}

// NewRootCmd creates and configures a new root cobra command.
// This function is used to create the main application command as well as
// fresh instances for isolated testing.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hostmaster",
		Short: "Hostmaster bootstraps fresh Linux hosts.",
		Long: `Hostmaster turns a freshly installed Linux box into a useful machine:
Docker with the Compose plugin, a k3s Kubernetes node with optional
ingress and MetalLB, and local user accounts with SSH credentials.
Every run is recorded in a provisioning journal.

Running without a subcommand launches the interactive wizard.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if showVersionFlag {
				v, c, d := resolveBuildVersion(nil)
				compositeVersion := v
				if c != "" && c != "dev" {
					compositeVersion = compositeVersion + " (" + c + ")"
				}
				if d != "" {
					compositeVersion = compositeVersion + " built: " + d
				}
				fmt.Printf("%s\n", compositeVersion)
				os.Exit(0)
			}
			logging.SetDebug(debugFlag)
			return setupDefaultServices(cmd, args)
		},
		Run: func(cmd *cobra.Command, args []string) {
			// Config, i18n and the journal are already initialized by
			// PersistentPreRunE, so we can just run the wizard.
			runWizard(cmd)
		},
	}

	v, c, d := resolveBuildVersion(nil)
	compositeVersion := v
	if c != "" && c != "dev" {
		compositeVersion = compositeVersion + " (" + c + ")"
	}
	if d != "" {
		compositeVersion = compositeVersion + " built: " + d
	}
	cmd.Version = compositeVersion

	// Define flags
	cmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug output")
	cmd.PersistentFlags().BoolVarP(&showVersionFlag, "version", "V", false, "Print version and exit")
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file")
	cmd.PersistentFlags().String("language", "en", `Output language ("en", "de")`)
	cmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "Assume yes for all confirmation prompts")
	cmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Print the command plan without executing it")
	cmd.PersistentFlags().StringVar(&targetHost, "host", "", "Bootstrap a remote host over SSH (user@host)")
	cmd.PersistentFlags().StringVar(&sshKeyFile, "ssh-key", "", "Private key file for --host (falls back to the SSH agent)")
	applyDefaultFlags(cmd)

	// Add subcommand flags
	applyDefaultFlags(dockerCmd)
	applyDefaultFlags(k3sCmd)
	applyDefaultFlags(userCmd)
	applyDefaultFlags(historyCmd)
	applyDefaultFlags(trustHostCmd)

	// Add a lightweight `version` subcommand so users and CI can run
	// `hostmaster version`.
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			resolvedVersion, resolvedCommit, resolvedDate := resolveBuildVersion(nil)
			fmt.Printf("version: %s\n", resolvedVersion)
			fmt.Printf("commit: %s\n", resolvedCommit)
			if resolvedDate != "" {
				fmt.Printf("built: %s\n", resolvedDate)
			}
		},
	}

	// Add subcommands to the newly created root command.
	cmd.AddCommand(
		dockerCmd,
		k3sCmd,
		userCmd,
		historyCmd,
		trustHostCmd,
		versionCmd,
	)

	return cmd
}

// resolveBuildVersion computes the best-available version, commit and build
// date for the running binary. If `info` is nil, it reads build info from
// the runtime. This helper is separated to make unit testing straightforward.
func resolveBuildVersion(info *debug.BuildInfo) (versionOut, commitOut, dateOut string) {
	resolvedVersion := version
	resolvedCommit := gitCommit
	resolvedDate := buildDate

	var ok bool
	if info == nil {
		if infoLocal, found := debug.ReadBuildInfo(); found {
			info = infoLocal
			ok = true
		}
	} else {
		ok = true
	}

	if ok && info != nil {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			resolvedVersion = info.Main.Version
		}
		// If Main doesn't contain the version (some build paths), try to
		// find our module in the dependencies and use that version.
		if (resolvedVersion == "dev" || resolvedVersion == "(devel)") && info.Deps != nil {
			for _, dep := range info.Deps {
				if dep.Path == "github.com/toeirei/hostmaster" && dep.Version != "" {
					resolvedVersion = dep.Version
					break
				}
			}
		}

		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				if s.Value != "" {
					resolvedCommit = s.Value
				}
			case "vcs.time":
				if s.Value != "" {
					resolvedDate = s.Value
				}
			}
		}
	}

	if resolvedVersion == "dev" && gitCommit != "dev" && gitCommit != "" {
		resolvedVersion = gitCommit
	}

	return resolvedVersion, resolvedCommit, resolvedDate
}

// newTargetRunner builds the runner the task should execute against: the
// local host by default, an SSH connection when --host is set, and a
// dry-run wrapper on top when --dry-run is set.
func newTargetRunner() (runner.Runner, func(), error) {
	cleanup := func() {}
	var base runner.Runner = runner.NewLocalRunner()

	if targetHost != "" {
		user := "root"
		host := targetHost
		if strings.Contains(targetHost, "@") {
			parts := strings.SplitN(targetHost, "@", 2)
			user, host = parts[0], parts[1]
		}
		var key string
		if sshKeyFile != "" {
			data, err := os.ReadFile(sshKeyFile)
			if err != nil {
				return nil, nil, fmt.Errorf("could not read --ssh-key file: %w", err)
			}
			key = string(data)
		}
		sr, err := runner.NewSSHRunner(host, user, key)
		if err != nil {
			return nil, nil, err
		}
		cleanup = sr.Close
		base = sr
	}

	if dryRun {
		return runner.NewDryRunner(base), cleanup, nil
	}
	return base, cleanup, nil
}

// detectOS reads /etc/os-release through the runner so remote targets are
// identified the same way as the local host.
func detectOS(r runner.Runner) (*model.OSInfo, error) {
	data, err := r.ReadFile(osrelease.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read %s: %v", osrelease.ErrUnsupported, osrelease.Path, err)
	}
	return osrelease.Parse(data)
}

// promptForConfirmation displays a prompt and reads a line from stdin.
func promptForConfirmation(prompt string) string {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, _ := reader.ReadString('\n')
	return strings.TrimSpace(strings.ToLower(answer))
}

// confirm asks the operator a yes/no question. --yes short-circuits to true;
// a non-interactive stdin short-circuits to false so automation never hangs.
func confirm(prompt string) bool {
	if assumeYes {
		return true
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false
	}
	ans := promptForConfirmation(prompt + " (yes/no): ")
	return ans == "yes" || ans == "y"
}

// journal records a task outcome, downgrading journal trouble to a warning
// so a dead database never masks a successful bootstrap.
func journal(action, details string) {
	if err := db.LogAction(action, details); err != nil {
		log.Warnf("could not write journal entry %s: %v", action, err)
	}
}

// osExit is swapped out in tests.
var osExit = os.Exit

// failTask journals the failure, runs any cleanups (exiting skips deferred
// ones, so the task's runner teardown is passed in here) and exits with the
// documented code: 2 for unsupported systems and bad input, 1 for
// everything else.
func failTask(action string, err error, cleanups ...func()) {
	journal(action+"_FAIL", err.Error())
	log.Errorf("%v", err)
	for _, cleanup := range cleanups {
		cleanup()
	}
	if errors.Is(err, osrelease.ErrUnsupported) || errors.Is(err, userprov.ErrUserExists) {
		osExit(2)
	}
	osExit(1)
}
