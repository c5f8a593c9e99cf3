// Copyright (c) 2026 Hostmaster Team
// Hostmaster - Linux host bootstrap tool
// This source code is licensed under the MIT license found in the LICENSE file.

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config is the top-level configuration for Hostmaster.
type Config struct {
	Database struct {
		Type string `mapstructure:"type" yaml:"type"`
		Dsn  string `mapstructure:"dsn" yaml:"dsn"`
	} `mapstructure:"database" yaml:"database"`
	Language string `mapstructure:"language" yaml:"language"`
	Shell    string `mapstructure:"shell" yaml:"shell"`
	K3s      struct {
		Channel string `mapstructure:"channel" yaml:"channel"`
	} `mapstructure:"k3s" yaml:"k3s"`
}

// getConfigPath returns the full path for the configuration file.
func getConfigPath(system bool) (string, error) {
	var configDir string
	var err error

	if system {
		// System-wide configuration paths
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), "Hostmaster")
		default: // Linux, macOS, etc.
			configDir = "/etc/hostmaster"
		}
	} else {
		// User-specific configuration paths
		configDir, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(configDir, "hostmaster")
	}

	return filepath.Join(configDir, "hostmaster.yaml"), nil
}

// LoadConfig resolves configuration from defaults, config files, environment
// variables and bound CLI flags, in that order of precedence.
//
// When no config file exists in any search location, the returned config is
// still fully usable and the error is viper.ConfigFileNotFoundError, so
// callers can detect a first run and write a starter file.
func LoadConfig[T any](cmd *cobra.Command, defaults map[string]any, additional_config_file_path *string) (T, error) {
	var c T
	v := viper.New()

	// 1. Set defaults
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	// 2. Set up file search paths
	v.SetConfigName("hostmaster")
	v.SetConfigType("yaml")

	// 3. Add explicit config file path if provided via --config flag.
	// This has the highest precedence for file-based configuration.
	if additional_config_file_path != nil {
		v.SetConfigFile(*additional_config_file_path)
	}

	// 4. Add standard config locations
	if userConfigPath, err := getConfigPath(false); err == nil {
		v.AddConfigPath(filepath.Dir(userConfigPath))
	}
	if systemConfigPath, err := getConfigPath(true); err == nil {
		v.AddConfigPath(filepath.Dir(systemConfigPath))
	}
	v.AddConfigPath(".") // Look for hostmaster.yaml in current dir

	// 5. Read in the primary config file. A missing file is not fatal: the
	// load continues on defaults, environment and flags, and the not-found
	// error is handed back at the end so callers can write a starter file.
	var notFoundErr error
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return c, err
		}
		notFoundErr = err
	}

	// 6. Read from environment variables
	v.AutomaticEnv()
	v.AllowEmptyEnv(true)
	v.SetEnvPrefix("hostmaster")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 7. Bind CLI flags over everything else.
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return c, err
	}

	// parse config
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}

	return c, notFoundErr
}

// WriteConfigFile persists the configuration to the user or system config
// path, creating the directory when needed.
func WriteConfigFile[T any](c *T, system bool) error {
	path, err := getConfigPath(system)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	// Create directory if it doesn't exist
	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}

	err = os.WriteFile(path, data, 0600) // Use 0600 for security, as it may contain secrets
	if err != nil {
		return err
	}

	return nil
}
