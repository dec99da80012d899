package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the application configuration. It is loaded once in
// main and threaded through the pipeline unchanged.
type Config struct {
	Paths     PathsConfig     `mapstructure:"paths"`
	Endpoints EndpointsConfig `mapstructure:"endpoints"`
	Install   InstallConfig   `mapstructure:"install"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// PathsConfig contains path-related configuration
type PathsConfig struct {
	// BinDir is where tool executables land. Must be on PATH for the
	// summary to report tools as present.
	BinDir string `mapstructure:"bin_dir"`

	// AWSInstallDir is the application directory the AWS CLI bundle
	// installer populates (the bundle symlinks binaries into BinDir).
	AWSInstallDir string `mapstructure:"aws_install_dir"`

	// ScratchDir holds downloads and unpacked archives for the run.
	// Empty means a fresh directory under the system temp dir.
	ScratchDir string `mapstructure:"scratch_dir"`

	// OSReleaseFile is the distribution identification file.
	OSReleaseFile string `mapstructure:"os_release_file"`

	LogFile string `mapstructure:"log_file"`
}

// EndpointsConfig contains the release-artifact endpoints per tool
type EndpointsConfig struct {
	AWSCLIArchive string `mapstructure:"awscli_archive"`
	EksctlArchive string `mapstructure:"eksctl_archive"`

	// KubectlBase is the release channel root; the stable version file
	// and versioned artifacts hang off it.
	KubectlBase string `mapstructure:"kubectl_base"`
}

// InstallConfig contains installation run settings
type InstallConfig struct {
	// Timeout bounds the whole run, in seconds.
	Timeout int `mapstructure:"timeout"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	Color string `mapstructure:"color"`
}

// Load loads configuration from file and environment
func Load() (*Config, error) {
	// Set config name and paths
	viper.SetConfigName("config")
	viper.SetConfigType("toml")

	// Add config paths
	homeDir, err := os.UserHomeDir()
	if err == nil {
		viper.AddConfigPath(filepath.Join(homeDir, ".config", "ekstrap"))
	}
	viper.AddConfigPath(".")

	// Set defaults
	setDefaults()

	// Environment variable overrides
	viper.SetEnvPrefix("EKSTRAP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// Config file not found - use defaults
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// Expand paths
	cfg.Paths.BinDir = expandPath(cfg.Paths.BinDir)
	cfg.Paths.AWSInstallDir = expandPath(cfg.Paths.AWSInstallDir)
	cfg.Paths.ScratchDir = expandPath(cfg.Paths.ScratchDir)
	cfg.Paths.LogFile = expandPath(cfg.Paths.LogFile)

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	homeDir, err := os.UserHomeDir()
	if err != nil || homeDir == "" {
		homeDir = os.Getenv("HOME")
	}
	if homeDir == "" {
		homeDir = "."
	}

	viper.SetDefault("paths.bin_dir", "/usr/local/bin")
	viper.SetDefault("paths.aws_install_dir", "/usr/local/aws-cli")
	viper.SetDefault("paths.scratch_dir", "")
	viper.SetDefault("paths.os_release_file", "/etc/os-release")
	viper.SetDefault("paths.log_file", filepath.Join(homeDir, ".local", "share", "ekstrap", "ekstrap.log"))

	viper.SetDefault("endpoints.awscli_archive", "https://awscli.amazonaws.com/awscli-exe-linux-x86_64.zip")
	viper.SetDefault("endpoints.eksctl_archive", "https://github.com/eksctl-io/eksctl/releases/latest/download/eksctl_Linux_amd64.tar.gz")
	viper.SetDefault("endpoints.kubectl_base", "https://dl.k8s.io/release")

	viper.SetDefault("install.timeout", 900)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.color", "auto")
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if path == "" {
		return path
	}

	// Expand ~
	if len(path) > 0 && path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(homeDir, path[1:])
		}
	}

	// Expand environment variables
	path = os.ExpandEnv(path)

	return path
}
