package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestLoad(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	// Test loading config (will use defaults if file doesn't exist)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg == nil {
		t.Fatal("expected config, got nil")
	}

	// Verify defaults are set
	if cfg.Logging.Level == "" {
		t.Error("expected default log level, got empty")
	}

	if cfg.Paths.BinDir != "/usr/local/bin" {
		t.Errorf("expected default bin_dir /usr/local/bin, got %q", cfg.Paths.BinDir)
	}

	if cfg.Paths.OSReleaseFile != "/etc/os-release" {
		t.Errorf("expected default os_release_file /etc/os-release, got %q", cfg.Paths.OSReleaseFile)
	}

	if cfg.Endpoints.AWSCLIArchive == "" {
		t.Error("expected default awscli_archive endpoint, got empty")
	}

	if cfg.Endpoints.KubectlBase == "" {
		t.Error("expected default kubectl_base endpoint, got empty")
	}

	if cfg.Install.Timeout <= 0 {
		t.Errorf("expected positive default install timeout, got %d", cfg.Install.Timeout)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("EKSTRAP_PATHS_BIN_DIR", "/opt/tools/bin")
	t.Setenv("EKSTRAP_LOGGING_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Paths.BinDir != "/opt/tools/bin" {
		t.Errorf("expected env override for bin_dir, got %q", cfg.Paths.BinDir)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected env override for logging level, got %q", cfg.Logging.Level)
	}
}

func TestExpandPath(t *testing.T) {
	homeDir, _ := os.UserHomeDir()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty path",
			input: "",
			want:  "",
		},
		{
			name:  "absolute path",
			input: "/usr/local/bin",
			want:  "/usr/local/bin",
		},
		{
			name:  "home expansion",
			input: "~/test",
			want:  filepath.Join(homeDir, "test"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := expandPath(tt.input)
			if got != tt.want {
				t.Errorf("expandPath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
