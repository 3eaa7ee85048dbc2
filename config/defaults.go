package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kilianp07/dellve/core/plugins"
)

const (
	// AppName keys the per-application directory.
	AppName = "dellve"
	// BenchmarksGroup is the discovery group benchmark plugins register under.
	BenchmarksGroup = "dellve.benchmarks"
	// DefaultHTTPPort is the port the HTTP API listens on unless overridden.
	DefaultHTTPPort = 9999
	// PIDFileName is joined with the application directory.
	PIDFileName = "dellve.pid"
	// ConfigFileName is the user configuration file inside the application
	// directory.
	ConfigFileName = "config.yaml"
)

// Recognised configuration keys.
const (
	KeyAppDir     = "app-dir"
	KeyHTTPPort   = "http-port"
	KeyBenchmarks = "benchmarks"
	KeyPIDFile    = "pid-file"
)

// DirResolver returns the platform directory for an application name.
type DirResolver func(appName string) (string, error)

// BenchmarkProvider enumerates the available benchmark plugins.
type BenchmarkProvider func() ([]plugins.Ref, error)

// UserAppDir resolves appName below the user configuration directory
// ($XDG_CONFIG_HOME or ~/.config on Linux, ~/Library/Application Support on
// macOS, %AppData% on Windows).
func UserAppDir(appName string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("user config dir: %w", err)
	}
	return filepath.Join(dir, appName), nil
}

// DiscoverBenchmarks returns a provider listing the benchmark group of reg.
func DiscoverBenchmarks(reg *plugins.Registry) BenchmarkProvider {
	return func() ([]plugins.Ref, error) {
		return reg.Discover(BenchmarksGroup), nil
	}
}

// DefaultPIDFile returns the PID file path inside appDir.
func DefaultPIDFile(appDir string) string {
	return filepath.Join(appDir, PIDFileName)
}

// DefaultConfigFile returns the user configuration file path inside appDir.
func DefaultConfigFile(appDir string) string {
	return filepath.Join(appDir, ConfigFileName)
}
