package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/dellve/config"
	"github.com/kilianp07/dellve/core/plugins"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	root := newRootCmd(prometheus.NewRegistry())
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestConfigGetDefault(t *testing.T) {
	out, err := runCLI(t, "config", "get", "http-port")
	require.NoError(t, err)
	assert.Equal(t, "9999\n", out)
}

func TestConfigFlagOverridesPort(t *testing.T) {
	path := writeFile(t, "lab.yaml", "http-port: 8080\n")
	out, err := runCLI(t, "--config", path, "config", "get", "http-port")
	require.NoError(t, err)
	assert.Equal(t, "8080\n", out)

	out, err = runCLI(t, "-c", path, "config", "get", "pid-file")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), filepath.Join("dellve", "dellve.pid")), out)
}

func TestDefaultConfigFileLoaded(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG_CONFIG_HOME only drives the config dir on linux")
	}
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	appDir := filepath.Join(home, config.AppName)
	require.NoError(t, os.MkdirAll(appDir, 0o755))
	require.NoError(t, os.WriteFile(config.DefaultConfigFile(appDir), []byte("results-dir: /data\n"), 0o644))

	root := newRootCmd(prometheus.NewRegistry())
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})

	root.SetArgs([]string{"config", "get", "results-dir"})
	require.NoError(t, root.Execute())
	assert.Equal(t, "/data\n", out.String())

	out.Reset()
	root.SetArgs([]string{"config", "path"})
	require.NoError(t, root.Execute())
	assert.Equal(t, config.DefaultConfigFile(appDir)+"\n", out.String())
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeFile(t, "lab.json", `{"http-port": 8080}`)
	t.Setenv("DELLVE_HTTP_PORT", "7000")
	out, err := runCLI(t, "-c", path, "config", "get", "http-port")
	require.NoError(t, err)
	assert.Equal(t, "7000\n", out)
}

func TestConfigGetMissingKey(t *testing.T) {
	_, err := runCLI(t, "config", "get", "nonexistent-key")
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrKeyNotFound)
}

func TestUnsupportedConfigFile(t *testing.T) {
	path := writeFile(t, "lab.txt", "http-port: 8080\n")
	_, err := runCLI(t, "-c", path, "config", "show")
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrUnsupportedFormat)
}

func TestConfigShowJSON(t *testing.T) {
	path := writeFile(t, "lab.yaml", "http-port: 8081\nbenchmarks: [conv]\n")
	out, err := runCLI(t, "-c", path, "config", "show", "--json")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, float64(8081), got["http-port"])
	assert.Contains(t, got, "app-dir")
	assert.Contains(t, got, "pid-file")
	assert.Equal(t, []any{map[string]any{"group": "dellve.benchmarks", "name": "conv"}}, got["benchmarks"])
}

func TestConfigShowYAML(t *testing.T) {
	out, err := runCLI(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "http-port: 9999")
	assert.Contains(t, out, "app-dir:")
}

func TestBenchmarksList(t *testing.T) {
	_ = plugins.Default.Register(config.BenchmarksGroup, "cli-test-bench", func(map[string]any) (any, error) {
		return nil, nil
	})
	out, err := runCLI(t, "benchmarks")
	require.NoError(t, err)
	assert.Contains(t, out, "dellve.benchmarks:cli-test-bench\n")
}

func TestBenchmarksRefreshIgnoresConfigured(t *testing.T) {
	_ = plugins.Default.Register(config.BenchmarksGroup, "cli-test-bench", func(map[string]any) (any, error) {
		return nil, nil
	})
	path := writeFile(t, "lab.yaml", "benchmarks: [only-this]\n")

	out, err := runCLI(t, "-c", path, "benchmarks")
	require.NoError(t, err)
	assert.Equal(t, "dellve.benchmarks:only-this\n", out)

	out, err = runCLI(t, "-c", path, "benchmarks", "--refresh")
	require.NoError(t, err)
	assert.Contains(t, out, "dellve.benchmarks:cli-test-bench\n")
	assert.NotContains(t, out, "only-this")
}

func TestMetricsFileWritten(t *testing.T) {
	path := writeFile(t, "lab.yaml", "http-port: 8080\n")
	metricsFile := filepath.Join(t.TempDir(), "dellve.prom")
	out, err := runCLI(t, "-c", path, "config", "get", "http-port", "--metrics-file", metricsFile)
	require.NoError(t, err)
	assert.Equal(t, "8080\n", out)

	data, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "dellve_config_loads_total")
	assert.Contains(t, string(data), `dellve_config_loads_total{format="yaml",result="ok"} 1`)
}
