package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/wasm-bridge/bridge"
	"github.com/wippyai/wasm-bridge/errors"
	"github.com/wippyai/wasm-bridge/transfer"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("BRIDGE_CONFIG", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, bridge.DefaultName, cfg.Name)
	assert.Equal(t, bridge.DefaultVersion, cfg.Version)
	assert.Equal(t, bridge.DefaultAPIVersion, cfg.APIVersion)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, []string{"stderr"}, cfg.Log.Outputs)
	assert.Equal(t, transfer.DefaultTimeout, cfg.Transfer.Timeout)
	assert.Equal(t, transfer.DefaultMaxRedirects, cfg.Transfer.MaxRedirects)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := writeFile(t, dir, "custom.yaml", `
name: fetcher
version: 2.1.0
api_version: 12
log:
  level: DEBUG
  format: json
transfer:
  timeout: 5s
  max_redirects: 3
  disabled: true
runtime:
  memory_limit_pages: 32
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "fetcher", cfg.Name)
	assert.Equal(t, "2.1.0", cfg.Version)
	assert.Equal(t, 12, cfg.APIVersion)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 5*time.Second, cfg.Transfer.Timeout)
	assert.Equal(t, 3, cfg.Transfer.MaxRedirects)
	assert.True(t, cfg.Transfer.Disabled)
	assert.Equal(t, uint32(32), cfg.Runtime.MemoryLimitPages)
	// untouched keys keep defaults
	assert.Equal(t, transfer.DefaultUserAgent, cfg.Transfer.UserAgent)
}

func TestLoad_SearchPath(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("BRIDGE_CONFIG", "")
	writeFile(t, dir, "bridge.yaml", "name: found\n")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "found", cfg.Name)
}

func TestLoad_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := writeFile(t, dir, "bridge.yaml", "log:\n  level: warn\n")
	t.Setenv("BRIDGE_CONFIG", path)
	t.Setenv("BRIDGE_LOG_LEVEL", "error")
	t.Setenv("BRIDGE_TRANSFER_MAX_REDIRECTS", "7")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, 7, cfg.Transfer.MaxRedirects)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("BRIDGE_CONFIG", "")
	// registered so the variable is restored after the test
	t.Setenv("BRIDGE_NAME", "")
	require.NoError(t, os.Unsetenv("BRIDGE_NAME"))
	writeFile(t, dir, ".env", "BRIDGE_NAME=from-dotenv\n")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Name)
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := writeFile(t, dir, "bad.yaml", "log: [unterminated\n")

	_, err := Load(path)
	require.Error(t, err)
	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, errors.PhaseConfig, e.Phase)
	assert.Equal(t, errors.KindInvalidData, e.Kind)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		mutate func(*Config)
		name   string
		path   string
	}{
		{name: "empty name", mutate: func(c *Config) { c.Name = "" }, path: "name"},
		{name: "name with hash", mutate: func(c *Config) { c.Name = "a#b" }, path: "name"},
		{name: "bad level", mutate: func(c *Config) { c.Log.Level = "loud" }, path: "log.level"},
		{name: "bad format", mutate: func(c *Config) { c.Log.Format = "xml" }, path: "log.format"},
		{name: "no outputs", mutate: func(c *Config) { c.Log.Outputs = nil }, path: "log.outputs"},
		{name: "negative redirects", mutate: func(c *Config) { c.Transfer.MaxRedirects = -1 }, path: "transfer.max_redirects"},
		{name: "zero redirects", mutate: func(c *Config) { c.Transfer.MaxRedirects = 0 }, path: "transfer.max_redirects"},
		{name: "too many pages", mutate: func(c *Config) { c.Runtime.MemoryLimitPages = 70000 }, path: "runtime.memory_limit_pages"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)

			var e *errors.Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, errors.KindInvalidInput, e.Kind)
			assert.Contains(t, e.Path, tt.path)
			assert.Contains(t, err.Error(), tt.path)
		})
	}
}

func TestValidate_NormalizesLevel(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "  WARN "
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestTransferOptions(t *testing.T) {
	cfg := Default()
	cfg.Transfer.Timeout = -1
	cfg.Transfer.MaxHandles = 4
	cfg.Transfer.Disabled = true

	opts := cfg.TransferOptions()
	assert.True(t, opts.Disabled)
	assert.Equal(t, time.Duration(-1), opts.HTTP.Timeout)
	assert.Equal(t, 4, opts.HTTP.MaxHandles)
	assert.Equal(t, transfer.DefaultUserAgent, opts.HTTP.UserAgent)

	_, ok := transfer.Probe(opts).(transfer.UnsupportedEngine)
	assert.True(t, ok)
}

func TestBridgeOptions(t *testing.T) {
	cfg := Default()
	cfg.Name = "fetcher"
	cfg.Version = "3.0.0"

	b := bridge.New(nil, cfg.BridgeOptions()...)
	assert.Equal(t, "fetcher", b.Namespace())
	out, err := b.Hello(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fetcher.node v.3.0.0 is online!", out)
}

func TestLoad_RejectsZeroRedirects(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := writeFile(t, dir, "bridge.yaml", "transfer:\n  max_redirects: 0\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transfer.max_redirects must be >= 1")
}
