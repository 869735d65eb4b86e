package cli

import (
	"bytes"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/provisioner/internal/authstub"
	"github.com/wesleyorama2/provisioner/internal/config"
)

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCmd_ProvisionsAgainstService(t *testing.T) {
	stub := authstub.New()
	server := httptest.NewServer(stub.Handler())
	defer server.Close()

	path := filepath.Join(t.TempDir(), "tokens.txt")
	out, err := runRoot(t,
		"--base-url", server.URL,
		"--count", "25",
		"--throttle-pause", "1ms",
		"--throttle-every", "10",
		"--output", path,
		"--no-color",
	)
	require.NoError(t, err, out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 25)

	claims, err := stub.ParseToken(lines[24])
	require.NoError(t, err)
	assert.Equal(t, "user00025", claims.Username)

	assert.Contains(t, out, "provisioning user00001..user00025")
	assert.Contains(t, out, "✓ user00001 token acquired")
	assert.Contains(t, out, "20 accounts processed, pausing 1ms")
	assert.Contains(t, out, "saved 25 tokens to "+path)
}

func TestRootCmd_UnreachableServiceStillWritesFile(t *testing.T) {
	server := httptest.NewServer(nil)
	url := server.URL
	server.Close()

	path := filepath.Join(t.TempDir(), "tokens.txt")
	require.NoError(t, os.WriteFile(path, []byte("stale\n"), 0o644))

	out, err := runRoot(t,
		"--base-url", url,
		"--count", "3",
		"--timeout", "200ms",
		"--output", path,
		"--no-color",
	)
	require.NoError(t, err, out)

	assert.Equal(t, 3, strings.Count(out, "signup failed"))
	assert.Equal(t, 3, strings.Count(out, "login error: "))
	assert.Contains(t, out, "saved 0 tokens")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestRootCmd_InvalidConfig(t *testing.T) {
	_, err := runRoot(t, "--count", "0", "--output", filepath.Join(t.TempDir(), "t.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "count")

	_, err = runRoot(t, "unexpected-arg")
	assert.Error(t, err)
}

func TestRootCmd_OutputFileError(t *testing.T) {
	stub := authstub.New()
	server := httptest.NewServer(stub.Handler())
	defer server.Close()

	// the output path is a directory, so the write must fail
	dir := t.TempDir()
	_, err := runRoot(t, "--base-url", server.URL, "--count", "1", "--output", dir, "--no-color")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "saving tokens")
}

func TestLoadConfig_Layering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "provision.yaml")
	require.NoError(t, os.WriteFile(path, []byte("count: 50\nprefix: ignored\nuserPrefix: load\ntimeout: 2s\n"), 0o644))

	cmd := NewRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--config", path, "--count", "7", "-o", "x.txt"}))

	cfg, err := loadConfig(cmd.Flags())
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Count)
	assert.Equal(t, "load", cfg.UserPrefix)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.Equal(t, "x.txt", cfg.Output)
	assert.Equal(t, config.DefaultBaseURL, cfg.BaseURL)
}

func TestLoadConfig_Defaults(t *testing.T) {
	cmd := NewRootCmd()
	require.NoError(t, cmd.ParseFlags(nil))

	cfg, err := loadConfig(cmd.Flags())
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	cmd := NewRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--config", filepath.Join(t.TempDir(), "nope.yaml")}))

	_, err := loadConfig(cmd.Flags())
	assert.Error(t, err)
}

func TestRootCmd_Version(t *testing.T) {
	out, err := runRoot(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, version)
}
