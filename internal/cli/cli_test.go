package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallyu/go-sss/internal/sealed"
	"github.com/smallyu/go-sss/pkg/sss"
)

const testSecret = "a9f1b4e8c2d7a1b3bce478f0d84f211ea1fe5d246b707df733fc7a5f21e2da43"

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand(NewConfig())
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()
	if cfg.OutputFormat != "text" {
		t.Errorf("OutputFormat = %v, want text", cfg.OutputFormat)
	}
	if cfg.Metrics {
		t.Error("Metrics should be false by default")
	}
}

func TestSettingsFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sss.yaml")
	require.NoError(t, os.WriteFile(path, []byte("curve: ed25519\nbackend:\n  version: named\n"), 0600))

	cfg := NewConfig()
	cfg.ConfigFile = path
	cfg.BackendVersion = "legacy"
	cfg.LogLevel = "debug"

	settings, err := cfg.Settings()
	require.NoError(t, err)
	assert.Equal(t, sss.Ed25519, settings.CurveID())
	assert.Equal(t, "legacy", settings.Backend.Version)
	assert.Equal(t, "debug", settings.Logging.Level)

	cfg.BackendVersion = "v9"
	_, err = cfg.Settings()
	assert.Error(t, err)
}

func TestSplitCombine(t *testing.T) {
	bundlePath := filepath.Join(t.TempDir(), "shares.json")

	out, _, err := run(t, "split", "--secret", testSecret, "-n", "3", "-t", "2", "--out", bundlePath)
	require.NoError(t, err)
	assert.Contains(t, out, "Threshold: 2 of 3")
	assert.Contains(t, out, "[3] ")
	assert.NotContains(t, out, testSecret)

	out, _, err = run(t, "combine", "--in", bundlePath, "--select", "3,1")
	require.NoError(t, err)
	assert.Contains(t, out, "Recovered (hex):  "+testSecret)
	assert.Contains(t, out, "Matches original: true")

	_, _, err = run(t, "combine", "--in", bundlePath, "--select", "2")
	assert.ErrorIs(t, err, sss.ErrInsufficientShares)

	_, _, err = run(t, "combine", "--in", bundlePath, "--select", "1,9")
	assert.ErrorIs(t, err, sss.ErrInvalidSelection)

	// --shares is the split count; combine selects with --select.
	_, _, err = run(t, "combine", "--in", bundlePath, "--shares", "1,2")
	assert.ErrorContains(t, err, "unknown flag")

	out, _, err = run(t, "combine", "--in", bundlePath)
	require.NoError(t, err)
	assert.Contains(t, out, "Matches original: true")
}

func TestSealedBundle(t *testing.T) {
	bundlePath := filepath.Join(t.TempDir(), "shares.sealed")
	t.Setenv("TEST_SSS_PASSPHRASE", "hunter2")

	_, _, err := run(t, "split", "--secret", testSecret, "--passphrase-env", "TEST_SSS_PASSPHRASE")
	assert.ErrorContains(t, err, "requires --out")

	_, _, err = run(t, "split", "--secret", testSecret, "--out", bundlePath, "--passphrase-env", "TEST_SSS_PASSPHRASE")
	require.NoError(t, err)
	data, err := os.ReadFile(bundlePath)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "shares")

	_, _, err = run(t, "combine", "--in", bundlePath)
	assert.ErrorContains(t, err, "sealed")

	t.Setenv("TEST_SSS_WRONG", "hunter3")
	_, _, err = run(t, "combine", "--in", bundlePath, "--passphrase-env", "TEST_SSS_WRONG")
	assert.ErrorIs(t, err, sealed.ErrWrongPassphrase)

	out, _, err := run(t, "combine", "--in", bundlePath, "--passphrase-env", "TEST_SSS_PASSPHRASE", "--select", "2,3")
	require.NoError(t, err)
	assert.Contains(t, out, "Recovered (hex):  "+testSecret)
	assert.Contains(t, out, "Matches original: true")
}

func TestSplitJSON(t *testing.T) {
	out, _, err := run(t, "split", "--random", "--curve", "ed25519", "-n", "4", "-t", "3", "-o", "json")
	require.NoError(t, err)

	var result struct {
		Secret string `json:"secret"`
		Bundle struct {
			Curve  string            `json:"curve"`
			Shares []json.RawMessage `json:"shares"`
		} `json:"bundle"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Len(t, result.Secret, 64)
	assert.Equal(t, "ed25519", result.Bundle.Curve)
	assert.Len(t, result.Bundle.Shares, 4)
}

func TestSplitErrors(t *testing.T) {
	_, _, err := run(t, "split")
	assert.ErrorContains(t, err, "--secret or --random")

	_, _, err = run(t, "split", "--random", "--secret", "00")
	assert.Error(t, err)

	_, _, err = run(t, "split", "--secret", "abc")
	assert.ErrorIs(t, err, sss.ErrMalformedHex)

	_, _, err = run(t, "split", "--secret", "ff"+strings.Repeat("00", 31), "--curve", "ed25519")
	assert.ErrorIs(t, err, sss.ErrScalarOutOfRange)

	_, _, err = run(t, "split", "--secret", "01", "-t", "1")
	assert.ErrorIs(t, err, sss.ErrInvalidThreshold)

	_, _, err = run(t, "split", "--secret", "01", "--curve", "curve448")
	assert.ErrorIs(t, err, sss.ErrUnknownCurve)
}

func TestRoundTripCommand(t *testing.T) {
	for _, version := range []string{"legacy", "named", "current"} {
		t.Run(version, func(t *testing.T) {
			out, _, err := run(t, "roundtrip", "--backend-version", version,
				"--text", "--secret", "hello", "--curve", "secp256k1", "-n", "5", "-t", "3", "--select", "5,1,3")
			require.NoError(t, err)
			assert.Contains(t, out, "Recovered (text): hello")
			assert.Contains(t, out, "Matches original: true")
		})
	}
}

func TestRoundTripMetrics(t *testing.T) {
	_, stderr, err := run(t, "roundtrip", "--metrics", "--random", "--curve", "secp256r1")
	require.NoError(t, err)
	assert.Contains(t, stderr, `sss_operations_total{curve="secp256r1",operation="combine",status="success"} 1`)
	assert.Contains(t, stderr, `sss_backend_shape_total{curve="secp256r1",operation="split",shape="short-code"} 1`)
}

func TestIdentifiersCommand(t *testing.T) {
	out, _, err := run(t, "identifiers", "--curve", "ed25519", "-n", "4", "-o", "json")
	require.NoError(t, err)

	var result struct {
		Curve       string   `json:"curve"`
		Identifiers []string `json:"identifiers"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "ed25519", result.Curve)
	require.Len(t, result.Identifiers, 4)
	seen := map[string]bool{}
	for _, id := range result.Identifiers {
		assert.Len(t, id, 64)
		assert.False(t, seen[id])
		seen[id] = true
	}
}

func TestVersionCommand(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "sssctl version dev")

	out, _, err = run(t, "version", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"version": "dev"`)
}

func TestPrinterError(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPrinter("json", &buf).PrintError(sss.ErrInvalidState))
	assert.Contains(t, buf.String(), `"status": "error"`)

	buf.Reset()
	require.NoError(t, NewPrinter("text", &buf).PrintError(sss.ErrInvalidState))
	assert.Equal(t, "Error: "+sss.ErrInvalidState.Error()+"\n", buf.String())

	assert.Error(t, NewPrinter("yaml", &buf).PrintRecovery(nil))
}
