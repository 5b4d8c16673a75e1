package iamaudit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "aws_config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultConfigPath(t *testing.T) {
	assert.Equal(t, filepath.Join("config", "ldap_config.json"), DefaultConfigPath(ProviderLDAP))
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `{
  "region": "eu-west-1",
  "profile": "audit",
  "stale_threshold_days": 120,
  "report_dir": "out"
}`)

	cfg, err := LoadConfig(ProviderAWS, path)
	require.NoError(t, err)
	assert.Equal(t, Config{
		Provider:           ProviderAWS,
		Region:             "eu-west-1",
		Profile:            "audit",
		StaleThresholdDays: 120,
		ReportDir:          "out",
	}, cfg)
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig(ProviderForgeRock, "")
	require.NoError(t, err)
	assert.Equal(t, ProviderForgeRock, cfg.Provider)
	assert.Equal(t, "us-east-1", cfg.Region)
	assert.Equal(t, DefaultReportDir, cfg.ReportDir)
	assert.Zero(t, cfg.StaleThresholdDays)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	path := writeConfig(t, `{"stale_threshold_days": 120}`)
	t.Setenv("IAMAUDIT_STALE_THRESHOLD_DAYS", "45")
	t.Setenv("IAMAUDIT_TENANT_ID", "contoso")

	cfg, err := LoadConfig(ProviderAzure, path)
	require.NoError(t, err)
	assert.Equal(t, 45, cfg.StaleThresholdDays)
	assert.Equal(t, "contoso", cfg.TenantID)
}

func TestLoadConfigEnvZeroThreshold(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("IAMAUDIT_STALE_THRESHOLD_DAYS", "0")

	_, err := LoadConfig(ProviderLDAP, "")
	require.Error(t, err)
	assert.True(t, IsConfigurationError(err), "got %v", err)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{
			name: "explicit file missing",
			path: func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.json") },
		},
		{
			name: "malformed json",
			path: func(t *testing.T) string { return writeConfig(t, `{"region": `) },
		},
		{
			name: "negative threshold",
			path: func(t *testing.T) string { return writeConfig(t, `{"stale_threshold_days": -1}`) },
		},
		{
			name: "explicit zero threshold",
			path: func(t *testing.T) string { return writeConfig(t, `{"stale_threshold_days": 0}`) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(ProviderAWS, tt.path(t))
			require.Error(t, err)
			assert.True(t, IsConfigurationError(err), "got %v", err)
		})
	}
}

func TestPolicyFor(t *testing.T) {
	p := &fakeProvider{name: "fake", threshold: 90}

	assert.Equal(t, Policy{StaleThresholdDays: 90}, Config{}.PolicyFor(p))
	assert.Equal(t, Policy{StaleThresholdDays: 7}, Config{StaleThresholdDays: 7}.PolicyFor(p))
}
