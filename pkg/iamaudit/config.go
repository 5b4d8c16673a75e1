package iamaudit

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment variable overrides,
// e.g. IAMAUDIT_STALE_THRESHOLD_DAYS.
const EnvPrefix = "IAMAUDIT"

// DefaultReportDir is where reports are written unless configured otherwise.
const DefaultReportDir = "reports"

// Config is the per-run configuration consumed by providers and the auditor.
type Config struct {
	// Provider is the audited provider. Set by the loader, not the file.
	Provider ProviderName `mapstructure:"-" json:"provider"`

	// Region is the AWS region for the IAM client.
	Region string `mapstructure:"region" json:"region,omitempty"`

	// Profile is an optional AWS shared config profile.
	Profile string `mapstructure:"profile" json:"profile,omitempty"`

	// StaleThresholdDays overrides the provider's default staleness threshold.
	// Unset (zero) means "use the provider default"; an explicit zero is rejected.
	StaleThresholdDays int `mapstructure:"stale_threshold_days" json:"stale_threshold_days,omitempty"`

	// TenantID is the Entra ID tenant (azure).
	TenantID string `mapstructure:"tenant_id" json:"tenant_id,omitempty"`

	// CredentialsFile is a service account key file (gcp).
	CredentialsFile string `mapstructure:"credentials_file" json:"credentials_file,omitempty"`

	// Customer is the Google Workspace customer ID (gcp).
	Customer string `mapstructure:"customer" json:"customer,omitempty"`

	// FixtureFile replaces the built-in fixture of simulated providers.
	FixtureFile string `mapstructure:"fixture_file" json:"fixture_file,omitempty"`

	// ReportDir is the directory reports are written to.
	ReportDir string `mapstructure:"report_dir" json:"report_dir,omitempty"`
}

var configKeys = []string{
	"region",
	"profile",
	"stale_threshold_days",
	"tenant_id",
	"credentials_file",
	"customer",
	"fixture_file",
	"report_dir",
}

// DefaultConfigPath returns the conventional config file for a provider,
// e.g. config/aws_config.json.
func DefaultConfigPath(provider ProviderName) string {
	return filepath.Join("config", string(provider)+"_config.json")
}

// LoadConfig reads the provider configuration from path and the environment.
// When path is empty the conventional path is used and may be absent.
// An explicit path must exist.
func LoadConfig(provider ProviderName, path string) (Config, error) {
	v := viper.New()
	v.SetDefault("region", "us-east-1")
	v.SetDefault("report_dir", DefaultReportDir)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	for _, key := range configKeys {
		_ = v.BindEnv(key)
	}

	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath(provider)
	}
	v.SetConfigFile(path)
	v.SetConfigType("json")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.Is(err, fs.ErrNotExist) || errors.As(err, &notFound)
		if explicit || !missing {
			return Config{}, ErrConfiguration(fmt.Sprintf("failed to read config %s", path)).
				WithProvider(provider).
				WithCause(err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, ErrConfiguration("invalid config").WithProvider(provider).WithCause(err)
	}
	cfg.Provider = provider

	// zero only means "provider default" when the key is absent
	if v.IsSet("stale_threshold_days") && cfg.StaleThresholdDays <= 0 {
		return Config{}, ErrConfiguration("stale_threshold_days must be a positive integer").
			WithProvider(provider)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate validates the config fields.
func (c Config) Validate() error {
	if c.StaleThresholdDays < 0 {
		return ErrConfiguration("stale_threshold_days must be a positive integer").
			WithProvider(c.Provider)
	}
	return nil
}

// PolicyFor resolves the evaluation policy, falling back to the provider's
// default threshold.
func (c Config) PolicyFor(p Provider) Policy {
	days := c.StaleThresholdDays
	if days == 0 {
		days = p.DefaultStaleThresholdDays()
	}
	return Policy{StaleThresholdDays: days}
}
