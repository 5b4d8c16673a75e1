// Package forgerock provides a simulated ForgeRock directory provider.
//
// No ForgeRock API is called: users come from a built-in fixture or from the
// YAML file named by the fixture_file setting.
package forgerock

import (
	"context"

	"github.com/anirudhbiyani/iam-auditor/pkg/iamaudit"
)

// DefaultStaleThresholdDays is the staleness threshold for ForgeRock users.
const DefaultStaleThresholdDays = 30

// defaultUsers is the built-in fixture.
var defaultUsers = []iamaudit.UserRecord{
	{
		ID:         "jane_forgerock",
		MFAEnabled: false,
		LastLogin:  "2025-02-01",
		Role:       "admin",
	},
	{
		ID:         "john_forgerock",
		MFAEnabled: true,
		LastLogin:  "2025-02-20",
		Role:       "user",
	},
}

// Provider implements iamaudit.Provider with simulated ForgeRock data.
type Provider struct {
	users []iamaudit.UserRecord
}

// ProviderOption configures the Provider.
type ProviderOption func(*Provider)

// WithUsers replaces the built-in fixture.
func WithUsers(users []iamaudit.UserRecord) ProviderOption {
	return func(p *Provider) {
		p.users = users
	}
}

// New creates a new simulated ForgeRock provider.
func New(opts ...ProviderOption) *Provider {
	p := &Provider{users: defaultUsers}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name implements iamaudit.Provider.
func (p *Provider) Name() iamaudit.ProviderName {
	return iamaudit.ProviderForgeRock
}

// Capabilities implements iamaudit.Provider.
func (p *Provider) Capabilities() []iamaudit.Capability {
	return []iamaudit.Capability{
		iamaudit.CapabilitySimulated,
		iamaudit.CapabilityMFA,
		iamaudit.CapabilityLastActivity,
		iamaudit.CapabilityPrivilege,
	}
}

// HasCapability implements iamaudit.Provider.
func (p *Provider) HasCapability(cap iamaudit.Capability) bool {
	return iamaudit.HasCapability(p.Capabilities(), cap)
}

// Rules implements iamaudit.Provider.
func (p *Provider) Rules() iamaudit.RuleSet {
	return iamaudit.DirectoryRules{}
}

// DefaultStaleThresholdDays implements iamaudit.Provider.
func (p *Provider) DefaultStaleThresholdDays() int {
	return DefaultStaleThresholdDays
}

// FetchUsers implements iamaudit.Provider.
func (p *Provider) FetchUsers(_ context.Context, cfg iamaudit.Config) ([]iamaudit.UserRecord, error) {
	if cfg.FixtureFile != "" {
		users, err := iamaudit.LoadFixture(cfg.FixtureFile)
		if err != nil {
			return nil, err
		}
		return users, nil
	}
	return append([]iamaudit.UserRecord(nil), p.users...), nil
}

func init() {
	iamaudit.Register(New())
}
