// Package ldap provides a simulated LDAP directory provider.
package ldap

import (
	"context"

	"github.com/anirudhbiyani/iam-auditor/pkg/iamaudit"
)

// DefaultStaleThresholdDays is the password age threshold for LDAP users.
const DefaultStaleThresholdDays = 90

var defaultUsers = []iamaudit.UserRecord{
	{
		ID:                  "alice_ldap",
		MFAEnabled:          false,
		PasswordLastChanged: "2024-11-15",
		Role:                "admin",
		PasswordPolicy:      "Weak",
	},
	{
		ID:                  "bob_ldap",
		MFAEnabled:          true,
		PasswordLastChanged: "2025-02-10",
		Role:                "user",
		PasswordPolicy:      "Strong",
	},
	{
		ID:             "carol_ldap",
		MFAEnabled:     true,
		Role:           "user",
		PasswordPolicy: "Strong",
	},
}

// Provider implements iamaudit.Provider with simulated LDAP data.
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

// New creates a new simulated LDAP provider.
func New(opts ...ProviderOption) *Provider {
	p := &Provider{users: defaultUsers}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name implements iamaudit.Provider.
func (p *Provider) Name() iamaudit.ProviderName {
	return iamaudit.ProviderLDAP
}

// Capabilities implements iamaudit.Provider.
func (p *Provider) Capabilities() []iamaudit.Capability {
	return []iamaudit.Capability{
		iamaudit.CapabilitySimulated,
		iamaudit.CapabilityMFA,
		iamaudit.CapabilityLastActivity,
		iamaudit.CapabilityPrivilege,
		iamaudit.CapabilityPasswordPolicy,
	}
}

// HasCapability implements iamaudit.Provider.
func (p *Provider) HasCapability(cap iamaudit.Capability) bool {
	return iamaudit.HasCapability(p.Capabilities(), cap)
}

// Rules implements iamaudit.Provider.
func (p *Provider) Rules() iamaudit.RuleSet {
	return iamaudit.LDAPRules{}
}

// DefaultStaleThresholdDays implements iamaudit.Provider.
func (p *Provider) DefaultStaleThresholdDays() int {
	return DefaultStaleThresholdDays
}

// FetchUsers implements iamaudit.Provider.
func (p *Provider) FetchUsers(_ context.Context, cfg iamaudit.Config) ([]iamaudit.UserRecord, error) {
	if cfg.FixtureFile != "" {
		return iamaudit.LoadFixture(cfg.FixtureFile)
	}
	return append([]iamaudit.UserRecord(nil), p.users...), nil
}

func init() {
	iamaudit.Register(New())
}
