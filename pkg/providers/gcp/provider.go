// Package gcp provides the Google Workspace directory audit provider.
package gcp

import (
	"context"

	"github.com/anirudhbiyani/iam-auditor/pkg/iamaudit"
)

// DefaultStaleThresholdDays is the staleness threshold for Workspace users.
const DefaultStaleThresholdDays = 90

// DefaultCustomer selects the customer of the authenticated account.
const DefaultCustomer = "my_customer"

// neverLoggedIn is what the Directory API reports for users who never signed in.
const neverLoggedIn = "1970-01-01T00:00:00.000Z"

// Provider implements iamaudit.Provider for Google Workspace.
type Provider struct {
	client    DirectoryClient
	newClient func(ctx context.Context, cfg iamaudit.Config) (DirectoryClient, error)
}

// DirectoryClient abstracts Admin SDK Directory operations for testing.
type DirectoryClient interface {
	// ListUsers returns every user of the customer.
	ListUsers(ctx context.Context, customer string) ([]WorkspaceUser, error)
}

// WorkspaceUser represents a Google Workspace user.
type WorkspaceUser struct {
	PrimaryEmail     string
	EnrolledIn2SV    bool
	IsAdmin          bool
	IsDelegatedAdmin bool
	Suspended        bool
	// LastLoginTime is RFC 3339 text as returned by the API.
	LastLoginTime string
}

// ProviderOption configures the Provider.
type ProviderOption func(*Provider)

// WithDirectoryClient sets the Directory client.
func WithDirectoryClient(client DirectoryClient) ProviderOption {
	return func(p *Provider) {
		p.client = client
	}
}

// New creates a new Google Workspace provider.
func New(opts ...ProviderOption) *Provider {
	p := &Provider{newClient: NewSDKClient}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name implements iamaudit.Provider.
func (p *Provider) Name() iamaudit.ProviderName {
	return iamaudit.ProviderGCP
}

// Capabilities implements iamaudit.Provider.
func (p *Provider) Capabilities() []iamaudit.Capability {
	return []iamaudit.Capability{
		iamaudit.CapabilityLive,
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

// FetchUsers implements iamaudit.Provider. Suspended users are skipped.
func (p *Provider) FetchUsers(ctx context.Context, cfg iamaudit.Config) ([]iamaudit.UserRecord, error) {
	client := p.client
	if client == nil {
		var err error
		client, err = p.newClient(ctx, cfg)
		if err != nil {
			return nil, iamaudit.ErrFetch("failed to create Directory client").
				WithProvider(iamaudit.ProviderGCP).
				WithCause(err)
		}
	}

	customer := cfg.Customer
	if customer == "" {
		customer = DefaultCustomer
	}

	users, err := client.ListUsers(ctx, customer)
	if err != nil {
		return nil, iamaudit.ErrFetch("failed to list users").
			WithProvider(iamaudit.ProviderGCP).
			WithOperation("users.list").
			WithCause(err)
	}

	records := make([]iamaudit.UserRecord, 0, len(users))
	for _, u := range users {
		if u.Suspended {
			continue
		}

		record := iamaudit.UserRecord{
			ID:         u.PrimaryEmail,
			MFAEnabled: u.EnrolledIn2SV,
		}
		if u.LastLoginTime != neverLoggedIn {
			record.LastLogin = u.LastLoginTime
		}
		if u.IsAdmin || u.IsDelegatedAdmin {
			record.Role = iamaudit.AdminRole
		}
		records = append(records, record)
	}
	return records, nil
}

func init() {
	// Register with default registry
	iamaudit.Register(New())
}
