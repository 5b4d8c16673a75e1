// Package azure provides the Microsoft Entra ID audit provider.
package azure

import (
	"context"
	"strings"
	"time"

	"github.com/anirudhbiyani/iam-auditor/pkg/iamaudit"
)

// DefaultStaleThresholdDays is the staleness threshold for Entra ID users.
const DefaultStaleThresholdDays = 90

// passwordMethodType is the authentication method every user has; it does
// not count as a second factor.
const passwordMethodType = "#microsoft.graph.passwordAuthenticationMethod"

// Provider implements iamaudit.Provider for Entra ID.
type Provider struct {
	client    GraphClient
	newClient func(ctx context.Context, cfg iamaudit.Config) (GraphClient, error)
}

// GraphClient abstracts Microsoft Graph operations for testing.
type GraphClient interface {
	// ListUsers returns every user in the tenant.
	ListUsers(ctx context.Context) ([]DirectoryUser, error)
	// ListAuthenticationMethods returns the OData types of a user's
	// registered authentication methods.
	ListAuthenticationMethods(ctx context.Context, userID string) ([]string, error)
	// ListDirectoryRoles returns the display names of a user's directory roles.
	ListDirectoryRoles(ctx context.Context, userID string) ([]string, error)
}

// DirectoryUser represents an Entra ID user.
type DirectoryUser struct {
	ID                string
	UserPrincipalName string
	LastSignIn        *time.Time
}

// ProviderOption configures the Provider.
type ProviderOption func(*Provider)

// WithGraphClient sets the Graph client.
func WithGraphClient(client GraphClient) ProviderOption {
	return func(p *Provider) {
		p.client = client
	}
}

// New creates a new Entra ID provider.
func New(opts ...ProviderOption) *Provider {
	p := &Provider{newClient: NewSDKClient}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name implements iamaudit.Provider.
func (p *Provider) Name() iamaudit.ProviderName {
	return iamaudit.ProviderAzure
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

// FetchUsers implements iamaudit.Provider.
func (p *Provider) FetchUsers(ctx context.Context, cfg iamaudit.Config) ([]iamaudit.UserRecord, error) {
	client := p.client
	if client == nil {
		var err error
		client, err = p.newClient(ctx, cfg)
		if err != nil {
			return nil, iamaudit.ErrFetch("failed to create Graph client").
				WithProvider(iamaudit.ProviderAzure).
				WithCause(err)
		}
	}

	users, err := client.ListUsers(ctx)
	if err != nil {
		return nil, iamaudit.ErrFetch("failed to list users").
			WithProvider(iamaudit.ProviderAzure).
			WithOperation("users").
			WithCause(err)
	}

	records := make([]iamaudit.UserRecord, 0, len(users))
	for _, u := range users {
		methods, err := client.ListAuthenticationMethods(ctx, u.ID)
		if err != nil {
			return nil, fetchErr("authentication/methods", u.UserPrincipalName, err)
		}

		roles, err := client.ListDirectoryRoles(ctx, u.ID)
		if err != nil {
			return nil, fetchErr("memberOf", u.UserPrincipalName, err)
		}

		record := iamaudit.UserRecord{
			ID:         u.UserPrincipalName,
			MFAEnabled: hasSecondFactor(methods),
		}
		if u.LastSignIn != nil {
			record.LastLogin = u.LastSignIn.UTC().Format(time.RFC3339)
		}
		if isAdmin(roles) {
			record.Role = iamaudit.AdminRole
		}
		records = append(records, record)
	}
	return records, nil
}

func hasSecondFactor(methodTypes []string) bool {
	for _, t := range methodTypes {
		if t != passwordMethodType {
			return true
		}
	}
	return false
}

// isAdmin reports whether any directory role is an administrator role,
// e.g. "Global Administrator" or "User Administrator".
func isAdmin(roles []string) bool {
	for _, r := range roles {
		if strings.HasSuffix(r, "Administrator") {
			return true
		}
	}
	return false
}

func fetchErr(op, user string, err error) error {
	return iamaudit.ErrFetch(op + " failed").
		WithProvider(iamaudit.ProviderAzure).
		WithOperation(op).
		WithUser(user).
		WithCause(err)
}

func init() {
	// Register with default registry
	iamaudit.Register(New())
}
