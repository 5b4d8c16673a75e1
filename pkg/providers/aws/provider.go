// Package aws provides the AWS IAM audit provider.
package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/anirudhbiyani/iam-auditor/pkg/iamaudit"
)

// DefaultStaleThresholdDays is the staleness threshold for IAM users.
const DefaultStaleThresholdDays = 180

// Provider implements iamaudit.Provider for AWS IAM.
type Provider struct {
	client    IAMClient
	newClient func(ctx context.Context, cfg iamaudit.Config) (IAMClient, error)
}

// IAMClient abstracts the AWS IAM operations the audit needs, for testing.
type IAMClient interface {
	// ListUsers returns every IAM user in the account.
	ListUsers(ctx context.Context) ([]User, error)
	// ListMFADevices returns the number of MFA devices registered to a user.
	ListMFADevices(ctx context.Context, userName string) (int, error)
	// ListAttachedUserPolicies returns the names of managed policies attached to a user.
	ListAttachedUserPolicies(ctx context.Context, userName string) ([]string, error)
}

// User represents an AWS IAM user.
type User struct {
	UserName         string
	ARN              string
	CreateDate       *time.Time
	PasswordLastUsed *time.Time
}

// ProviderOption configures the Provider.
type ProviderOption func(*Provider)

// WithIAMClient sets the IAM client.
func WithIAMClient(client IAMClient) ProviderOption {
	return func(p *Provider) {
		p.client = client
	}
}

// New creates a new AWS provider. Without WithIAMClient an SDK client is
// built from the default credential chain on first use.
func New(opts ...ProviderOption) *Provider {
	p := &Provider{newClient: NewSDKClient}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name implements iamaudit.Provider.
func (p *Provider) Name() iamaudit.ProviderName {
	return iamaudit.ProviderAWS
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
	return iamaudit.CloudRules{}
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
			return nil, iamaudit.ErrFetch("failed to create IAM client").
				WithProvider(iamaudit.ProviderAWS).
				WithCause(err)
		}
	}

	users, err := client.ListUsers(ctx)
	if err != nil {
		return nil, iamaudit.ErrFetch("failed to list IAM users").
			WithProvider(iamaudit.ProviderAWS).
			WithOperation("ListUsers").
			WithCause(err)
	}

	records := make([]iamaudit.UserRecord, 0, len(users))
	for _, u := range users {
		mfa, err := client.ListMFADevices(ctx, u.UserName)
		if err != nil {
			return nil, fetchErr("ListMFADevices", u.UserName, err)
		}

		policies, err := client.ListAttachedUserPolicies(ctx, u.UserName)
		if err != nil {
			return nil, fetchErr("ListAttachedUserPolicies", u.UserName, err)
		}

		records = append(records, iamaudit.UserRecord{
			ID:               u.UserName,
			PasswordLastUsed: u.PasswordLastUsed,
			Policies:         policies,
			MFADevices:       iamaudit.IntPtr(mfa),
		})
	}
	return records, nil
}

func fetchErr(op, userName string, err error) error {
	return iamaudit.ErrFetch(fmt.Sprintf("%s failed", op)).
		WithProvider(iamaudit.ProviderAWS).
		WithOperation(op).
		WithUser(userName).
		WithCause(err)
}

func init() {
	// Register with default registry
	iamaudit.Register(New())
}
