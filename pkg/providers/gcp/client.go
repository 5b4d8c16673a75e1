package gcp

import (
	"context"

	admin "google.golang.org/api/admin/directory/v1"
	"google.golang.org/api/option"

	"github.com/anirudhbiyani/iam-auditor/pkg/iamaudit"
)

// sdkClient implements DirectoryClient on top of the Admin SDK.
type sdkClient struct {
	svc *admin.Service
}

// NewSDKClient builds a DirectoryClient. It uses the configured service
// account key file when set, otherwise application default credentials.
func NewSDKClient(ctx context.Context, cfg iamaudit.Config) (DirectoryClient, error) {
	opts := []option.ClientOption{
		option.WithScopes(admin.AdminDirectoryUserReadonlyScope),
	}
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	svc, err := admin.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &sdkClient{svc: svc}, nil
}

// ListUsers implements DirectoryClient.
func (c *sdkClient) ListUsers(ctx context.Context, customer string) ([]WorkspaceUser, error) {
	var out []WorkspaceUser
	err := c.svc.Users.List().
		Customer(customer).
		MaxResults(500).
		Pages(ctx, func(page *admin.Users) error {
			for _, u := range page.Users {
				out = append(out, WorkspaceUser{
					PrimaryEmail:     u.PrimaryEmail,
					EnrolledIn2SV:    u.IsEnrolledIn2Sv,
					IsAdmin:          u.IsAdmin,
					IsDelegatedAdmin: u.IsDelegatedAdmin,
					Suspended:        u.Suspended,
					LastLoginTime:    u.LastLoginTime,
				})
			}
			return nil
		})
	if err != nil {
		return nil, err
	}
	return out, nil
}
