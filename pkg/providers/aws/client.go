package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/iam"

	"github.com/anirudhbiyani/iam-auditor/pkg/iamaudit"
)

// iamAPI is the subset of *iam.Client used by sdkClient.
type iamAPI interface {
	iam.ListUsersAPIClient
	iam.ListMFADevicesAPIClient
	iam.ListAttachedUserPoliciesAPIClient
}

// sdkClient implements IAMClient on top of aws-sdk-go-v2.
type sdkClient struct {
	api iamAPI
}

// NewSDKClient builds an IAMClient from the default AWS credential chain,
// honouring the configured region and shared profile.
func NewSDKClient(ctx context.Context, cfg iamaudit.Config) (IAMClient, error) {
	var loadOpts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(cfg.Region))
	}
	if cfg.Profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}
	return &sdkClient{api: iam.NewFromConfig(awsCfg)}, nil
}

// ListUsers implements IAMClient.
func (c *sdkClient) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	pager := iam.NewListUsersPaginator(c.api, &iam.ListUsersInput{})
	for pager.HasMorePages() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, u := range page.Users {
			users = append(users, User{
				UserName:         aws.ToString(u.UserName),
				ARN:              aws.ToString(u.Arn),
				CreateDate:       u.CreateDate,
				PasswordLastUsed: u.PasswordLastUsed,
			})
		}
	}
	return users, nil
}

// ListMFADevices implements IAMClient.
func (c *sdkClient) ListMFADevices(ctx context.Context, userName string) (int, error) {
	count := 0
	pager := iam.NewListMFADevicesPaginator(c.api, &iam.ListMFADevicesInput{
		UserName: aws.String(userName),
	})
	for pager.HasMorePages() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return 0, err
		}
		count += len(page.MFADevices)
	}
	return count, nil
}

// ListAttachedUserPolicies implements IAMClient.
func (c *sdkClient) ListAttachedUserPolicies(ctx context.Context, userName string) ([]string, error) {
	var names []string
	pager := iam.NewListAttachedUserPoliciesPaginator(c.api, &iam.ListAttachedUserPoliciesInput{
		UserName: aws.String(userName),
	})
	for pager.HasMorePages() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, policy := range page.AttachedPolicies {
			names = append(names, aws.ToString(policy.PolicyName))
		}
	}
	return names, nil
}
