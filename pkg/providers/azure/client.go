package azure

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	msgraphbeta "github.com/microsoftgraph/msgraph-beta-sdk-go"
	"github.com/microsoftgraph/msgraph-beta-sdk-go/models"
	"github.com/microsoftgraph/msgraph-beta-sdk-go/users"

	"github.com/anirudhbiyani/iam-auditor/pkg/iamaudit"
)

var graphScopes = []string{"https://graph.microsoft.com/.default"}

// sdkClient implements GraphClient on top of the Graph beta SDK.
type sdkClient struct {
	graph *msgraphbeta.GraphServiceClient
}

// NewSDKClient builds a GraphClient from the default Azure credential chain.
func NewSDKClient(_ context.Context, cfg iamaudit.Config) (GraphClient, error) {
	cred, err := azidentity.NewDefaultAzureCredential(&azidentity.DefaultAzureCredentialOptions{
		TenantID: cfg.TenantID,
	})
	if err != nil {
		return nil, err
	}

	graph, err := msgraphbeta.NewGraphServiceClientWithCredentials(cred, graphScopes)
	if err != nil {
		return nil, err
	}
	return &sdkClient{graph: graph}, nil
}

// ListUsers implements GraphClient. signInActivity is only exposed with
// AuditLog.Read.All.
func (c *sdkClient) ListUsers(ctx context.Context) ([]DirectoryUser, error) {
	resp, err := c.graph.Users().Get(ctx, &users.UsersRequestBuilderGetRequestConfiguration{
		QueryParameters: &users.UsersRequestBuilderGetQueryParameters{
			Select: []string{"id", "userPrincipalName", "signInActivity"},
		},
	})
	if err != nil {
		return nil, err
	}

	var out []DirectoryUser
	for {
		for _, u := range resp.GetValue() {
			du := DirectoryUser{
				ID:                deref(u.GetId()),
				UserPrincipalName: deref(u.GetUserPrincipalName()),
			}
			if activity := u.GetSignInActivity(); activity != nil {
				du.LastSignIn = activity.GetLastSignInDateTime()
			}
			out = append(out, du)
		}

		next := resp.GetOdataNextLink()
		if next == nil || *next == "" {
			break
		}
		resp, err = c.graph.Users().WithUrl(*next).Get(ctx, nil)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ListAuthenticationMethods implements GraphClient. All pages are read.
func (c *sdkClient) ListAuthenticationMethods(ctx context.Context, userID string) ([]string, error) {
	methods := c.graph.Users().ByUserId(userID).Authentication().Methods()
	resp, err := methods.Get(ctx, nil)
	if err != nil {
		return nil, err
	}

	var types []string
	for {
		for _, m := range resp.GetValue() {
			types = append(types, deref(m.GetOdataType()))
		}

		next := resp.GetOdataNextLink()
		if next == nil || *next == "" {
			break
		}
		resp, err = methods.WithUrl(*next).Get(ctx, nil)
		if err != nil {
			return nil, err
		}
	}
	return types, nil
}

// ListDirectoryRoles implements GraphClient. memberOf mixes groups and
// roles, so every page is read before roles are picked out.
func (c *sdkClient) ListDirectoryRoles(ctx context.Context, userID string) ([]string, error) {
	memberOf := c.graph.Users().ByUserId(userID).MemberOf()
	resp, err := memberOf.Get(ctx, nil)
	if err != nil {
		return nil, err
	}

	var roles []string
	for {
		for _, obj := range resp.GetValue() {
			role, ok := obj.(models.DirectoryRoleable)
			if !ok {
				continue
			}
			roles = append(roles, deref(role.GetDisplayName()))
		}

		next := resp.GetOdataNextLink()
		if next == nil || *next == "" {
			break
		}
		resp, err = memberOf.WithUrl(*next).Get(ctx, nil)
		if err != nil {
			return nil, err
		}
	}
	return roles, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
