package gcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anirudhbiyani/iam-auditor/pkg/iamaudit"
)

type fakeDirectoryClient struct {
	users       []WorkspaceUser
	err         error
	gotCustomer string
}

func (f *fakeDirectoryClient) ListUsers(_ context.Context, customer string) ([]WorkspaceUser, error) {
	f.gotCustomer = customer
	return f.users, f.err
}

func TestFetchUsers(t *testing.T) {
	client := &fakeDirectoryClient{
		users: []WorkspaceUser{
			{PrimaryEmail: "ana@example.com", EnrolledIn2SV: true, LastLoginTime: "2025-02-27T10:00:00.000Z"},
			{PrimaryEmail: "root@example.com", IsAdmin: true, LastLoginTime: neverLoggedIn},
			{PrimaryEmail: "helpdesk@example.com", IsDelegatedAdmin: true, EnrolledIn2SV: true},
			{PrimaryEmail: "gone@example.com", Suspended: true},
		},
	}

	records, err := New(WithDirectoryClient(client)).FetchUsers(context.Background(), iamaudit.Config{})
	require.NoError(t, err)
	assert.Equal(t, DefaultCustomer, client.gotCustomer)

	assert.Equal(t, []iamaudit.UserRecord{
		{ID: "ana@example.com", MFAEnabled: true, LastLogin: "2025-02-27T10:00:00.000Z"},
		{ID: "root@example.com", Role: iamaudit.AdminRole},
		{ID: "helpdesk@example.com", MFAEnabled: true, Role: iamaudit.AdminRole},
	}, records)
}

func TestFetchUsersCustomer(t *testing.T) {
	client := &fakeDirectoryClient{}

	_, err := New(WithDirectoryClient(client)).FetchUsers(context.Background(), iamaudit.Config{Customer: "C01abc"})
	require.NoError(t, err)
	assert.Equal(t, "C01abc", client.gotCustomer)
}

func TestFetchUsersError(t *testing.T) {
	client := &fakeDirectoryClient{err: errors.New("googleapi: Error 403")}

	_, err := New(WithDirectoryClient(client)).FetchUsers(context.Background(), iamaudit.Config{})
	require.Error(t, err)
	assert.True(t, iamaudit.IsCategory(err, iamaudit.ErrCategoryFetch))
}

func TestNeverLoggedInIsNoActivity(t *testing.T) {
	client := &fakeDirectoryClient{
		users: []WorkspaceUser{{PrimaryEmail: "new@example.com", EnrolledIn2SV: true, LastLoginTime: neverLoggedIn}},
	}
	p := New(WithDirectoryClient(client))

	records, err := p.FetchUsers(context.Background(), iamaudit.Config{})
	require.NoError(t, err)

	issues, err := iamaudit.Evaluate(p.Rules(), records[0], iamaudit.Policy{StaleThresholdDays: 90}, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, iamaudit.MsgNoActivity, issues[0].Message)
}
