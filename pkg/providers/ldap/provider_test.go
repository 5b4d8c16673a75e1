package ldap

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anirudhbiyani/iam-auditor/pkg/iamaudit"
)

func TestBuiltinUsers(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	p := New()

	records, err := p.FetchUsers(context.Background(), iamaudit.Config{})
	require.NoError(t, err)
	require.Len(t, records, 3)

	got := map[string][]string{}
	for _, r := range records {
		issues, err := iamaudit.Evaluate(p.Rules(), r, iamaudit.Policy{StaleThresholdDays: DefaultStaleThresholdDays}, now)
		require.NoError(t, err)
		for _, i := range issues {
			got[r.ID] = append(got[r.ID], i.Message)
		}
	}

	assert.Equal(t, map[string][]string{
		"alice_ldap": {
			iamaudit.MsgNoMFA,
			"Stale account (password last changed 106 days ago)",
			iamaudit.MsgAdminRole,
			iamaudit.MsgWeakPolicy,
		},
		"carol_ldap": {iamaudit.MsgNoActivity},
	}, got)
}

func TestFetchUsersReturnsCopy(t *testing.T) {
	p := New()
	records, err := p.FetchUsers(context.Background(), iamaudit.Config{})
	require.NoError(t, err)

	records[0].ID = "mutated"
	again, err := p.FetchUsers(context.Background(), iamaudit.Config{})
	require.NoError(t, err)
	assert.Equal(t, "alice_ldap", again[0].ID)
}

func TestFixtureFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ldap.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
users:
  - id: dave_ldap
    mfa_enabled: true
    password_last_changed: "2025-02-01"
    password_policy: Weak
`), 0o600))

	records, err := New().FetchUsers(context.Background(), iamaudit.Config{FixtureFile: path})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "dave_ldap", records[0].ID)
	assert.Equal(t, "Weak", records[0].PasswordPolicy)
}

func TestWithUsers(t *testing.T) {
	users := []iamaudit.UserRecord{{ID: "x"}}
	records, err := New(WithUsers(users)).FetchUsers(context.Background(), iamaudit.Config{})
	require.NoError(t, err)
	assert.Equal(t, users, records)
	assert.True(t, New().HasCapability(iamaudit.CapabilityPasswordPolicy))
}
