package iamaudit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	name      ProviderName
	rules     RuleSet
	threshold int
	users     []UserRecord
	err       error

	gotCfg Config
}

func (f *fakeProvider) Name() ProviderName { return f.name }

func (f *fakeProvider) Capabilities() []Capability {
	return []Capability{CapabilitySimulated, CapabilityMFA}
}

func (f *fakeProvider) HasCapability(cap Capability) bool {
	return HasCapability(f.Capabilities(), cap)
}

func (f *fakeProvider) Rules() RuleSet { return f.rules }

func (f *fakeProvider) DefaultStaleThresholdDays() int { return f.threshold }

func (f *fakeProvider) FetchUsers(_ context.Context, cfg Config) ([]UserRecord, error) {
	f.gotCfg = cfg
	return f.users, f.err
}

func newTestAuditor(t *testing.T, providers ...Provider) *Auditor {
	t.Helper()

	reg := NewRegistry()
	for _, p := range providers {
		require.NoError(t, reg.Register(p))
	}
	return NewAuditor(
		WithRegistry(reg),
		WithClock(func() time.Time { return testNow }),
		WithLogger(zerolog.Nop()),
	)
}

func TestAuditorRun(t *testing.T) {
	p := &fakeProvider{
		name:      "fake",
		rules:     DirectoryRules{},
		threshold: 30,
		users: []UserRecord{
			{ID: "jane", LastLogin: "2025-01-01", Role: "admin"},
			{ID: "john", MFAEnabled: true, LastLogin: "2025-02-20", Role: "user"},
			{ID: "jim", MFAEnabled: true},
		},
	}

	report, err := newTestAuditor(t, p).Run(context.Background(), "fake", Config{})
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, ProviderName("fake"), report.Provider)
	assert.Equal(t, "2025-03-01", report.Date)
	assert.Equal(t, testNow, report.GeneratedAt)
	assert.Equal(t, ProviderName("fake"), p.gotCfg.Provider)

	require.Len(t, report.Users, 2)
	assert.Equal(t, "jane", report.Users[0].User)
	assert.Len(t, report.Users[0].Issues, 3)
	assert.Equal(t, "jim", report.Users[1].User)

	assert.Equal(t, ReportSummary{AuditedUsers: 3, FlaggedUsers: 2, Critical: 2, Warning: 2}, report.Summary)
	assert.False(t, report.IsCompliant())
	assert.Equal(t, []string{"jane"}, report.CriticalUsers())
}

func TestAuditorRunThreshold(t *testing.T) {
	users := []UserRecord{{ID: "u", MFAEnabled: true, LastLogin: "2025-01-15"}} // 45 days

	tests := []struct {
		name        string
		cfg         Config
		wantFlagged int
	}{
		{name: "provider default", cfg: Config{}, wantFlagged: 1},
		{name: "configured threshold", cfg: Config{StaleThresholdDays: 60}, wantFlagged: 0},
		{name: "exact threshold", cfg: Config{StaleThresholdDays: 45}, wantFlagged: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &fakeProvider{name: "fake", rules: DirectoryRules{}, threshold: 30, users: users}
			report, err := newTestAuditor(t, p).Run(context.Background(), "fake", tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFlagged, report.Summary.FlaggedUsers)
		})
	}
}

func TestAuditorRunCompliant(t *testing.T) {
	p := &fakeProvider{
		name:      "fake",
		rules:     CloudRules{},
		threshold: 180,
		users:     []UserRecord{{ID: "ok", MFADevices: IntPtr(1), PasswordLastUsed: daysAgo(3)}},
	}

	report, err := newTestAuditor(t, p).Run(context.Background(), "fake", Config{})
	require.NoError(t, err)
	assert.True(t, report.IsCompliant())
	assert.NotNil(t, report.Users)
	assert.Equal(t, 1, report.Summary.AuditedUsers)
}

func TestAuditorRunErrors(t *testing.T) {
	tests := []struct {
		name     string
		provider *fakeProvider
		lookup   ProviderName
		cfg      Config
		category ErrorCategory
	}{
		{
			name:     "unsupported provider",
			provider: &fakeProvider{name: "fake", rules: CloudRules{}, threshold: 1},
			lookup:   "okta",
			category: ErrCategoryUnsupportedProvider,
		},
		{
			name:     "fetch failure",
			provider: &fakeProvider{name: "fake", rules: CloudRules{}, threshold: 1, err: errors.New("throttled")},
			lookup:   "fake",
			category: ErrCategoryFetch,
		},
		{
			name: "malformed timestamp",
			provider: &fakeProvider{
				name: "fake", rules: DirectoryRules{}, threshold: 30,
				users: []UserRecord{
					{ID: "fine", MFAEnabled: true, LastLogin: "2025-02-28"},
					{ID: "broken", MFAEnabled: true, LastLogin: "not-a-date"},
				},
			},
			lookup:   "fake",
			category: ErrCategoryConfiguration,
		},
		{
			name: "duplicate identifier",
			provider: &fakeProvider{
				name: "fake", rules: DirectoryRules{}, threshold: 30,
				users: []UserRecord{{ID: "twin", MFAEnabled: true}, {ID: "twin", MFAEnabled: true}},
			},
			lookup:   "fake",
			category: ErrCategoryConfiguration,
		},
		{
			name:     "negative threshold",
			provider: &fakeProvider{name: "fake", rules: CloudRules{}, threshold: 1},
			lookup:   "fake",
			cfg:      Config{StaleThresholdDays: -5},
			category: ErrCategoryConfiguration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := newTestAuditor(t, tt.provider).Run(context.Background(), tt.lookup, tt.cfg)
			require.Error(t, err)
			assert.Nil(t, report)
			assert.True(t, IsCategory(err, tt.category), "got %v", err)
			assert.Equal(t, tt.lookup, GetErrorProvider(err))
		})
	}
}

func TestAuditorRunPassesThroughAuditErrors(t *testing.T) {
	p := &fakeProvider{
		name: "fake", rules: CloudRules{}, threshold: 1,
		err: ErrConfiguration("bad fixture").WithProvider("fake"),
	}

	_, err := newTestAuditor(t, p).Run(context.Background(), "fake", Config{})
	require.Error(t, err)
	assert.True(t, IsConfigurationError(err))
}

func TestPublish(t *testing.T) {
	report := &Report{Provider: ProviderForgeRock, Date: "2025-03-01", Users: []UserIssues{}}
	store := NewMemoryReportStore()

	location, content, err := Publish(context.Background(), report, TextFormatter{}, store)
	require.NoError(t, err)
	assert.Equal(t, "iam_report_2025-03-01.txt", location)

	saved, ok := store.Get(location)
	require.True(t, ok)
	assert.Equal(t, content, saved)
	assert.Contains(t, string(saved), "No issues found. All IAM users are compliant.")
}
