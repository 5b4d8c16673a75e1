package iamaudit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DateLayout is the layout of report date stamps.
const DateLayout = "2006-01-02"

// Auditor fetches users from a provider, evaluates them and assembles a report.
type Auditor struct {
	registry *Registry
	clock    func() time.Time
	logger   zerolog.Logger
}

// AuditorOption configures the Auditor.
type AuditorOption func(*Auditor)

// WithRegistry sets the provider registry.
func WithRegistry(r *Registry) AuditorOption {
	return func(a *Auditor) {
		a.registry = r
	}
}

// WithClock sets the source of evaluation wall-clock time.
func WithClock(clock func() time.Time) AuditorOption {
	return func(a *Auditor) {
		a.clock = clock
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) AuditorOption {
	return func(a *Auditor) {
		a.logger = l
	}
}

// NewAuditor creates a new Auditor with the given options.
func NewAuditor(opts ...AuditorOption) *Auditor {
	a := &Auditor{
		registry: DefaultRegistry,
		clock:    time.Now,
		logger:   log.Logger,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Run audits every user of the named provider.
//
// The run fails as a whole on an unknown provider, a fetch failure or a
// malformed user record; partial reports are never returned.
func (a *Auditor) Run(ctx context.Context, name ProviderName, cfg Config) (*Report, error) {
	provider, err := a.registry.Get(name)
	if err != nil {
		return nil, err
	}

	cfg.Provider = name
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	policy := cfg.PolicyFor(provider)

	runID := uuid.New().String()
	logger := a.logger.With().
		Str("run_id", runID).
		Str("provider", string(name)).
		Logger()

	logger.Debug().
		Str("rules", provider.Rules().Name()).
		Int("stale_threshold_days", policy.StaleThresholdDays).
		Msg("fetching users")

	users, err := provider.FetchUsers(ctx, cfg)
	if err != nil {
		var aErr *AuditError
		if errors.As(err, &aErr) {
			return nil, err
		}
		return nil, ErrFetch("failed to fetch users").WithProvider(name).WithCause(err)
	}
	logger.Info().Int("users", len(users)).Msg("fetched users")

	now := a.clock().UTC()
	report := &Report{
		RunID:       runID,
		Provider:    name,
		Date:        now.Format(DateLayout),
		GeneratedAt: now,
		Users:       []UserIssues{},
	}

	seen := make(map[string]struct{}, len(users))
	for _, user := range users {
		if _, dup := seen[user.ID]; dup && user.ID != "" {
			return nil, ErrConfiguration("duplicate user identifier").
				WithProvider(name).
				WithUser(user.ID)
		}
		seen[user.ID] = struct{}{}

		issues, err := Evaluate(provider.Rules(), user, policy, now)
		if err != nil {
			var aErr *AuditError
			if errors.As(err, &aErr) && aErr.Provider == "" {
				aErr.WithProvider(name)
			}
			return nil, err
		}

		report.Summary.AuditedUsers++
		if len(issues) == 0 {
			continue
		}

		logger.Debug().Str("user", user.ID).Int("issues", len(issues)).Msg("user flagged")
		report.Users = append(report.Users, UserIssues{User: user.ID, Issues: issues})
		for _, issue := range issues {
			switch issue.Severity {
			case SeverityCritical:
				report.Summary.Critical++
			case SeverityWarning:
				report.Summary.Warning++
			}
		}
	}
	report.Summary.FlaggedUsers = len(report.Users)

	logger.Info().
		Int("flagged", report.Summary.FlaggedUsers).
		Int("critical", report.Summary.Critical).
		Int("warning", report.Summary.Warning).
		Msg("audit complete")

	return report, nil
}

// Publish renders the report with f and saves it to store under the
// conventional file name. It returns the stored location and the document.
func Publish(ctx context.Context, report *Report, f Formatter, store ReportStore) (string, []byte, error) {
	content, err := f.Format(report)
	if err != nil {
		return "", nil, err
	}

	location, err := store.Save(ctx, ReportFilename(report.Date, f.Extension()), content)
	if err != nil {
		return "", nil, err
	}
	return location, content, nil
}
