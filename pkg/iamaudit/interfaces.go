package iamaudit

import (
	"context"
	"time"
)

// Provider is the base interface for identity provider implementations.
// A provider knows how to fetch its users and which rule set applies to them.
type Provider interface {
	// Name returns the provider identifier.
	Name() ProviderName

	// Capabilities returns the features supported by this provider.
	Capabilities() []Capability

	// HasCapability checks if the provider supports a specific capability.
	HasCapability(cap Capability) bool

	// Rules returns the rule set used to evaluate this provider's users.
	Rules() RuleSet

	// DefaultStaleThresholdDays is used when the configuration sets no threshold.
	DefaultStaleThresholdDays() int

	// FetchUsers returns the provider's users as normalized records.
	FetchUsers(ctx context.Context, cfg Config) ([]UserRecord, error)
}

// RuleSet is an ordered collection of compliance checks for one provider family.
type RuleSet interface {
	// Name returns the rule set identifier.
	Name() string

	// Checks returns the checks in evaluation order.
	Checks() []Check
}

// Check is a single compliance predicate.
type Check interface {
	// ID returns the unique identifier for this check.
	ID() string

	// Evaluate returns the issue raised for the user, or nil if the user passes.
	// An error means the record itself is malformed.
	Evaluate(user UserRecord, policy Policy, now time.Time) (*Issue, error)
}

// Formatter renders a report into a document.
type Formatter interface {
	// Format renders the report.
	Format(report *Report) ([]byte, error)

	// Extension returns the file extension for rendered documents.
	Extension() string
}

// ReportStore persists rendered reports.
type ReportStore interface {
	// Save stores the content under name and returns its location.
	Save(ctx context.Context, name string, content []byte) (string, error)
}
