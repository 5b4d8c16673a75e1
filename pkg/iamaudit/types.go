// Package iamaudit provides core types and interfaces for identity account
// compliance auditing.
//
// This package defines the normalized user record produced by provider fetch
// layers, the issue records produced by rule evaluation, and the report that
// aggregates them.
package iamaudit

import (
	"encoding/json"
	"time"
)

// Capability represents a feature supported by a provider.
type Capability string

const (
	// CapabilityLive indicates the provider reads from a real identity service.
	CapabilityLive Capability = "live"
	// CapabilitySimulated indicates the provider serves fixture data.
	CapabilitySimulated Capability = "simulated"
	// CapabilityMFA indicates the provider reports MFA state.
	CapabilityMFA Capability = "mfa"
	// CapabilityLastActivity indicates the provider reports a last-activity timestamp.
	CapabilityLastActivity Capability = "last_activity"
	// CapabilityPrivilege indicates the provider reports privilege assignments.
	CapabilityPrivilege Capability = "privilege"
	// CapabilityPasswordPolicy indicates the provider reports password policy strength.
	CapabilityPasswordPolicy Capability = "password_policy"
)

// ProviderName identifies an identity provider.
type ProviderName string

const (
	ProviderAWS       ProviderName = "aws"
	ProviderAzure     ProviderName = "azure"
	ProviderGCP       ProviderName = "gcp"
	ProviderForgeRock ProviderName = "forgerock"
	ProviderLDAP      ProviderName = "ldap"
)

// Severity indicates how urgently an issue must be remediated.
type Severity string

const (
	SeverityCritical Severity = "Critical"
	SeverityWarning  Severity = "Warning"
)

// UserRecord is a provider-neutral view of one identity account.
// Fields a provider cannot populate are left at their zero value.
type UserRecord struct {
	// ID is the account identifier, unique within a run.
	ID string `json:"id" yaml:"id"`

	// PasswordLastUsed is when the credential was last used (cloud IAM).
	PasswordLastUsed *time.Time `json:"password_last_used,omitempty" yaml:"password_last_used,omitempty"`

	// Policies are the names of attached privilege policies.
	Policies []string `json:"policies,omitempty" yaml:"policies,omitempty"`

	// MFADevices is the number of registered MFA devices (cloud IAM).
	// A nil count is treated as zero.
	MFADevices *int `json:"mfa_devices,omitempty" yaml:"mfa_devices,omitempty"`

	// MFAEnabled is the explicit MFA flag of directory-style providers.
	MFAEnabled bool `json:"mfa_enabled" yaml:"mfa_enabled"`

	// LastLogin is the raw last-login timestamp (YYYY-MM-DD or RFC 3339).
	LastLogin string `json:"last_login,omitempty" yaml:"last_login,omitempty"`

	// PasswordLastChanged is the raw password-change timestamp (LDAP).
	PasswordLastChanged string `json:"password_last_changed,omitempty" yaml:"password_last_changed,omitempty"`

	// Role is the directory role tag, e.g. "admin".
	Role string `json:"role,omitempty" yaml:"role,omitempty"`

	// PasswordPolicy is the password-policy strength tag (LDAP), e.g. "Weak".
	PasswordPolicy string `json:"password_policy,omitempty" yaml:"password_policy,omitempty"`
}

// Issue is a single compliance finding for a user.
type Issue struct {
	Message        string   `json:"message"`
	Severity       Severity `json:"severity"`
	Recommendation string   `json:"recommendation"`
}

// UserIssues pairs a user identifier with its findings in check order.
type UserIssues struct {
	User   string  `json:"user"`
	Issues []Issue `json:"issues"`
}

// Report is the outcome of one audit run.
type Report struct {
	// RunID uniquely identifies the audit run.
	RunID string `json:"run_id"`

	// Provider is the audited identity provider.
	Provider ProviderName `json:"provider"`

	// Date is the report date stamp (YYYY-MM-DD).
	Date string `json:"date"`

	// GeneratedAt is the evaluation wall-clock time.
	GeneratedAt time.Time `json:"generated_at"`

	// Users holds only users with at least one issue, in fetch order.
	Users []UserIssues `json:"users"`

	// Summary provides aggregate counts.
	Summary ReportSummary `json:"summary"`
}

// ReportSummary provides aggregate audit statistics.
type ReportSummary struct {
	AuditedUsers int `json:"audited_users"`
	FlaggedUsers int `json:"flagged_users"`
	Critical     int `json:"critical"`
	Warning      int `json:"warning"`
}

// IsCompliant returns true if no user was flagged.
func (r *Report) IsCompliant() bool {
	return len(r.Users) == 0
}

// CriticalUsers returns the users with at least one critical issue.
func (r *Report) CriticalUsers() []string {
	var ids []string
	for _, u := range r.Users {
		for _, issue := range u.Issues {
			if issue.Severity == SeverityCritical {
				ids = append(ids, u.User)
				break
			}
		}
	}
	return ids
}

// String implements fmt.Stringer for Issue.
func (i Issue) String() string {
	data, _ := json.Marshal(i)
	return string(data)
}

// Policy holds the thresholds a rule set is evaluated against.
type Policy struct {
	// StaleThresholdDays is the maximum number of days since last activity
	// before an account is considered stale.
	StaleThresholdDays int
}

// IntPtr returns a pointer to n. Handy for populating UserRecord.MFADevices.
func IntPtr(n int) *int {
	return &n
}
