package iamaudit

import (
	"time"
)

// CloudRules evaluates cloud IAM users: MFA devices, password last used and
// AdministratorAccess policies.
type CloudRules struct{}

// Name implements RuleSet.
func (CloudRules) Name() string { return "cloud" }

// Checks implements RuleSet.
func (CloudRules) Checks() []Check {
	return []Check{
		mfaDeviceCheck{},
		stalenessCheck{
			id:             "password_last_used",
			activity:       passwordLastUsed,
			staleFormat:    "Stale account (last used %d days ago)",
			recommendation: RecStaleCloud,
		},
		adminPolicyCheck{},
	}
}

// DirectoryRules evaluates directory users: MFA flag, last login and admin role.
type DirectoryRules struct{}

// Name implements RuleSet.
func (DirectoryRules) Name() string { return "directory" }

// Checks implements RuleSet.
func (DirectoryRules) Checks() []Check {
	return []Check{
		mfaFlagCheck{},
		stalenessCheck{
			id:             "last_login",
			activity:       lastLogin,
			staleFormat:    "Stale account (last login %d days ago)",
			recommendation: RecStaleDirectory,
		},
		adminRoleCheck{},
	}
}

// LDAPRules evaluates LDAP users: the directory checks keyed on password age,
// plus password policy strength.
type LDAPRules struct{}

// Name implements RuleSet.
func (LDAPRules) Name() string { return "ldap" }

// Checks implements RuleSet.
func (LDAPRules) Checks() []Check {
	return []Check{
		mfaFlagCheck{},
		stalenessCheck{
			id:             "password_last_changed",
			activity:       passwordLastChanged,
			staleFormat:    "Stale account (password last changed %d days ago)",
			recommendation: RecStaleDirectory,
		},
		adminRoleCheck{},
		passwordPolicyCheck{},
	}
}

// Evaluate runs every check of rules against user, in order, and returns the
// issues raised. An empty result means the user is compliant.
//
// A missing identifier, a non-positive threshold or a malformed timestamp
// yields a configuration error and no issues.
func Evaluate(rules RuleSet, user UserRecord, policy Policy, now time.Time) ([]Issue, error) {
	if user.ID == "" {
		return nil, ErrConfiguration("user record has no identifier").WithOperation("evaluate")
	}
	if policy.StaleThresholdDays <= 0 {
		return nil, ErrConfiguration("stale_threshold_days must be a positive integer").
			WithOperation("evaluate")
	}

	var issues []Issue
	for _, check := range rules.Checks() {
		issue, err := check.Evaluate(user, policy, now)
		if err != nil {
			return nil, err
		}
		if issue != nil {
			issues = append(issues, *issue)
		}
	}
	return issues, nil
}
