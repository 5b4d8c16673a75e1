package iamaudit

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Issue texts shared across rule sets.
const (
	MsgNoMFA          = "No MFA enabled"
	RecNoMFA          = "Enable MFA for all users immediately."
	MsgNoActivity     = "No record of password usage (possible inactive account)"
	RecNoActivity     = "Review the user account for activity."
	RecStaleCloud     = "Review account activity and disable if necessary."
	RecStaleDirectory = "Prompt a password update."
	MsgAdminPolicy    = "User has AdministratorAccess policy"
	RecAdminPolicy    = "Review the necessity of admin privileges."
	MsgAdminRole      = "User has admin privileges"
	RecAdminRole      = "Review the necessity of elevated rights."
	MsgWeakPolicy     = "Weak LDAP password policy"
	RecWeakPolicy     = "Enforce stronger password policies."
)

// AdministratorAccessMarker is the policy name fragment that flags admin rights.
const AdministratorAccessMarker = "AdministratorAccess"

// AdminRole is the directory role tag that flags admin rights.
const AdminRole = "admin"

// WeakPasswordPolicy is the LDAP password-policy tag that flags a weak policy.
const WeakPasswordPolicy = "Weak"

// timestampLayouts are tried in order when parsing raw provider timestamps.
var timestampLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"20060102150405Z0700",
}

// ParseTimestamp parses a raw provider timestamp. The result is in UTC.
func ParseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", raw)
}

// DaysSince returns the whole days elapsed from then to now, rounded down.
// Both instants are compared in UTC.
func DaysSince(now, then time.Time) int {
	return int(math.Floor(now.UTC().Sub(then.UTC()).Hours() / 24))
}

// mfaDeviceCheck flags cloud users without a registered MFA device.
type mfaDeviceCheck struct{}

func (mfaDeviceCheck) ID() string { return "mfa_devices" }

func (mfaDeviceCheck) Evaluate(user UserRecord, _ Policy, _ time.Time) (*Issue, error) {
	if user.MFADevices != nil && *user.MFADevices > 0 {
		return nil, nil
	}
	return &Issue{Message: MsgNoMFA, Severity: SeverityCritical, Recommendation: RecNoMFA}, nil
}

// mfaFlagCheck flags directory users whose MFA flag is off.
type mfaFlagCheck struct{}

func (mfaFlagCheck) ID() string { return "mfa_flag" }

func (mfaFlagCheck) Evaluate(user UserRecord, _ Policy, _ time.Time) (*Issue, error) {
	if user.MFAEnabled {
		return nil, nil
	}
	return &Issue{Message: MsgNoMFA, Severity: SeverityCritical, Recommendation: RecNoMFA}, nil
}

// stalenessCheck flags accounts whose last activity is older than the threshold.
type stalenessCheck struct {
	id string
	// activity returns the last-activity instant, nil when there is none.
	activity func(UserRecord) (*time.Time, error)
	// staleFormat receives the elapsed day count.
	staleFormat    string
	recommendation string
}

func (c stalenessCheck) ID() string { return c.id }

func (c stalenessCheck) Evaluate(user UserRecord, policy Policy, now time.Time) (*Issue, error) {
	last, err := c.activity(user)
	if err != nil {
		return nil, ErrConfiguration("malformed last-activity timestamp").
			WithOperation(c.id).
			WithUser(user.ID).
			WithCause(err)
	}
	if last == nil {
		return &Issue{Message: MsgNoActivity, Severity: SeverityWarning, Recommendation: RecNoActivity}, nil
	}

	days := DaysSince(now, *last)
	if days <= policy.StaleThresholdDays {
		return nil, nil
	}
	return &Issue{
		Message:        fmt.Sprintf(c.staleFormat, days),
		Severity:       SeverityWarning,
		Recommendation: c.recommendation,
	}, nil
}

func passwordLastUsed(user UserRecord) (*time.Time, error) {
	return user.PasswordLastUsed, nil
}

func lastLogin(user UserRecord) (*time.Time, error) {
	return parseOptional(user.LastLogin)
}

func passwordLastChanged(user UserRecord) (*time.Time, error) {
	return parseOptional(user.PasswordLastChanged)
}

func parseOptional(raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	t, err := ParseTimestamp(raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// adminPolicyCheck flags cloud users with an AdministratorAccess policy attached.
// Only the first matching policy counts.
type adminPolicyCheck struct{}

func (adminPolicyCheck) ID() string { return "admin_policy" }

func (adminPolicyCheck) Evaluate(user UserRecord, _ Policy, _ time.Time) (*Issue, error) {
	for _, name := range user.Policies {
		if strings.Contains(name, AdministratorAccessMarker) {
			return &Issue{Message: MsgAdminPolicy, Severity: SeverityCritical, Recommendation: RecAdminPolicy}, nil
		}
	}
	return nil, nil
}

// adminRoleCheck flags directory users holding the admin role.
type adminRoleCheck struct{}

func (adminRoleCheck) ID() string { return "admin_role" }

func (adminRoleCheck) Evaluate(user UserRecord, _ Policy, _ time.Time) (*Issue, error) {
	if user.Role != AdminRole {
		return nil, nil
	}
	return &Issue{Message: MsgAdminRole, Severity: SeverityCritical, Recommendation: RecAdminRole}, nil
}

// passwordPolicyCheck flags LDAP users governed by a weak password policy.
type passwordPolicyCheck struct{}

func (passwordPolicyCheck) ID() string { return "password_policy" }

func (passwordPolicyCheck) Evaluate(user UserRecord, _ Policy, _ time.Time) (*Issue, error) {
	if user.PasswordPolicy != WeakPasswordPolicy {
		return nil, nil
	}
	return &Issue{Message: MsgWeakPolicy, Severity: SeverityCritical, Recommendation: RecWeakPolicy}, nil
}
