// Package iamaudit audits identity accounts against compliance rules.
//
// # Overview
//
// iamaudit fetches users from an identity provider (AWS IAM, Entra ID, Google
// Workspace, or the simulated ForgeRock and LDAP directories), evaluates each
// user against the provider's rule set and renders a text report listing
// every flagged user.
//
// # Core Concepts
//
// ## Providers
//
// A Provider fetches its users as normalized UserRecord values and names the
// RuleSet that applies to them. Providers register themselves in
// DefaultRegistry from an init() function and are looked up by tag.
//
// ## Rule sets
//
// A RuleSet is an ordered list of Checks. Every check runs for every user;
// the issues they raise keep that order. The closed set of rule sets is:
//   - CloudRules: MFA devices, password last used, AdministratorAccess policies
//   - DirectoryRules: MFA flag, last login, admin role
//   - LDAPRules: MFA flag, password last changed, admin role, password policy
//
// A malformed record (missing identifier, unparsable timestamp) is a
// configuration error that fails the whole run.
//
// ## Reports
//
// Users with no issues are left out of the Report. Render produces the text
// document; Publish stores it as reports/iam_report_<date>.txt.
//
// # Usage
//
//	cfg, err := iamaudit.LoadConfig(iamaudit.ProviderAWS, "")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	report, err := iamaudit.NewAuditor().Run(ctx, iamaudit.ProviderAWS, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	path, _, err := iamaudit.Publish(ctx, report, iamaudit.TextFormatter{},
//	    iamaudit.NewFileReportStore(cfg.ReportDir))
//
// Evaluate and Render can also be used on their own:
//
//	issues, err := iamaudit.Evaluate(iamaudit.CloudRules{}, user,
//	    iamaudit.Policy{StaleThresholdDays: 180}, time.Now())
//
// # Extension
//
// New providers can be added by implementing the Provider interface and
// registering via iamaudit.Register() in an init() function.
package iamaudit
