package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/anirudhbiyani/iam-auditor/pkg/iamaudit"
)

// CLI options for audit
type auditOpts struct {
	provider    string
	configPath  string
	threshold   int
	outputDir   string
	format      string
	metricsFile string
	quiet       bool
}

func newAuditCmd() *cobra.Command {
	opts := &auditOpts{}

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Audit the users of an identity provider",
		Long: `Fetches every user of the provider, evaluates the compliance rules and writes
the report to <output-dir>/iam_report_<YYYY-MM-DD>.txt.

Provider settings are read from config/<provider>_config.json when present
(keys: region, profile, stale_threshold_days, tenant_id, credentials_file,
customer, fixture_file, report_dir) and from IAMAUDIT_* environment variables.`,
		Example: `  iam-auditor audit --provider aws
  iam-auditor audit --provider forgerock --threshold 45
  iam-auditor audit --provider ldap --format json --metrics-file /var/lib/node_exporter/iam.prom`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAudit(cmd.Context(), cmd.OutOrStdout(), opts, time.Now)
		},
	}

	cmd.Flags().StringVarP(&opts.provider, "provider", "p", "", "IAM provider to audit (aws, azure, gcp, forgerock, ldap)")
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Provider config file (default config/<provider>_config.json)")
	cmd.Flags().IntVar(&opts.threshold, "threshold", 0, "Stale threshold in days (overrides config)")
	cmd.Flags().StringVarP(&opts.outputDir, "output-dir", "o", "", "Report directory (default reports)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Report format (text, json)")
	cmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", "Write Prometheus textfile metrics to this path")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "Do not print the report to stdout")
	_ = cmd.MarkFlagRequired("provider")

	return cmd
}

func runAudit(ctx context.Context, out io.Writer, opts *auditOpts, clock func() time.Time) error {
	name := iamaudit.ProviderName(strings.ToLower(opts.provider))
	if _, err := iamaudit.GetProvider(name); err != nil {
		return err
	}

	if opts.threshold < 0 {
		return iamaudit.ErrConfiguration("--threshold must be a positive integer")
	}

	formatter, err := iamaudit.FormatterFor(opts.format)
	if err != nil {
		return err
	}

	cfg, err := iamaudit.LoadConfig(name, opts.configPath)
	if err != nil {
		return err
	}
	if opts.threshold > 0 {
		cfg.StaleThresholdDays = opts.threshold
	}
	if opts.outputDir != "" {
		cfg.ReportDir = opts.outputDir
	}

	report, err := iamaudit.NewAuditor(iamaudit.WithClock(clock)).Run(ctx, name, cfg)
	if err != nil {
		return err
	}

	path, content, err := iamaudit.Publish(ctx, report, formatter, iamaudit.NewFileReportStore(cfg.ReportDir))
	if err != nil {
		return err
	}
	log.Debug().Str("path", path).Msg("report written")

	if opts.metricsFile != "" {
		if err := iamaudit.WriteMetrics(opts.metricsFile, report); err != nil {
			return err
		}
		log.Debug().Str("path", opts.metricsFile).Msg("metrics written")
	}

	fmt.Fprintf(out, "IAM Audit Report generated: %s\n", path)
	if !opts.quiet {
		fmt.Fprint(out, string(content))
	}
	printSummary(out, report)
	return nil
}

func printSummary(out io.Writer, report *iamaudit.Report) {
	if report.IsCompliant() {
		color.New(color.FgGreen).Fprintf(out, "%d user(s) audited, all compliant\n", report.Summary.AuditedUsers)
		return
	}
	color.New(color.FgRed, color.Bold).Fprintf(out, "%d of %d user(s) flagged (%d critical, %d warning)\n",
		report.Summary.FlaggedUsers,
		report.Summary.AuditedUsers,
		report.Summary.Critical,
		report.Summary.Warning,
	)
}
