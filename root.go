package main

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/anirudhbiyani/iam-auditor/internal/logging"
	"github.com/anirudhbiyani/iam-auditor/pkg/iamaudit"
)

const (
	logLevelKey  = "log.level"
	logFormatKey = "log.format"
	noColorKey   = "log.no_color"
)

func newRootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "iam-auditor",
		Short: "IAM Access Reviewer & Compliance Auditor",
		Long: `iam-auditor reviews identity accounts of a provider against compliance rules:
MFA presence, account staleness, excessive privilege and (LDAP) password policy.
Flagged users are written to a report under reports/.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// .env only fills variables that are not already set
			if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
				log.Warn().Err(err).Msg("failed to load .env")
			}

			noColor := v.GetBool(noColorKey)
			if noColor {
				color.NoColor = true
			}
			return logging.Init(logging.Options{
				Level:   v.GetString(logLevelKey),
				Format:  v.GetString(logFormatKey),
				NoColor: noColor,
				Out:     cmd.ErrOrStderr(),
			})
		},
	}

	cmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	_ = v.BindPFlag(logLevelKey, cmd.PersistentFlags().Lookup("log-level"))

	cmd.PersistentFlags().String("log-format", "console", "Log format (console, json)")
	_ = v.BindPFlag(logFormatKey, cmd.PersistentFlags().Lookup("log-format"))

	cmd.PersistentFlags().Bool("no-color", false, "Disable color output")
	_ = v.BindPFlag(noColorKey, cmd.PersistentFlags().Lookup("no-color"))

	v.SetEnvPrefix(iamaudit.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	cmd.AddCommand(newAuditCmd(), newProvidersCmd(), newVersionCmd())
	return cmd
}

func init() {
	// setup pre-flag logger
	logging.InitDefault()
}
