// Package main is the entry point for the iam-auditor CLI.
//
// The CLI fetches users from an identity provider, checks them against the
// compliance rules (MFA, staleness, privilege, password policy) and writes a
// report to reports/iam_report_<date>.txt.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	// Import providers to register them
	_ "github.com/anirudhbiyani/iam-auditor/pkg/providers/aws"
	_ "github.com/anirudhbiyani/iam-auditor/pkg/providers/azure"
	_ "github.com/anirudhbiyani/iam-auditor/pkg/providers/forgerock"
	_ "github.com/anirudhbiyani/iam-auditor/pkg/providers/gcp"
	_ "github.com/anirudhbiyani/iam-auditor/pkg/providers/ldap"
)

const exitError = 1

var version = "0.3.0"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cancel()
		os.Exit(exitError)
	}
}
