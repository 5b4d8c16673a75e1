package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/anirudhbiyani/iam-auditor/pkg/iamaudit"
)

func newProvidersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List available providers and their capabilities",
		RunE: func(cmd *cobra.Command, args []string) error {
			infos := iamaudit.DescribeProviders()
			if len(infos) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No providers registered")
				return nil
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"Name", "Rules", "Stale Days", "Capabilities"})

			bold := color.New(color.Bold).SprintFunc()
			for _, p := range infos {
				caps := make([]string, 0, len(p.Capabilities))
				for _, c := range p.Capabilities {
					caps = append(caps, string(c))
				}
				t.AppendRow(table.Row{
					bold(string(p.Name)),
					p.RuleSet,
					p.DefaultThresholdDays,
					strings.Join(caps, ", "),
				})
			}

			s := table.StyleRounded
			s.Format.Header = text.FormatDefault
			t.SetStyle(s)
			t.Render()
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "iam-auditor version %s\n", version)
			names := make([]string, 0)
			for _, n := range iamaudit.ListProviders() {
				names = append(names, string(n))
			}
			fmt.Fprintf(out, "  Providers: %s\n", strings.Join(names, ", "))
			return nil
		},
	}
}
