package main

import (
	"os"

	"github.com/spf13/cobra"

	"tokshrink"
)

var (
	diffKeepEOL bool
	diffOut     string
	diffReport  bool
)

var diffCmd = &cobra.Command{
	Use:   "diff <before> <after>",
	Short: "Produce a deterministic unified diff between two files",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		beforeName, afterName := args[0], args[1]

		beforeData, err := os.ReadFile(beforeName)
		if err != nil {
			return fail(1, err)
		}
		afterData, err := os.ReadFile(afterName)
		if err != nil {
			return fail(1, err)
		}

		out, err := tokshrink.UnifiedDiff(beforeName, string(beforeData), afterName, string(afterData), tokshrink.DiffOptions{KeepEOL: diffKeepEOL})
		if err != nil {
			return fail(1, err)
		}

		if err := writeOutput(out, diffOut); err != nil {
			return fail(1, err)
		}

		if diffReport {
			before := tokshrink.EstimateTokensHeuristic(string(beforeData), tokshrink.EstimateOptions{})
			after := tokshrink.EstimateTokensHeuristic(string(afterData), tokshrink.EstimateOptions{})
			emitReport(runReport{
				Before:       reportSide{Chars: before.Chars, Tokens: before.Tokens},
				After:        reportSide{Chars: after.Chars, Tokens: after.Tokens},
				SavedPercent: savingsPercent(before.Tokens, after.Tokens),
			})
		}
		return nil
	},
}

func init() {
	diffCmd.Flags().BoolVar(&diffKeepEOL, "keep-eol", false, "preserve each file's original line-ending style before diffing")
	diffCmd.Flags().StringVar(&diffOut, "out", "", "write output to this path instead of standard output")
	diffCmd.Flags().BoolVar(&diffReport, "report", false, "emit a JSON run summary on standard error")
}
