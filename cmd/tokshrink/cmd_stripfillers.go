package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tokshrink"
)

var (
	stripFillersPreset string
	stripFillersReport bool
)

var stripFillersCmd = &cobra.Command{
	Use:   "strip-fillers [file]",
	Short: "Remove filler language at a given preset's aggressiveness",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readInput(args)
		if err != nil {
			return fail(1, err)
		}

		res, err := tokshrink.StripFillers(text, tokshrink.StripFillersOptions{
			Preset: tokshrink.Preset(stripFillersPreset),
		})
		if err != nil {
			return fail(1, err)
		}

		if err := writeOutput(res.Output, ""); err != nil {
			return fail(1, err)
		}

		if stripFillersReport {
			before := tokshrink.EstimateTokensHeuristic(text, tokshrink.EstimateOptions{})
			after := tokshrink.EstimateTokensHeuristic(res.Output, tokshrink.EstimateOptions{})
			emitReport(runReport{
				Before:       reportSide{Chars: before.Chars, Tokens: before.Tokens},
				After:        reportSide{Chars: after.Chars, Tokens: after.Tokens},
				SavedPercent: savingsPercent(before.Tokens, after.Tokens),
				Preset:       string(res.Meta.ResolvedPreset),
				Rules:        res.Meta.RuleNames,
			})
		}
		return nil
	},
}

func init() {
	stripFillersCmd.Flags().StringVar(&stripFillersPreset, "preset", cfg.DefaultPreset,
		fmt.Sprintf("rule aggressiveness: one of %s, %s, %s, %s",
			tokshrink.Conservative, tokshrink.Standard, tokshrink.Aggressive, tokshrink.Ultra))
	stripFillersCmd.Flags().BoolVar(&stripFillersReport, "report", false, "emit a JSON run summary on standard error")
}
