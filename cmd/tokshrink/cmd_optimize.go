package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tokshrink"
)

var (
	optimizePreset        string
	optimizeTargetSavings float64
	optimizeMaxTokens     int
	optimizeNoSemantic    bool
	optimizeNoWhitespace  bool
	optimizeNoDuplicates  bool
	optimizeNoSummarize   bool
	optimizeNoContext     bool
	optimizeReport        bool
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize [file]",
	Short: "Run the full optimization pipeline under an optional savings/token budget",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readInput(args)
		if err != nil {
			return fail(1, err)
		}

		opts := tokshrink.EngineOptions{
			Preset:                      tokshrink.Preset(optimizePreset),
			Model:                       cfg.DefaultModel,
			TargetSavingsPercent:        optimizeTargetSavings,
			MaxTokens:                   optimizeMaxTokens,
			EnableSemanticCompression:   !optimizeNoSemantic,
			EnableWhitespaceCompression: !optimizeNoWhitespace,
			EnableDuplicateRemoval:      !optimizeNoDuplicates,
			EnableSummarization:         !optimizeNoSummarize,
			EnableContextOptimization:   !optimizeNoContext,
		}

		result, err := eng.OptimizeAdvanced(text, opts)
		if err != nil {
			var typed *tokshrink.Error
			if errors.As(err, &typed) {
				fmt.Fprintln(os.Stderr, typed.Error())
			}
			return fail(1, err)
		}

		if err := writeOutput(result.Output, ""); err != nil {
			return fail(1, err)
		}

		if optimizeReport {
			emitReport(runReport{
				Before:       reportSide{Tokens: result.OriginalTokens},
				After:        reportSide{Tokens: result.OptimizedTokens},
				SavedPercent: result.SavingsPercent,
				Strategies:   result.Strategies,
				Preset:       optimizePreset,
			})
		}
		return nil
	},
}

func init() {
	optimizeCmd.Flags().StringVar(&optimizePreset, "preset", cfg.DefaultPreset, "filler-stripping aggressiveness")
	optimizeCmd.Flags().Float64Var(&optimizeTargetSavings, "target-savings", 0, "stop early once this savings percentage is reached")
	optimizeCmd.Flags().IntVar(&optimizeMaxTokens, "max-tokens", 0, "stop early once the estimated token count falls at or below this ceiling")
	optimizeCmd.Flags().BoolVar(&optimizeNoSemantic, "no-semantic", false, "disable the Semantic Compressor")
	optimizeCmd.Flags().BoolVar(&optimizeNoWhitespace, "no-whitespace", false, "disable the Whitespace Compressor")
	optimizeCmd.Flags().BoolVar(&optimizeNoDuplicates, "no-duplicates", false, "disable the Duplicate Remover")
	optimizeCmd.Flags().BoolVar(&optimizeNoSummarize, "no-summarization", false, "disable the Summarizer")
	optimizeCmd.Flags().BoolVar(&optimizeNoContext, "no-context", false, "disable Context-Specific Optimizers")
	optimizeCmd.Flags().BoolVar(&optimizeReport, "report", false, "emit a JSON run summary on standard error")
}
