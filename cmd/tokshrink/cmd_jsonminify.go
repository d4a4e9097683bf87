package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tokshrink"
)

var (
	jsonMinifyKeepEOL bool
	jsonMinifyOut     string
	jsonMinifyReport  bool
)

var jsonMinifyCmd = &cobra.Command{
	Use:   "json-minify [file]",
	Short: "Minify a single JSON document or an NDJSON stream",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readInput(args)
		if err != nil {
			return fail(1, err)
		}

		res, err := tokshrink.JSONMinify(text, tokshrink.JSONMinifyOptions{KeepEOL: jsonMinifyKeepEOL, MaxBytes: cfg.JSONMaxBytes})
		if err != nil {
			var typed *tokshrink.Error
			if errors.As(err, &typed) && typed.Kind == tokshrink.KindInputTooLarge {
				fmt.Fprintln(os.Stderr, typed.Error())
				return fail(1, err)
			}
			fmt.Fprintln(os.Stderr, err.Error())
			return fail(2, err)
		}

		if err := writeOutput(res.Output, jsonMinifyOut); err != nil {
			return fail(1, err)
		}

		if jsonMinifyReport {
			before := tokshrink.EstimateTokensHeuristic(text, tokshrink.EstimateOptions{})
			after := tokshrink.EstimateTokensHeuristic(res.Output, tokshrink.EstimateOptions{})
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
	jsonMinifyCmd.Flags().BoolVar(&jsonMinifyKeepEOL, "keep-eol", false, "preserve the input's original line-ending style")
	jsonMinifyCmd.Flags().StringVar(&jsonMinifyOut, "out", "", "write output to this path instead of standard output")
	jsonMinifyCmd.Flags().BoolVar(&jsonMinifyReport, "report", false, "emit a JSON run summary on standard error")
}
