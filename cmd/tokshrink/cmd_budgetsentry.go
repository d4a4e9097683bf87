package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tokshrink"
)

var (
	budgetSentryBudget int
	budgetSentryModel  string
)

// budgetSentryReport is the JSON shape emitted on standard error when the
// estimated token count exceeds the caller-declared budget (§6).
type budgetSentryReport struct {
	Tokens           int      `json:"tokens"`
	Budget           int      `json:"budget"`
	SuggestedActions []string `json:"suggestedActions"`
}

var budgetSentryCmd = &cobra.Command{
	Use:   "budget-sentry [file]",
	Short: "Exit nonzero when estimated tokens exceed a caller-declared hard budget",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if budgetSentryBudget <= 0 {
			return fail(1, fmt.Errorf("--budget must be a positive token count"))
		}

		text, err := readInput(args)
		if err != nil {
			return fail(1, err)
		}

		est := tokshrink.EstimateTokensHeuristic(text, tokshrink.EstimateOptions{Model: budgetSentryModel})
		if est.Tokens <= budgetSentryBudget {
			return nil
		}

		report := budgetSentryReport{
			Tokens:           est.Tokens,
			Budget:           budgetSentryBudget,
			SuggestedActions: suggestActions(est.Tokens, budgetSentryBudget),
		}
		enc := json.NewEncoder(os.Stderr)
		enc.SetIndent("", "  ")
		_ = enc.Encode(report)

		return fail(3, fmt.Errorf("estimated %d tokens exceed budget of %d", est.Tokens, budgetSentryBudget))
	},
}

// suggestActions orders remediation suggestions by how far over budget
// the input is: a small overage is handled by trimming filler language; a
// large overage calls for the Summarizer; diff-only is always offered as
// the cheapest possible reduction for callers comparing two texts.
func suggestActions(tokens, budget int) []string {
	overBy := tokens - budget
	switch {
	case overBy > budget:
		return []string{"summarize", "strip-fillers", "diff-only"}
	case overBy > budget/4:
		return []string{"strip-fillers", "summarize", "diff-only"}
	default:
		return []string{"strip-fillers", "diff-only"}
	}
}

func init() {
	budgetSentryCmd.Flags().IntVar(&budgetSentryBudget, "budget", 0, "hard token ceiling; required")
	budgetSentryCmd.Flags().StringVar(&budgetSentryModel, "model", cfg.DefaultModel, "token-estimation model")
}
