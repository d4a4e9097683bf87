// Command tokshrink is the command-line surface over the token-reduction
// engine: json-minify, diff, strip-fillers, and optimize, plus a
// budget-sentry helper for CI-style token-budget gating.
//
// Input is read from the named file argument, or from standard input
// when no path is given. Output goes to standard output unless --out
// names a file. Pass --report to additionally emit a JSON summary of
// the run on standard error.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"tokshrink"
	"tokshrink/internal/config"
)

// cfg is loaded once at process start: compiled-in defaults, overridden
// by ./tokshrink-config.json if present, overridden again by
// TOKSHRINK_* / LOG_LEVEL environment variables (see internal/config).
var cfg = config.Load()

// eng is the single Engine instance every subcommand shares, constructed
// from cfg so cache capacity/TTL/persistence and the default model follow
// whatever the operator configured rather than engine.Config{}'s bare
// defaults.
var eng = tokshrink.NewEngine(tokshrink.EngineConfig{
	CacheCapacity:           cfg.CacheCapacity,
	CacheTTL:                time.Duration(cfg.CacheTTLSecs) * time.Second,
	CachePersistPath:        cfg.CacheFile,
	LogLevel:                cfg.LogLevel,
	DefaultModel:            cfg.DefaultModel,
	MaxInputBytes:           cfg.MaxInputBytes,
	SummarizerHighWaterMark: cfg.SummarizerHWM,
})

// cliError carries the process exit code a failed command should use,
// since the commands in this package don't all fail with the same code
// (§6's exit-code table varies invalid-input kind from structural
// failure).
type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string { return e.err.Error() }
func (e *cliError) Unwrap() error { return e.err }

func fail(code int, err error) error {
	return &cliError{code: code, err: err}
}

var rootCmd = &cobra.Command{
	Use:           "tokshrink",
	Short:         "A deterministic, zero-API token-reduction engine for LLM prompts",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI and returns the process exit code: 0 on success,
// or the code carried by a *cliError, or 1 for any other failure.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		var ce *cliError
		if ok := asCliError(err, &ce); ok {
			fmt.Fprintln(os.Stderr, ce.err.Error())
			return ce.code
		}
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}
	return 0
}

func asCliError(err error, target **cliError) bool {
	for err != nil {
		if ce, ok := err.(*cliError); ok {
			*target = ce
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// readInput reads from args[0] if present and non-empty, otherwise from
// standard input.
func readInput(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// writeOutput writes out to outPath, or to standard output when outPath
// is empty.
func writeOutput(out, outPath string) error {
	if outPath == "" {
		_, err := fmt.Fprint(os.Stdout, out)
		return err
	}
	return os.WriteFile(outPath, []byte(out), 0o644)
}

// runReport is the JSON shape emitted on standard error when --report is set.
type runReport struct {
	Before       reportSide `json:"before"`
	After        reportSide `json:"after"`
	SavedPercent float64    `json:"savedPercent"`
	Strategies   []string   `json:"strategies"`
	Preset       string     `json:"preset"`
	Rules        []string   `json:"rules"`
}

type reportSide struct {
	Chars  int `json:"chars"`
	Tokens int `json:"tokens"`
}

func emitReport(r runReport) {
	enc := json.NewEncoder(os.Stderr)
	enc.SetIndent("", "  ")
	_ = enc.Encode(r)
}

func savingsPercent(before, after int) float64 {
	if before <= 0 {
		return 0
	}
	return (float64(before-after) / float64(before)) * 100
}

func init() {
	rootCmd.AddCommand(jsonMinifyCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(stripFillersCmd)
	rootCmd.AddCommand(optimizeCmd)
	rootCmd.AddCommand(budgetSentryCmd)
}
