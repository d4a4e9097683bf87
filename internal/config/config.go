// Package config loads and holds the token-reduction engine's configuration.
// Settings are layered: defaults → tokshrink-config.json → environment
// variables (env vars win).
package config

import (
	"encoding/json"
	"log"
	"os"
	"strconv"
)

// Config holds the full engine configuration.
type Config struct {
	DefaultPreset  string  `json:"defaultPreset"`
	DefaultModel   string  `json:"defaultModel"`
	MaxInputBytes  int64   `json:"maxInputBytes"`
	SummarizerHWM  int     `json:"summarizerHighWaterMark"`
	CacheCapacity  int     `json:"cacheCapacity"`
	CacheTTLSecs   int     `json:"cacheTTLSeconds"`
	CacheFile      string  `json:"cacheFile"` // path to bbolt persistence tier; empty = memory-only
	LogLevel       string  `json:"logLevel"`
	JSONMaxBytes   int64   `json:"jsonMaxBytes"`
	DiffBumpFactor float64 `json:"diffBumpFactor"`
}

// Load returns config with defaults overridden by tokshrink-config.json and env vars.
func Load() *Config {
	cfg := defaults()
	loadFile(cfg, "tokshrink-config.json")
	loadEnv(cfg)
	return cfg
}

func defaults() *Config {
	return &Config{
		DefaultPreset:  "standard",
		DefaultModel:   "generic",
		MaxInputBytes:  32 * 1024 * 1024, // 32 MiB, per the Normalizer's InputTooLarge ceiling
		SummarizerHWM:  10_000,
		CacheCapacity:  1000,
		CacheTTLSecs:   3600,
		CacheFile:      "",
		LogLevel:       "info",
		JSONMaxBytes:   16 * 1024 * 1024,
		DiffBumpFactor: 1.15,
	}
}

func loadFile(cfg *Config, path string) {
	data, err := os.ReadFile(path) //nolint:gosec // G703: path is a controlled config file path, not user input
	if err != nil {
		return // file is optional
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		log.Printf("[CONFIG] Warning: could not parse %s: %v", path, err)
	} else {
		log.Printf("[CONFIG] Loaded %s", path)
	}
}

func loadEnv(cfg *Config) {
	if v := os.Getenv("TOKSHRINK_PRESET"); v != "" {
		cfg.DefaultPreset = v
	}
	if v := os.Getenv("TOKSHRINK_MODEL"); v != "" {
		cfg.DefaultModel = v
	}
	if v := os.Getenv("TOKSHRINK_MAX_INPUT_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.MaxInputBytes = n
		}
	}
	if v := os.Getenv("TOKSHRINK_SUMMARIZER_HWM"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SummarizerHWM = n
		}
	}
	if v := os.Getenv("TOKSHRINK_CACHE_CAPACITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.CacheCapacity = n
		}
	}
	if v := os.Getenv("TOKSHRINK_CACHE_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.CacheTTLSecs = n
		}
	}
	if v := os.Getenv("TOKSHRINK_CACHE_FILE"); v != "" {
		cfg.CacheFile = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TOKSHRINK_JSON_MAX_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.JSONMaxBytes = n
		}
	}
	if v := os.Getenv("TOKSHRINK_DIFF_BUMP_FACTOR"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.DiffBumpFactor = f
		}
	}
}
