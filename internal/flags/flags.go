package flags

// Package flags defines canonical CLI flag names shared across the CLI, config,
// and engine. Keeping these as constants avoids drift between Cobra flag wiring
// and other code paths that reference flags by name (e.g. the config-file layer,
// which must know whether a flag was set explicitly).
// IMPORTANT: These are flag *names* without leading dashes.
const (
	// Auth
	FlagToken = "token"

	// Sweep behavior
	FlagDryRun        = "dry-run"
	FlagSkipProtected = "skip-protected"
	FlagStrict        = "strict"

	// Output
	FlagConsoleFormat       = "console-format"
	FlagConsoleFilterStatus = "console-filter-status"
	FlagReport              = "report"
	FlagOut                 = "out"
	FlagOutFormat           = "out-format"
	FlagEmit                = "emit"
	FlagNoConsole           = "no-console"

	// Runtime
	FlagConcurrency    = "concurrency"
	FlagRetries        = "retries"
	FlagTimeout        = "timeout"
	FlagRequestTimeout = "request-timeout"
	FlagConfig         = "config"
)
