package config

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"
)

type Config struct {
	// MAINTAINER NOTE: If you add/change/remove config fields that affect sweep
	// behavior, keep these in sync:
	// - CLI flags in internal/cli/sweep.go
	// - config-file keys in internal/config/file.go
	// - the reproducibility command in internal/output/report.go
	Target Target
	Auth   Auth
	Run    Run
	Output Output
}

type Target struct {
	// Owner is the account owning the repository (name or GitHub URL).
	Owner string

	// Repo is the repository whose branches are swept.
	Repo string

	// Pattern is the case-sensitive substring a branch name must contain to be
	// selected. The empty string matches every branch.
	Pattern string
}

type Auth struct {
	// Token is the explicit credential from --token. When empty, the token is
	// resolved from GITHUB_TOKEN and then the gh CLI.
	Token string
}

type Run struct {
	// DryRun reports the match set without issuing any delete call (see --dry-run).
	DryRun bool

	// SkipProtected drops host-protected branches and the default branch from
	// the match set before deleting (see --skip-protected). When false, the
	// host's refusal to delete such branches surfaces as an ordinary per-branch
	// failure.
	SkipProtected bool

	// Strict makes the process exit non-zero when any per-branch deletion
	// failed (see --strict). Without it, partial failure still exits 0 and must
	// be read from the summary.
	Strict bool

	// Concurrency caps the number of in-flight delete requests (see --concurrency).
	// Must be >= 1.
	Concurrency int

	// Retries is the number of delete attempts per branch for retryable
	// failures, with exponential backoff between attempts (see --retries).
	// Must be >= 1; non-retryable refusals fail on the first attempt.
	Retries int

	// Timeout is the deadline for the whole run (see --timeout). Must be > 0.
	Timeout time.Duration

	// RequestTimeout bounds each individual delete call (see --request-timeout).
	// Must be > 0.
	RequestTimeout time.Duration

	// ConfigFile optionally points at a YAML file supplying defaults for Run
	// and Output settings (see --config). Explicit flags win over file values.
	ConfigFile string

	// Verbose enables per-request API logging on stderr.
	Verbose bool
}

type Output struct {
	// ConsoleFormat controls the human-facing console sink format (see --console-format).
	// Allowed values: text, json, ndjson.
	ConsoleFormat string

	// ConsoleFilterStatus filters console output by outcome status (see --console-filter-status).
	// Allowed values: MATCHED, DELETED, FAILED.
	ConsoleFilterStatus []string

	// Report writes a Markdown report to this path (see --report).
	Report string

	// Out writes structured output to this path (see --out).
	Out string

	// OutFormat selects the format for --out (see --out-format).
	// Allowed values: json, ndjson. If empty, it is inferred from the --out file extension.
	OutFormat string

	// Emit writes an additional structured event stream to stdout (see --emit).
	// Allowed values: json, ndjson.
	Emit []string

	// NoConsole suppresses the console sink (see --no-console).
	// Use with --emit/--out/--report for machine-readable output.
	NoConsole bool
}

func New() *Config {
	return &Config{
		Run: Run{
			Concurrency:    5,
			Retries:        3,
			Timeout:        10 * time.Minute,
			RequestTimeout: 30 * time.Second,
		},
		Output: Output{
			ConsoleFormat: "text",
		},
	}
}

func (c *Config) Validate() error {
	// Normalize comma-delimited list inputs.
	c.Output.Emit = splitCommaList(c.Output.Emit)
	c.Output.ConsoleFilterStatus = splitCommaList(c.Output.ConsoleFilterStatus)

	// Targeting validation
	owner, err := normalizeOwnerSelector(c.Target.Owner)
	if err != nil {
		return fmt.Errorf("invalid owner value: %w", err)
	}
	if owner == "" {
		return errors.New("owner is required")
	}
	c.Target.Owner = owner

	c.Target.Repo = strings.TrimSpace(c.Target.Repo)
	if c.Target.Repo == "" {
		return errors.New("repository name is required")
	}
	if strings.Contains(c.Target.Repo, "/") {
		return fmt.Errorf("invalid repository name %q: pass owner and repository as separate arguments", c.Target.Repo)
	}

	// Output validation
	c.Output.ConsoleFormat = normalizeEnumValue(c.Output.ConsoleFormat)
	if c.Output.ConsoleFormat == "" {
		c.Output.ConsoleFormat = "text"
	}
	if c.Output.ConsoleFormat != "text" && c.Output.ConsoleFormat != "json" && c.Output.ConsoleFormat != "ndjson" {
		return fmt.Errorf("unsupported --console-format: %s (must be one of: text, json, ndjson)", c.Output.ConsoleFormat)
	}

	for _, emit := range c.Output.Emit {
		v := normalizeEnumValue(emit)
		if v != "json" && v != "ndjson" {
			return fmt.Errorf("unsupported --emit value: %s (must be one of: json, ndjson)", emit)
		}
	}

	// Runtime validation
	if c.Run.Concurrency <= 0 {
		return errors.New("--concurrency must be >= 1")
	}
	if c.Run.Retries <= 0 {
		return errors.New("--retries must be >= 1")
	}
	if c.Run.Timeout <= 0 {
		return errors.New("--timeout must be > 0")
	}
	if c.Run.RequestTimeout <= 0 {
		return errors.New("--request-timeout must be > 0")
	}

	if c.Output.Out != "" {
		c.Output.OutFormat = normalizeEnumValue(c.Output.OutFormat)
		if c.Output.OutFormat == "" {
			ext := strings.ToLower(filepath.Ext(c.Output.Out))
			switch ext {
			case ".json":
				c.Output.OutFormat = "json"
			case ".ndjson", ".jsonl":
				c.Output.OutFormat = "ndjson"
			default:
				if ext == "" {
					return errors.New("cannot infer output format from file extension (missing extension); use --out-format")
				}
				return fmt.Errorf("cannot infer output format from file extension %q; use --out-format", ext)
			}
		} else if c.Output.OutFormat != "json" && c.Output.OutFormat != "ndjson" {
			return fmt.Errorf("unsupported output format: %s", c.Output.OutFormat)
		}
	}

	return nil
}

func normalizeEnumValue(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// normalizeOwnerSelector accepts a raw account name or a GitHub URL like:
//
//	https://github.com/<name>
//	https://github.com/orgs/<name>
//	https://github.com/users/<name>
//	github.com/<name>
func normalizeOwnerSelector(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}

	if strings.HasPrefix(raw, "github.com/") || strings.HasPrefix(raw, "www.github.com/") {
		raw = "https://" + raw
	}
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		u, err := url.Parse(raw)
		if err != nil {
			return "", fmt.Errorf("%q", raw)
		}
		host := strings.ToLower(u.Hostname())
		if host == "www.github.com" {
			host = "github.com"
		}
		if host != "github.com" {
			return "", fmt.Errorf("%q", raw)
		}
		parts := strings.FieldsFunc(strings.Trim(u.Path, "/"), func(r rune) bool { return r == '/' })
		if len(parts) == 0 {
			return "", fmt.Errorf("%q", raw)
		}
		if parts[0] == "orgs" || parts[0] == "users" {
			if len(parts) < 2 {
				return "", fmt.Errorf("%q", raw)
			}
			return parts[1], nil
		}
		return parts[0], nil
	}

	// Basic sanity: reject obvious owner/repo-like inputs.
	if strings.Contains(raw, "/") {
		return "", fmt.Errorf("%q", raw)
	}
	return raw, nil
}

func splitCommaList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			p := strings.TrimSpace(part)
			if p == "" {
				continue
			}
			out = append(out, p)
		}
	}
	return out
}
