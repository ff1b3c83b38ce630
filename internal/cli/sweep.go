package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"branchsweep/internal/config"
	"branchsweep/internal/engine"
	"branchsweep/internal/flags"
	gh "branchsweep/internal/github"
)

var cfg = config.New()

const sweepHelpTemplate = `{{with (or .Long .Short)}}{{. | trimTrailingWhitespaces}}

{{end}}Usage:
  {{.UseLine}}

{{if .HasAvailableLocalFlags}}Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}{{if .HasAvailableInheritedFlags}}Global Flags:
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}Environment:
	BranchSweep authenticates to GitHub using an access token.

	Sources (in order):
	1) --token flag
	2) GITHUB_TOKEN environment variable
	3) GitHub CLI (gh) authentication via gh auth token (if gh is installed and logged in)

  Token guidance (brief):
  - PAT (classic): needs repo scope to read and delete branches.
  - Fine-grained PAT: grant access to the target repository with
    Contents: Read and write.

  Examples:
    # macOS/Linux
    export GITHUB_TOKEN="<your_token>"
    branchsweep sweep acme widgets feature/

		# GitHub CLI auth
		gh auth login
		branchsweep sweep acme widgets feature/

    # Windows PowerShell
    $env:GITHUB_TOKEN = "<your_token>"
    branchsweep sweep acme widgets feature/
`

var sweepCmd = &cobra.Command{
	Use:   "sweep <owner> <repo> <pattern>",
	Short: "Delete branches whose name contains a substring",
	Long: `Delete every branch of a GitHub repository whose name contains the given
substring, after listing the full branch collection to completion.

The pattern is a plain case-sensitive substring (not a glob or regex); an empty
pattern matches every branch. Deletion removes the underlying ref
(heads/<name>) and is permanent.

Matched branches are deleted concurrently, up to --concurrency in-flight
requests. One branch's failure never blocks the others: each branch gets its
own outcome, reported in match order. The host's refusal to delete a protected
or default branch is recorded as an ordinary failure (use --skip-protected to
leave such branches out of the match set entirely).

Authentication:
  BranchSweep uses a GitHub access token. It prefers --token, then
  GITHUB_TOKEN, and can also reuse GitHub CLI authentication if the gh CLI is
  installed and logged in.

Output:
	Console output is controlled by --console-format (default: text).
	Structured outputs can be written via:
	- --out / --out-format: write an aggregate JSON array or NDJSON stream to a file
	- --emit: write an additional structured stream to stdout (json or ndjson)
	- --report: write a Markdown summary to a file
	- --no-console: suppress the console sink (use with --emit/--out for machine output)

	NDJSON mode emits one JSON object per line. Objects are lifecycle Events with a
	"type" field (run.started, list.finished, branch.result, run.finished). Branch
	outcomes are represented as an Event with type "branch.result" and a nested
	"outcome" object.

Exit codes:
	0 = run completed (per-branch failures included, unless --strict)
	1 = per-branch failures present and --strict
	3 = fatal error (bad config, missing token, or the listing failed)

Examples:
  # Preview, deleting nothing
  branchsweep sweep acme widgets feature/ --dry-run

  # Delete, failing the build on any refused branch
  branchsweep sweep acme widgets feature/ --strict

	# AI Agent: stream machine-readable events to stdout
	branchsweep sweep acme widgets feature/ --no-console --emit ndjson
`,
	Args: cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		cfg.Target.Owner = args[0]
		cfg.Target.Repo = args[1]
		cfg.Target.Pattern = args[2]

		if cfg.Run.ConfigFile != "" {
			if err := config.ApplyFile(cfg, cfg.Run.ConfigFile, cmd.Flags().Changed); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(3)
			}
		}

		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(3)
		}

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Run.Timeout)
		defer cancel()

		token, _, err := gh.ResolveAuthToken(ctx, cfg.Auth.Token)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to resolve GitHub auth token: %v\n", err)
			os.Exit(3)
		}
		if strings.TrimSpace(token) == "" {
			fmt.Fprintln(os.Stderr, "Error: GitHub auth token is required (pass --token, set GITHUB_TOKEN, or run 'gh auth login')")
			os.Exit(3)
		}

		client, err := gh.NewClient(ctx, token,
			gh.WithVerbose(cfg.Run.Verbose, nil),
			gh.WithUserAgent("branchsweep/"+buildVersion),
		)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to create GitHub client: %v\n", err)
			os.Exit(3)
		}

		eng := engine.New(client)
		os.Exit(eng.Run(ctx, cfg))
	},
}

func init() {
	rootCmd.AddCommand(sweepCmd)
	sweepCmd.SetHelpTemplate(sweepHelpTemplate)

	// Auth
	sweepCmd.Flags().StringVar(&cfg.Auth.Token, flags.FlagToken, "", "GitHub access token (overrides GITHUB_TOKEN)")

	// Behavior
	sweepCmd.Flags().BoolVar(&cfg.Run.DryRun, flags.FlagDryRun, false, "Report matching branches without deleting anything")
	sweepCmd.Flags().BoolVar(&cfg.Run.SkipProtected, flags.FlagSkipProtected, false, "Leave protected branches and the default branch out of the match set")
	sweepCmd.Flags().BoolVar(&cfg.Run.Strict, flags.FlagStrict, false, "Exit non-zero when any branch failed to delete")

	// Output
	sweepCmd.Flags().StringVar(&cfg.Output.ConsoleFormat, flags.FlagConsoleFormat, "text", "Console output format: text|json|ndjson (default: text)")
	sweepCmd.Flags().StringSliceVar(&cfg.Output.ConsoleFilterStatus, flags.FlagConsoleFilterStatus, nil, "Filter console output by status (MATCHED, DELETED, FAILED). Comma-separated.")
	sweepCmd.Flags().StringVar(&cfg.Output.Report, flags.FlagReport, "", "Write a Markdown report to this path")
	sweepCmd.Flags().StringVar(&cfg.Output.Out, flags.FlagOut, "", "Write structured output to this path")
	sweepCmd.Flags().StringVar(&cfg.Output.OutFormat, flags.FlagOutFormat, "", "Structured output format for --out: json|ndjson (default: inferred from file extension)")
	sweepCmd.Flags().StringSliceVar(&cfg.Output.Emit, flags.FlagEmit, nil, "Emit additional structured stream to stdout: json|ndjson (repeatable; comma-separated accepted)")
	sweepCmd.Flags().BoolVar(&cfg.Output.NoConsole, flags.FlagNoConsole, false, "Suppress console output (use with --emit/--out/--report)")

	// Runtime
	sweepCmd.Flags().IntVar(&cfg.Run.Concurrency, flags.FlagConcurrency, cfg.Run.Concurrency, "Max concurrent delete requests (default: 5)")
	sweepCmd.Flags().IntVar(&cfg.Run.Retries, flags.FlagRetries, cfg.Run.Retries, "Delete attempts per branch for retryable failures (default: 3)")
	sweepCmd.Flags().DurationVar(&cfg.Run.Timeout, flags.FlagTimeout, cfg.Run.Timeout, "Global timeout for the whole run (default: 10m)")
	sweepCmd.Flags().DurationVar(&cfg.Run.RequestTimeout, flags.FlagRequestTimeout, cfg.Run.RequestTimeout, "Timeout per delete request (default: 30s)")
	sweepCmd.Flags().StringVar(&cfg.Run.ConfigFile, flags.FlagConfig, "", "YAML file supplying defaults for runtime/output settings")
}
