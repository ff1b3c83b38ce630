package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	buildVersion = "dev"
	buildCommit  = "unknown"
	buildDate    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "branchsweep",
	Short: "Bulk-delete GitHub branches matching a name pattern",
	Long: `BranchSweep lists every branch of a GitHub repository, selects the ones whose
name contains a given substring, and deletes them concurrently. With --dry-run
it only shows what it would delete.

Examples:
	# Show available commands and global flags
	branchsweep --help

	# Preview which branches would be deleted
	branchsweep sweep acme widgets feature/ --dry-run

	# Delete them
	branchsweep sweep acme widgets feature/

	# Print build info
	branchsweep version

Output:
	By default, commands write human-readable output to stdout.
	The sweep command supports structured output via emitter flags (see its --help).`,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&cfg.Run.Verbose, "verbose", false, "Enable verbose logging (prints every GitHub API call and full error details)")
}

func SetBuildInfo(version, commit, date string) {
	if version != "" {
		buildVersion = version
	}
	if commit != "" {
		buildCommit = commit
	}
	if date != "" {
		buildDate = date
	}

	rootCmd.Version = fmt.Sprintf("%s (%s) %s", buildVersion, buildCommit, buildDate)
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func BuildInfo() (version, commit, date string) {
	return buildVersion, buildCommit, buildDate
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
