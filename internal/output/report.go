package output

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"branchsweep/internal/sweep"
)

// ReportSink accumulates the run and writes a human-readable Markdown summary
// on Close.
type ReportSink struct {
	path string
	file *os.File
	mu   sync.Mutex

	repo     string
	pattern  string
	dryRun   bool
	branches int
	matched  int
	outcomes []sweep.Outcome
	summary  *sweep.Summary
	exitCode int
	finished bool
	started  time.Time

	// now is a test seam for the report timestamp.
	now func() time.Time
}

func NewReportSink(path string) (*ReportSink, error) {
	if path == "" {
		return nil, fmt.Errorf("report path required")
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create report file: %w", err)
	}

	return &ReportSink{
		path:    path,
		file:    f,
		started: time.Now(),
		now:     time.Now,
	}, nil
}

func (s *ReportSink) Write(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch t := v.(type) {
	case sweep.Outcome:
		s.outcomes = append(s.outcomes, t)
	case Event:
		switch t.Type {
		case "run.started":
			s.repo = t.Repo
			s.pattern = t.Pattern
			s.dryRun = t.DryRun
		case "list.finished":
			s.branches = t.Branches
			s.matched = t.Matched
		case "run.finished":
			s.summary = t.Summary
			s.exitCode = t.ExitCode
			s.finished = true
		}
	}
	return nil
}

func (s *ReportSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var b strings.Builder

	mode := "execute"
	if s.dryRun {
		mode = "dry-run"
	}

	fmt.Fprintf(&b, "# BranchSweep Report\n\n")
	fmt.Fprintf(&b, "- **Repository:** %s\n", s.repo)
	fmt.Fprintf(&b, "- **Pattern:** `%s`\n", s.pattern)
	fmt.Fprintf(&b, "- **Mode:** %s\n", mode)
	fmt.Fprintf(&b, "- **Generated:** %s\n", s.now().UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "- **Duration:** %s\n\n", s.now().Sub(s.started).Truncate(time.Millisecond))

	fmt.Fprintf(&b, "## Summary\n\n")
	fmt.Fprintf(&b, "| Branches | Matched | Deleted | Failed | Exit code |\n")
	fmt.Fprintf(&b, "|---:|---:|---:|---:|---:|\n")
	sum := s.summary
	if sum == nil {
		derived := sweep.Summarize(s.outcomes)
		sum = &derived
	}
	matched := s.matched
	if matched == 0 && len(s.outcomes) > 0 {
		matched = len(s.outcomes)
	}
	fmt.Fprintf(&b, "| %d | %d | %d | %d | %d |\n\n", s.branches, matched, sum.Deleted, sum.Failed, s.exitCode)

	if !s.finished {
		fmt.Fprintf(&b, "> The run did not finish; results below may be incomplete.\n\n")
	}

	if len(s.outcomes) > 0 {
		fmt.Fprintf(&b, "## Branches\n\n")
		fmt.Fprintf(&b, "| Branch | Status | Attempts | Detail |\n")
		fmt.Fprintf(&b, "|---|---|---:|---|\n")
		for _, o := range s.outcomes {
			fmt.Fprintf(&b, "| `%s` | %s | %d | %s |\n", o.Branch, o.Status, o.Attempts, escapePipes(o.Message))
		}
		fmt.Fprintln(&b)
	}

	fmt.Fprintf(&b, "## Reproduce\n\n")
	fmt.Fprintf(&b, "```\n%s\n```\n", s.reproducibilityCommand())

	if _, err := s.file.WriteString(b.String()); err != nil {
		_ = s.file.Close()
		return err
	}
	return s.file.Close()
}

// reproducibilityCommand rebuilds a command line equivalent to this run.
// Output flags are intentionally omitted.
func (s *ReportSink) reproducibilityCommand() string {
	owner, repo, _ := strings.Cut(s.repo, "/")
	parts := []string{"branchsweep", "sweep", owner, repo, fmt.Sprintf("%q", s.pattern)}
	if s.dryRun {
		parts = append(parts, "--dry-run")
	}
	return strings.Join(parts, " ")
}

func escapePipes(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", "\\|")
}
