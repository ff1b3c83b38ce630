package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"branchsweep/internal/sweep"
)

func TestReportSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")
	s, err := NewReportSink(path)
	if err != nil {
		t.Fatalf("NewReportSink: %v", err)
	}
	s.now = func() time.Time { return time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC) }

	writes := []any{
		Event{Type: "run.started", Repo: "acme/widgets", Pattern: "feature/", DryRun: false},
		Event{Type: "list.finished", Repo: "acme/widgets", Branches: 10, Matched: 2},
		sweep.Outcome{Repo: "acme/widgets", Branch: "feature/a", Status: sweep.StatusDeleted, Attempts: 1},
		sweep.Outcome{Repo: "acme/widgets", Branch: "feature/b", Status: sweep.StatusFailed, Attempts: 3, Message: "bad | pipe"},
		Event{Type: "run.finished", Repo: "acme/widgets", Summary: &sweep.Summary{Deleted: 1, Failed: 1}, ExitCode: 0},
	}
	for _, v := range writes {
		if err := s.Write(v); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	report := string(data)

	for _, want := range []string{
		"# BranchSweep Report",
		"- **Repository:** acme/widgets",
		"- **Pattern:** `feature/`",
		"- **Mode:** execute",
		"| 10 | 2 | 1 | 1 | 0 |",
		"| `feature/a` | DELETED | 1 |",
		"| `feature/b` | FAILED | 3 | bad \\| pipe |",
		"branchsweep sweep acme widgets \"feature/\"",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}
	if strings.Contains(report, "did not finish") {
		t.Errorf("finished run should not carry the incomplete warning:\n%s", report)
	}
}

func TestReportSink_DryRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")
	s, err := NewReportSink(path)
	if err != nil {
		t.Fatalf("NewReportSink: %v", err)
	}

	_ = s.Write(Event{Type: "run.started", Repo: "acme/widgets", Pattern: "feature/", DryRun: true})
	_ = s.Write(sweep.Outcome{Repo: "acme/widgets", Branch: "feature/a", Status: sweep.StatusMatched})
	_ = s.Write(Event{Type: "run.finished", Repo: "acme/widgets", Summary: &sweep.Summary{Matched: 1}, ExitCode: 0})
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	report := string(data)

	if !strings.Contains(report, "- **Mode:** dry-run") {
		t.Errorf("report missing dry-run mode:\n%s", report)
	}
	if !strings.Contains(report, `branchsweep sweep acme widgets "feature/" --dry-run`) {
		t.Errorf("reproduce command missing --dry-run:\n%s", report)
	}
}

func TestReportSink_UnfinishedRunWarning(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")
	s, err := NewReportSink(path)
	if err != nil {
		t.Fatalf("NewReportSink: %v", err)
	}

	_ = s.Write(Event{Type: "run.started", Repo: "acme/widgets", Pattern: "feature/"})
	_ = s.Write(sweep.Outcome{Repo: "acme/widgets", Branch: "feature/a", Status: sweep.StatusDeleted})
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "did not finish") {
		t.Errorf("report should warn about an unfinished run:\n%s", data)
	}
}

func TestNewReportSink_RequiresPath(t *testing.T) {
	if _, err := NewReportSink(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}
