package output

import "branchsweep/internal/sweep"

// Event is a lifecycle record for NDJSON streaming output.
//
// In NDJSON mode, sinks emit Events (one JSON object per line), including:
// - run.started
// - list.finished
// - branch.result
// - run.finished
//
// A branch.result Event nests the per-branch result under an "outcome" key.
// JSON mode remains an aggregate of sweep.Outcome values.
type Event struct {
	Type           string `json:"type"`
	Repo           string `json:"repo,omitempty"`
	*sweep.Outcome `json:"outcome,omitempty"`
	Pattern        string         `json:"pattern,omitempty"`
	DryRun         bool           `json:"dry_run,omitempty"`
	Branches       int            `json:"branches,omitempty"`
	Matched        int            `json:"matched,omitempty"`
	Summary        *sweep.Summary `json:"summary,omitempty"`
	ExitCode       int            `json:"exit_code,omitempty"`
}

func eventFromOutcome(o sweep.Outcome) Event {
	return Event{Type: "branch.result", Repo: o.Repo, Outcome: &o}
}
