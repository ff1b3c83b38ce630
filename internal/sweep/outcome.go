package sweep

type Status string

const (
	// StatusMatched marks a branch selected by the pattern during a dry run.
	StatusMatched Status = "MATCHED"
	// StatusDeleted marks a branch whose ref was removed on the host.
	StatusDeleted Status = "DELETED"
	// StatusFailed marks a branch whose deletion was refused or errored after
	// all retry attempts.
	StatusFailed Status = "FAILED"
)

// Outcome is the per-branch result of a sweep. Exactly one Outcome exists per
// matched branch; it is never mutated after the delete phase records it.
type Outcome struct {
	Repo     string `json:"repo"`
	Branch   string `json:"branch"`
	Status   Status `json:"status"`
	Message  string `json:"message,omitempty"`
	Attempts int    `json:"attempts,omitempty"`
}

// Summary aggregates outcome counts for a run. It is derived, not stored.
type Summary struct {
	Matched int `json:"matched"`
	Deleted int `json:"deleted"`
	Failed  int `json:"failed"`
}

func Summarize(outcomes []Outcome) Summary {
	var s Summary
	for _, o := range outcomes {
		switch o.Status {
		case StatusMatched:
			s.Matched++
		case StatusDeleted:
			s.Deleted++
		case StatusFailed:
			s.Failed++
		}
	}
	return s
}
