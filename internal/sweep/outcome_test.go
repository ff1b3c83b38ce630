package sweep

import "testing"

func TestSummarize(t *testing.T) {
	tests := []struct {
		name     string
		outcomes []Outcome
		want     Summary
	}{
		{
			name:     "empty",
			outcomes: nil,
			want:     Summary{},
		},
		{
			name: "mixed",
			outcomes: []Outcome{
				{Branch: "a", Status: StatusDeleted},
				{Branch: "b", Status: StatusFailed, Message: "404"},
				{Branch: "c", Status: StatusDeleted},
			},
			want: Summary{Deleted: 2, Failed: 1},
		},
		{
			name: "dry run",
			outcomes: []Outcome{
				{Branch: "a", Status: StatusMatched},
				{Branch: "b", Status: StatusMatched},
			},
			want: Summary{Matched: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Summarize(tt.outcomes); got != tt.want {
				t.Fatalf("Summarize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
