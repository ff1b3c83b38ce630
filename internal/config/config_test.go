package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	c := New()
	c.Target.Owner = "acme"
	c.Target.Repo = "widgets"
	c.Target.Pattern = "feature/"
	return c
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:   "valid defaults",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing owner",
			mutate:  func(c *Config) { c.Target.Owner = "" },
			wantErr: "owner is required",
		},
		{
			name:    "missing repo",
			mutate:  func(c *Config) { c.Target.Repo = " " },
			wantErr: "repository name is required",
		},
		{
			name:    "owner/repo passed as one argument",
			mutate:  func(c *Config) { c.Target.Repo = "acme/widgets" },
			wantErr: "separate arguments",
		},
		{
			name:   "empty pattern is allowed",
			mutate: func(c *Config) { c.Target.Pattern = "" },
		},
		{
			name:    "bad console format",
			mutate:  func(c *Config) { c.Output.ConsoleFormat = "yaml" },
			wantErr: "unsupported --console-format",
		},
		{
			name:    "bad emit value",
			mutate:  func(c *Config) { c.Output.Emit = []string{"csv"} },
			wantErr: "unsupported --emit value",
		},
		{
			name:    "zero concurrency",
			mutate:  func(c *Config) { c.Run.Concurrency = 0 },
			wantErr: "--concurrency must be >= 1",
		},
		{
			name:    "zero retries",
			mutate:  func(c *Config) { c.Run.Retries = 0 },
			wantErr: "--retries must be >= 1",
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.Run.Timeout = 0 },
			wantErr: "--timeout must be > 0",
		},
		{
			name:    "zero request timeout",
			mutate:  func(c *Config) { c.Run.RequestTimeout = 0 },
			wantErr: "--request-timeout must be > 0",
		},
		{
			name:    "out without inferable extension",
			mutate:  func(c *Config) { c.Output.Out = "results.xml" },
			wantErr: "cannot infer output format",
		},
		{
			name:    "out without extension",
			mutate:  func(c *Config) { c.Output.Out = "results" },
			wantErr: "missing extension",
		},
		{
			name:    "bad explicit out format",
			mutate:  func(c *Config) { c.Output.Out = "r.json"; c.Output.OutFormat = "xml" },
			wantErr: "unsupported output format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() error = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_OwnerNormalization(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"acme", "acme", true},
		{" acme ", "acme", true},
		{"https://github.com/acme", "acme", true},
		{"https://github.com/orgs/acme", "acme", true},
		{"https://github.com/users/octocat", "octocat", true},
		{"github.com/acme", "acme", true},
		{"www.github.com/acme", "acme", true},
		{"https://gitlab.com/acme", "", false},
		{"acme/widgets", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c := validConfig()
			c.Target.Owner = tt.in
			err := c.Validate()
			if !tt.ok {
				if err == nil {
					t.Fatalf("Validate() expected error for owner %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() error: %v", err)
			}
			if c.Target.Owner != tt.want {
				t.Fatalf("owner = %q, want %q", c.Target.Owner, tt.want)
			}
		})
	}
}

func TestValidate_OutFormatInference(t *testing.T) {
	tests := []struct {
		out  string
		want string
	}{
		{"results.json", "json"},
		{"results.ndjson", "ndjson"},
		{"results.jsonl", "ndjson"},
	}

	for _, tt := range tests {
		t.Run(tt.out, func(t *testing.T) {
			c := validConfig()
			c.Output.Out = tt.out
			if err := c.Validate(); err != nil {
				t.Fatalf("Validate() error: %v", err)
			}
			if c.Output.OutFormat != tt.want {
				t.Fatalf("OutFormat = %q, want %q", c.Output.OutFormat, tt.want)
			}
		})
	}
}

func TestValidate_SplitsCommaLists(t *testing.T) {
	c := validConfig()
	c.Output.Emit = []string{"json,ndjson"}
	c.Output.ConsoleFilterStatus = []string{"DELETED, FAILED"}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if len(c.Output.Emit) != 2 {
		t.Fatalf("Emit = %v, want two entries", c.Output.Emit)
	}
	if len(c.Output.ConsoleFilterStatus) != 2 {
		t.Fatalf("ConsoleFilterStatus = %v, want two entries", c.Output.ConsoleFilterStatus)
	}
}
