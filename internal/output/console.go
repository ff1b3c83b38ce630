package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"

	"branchsweep/internal/sweep"
)

type ConsoleSink struct {
	writer          io.Writer
	format          string // "text", "json", "ndjson"
	mu              sync.Mutex
	outcomes        []sweep.Outcome // For JSON array output
	allowedStatuses map[string]bool
}

func NewConsoleSink(w io.Writer, format string, filterStatuses []string) *ConsoleSink {
	if w == nil {
		w = os.Stdout
	}
	if format == "" {
		format = "text"
	}

	s := &ConsoleSink{
		writer: w,
		format: format,
	}

	if len(filterStatuses) > 0 {
		s.allowedStatuses = make(map[string]bool)
		for _, st := range filterStatuses {
			// Normalize to uppercase for case-insensitive comparison.
			// The status values are "MATCHED", "DELETED", "FAILED".
			s.allowedStatuses[strings.ToUpper(st)] = true
		}
	}

	return s
}

func statusLabel(st sweep.Status) string {
	switch st {
	case sweep.StatusDeleted:
		return color.GreenString(string(st))
	case sweep.StatusFailed:
		return color.RedString(string(st))
	case sweep.StatusMatched:
		return color.CyanString(string(st))
	default:
		return string(st)
	}
}

func (s *ConsoleSink) Write(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(v)
}

func (s *ConsoleSink) writeLocked(v any) error {
	// Apply filtering if configured
	if len(s.allowedStatuses) > 0 {
		if o, ok := v.(sweep.Outcome); ok {
			if !s.allowedStatuses[string(o.Status)] {
				return nil
			}
		}
	}

	switch s.format {
	case "json":
		o, ok := v.(sweep.Outcome)
		if !ok {
			// Ignore non-outcome events in JSON console mode.
			return nil
		}
		s.outcomes = append(s.outcomes, o)
		return nil
	case "ndjson":
		encoder := json.NewEncoder(s.writer)
		switch t := v.(type) {
		case Event:
			if err := encoder.Encode(t); err != nil {
				return err
			}
			return flushIfPossible(s.writer)
		case sweep.Outcome:
			if err := encoder.Encode(eventFromOutcome(t)); err != nil {
				return err
			}
			return flushIfPossible(s.writer)
		default:
			return nil
		}
	case "text":
		o, ok := v.(sweep.Outcome)
		if !ok {
			// Ignore lifecycle events in text mode.
			return nil
		}
		line := fmt.Sprintf("[%s] %s %s", statusLabel(o.Status), o.Repo, o.Branch)
		if o.Attempts > 1 {
			line += fmt.Sprintf(" (attempts: %d)", o.Attempts)
		}
		if o.Message != "" {
			line += " - " + o.Message
		}
		if _, err := fmt.Fprintln(s.writer, line); err != nil {
			return err
		}
		return flushIfPossible(s.writer)
	default:
		return fmt.Errorf("unsupported console format: %s", s.format)
	}
}

func (s *ConsoleSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.format == "json" {
		encoder := json.NewEncoder(s.writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(s.outcomes); err != nil {
			return err
		}
		return flushIfPossible(s.writer)
	}
	if s.format != "text" && s.format != "ndjson" {
		return fmt.Errorf("unsupported console format: %s", s.format)
	}
	return nil
}
