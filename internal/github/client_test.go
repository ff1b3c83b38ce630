package github

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewClient(t *testing.T) {
	t.Run("nil context rejected", func(t *testing.T) {
		if _, err := NewClient(nil, "tok"); err == nil {
			t.Fatal("expected error for nil context")
		}
	})

	t.Run("token is sent as bearer auth", func(t *testing.T) {
		var gotAuth string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
		}))
		defer server.Close()

		c, err := NewClient(context.Background(), "secret")
		if err != nil {
			t.Fatalf("NewClient: %v", err)
		}
		resp, err := c.HTTP.Get(server.URL)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()

		if gotAuth != "Bearer secret" {
			t.Fatalf("Authorization = %q, want Bearer secret", gotAuth)
		}
	})

	t.Run("no token still yields a usable client", func(t *testing.T) {
		var gotAuth string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
		}))
		defer server.Close()

		c, err := NewClient(context.Background(), "")
		if err != nil {
			t.Fatalf("NewClient: %v", err)
		}
		resp, err := c.HTTP.Get(server.URL)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()

		if gotAuth != "" {
			t.Fatalf("Authorization = %q, want empty", gotAuth)
		}
	})

	t.Run("verbose logging writes request and response lines", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		defer server.Close()

		var buf bytes.Buffer
		c, err := NewClient(context.Background(), "", WithVerbose(true, &buf))
		if err != nil {
			t.Fatalf("NewClient: %v", err)
		}
		resp, err := c.HTTP.Get(server.URL)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()

		logs := buf.String()
		if !strings.Contains(logs, "[verbose] github api: GET") {
			t.Fatalf("missing request log line: %q", logs)
		}
		if !strings.Contains(logs, "200 OK") {
			t.Fatalf("missing response log line: %q", logs)
		}
	})

	t.Run("user agent option applied", func(t *testing.T) {
		c, err := NewClient(context.Background(), "", WithUserAgent("branchsweep/1.2.3"))
		if err != nil {
			t.Fatalf("NewClient: %v", err)
		}
		if c.Client.UserAgent != "branchsweep/1.2.3" {
			t.Fatalf("UserAgent = %q", c.Client.UserAgent)
		}
	})
}
