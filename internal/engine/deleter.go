package engine

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/go-github/v81/github"
	"golang.org/x/sync/errgroup"

	gh "branchsweep/internal/github"
	"branchsweep/internal/ratelimit"
	"branchsweep/internal/sweep"
)

// Deleter removes branch refs concurrently with a bounded worker pool.
//
// Join semantics: gather-all, not fail-fast. One branch's failure never aborts
// or blocks a sibling; each worker writes only its own outcome slot, so the
// final report lines up with the original match order regardless of completion
// order.
type Deleter struct {
	client         *gh.Client
	budget         *ratelimit.Budget
	concurrency    int
	attempts       int
	requestTimeout time.Duration

	// backoffBase is the first retry delay; doubled per attempt. Overridden in tests.
	backoffBase time.Duration
}

func NewDeleter(client *gh.Client, budget *ratelimit.Budget, concurrency, attempts int, requestTimeout time.Duration) (*Deleter, error) {
	if client == nil || client.Client == nil {
		return nil, errors.New("deleter: client is nil")
	}
	if budget == nil {
		return nil, errors.New("deleter: budget is nil")
	}
	if concurrency <= 0 {
		return nil, fmt.Errorf("deleter: concurrency must be >= 1, got %d", concurrency)
	}
	if attempts <= 0 {
		return nil, fmt.Errorf("deleter: attempts must be >= 1, got %d", attempts)
	}
	if requestTimeout <= 0 {
		return nil, fmt.Errorf("deleter: request timeout must be > 0, got %s", requestTimeout)
	}
	return &Deleter{
		client:         client,
		budget:         budget,
		concurrency:    concurrency,
		attempts:       attempts,
		requestTimeout: requestTimeout,
		backoffBase:    500 * time.Millisecond,
	}, nil
}

// DeleteBranches issues one ref deletion per name and returns exactly one
// outcome per name, in input order.
func (d *Deleter) DeleteBranches(ctx context.Context, owner, repo string, names []string) []sweep.Outcome {
	outcomes := make([]sweep.Outcome, len(names))

	var g errgroup.Group
	g.SetLimit(d.concurrency)
	for i, name := range names {
		g.Go(func() error {
			outcomes[i] = d.deleteOne(ctx, owner, repo, name)
			return nil
		})
	}
	// Workers never return errors; failures live in the outcome slots.
	_ = g.Wait()

	return outcomes
}

func (d *Deleter) deleteOne(ctx context.Context, owner, repo, name string) sweep.Outcome {
	out := sweep.Outcome{
		Repo:   owner + "/" + repo,
		Branch: name,
		Status: sweep.StatusFailed,
	}

	for attempt := 1; attempt <= d.attempts; attempt++ {
		out.Attempts = attempt

		err := d.tryDelete(ctx, owner, repo, name)
		if err == nil {
			out.Status = sweep.StatusDeleted
			out.Message = ""
			return out
		}
		out.Message = err.Error()

		if attempt == d.attempts || !retryable(err) {
			return out
		}
		if !sleepBackoff(ctx, d.backoffBase<<(attempt-1)) {
			return out
		}
	}
	return out
}

func (d *Deleter) tryDelete(ctx context.Context, owner, repo, name string) error {
	if err := d.budget.Acquire(ctx, 1); err != nil {
		return err
	}

	callCtx, cancel := context.WithTimeout(ctx, d.requestTimeout)
	defer cancel()

	// Deleting the ref object is permanent; there is no archive or soft delete.
	resp, err := d.client.Client.Git.DeleteRef(callCtx, owner, repo, "heads/"+name)
	if resp != nil {
		d.budget.Update(resp.Response)
	}
	return err
}

// retryable reports whether a delete failure is worth another attempt.
// Host refusals (protected/default branch, not found, forbidden) are final;
// rate limiting, 5xx responses, and transport failures are transient.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}

	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return true
	}
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return true
	}

	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) {
		if ghErr.Response == nil {
			return false
		}
		code := ghErr.Response.StatusCode
		return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
	}

	// Anything below the API layer (connection reset, per-call timeout) is a
	// transport failure.
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

func sleepBackoff(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
