package engine

import (
	"context"
	"fmt"

	"github.com/google/go-github/v81/github"

	gh "branchsweep/internal/github"
	"branchsweep/internal/ratelimit"
)

const branchPageSize = 100

// Lister walks the paginated branch collection of one repository to completion.
// It performs no retries: a failed page fails the whole listing, because a
// partial branch list could produce a false "nothing to delete" result.
type Lister struct {
	client *gh.Client
	budget *ratelimit.Budget

	// pageSize is branchPageSize outside of tests.
	pageSize int
}

func NewLister(client *gh.Client, budget *ratelimit.Budget) *Lister {
	return &Lister{
		client:   client,
		budget:   budget,
		pageSize: branchPageSize,
	}
}

// ListBranches returns every branch of owner/repo in host order, concatenated
// across pages.
//
// Termination policy: a page shorter than the page size ends the walk, so a
// collection whose size is not an exact multiple of the page size costs
// exactly ceil(n/pageSize) requests. An exact multiple costs one extra request
// for the trailing empty page.
func (l *Lister) ListBranches(ctx context.Context, owner, repo string) ([]*github.Branch, error) {
	if l == nil || l.client == nil || l.client.Client == nil {
		return nil, fmt.Errorf("ListBranches: nil client (use NewLister)")
	}
	if l.budget == nil {
		return nil, fmt.Errorf("ListBranches: nil budget (use NewLister)")
	}
	if owner == "" || repo == "" {
		return nil, fmt.Errorf("ListBranches: owner and repo are required")
	}

	var all []*github.Branch
	opts := &github.BranchListOptions{
		ListOptions: github.ListOptions{Page: 1, PerPage: l.pageSize},
	}
	for {
		if err := l.budget.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		page, resp, err := l.client.Client.Repositories.ListBranches(ctx, owner, repo, opts)
		if resp != nil {
			l.budget.Update(resp.Response)
		}
		if err != nil {
			return nil, fmt.Errorf("list branches for %s/%s (page %d): %w", owner, repo, opts.Page, err)
		}

		all = append(all, page...)
		if len(page) < l.pageSize {
			return all, nil
		}
		opts.Page++
	}
}
