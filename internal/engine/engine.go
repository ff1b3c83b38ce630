package engine

import (
	"context"
	"fmt"
	"os"

	"branchsweep/internal/config"
	gh "branchsweep/internal/github"
	"branchsweep/internal/output"
	"branchsweep/internal/ratelimit"
	"branchsweep/internal/sweep"
)

func exitCodeForRun(fatal bool, failed int, strict bool) int {
	// Exit code contract:
	// 0 = run completed (per-branch failures included, unless --strict)
	// 1 = per-branch failures present and --strict
	// 3 = fatal error (config, listing, or run deadline; no deletes were reported)
	if fatal {
		return 3
	}
	if strict && failed > 0 {
		return 1
	}
	return 0
}

func setupOutputManager(cfg *config.Config) (*output.Manager, error) {
	outMgr := output.NewManager()

	// Console Sink
	if !cfg.Output.NoConsole {
		if err := outMgr.AddSink(output.NewConsoleSink(nil, cfg.Output.ConsoleFormat, cfg.Output.ConsoleFilterStatus)); err != nil {
			outMgr.Close()
			return nil, err
		}
	}

	// Emit Sinks (additional structured streams)
	for _, emit := range cfg.Output.Emit {
		es, err := output.NewEmitSink(os.Stdout, emit)
		if err != nil {
			outMgr.Close()
			return nil, err
		}
		if err := outMgr.AddSink(es); err != nil {
			outMgr.Close()
			return nil, err
		}
	}

	// File Sink
	if cfg.Output.Out != "" {
		fs, err := output.NewFileSink(cfg.Output.Out, cfg.Output.OutFormat)
		if err != nil {
			outMgr.Close()
			return nil, err
		}
		if err := outMgr.AddSink(fs); err != nil {
			outMgr.Close()
			return nil, err
		}
	}

	// Report Sink
	if cfg.Output.Report != "" {
		rs, err := output.NewReportSink(cfg.Output.Report)
		if err != nil {
			outMgr.Close()
			return nil, err
		}
		if err := outMgr.AddSink(rs); err != nil {
			outMgr.Close()
			return nil, err
		}
	}

	return outMgr, nil
}

type Engine struct {
	Client *gh.Client

	// deleteBranches is a test seam for the delete phase.
	// If nil, Engine uses a real Deleter.
	deleteBranches func(ctx context.Context, cfg *config.Config, budget *ratelimit.Budget, names []string) ([]sweep.Outcome, error)
}

func New(client *gh.Client) *Engine {
	return &Engine{Client: client}
}

func (e *Engine) runDeletePhase(ctx context.Context, cfg *config.Config, budget *ratelimit.Budget, names []string) ([]sweep.Outcome, error) {
	if e.deleteBranches != nil {
		return e.deleteBranches(ctx, cfg, budget, names)
	}
	deleter, err := NewDeleter(e.Client, budget, cfg.Run.Concurrency, cfg.Run.Retries, cfg.Run.RequestTimeout)
	if err != nil {
		return nil, err
	}
	return deleter.DeleteBranches(ctx, cfg.Target.Owner, cfg.Target.Repo, names), nil
}

// defaultBranch resolves the repository's configured default branch. Only
// needed for --skip-protected; the default path lets the host refuse default
// branch deletion on its own.
func (e *Engine) defaultBranch(ctx context.Context, cfg *config.Config, budget *ratelimit.Budget) (string, error) {
	if err := budget.Acquire(ctx, 1); err != nil {
		return "", err
	}
	repo, resp, err := e.Client.Client.Repositories.Get(ctx, cfg.Target.Owner, cfg.Target.Repo)
	if resp != nil {
		budget.Update(resp.Response)
	}
	if err != nil {
		return "", fmt.Errorf("resolve default branch for %s/%s: %w", cfg.Target.Owner, cfg.Target.Repo, err)
	}
	return repo.GetDefaultBranch(), nil
}

// Run drives a whole sweep: list, filter, then either dry-run reporting or the
// concurrent delete phase. Returns the process exit code.
func (e *Engine) Run(ctx context.Context, cfg *config.Config) int {
	outMgr, err := setupOutputManager(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output sinks: %v\n", err)
		return exitCodeForRun(true, 0, cfg.Run.Strict)
	}
	defer outMgr.Close()

	target := cfg.Target.Owner + "/" + cfg.Target.Repo
	_ = outMgr.Write(output.Event{
		Type:    "run.started",
		Repo:    target,
		Pattern: cfg.Target.Pattern,
		DryRun:  cfg.Run.DryRun,
	})

	budget := ratelimit.NewBudget()

	if !cfg.Output.NoConsole {
		fmt.Fprintf(os.Stderr, "Listing branches in %s...\n", target)
	}
	lister := NewLister(e.Client, budget)
	branches, err := lister.ListBranches(ctx, cfg.Target.Owner, cfg.Target.Repo)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing branches: %v\n", err)
		code := exitCodeForRun(true, 0, cfg.Run.Strict)
		_ = outMgr.Write(output.Event{Type: "run.finished", Repo: target, ExitCode: code})
		return code
	}

	matched := MatchBranches(branches, cfg.Target.Pattern)

	if cfg.Run.SkipProtected {
		def, err := e.defaultBranch(ctx, cfg, budget)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			code := exitCodeForRun(true, 0, cfg.Run.Strict)
			_ = outMgr.Write(output.Event{Type: "run.finished", Repo: target, ExitCode: code})
			return code
		}
		matched = ExcludeProtected(matched, def)
	}

	if !cfg.Output.NoConsole {
		fmt.Fprintf(os.Stderr, "Found %d branches, %d matching %q.\n", len(branches), len(matched), cfg.Target.Pattern)
	}
	_ = outMgr.Write(output.Event{
		Type:     "list.finished",
		Repo:     target,
		Branches: len(branches),
		Matched:  len(matched),
	})

	names := branchNames(matched)

	if cfg.Run.DryRun {
		for _, name := range names {
			_ = outMgr.Write(sweep.Outcome{Repo: target, Branch: name, Status: sweep.StatusMatched})
		}
		if !cfg.Output.NoConsole {
			fmt.Fprintf(os.Stderr, "Dry run: %d branches would be deleted.\n", len(names))
		}
		sum := sweep.Summary{Matched: len(names)}
		_ = outMgr.Write(output.Event{Type: "run.finished", Repo: target, Summary: &sum, ExitCode: 0})
		return 0
	}

	outcomes, err := e.runDeletePhase(ctx, cfg, budget, names)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error deleting branches: %v\n", err)
		code := exitCodeForRun(true, 0, cfg.Run.Strict)
		_ = outMgr.Write(output.Event{Type: "run.finished", Repo: target, ExitCode: code})
		return code
	}

	for _, o := range outcomes {
		_ = outMgr.Write(o)
	}

	sum := sweep.Summarize(outcomes)
	if !cfg.Output.NoConsole {
		fmt.Fprintf(os.Stderr, "Deleted %d branches, %d failed.\n", sum.Deleted, sum.Failed)
	}

	code := exitCodeForRun(false, sum.Failed, cfg.Run.Strict)
	_ = outMgr.Write(output.Event{Type: "run.finished", Repo: target, Summary: &sum, ExitCode: code})
	return code
}
