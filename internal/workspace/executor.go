package workspace

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/raphi011/gqc/internal/git"
	"github.com/raphi011/gqc/internal/log"
)

// Result is the outcome of one dispatched action.
type Result struct {
	Repo     *Repository
	Action   Action
	Err      error
	Duration time.Duration
}

// Report lists the results of a batch, sorted by repository name.
type Report []Result

// Failed returns the results that carry an error.
func (r Report) Failed() []Result {
	var failed []Result
	for _, res := range r {
		if res.Err != nil {
			failed = append(failed, res)
		}
	}
	return failed
}

// Succeeded returns the number of actions that completed without error.
func (r Report) Succeeded() int {
	return len(r) - len(r.Failed())
}

// ApplyActions runs every non-NoOp action of plan concurrently, one task per
// repository, and waits for all of them.
//
// A failing task does not affect its siblings: the failure is logged with
// the repository name and returned in the report. The call itself never
// fails. ctx is handed to the backend and is the only way to interrupt
// running tasks.
func ApplyActions(ctx context.Context, plan Plan) Report {
	l := log.FromContext(ctx)

	pending := plan.Pending()
	report := make(Report, len(pending))

	var g errgroup.Group
	for i, repo := range pending {
		action := plan[repo]
		g.Go(func() error {
			start := time.Now()
			err := dispatch(ctx, repo, action)
			report[i] = Result{Repo: repo, Action: action, Err: err, Duration: time.Since(start)}
			return nil
		})
	}
	_ = g.Wait()

	for _, res := range report {
		if res.Err != nil {
			l.Warnf("%s: %s: %v", res.Repo.Name, res.Action, res.Err)
			continue
		}
		l.Debug("applied", "repo", res.Repo.Name, "action", res.Action, "duration", res.Duration.Round(time.Millisecond))
	}
	return report
}

func dispatch(ctx context.Context, repo *Repository, action Action) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	b := repo.Backend()
	if b == nil {
		return fmt.Errorf("no backend for %s", repo.Name)
	}

	switch action.Kind {
	case ActionCheckout:
		if err := b.Checkout(ctx, repo.Path, action.Ref); err != nil {
			return err
		}
		repo.Head = action.Ref
	case ActionCreateBranch:
		if err := b.CreateBranch(ctx, repo.Path, action.Ref, true); err != nil {
			return err
		}
		repo.Head = action.Ref
	case ActionFetch:
		return b.Fetch(ctx, repo.Path, action.Fetch)
	case ActionNoOp:
	}
	return nil
}

// CheckoutAll checks out target across the workspace, falling back to the
// default refs in repositories that lack it.
func CheckoutAll(ctx context.Context, target string, catalog *Catalog, defaults []string) Report {
	return ApplyActions(ctx, ResolveCheckout(target, catalog, defaults))
}

// CheckoutDefault returns every repository to its default ref.
func CheckoutDefault(ctx context.Context, catalog *Catalog, defaults []string) Report {
	return ApplyActions(ctx, ResolveDefault(catalog, defaults))
}

// FetchAll fetches every repository.
func FetchAll(ctx context.Context, catalog *Catalog, opts git.FetchOptions) Report {
	plan := make(Plan, len(catalog.Repos))
	for _, repo := range catalog.Repos {
		plan[repo] = Fetch(opts)
	}
	return ApplyActions(ctx, plan)
}

// CreateBranches creates and checks out branch in the repositories named
// in selected. Unknown names are ignored.
func CreateBranches(ctx context.Context, selected []string, branch string, catalog *Catalog) Report {
	plan := make(Plan, len(selected))
	for _, name := range selected {
		if repo := catalog.Repo(name); repo != nil {
			plan[repo] = CreateBranch(branch)
		}
	}
	return ApplyActions(ctx, plan)
}
