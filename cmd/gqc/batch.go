package main

import (
	"context"
	"os"

	"github.com/raphi011/gqc/internal/log"
	"github.com/raphi011/gqc/internal/output"
	"github.com/raphi011/gqc/internal/ui/progress"
	"github.com/raphi011/gqc/internal/ui/static"
	"github.com/raphi011/gqc/internal/ui/styles"
	"github.com/raphi011/gqc/internal/workspace"
)

// runBatch runs fn while a spinner is shown on an interactive stderr.
// Log lines emitted meanwhile are printed above the spinner.
func runBatch(ctx context.Context, message string, fn func(context.Context) workspace.Report) workspace.Report {
	l := log.FromContext(ctx)
	if l.IsVerbose() || !isTerminal(os.Stderr) || quiet {
		return fn(ctx)
	}

	sp := progress.NewSpinner(message)
	sp.Start()
	defer sp.Stop()

	return fn(log.WithLogger(ctx, log.New(sp, false, false)))
}

// reportRows renders one table row per dispatched action.
func reportRows(report workspace.Report) [][]string {
	rows := make([][]string, len(report))
	for i, res := range report {
		rows[i] = []string{res.Repo.Name, res.Action.String(), styles.FormatResult(res.Err)}
	}
	return rows
}

// printReport prints the outcome of a batch. Failures never make the
// command fail; they were already logged per repository.
func printReport(ctx context.Context, report workspace.Report) {
	out := output.FromContext(ctx)
	l := log.FromContext(ctx)

	if len(report) == 0 {
		l.Println("Nothing to do")
		return
	}

	out.Print(static.RenderTable([]string{"REPO", "ACTION", "RESULT"}, reportRows(report)))

	if failed := len(report.Failed()); failed > 0 {
		l.Printf("%d succeeded, %d failed\n", report.Succeeded(), failed)
	} else {
		l.Printf("%d succeeded\n", report.Succeeded())
	}
}

// planRows renders a plan for --dry-run output, sorted by repository name.
func planRows(plan workspace.Plan) [][]string {
	pending := plan.Pending()
	rows := make([][]string, len(pending))
	for i, repo := range pending {
		rows[i] = []string{repo.Name, styles.FormatHead(repo.Head), plan[repo].String()}
	}
	return rows
}
