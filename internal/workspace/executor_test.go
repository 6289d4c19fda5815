package workspace

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/raphi011/gqc/internal/git"
	"github.com/raphi011/gqc/internal/log"
)

func newTestContext() (context.Context, *bytes.Buffer) {
	var buf bytes.Buffer
	return log.WithLogger(context.Background(), log.New(&buf, false, false)), &buf
}

func TestApplyActions_IsolatesFailures(t *testing.T) {
	t.Parallel()

	f := newFakeBackend()
	a := f.add("A", "main", false, local("main"), local("x"))
	b := f.add("B", "main", false, local("main"), local("x"))
	f.writeErr[a.Path] = errors.New("index.lock exists")

	ctx, buf := newTestContext()
	report := ApplyActions(ctx, Plan{a: Checkout("x"), b: Checkout("x")})

	if len(report) != 2 {
		t.Fatalf("report has %d results, want 2", len(report))
	}
	failed := report.Failed()
	if len(failed) != 1 || failed[0].Repo != a {
		t.Fatalf("Failed() = %v, want only A", failed)
	}
	if report.Succeeded() != 1 {
		t.Errorf("Succeeded() = %d, want 1", report.Succeeded())
	}
	if b.Head != "x" {
		t.Errorf("B head = %q, want x", b.Head)
	}
	if a.Head != "main" {
		t.Errorf("A head = %q, want main", a.Head)
	}

	out := buf.String()
	if n := strings.Count(out, "warning:"); n != 1 {
		t.Errorf("logged %d warnings, want 1:\n%s", n, out)
	}
	if !strings.Contains(out, "A: checkout x: index.lock exists") {
		t.Errorf("warning should name the repository and error, got %q", out)
	}
}

func TestApplyActions_SkipsNoOps(t *testing.T) {
	t.Parallel()

	f := newFakeBackend()
	a := f.add("a", "main", false, local("main"))

	ctx, _ := newTestContext()
	report := ApplyActions(ctx, Plan{a: NoOp()})

	if len(report) != 0 {
		t.Errorf("report = %v, want empty", report)
	}
	if calls := f.recorded(); len(calls) != 0 {
		t.Errorf("backend calls = %v, want none", calls)
	}
}

func TestApplyActions_ReportSortedByName(t *testing.T) {
	t.Parallel()

	f := newFakeBackend()
	var plan = Plan{}
	for _, name := range []string{"c", "a", "b"} {
		plan[f.add(name, "", false, local("x"))] = Checkout("x")
	}

	ctx, _ := newTestContext()
	report := ApplyActions(ctx, plan)

	var names []string
	for _, res := range report {
		names = append(names, res.Repo.Name)
	}
	if !slices.Equal(names, []string{"a", "b", "c"}) {
		t.Errorf("report order = %v", names)
	}
}

// barrierBackend blocks every checkout until all expected calls arrived,
// so a sequential executor fails with a timeout.
type barrierBackend struct {
	*fakeBackend
	wg      sync.WaitGroup
	release chan struct{}
}

func newBarrierBackend(n int) *barrierBackend {
	b := &barrierBackend{fakeBackend: newFakeBackend(), release: make(chan struct{})}
	b.wg.Add(n)
	go func() {
		b.wg.Wait()
		close(b.release)
	}()
	return b
}

func (b *barrierBackend) Checkout(ctx context.Context, path, name string) error {
	b.wg.Done()
	select {
	case <-b.release:
	case <-time.After(5 * time.Second):
		return errors.New("tasks did not run concurrently")
	}
	return b.fakeBackend.Checkout(ctx, path, name)
}

func TestApplyActions_RunsConcurrently(t *testing.T) {
	t.Parallel()

	const n = 5
	b := newBarrierBackend(n)
	plan := Plan{}
	for i := range n {
		repo := b.add(fmt.Sprintf("r%d", i), "main", false, local("x"))
		repo.backend = b
		plan[repo] = Checkout("x")
	}

	ctx, _ := newTestContext()
	report := ApplyActions(ctx, plan)

	if failed := report.Failed(); len(failed) != 0 {
		t.Errorf("unexpected failures: %v", failed[0].Err)
	}
}

type panicBackend struct{ *fakeBackend }

func (panicBackend) Checkout(context.Context, string, string) error {
	panic("boom")
}

func TestApplyActions_RecoversPanics(t *testing.T) {
	t.Parallel()

	f := newFakeBackend()
	bad := f.add("bad", "main", false, local("x"))
	bad.backend = panicBackend{f}
	good := f.add("good", "main", false, local("x"))

	ctx, _ := newTestContext()
	report := ApplyActions(ctx, Plan{bad: Checkout("x"), good: Checkout("x")})

	failed := report.Failed()
	if len(failed) != 1 || failed[0].Repo != bad {
		t.Fatalf("Failed() = %v, want only bad", failed)
	}
	if !strings.Contains(failed[0].Err.Error(), "boom") {
		t.Errorf("error = %v, want panic message", failed[0].Err)
	}
	if good.Head != "x" {
		t.Errorf("good head = %q, want x", good.Head)
	}
}

func TestCheckoutAll_Scenario(t *testing.T) {
	t.Parallel()

	f := newFakeBackend()
	x := f.add("X", "feature-a", false, local("main"), local("feature-a"))
	y := f.add("Y", "main", false, local("main"), local("feature-b"))

	ctx, _ := newTestContext()
	report := CheckoutAll(ctx, "feature-b", BuildCatalog([]*Repository{x, y}, testDefaults), testDefaults)

	if len(report.Failed()) != 0 {
		t.Fatalf("unexpected failures: %v", report.Failed())
	}
	want := []string{"checkout /ws/X main", "checkout /ws/Y feature-b"}
	if got := f.recorded(); !slices.Equal(got, want) {
		t.Errorf("calls = %v, want %v", got, want)
	}
	if x.Head != "main" || y.Head != "feature-b" {
		t.Errorf("heads = %q, %q", x.Head, y.Head)
	}
}

func TestCheckoutAll_Idempotent(t *testing.T) {
	t.Parallel()

	f := newFakeBackend()
	f.add("X", "feature-a", false, local("main"), local("feature-a"))
	f.add("Y", "main", false, local("main"), local("feature-b"))
	refs := []RepoRef{{Name: "X", Path: "/ws/X"}, {Name: "Y", Path: "/ws/Y"}}
	ctx, _ := newTestContext()

	repos, _ := ListRepositories(ctx, refs, f)
	first := CheckoutAll(ctx, "feature-b", BuildCatalog(repos, testDefaults), testDefaults)
	if len(first) != 2 {
		t.Fatalf("first run dispatched %d actions, want 2", len(first))
	}

	repos, _ = ListRepositories(ctx, refs, f)
	second := CheckoutAll(ctx, "feature-b", BuildCatalog(repos, testDefaults), testDefaults)
	if len(second) != 0 {
		t.Errorf("second run dispatched %v, want nothing", second)
	}
}

func TestCheckoutDefault(t *testing.T) {
	t.Parallel()

	f := newFakeBackend()
	a := f.add("a", "feat", false, local("master"), local("feat"))
	b := f.add("b", "main", false, local("main"))

	ctx, _ := newTestContext()
	report := CheckoutDefault(ctx, BuildCatalog([]*Repository{a, b}, testDefaults), testDefaults)

	if len(report) != 1 || report[0].Repo != a || report[0].Action != Checkout("master") {
		t.Errorf("report = %v, want checkout master in a", report)
	}
}

func TestFetchAll(t *testing.T) {
	t.Parallel()

	f := newFakeBackend()
	a := f.add("a", "main", false)
	b := f.add("b", "main", false)
	f.writeErr[b.Path] = errors.New("could not resolve host")

	ctx, buf := newTestContext()
	report := FetchAll(ctx, BuildCatalog([]*Repository{a, b}, testDefaults), git.FetchOptions{Prune: true})

	if len(report) != 2 {
		t.Fatalf("report has %d results, want 2", len(report))
	}
	if got := f.recorded(); !slices.Equal(got, []string{"fetch /ws/a", "fetch /ws/b"}) {
		t.Errorf("calls = %v", got)
	}
	if !strings.Contains(buf.String(), "b: fetch: could not resolve host") {
		t.Errorf("missing warning for b, got %q", buf.String())
	}
}

func TestCreateBranches(t *testing.T) {
	t.Parallel()

	f := newFakeBackend()
	a := f.add("a", "main", true, local("main"))
	b := f.add("b", "main", false, local("main"))
	c := f.add("c", "main", true, local("main"))

	ctx, _ := newTestContext()
	report := CreateBranches(ctx, []string{"a", "c", "unknown"}, "wip", BuildCatalog([]*Repository{a, b, c}, testDefaults))

	if len(report) != 2 {
		t.Fatalf("report has %d results, want 2", len(report))
	}
	want := []string{"create /ws/a wip true", "create /ws/c wip true"}
	if got := f.recorded(); !slices.Equal(got, want) {
		t.Errorf("calls = %v, want %v", got, want)
	}
	if a.Head != "wip" || b.Head != "main" || c.Head != "wip" {
		t.Errorf("heads = %q %q %q", a.Head, b.Head, c.Head)
	}
}

func TestActionString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		action Action
		want   string
	}{
		{NoOp(), "no-op"},
		{Checkout("main"), "checkout main"},
		{CreateBranch("wip"), "create branch wip"},
		{Fetch(git.FetchOptions{}), "fetch"},
	}
	for _, tt := range tests {
		if got := tt.action.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
