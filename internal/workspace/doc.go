// Package workspace coordinates one version-control operation across every
// repository of a workspace.
//
// Data flows strictly downward:
//
//  1. [ListRepositories] snapshots each repository (head, refs, dirtiness)
//     through a [git.Backend].
//  2. [BuildCatalog] maps each normalized ref name to the set of
//     repositories exposing it.
//  3. [ResolveCheckout] and [ResolveDefault] turn a requested ref into one
//     [Action] per repository, falling back to the configured default refs;
//     [PlanBranchCreation] suggests a branch name and which repositories to
//     pre-select.
//  4. [ApplyActions] runs the resulting [Plan] concurrently. A failing
//     repository is logged and reported in the [Report] but never stops
//     its siblings.
//
// The catalog is built fresh for every operation and is read-only
// afterwards. Default ref names are passed in explicitly; the package holds
// no global state.
package workspace
