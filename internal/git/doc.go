// Package git provides the per-repository primitives gqc builds on.
//
// # Backends
//
// [Backend] abstracts reading and mutating a single working copy:
//
//   - [NewCLI]: shells out to the git executable (default). Keeps SSH keys,
//     credential helpers and hooks of the user's configuration in effect.
//   - [NewNative]: pure-Go implementation on top of go-git. Useful where no
//     git binary is installed.
//
// Select one by name with [NewBackend].
//
// # Refs
//
// [Ref] carries the raw (kind, name, remote) triple reported by a backend.
// [RefKind] is a closed set: local heads, remote heads and everything else.
// [NormalizeRef] strips remote qualification so that "origin/feature-x" and
// "feature-x" compare equal; refs of kind [RefKindOther] never normalize.
//
// # Discovery
//
//   - [FindRepos]: working copies of a workspace directory
//   - [GetRepoRoot], [IsInsideRepoPath]: locate the working copy of a path
//   - [CheckGit]: verify the git executable for the cli backend
package git
