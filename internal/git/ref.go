package git

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
)

// RefKind classifies a raw ref reported by a repository.
type RefKind uint8

const (
	// RefKindOther covers tags, notes, stashes and anything else that is
	// never offered for checkout.
	RefKindOther RefKind = iota
	// RefKindLocalHead is a branch under refs/heads.
	RefKindLocalHead
	// RefKindRemoteHead is a branch under refs/remotes/<remote>.
	RefKindRemoteHead
)

func (k RefKind) String() string {
	switch k {
	case RefKindLocalHead:
		return "local"
	case RefKindRemoteHead:
		return "remote"
	default:
		return "other"
	}
}

// Ref is a raw ref as reported by a repository.
// For remote heads Name is remote-qualified ("origin/feature-x") and Remote
// holds the remote name ("origin").
type Ref struct {
	Kind   RefKind
	Name   string
	Remote string
}

// HeadRefName is the symbolic name every repository implicitly has.
const HeadRefName = "HEAD"

// NormalizeRef returns the user-facing name of ref with any remote
// qualification stripped. ok is false for refs that are never selectable.
func NormalizeRef(ref Ref) (name string, ok bool) {
	switch ref.Kind {
	case RefKindLocalHead:
		return ref.Name, ref.Name != ""
	case RefKindRemoteHead:
		if ref.Remote == "" {
			return "", false
		}
		name, found := strings.CutPrefix(ref.Name, ref.Remote+"/")
		if !found || name == "" {
			return "", false
		}
		return name, true
	case RefKindOther:
		return "", false
	}
	return "", false
}

// ParseRefName classifies a fully qualified ref name such as
// "refs/remotes/origin/main". remotes lists the configured remote names and
// is used to split remote names that contain slashes; the longest matching
// remote wins.
func ParseRefName(fullName string, remotes []string) Ref {
	if name, ok := strings.CutPrefix(fullName, "refs/heads/"); ok {
		return Ref{Kind: RefKindLocalHead, Name: name}
	}
	if short, ok := strings.CutPrefix(fullName, "refs/remotes/"); ok {
		remote := ""
		for _, r := range remotes {
			if strings.HasPrefix(short, r+"/") && len(r) > len(remote) {
				remote = r
			}
		}
		if remote == "" {
			// Unknown remote: assume the first path segment.
			if i := strings.Index(short, "/"); i > 0 {
				remote = short[:i]
			}
		}
		if remote == "" {
			return Ref{Kind: RefKindOther, Name: short}
		}
		return Ref{Kind: RefKindRemoteHead, Name: short, Remote: remote}
	}
	return Ref{Kind: RefKindOther, Name: strings.TrimPrefix(fullName, "refs/")}
}

// defaultRemote picks the remote fetched when not fetching all remotes:
// origin when configured, otherwise the first remote.
func defaultRemote(remotes []string) string {
	for _, r := range remotes {
		if r == "origin" {
			return r
		}
	}
	if len(remotes) == 0 {
		return ""
	}
	return remotes[0]
}

// ValidateBranchName rejects names git would refuse as a branch, using the
// check-ref-format rules applied to refs/heads/<name>.
func ValidateBranchName(name string) error {
	if name == "" {
		return errors.New("branch name must not be empty")
	}
	if err := plumbing.NewBranchReferenceName(name).Validate(); err != nil {
		return fmt.Errorf("invalid branch name %q: %w", name, err)
	}
	return nil
}
