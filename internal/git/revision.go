package git

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Revision is the checked-out state of a working tree
type Revision struct {
	Commit string
	Branch string // empty on a detached HEAD
	Dirty  bool
}

// String renders the revision as branch@commit, with a +dirty suffix for uncommitted changes
func (r Revision) String() string {
	s := r.Commit
	if r.Branch != "" {
		s = r.Branch + "@" + s
	}
	if r.Dirty {
		s += "+dirty"
	}
	return s
}

// HeadRevision reads the HEAD commit, branch and dirty state of the repository in dir
func HeadRevision(ctx context.Context, dir string) (Revision, error) {
	commit, err := gitOutput(ctx, dir, "rev-parse", "HEAD")
	if err != nil {
		return Revision{}, err
	}

	rev := Revision{Commit: commit}

	// Detached HEAD (common in CI) prints "HEAD".
	if branch, err := gitOutput(ctx, dir, "rev-parse", "--abbrev-ref", "HEAD"); err == nil && branch != "HEAD" {
		rev.Branch = branch
	}

	// Both staged and unstaged changes count.
	status, err := gitOutput(ctx, dir, "status", "--porcelain", "--untracked-files=no")
	if err != nil {
		return Revision{}, err
	}
	rev.Dirty = status != ""

	return rev, nil
}

func gitOutput(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return strings.TrimSpace(string(output)), nil
}
