package workspace

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	yerrors "github.com/simon/yati/internal/errors"
)

// ProjectFunc returns the project of the current directory.
type ProjectFunc func(ctx context.Context) (string, error)

// Resolver turns user input into an Identity.
//
// A target containing a slash is ambiguous: "api/feat-x" may be branch
// "feat-x" of project "api", or branch "api/feat-x" of the current project.
// The cross-project reading is chosen only when <root>/api/feat-x exists on
// disk. If both readings name real worktrees the cross-project one wins.
type Resolver struct {
	Layout         Layout
	Dir            string
	CurrentProject ProjectFunc
}

// Resolve returns the identity named by target, or the identity of the
// worktree containing r.Dir when target is empty.
func (r *Resolver) Resolve(ctx context.Context, target string) (Identity, error) {
	target = strings.Trim(target, "/")
	if target == "" {
		return r.Layout.FromDir(r.Dir)
	}
	for _, seg := range strings.Split(target, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return Identity{}, yerrors.InvalidBranchName(target)
		}
	}

	if first, rest, ok := strings.Cut(target, "/"); ok && rest != "" {
		id := Identity{Project: first, Branch: rest}
		if r.Layout.Exists(id) {
			log.Debug("resolved cross-project target", "target", target, "project", first)
			return id, nil
		}
	}

	if r.CurrentProject == nil {
		return Identity{}, yerrors.NoProject(target)
	}
	project, err := r.CurrentProject(ctx)
	if err != nil || project == "" {
		log.Debug("no current project", "target", target, "err", err)
		return Identity{}, yerrors.NoProject(target)
	}
	return Identity{Project: project, Branch: target}, nil
}

// FromDir derives the identity of the worktree containing dir, which must lie
// at least two levels below the root (<root>/<project>/<branch>/...).
//
// The branch is everything between the project directory and the nearest
// worktree leaf, so nested branch names like feat/x round-trip. When no leaf
// is found (the worktree was removed underneath us) the first component after
// the project is used, unless that component is a namespace directory that
// still exists; then the whole remainder is the branch.
func (l Layout) FromDir(dir string) (Identity, error) {
	rel, ok := relativeTo(l.Root, dir)
	if !ok {
		return Identity{}, yerrors.NotInWorkspace(dir, l.Root)
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if rel == "." || len(parts) < 2 {
		return Identity{}, yerrors.E(yerrors.Op("workspace.FromDir"), yerrors.KindNotInWorkspace,
			"cannot determine project/branch from path: "+dir)
	}

	project := parts[0]
	for i := 2; i <= len(parts); i++ {
		branch := strings.Join(parts[1:i], "/")
		if IsWorktreeLeaf(l.Path(Identity{Project: project, Branch: branch})) {
			return Identity{Project: project, Branch: branch}, nil
		}
	}
	first := Identity{Project: project, Branch: parts[1]}
	if info, err := os.Stat(l.Path(first)); err == nil && info.IsDir() {
		return Identity{Project: project, Branch: strings.Join(parts[1:], "/")}, nil
	}
	return first, nil
}
