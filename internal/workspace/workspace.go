// Package workspace owns yati's on-disk layout, <root>/<project>/<branch>,
// and turns user input or a directory back into a project/branch identity.
//
// A branch may contain slashes, so one worktree can sit several directories
// below its project. A worktree leaf is recognised by its .git FILE (linked
// worktrees have a file, checkouts have a directory); everything between the
// project directory and a leaf is a plain namespace directory.
package workspace

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DirName is the name of the base directory under the user's home.
const DirName = ".yati"

// MarkerFile marks a worktree leaf.
const MarkerFile = ".git"

// Identity names one worktree: the project (repository directory name) and
// the branch checked out in it.
type Identity struct {
	Project string
	Branch  string
}

// String returns "project/branch".
func (id Identity) String() string {
	return id.Project + "/" + id.Branch
}

// Layout maps identities to paths under a base root.
type Layout struct {
	Root string
}

// DefaultRoot returns <home>/.yati.
func DefaultRoot(home string) string {
	return filepath.Join(home, DirName)
}

func NewLayout(root string) Layout {
	return Layout{Root: filepath.Clean(root)}
}

// ProjectDir returns <root>/<project>.
func (l Layout) ProjectDir(project string) string {
	return filepath.Join(l.Root, project)
}

// Path returns the canonical worktree path <root>/<project>/<branch>.
func (l Layout) Path(id Identity) string {
	return filepath.Join(l.Root, id.Project, filepath.FromSlash(id.Branch))
}

// Exists reports whether the worktree for id exists. A directory without a
// .git file is a namespace holding other worktrees, not a worktree.
func (l Layout) Exists(id Identity) bool {
	return IsWorktreeLeaf(l.Path(id))
}

// IsWorktreeLeaf reports whether dir contains a .git file.
func IsWorktreeLeaf(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, MarkerFile))
	return err == nil && !info.IsDir()
}

// FindWorktrees scans the layout for worktree leaves and returns their
// identities sorted by project then branch.
func (l Layout) FindWorktrees() []Identity {
	projects, err := os.ReadDir(l.Root)
	if err != nil {
		return nil
	}

	var res []Identity
	for _, p := range projects {
		if !p.IsDir() {
			continue
		}
		base := filepath.Join(l.Root, p.Name())
		for _, branch := range findLeaves(base, base) {
			res = append(res, Identity{Project: p.Name(), Branch: branch})
		}
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].Project != res[j].Project {
			return res[i].Project < res[j].Project
		}
		return res[i].Branch < res[j].Branch
	})
	return res
}

func findLeaves(base, dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var res []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if IsWorktreeLeaf(path) {
			if rel, err := filepath.Rel(base, path); err == nil {
				res = append(res, filepath.ToSlash(rel))
			}
			continue
		}
		res = append(res, findLeaves(base, path)...)
	}
	return res
}

// PruneEmpty removes the worktree directory of id and each of its ancestors up
// to and including the root, stopping at the first directory that is missing
// or not empty. Directories are only ever removed when empty. It returns the
// directories it removed.
func (l Layout) PruneEmpty(id Identity) []string {
	var removed []string
	dir := l.Path(id)
	for {
		if _, ok := relativeTo(l.Root, dir); !ok {
			break
		}
		if !isEmptyDir(dir) {
			if _, err := os.Stat(dir); err == nil {
				break
			}
		} else {
			if err := os.Remove(dir); err != nil {
				break
			}
			removed = append(removed, dir)
		}
		if dir == l.Root {
			break
		}
		dir = filepath.Dir(dir)
	}
	return removed
}

func isEmptyDir(dir string) bool {
	f, err := os.Open(dir)
	if err != nil {
		return false
	}
	defer f.Close()
	names, err := f.Readdirnames(1)
	return err != nil && len(names) == 0
}

// relativeTo returns path relative to root when path is root or one of its
// descendants. Symlinks are resolved on both sides when the plain comparison
// fails, so /var and /private/var style aliases still match.
func relativeTo(root, path string) (string, bool) {
	if rel, ok := lexicalRel(root, path); ok {
		return rel, true
	}
	r, err1 := filepath.EvalSymlinks(root)
	p, err2 := filepath.EvalSymlinks(path)
	if err1 != nil || err2 != nil {
		return "", false
	}
	return lexicalRel(r, p)
}

func lexicalRel(root, path string) (string, bool) {
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(path))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return rel, true
}
