// Package filecopy copies configured files (typically untracked ones such as
// .env) from the main checkout into a freshly created worktree.
package filecopy

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// Copy copies each entry, a path or glob relative to srcRoot, to the same
// relative location under dstRoot. Directories are copied recursively.
// Exclude patterns are matched against the path relative to srcRoot at every
// level; a "*"-prefixed pattern is a suffix match, anything else matches the
// exact relative path or a trailing path segment.
//
// Entries that do not exist are returned in missing rather than failing.
func Copy(srcRoot, dstRoot string, entries, exclude []string) (missing []string, err error) {
	for _, entry := range entries {
		sources, err := expand(srcRoot, entry)
		if err != nil {
			return missing, err
		}
		if len(sources) == 0 {
			missing = append(missing, entry)
			continue
		}
		for _, src := range sources {
			if err := copyTree(srcRoot, dstRoot, src, exclude); err != nil {
				return missing, err
			}
		}
	}
	return missing, nil
}

func expand(root, entry string) ([]string, error) {
	pattern := filepath.Join(root, filepath.FromSlash(entry))
	if !strings.ContainsAny(entry, "*?[") {
		if _, err := os.Lstat(pattern); err != nil {
			return nil, nil
		}
		return []string{pattern}, nil
	}
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("bad copy_files pattern %q: %w", entry, err)
	}
	return matches, nil
}

func copyTree(srcRoot, dstRoot, src string, exclude []string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(srcRoot, path)
		if err != nil {
			return err
		}
		if Excluded(filepath.ToSlash(rel), exclude) {
			log.Debug("copy excluded", "path", rel)
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		dst := filepath.Join(dstRoot, rel)
		switch {
		case d.IsDir():
			return os.MkdirAll(dst, 0o755)
		case d.Type()&fs.ModeSymlink != 0:
			return copySymlink(path, dst)
		default:
			return copyFile(path, dst)
		}
	})
}

// Excluded reports whether the slash-separated relative path matches any
// exclude pattern.
func Excluded(rel string, exclude []string) bool {
	for _, pattern := range exclude {
		if suffix, ok := strings.CutPrefix(pattern, "*"); ok {
			if strings.HasSuffix(rel, suffix) {
				return true
			}
			continue
		}
		pattern = strings.Trim(pattern, "/")
		if rel == pattern || strings.HasSuffix(rel, "/"+pattern) {
			return true
		}
	}
	return false
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(dst), err)
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}
	return out.Close()
}

func copySymlink(src, dst string) error {
	target, err := os.Readlink(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	_ = os.Remove(dst)
	return os.Symlink(target, dst)
}
