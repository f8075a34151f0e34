package rename

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// Collect walks root and returns the directories and regular files to
// process. Ignored directories are pruned and symlinks are not followed.
// Directories come back deepest first, ties broken lexically, and never
// include root itself. Files keep walk order.
func Collect(ctx context.Context, root string, ignore Ignore) (dirs, files []string, err error) {
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if p == root {
				return walkErr
			}
			// Unreadable entries are left alone.
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if p == root {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}

		switch {
		case d.IsDir():
			if ignore.Dir(rel) {
				return fs.SkipDir
			}
			dirs = append(dirs, p)
		case d.Type().IsRegular():
			if ignore.File(p) {
				return nil
			}
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("scan %s: %w", root, err)
	}

	sortDeepestFirst(dirs)
	return dirs, files, nil
}

func depth(p string) int {
	return strings.Count(filepath.ToSlash(p), "/")
}

func sortDeepestFirst(dirs []string) {
	sort.SliceStable(dirs, func(i, j int) bool {
		di, dj := depth(dirs[i]), depth(dirs[j])
		if di != dj {
			return di > dj
		}
		return dirs[i] < dirs[j]
	})
}
