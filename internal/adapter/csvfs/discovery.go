// Package csvfs discovers and parses station CSV files on the local filesystem.
package csvfs

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/couchcryptid/climate-stats-etl/internal/domain"
)

// Discoverer walks a directory tree for CSV files.
// It implements pipeline.Discoverer.
type Discoverer struct{}

// NewDiscoverer creates a Discoverer.
func NewDiscoverer() *Discoverer {
	return &Discoverer{}
}

type node struct {
	path  string
	isDir bool
}

// Discover returns every file under root whose name ends in ".csv" (any
// case), depth-first with entries visited in lexicographic order at each
// level. Symlinked directories are followed; a directory whose resolved path
// was already walked is not walked again, which also breaks link cycles.
// Directories that cannot be listed are recorded in Skipped and the walk
// continues with their siblings.
func (d *Discoverer) Discover(root string) domain.Discovery {
	var out domain.Discovery
	visited := make(map[string]struct{})
	stack := []node{{path: root, isDir: true}}

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !n.isDir {
			out.Files = append(out.Files, n.path)
			continue
		}

		if real, err := filepath.EvalSymlinks(n.path); err == nil {
			if _, seen := visited[real]; seen {
				continue
			}
			visited[real] = struct{}{}
		}

		// os.ReadDir sorts entries by filename.
		entries, err := os.ReadDir(n.path)
		if err != nil {
			out.Skipped = append(out.Skipped, domain.SkippedDir{Path: n.path, Err: err})
			continue
		}

		// Push in reverse so the smallest name is popped first.
		for i := len(entries) - 1; i >= 0; i-- {
			e := entries[i]
			path := filepath.Join(n.path, e.Name())
			switch {
			case isDir(e, path):
				stack = append(stack, node{path: path, isDir: true})
			case isCSV(e.Name()):
				stack = append(stack, node{path: path})
			}
		}
	}
	return out
}

// isDir reports whether the entry is a directory, resolving symlinks.
func isDir(e fs.DirEntry, path string) bool {
	if e.IsDir() {
		return true
	}
	if e.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isCSV(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".csv")
}
