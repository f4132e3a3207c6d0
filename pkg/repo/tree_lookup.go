package repo

import (
	"fmt"
	"strings"

	"github.com/odvcencio/dsgit/pkg/object"
)

// LookupPath finds the file relPath inside tree treeHash, descending one
// subtree per path segment. It reports false when the path is absent or
// names a directory.
func (r *Repo) LookupPath(treeHash object.Hash, relPath string) (object.TreeEntry, bool, error) {
	relPath = strings.Trim(relPath, "/")
	if relPath == "" {
		return object.TreeEntry{}, false, nil
	}
	parts := strings.Split(relPath, "/")
	current := treeHash

	for i := range parts {
		treeObj, err := r.Store.ReadTree(current)
		if err != nil {
			return object.TreeEntry{}, false, fmt.Errorf("lookup %q: %w", relPath, err)
		}

		want := strings.Join(parts[:i+1], "/")
		var (
			entry object.TreeEntry
			found bool
		)
		for _, te := range treeObj.Entries {
			if te.Path == want {
				entry = te
				found = true
				break
			}
		}
		if !found {
			return object.TreeEntry{}, false, nil
		}

		if i == len(parts)-1 {
			if entry.IsDir() {
				return object.TreeEntry{}, false, nil
			}
			return entry, true, nil
		}
		if !entry.IsDir() {
			return object.TreeEntry{}, false, nil
		}
		current = entry.Hash
	}
	return object.TreeEntry{}, false, nil
}
