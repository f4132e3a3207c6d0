package diff

import (
	"sort"

	"github.com/odvcencio/dsgit/pkg/object"
)

// ChangeType classifies what happened to a path between two trees.
type ChangeType int

const (
	Modified ChangeType = iota // Path exists in both trees with different content.
	Created                    // Path exists only in the to tree.
	Removed                    // Path exists only in the from tree.
)

func (t ChangeType) String() string {
	switch t {
	case Modified:
		return "modified"
	case Created:
		return "created"
	case Removed:
		return "removed"
	}
	return "unknown"
}

// Entry is one file of a flattened tree.
type Entry struct {
	Path string
	Hash object.Hash
}

// Change records a single path-level difference. Before is empty for
// Created, After is empty for Removed.
type Change struct {
	Type   ChangeType
	Path   string
	Before object.Hash
	After  object.Hash
}

// TreeDiff holds the classified differences between two flattened trees.
// Each list is sorted by path.
type TreeDiff struct {
	Modified []Change
	Created  []Change
	Removed  []Change
}

// Empty reports whether the two trees were identical.
func (d *TreeDiff) Empty() bool {
	return len(d.Modified) == 0 && len(d.Created) == 0 && len(d.Removed) == 0
}

// All returns every change ordered by path.
func (d *TreeDiff) All() []Change {
	all := make([]Change, 0, len(d.Modified)+len(d.Created)+len(d.Removed))
	all = append(all, d.Modified...)
	all = append(all, d.Created...)
	all = append(all, d.Removed...)
	sort.SliceStable(all, func(i, j int) bool { return all[i].Path < all[j].Path })
	return all
}

// DiffTrees compares two flattened trees path by path. A path present in
// both with a different hash is Modified, one present only in to is Created,
// one present only in from is Removed. Unchanged paths are omitted.
func DiffTrees(from, to []Entry) *TreeDiff {
	fromMap := make(map[string]object.Hash, len(from))
	for _, e := range from {
		fromMap[e.Path] = e.Hash
	}
	toMap := make(map[string]object.Hash, len(to))
	for _, e := range to {
		toMap[e.Path] = e.Hash
	}

	d := &TreeDiff{}
	for p, before := range fromMap {
		after, ok := toMap[p]
		switch {
		case !ok:
			d.Removed = append(d.Removed, Change{Type: Removed, Path: p, Before: before})
		case before != after:
			d.Modified = append(d.Modified, Change{Type: Modified, Path: p, Before: before, After: after})
		}
	}
	for p, after := range toMap {
		if _, ok := fromMap[p]; !ok {
			d.Created = append(d.Created, Change{Type: Created, Path: p, After: after})
		}
	}

	sortChanges(d.Modified)
	sortChanges(d.Created)
	sortChanges(d.Removed)
	return d
}

func sortChanges(cs []Change) {
	sort.Slice(cs, func(i, j int) bool { return cs[i].Path < cs[j].Path })
}
