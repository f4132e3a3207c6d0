package object

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
)

// ---------------------------------------------------------------------------
// Blob
// ---------------------------------------------------------------------------

// MarshalBlob serializes a Blob to raw bytes (identity).
func MarshalBlob(b *Blob) []byte {
	out := make([]byte, len(b.Data))
	copy(out, b.Data)
	return out
}

// UnmarshalBlob deserializes raw bytes into a Blob.
func UnmarshalBlob(data []byte) (*Blob, error) {
	out := make([]byte, len(data))
	copy(out, data)
	return &Blob{Data: out}, nil
}

// ---------------------------------------------------------------------------
// TreeObj
// ---------------------------------------------------------------------------

// MarshalTree serializes a TreeObj. Entries are sorted by Path so that two
// directories with the same content hash identically regardless of the
// order the filesystem listed them in. Each entry is one line:
//
//	kind hash path
func MarshalTree(tr *TreeObj) []byte {
	sorted := make([]TreeEntry, len(tr.Entries))
	copy(sorted, tr.Entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Path < sorted[j].Path
	})

	var buf bytes.Buffer
	for _, e := range sorted {
		fmt.Fprintf(&buf, "%s %s %s\n", e.Type, e.Hash, e.Path)
	}
	return buf.Bytes()
}

// UnmarshalTree parses a TreeObj from its serialized form. The path is the
// remainder of the line after the second space, so it may contain spaces.
func UnmarshalTree(data []byte) (*TreeObj, error) {
	tr := &TreeObj{}
	text := strings.TrimRight(string(data), "\n")
	if text == "" {
		return tr, nil
	}
	for _, line := range strings.Split(text, "\n") {
		parts := strings.SplitN(line, " ", 3)
		if len(parts) != 3 || parts[2] == "" {
			return nil, fmt.Errorf("unmarshal tree: %w: malformed entry %q", ErrCorrupt, line)
		}
		kind := ObjectType(parts[0])
		if kind != TypeBlob && kind != TypeTree {
			return nil, fmt.Errorf("unmarshal tree: %w: unknown entry kind %q", ErrCorrupt, parts[0])
		}
		if !IsHash(parts[1]) {
			return nil, fmt.Errorf("unmarshal tree: %w: bad hash in entry %q", ErrCorrupt, line)
		}
		tr.Entries = append(tr.Entries, TreeEntry{
			Path: parts[2],
			Type: kind,
			Hash: Hash(parts[1]),
		})
	}
	return tr, nil
}

// ---------------------------------------------------------------------------
// CommitObj
// ---------------------------------------------------------------------------

// MarshalCommit serializes a CommitObj:
//
//	tree H
//	parent H     (omitted for a root commit)
//
//	message
func MarshalCommit(c *CommitObj) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "tree %s\n", c.TreeHash)
	if c.HasParent() {
		fmt.Fprintf(&buf, "parent %s\n", c.Parent)
	}
	buf.WriteByte('\n')
	buf.WriteString(c.Message)
	buf.WriteByte('\n')
	return buf.Bytes()
}

// UnmarshalCommit parses a CommitObj from its serialized form. The first
// line must name the tree; a second line starting with "parent" names the
// parent. The message is everything after the blank separator line, minus
// the trailing newline MarshalCommit appends.
func UnmarshalCommit(data []byte) (*CommitObj, error) {
	lines := strings.Split(string(data), "\n")

	treeVal, ok := strings.CutPrefix(lines[0], "tree ")
	if !ok {
		return nil, fmt.Errorf("unmarshal commit: %w: first line %q is not a tree line", ErrCorrupt, lines[0])
	}
	if !IsHash(treeVal) {
		return nil, fmt.Errorf("unmarshal commit: %w: bad tree hash %q", ErrCorrupt, treeVal)
	}
	c := &CommitObj{TreeHash: Hash(treeVal)}

	i := 1
	if len(lines) > 1 {
		if parentVal, ok := strings.CutPrefix(lines[1], "parent "); ok {
			if !IsHash(parentVal) {
				return nil, fmt.Errorf("unmarshal commit: %w: bad parent hash %q", ErrCorrupt, parentVal)
			}
			c.Parent = Hash(parentVal)
			i = 2
		}
	}

	if i >= len(lines) || lines[i] != "" {
		return nil, fmt.Errorf("unmarshal commit: %w: missing header/message separator", ErrCorrupt)
	}
	c.Message = strings.TrimSuffix(strings.Join(lines[i+1:], "\n"), "\n")
	return c, nil
}
