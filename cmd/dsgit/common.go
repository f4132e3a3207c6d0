package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/odvcencio/dsgit/pkg/diff"
	"github.com/odvcencio/dsgit/pkg/object"
	"github.com/odvcencio/dsgit/pkg/repo"
)

// resolveCommit resolves name and checks that it names a commit.
func resolveCommit(r *repo.Repo, name string) (object.Hash, error) {
	h, err := r.ResolveName(name)
	if err != nil {
		return "", err
	}
	if _, err := r.ReadCommit(h); err != nil {
		return "", err
	}
	return h, nil
}

// decorations maps each commit to the refs pointing at it, rendered like
// "HEAD -> main, tag: v1".
func decorations(r *repo.Repo) (map[object.Hash]string, error) {
	refs, err := r.ListRefs("")
	if err != nil {
		return nil, err
	}
	branch, err := r.CurrentBranch()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(refs))
	for name := range refs {
		names = append(names, name)
	}
	sort.Strings(names)

	labels := make(map[object.Hash][]string)
	if h, ok := refs["HEAD"]; ok {
		if branch != "" {
			labels[h] = append(labels[h], headColor("HEAD -> "+branch))
		} else {
			labels[h] = append(labels[h], headColor("HEAD"))
		}
	}
	for _, name := range names {
		h := refs[name]
		switch {
		case strings.HasPrefix(name, "refs/heads/"):
			b := strings.TrimPrefix(name, "refs/heads/")
			if b == branch {
				continue
			}
			labels[h] = append(labels[h], branchColor(b))
		case strings.HasPrefix(name, "refs/tags/"):
			labels[h] = append(labels[h], tagColor("tag: "+strings.TrimPrefix(name, "refs/tags/")))
		}
	}

	out := make(map[object.Hash]string, len(labels))
	for h, l := range labels {
		out[h] = "(" + strings.Join(l, ", ") + ")"
	}
	return out, nil
}

// contentFunc loads one side of a change. The working tree side reads files
// by path since its hashes are never stored.
type contentFunc func(path string, h object.Hash) ([]byte, error)

func storedContent(r *repo.Repo) contentFunc {
	return func(_ string, h object.Hash) ([]byte, error) {
		return r.ReadContent(h)
	}
}

func workingContent(r *repo.Repo) contentFunc {
	return func(path string, h object.Hash) ([]byte, error) {
		if h == "" {
			return nil, nil
		}
		return r.ReadWorkingFile(path)
	}
}

// writeTreeDiff renders every change in d as a unified diff.
func writeTreeDiff(w io.Writer, d *diff.TreeDiff, before, after contentFunc) error {
	style := diffStyle()
	for _, c := range d.All() {
		a, err := before(c.Path, c.Before)
		if err != nil {
			return err
		}
		b, err := after(c.Path, c.After)
		if err != nil {
			return err
		}
		if err := diff.WriteUnified(w, c.Path, a, b, style); err != nil {
			return fmt.Errorf("write diff %s: %w", c.Path, err)
		}
	}
	return nil
}
