package repo

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/odvcencio/dsgit/pkg/diff"
	"github.com/odvcencio/dsgit/pkg/object"
)

// StatusReport compares the working directory with the HEAD commit.
type StatusReport struct {
	Branch  string      // attached branch, "" when detached
	Head    object.Hash // HEAD commit, "" before the first commit
	Changes *diff.TreeDiff
}

// Clean reports whether the working directory matches HEAD.
func (s *StatusReport) Clean() bool {
	return s.Changes.Empty()
}

// Status diffs the HEAD tree against the working directory.
//
//  1. Read HEAD (branch name and commit, either may be empty)
//  2. Flatten the HEAD tree
//  3. Scan the working directory
//  4. Classify the differences
func (r *Repo) Status(ignore *IgnoreChecker) (*StatusReport, error) {
	// 1. HEAD.
	branch, err := r.CurrentBranch()
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}
	head, err := r.HeadHash()
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}

	// 2. HEAD tree.
	headFiles, err := r.CommitFiles(head)
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}

	// 3. Working tree.
	workFiles, err := r.WorkingTree(ignore)
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}

	// 4. Classify.
	return &StatusReport{
		Branch:  branch,
		Head:    head,
		Changes: diff.DiffTrees(diffEntries(headFiles), diffEntries(workFiles)),
	}, nil
}

// CommitFiles flattens the tree of commit h. The empty hash stands for the
// empty history and yields no files.
func (r *Repo) CommitFiles(h object.Hash) ([]TreeFileEntry, error) {
	if h == "" {
		return nil, nil
	}
	c, err := r.ReadCommit(h)
	if err != nil {
		return nil, err
	}
	return r.Flatten(c.TreeHash)
}

// DiffCommits classifies the file differences between commits from and to.
// Either may be "" for an empty tree.
func (r *Repo) DiffCommits(from, to object.Hash) (*diff.TreeDiff, error) {
	fromFiles, err := r.CommitFiles(from)
	if err != nil {
		return nil, fmt.Errorf("diff: %w", err)
	}
	toFiles, err := r.CommitFiles(to)
	if err != nil {
		return nil, fmt.Errorf("diff: %w", err)
	}
	return diff.DiffTrees(diffEntries(fromFiles), diffEntries(toFiles)), nil
}

// DiffWorkingTree classifies the differences between commit from and the
// working directory.
func (r *Repo) DiffWorkingTree(from object.Hash, ignore *IgnoreChecker) (*diff.TreeDiff, error) {
	fromFiles, err := r.CommitFiles(from)
	if err != nil {
		return nil, fmt.Errorf("diff: %w", err)
	}
	workFiles, err := r.WorkingTree(ignore)
	if err != nil {
		return nil, fmt.Errorf("diff: %w", err)
	}
	return diff.DiffTrees(diffEntries(fromFiles), diffEntries(workFiles)), nil
}

// ReadContent returns the data of blob h. The empty hash, used for the
// missing side of a created or removed file, yields nil.
func (r *Repo) ReadContent(h object.Hash) ([]byte, error) {
	if h == "" {
		return nil, nil
	}
	blob, err := r.Store.ReadBlob(h)
	if err != nil {
		return nil, fmt.Errorf("read content %s: %w", h, err)
	}
	return blob.Data, nil
}

// ReadWorkingFile returns the content of a root-relative working directory
// file, or nil when it does not exist.
func (r *Repo) ReadWorkingFile(p string) ([]byte, error) {
	if err := validateEntryPath(p); err != nil {
		return nil, fmt.Errorf("read working file: %w", err)
	}
	data, err := os.ReadFile(filepath.Join(r.RootDir, filepath.FromSlash(p)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read working file %q: %w: %w", p, object.ErrIO, err)
	}
	return data, nil
}
