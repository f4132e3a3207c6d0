package repo

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/odvcencio/dsgit/pkg/object"
)

// Commit records the working directory as a new commit on top of HEAD.
//
//  1. Snapshot the working directory into a tree
//  2. Resolve HEAD to get the parent commit (none for the first commit)
//  3. Write the commit object
//  4. Move HEAD, or the branch HEAD is attached to
//  5. Return the commit hash
func (r *Repo) Commit(message string, ignore *IgnoreChecker) (object.Hash, error) {
	// 1. Snapshot.
	treeHash, err := r.Snapshot(r.RootDir, ignore)
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	// 2. Parent. An attached HEAD whose branch has no commits yet has none.
	parent, err := r.HeadHash()
	if err != nil {
		return "", fmt.Errorf("commit: resolve HEAD: %w", err)
	}

	// 3. Write commit.
	commitHash, err := r.Store.WriteCommit(&object.CommitObj{
		TreeHash: treeHash,
		Parent:   parent,
		Message:  message,
	})
	if err != nil {
		return "", fmt.Errorf("commit: write commit: %w", err)
	}

	// 4. Update HEAD through any symbolic chain.
	if err := r.WriteRef(headRef, Ref{Value: string(commitHash)}, true); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	r.Logger.Debug("commit created",
		zap.String("commit", string(commitHash)),
		zap.String("tree", string(treeHash)),
		zap.String("parent", string(parent)),
	)
	return commitHash, nil
}

// ReadCommit reads and parses the commit h.
func (r *Repo) ReadCommit(h object.Hash) (*object.CommitObj, error) {
	c, err := r.Store.ReadCommit(h)
	if err != nil {
		return nil, fmt.Errorf("read commit %s: %w", h, err)
	}
	return c, nil
}

// LogEntry is one commit in a history walk.
type LogEntry struct {
	Hash   object.Hash
	Commit *object.CommitObj
}

// Log walks the parent chain starting at start and returns up to limit
// commits, newest first. A limit of zero or less walks the whole chain.
func (r *Repo) Log(start object.Hash, limit int) ([]LogEntry, error) {
	var entries []LogEntry
	current := start
	for current != "" && (limit <= 0 || len(entries) < limit) {
		c, err := r.Store.ReadCommit(current)
		if err != nil {
			return nil, fmt.Errorf("log: read commit %s: %w", current, err)
		}
		entries = append(entries, LogEntry{Hash: current, Commit: c})
		current = c.Parent
	}
	return entries, nil
}
