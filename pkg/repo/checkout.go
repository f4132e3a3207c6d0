package repo

import (
	"fmt"

	"go.uber.org/zap"
)

// Switch moves the working directory and HEAD to the commit name resolves
// to. When name is an existing branch HEAD is attached to it, otherwise HEAD
// is detached at the commit.
//
//  1. Resolve name to a commit hash
//  2. Read the commit and restore its tree
//  3. Update HEAD (symbolic for a branch, the raw hash otherwise)
func (r *Repo) Switch(name string, ignore *IgnoreChecker) error {
	// 1. Resolve.
	target, err := r.ResolveName(name)
	if err != nil {
		return fmt.Errorf("switch: %w", err)
	}

	// 2. Restore.
	commit, err := r.ReadCommit(target)
	if err != nil {
		return fmt.Errorf("switch: %w", err)
	}
	if err := r.Restore(commit.TreeHash, ignore); err != nil {
		return fmt.Errorf("switch: %w", err)
	}

	// 3. HEAD.
	isBranch, err := r.branchExists(name)
	if err != nil {
		return fmt.Errorf("switch: %w", err)
	}
	head := Ref{Value: string(target)}
	if isBranch {
		head = Ref{Symbolic: true, Value: headsPrefix + name}
	}
	if err := r.WriteRef(headRef, head, false); err != nil {
		return fmt.Errorf("switch: %w", err)
	}

	r.Logger.Debug("switched",
		zap.String("name", name),
		zap.String("commit", string(target)),
		zap.Bool("attached", isBranch),
	)
	return nil
}
