package repo

import (
	"fmt"

	"github.com/odvcencio/dsgit/pkg/object"
)

// Reset detaches HEAD at the commit target. The working directory is not
// modified.
func (r *Repo) Reset(target object.Hash) error {
	if _, err := r.ReadCommit(target); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	if err := r.WriteRef(headRef, Ref{Value: string(target)}, false); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	return nil
}
