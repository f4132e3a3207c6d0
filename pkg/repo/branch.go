package repo

import (
	"fmt"
	"strings"

	"github.com/odvcencio/dsgit/pkg/object"
)

// CreateBranch points refs/heads/<name> at target, creating or moving the
// branch. HEAD is left alone.
func (r *Repo) CreateBranch(name string, target object.Hash) error {
	if err := r.writeDirectRef(headsPrefix, name, target); err != nil {
		return fmt.Errorf("create branch: %w", err)
	}
	return nil
}

// ListBranches returns the branch names sorted alphabetically.
func (r *Repo) ListBranches() ([]string, error) {
	refs, err := r.ListRefs(headsPrefix)
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	return sortedRefNames(refs, headsPrefix), nil
}

// CurrentBranch returns the branch HEAD is attached to ("ref:refs/heads/main"
// gives "main"). If HEAD is detached it returns "".
func (r *Repo) CurrentBranch() (string, error) {
	head, err := r.Head()
	if err != nil {
		return "", fmt.Errorf("current branch: %w", err)
	}
	if !head.Symbolic {
		return "", nil
	}
	name, ok := strings.CutPrefix(head.Value, headsPrefix)
	if !ok {
		return "", fmt.Errorf("current branch: HEAD points outside %s: %q", headsPrefix, head.Value)
	}
	return name, nil
}

// branchExists reports whether refs/heads/<name> resolves to an object.
func (r *Repo) branchExists(name string) (bool, error) {
	if validateRefName(headsPrefix+name) != nil {
		return false, nil
	}
	h, err := r.resolveOptional(headsPrefix + name)
	if err != nil {
		return false, err
	}
	return h != "", nil
}

// writeDirectRef writes target to prefix+name after checking the name and
// that target exists in the store.
func (r *Repo) writeDirectRef(prefix, name string, target object.Hash) error {
	name = strings.TrimSpace(name)
	if err := validateRefName(name); err != nil {
		return err
	}
	if !r.Store.Has(target) {
		return fmt.Errorf("%q: %w: %s", name, object.ErrNotFound, target)
	}
	return r.WriteRef(prefix+name, Ref{Value: string(target)}, false)
}
