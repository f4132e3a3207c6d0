package repo

import (
	"fmt"

	"github.com/odvcencio/dsgit/pkg/object"
)

// CreateTag points refs/tags/<name> at target. Tags are always direct refs;
// an existing tag of the same name is overwritten.
func (r *Repo) CreateTag(name string, target object.Hash) error {
	if err := r.writeDirectRef(tagsPrefix, name, target); err != nil {
		return fmt.Errorf("create tag: %w", err)
	}
	return nil
}

// ListTags lists tag names sorted alphabetically.
func (r *Repo) ListTags() ([]string, error) {
	refs, err := r.ListRefs(tagsPrefix)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return sortedRefNames(refs, tagsPrefix), nil
}
