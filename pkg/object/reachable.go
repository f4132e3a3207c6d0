package object

import (
	"fmt"
	"sort"
	"strings"
)

// ReachableSet returns all object hashes reachable from roots by following
// commit parents, commit trees and tree entries. Referenced hashes that are
// not present in the store are reported in missing rather than failing the
// walk, so callers can describe every hole at once.
func (s *Store) ReachableSet(roots []Hash) (reachable map[Hash]struct{}, missing []Hash, err error) {
	roots = uniqueNormalizedHashes(roots)
	reachable = make(map[Hash]struct{}, len(roots))
	if len(roots) == 0 {
		return reachable, nil, nil
	}

	missingSet := make(map[Hash]struct{})
	stack := make([]Hash, 0, len(roots))
	stack = append(stack, roots...)
	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if h == "" {
			continue
		}
		if _, ok := reachable[h]; ok {
			continue
		}
		if !s.Has(h) {
			missingSet[h] = struct{}{}
			continue
		}
		reachable[h] = struct{}{}

		objType, data, err := s.Read(h)
		if err != nil {
			return nil, nil, fmt.Errorf("reachable set read %s: %w", h, err)
		}
		refs, err := referencedHashes(objType, data)
		if err != nil {
			return nil, nil, fmt.Errorf("reachable set parse %s (%s): %w", h, objType, err)
		}
		stack = append(stack, refs...)
	}

	missing = make([]Hash, 0, len(missingSet))
	for h := range missingSet {
		missing = append(missing, h)
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
	return reachable, missing, nil
}

func referencedHashes(objType ObjectType, data []byte) ([]Hash, error) {
	switch objType {
	case TypeBlob:
		return nil, nil
	case TypeCommit:
		commit, err := UnmarshalCommit(data)
		if err != nil {
			return nil, err
		}
		refs := []Hash{commit.TreeHash}
		if commit.HasParent() {
			refs = append(refs, commit.Parent)
		}
		return refs, nil
	case TypeTree:
		tree, err := UnmarshalTree(data)
		if err != nil {
			return nil, err
		}
		refs := make([]Hash, 0, len(tree.Entries))
		for _, e := range tree.Entries {
			refs = append(refs, e.Hash)
		}
		return refs, nil
	default:
		return nil, fmt.Errorf("%w: unsupported object type %q", ErrCorrupt, objType)
	}
}

func uniqueNormalizedHashes(in []Hash) []Hash {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[Hash]struct{}, len(in))
	out := make([]Hash, 0, len(in))
	for _, h := range in {
		h = Hash(strings.TrimSpace(string(h)))
		if h == "" {
			continue
		}
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
