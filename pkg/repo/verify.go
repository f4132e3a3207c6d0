package repo

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/odvcencio/dsgit/pkg/object"
)

// VerifyReport summarizes a repository integrity check.
type VerifyReport struct {
	Objects     int           // objects rehashed successfully
	Refs        int           // refs used as reachability roots
	Reachable   int           // stored objects reachable from some ref
	Unreachable int           // stored objects no ref reaches; harmless
	Missing     []object.Hash // referenced by reachable objects but absent
}

// OK reports whether every reachable object is present.
func (v *VerifyReport) OK() bool {
	return len(v.Missing) == 0
}

// Verify rehashes every stored object and then walks the history of every
// ref to find referenced objects that are missing. A stored object whose
// content does not match its name fails the check with object.ErrCorrupt.
func (r *Repo) Verify() (*VerifyReport, error) {
	summary, err := r.Store.Verify()
	if err != nil {
		return nil, fmt.Errorf("verify: %w", err)
	}

	refs, err := r.ListRefs("")
	if err != nil {
		return nil, fmt.Errorf("verify: %w", err)
	}
	rootSet := make(map[object.Hash]struct{}, len(refs))
	for _, h := range refs {
		rootSet[h] = struct{}{}
	}
	roots := make([]object.Hash, 0, len(rootSet))
	for h := range rootSet {
		roots = append(roots, h)
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i] < roots[j] })

	reachable, missing, err := r.Store.ReachableSet(roots)
	if err != nil {
		return nil, fmt.Errorf("verify: %w", err)
	}

	report := &VerifyReport{
		Objects:   summary.Objects,
		Refs:      len(refs),
		Reachable: len(reachable),
		Missing:   missing,
	}
	report.Unreachable = report.Objects - report.Reachable
	r.Logger.Debug("repository verified",
		zap.Int("objects", report.Objects),
		zap.Int("reachable", report.Reachable),
		zap.Int("missing", len(report.Missing)),
	)
	return report, nil
}
