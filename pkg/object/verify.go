package object

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
)

// VerifySummary reports the outcome of Store.Verify.
type VerifySummary struct {
	Objects int
}

// List returns the hashes of every object in the store, sorted.
func (s *Store) List() ([]Hash, error) {
	entries, err := os.ReadDir(s.objectsDir())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list objects: %w: %w", ErrIO, err)
	}

	hashes := make([]Hash, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".tmp-") {
			continue
		}
		if !IsHash(name) {
			continue
		}
		hashes = append(hashes, Hash(name))
	}
	sort.Slice(hashes, func(i, j int) bool { return hashes[i] < hashes[j] })
	return hashes, nil
}

// Verify rehashes every stored object and checks it against its file name.
// It stops at the first object that fails to decode or hash.
func (s *Store) Verify() (*VerifySummary, error) {
	report := &VerifySummary{}

	hashes, err := s.List()
	if err != nil {
		return nil, err
	}
	for _, h := range hashes {
		objType, content, err := s.readFile(h)
		if err != nil {
			return nil, fmt.Errorf("verify %s: %w", h, err)
		}
		if actual := HashObject(objType, content); actual != h {
			return nil, fmt.Errorf("verify %s: %w: hash mismatch (computed %s)", h, ErrCorrupt, actual)
		}
		report.Objects++
	}
	return report, nil
}
