package repo

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/odvcencio/dsgit/pkg/diff"
	"github.com/odvcencio/dsgit/pkg/object"
)

// TreeFileEntry represents a single file in a flattened tree.
type TreeFileEntry struct {
	Path     string
	BlobHash object.Hash
}

// Snapshot records the directory dir as a tree object and returns its hash.
// Entry paths are relative to dir. Regular files become blob entries and
// directories become subtree entries, including empty ones. Symlinks and
// other special files are skipped.
func (r *Repo) Snapshot(dir string, ignore *IgnoreChecker) (object.Hash, error) {
	stats := &snapshotStats{}
	h, err := r.snapshotDir(dir, "", ignore, stats)
	if err != nil {
		return "", fmt.Errorf("snapshot: %w", err)
	}
	r.Logger.Debug("snapshot written",
		zap.String("tree", string(h)),
		zap.Int("files", stats.files),
		zap.Int("dirs", stats.dirs),
		zap.Int("skipped", stats.skipped),
	)
	return h, nil
}

type snapshotStats struct {
	files, dirs, skipped int
}

func (r *Repo) snapshotDir(root, rel string, ignore *IgnoreChecker, stats *snapshotStats) (object.Hash, error) {
	abs := filepath.Join(root, filepath.FromSlash(rel))
	dirEntries, err := os.ReadDir(abs)
	if err != nil {
		return "", fmt.Errorf("read dir %q: %w: %w", abs, object.ErrIO, err)
	}

	var entries []object.TreeEntry
	for _, de := range dirEntries {
		p := path.Join(rel, de.Name())
		mode := de.Type()
		if ignore.IsIgnored(p, mode.IsDir()) {
			continue
		}
		if strings.ContainsAny(de.Name(), "\n\r") {
			r.Logger.Warn("skipping path with line break", zap.String("path", p))
			stats.skipped++
			continue
		}

		switch {
		case mode.IsRegular():
			data, err := os.ReadFile(filepath.Join(abs, de.Name()))
			if err != nil {
				return "", fmt.Errorf("read %q: %w: %w", p, object.ErrIO, err)
			}
			h, err := r.Store.WriteBlob(&object.Blob{Data: data})
			if err != nil {
				return "", fmt.Errorf("write blob %q: %w", p, err)
			}
			entries = append(entries, object.TreeEntry{Path: p, Type: object.TypeBlob, Hash: h})
			stats.files++
		case mode.IsDir():
			h, err := r.snapshotDir(root, p, ignore, stats)
			if err != nil {
				return "", err
			}
			entries = append(entries, object.TreeEntry{Path: p, Type: object.TypeTree, Hash: h})
			stats.dirs++
		default:
			r.Logger.Debug("skipping special file", zap.String("path", p), zap.Stringer("mode", mode))
			stats.skipped++
		}
	}

	h, err := r.Store.WriteTree(&object.TreeObj{Entries: entries})
	if err != nil {
		return "", fmt.Errorf("write tree %q: %w", rel, err)
	}
	return h, nil
}

// Flatten walks a tree object depth-first, returning every file it
// contains with its full path.
func (r *Repo) Flatten(h object.Hash) ([]TreeFileEntry, error) {
	var result []TreeFileEntry
	if err := r.flattenRec(h, &result); err != nil {
		return nil, fmt.Errorf("flatten tree %s: %w", h, err)
	}
	return result, nil
}

func (r *Repo) flattenRec(h object.Hash, out *[]TreeFileEntry) error {
	treeObj, err := r.Store.ReadTree(h)
	if err != nil {
		return err
	}
	for _, e := range treeObj.Entries {
		switch e.Type {
		case object.TypeBlob:
			*out = append(*out, TreeFileEntry{Path: e.Path, BlobHash: e.Hash})
		case object.TypeTree:
			if err := r.flattenRec(e.Hash, out); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: entry %q has kind %q", object.ErrCorrupt, e.Path, e.Type)
		}
	}
	return nil
}

// Restore replaces the working directory with the content of tree h.
//
//  1. Flatten h and check every path stays inside the working directory.
//  2. Remove every non-ignored file; directories left empty are removed.
//  3. Write each blob to its path, creating parent directories.
//
// Restore is not transactional: a failure in step 3 leaves the working
// directory partially restored.
func (r *Repo) Restore(h object.Hash, ignore *IgnoreChecker) error {
	// 1. Flatten and validate.
	files, err := r.Flatten(h)
	if err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	for _, f := range files {
		if err := validateEntryPath(f.Path); err != nil {
			return fmt.Errorf("restore: %w", err)
		}
	}

	// 2. Clear the working directory.
	removed, err := r.clearDir("", ignore)
	if err != nil {
		return fmt.Errorf("restore: %w", err)
	}

	// 3. Write files.
	for _, f := range files {
		blob, err := r.Store.ReadBlob(f.BlobHash)
		if err != nil {
			return fmt.Errorf("restore: read blob for %q: %w", f.Path, err)
		}
		absPath := filepath.Join(r.RootDir, filepath.FromSlash(f.Path))
		if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
			return fmt.Errorf("restore: mkdir for %q: %w: %w", f.Path, object.ErrIO, err)
		}
		if err := os.WriteFile(absPath, blob.Data, 0o644); err != nil {
			return fmt.Errorf("restore: write %q: %w: %w", f.Path, object.ErrIO, err)
		}
	}

	r.Logger.Debug("tree restored",
		zap.String("tree", string(h)),
		zap.Int("removed", removed),
		zap.Int("written", len(files)),
	)
	return nil
}

// validateEntryPath rejects tree paths that would escape the working
// directory when joined to it.
func validateEntryPath(p string) error {
	if p == "" || strings.HasPrefix(p, "/") || filepath.IsAbs(p) || strings.Contains(p, "\\") {
		return fmt.Errorf("%w: unsafe path %q", object.ErrCorrupt, p)
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return fmt.Errorf("%w: unsafe path %q", object.ErrCorrupt, p)
		}
	}
	return nil
}

// clearDir removes every non-ignored file under rel and then any directory
// that is left empty. Ignored entries and their parents are kept. It
// returns the number of files removed.
func (r *Repo) clearDir(rel string, ignore *IgnoreChecker) (int, error) {
	abs := filepath.Join(r.RootDir, filepath.FromSlash(rel))
	dirEntries, err := os.ReadDir(abs)
	if err != nil {
		return 0, fmt.Errorf("read dir %q: %w: %w", abs, object.ErrIO, err)
	}

	removed := 0
	for _, de := range dirEntries {
		p := path.Join(rel, de.Name())
		if ignore.IsIgnored(p, de.IsDir()) {
			continue
		}
		target := filepath.Join(abs, de.Name())
		if !de.IsDir() {
			if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return removed, fmt.Errorf("remove %q: %w: %w", p, object.ErrIO, err)
			}
			removed++
			continue
		}

		n, err := r.clearDir(p, ignore)
		removed += n
		if err != nil {
			return removed, err
		}
		if empty, _ := isEmptyDir(target); empty {
			if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return removed, fmt.Errorf("remove dir %q: %w: %w", p, object.ErrIO, err)
			}
		}
	}
	return removed, nil
}

func isEmptyDir(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, err
	}
	return len(entries) == 0, nil
}

// WorkingTree returns the flattened view of the working directory, hashing
// each file in memory without writing any objects. Entries are sorted by
// path.
func (r *Repo) WorkingTree(ignore *IgnoreChecker) ([]TreeFileEntry, error) {
	var result []TreeFileEntry
	err := filepath.WalkDir(r.RootDir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if p == r.RootDir {
			return nil
		}
		rel, err := filepath.Rel(r.RootDir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if ignore.IsIgnored(rel, d.IsDir()) || strings.ContainsAny(d.Name(), "\n\r") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		result = append(result, TreeFileEntry{
			Path:     rel,
			BlobHash: object.HashObject(object.TypeBlob, data),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("working tree: %w: %w", object.ErrIO, err)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Path < result[j].Path })
	return result, nil
}

// diffEntries converts flattened tree entries to the diff package's form.
func diffEntries(files []TreeFileEntry) []diff.Entry {
	out := make([]diff.Entry, len(files))
	for i, f := range files {
		out[i] = diff.Entry{Path: f.Path, Hash: f.BlobHash}
	}
	return out
}
