package repo

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/dsgit/pkg/object"
)

// listFiles returns every regular file under root (outside .dsgit) mapped to
// its content.
func listFiles(t *testing.T, root string) map[string]string {
	t.Helper()
	files := make(map[string]string)
	err := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && d.Name() == DirName {
			return filepath.SkipDir
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	require.NoError(t, err)
	return files
}

func TestSnapshotTreeFormat(t *testing.T) {
	r := initRepo(t)
	writeFile(t, r.RootDir, "a.txt", "hello\n")

	h, err := r.Snapshot(r.RootDir, nil)
	require.NoError(t, err)
	assert.Equal(t, object.Hash("0602f3112bb0e64e147380b3062aa528768cdf5b"), h)

	data, err := r.Store.ReadTyped(h, object.TypeTree)
	require.NoError(t, err)
	assert.Equal(t, "blob a921a1ed31bcddeb5a51085e5d7dbdc7cf86b905 a.txt\n", string(data))
}

func TestSnapshotNestedEntries(t *testing.T) {
	r := initRepo(t)
	writeFile(t, r.RootDir, "z.txt", "z")
	writeFile(t, r.RootDir, "docs/readme.md", "read me")
	writeFile(t, r.RootDir, "docs/deep/x.bin", "\x00\x01\x02")
	require.NoError(t, os.MkdirAll(filepath.Join(r.RootDir, "empty"), 0o755))

	h, err := r.Snapshot(r.RootDir, nil)
	require.NoError(t, err)

	root, err := r.Store.ReadTree(h)
	require.NoError(t, err)
	var paths []string
	for _, e := range root.Entries {
		paths = append(paths, e.Path)
	}
	assert.Equal(t, []string{"docs", "empty", "z.txt"}, paths)
	assert.True(t, root.Entries[0].IsDir())
	assert.True(t, root.Entries[1].IsDir())

	docs, err := r.Store.ReadTree(root.Entries[0].Hash)
	require.NoError(t, err)
	require.Len(t, docs.Entries, 2)
	assert.Equal(t, "docs/deep", docs.Entries[0].Path)
	assert.Equal(t, "docs/readme.md", docs.Entries[1].Path)

	empty, err := r.Store.ReadTree(root.Entries[1].Hash)
	require.NoError(t, err)
	assert.Empty(t, empty.Entries)

	files, err := r.Flatten(h)
	require.NoError(t, err)
	got := make([]string, 0, len(files))
	for _, f := range files {
		got = append(got, f.Path)
	}
	assert.Equal(t, []string{"docs/deep/x.bin", "docs/readme.md", "z.txt"}, got)
}

func TestSnapshotSameContentSameHash(t *testing.T) {
	r := initRepo(t)
	dirA := filepath.Join(t.TempDir(), "a")
	dirB := filepath.Join(t.TempDir(), "b")

	// Same content, created in a different order.
	writeFile(t, dirA, "one.txt", "1")
	writeFile(t, dirA, "sub/two.txt", "2")
	writeFile(t, dirA, "three.txt", "3")
	writeFile(t, dirB, "three.txt", "3")
	writeFile(t, dirB, "sub/two.txt", "2")
	writeFile(t, dirB, "one.txt", "1")

	ha, err := r.Snapshot(dirA, nil)
	require.NoError(t, err)
	hb, err := r.Snapshot(dirB, nil)
	require.NoError(t, err)
	assert.Equal(t, ha, hb)
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	r := initRepo(t)
	want := map[string]string{
		"a.txt":              "hello\n",
		"dir/b.txt":          "bee",
		"dir/nested/c.txt":   "see\nsaw\n",
		"binary.dat":         "\x00\xff\xfe\x00",
		"with space/d e.txt": "spaces",
	}
	for p, c := range want {
		writeFile(t, r.RootDir, p, c)
	}

	h, err := r.Snapshot(r.RootDir, nil)
	require.NoError(t, err)

	// Scramble the working directory.
	require.NoError(t, os.RemoveAll(filepath.Join(r.RootDir, "dir")))
	writeFile(t, r.RootDir, "a.txt", "changed")
	writeFile(t, r.RootDir, "extra/new.txt", "new")

	require.NoError(t, r.Restore(h, nil))
	assert.Equal(t, want, listFiles(t, r.RootDir))
}

func TestRestoreKeepsIgnoredPaths(t *testing.T) {
	r := initRepo(t)
	writeFile(t, r.RootDir, "keep.txt", "v1")
	h, err := r.Snapshot(r.RootDir, nil)
	require.NoError(t, err)

	writeFile(t, r.RootDir, "target/build.out", "artifact")
	writeFile(t, r.RootDir, "src/target.log", "log")
	writeFile(t, r.RootDir, "src/main.go", "package main")

	ignore := NewIgnoreChecker([]string{"target"}, false)
	require.NoError(t, r.Restore(h, ignore))

	assert.Equal(t, map[string]string{
		"keep.txt":         "v1",
		"target/build.out": "artifact",
		"src/target.log":   "log",
	}, listFiles(t, r.RootDir))
	assert.DirExists(t, filepath.Join(r.RootDir, DirName))
}

func TestRestoreRemovesEmptiedDirectories(t *testing.T) {
	r := initRepo(t)
	writeFile(t, r.RootDir, "a.txt", "a")
	h, err := r.Snapshot(r.RootDir, nil)
	require.NoError(t, err)

	writeFile(t, r.RootDir, "gone/deeper/file.txt", "x")
	require.NoError(t, r.Restore(h, nil))
	assert.NoDirExists(t, filepath.Join(r.RootDir, "gone"))
}

func TestSnapshotIgnoresPatterns(t *testing.T) {
	r := initRepo(t)
	writeFile(t, r.RootDir, "a.txt", "hello\n")
	writeFile(t, r.RootDir, "target/out.bin", "ignored")
	writeFile(t, r.RootDir, ".gitignore", "ignored")
	writeFile(t, r.RootDir, ".git/config", "ignored")

	h, err := r.Snapshot(r.RootDir, NewIgnoreChecker([]string{"target"}, false))
	require.NoError(t, err)
	assert.Equal(t, object.Hash("0602f3112bb0e64e147380b3062aa528768cdf5b"), h)
}

func TestSnapshotSkipsSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	r := initRepo(t)
	writeFile(t, r.RootDir, "a.txt", "hello\n")
	require.NoError(t, os.Symlink(filepath.Join(r.RootDir, "a.txt"), filepath.Join(r.RootDir, "link")))

	h, err := r.Snapshot(r.RootDir, nil)
	require.NoError(t, err)
	assert.Equal(t, object.Hash("0602f3112bb0e64e147380b3062aa528768cdf5b"), h)
}

func TestFlattenRejectsNonTree(t *testing.T) {
	r := initRepo(t)
	blob, err := r.Store.WriteBlob(&object.Blob{Data: []byte("x")})
	require.NoError(t, err)

	_, err = r.Flatten(blob)
	assert.ErrorIs(t, err, object.ErrTypeMismatch)

	_, err = r.Flatten(object.HashBytes([]byte("missing")))
	assert.ErrorIs(t, err, object.ErrNotFound)
}

func TestRestoreRejectsEscapingPaths(t *testing.T) {
	for _, bad := range []string{"../evil.txt", "/etc/evil", "a/../../evil", "./a"} {
		t.Run(bad, func(t *testing.T) {
			r := initRepo(t)
			writeFile(t, r.RootDir, "keep.txt", "keep")
			blob, err := r.Store.WriteBlob(&object.Blob{Data: []byte("evil")})
			require.NoError(t, err)
			tree, err := r.Store.WriteTree(&object.TreeObj{Entries: []object.TreeEntry{
				{Path: bad, Type: object.TypeBlob, Hash: blob},
			}})
			require.NoError(t, err)

			err = r.Restore(tree, nil)
			assert.ErrorIs(t, err, object.ErrCorrupt)
			assert.Equal(t, "keep", readFile(t, r.RootDir, "keep.txt"), "nothing is cleared on a bad tree")
		})
	}
}

func TestWorkingTreeMatchesSnapshot(t *testing.T) {
	r := initRepo(t)
	writeFile(t, r.RootDir, "b.txt", "b")
	writeFile(t, r.RootDir, "a/x.txt", "x")
	writeFile(t, r.RootDir, "a.txt", "a")

	work, err := r.WorkingTree(nil)
	require.NoError(t, err)
	before, err := r.Store.List()
	require.NoError(t, err)
	assert.Empty(t, before, "WorkingTree must not write objects")

	h, err := r.Snapshot(r.RootDir, nil)
	require.NoError(t, err)
	flat, err := r.Flatten(h)
	require.NoError(t, err)
	sort.Slice(flat, func(i, j int) bool { return flat[i].Path < flat[j].Path })
	assert.Equal(t, flat, work)
	assert.Equal(t, "a.txt", work[0].Path)
	assert.Equal(t, "a/x.txt", work[1].Path)
}

func TestLookupPath(t *testing.T) {
	r := initRepo(t)
	writeFile(t, r.RootDir, "docs/guide/intro.md", "intro")
	writeFile(t, r.RootDir, "top.txt", "top")
	h, err := r.Snapshot(r.RootDir, nil)
	require.NoError(t, err)

	entry, ok, err := r.LookupPath(h, "docs/guide/intro.md")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, object.HashObject(object.TypeBlob, []byte("intro")), entry.Hash)

	_, ok, err = r.LookupPath(h, "docs/guide")
	require.NoError(t, err)
	assert.False(t, ok, "directories are not files")

	_, ok, err = r.LookupPath(h, "top.txt/child")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = r.LookupPath(h, "missing.txt")
	require.NoError(t, err)
	assert.False(t, ok)
}
