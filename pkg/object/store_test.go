package object

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashObjectKnownValues(t *testing.T) {
	// sha1("blob\x00Hello World!\n") and friends.
	assert.Equal(t, Hash("4963f4ed0612f7242d9d92bf59b4fb8ac8d29ec2"), HashObject(TypeBlob, []byte("Hello World!\n")))
	assert.Equal(t, Hash("38d458fa6e384e24e7f15c5d17be0e9cee67f823"), HashObject(TypeBlob, []byte("cat cat\n")))
	assert.Equal(t, Hash("48ede76ef68a65b7292840b4ad4d1f111359d82a"), HashObject(TypeBlob, nil))
}

func TestHashObjectEnvelope(t *testing.T) {
	data := []byte("hello")
	assert.NotEqual(t, HashBytes(data), HashObject(TypeBlob, data))
	assert.Equal(t, HashObject(TypeBlob, data), HashObject(TypeBlob, data))
	assert.NotEqual(t, HashObject(TypeBlob, data), HashObject(TypeTree, data))
}

func TestIsHash(t *testing.T) {
	assert.True(t, IsHash("4963f4ed0612f7242d9d92bf59b4fb8ac8d29ec2"))
	assert.True(t, IsHash("4963F4ED0612F7242D9D92BF59B4FB8AC8D29EC2"))
	assert.False(t, IsHash("4963f4ed"))
	assert.False(t, IsHash("g963f4ed0612f7242d9d92bf59b4fb8ac8d29ec2"))
	assert.False(t, IsHash("../../../../../../../../../../etc/passwd"))

	h, err := ParseHash(" 4963F4ED0612F7242D9D92BF59B4FB8AC8D29EC2\n")
	require.NoError(t, err)
	assert.Equal(t, Hash("4963f4ed0612f7242d9d92bf59b4fb8ac8d29ec2"), h)
	assert.Equal(t, "4963f4ed", h.Short())
}

func tempStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(t.TempDir())
}

func TestStoreWriteRead(t *testing.T) {
	s := tempStore(t)
	data := []byte("hello world")
	h, err := s.Write(TypeBlob, data)
	require.NoError(t, err)
	assert.Len(t, string(h), HashLen)

	gotType, gotData, err := s.Read(h)
	require.NoError(t, err)
	assert.Equal(t, TypeBlob, gotType)
	assert.Equal(t, data, gotData)
}

func TestStoreObjectFormat(t *testing.T) {
	s := tempStore(t)
	h, err := s.Write(TypeBlob, []byte("Hello World!\n"))
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(s.Root(), "objects", string(h)))
	require.NoError(t, err)
	assert.Equal(t, "blob\x00Hello World!\n", string(raw))
}

func TestStoreDuplicateWrite(t *testing.T) {
	s := tempStore(t)
	h1, err := s.Write(TypeBlob, []byte("duplicate"))
	require.NoError(t, err)
	h2, err := s.Write(TypeBlob, []byte("duplicate"))
	require.NoError(t, err)
	assert.Equal(t, h1, h2)

	hashes, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []Hash{h1}, hashes)
}

func TestStoreHas(t *testing.T) {
	s := tempStore(t)
	h, err := s.Write(TypeBlob, []byte("exists"))
	require.NoError(t, err)
	assert.True(t, s.Has(h))
	assert.False(t, s.Has(Hash(strings.Repeat("0", HashLen))))
	assert.False(t, s.Has(Hash("not-a-hash")))
}

func TestStoreReadMissing(t *testing.T) {
	s := tempStore(t)
	_, _, err := s.Read(Hash(strings.Repeat("0", HashLen)))
	assert.ErrorIs(t, err, ErrNotFound)

	_, _, err = s.Read(Hash("../HEAD"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreReadTypeMismatch(t *testing.T) {
	s := tempStore(t)
	h, err := s.WriteTree(&TreeObj{})
	require.NoError(t, err)

	_, err = s.ReadTyped(h, TypeBlob)
	assert.ErrorIs(t, err, ErrTypeMismatch)
	_, err = s.ReadBlob(h)
	assert.ErrorIs(t, err, ErrTypeMismatch)
	_, err = s.ReadCommit(h)
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestStoreReadCorruptEnvelope(t *testing.T) {
	s := tempStore(t)
	h := HashBytes([]byte("whatever"))
	require.NoError(t, os.MkdirAll(filepath.Join(s.Root(), "objects"), 0o755))

	require.NoError(t, os.WriteFile(filepath.Join(s.Root(), "objects", string(h)), []byte("no separator"), 0o644))
	_, _, err := s.Read(h)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestStoreRejectsUnknownType(t *testing.T) {
	s := tempStore(t)
	_, err := s.Write(ObjectType("entity"), []byte("x"))
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestStoreGetPutRoundTrip(t *testing.T) {
	s := tempStore(t)
	payloads := [][]byte{
		nil,
		[]byte("text\n"),
		{0x00, 0x01, 0xfe, 0xff},
		bytes.Repeat([]byte("large "), 10000),
	}
	for _, kind := range []ObjectType{TypeBlob, TypeTree, TypeCommit} {
		for _, p := range payloads {
			h, err := s.Write(kind, p)
			require.NoError(t, err)
			assert.Equal(t, HashObject(kind, p), h)

			got, err := s.ReadTyped(h, kind)
			require.NoError(t, err)
			assert.True(t, bytes.Equal(p, got), "kind %s payload len %d", kind, len(p))
		}
	}
}

func TestStoreWriteReadTree(t *testing.T) {
	s := tempStore(t)
	orig := &TreeObj{Entries: []TreeEntry{
		{Path: "b.txt", Type: TypeBlob, Hash: hashA},
		{Path: "a", Type: TypeTree, Hash: hashB},
	}}
	h, err := s.WriteTree(orig)
	require.NoError(t, err)

	got, err := s.ReadTree(h)
	require.NoError(t, err)
	require.Len(t, got.Entries, 2)
	assert.Equal(t, "a", got.Entries[0].Path)
	assert.Equal(t, "b.txt", got.Entries[1].Path)
}

func TestStoreWriteReadCommit(t *testing.T) {
	s := tempStore(t)
	orig := &CommitObj{TreeHash: hashA, Parent: hashB, Message: "msg"}
	h, err := s.WriteCommit(orig)
	require.NoError(t, err)

	got, err := s.ReadCommit(h)
	require.NoError(t, err)
	assert.Equal(t, orig, got)
}

func TestStoreCacheReturnsCopies(t *testing.T) {
	s := tempStore(t)
	h, err := s.Write(TypeBlob, []byte("immutable"))
	require.NoError(t, err)

	_, first, err := s.Read(h)
	require.NoError(t, err)
	first[0] = 'X'

	_, second, err := s.Read(h)
	require.NoError(t, err)
	assert.Equal(t, "immutable", string(second))
}

func TestStoreWithoutCache(t *testing.T) {
	s, err := NewStoreWithOptions(t.TempDir(), Options{CacheSize: 0})
	require.NoError(t, err)

	h, err := s.Write(TypeBlob, []byte("uncached"))
	require.NoError(t, err)
	_, data, err := s.Read(h)
	require.NoError(t, err)
	assert.Equal(t, "uncached", string(data))
}

func TestStoreZstdCompression(t *testing.T) {
	root := t.TempDir()
	s, err := NewStoreWithOptions(root, Options{Compression: CompressionZstd})
	require.NoError(t, err)

	content := bytes.Repeat([]byte("compress me please\n"), 200)
	h, err := s.Write(TypeBlob, content)
	require.NoError(t, err)
	assert.Equal(t, HashObject(TypeBlob, content), h)

	raw, err := os.ReadFile(filepath.Join(root, "objects", string(h)))
	require.NoError(t, err)
	assert.True(t, isZstdFrame(raw))
	assert.Less(t, len(raw), len(content))

	// A plain store on the same root reads compressed objects too.
	plain := NewStore(root)
	got, err := plain.ReadTyped(h, TypeBlob)
	require.NoError(t, err)
	assert.Equal(t, content, got)

	summary, err := plain.Verify()
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Objects)
}

func TestNewStoreWithOptionsRejectsUnknownCompression(t *testing.T) {
	_, err := NewStoreWithOptions(t.TempDir(), Options{Compression: Compression("lz4")})
	assert.Error(t, err)
}

func TestParseCompression(t *testing.T) {
	c, err := ParseCompression("")
	require.NoError(t, err)
	assert.Equal(t, CompressionNone, c)

	c, err = ParseCompression(" ZSTD ")
	require.NoError(t, err)
	assert.Equal(t, CompressionZstd, c)

	_, err = ParseCompression("gzip")
	assert.Error(t, err)
}

func TestStoreVerifyDetectsTampering(t *testing.T) {
	s := tempStore(t)
	h, err := s.Write(TypeBlob, []byte("original"))
	require.NoError(t, err)

	summary, err := s.Verify()
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Objects)

	require.NoError(t, os.WriteFile(filepath.Join(s.Root(), "objects", string(h)), []byte("blob\x00tampered"), 0o644))
	_, err = s.Verify()
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestStoreListEmpty(t *testing.T) {
	s := tempStore(t)
	hashes, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, hashes)
}
