package object

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	hashA = Hash("4963f4ed0612f7242d9d92bf59b4fb8ac8d29ec2")
	hashB = Hash("38d458fa6e384e24e7f15c5d17be0e9cee67f823")
	hashC = Hash("bdb10d71fac51e4952b37042faa62640cd7847db")
)

func TestMarshalUnmarshalBlob(t *testing.T) {
	orig := &Blob{Data: []byte("hello world\nline two\x00\xff")}
	got, err := UnmarshalBlob(MarshalBlob(orig))
	require.NoError(t, err)
	assert.Equal(t, orig.Data, got.Data)
}

func TestMarshalTreeFormat(t *testing.T) {
	tr := &TreeObj{Entries: []TreeEntry{
		{Path: "hello.txt", Type: TypeBlob, Hash: hashA},
		{Path: "other", Type: TypeTree, Hash: hashC},
		{Path: "cat.txt", Type: TypeBlob, Hash: hashB},
	}}

	want := "blob " + string(hashB) + " cat.txt\n" +
		"blob " + string(hashA) + " hello.txt\n" +
		"tree " + string(hashC) + " other\n"
	assert.Equal(t, want, string(MarshalTree(tr)))
}

func TestMarshalTreeOrderIndependent(t *testing.T) {
	a := &TreeObj{Entries: []TreeEntry{
		{Path: "b", Type: TypeBlob, Hash: hashA},
		{Path: "a", Type: TypeBlob, Hash: hashB},
		{Path: "a/c", Type: TypeTree, Hash: hashC},
	}}
	b := &TreeObj{Entries: []TreeEntry{
		{Path: "a/c", Type: TypeTree, Hash: hashC},
		{Path: "a", Type: TypeBlob, Hash: hashB},
		{Path: "b", Type: TypeBlob, Hash: hashA},
	}}
	assert.Equal(t, MarshalTree(a), MarshalTree(b))
	assert.Equal(t, HashObject(TypeTree, MarshalTree(a)), HashObject(TypeTree, MarshalTree(b)))
}

func TestMarshalUnmarshalTree(t *testing.T) {
	orig := &TreeObj{Entries: []TreeEntry{
		{Path: "dir", Type: TypeTree, Hash: hashC},
		{Path: "dir/with space.txt", Type: TypeBlob, Hash: hashA},
	}}
	got, err := UnmarshalTree(MarshalTree(orig))
	require.NoError(t, err)
	assert.Equal(t, orig.Entries, got.Entries)
	assert.True(t, got.Entries[0].IsDir())
	assert.False(t, got.Entries[1].IsDir())
}

func TestUnmarshalTreeEmpty(t *testing.T) {
	got, err := UnmarshalTree(nil)
	require.NoError(t, err)
	assert.Empty(t, got.Entries)
}

func TestUnmarshalTreeCorrupt(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "too few fields", data: "blob " + string(hashA) + "\n"},
		{name: "unknown kind", data: "commit " + string(hashA) + " x\n"},
		{name: "bad hash", data: "blob nothex x\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := UnmarshalTree([]byte(tc.data))
			assert.ErrorIs(t, err, ErrCorrupt)
		})
	}
}

func TestMarshalCommitRoot(t *testing.T) {
	c := &CommitObj{TreeHash: hashA, Message: "init"}
	assert.Equal(t, "tree "+string(hashA)+"\n\ninit\n", string(MarshalCommit(c)))

	got, err := UnmarshalCommit(MarshalCommit(c))
	require.NoError(t, err)
	assert.Equal(t, c, got)
	assert.False(t, got.HasParent())
}

func TestMarshalCommitWithParent(t *testing.T) {
	c := &CommitObj{TreeHash: hashA, Parent: hashB, Message: "second commit"}
	want := "tree " + string(hashA) + "\nparent " + string(hashB) + "\n\nsecond commit\n"
	assert.Equal(t, want, string(MarshalCommit(c)))

	got, err := UnmarshalCommit([]byte(want))
	require.NoError(t, err)
	assert.Equal(t, hashB, got.Parent)
	assert.Equal(t, "second commit", got.Message)
}

func TestUnmarshalCommitMultilineMessage(t *testing.T) {
	c := &CommitObj{TreeHash: hashA, Message: "subject\n\nbody line"}
	got, err := UnmarshalCommit(MarshalCommit(c))
	require.NoError(t, err)
	assert.Equal(t, "subject\n\nbody line", got.Message)
}

func TestUnmarshalCommitCorrupt(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "empty", data: ""},
		{name: "no tree line", data: "parent " + string(hashA) + "\n\nmsg\n"},
		{name: "bad tree hash", data: "tree xyz\n\nmsg\n"},
		{name: "missing separator", data: "tree " + string(hashA) + "\nmsg\n"},
		{name: "bad parent hash", data: "tree " + string(hashA) + "\nparent 123\n\nmsg\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := UnmarshalCommit([]byte(tc.data))
			assert.ErrorIs(t, err, ErrCorrupt)
		})
	}
}
