package object

// Hash is a 40-character hex-encoded SHA-1 digest of an object envelope.
type Hash string

// HashLen is the length of a hex-encoded Hash.
const HashLen = 40

// ObjectType identifies the kind of object stored.
type ObjectType string

const (
	TypeBlob   ObjectType = "blob"
	TypeTree   ObjectType = "tree"
	TypeCommit ObjectType = "commit"
)

// Valid reports whether t is one of the known object kinds.
func (t ObjectType) Valid() bool {
	switch t {
	case TypeBlob, TypeTree, TypeCommit:
		return true
	}
	return false
}

// Blob holds raw file data.
type Blob struct {
	Data []byte
}

// TreeEntry is one entry in a tree object. Path is relative to the
// snapshot root and uses forward slashes, e.g. "docs/readme.txt".
type TreeEntry struct {
	Path string
	Type ObjectType // TypeBlob or TypeTree
	Hash Hash
}

// IsDir reports whether the entry references a subtree.
func (e TreeEntry) IsDir() bool {
	return e.Type == TypeTree
}

// TreeObj holds a list of tree entries, sorted by Path once serialized.
type TreeObj struct {
	Entries []TreeEntry
}

// CommitObj represents a commit pointing to a tree. History is linear, so a
// commit has at most one parent; the root commit has an empty Parent.
type CommitObj struct {
	TreeHash Hash
	Parent   Hash
	Message  string
}

// HasParent reports whether c is not a root commit.
func (c *CommitObj) HasParent() bool {
	return c.Parent != ""
}
