package object

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

// DefaultCacheSize is the number of decoded objects kept in memory by a
// Store created with NewStore.
const DefaultCacheSize = 256

// Options configures a Store.
type Options struct {
	// Compression selects the at-rest encoding for newly written objects.
	// Reads accept either encoding.
	Compression Compression
	// CacheSize bounds the in-memory object cache. Zero or negative disables it.
	CacheSize int
	// Logger receives debug events. Nil means no logging.
	Logger *zap.Logger
}

type cachedObject struct {
	objType ObjectType
	data    []byte
}

// Store is a content-addressed object store. Every object lives in a single
// file objects/<hash> under the store root.
type Store struct {
	root        string
	compression Compression
	cache       *lru.Cache[Hash, cachedObject]
	log         *zap.Logger
}

// NewStore creates an uncompressed Store rooted at the given directory with
// the default cache size. The objects/ subdirectory is created lazily on
// first write.
func NewStore(root string) *Store {
	// lru.New only fails for a non-positive size.
	cache, _ := lru.New[Hash, cachedObject](DefaultCacheSize)
	return &Store{
		root:        root,
		compression: CompressionNone,
		cache:       cache,
		log:         zap.NewNop(),
	}
}

// NewStoreWithOptions creates a Store rooted at root using opts.
func NewStoreWithOptions(root string, opts Options) (*Store, error) {
	compression := opts.Compression
	if compression == "" {
		compression = CompressionNone
	}
	if compression != CompressionNone && compression != CompressionZstd {
		return nil, fmt.Errorf("new store: unknown compression %q", compression)
	}

	s := &Store{
		root:        root,
		compression: compression,
		log:         opts.Logger,
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if opts.CacheSize > 0 {
		cache, err := lru.New[Hash, cachedObject](opts.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("new store: cache: %w", err)
		}
		s.cache = cache
	}
	return s, nil
}

// Root returns the directory the store was opened on.
func (s *Store) Root() string {
	return s.root
}

func (s *Store) objectsDir() string {
	return filepath.Join(s.root, "objects")
}

// objectPath returns the filesystem path for a given hash.
func (s *Store) objectPath(h Hash) string {
	return filepath.Join(s.objectsDir(), string(h))
}

// Has reports whether the store contains an object with the given hash.
func (s *Store) Has(h Hash) bool {
	if !IsHash(string(h)) {
		return false
	}
	if s.cache != nil && s.cache.Contains(h) {
		return true
	}
	_, err := os.Stat(s.objectPath(h))
	return err == nil
}

// Write stores an object and returns its content hash. The on-disk format
// is "type\0content" (optionally zstd-compressed). Writing an object that
// already exists is a no-op. New objects are written to a temp file and
// renamed into place, so a reader never observes a partial object.
func (s *Store) Write(objType ObjectType, data []byte) (Hash, error) {
	if !objType.Valid() {
		return "", fmt.Errorf("object write: %w: unknown type %q", ErrCorrupt, objType)
	}

	h := HashObject(objType, data)

	// Fast path: already exists.
	if s.Has(h) {
		return h, nil
	}

	raw := makeObjectEnvelope(objType, data)
	if s.compression == CompressionZstd {
		compressed, err := compressZstd(raw)
		if err != nil {
			return "", fmt.Errorf("object write: compress: %w", err)
		}
		raw = compressed
	}

	dir := s.objectsDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("object write mkdir: %w: %w", ErrIO, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return "", fmt.Errorf("object write tmpfile: %w: %w", ErrIO, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("object write: %w: %w", ErrIO, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("object write close: %w: %w", ErrIO, err)
	}

	if err := os.Rename(tmpName, s.objectPath(h)); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("object write rename: %w: %w", ErrIO, err)
	}

	s.log.Debug("object written",
		zap.String("hash", string(h)),
		zap.String("type", string(objType)),
		zap.Int("size", len(data)),
		zap.String("compression", string(s.compression)),
	)
	return h, nil
}

// Read retrieves an object by hash, returning its type and raw content.
func (s *Store) Read(h Hash) (ObjectType, []byte, error) {
	if !IsHash(string(h)) {
		return "", nil, fmt.Errorf("object read %q: %w: malformed hash", h, ErrNotFound)
	}
	if s.cache != nil {
		if obj, ok := s.cache.Get(h); ok {
			return obj.objType, bytes.Clone(obj.data), nil
		}
	}

	objType, content, err := s.readFile(h)
	if err != nil {
		return "", nil, err
	}

	if s.cache != nil {
		s.cache.Add(h, cachedObject{objType: objType, data: bytes.Clone(content)})
	}
	return objType, content, nil
}

// ReadTyped retrieves an object and checks that it has the expected kind.
func (s *Store) ReadTyped(h Hash, want ObjectType) ([]byte, error) {
	objType, data, err := s.Read(h)
	if err != nil {
		return nil, err
	}
	if objType != want {
		return nil, fmt.Errorf("object %s: %w: got %q, want %q", h, ErrTypeMismatch, objType, want)
	}
	return data, nil
}

// readFile reads and decodes an object file, bypassing the cache.
func (s *Store) readFile(h Hash) (ObjectType, []byte, error) {
	raw, err := os.ReadFile(s.objectPath(h))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil, fmt.Errorf("object read %s: %w", h, ErrNotFound)
		}
		return "", nil, fmt.Errorf("object read %s: %w: %w", h, ErrIO, err)
	}

	if isZstdFrame(raw) {
		raw, err = decompressZstd(raw)
		if err != nil {
			return "", nil, fmt.Errorf("object read %s: %w: decompress: %v", h, ErrCorrupt, err)
		}
	}

	objType, content, err := parseObjectEnvelope(raw)
	if err != nil {
		return "", nil, fmt.Errorf("object read %s: %w", h, err)
	}
	return objType, content, nil
}

func makeObjectEnvelope(objType ObjectType, data []byte) []byte {
	raw := make([]byte, 0, len(objType)+1+len(data))
	raw = append(raw, objType...)
	raw = append(raw, 0)
	return append(raw, data...)
}

// parseObjectEnvelope splits "type\0content" at the first NUL.
func parseObjectEnvelope(raw []byte) (ObjectType, []byte, error) {
	nulIdx := bytes.IndexByte(raw, 0)
	if nulIdx < 0 {
		return "", nil, fmt.Errorf("%w: invalid format (no NUL)", ErrCorrupt)
	}
	objType := ObjectType(raw[:nulIdx])
	if !objType.Valid() {
		return "", nil, fmt.Errorf("%w: unknown object type %q", ErrCorrupt, objType)
	}
	return objType, raw[nulIdx+1:], nil
}

// ---------------------------------------------------------------------------
// Typed convenience methods
// ---------------------------------------------------------------------------

// WriteBlob serializes and stores a Blob.
func (s *Store) WriteBlob(b *Blob) (Hash, error) {
	return s.Write(TypeBlob, MarshalBlob(b))
}

// ReadBlob reads and deserializes a Blob.
func (s *Store) ReadBlob(h Hash) (*Blob, error) {
	data, err := s.ReadTyped(h, TypeBlob)
	if err != nil {
		return nil, err
	}
	return UnmarshalBlob(data)
}

// WriteTree serializes and stores a TreeObj.
func (s *Store) WriteTree(tr *TreeObj) (Hash, error) {
	return s.Write(TypeTree, MarshalTree(tr))
}

// ReadTree reads and deserializes a TreeObj.
func (s *Store) ReadTree(h Hash) (*TreeObj, error) {
	data, err := s.ReadTyped(h, TypeTree)
	if err != nil {
		return nil, err
	}
	tr, err := UnmarshalTree(data)
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", h, err)
	}
	return tr, nil
}

// WriteCommit serializes and stores a CommitObj.
func (s *Store) WriteCommit(c *CommitObj) (Hash, error) {
	return s.Write(TypeCommit, MarshalCommit(c))
}

// ReadCommit reads and deserializes a CommitObj.
func (s *Store) ReadCommit(h Hash) (*CommitObj, error) {
	data, err := s.ReadTyped(h, TypeCommit)
	if err != nil {
		return nil, err
	}
	c, err := UnmarshalCommit(data)
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", h, err)
	}
	return c, nil
}
