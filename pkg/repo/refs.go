package repo

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/odvcencio/dsgit/pkg/object"
)

var (
	// ErrNameResolution means a name matched no ref and is not an object id.
	ErrNameResolution = errors.New("name does not resolve to an object")
	// ErrCycleDetected means a chain of symbolic refs loops back on itself.
	ErrCycleDetected = errors.New("symbolic ref cycle detected")
	// ErrInvalidRefName means a ref name is empty or would leave .dsgit/.
	ErrInvalidRefName = errors.New("invalid ref name")
)

const (
	symbolicPrefix = "ref:"
	headRef        = "HEAD"
	headsPrefix    = "refs/heads/"
	tagsPrefix     = "refs/tags/"
)

// Ref is the content of one ref file. A symbolic ref's Value names another
// ref; a direct ref's Value is an object id.
type Ref struct {
	Name     string // concrete ref name the value was read from
	Symbolic bool
	Value    string
}

// Hash returns the object id of a direct ref.
func (ref *Ref) Hash() (object.Hash, error) {
	if ref.Symbolic {
		return "", fmt.Errorf("ref %q: symbolic ref has no object id", ref.Name)
	}
	h, err := object.ParseHash(ref.Value)
	if err != nil {
		return "", fmt.Errorf("ref %q: %w", ref.Name, err)
	}
	return h, nil
}

func formatRef(ref Ref) string {
	if ref.Symbolic {
		return symbolicPrefix + ref.Value
	}
	return ref.Value
}

func parseRef(name string, data []byte) *Ref {
	value := strings.TrimSpace(string(data))
	if target, ok := strings.CutPrefix(value, symbolicPrefix); ok {
		return &Ref{Name: name, Symbolic: true, Value: strings.TrimSpace(target)}
	}
	return &Ref{Name: name, Value: value}
}

// validateRefName rejects names that are empty, absolute, contain ".." or
// whitespace, or that point into the object directory.
func validateRefName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidRefName)
	case strings.HasPrefix(name, "/") || strings.HasSuffix(name, "/") || filepath.IsAbs(name):
		return fmt.Errorf("%w: %q", ErrInvalidRefName, name)
	case strings.Contains(name, ".."):
		return fmt.Errorf("%w: %q contains \"..\"", ErrInvalidRefName, name)
	case strings.ContainsAny(name, " \t\n\r\x00\\"):
		return fmt.Errorf("%w: %q contains whitespace or a reserved character", ErrInvalidRefName, name)
	case name == "objects" || strings.HasPrefix(name, "objects/") || name == ConfigFile:
		return fmt.Errorf("%w: %q is reserved", ErrInvalidRefName, name)
	}
	for _, seg := range strings.Split(name, "/") {
		if seg == "" || seg == "." || strings.HasPrefix(seg, ".tmp-") {
			return fmt.Errorf("%w: %q", ErrInvalidRefName, name)
		}
	}
	return nil
}

func (r *Repo) refPath(name string) (string, error) {
	if err := validateRefName(name); err != nil {
		return "", err
	}
	return filepath.Join(r.DsgitDir, filepath.FromSlash(name)), nil
}

// readRefFile reads a single ref without following it. An absent ref (or a
// directory in its place) is nil, nil.
func (r *Repo) readRefFile(name string) (*Ref, error) {
	p, err := r.refPath(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
			return nil, nil
		}
		if info, statErr := os.Stat(p); statErr == nil && info.IsDir() {
			return nil, nil
		}
		return nil, fmt.Errorf("read ref %q: %w: %w", name, object.ErrIO, err)
	}
	return parseRef(name, data), nil
}

// followRef walks the symbolic chain starting at name. It returns the last
// name visited and the ref stored there, which is nil when that name does
// not exist. Revisiting a name fails with ErrCycleDetected.
func (r *Repo) followRef(name string, deref bool) (string, *Ref, error) {
	visited := make(map[string]struct{})
	cur := name
	for {
		if _, seen := visited[cur]; seen {
			return "", nil, fmt.Errorf("resolve ref %q: %w at %q", name, ErrCycleDetected, cur)
		}
		visited[cur] = struct{}{}

		ref, err := r.readRefFile(cur)
		if err != nil {
			return "", nil, err
		}
		if ref == nil || !ref.Symbolic || !deref {
			return cur, ref, nil
		}
		if ref.Value == "" {
			return "", nil, fmt.Errorf("resolve ref %q: %w: empty symbolic target in %q", name, object.ErrCorrupt, cur)
		}
		cur = ref.Value
	}
}

// ReadRef reads the ref called name. With deref, symbolic refs are followed
// to the ref they finally point at. A ref that does not exist, or a symbolic
// chain that ends at a missing ref, yields nil, nil.
func (r *Repo) ReadRef(name string, deref bool) (*Ref, error) {
	_, ref, err := r.followRef(name, deref)
	if err != nil {
		return nil, err
	}
	return ref, nil
}

// WriteRef stores ref under name. With deref, the write goes to the last
// name of name's symbolic chain, so updating a symbolic HEAD moves the
// branch it points at even when that branch does not exist yet. Parent
// directories are created as needed.
func (r *Repo) WriteRef(name string, ref Ref, deref bool) error {
	if ref.Value == "" {
		return fmt.Errorf("update ref %q: empty value", name)
	}
	if ref.Symbolic {
		if err := validateRefName(ref.Value); err != nil {
			return fmt.Errorf("update ref %q: target: %w", name, err)
		}
	} else if !object.IsHash(ref.Value) {
		return fmt.Errorf("update ref %q: %w: %q is not an object id", name, object.ErrCorrupt, ref.Value)
	}

	target := name
	if deref {
		last, _, err := r.followRef(name, true)
		if err != nil {
			return fmt.Errorf("update ref %q: %w", name, err)
		}
		target = last
	}

	p, err := r.refPath(target)
	if err != nil {
		return fmt.Errorf("update ref %q: %w", name, err)
	}
	if err := writeFileAtomic(p, []byte(formatRef(ref))); err != nil {
		return fmt.Errorf("update ref %q: %w", target, err)
	}

	r.Logger.Debug("ref updated",
		zap.String("ref", target),
		zap.Bool("symbolic", ref.Symbolic),
		zap.String("value", ref.Value),
	)
	return nil
}

// Head reads HEAD without following it.
func (r *Repo) Head() (*Ref, error) {
	ref, err := r.ReadRef(headRef, false)
	if err != nil {
		return nil, fmt.Errorf("head: %w", err)
	}
	if ref == nil {
		return nil, fmt.Errorf("head: %w: HEAD file is missing", object.ErrNotFound)
	}
	return ref, nil
}

// HeadHash returns the commit HEAD points at, or "" when HEAD names a
// branch with no commits yet.
func (r *Repo) HeadHash() (object.Hash, error) {
	return r.resolveOptional(headRef)
}

// resolveOptional dereferences name and returns its object id, or "" when
// the ref or its target does not exist.
func (r *Repo) resolveOptional(name string) (object.Hash, error) {
	ref, err := r.ReadRef(name, true)
	if err != nil {
		return "", err
	}
	if ref == nil {
		return "", nil
	}
	return ref.Hash()
}

// ResolveName turns a user-supplied name into an object id. The candidates
// name, refs/<name>, refs/tags/<name> and refs/heads/<name> are tried in
// that order and the first one that dereferences to an object id wins.
// Failing that, a 40-character hex name is taken as an object id. "@" is
// shorthand for HEAD.
func (r *Repo) ResolveName(name string) (object.Hash, error) {
	name = strings.TrimSpace(name)
	if name == "@" {
		name = headRef
	}

	candidates := []string{name, "refs/" + name, tagsPrefix + name, headsPrefix + name}
	for _, c := range candidates {
		if validateRefName(c) != nil {
			continue
		}
		h, err := r.resolveOptional(c)
		if err != nil {
			return "", fmt.Errorf("resolve %q: %w", name, err)
		}
		if h != "" {
			return h, nil
		}
	}

	if object.IsHash(name) {
		return object.ParseHash(name)
	}
	return "", fmt.Errorf("resolve %q: %w", name, ErrNameResolution)
}

// ListRefs returns every ref whose full name starts with prefix, mapped to
// the object id it dereferences to. Names are full ref names such as
// "refs/heads/main". HEAD is included when prefix is empty. Refs that do not
// resolve to an object are left out.
func (r *Repo) ListRefs(prefix string) (map[string]object.Hash, error) {
	refs := make(map[string]object.Hash)

	root := filepath.Join(r.DsgitDir, "refs")
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".tmp-") {
			return nil
		}
		rel, err := filepath.Rel(r.DsgitDir, p)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		if !strings.HasPrefix(name, prefix) || validateRefName(name) != nil {
			return nil
		}
		h, err := r.resolveOptional(name)
		if err != nil {
			return err
		}
		if h != "" {
			refs[name] = h
		}
		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("list refs: %w", err)
	}

	if prefix == "" {
		h, err := r.HeadHash()
		if err != nil {
			return nil, fmt.Errorf("list refs: %w", err)
		}
		if h != "" {
			refs[headRef] = h
		}
	}
	return refs, nil
}

// sortedRefNames returns the keys of refs with prefix trimmed, sorted.
func sortedRefNames(refs map[string]object.Hash, prefix string) []string {
	names := make([]string, 0, len(refs))
	for full := range refs {
		names = append(names, strings.TrimPrefix(full, prefix))
	}
	sort.Strings(names)
	return names
}
