package repo

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/odvcencio/dsgit/pkg/object"
)

// DefaultBranch is the branch HEAD points at in a new repository.
const DefaultBranch = "main"

// Init creates a new repository at path. It creates the .dsgit/ directory
// structure: HEAD, config.toml, objects/, refs/heads/ and refs/tags/.
// Returns an error if a .dsgit/ directory already exists.
func Init(path string, opts ...Option) (*Repo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("init: abs path: %w", err)
	}
	dsgitDir := filepath.Join(abs, DirName)

	if _, err := os.Stat(dsgitDir); err == nil {
		return nil, fmt.Errorf("init: repository already exists at %s", dsgitDir)
	}

	dirs := []string{
		filepath.Join(dsgitDir, "objects"),
		filepath.Join(dsgitDir, "refs", "heads"),
		filepath.Join(dsgitDir, "refs", "tags"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("init: mkdir %s: %w: %w", d, object.ErrIO, err)
		}
	}

	head := formatRef(Ref{Symbolic: true, Value: "refs/heads/" + DefaultBranch})
	if err := os.WriteFile(filepath.Join(dsgitDir, "HEAD"), []byte(head), 0o644); err != nil {
		return nil, fmt.Errorf("init: write HEAD: %w: %w", object.ErrIO, err)
	}
	if err := writeConfigFile(dsgitDir, DefaultConfig()); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}

	r, err := newRepo(abs, dsgitDir, opts)
	if err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}
	r.Logger.Debug("repository initialized")
	return r, nil
}

// Open searches upward from path for a .dsgit/ directory and opens the
// repository. Returns an error if no .dsgit/ directory is found.
func Open(path string, opts ...Option) (*Repo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("open: abs path: %w", err)
	}

	cur := abs
	for {
		dsgitDir := filepath.Join(cur, DirName)
		info, err := os.Stat(dsgitDir)
		if err == nil && info.IsDir() {
			r, err := newRepo(cur, dsgitDir, opts)
			if err != nil {
				return nil, fmt.Errorf("open: %w", err)
			}
			return r, nil
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return nil, fmt.Errorf("open: not a dsgit repository (or any parent up to /)")
		}
		cur = parent
	}
}
