package repo

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/denormal/go-gitignore"

	"github.com/odvcencio/dsgit/pkg/object"
)

// IgnoreFile is the per-repository ignore list read from the working
// directory root.
const IgnoreFile = ".dsgitignore"

// reservedNames are always ignored, whatever the configured patterns.
var reservedNames = []string{DirName, IgnoreFile, ".git", ".gitignore", ".github"}

// IgnoreChecker decides whether a working-directory path is left out of
// snapshots and spared by restores.
//
// A path is ignored when it contains any reserved name or any pattern as a
// plain substring, so "log" ignores "catalog.txt" as well as "log/". When
// glob matching is enabled the patterns are also compiled as gitignore
// globs and a glob match ignores the path too; it never un-ignores one.
//
// A nil *IgnoreChecker ignores the reserved names only.
type IgnoreChecker struct {
	patterns []string
	glob     gitignore.GitIgnore
}

// NewIgnoreChecker builds a checker from patterns. Blank patterns are
// dropped since the empty substring would match every path.
func NewIgnoreChecker(patterns []string, glob bool) *IgnoreChecker {
	ic := &IgnoreChecker{}
	for _, p := range patterns {
		if strings.TrimSpace(p) == "" {
			continue
		}
		ic.patterns = append(ic.patterns, p)
	}
	if glob && len(ic.patterns) > 0 {
		ic.glob = gitignore.New(
			strings.NewReader(strings.Join(ic.patterns, "\n")),
			"",
			func(gitignore.Error) bool { return true },
		)
	}
	return ic
}

// Patterns returns the configured patterns, without the reserved names.
func (ic *IgnoreChecker) Patterns() []string {
	if ic == nil {
		return nil
	}
	return append([]string(nil), ic.patterns...)
}

// IsIgnored reports whether the root-relative, slash-separated path should
// be ignored. isDir only affects glob patterns ending in "/".
func (ic *IgnoreChecker) IsIgnored(path string, isDir bool) bool {
	path = filepath.ToSlash(path)
	for _, name := range reservedNames {
		if strings.Contains(path, name) {
			return true
		}
	}
	if ic == nil {
		return false
	}
	for _, p := range ic.patterns {
		if strings.Contains(path, p) {
			return true
		}
	}
	if ic.glob != nil {
		if m := ic.glob.Relative(path, isDir); m != nil && m.Ignore() {
			return true
		}
	}
	return false
}

// ReadIgnoreFile returns the patterns listed in root/.dsgitignore, one per
// line. Blank lines and lines starting with "#" are skipped. A missing file
// yields no patterns.
func ReadIgnoreFile(root string) ([]string, error) {
	f, err := os.Open(filepath.Join(root, IgnoreFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read ignore file: %w: %w", object.ErrIO, err)
	}
	defer f.Close()

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read ignore file: %w: %w", object.ErrIO, err)
	}
	return patterns, nil
}

// IgnoreChecker combines the config's ignore patterns with the repository's
// .dsgitignore file.
func (r *Repo) IgnoreChecker() (*IgnoreChecker, error) {
	filePatterns, err := ReadIgnoreFile(r.RootDir)
	if err != nil {
		return nil, err
	}
	cfg := r.Config
	if cfg == nil {
		cfg = DefaultConfig()
	}
	patterns := append(append([]string(nil), cfg.Ignore.Patterns...), filePatterns...)
	return NewIgnoreChecker(patterns, cfg.Ignore.Glob), nil
}
