package object

import "errors"

var (
	// ErrNotFound reports that no object (or ref) exists under the requested name.
	ErrNotFound = errors.New("not found")
	// ErrTypeMismatch reports that a stored object has a different kind than requested.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrCorrupt reports a malformed object envelope, tree, commit or ref.
	ErrCorrupt = errors.New("corrupt")
	// ErrIO wraps filesystem failures. The underlying error is wrapped
	// alongside it so os-level checks (fs.ErrPermission etc.) still work.
	ErrIO = errors.New("i/o failure")
)
