package repo

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/odvcencio/dsgit/pkg/object"
)

// DirName is the name of the repository metadata directory.
const DirName = ".dsgit"

// Repo represents an opened dsgit repository.
type Repo struct {
	RootDir  string        // working directory root
	DsgitDir string        // .dsgit/ directory
	Store    *object.Store // content-addressed object store
	Config   *Config       // settings loaded from .dsgit/config.toml
	Logger   *zap.Logger
}

// Option customizes how a repository is created or opened.
type Option func(*options)

type options struct {
	logger    *zap.Logger
	newLogger func(*Config) (*zap.Logger, error)
}

// WithLogger routes repository and object store debug events to l.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithLoggerFunc builds the logger from the repository config once it has
// been loaded, so settings like log.level can shape it. It takes precedence
// over WithLogger.
func WithLoggerFunc(fn func(cfg *Config) (*zap.Logger, error)) Option {
	return func(o *options) {
		o.newLogger = fn
	}
}

// newRepo loads config and opens the object store for an existing
// .dsgit directory.
func newRepo(root, dsgitDir string, opts []Option) (*Repo, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}

	r := &Repo{
		RootDir:  root,
		DsgitDir: dsgitDir,
		Logger:   o.logger,
	}
	cfg, err := r.ReadConfig()
	if err != nil {
		return nil, err
	}
	r.Config = cfg

	if o.newLogger != nil {
		logger, err := o.newLogger(cfg)
		if err != nil {
			return nil, fmt.Errorf("logger: %w", err)
		}
		if logger != nil {
			o.logger = logger
			r.Logger = logger
		}
	}

	compression, err := object.ParseCompression(cfg.Core.Compression)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	store, err := object.NewStoreWithOptions(dsgitDir, object.Options{
		Compression: compression,
		CacheSize:   cfg.Core.CacheSize,
		Logger:      o.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	r.Store = store
	return r, nil
}
