// Package paths provides centralized path handling for the harness.
// Every fixture location is derived from a single base directory so that
// one test's fixtures never collide with another's.
package paths

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/stagehand/pkg/errors"
)

// Environment variable names
const (
	// EnvPluginsRoot overrides the shared plugins directory
	EnvPluginsRoot = "STAGEHAND_PLUGINS_ROOT"
)

// Fixture layout names. These are bit-relevant for tools that walk the
// generated trees and are not user-configurable.
const (
	// AppDirName is the application source root inside the base directory
	AppDirName = "app"

	// PublicDirName is the public asset root inside the base directory
	PublicDirName = "public"

	// SrcDirName is the source sub-tree of a plugin package
	SrcDirName = "src"

	// PluginsDirName is the default shared plugins directory name
	PluginsDirName = "node_modules"

	// PackageJSONName is the package descriptor file name
	PackageJSONName = "package.json"

	// EntryModuleName is the stub entry module of a plugin package
	EntryModuleName = "index.js"

	// MarkerFileName is the non-empty file written into otherwise-empty
	// fixture roots so recursive walkers that skip empty directories
	// still traverse them
	MarkerFileName = "README"

	// StorageFileName is the disposable test database file
	StorageFileName = "storage.db"
)

// Paths resolves every fixture location from a base directory.
type Paths struct {
	base        string
	pluginsRoot string
}

// Option customizes path resolution.
type Option func(*Paths)

// WithPluginsRoot overrides the shared plugins directory.
func WithPluginsRoot(root string) Option {
	return func(p *Paths) {
		p.pluginsRoot = root
	}
}

// New creates a Paths rooted at baseDir. The plugins root defaults to
// <base>/node_modules, overridable by option or STAGEHAND_PLUGINS_ROOT.
func New(baseDir string, opts ...Option) (*Paths, error) {
	if baseDir == "" {
		return nil, errors.New(errors.ErrInvalidInput, "base directory must not be empty")
	}
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "resolving base directory %s", baseDir)
	}

	p := &Paths{base: abs}
	if env := os.Getenv(EnvPluginsRoot); env != "" {
		p.pluginsRoot = env
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.pluginsRoot == "" {
		p.pluginsRoot = filepath.Join(abs, PluginsDirName)
	}
	return p, nil
}

// Base returns the base directory every fixture lives under.
func (p *Paths) Base() string {
	return p.base
}

// AppRoot returns the application source root.
func (p *Paths) AppRoot() string {
	return filepath.Join(p.base, AppDirName)
}

// PublicRoot returns the public asset root.
func (p *Paths) PublicRoot() string {
	return filepath.Join(p.base, PublicDirName)
}

// PluginsRoot returns the shared plugins directory.
func (p *Paths) PluginsRoot() string {
	return p.pluginsRoot
}

// PluginRoot returns the root directory of a named plugin package.
func (p *Paths) PluginRoot(name string) string {
	return filepath.Join(p.pluginsRoot, name)
}

// PackageJSONPath returns the package descriptor path, one level above
// the application root.
func (p *Paths) PackageJSONPath() string {
	return filepath.Join(p.base, PackageJSONName)
}

// StoragePath returns the disposable test database location.
func (p *Paths) StoragePath() string {
	return filepath.Join(p.base, StorageFileName)
}
