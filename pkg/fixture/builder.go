// Package fixture builds and tears down the disposable directory trees a
// test runs against: the application source root, the public asset root,
// and marker-suffixed plugin packages inside a shared plugins directory.
package fixture

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/stagehand/pkg/errors"
	"github.com/arthur-debert/stagehand/pkg/filesystem"
	"github.com/arthur-debert/stagehand/pkg/logging"
	"github.com/arthur-debert/stagehand/pkg/paths"
	"github.com/arthur-debert/stagehand/pkg/types"
)

const (
	// MarkerSuffix is the required suffix for any plugin fixture name.
	// It doubles as the discovery key for the teardown sweep: the sweep
	// deletes every plugins-directory child whose name ends in it.
	MarkerSuffix = "_TESTPLUGIN"

	// AppLabel is the default content label for application modules.
	AppLabel = "app"

	// PluginVersion is the fixed version written into plugin descriptors.
	PluginVersion = "0.0.1"

	// markerContent keeps the README marker non-empty so recursive
	// walkers that cannot traverse truly empty directories still succeed.
	markerContent = "test fixture\n"

	// entryStub is the plugin package's stub entry module.
	entryStub = "module.exports = {};\n"
)

// Builder creates and destroys fixture trees over a types.FS.
type Builder struct {
	fs     types.FS
	paths  *paths.Paths
	logger zerolog.Logger

	// created tracks plugin names built by this builder. The global
	// sweep stays marker-driven (see DeleteTestFolders); this list only
	// serves logging and the builder's own bookkeeping.
	created []string
}

// NewBuilder returns a Builder rooted at p.
func NewBuilder(fsys types.FS, p *paths.Paths) *Builder {
	return &Builder{
		fs:     fsys,
		paths:  p,
		logger: logging.GetLogger("fixture"),
	}
}

// Paths returns the path resolver the builder was built with.
func (b *Builder) Paths() *paths.Paths {
	return b.paths
}

// CreateTestFolders creates the application source root and the public
// asset root, and writes the README marker into the application root.
func (b *Builder) CreateTestFolders() error {
	if err := filesystem.CreateFolder(b.fs, b.paths.AppRoot()); err != nil {
		return err
	}
	if err := filesystem.CreateFolder(b.fs, b.paths.PublicRoot()); err != nil {
		return err
	}
	marker := filepath.Join(b.paths.AppRoot(), paths.MarkerFileName)
	if err := filesystem.WriteFile(b.fs, marker, markerContent); err != nil {
		return err
	}
	b.logger.Debug().
		Str("app", b.paths.AppRoot()).
		Str("public", b.paths.PublicRoot()).
		Msg("Created fixture roots")
	return nil
}

// DeleteTestFolders removes the public root, then the application root,
// then sweeps the plugins directory for marker-suffixed children and
// deletes each one. The sweep is the only plugin discovery mechanism;
// a plugin left behind under a non-matching name leaks across runs.
func (b *Builder) DeleteTestFolders() error {
	if err := filesystem.DeleteFolder(b.fs, b.paths.PublicRoot()); err != nil {
		return err
	}
	if err := filesystem.DeleteFolder(b.fs, b.paths.AppRoot()); err != nil {
		return err
	}
	swept, err := SweepPlugins(b.fs, b.paths.PluginsRoot())
	if err != nil {
		return err
	}
	b.created = nil
	b.logger.Debug().Strs("swept", swept).Msg("Deleted fixture roots")
	return nil
}

// SweepPlugins scans the immediate children of pluginsRoot and deletes
// every directory whose name ends in MarkerSuffix. An absent plugins
// root is not an error. Returns the names it deleted.
func SweepPlugins(fsys types.FS, pluginsRoot string) ([]string, error) {
	entries, err := fsys.ReadDir(pluginsRoot)
	if err != nil {
		if !filesystem.Exists(fsys, pluginsRoot) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrDirRead, "scanning plugins directory %s", pluginsRoot)
	}
	var swept []string
	for _, entry := range entries {
		if !strings.HasSuffix(entry.Name(), MarkerSuffix) {
			continue
		}
		if err := filesystem.DeleteFolder(fsys, filepath.Join(pluginsRoot, entry.Name())); err != nil {
			return swept, err
		}
		swept = append(swept, entry.Name())
	}
	return swept, nil
}

// WritePackageJSON writes the package descriptor one level above the
// application root.
func (b *Builder) WritePackageJSON(contents string) error {
	return filesystem.WriteFile(b.fs, b.paths.PackageJSONPath(), contents)
}

// DeletePackageJSON removes the package descriptor. Missing is fine.
func (b *Builder) DeletePackageJSON() error {
	return filesystem.DeleteFile(b.fs, b.paths.PackageJSONPath())
}

// CreatePluginModules builds a plugin package fixture: root, public and
// src sub-folders, a package descriptor, a stub entry module, the README
// marker inside src, and the given module specs materialized into src
// with the plugin name as the default content label.
//
// The marker-suffix invariant is validated before any filesystem
// mutation; a violating name fails fast and leaves no trace.
func (b *Builder) CreatePluginModules(name string, specs []ModuleSpec) error {
	if !strings.HasSuffix(name, MarkerSuffix) {
		return errors.Newf(errors.ErrPluginName, "plugin name %q must end in %s", name, MarkerSuffix).
			WithDetail("name", name)
	}

	root := b.paths.PluginRoot(name)
	srcDir := filepath.Join(root, paths.SrcDirName)

	if err := filesystem.CreateFolder(b.fs, root); err != nil {
		return err
	}
	if err := filesystem.CreateFolder(b.fs, filepath.Join(root, paths.PublicDirName)); err != nil {
		return err
	}
	if err := filesystem.CreateFolder(b.fs, srcDir); err != nil {
		return err
	}

	descriptor, err := PackageDescriptor(name)
	if err != nil {
		return err
	}
	if err := filesystem.WriteFile(b.fs, filepath.Join(root, paths.PackageJSONName), descriptor); err != nil {
		return err
	}
	if err := filesystem.WriteFile(b.fs, filepath.Join(root, paths.EntryModuleName), entryStub); err != nil {
		return err
	}
	if err := filesystem.WriteFile(b.fs, filepath.Join(srcDir, paths.MarkerFileName), markerContent); err != nil {
		return err
	}

	if err := CreateModules(b.fs, srcDir, specs, name); err != nil {
		return err
	}

	b.created = append(b.created, name)
	b.logger.Debug().Str("plugin", name).Int("modules", len(specs)).Msg("Created plugin fixture")
	return nil
}

// CreateAppModules materializes specs into the application source root
// with the fixed application label as default content.
func (b *Builder) CreateAppModules(specs []ModuleSpec) error {
	return CreateModules(b.fs, b.paths.AppRoot(), specs, AppLabel)
}

// CreatedPlugins returns the plugin names this builder has created and
// not yet torn down.
func (b *Builder) CreatedPlugins() []string {
	out := make([]string, len(b.created))
	copy(out, b.created)
	return out
}

// PackageDescriptor renders the minimal plugin package descriptor.
func PackageDescriptor(name string) (string, error) {
	data, err := json.Marshal(map[string]string{
		"name":    name,
		"version": PluginVersion,
	})
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "encoding package descriptor")
	}
	return string(data) + "\n", nil
}
