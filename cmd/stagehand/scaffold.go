package main

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/stagehand/pkg/errors"
	"github.com/arthur-debert/stagehand/pkg/filesystem"
	"github.com/arthur-debert/stagehand/pkg/fixture"
	"github.com/arthur-debert/stagehand/pkg/paths"
)

// Manifest describes a fixture layout to scaffold, decoded from TOML.
type Manifest struct {
	// Base is the directory the fixture roots are created under.
	Base string `toml:"base"`

	// PluginsRoot overrides the shared plugins directory.
	PluginsRoot string `toml:"plugins_root"`

	// PackageJSON, when non-empty, is written one level above the app root.
	PackageJSON string `toml:"package_json"`

	// AppModules are bare module names materialized into the app root.
	AppModules []string `toml:"app_modules"`

	// Plugins are plugin packages to create; names must carry the
	// _TESTPLUGIN suffix.
	Plugins []PluginManifest `toml:"plugin"`
}

// PluginManifest describes one plugin package in the manifest.
type PluginManifest struct {
	Name string `toml:"name"`

	// Modules are bare names; ModuleContents map names to explicit content.
	Modules        []string          `toml:"modules"`
	ModuleContents map[string]string `toml:"module_contents"`
}

var scaffoldCmd = &cobra.Command{
	Use:   "scaffold <manifest.toml>",
	Short: "Build fixture trees from a TOML manifest",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manifest, err := loadManifest(args[0])
		if err != nil {
			return err
		}
		return scaffold(manifest)
	},
}

func loadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifestLoad, "reading manifest %s", path)
	}
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifestParse, "parsing manifest %s", path)
	}
	if m.Base == "" {
		return nil, errors.New(errors.ErrManifestParse, "manifest must set base")
	}
	return &m, nil
}

func scaffold(m *Manifest) error {
	var pathOpts []paths.Option
	if m.PluginsRoot != "" {
		pathOpts = append(pathOpts, paths.WithPluginsRoot(m.PluginsRoot))
	}
	p, err := paths.New(m.Base, pathOpts...)
	if err != nil {
		return err
	}

	builder := fixture.NewBuilder(filesystem.NewOS(), p)
	if err := builder.CreateTestFolders(); err != nil {
		return err
	}
	if m.PackageJSON != "" {
		if err := builder.WritePackageJSON(m.PackageJSON); err != nil {
			return err
		}
	}
	if len(m.AppModules) > 0 {
		if err := builder.CreateAppModules(fixture.Specs(m.AppModules...)); err != nil {
			return err
		}
	}
	for _, plugin := range m.Plugins {
		specs := fixture.Specs(plugin.Modules...)
		for name, content := range plugin.ModuleContents {
			specs = append(specs, fixture.WithContent(name, content))
		}
		if err := builder.CreatePluginModules(plugin.Name, specs); err != nil {
			return err
		}
	}

	fmt.Printf("scaffolded fixtures under %s\n", p.Base())
	return nil
}
