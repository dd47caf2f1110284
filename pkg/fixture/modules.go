package fixture

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/stagehand/pkg/errors"
	"github.com/arthur-debert/stagehand/pkg/filesystem"
	"github.com/arthur-debert/stagehand/pkg/types"
)

// DefaultExtension is appended to a module name that carries none.
const DefaultExtension = ".js"

// ModuleSpec names one generated source file inside a fixture tree.
// A bare spec (no explicit content) gets generated content embedding the
// materializer's default label.
type ModuleSpec struct {
	Name       string
	Content    string
	HasContent bool
}

// Named returns a bare spec whose content is generated from the default label.
func Named(name string) ModuleSpec {
	return ModuleSpec{Name: name}
}

// WithContent returns a spec with explicit content.
func WithContent(name, content string) ModuleSpec {
	return ModuleSpec{Name: name, Content: content, HasContent: true}
}

// Specs expands a list of bare names into specs, preserving order.
func Specs(names ...string) []ModuleSpec {
	specs := make([]ModuleSpec, len(names))
	for i, name := range names {
		specs[i] = Named(name)
	}
	return specs
}

// GeneratedContent is the default module body: a single source-module
// assignment expression embedding the owning fixture's label.
func GeneratedContent(label string) string {
	return fmt.Sprintf("module.exports = %q;\n", label)
}

// modulePath resolves a spec name against the target folder, appending
// the default extension when the name carries none, and rejects names
// that would escape the target root. Precondition check only; nothing is
// written here.
func modulePath(targetFolder, name string) (string, error) {
	if name == "" {
		return "", errors.New(errors.ErrInvalidInput, "module name must not be empty")
	}
	fileName := name
	if filepath.Ext(fileName) == "" {
		fileName += DefaultExtension
	}
	full := filepath.Join(targetFolder, fileName)
	root := filepath.Clean(targetFolder)
	if full != root && !strings.HasPrefix(full, root+string(filepath.Separator)) {
		return "", errors.Newf(errors.ErrPathEscape, "module name %q resolves outside %s", name, targetFolder).
			WithDetail("name", name).
			WithDetail("target", targetFolder)
	}
	return full, nil
}

// CreateModules materializes specs under targetFolder, one entry at a
// time. Two specs sharing an ancestor directory must not race its
// creation, so entries are processed strictly sequentially and never
// overlap; the loop is the ordering guarantee, not an optimization
// opportunity.
func CreateModules(fsys types.FS, targetFolder string, specs []ModuleSpec, defaultContent string) error {
	for _, spec := range specs {
		path, err := modulePath(targetFolder, spec.Name)
		if err != nil {
			return err
		}
		content := spec.Content
		if !spec.HasContent {
			content = GeneratedContent(defaultContent)
		}
		// WriteFile ensures every intermediate directory exists before
		// writing, and CreateFolder is idempotent, so repeated ancestors
		// across specs are fine.
		if err := filesystem.WriteFile(fsys, path, content); err != nil {
			return err
		}
	}
	return nil
}
