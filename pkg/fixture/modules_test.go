package fixture

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/stagehand/pkg/errors"
	"github.com/arthur-debert/stagehand/pkg/filesystem"
)

func TestCreateModulesBareNames(t *testing.T) {
	fsys := filesystem.NewMemory()
	target := "/target"

	require.NoError(t, CreateModules(fsys, target, Specs("foo", "bar"), "app"))

	for _, name := range []string{"foo.js", "bar.js"} {
		got, err := filesystem.ReadFile(fsys, filepath.Join(target, name))
		require.NoError(t, err)
		assert.Contains(t, got, `"app"`)
	}
}

func TestCreateModulesExplicitContent(t *testing.T) {
	fsys := filesystem.NewMemory()
	target := "/target"

	specs := []ModuleSpec{
		WithContent("models/user", "module.exports = { id: 1 };\n"),
		Named("models/profile"),
	}
	require.NoError(t, CreateModules(fsys, target, specs, "shop"))

	got, err := filesystem.ReadFile(fsys, filepath.Join(target, "models", "user.js"))
	require.NoError(t, err)
	assert.Equal(t, "module.exports = { id: 1 };\n", got)

	got, err = filesystem.ReadFile(fsys, filepath.Join(target, "models", "profile.js"))
	require.NoError(t, err)
	assert.Equal(t, GeneratedContent("shop"), got)
}

func TestCreateModulesSharedParent(t *testing.T) {
	// Two specs sharing an ancestor directory must both land, whether or
	// not the ancestor existed beforehand.
	for _, preexisting := range []bool{false, true} {
		fsys := filesystem.NewMemory()
		target := "/target"
		if preexisting {
			require.NoError(t, filesystem.CreateFolder(fsys, filepath.Join(target, "a")))
		}

		specs := []ModuleSpec{
			WithContent("a/x", "1"),
			WithContent("a/y", "2"),
		}
		require.NoError(t, CreateModules(fsys, target, specs, "app"))

		got, err := filesystem.ReadFile(fsys, filepath.Join(target, "a", "x.js"))
		require.NoError(t, err)
		assert.Equal(t, "1", got)

		got, err = filesystem.ReadFile(fsys, filepath.Join(target, "a", "y.js"))
		require.NoError(t, err)
		assert.Equal(t, "2", got)
	}
}

func TestCreateModulesKeepsExplicitExtension(t *testing.T) {
	fsys := filesystem.NewMemory()
	target := "/target"

	require.NoError(t, CreateModules(fsys, target, Specs("styles.css"), "app"))

	assert.True(t, filesystem.Exists(fsys, filepath.Join(target, "styles.css")))
	assert.False(t, filesystem.Exists(fsys, filepath.Join(target, "styles.css.js")))
}

func TestCreateModulesRejectsTraversal(t *testing.T) {
	fsys := filesystem.NewMemory()
	target := "/target"

	err := CreateModules(fsys, target, Specs("../escape"), "app")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPathEscape))

	// Precondition failure, so nothing was written.
	assert.False(t, filesystem.Exists(fsys, "/escape.js"))
	assert.False(t, filesystem.Exists(fsys, target))
}

func TestCreateModulesRejectsEmptyName(t *testing.T) {
	fsys := filesystem.NewMemory()

	err := CreateModules(fsys, "/target", []ModuleSpec{Named("")}, "app")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}
