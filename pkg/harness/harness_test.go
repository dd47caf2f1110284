package harness

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/stagehand/pkg/filesystem"
	"github.com/arthur-debert/stagehand/pkg/fixture"
	"github.com/arthur-debert/stagehand/pkg/future"
	"github.com/arthur-debert/stagehand/pkg/lifecycle"
)

// recordingSandbox notes whether and when Restore ran.
type recordingSandbox struct {
	restored bool
}

func (r *recordingSandbox) Restore() { r.restored = true }

func TestHarnessBuildsAndTearsDownFixtures(t *testing.T) {
	var appRoot, publicRoot, pluginRoot string

	t.Run("test body", func(t *testing.T) {
		h := New(t)
		require.NoError(t, h.Fixtures.CreateTestFolders())
		require.NoError(t, h.Fixtures.CreatePluginModules("blog_TESTPLUGIN", fixture.Specs("models/post")))

		appRoot = h.Paths.AppRoot()
		publicRoot = h.Paths.PublicRoot()
		pluginRoot = h.Paths.PluginRoot("blog_TESTPLUGIN")

		assert.True(t, filesystem.Exists(h.FS, appRoot))
		assert.True(t, filesystem.Exists(h.FS, publicRoot))
		assert.True(t, filesystem.Exists(h.FS, pluginRoot))
	})

	// Cleanup has run: every fixture is gone.
	fsys := filesystem.NewOS()
	assert.False(t, filesystem.Exists(fsys, appRoot))
	assert.False(t, filesystem.Exists(fsys, publicRoot))
	assert.False(t, filesystem.Exists(fsys, pluginRoot))
}

func TestSandboxRestoredUnconditionally(t *testing.T) {
	sb := &recordingSandbox{}

	t.Run("test body", func(t *testing.T) {
		h := New(t, WithSandbox(sb))
		assert.Same(t, sb, h.Sandbox.(*recordingSandbox))
		assert.False(t, sb.restored, "restore must not run during the test")
	})

	assert.True(t, sb.restored, "restore runs after the test regardless of outcome")
}

func TestToolsBoundAtConstruction(t *testing.T) {
	checksum := func(s string) int { return len(s) }

	h := New(t, WithTool("checksum", checksum))

	got, ok := h.Tool("checksum")
	require.True(t, ok)
	fn, ok := got.(func(string) int)
	require.True(t, ok)
	assert.Equal(t, 5, fn("hello"))

	_, ok = h.Tool("missing")
	assert.False(t, ok)
}

func TestHarnessWithBaseDir(t *testing.T) {
	base := t.TempDir()
	h := New(t, WithBaseDir(base))

	assert.Equal(t, filepath.Join(base, "app"), h.Paths.AppRoot())
}

func TestHarnessLifecycleEndToEnd(t *testing.T) {
	h := New(t)
	require.NoError(t, h.Fixtures.CreateTestFolders())
	require.NoError(t, h.App.InitApp(nil))
	require.NoError(t, h.App.StartApp(context.Background(), nil, nil))

	// A test body expressed as an async sequence, bridged to a single
	// settled outcome.
	f := future.Go(func() (int, error) {
		resp, err := h.App.Request(context.Background(), "health", lifecycle.RequestOptions{})
		if err != nil {
			return 0, err
		}
		defer resp.Body.Close()
		return resp.StatusCode, nil
	})

	status, err := f.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 200, status)
}
