// Package types holds the interfaces shared across the harness packages.
// Implementations live in their own packages (pkg/filesystem, pkg/testapp)
// so that fixture and lifecycle code depends only on these contracts.
package types

import (
	"context"
	"io/fs"

	"github.com/knadh/koanf/v2"
)

// FS is the filesystem contract the harness operates over.
// The OS implementation is the default; an afero-backed one exists for
// fast in-memory tests.
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	Chmod(name string, mode fs.FileMode) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Removal
	Remove(name string) error
	RemoveAll(path string) error
}

// App is the application-under-test handle the lifecycle controller
// supervises. Start receives the fully merged configuration; the app may
// write resolved values back into it (e.g. the actual listen port when an
// ephemeral port was requested).
type App interface {
	Start(ctx context.Context, conf *koanf.Koanf) error
	Shutdown(ctx context.Context) error
}

// AppFactory builds a fresh App instance rooted at the test's fixture
// application folder. Called once per InitApp; the previous instance, if
// any, has been discarded by then.
type AppFactory func(root string, options *koanf.Koanf) (App, error)

// Sandbox is the per-test mocking sandbox. The harness creates one before
// each test and calls Restore unconditionally afterwards, regardless of
// test outcome.
type Sandbox interface {
	Restore()
}

// NoopSandbox is the default sandbox when a test does not stub anything.
type NoopSandbox struct{}

func (NoopSandbox) Restore() {}
