// Package harness assembles the per-test environment: a fixture builder
// over a fresh base directory, a lifecycle controller for the
// application-under-test, a mocking sandbox, and a capability map of
// caller-supplied tools. Construction is the beforeEach; teardown is
// registered on t.Cleanup and runs unconditionally.
package harness

import (
	"context"
	"testing"
	"time"

	"github.com/arthur-debert/stagehand/pkg/filesystem"
	"github.com/arthur-debert/stagehand/pkg/fixture"
	"github.com/arthur-debert/stagehand/pkg/lifecycle"
	"github.com/arthur-debert/stagehand/pkg/logging"
	"github.com/arthur-debert/stagehand/pkg/paths"
	"github.com/arthur-debert/stagehand/pkg/testapp"
	"github.com/arthur-debert/stagehand/pkg/types"
)

// shutdownTimeout bounds the app shutdown during teardown. Tests should
// not hang on a stuck server; the external runner owns real timeouts.
const shutdownTimeout = 10 * time.Second

// Harness is the per-test environment.
type Harness struct {
	FS       types.FS
	Paths    *paths.Paths
	Fixtures *fixture.Builder
	App      *lifecycle.Controller
	Sandbox  types.Sandbox

	t     testing.TB
	tools map[string]interface{}
}

// Option customizes harness construction. Tools and collaborators are
// bound here, at construction time, rather than injected into the test
// context dynamically.
type Option func(*config)

type config struct {
	baseDir  string
	fs       types.FS
	factory  types.AppFactory
	sandbox  types.Sandbox
	tools    map[string]interface{}
	pathOpts []paths.Option
}

// WithBaseDir roots the fixtures at dir instead of a fresh temp dir.
func WithBaseDir(dir string) Option {
	return func(c *config) { c.baseDir = dir }
}

// WithFS substitutes the filesystem implementation.
func WithFS(fsys types.FS) Option {
	return func(c *config) { c.fs = fsys }
}

// WithAppFactory substitutes the application-under-test factory.
func WithAppFactory(f types.AppFactory) Option {
	return func(c *config) { c.factory = f }
}

// WithSandbox installs the mocking sandbox restored after the test.
func WithSandbox(sb types.Sandbox) Option {
	return func(c *config) { c.sandbox = sb }
}

// WithTool binds a named capability into the harness's tool map.
func WithTool(name string, capability interface{}) Option {
	return func(c *config) { c.tools[name] = capability }
}

// WithPathsOptions forwards options to the path resolver, e.g. a shared
// plugins root.
func WithPathsOptions(opts ...paths.Option) Option {
	return func(c *config) { c.pathOpts = append(c.pathOpts, opts...) }
}

// New builds the per-test harness and registers its teardown. The
// sandbox is fresh per test and restored unconditionally, regardless of
// test outcome; the app is shut down and the fixture roots deleted.
func New(t testing.TB, opts ...Option) *Harness {
	t.Helper()

	cfg := &config{tools: make(map[string]interface{})}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.baseDir == "" {
		cfg.baseDir = t.TempDir()
	}
	if cfg.fs == nil {
		cfg.fs = filesystem.NewOS()
	}
	if cfg.factory == nil {
		cfg.factory = testapp.Factory
	}
	if cfg.sandbox == nil {
		cfg.sandbox = types.NoopSandbox{}
	}

	p, err := paths.New(cfg.baseDir, cfg.pathOpts...)
	if err != nil {
		t.Fatalf("harness: resolving paths: %v", err)
	}

	h := &Harness{
		FS:       cfg.fs,
		Paths:    p,
		Fixtures: fixture.NewBuilder(cfg.fs, p),
		App:      lifecycle.NewController(p, cfg.factory),
		Sandbox:  cfg.sandbox,
		t:        t,
		tools:    cfg.tools,
	}

	logger := logging.GetLogger("harness")
	t.Cleanup(func() {
		// Sandbox restore comes first so stubbed behavior cannot leak
		// into the teardown steps below.
		h.Sandbox.Restore()

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := h.App.ShutdownApp(ctx); err != nil {
			logger.Warn().Err(err).Msg("App shutdown failed during teardown")
		}
		if err := h.Fixtures.DeletePackageJSON(); err != nil {
			logger.Warn().Err(err).Msg("Package descriptor removal failed during teardown")
		}
		if err := h.Fixtures.DeleteTestFolders(); err != nil {
			logger.Warn().Err(err).Msg("Fixture teardown failed")
		}
	})

	return h
}

// Tool returns a capability bound at construction.
func (h *Harness) Tool(name string) (interface{}, bool) {
	capability, ok := h.tools[name]
	return capability, ok
}
