// Package lifecycle supervises the application-under-test for the
// duration of one test: init with a fresh instance, start with a merged
// configuration, shutdown before the handle is discarded.
package lifecycle

import (
	"context"
	"fmt"

	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"

	"github.com/arthur-debert/stagehand/pkg/errors"
	"github.com/arthur-debert/stagehand/pkg/logging"
	"github.com/arthur-debert/stagehand/pkg/paths"
	"github.com/arthur-debert/stagehand/pkg/types"
)

// State is the controller's position in the per-test lifecycle.
type State int

const (
	StateUninitialized State = iota
	StateInitialized
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitialized:
		return "initialized"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Config keys. The defaults point everything at the test's fixture base
// so nothing escapes the disposable tree.
const (
	KeyHTTPHost    = "http.host"
	KeyHTTPPort    = "http.port"
	KeyHTTPBaseURL = "http.baseurl"
	KeyLogLevel    = "log.level"
	KeyStoragePath = "storage.path"
	KeyAppRoot     = "app.root"
)

// PostConfig mutates the merged configuration just before the app starts.
// It is the last word: it runs after defaults and caller overrides.
type PostConfig func(conf *koanf.Koanf) error

// Controller owns the application-under-test handle for one test.
// It does not guard against out-of-order calls beyond the reset done in
// InitApp; starting without initializing fails at the point of use.
type Controller struct {
	factory types.AppFactory
	paths   *paths.Paths
	logger  zerolog.Logger

	app   types.App
	conf  *koanf.Koanf
	state State
}

// NewController returns a controller that builds app instances with
// factory, rooted at p's fixture application folder.
func NewController(p *paths.Paths, factory types.AppFactory) *Controller {
	return &Controller{
		factory: factory,
		paths:   p,
		logger:  logging.GetLogger("lifecycle"),
		state:   StateUninitialized,
	}
}

// State returns the controller's current lifecycle state.
func (c *Controller) State() State {
	return c.state
}

// InitApp discards any instance left over from a prior test and builds a
// fresh one rooted at the fixture application folder, merged with the
// caller's options.
func (c *Controller) InitApp(options map[string]interface{}) error {
	c.reset()

	opts := koanf.New(".")
	seed := map[string]interface{}{KeyAppRoot: c.paths.AppRoot()}
	if err := opts.Load(confmap.Provider(seed, "."), nil); err != nil {
		return errors.Wrap(err, errors.ErrConfigMerge, "loading init defaults")
	}
	if len(options) > 0 {
		if err := opts.Load(confmap.Provider(options, "."), nil); err != nil {
			return errors.Wrap(err, errors.ErrConfigMerge, "merging init options")
		}
	}

	app, err := c.factory(c.paths.AppRoot(), opts)
	if err != nil {
		return errors.Wrap(err, errors.ErrAppInit, "initializing application")
	}
	c.app = app
	c.state = StateInitialized
	c.logger.Debug().Str("root", c.paths.AppRoot()).Msg("Application initialized")
	return nil
}

// StartApp merges the default configuration with caller overrides,
// applies the post-config callback, and starts the application. The
// merged configuration stays queryable via Config and BaseURL.
func (c *Controller) StartApp(ctx context.Context, overrides map[string]interface{}, post PostConfig) error {
	if c.app == nil {
		return errors.New(errors.ErrAppStart, "no application handle; call InitApp first")
	}

	conf := koanf.New(".")
	defaults := map[string]interface{}{
		KeyHTTPHost:    "127.0.0.1",
		KeyHTTPPort:    0,
		KeyLogLevel:    "warn",
		KeyStoragePath: c.paths.StoragePath(),
		KeyAppRoot:     c.paths.AppRoot(),
	}
	if err := conf.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return errors.Wrap(err, errors.ErrConfigMerge, "loading default configuration")
	}
	if len(overrides) > 0 {
		if err := conf.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return errors.Wrap(err, errors.ErrConfigMerge, "merging configuration overrides")
		}
	}
	if post != nil {
		if err := post(conf); err != nil {
			return errors.Wrap(err, errors.ErrConfigMerge, "applying post-config callback")
		}
	}

	if err := c.app.Start(ctx, conf); err != nil {
		return errors.Wrap(err, errors.ErrAppStart, "starting application")
	}
	c.conf = conf
	c.state = StateRunning
	c.logger.Debug().Str("baseurl", c.BaseURL()).Msg("Application started")
	return nil
}

// ShutdownApp stops the application. A controller without a handle is a
// no-op, so calling it after a completed shutdown is safe.
func (c *Controller) ShutdownApp(ctx context.Context) error {
	if c.app == nil {
		return nil
	}
	if err := c.app.Shutdown(ctx); err != nil {
		return errors.Wrap(err, errors.ErrAppShutdown, "shutting down application")
	}
	c.app = nil
	c.state = StateStopped
	c.logger.Debug().Msg("Application stopped")
	return nil
}

// Config returns the running configuration, or nil before StartApp.
func (c *Controller) Config() *koanf.Koanf {
	return c.conf
}

// BaseURL returns the running application's base URL, built from the
// merged configuration unless an explicit http.baseurl was set.
func (c *Controller) BaseURL() string {
	if c.conf == nil {
		return ""
	}
	if base := c.conf.String(KeyHTTPBaseURL); base != "" {
		return base
	}
	return fmt.Sprintf("http://%s:%d", c.conf.String(KeyHTTPHost), c.conf.Int(KeyHTTPPort))
}

// reset drops the previous instance state so the next InitApp starts
// from a clean slate. The explicit rebuild replaces what used to be a
// process-wide singleton reset in older harnesses.
func (c *Controller) reset() {
	c.app = nil
	c.conf = nil
	c.state = StateUninitialized
}
