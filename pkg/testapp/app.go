// Package testapp is a small HTTP application used as the default
// application-under-test. It is intentionally boring: it serves a health
// endpoint and a listing of the fixture modules it was rooted at, and it
// keeps a boot counter in a Storm database at the configured storage
// path so storage wiring is observable from tests.
package testapp

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"path/filepath"
	"sort"
	"strings"

	"github.com/asdine/storm/v3"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"

	"github.com/arthur-debert/stagehand/pkg/lifecycle"
	"github.com/arthur-debert/stagehand/pkg/logging"
	"github.com/arthur-debert/stagehand/pkg/types"
)

const (
	metaBucket = "meta"
	bootsKey   = "boots"
)

// App implements types.App over net/http with Storm-backed storage.
type App struct {
	root   string
	logger zerolog.Logger

	srv *http.Server
	ln  net.Listener
	db  *storm.DB
}

// Factory builds an App rooted at the fixture application folder. It is
// the default types.AppFactory used by the harness.
func Factory(root string, _ *koanf.Koanf) (types.App, error) {
	return &App{
		root:   root,
		logger: logging.GetLogger("testapp"),
	}, nil
}

// Start opens the storage backend, binds the configured address and
// serves until Shutdown. When the configured port is 0 the actual bound
// port is written back into conf so the merged configuration stays
// truthful for URL building.
func (a *App) Start(ctx context.Context, conf *koanf.Koanf) error {
	db, err := storm.Open(conf.String(lifecycle.KeyStoragePath))
	if err != nil {
		return fmt.Errorf("opening storage at %s: %w", conf.String(lifecycle.KeyStoragePath), err)
	}
	a.db = db

	var boots int
	if err := db.Get(metaBucket, bootsKey, &boots); err != nil && err != storm.ErrNotFound {
		_ = db.Close()
		return fmt.Errorf("reading boot counter: %w", err)
	}
	boots++
	if err := db.Set(metaBucket, bootsKey, boots); err != nil {
		_ = db.Close()
		return fmt.Errorf("writing boot counter: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", conf.String(lifecycle.KeyHTTPHost), conf.Int(lifecycle.KeyHTTPPort))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	a.ln = ln

	if conf.Int(lifecycle.KeyHTTPPort) == 0 {
		port := ln.Addr().(*net.TCPAddr).Port
		if err := conf.Set(lifecycle.KeyHTTPPort, port); err != nil {
			_ = ln.Close()
			_ = db.Close()
			return fmt.Errorf("recording bound port: %w", err)
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", a.handleHealth(boots))
	mux.HandleFunc("/modules", a.handleModules)

	srv := &http.Server{Handler: mux}
	a.srv = srv
	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			a.logger.Error().Err(err).Msg("Server stopped unexpectedly")
		}
	}()

	a.logger.Debug().Str("addr", ln.Addr().String()).Int("boots", boots).Msg("Application listening")
	return nil
}

// Shutdown stops the server and closes the storage backend.
func (a *App) Shutdown(ctx context.Context) error {
	var firstErr error
	if a.srv != nil {
		if err := a.srv.Shutdown(ctx); err != nil {
			firstErr = err
		}
		a.srv = nil
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		a.db = nil
	}
	return firstErr
}

func (a *App) handleHealth(boots int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]interface{}{
			"status": "ok",
			"boots":  boots,
		})
	}
}

// handleModules lists the generated source modules under the app root,
// relative paths sorted for determinism.
func (a *App) handleModules(w http.ResponseWriter, r *http.Request) {
	var modules []string
	err := filepath.WalkDir(a.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".js") {
			return nil
		}
		rel, err := filepath.Rel(a.root, path)
		if err != nil {
			return err
		}
		modules = append(modules, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	sort.Strings(modules)
	writeJSON(w, map[string]interface{}{"modules": modules})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
