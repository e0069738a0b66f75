package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/zjrosen/registrar/internal/config"
	"github.com/zjrosen/registrar/internal/console"
	"github.com/zjrosen/registrar/internal/infrastructure/cachedstore"
	"github.com/zjrosen/registrar/internal/infrastructure/flatfile"
	"github.com/zjrosen/registrar/internal/infrastructure/sqlite"
	"github.com/zjrosen/registrar/internal/log"
	"github.com/zjrosen/registrar/internal/registrar"
	"github.com/zjrosen/registrar/internal/registrar/domain"
	"github.com/zjrosen/registrar/internal/tracing"
	"github.com/zjrosen/registrar/internal/watcher"
)

// runtime holds the components wired for one command invocation.
type runtime struct {
	cfg      config.Config
	db       *sqlite.DB // nil for the flat-file backend
	cache    *cachedstore.Store
	provider *tracing.Provider
	reg      *registrar.Registrar
	cmds     *console.Commands
}

// newRuntime opens the configured store, wraps it in the read cache, starts
// tracing and loads the registrar.
func newRuntime(ctx context.Context, c config.Config) (*runtime, error) {
	rt := &runtime{cfg: c}

	var inner domain.RowStore
	switch c.Storage.Backend {
	case config.BackendSQLite:
		db, err := sqlite.Open(c.SQLitePath())
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		rt.db = db
		inner = db.RowStore()
	default:
		inner = flatfile.New(c.DataDir)
	}
	rt.cache = cachedstore.New(inner, c.Storage.CacheTTL)

	tcfg := c.Tracing
	tcfg.FilePath = c.TracesFilePath()
	provider, err := tracing.NewProvider(tcfg)
	if err != nil {
		_ = rt.Close(ctx)
		return nil, fmt.Errorf("starting tracing: %w", err)
	}
	rt.provider = provider

	rt.reg = registrar.New(ctx, rt.cache,
		registrar.WithSeed(c.SeedDemo),
		registrar.WithTracer(provider.Tracer()),
	)
	rt.cmds = console.NewCommands(rt.reg, c.UI.Currency)

	log.Debug(log.CatConfig, "Runtime ready",
		"backend", c.Storage.Backend, "data_dir", c.DataDir, "tracing", provider.Enabled())
	return rt, nil
}

// watchConfig returns the files whose modification should trigger a reload.
// Writes made through the runtime's own store are not reported.
func (rt *runtime) watchConfig() watcher.Config {
	var cfg watcher.Config
	if rt.db != nil {
		path := rt.db.Path()
		base := filepath.Base(path)
		cfg = watcher.DefaultConfig(filepath.Dir(path), base, base+"-wal")
	} else {
		files := make([]string, 0, len(domain.Resources()))
		for _, res := range domain.Resources() {
			files = append(files, flatfile.FileName(res))
		}
		cfg = watcher.DefaultConfig(rt.cfg.DataDir, files...)
	}
	cfg.OwnWrites = rt.cache.LastWrite
	return cfg
}

// invalidate drops cached rows so the next read sees external edits.
func (rt *runtime) invalidate() {
	rt.cache.Invalidate()
}

// Close flushes traces and closes the database.
func (rt *runtime) Close(ctx context.Context) error {
	var errs []error
	if rt.cache != nil {
		stats := rt.cache.Stats()
		log.Debug(log.CatCache, "Cache stats", "hits", stats.Hits, "misses", stats.Misses)
	}
	if rt.provider != nil {
		if err := rt.provider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutting down tracing: %w", err))
		}
	}
	if rt.db != nil {
		if err := rt.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing database: %w", err))
		}
	}
	return errors.Join(errs...)
}
