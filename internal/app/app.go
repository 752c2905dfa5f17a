package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"github.com/woozymasta/tour-content/internal/config"
	"github.com/woozymasta/tour-content/internal/content"
	"github.com/woozymasta/tour-content/internal/metrics"
	"github.com/woozymasta/tour-content/internal/reloader"
	"github.com/woozymasta/tour-content/internal/web"
)

// Options controls how results are reported.
type Options struct {
	// Format is the report format written to Out (text or json).
	Format string

	// Out receives the report. Defaults to stdout.
	Out io.Writer
}

// App represents the content checker with all its dependencies.
type App struct {
	cfg       *config.Config
	fs        afero.Fs
	loader    *content.Loader
	metrics   *metrics.Metrics
	webServer *web.Server
	out       io.Writer
	format    string

	mu    sync.RWMutex
	last  *content.Result
	ready atomic.Bool
}

// New creates and initializes a new App instance.
func New(cfg *config.Config, fsys afero.Fs, opts Options) (*App, error) {
	defs, err := cfg.Definitions()
	if err != nil {
		return nil, err
	}
	for _, def := range defs {
		if err := def.Schema(); err != nil {
			return nil, fmt.Errorf("collection %q: %w", def.Name, err)
		}
	}

	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Format == "" {
		opts.Format = FormatText
	}

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
	}

	return &App{
		cfg:     cfg,
		fs:      fsys,
		loader:  content.NewLoader(fsys, cfg.Root, defs...),
		metrics: m,
		out:     opts.Out,
		format:  opts.Format,
	}, nil
}

// Validate loads every collection once, logs the failures and records
// metrics. The returned error only reports scan problems; rejected files
// are listed in the result.
func (a *App) Validate(ctx context.Context) (*content.Result, error) {
	started := time.Now()
	res, err := a.loader.Load(ctx)
	took := time.Since(started)

	a.metrics.ObserveRun(res, err, took)
	if err != nil {
		return nil, err
	}

	logFailures(res)
	log.Info().
		Str("root", a.loader.Root()).
		Int("files", res.Files()).
		Int("tours", len(res.Collections.Tours)).
		Int("locations", len(res.Collections.Locations)).
		Int("failed", len(res.Failures)).
		Dur("took", took).
		Msg("Content validated")

	a.mu.Lock()
	a.last = res
	a.mu.Unlock()
	a.ready.Store(true)

	return res, nil
}

// Last returns the result of the latest successful scan, or nil.
func (a *App) Last() *content.Result {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.last
}

// Run validates once and writes the report. It returns ErrValidationFailed
// when any file was rejected.
func (a *App) Run(ctx context.Context) error {
	res, err := a.Validate(ctx)
	if err != nil {
		return err
	}

	if err := writeReport(a.out, a.format, res); err != nil {
		return err
	}

	if !res.OK() {
		return fmt.Errorf("%w: %d of %d files rejected", ErrValidationFailed, len(res.Failures), res.Files())
	}
	return nil
}

// Watch validates once, then revalidates whenever a content file changes,
// until ctx is canceled. Health, readiness, build info and (when enabled)
// metrics are served on the configured port.
func (a *App) Watch(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", a.cfg.MetricsPort)
	webSrv, err := web.NewServer(ctx, addr, web.NewHandler(a.metrics.Gatherer(), a.ready.Load))
	if err != nil {
		log.Warn().
			Str("addr", addr).
			Err(err).
			Msg("Failed to create web server, metrics/health endpoints will be unavailable")
	} else {
		a.webServer = webSrv
		a.webServer.Start()
	}

	if err := a.Run(ctx); err != nil && !errors.Is(err, ErrValidationFailed) {
		return err
	}

	r, err := reloader.New(a.fs, a.loader.Sources, a.cfg.WatchInterval.Std(), func(ctx context.Context) error {
		err := a.Run(ctx)
		if errors.Is(err, ErrValidationFailed) {
			// Rejected files are already logged and reported.
			return nil
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("create content reloader: %w", err)
	}

	log.Info().Msg("contentcheck watching for changes")
	return r.Start(ctx)
}

// Shutdown gracefully shuts down the application.
func (a *App) Shutdown(ctx context.Context) error {
	if a.webServer != nil {
		if err := a.webServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutdown web server: %w", err)
		}
	}
	return nil
}
