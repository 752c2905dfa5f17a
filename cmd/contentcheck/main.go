package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"github.com/woozymasta/tour-content/internal/app"
	"github.com/woozymasta/tour-content/internal/config"
	"github.com/woozymasta/tour-content/internal/logger"
	"github.com/woozymasta/tour-content/internal/signals"
	"github.com/woozymasta/tour-content/internal/vars"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		if !errors.Is(err, app.ErrValidationFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run() error {
	var opts struct {
		Config  string `short:"c" long:"config" env:"CONTENT_CONFIG" description:"Path to configuration file (YAML or JSON)"`
		Root    string `short:"r" long:"root" env:"CONTENT_ROOT" description:"Site root directory (overrides the configuration file)"`
		Watch   bool   `short:"w" long:"watch" description:"Keep running and revalidate when content files change"`
		//nolint:staticcheck // allow duplicate struct tags
		Output  string `short:"o" long:"output" description:"Report format" default:"text" choice:"text" choice:"json"`
		Version bool   `short:"v" long:"version" description:"Print build information and exit"`

		logger.Logger `group:"Logging"`
	}

	if _, err := flags.Parse(&opts); err != nil {
		// go-flags returns an error even for --help; in that case do not treat
		// it as a failure exit code.
		if ferr, ok := err.(*flags.Error); ok && ferr.Type == flags.ErrHelp {
			return nil
		}
		return err
	}

	if opts.Version {
		vars.Print(os.Stdout)
		return nil
	}

	opts.Logger.Setup()

	log.Debug().
		Str("config_path", opts.Config).
		Str("root", opts.Root).
		Bool("watch", opts.Watch).
		Msg("CLI options parsed")

	cfg, err := loadConfig(opts.Config, opts.Root)
	if err != nil {
		return fmt.Errorf("contentcheck: load config: %w", err)
	}

	a, err := app.New(cfg, afero.NewOsFs(), app.Options{Format: opts.Output, Out: os.Stdout})
	if err != nil {
		return fmt.Errorf("contentcheck: init: %w", err)
	}

	ctx, cancel := signals.WithSignalContext(context.Background())
	defer cancel()

	if !opts.Watch {
		return a.Run(ctx)
	}

	defer signals.GracefulShutdown(a, shutdownTimeout)
	if err := a.Watch(ctx); err != nil {
		return fmt.Errorf("contentcheck: watch: %w", err)
	}
	return nil
}

func loadConfig(path, root string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.Load(context.Background(), path)
	} else {
		cfg, err = config.Default()
	}
	if err != nil {
		return nil, err
	}

	if root != "" {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("resolve root %q: %w", root, err)
		}
		cfg.Root = abs
	}

	return cfg, nil
}
