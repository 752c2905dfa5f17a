package reloader

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// Lister returns the content files to watch, sorted.
type Lister func() ([]string, error)

// Reloader polls the watched content files and calls onChange when their
// names or contents change.
type Reloader struct {
	fs         afero.Fs
	list       Lister
	onChange   func(context.Context) error
	interval   time.Duration
	lastSig    [sha256.Size]byte
	hasLastSig bool
}

// New creates a new content reloader.
func New(fsys afero.Fs, list Lister, interval time.Duration, onChange func(context.Context) error) (*Reloader, error) {
	if fsys == nil {
		return nil, fmt.Errorf("reloader: filesystem is required")
	}
	if list == nil {
		return nil, fmt.Errorf("reloader: file lister is required")
	}
	if interval <= 0 {
		return nil, fmt.Errorf("reloader: interval must be greater than zero")
	}
	if onChange == nil {
		return nil, fmt.Errorf("reloader: onChange callback is required")
	}

	return &Reloader{
		fs:       fsys,
		list:     list,
		interval: interval,
		onChange: onChange,
	}, nil
}

// Start polls for changes until ctx is canceled. The current state is taken
// as the baseline, so onChange only fires for later changes.
func (r *Reloader) Start(ctx context.Context) error {
	if r == nil {
		return nil
	}

	if sig, err := r.signature(); err != nil {
		log.Warn().Err(err).Msg("Failed to initialize content watcher signature")
	} else {
		r.lastSig = sig
		r.hasLastSig = true
	}

	s, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("reloader: new scheduler: %w", err)
	}

	_, err = s.NewJob(
		gocron.DurationJob(r.interval),
		gocron.NewTask(r.tick, ctx),
		gocron.WithName("content-reload"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return fmt.Errorf("reloader: add job: %w", err)
	}

	log.Info().
		Dur("interval", r.interval).
		Msg("Content watcher started")

	s.Start()
	<-ctx.Done()

	if err := s.Shutdown(); err != nil {
		log.Warn().Err(err).Msg("Content watcher shutdown failed")
	}
	log.Info().Msg("Content watcher stopped")

	return nil
}

func (r *Reloader) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	sig, err := r.signature()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to read content state")
		return
	}

	if r.hasLastSig && sig == r.lastSig {
		return
	}

	log.Info().Msg("Detected content change, revalidating")
	if err := r.onChange(ctx); err != nil {
		log.Error().Err(err).Msg("Content revalidation failed")
	} else {
		log.Info().Msg("Content revalidation applied")
	}

	r.lastSig = sig
	r.hasLastSig = true
}

// signature hashes the names and contents of the listed files.
func (r *Reloader) signature() ([sha256.Size]byte, error) {
	files, err := r.list()
	if err != nil {
		return [sha256.Size]byte{}, fmt.Errorf("list content files: %w", err)
	}

	hasher := sha256.New()
	for _, name := range files {
		data, err := afero.ReadFile(r.fs, name)
		if err != nil {
			return [sha256.Size]byte{}, fmt.Errorf("read file %q: %w", name, err)
		}

		// hash.Hash writes never fail.
		_, _ = hasher.Write([]byte(name))
		_, _ = hasher.Write([]byte{0})
		_, _ = hasher.Write(data)
		_, _ = hasher.Write([]byte{0})
	}

	var sum [sha256.Size]byte
	copy(sum[:], hasher.Sum(nil))
	return sum, nil
}
