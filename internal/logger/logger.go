package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger holds configuration options for the application logger.
type Logger struct {
	//nolint:staticcheck // allow duplicate struct tags
	Level string `long:"log-level" env:"LOG_LEVEL" description:"Log level" default:"info" choice:"trace" choice:"debug" choice:"info" choice:"warn" choice:"error"`
	//nolint:staticcheck // allow duplicate struct tags
	Format string `long:"log-format" env:"LOG_FORMAT" description:"Log format" default:"console" choice:"json" choice:"console"`
}

// Setup initializes the global logger writing to stderr.
func (l *Logger) Setup() {
	l.SetupWriter(os.Stderr)
}

// SetupWriter initializes the global logger based on provided configuration.
// It configures the output format (JSON or Console) and the logging level.
func (l *Logger) SetupWriter(w io.Writer) {
	level, err := zerolog.ParseLevel(l.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(level)

	if l.Format == "json" {
		log.Logger = zerolog.New(w).With().Timestamp().Logger()
		return
	}

	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
		NoColor:    !isTerminal(w),
	}

	log.Logger = log.Output(output)
}

// isTerminal reports whether w is a character device. Colors are disabled
// when output is redirected to a file or pipe.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return stat.Mode()&os.ModeCharDevice != 0
}
