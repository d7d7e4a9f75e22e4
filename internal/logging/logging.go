package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"tourney-engine/internal/config"
)

var activeWriter io.Writer = os.Stdout

// Init configures the global zerolog logger from cfg. When cfg.File is set,
// writes are capped at cfg.MaxMB and the file is truncated on overflow
// rather than rotated, matching the size-limited writer below.
func Init(cfg config.LogConfig) error {
	level := zerolog.InfoLevel
	if v := strings.TrimSpace(cfg.Level); v != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(v))
		if err != nil {
			return err
		}
		level = parsed
	}

	var output io.Writer = os.Stdout
	if cfg.File != "" {
		w, err := newSizeLimitedWriter(cfg.File, cfg.MaxMB)
		if err != nil {
			return err
		}
		output = w
	}
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: output}
	}
	activeWriter = output

	zerolog.SetGlobalLevel(level)
	logger := zerolog.New(output).With().Timestamp().Logger()
	if cfg.SampleEvery > 1 {
		logger = logger.Sample(&zerolog.BasicSampler{N: uint32(cfg.SampleEvery)})
	}
	log.Logger = logger
	return nil
}

// Writer returns the destination the global logger currently writes to, for
// handlers (e.g. httplog's slog bridge) that need to share the same sink.
func Writer() io.Writer {
	return activeWriter
}
