// Package logging configures the global zerolog logger.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options controls logger setup.
type Options struct {
	Level   string
	Format  string // console or json
	NoColor bool
	Out     io.Writer
}

// InitDefault installs a console logger at info level. Used before flags are parsed.
func InitDefault() {
	_ = Init(Options{Level: "info", Format: "console"})
}

// Init configures the global logger. An unknown level falls back to info
// and is reported as an error after the logger is installed.
func Init(opts Options) error {
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}

	level, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
	if err != nil || opts.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if strings.EqualFold(opts.Format, "json") {
		log.Logger = zerolog.New(out).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        out,
			NoColor:    opts.NoColor,
			TimeFormat: time.Kitchen,
		}).With().Timestamp().Logger()
	}

	return err
}
