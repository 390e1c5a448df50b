// Package logger holds the process-wide zerolog logger of the console
// binaries. Call Init once from main; packages get tagged children through
// Component.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options configure the logger built by Init.
type Options struct {
	// Level is trace, debug, info, warn (or warning) or error. Anything else
	// means info.
	Level string
	// Pretty writes coloured console lines instead of JSON.
	Pretty bool
	// Output defaults to os.Stdout.
	Output io.Writer
	// Service is added to every entry as "service" when set.
	Service string
	// NoCaller omits the caller field.
	NoCaller bool
}

var (
	mu    sync.Mutex
	root  *zerolog.Logger
	built bool
)

// Init builds the logger from opts and returns it. Later calls return the
// logger built by the first one.
func Init(opts Options) zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if built {
		return *root
	}

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}

	lvl := parseLevel(opts.Level)
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.SetGlobalLevel(lvl)

	c := zerolog.New(out).Level(lvl).With().Timestamp()
	if opts.Service != "" {
		c = c.Str("service", opts.Service)
	}
	if !opts.NoCaller {
		c = c.Caller()
	}
	l := c.Logger()
	root, built = &l, true
	return l
}

// Get returns the logger built by Init. It panics when Init was not called.
func Get() zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if !built {
		panic("logger: Get called before Init")
	}
	return *root
}

// Component returns a child logger with a "component" field.
func Component(name string) zerolog.Logger {
	return Get().With().Str("component", name).Logger()
}

// Reset forgets the logger so the next Init builds a new one. Tests only.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	root, built = nil, false
}

func parseLevel(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	switch lvl, err := zerolog.ParseLevel(s); {
	case err != nil, s == "", lvl < zerolog.TraceLevel, lvl > zerolog.ErrorLevel:
		return zerolog.InfoLevel
	default:
		return lvl
	}
}
