package log

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// Discard is a logger that drops every message.
var Discard = New(WithLevel(LevelSilent), WithWriter(io.Discard))

// New creates a new [Logger] writing to standard error at [LevelInfo] unless configured otherwise.
func New(ops ...Option) *Logger {
	defaults := []Option{
		WithLogger(&Logger{zerolog.New(nil).
			With().Timestamp().Logger(),
		}),
		WithWriter(os.Stderr),
		WithLevel(LevelInfo),
	}

	var l Logger
	for _, op := range append(defaults, ops...) {
		op(&l)
	}
	return &l
}

func WithLogger(l *Logger) Option {
	return func(ll *Logger) {
		ll.log = l.log
	}
}

// WithFields attaches key-value pairs to every message produced by the logger.
func WithFields(fields ...any) Option {
	return func(l *Logger) {
		l.log = l.log.With().Fields(fields).Logger()
	}
}

func WithLevel(level Level) Option {
	return func(l *Logger) {
		l.log = l.log.Level(makeZerologLevel(level))
	}
}

func WithWriter(w io.Writer) Option {
	return func(l *Logger) {
		out := w
		if isTerminal(w) {
			out = zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
				w.TimeFormat = time.DateTime
				w.Out = out
			})
		}
		l.log = l.log.Output(out)
	}
}

func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return true
	}
	return false
}

type Option func(*Logger)

// Logger reports operational messages as structured entries.
// Fields are passed as alternating keys and values.
type Logger struct {
	log zerolog.Logger
}

func (l *Logger) Fatal(msg string, fields ...any) {
	l.logEntry(LevelFatal, msg, fields)
	os.Exit(1)
}

func (l *Logger) Error(msg string, fields ...any) {
	l.logEntry(LevelError, msg, fields)
}

func (l *Logger) Info(msg string, fields ...any) {
	l.logEntry(LevelInfo, msg, fields)
}

func (l *Logger) Verbose(msg string, fields ...any) {
	l.logEntry(LevelVerbose, msg, fields)
}

func (l *Logger) logEntry(level Level, msg string, fields []any) {
	l.log.WithLevel(makeZerologLevel(level)).
		Fields(fields).
		Msg(msg)
}
