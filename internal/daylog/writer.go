// Package daylog appends severity-tagged text lines to a log file that is rotated daily.
//
// Every entry is written to a file named {prefix}_{yyyy-MM-dd}.log in the configured directory.
// Before each write the [Writer] checks whether the calendar day has changed and, if so,
// switches to a new file for the current day. Files from previous days are never touched again.
//
// A [Writer] never holds the file open between calls: each entry is appended and the file is
// closed before the call returns. Failures are reported to a diagnostic [Logger] and otherwise
// ignored by [Writer.Log] and its shorthands, while [Writer.Append] and [Writer.Open] return them.
package daylog

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/cerfical/daylog/internal/log"
	"github.com/spf13/afero"
)

// DefaultPrefix names the log files of a [Writer] that was never given a prefix.
const DefaultPrefix = "Log"

const filePerm = 0o644

// Logger receives diagnostic messages about the operation of a [Writer].
type Logger interface {
	Error(msg string, fields ...any)
	Info(msg string, fields ...any)
	Verbose(msg string, fields ...any)
}

// New creates a new [Writer].
// No file is created until the first entry is logged or [Writer.Init] is called.
func New(ops ...Option) *Writer {
	defaults := []Option{
		WithPrefix(DefaultPrefix),
		WithDir(DefaultDir()),
		WithFS(afero.NewOsFs()),
		WithClock(time.Now),
		WithLogger(log.New()),
	}

	var w Writer
	for _, op := range append(defaults, ops...) {
		op(&w)
	}
	return &w
}

// WithPrefix sets the prefix used to name log files if the [Writer] is initialized implicitly.
func WithPrefix(prefix string) Option {
	return func(w *Writer) {
		w.prefix = prefix
	}
}

// WithDir sets the directory to create log files in.
func WithDir(dir string) Option {
	return func(w *Writer) {
		w.dir = dir
	}
}

// WithFS sets the filesystem log files are stored on.
func WithFS(fsys afero.Fs) Option {
	return func(w *Writer) {
		w.fs = fsys
	}
}

// WithClock sets the source of the current time.
func WithClock(now func() time.Time) Option {
	return func(w *Writer) {
		w.now = now
	}
}

// WithLogger sets the destination for diagnostic messages.
func WithLogger(l Logger) Option {
	return func(w *Writer) {
		w.log = l
	}
}

// DefaultDir returns the directory containing the running executable,
// or the working directory if the former cannot be determined.
func DefaultDir() string {
	if exe, err := os.Executable(); err == nil {
		return filepath.Dir(exe)
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

type Option func(*Writer)

// Writer appends entries to the log file of the current day.
// All methods are safe for concurrent use.
type Writer struct {
	mu sync.Mutex

	fs  afero.Fs
	now func() time.Time
	log Logger

	dir    string
	prefix string

	// Both are empty until the first initialization.
	path string
	date string
}

// Init sets the prefix of log files and creates the file for the current day if it does not exist.
// Calling Init again switches to a file with the new prefix.
// Failures are reported to the diagnostic logger.
func (w *Writer) Init(prefix string) {
	if err := w.Open(prefix); err != nil {
		w.log.Error("Failed to initialize the log file", "error", err)
	}
}

// Open is [Writer.Init], but returns the error instead of reporting it.
func (w *Writer) Open(prefix string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.open(prefix, w.now())
}

// Path returns the path of the current log file, or an empty string if the [Writer] is not initialized yet.
func (w *Writer) Path() string {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.path
}

// Log appends an entry with the specified severity.
// Failures are reported to the diagnostic logger and the entry is dropped.
func (w *Writer) Log(msg string, sev Severity) {
	if err := w.Append(msg, sev); err != nil {
		w.log.Error("Failed to write a log entry", "error", err)
	}
}

func (w *Writer) Info(msg string) {
	w.Log(msg, SeverityInfo)
}

func (w *Writer) Warning(msg string) {
	w.Log(msg, SeverityWarning)
}

func (w *Writer) Critical(msg string) {
	w.Log(msg, SeverityCritical)
}

func (w *Writer) Error(msg string) {
	w.Log(msg, SeverityError)
}

func (w *Writer) Exception(msg string) {
	w.Log(msg, SeverityException)
}

// Append is [Writer.Log], but returns the error instead of reporting it.
func (w *Writer) Append(msg string, sev Severity) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()

	// Opening the file for appending creates it as well, so a failed creation only matters if the write fails too
	createErr := w.ensureCurrentDay(now)
	if err := w.appendLine(formatEntry(now, sev, msg)); err != nil {
		return errors.Join(createErr, err)
	}
	return nil
}

// Stream returns an [io.Writer] that logs everything written to it as separate entries with the specified severity.
func (w *Writer) Stream(sev Severity) io.Writer {
	return &stream{w, sev}
}

func (w *Writer) open(prefix string, now time.Time) error {
	w.prefix = prefix
	w.switchDate(now.Format(dateLayout))
	return w.createFile()
}

func (w *Writer) ensureCurrentDay(now time.Time) error {
	if w.path == "" {
		return w.open(w.prefix, now)
	}

	today := now.Format(dateLayout)
	if today == w.date {
		w.log.Verbose("Log file is current", "file", w.path)
		return nil
	}

	w.switchDate(today)
	w.log.Info("Log file is out of date, rotating to a new file", "file", w.path)
	return w.createFile()
}

func (w *Writer) switchDate(date string) {
	w.date = date
	w.path = filepath.Join(w.dir, fileName(w.prefix, date))
}

func (w *Writer) createFile() error {
	exists, err := afero.Exists(w.fs, w.path)
	if err != nil {
		return fmt.Errorf("create log file: %w", err)
	}
	if exists {
		return nil
	}

	f, err := w.fs.OpenFile(w.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm)
	if err != nil {
		// Someone else has just created the file
		if errors.Is(err, fs.ErrExist) {
			return nil
		}
		return fmt.Errorf("create log file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("create log file: %w", err)
	}
	return nil
}

func (w *Writer) appendLine(line string) (err error) {
	f, err := w.fs.OpenFile(w.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, filePerm)
	if err != nil {
		return fmt.Errorf("append log entry: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("append log entry: %w", closeErr)
		}
	}()

	if _, err := io.WriteString(f, line); err != nil {
		return fmt.Errorf("append log entry: %w", err)
	}
	return nil
}

type stream struct {
	w   *Writer
	sev Severity
}

func (s *stream) Write(p []byte) (int, error) {
	msg := strings.TrimSuffix(string(p), "\n")
	if err := s.w.Append(msg, s.sev); err != nil {
		return 0, err
	}
	return len(p), nil
}
