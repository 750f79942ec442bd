package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"

	"github.com/rexliu/unityctl/pkg/config"
)

// Options describes logger construction parameters.
type Options struct {
	Level       string
	Format      string
	FilePath    string
	FileMaxSize int
	// Output defaults to stderr; stdout carries command results.
	Output io.Writer
}

// OptionsFromConfig maps the logging section of the config.
func OptionsFromConfig(cfg config.LoggingConfig) Options {
	return Options{
		Level:       cfg.Level,
		Format:      cfg.Format,
		FilePath:    cfg.FilePath,
		FileMaxSize: cfg.FileMaxSize,
	}
}

// New constructs a slog logger. The returned closer releases the log file,
// if any.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	format := resolveFormat(opts.Format, out)
	var closer io.Closer = nopCloser{}
	if opts.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(opts.FilePath), 0o700); err != nil {
			return nil, nil, fmt.Errorf("ensure log directory: %w", err)
		}
		file, err := newRollingFile(opts.FilePath, opts.FileMaxSize)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out = io.MultiWriter(out, file)
		closer = file
	}

	handlerOpts := &slog.HandlerOptions{Level: ParseLevel(opts.Level)}
	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(out, handlerOpts)
	case "text":
		handler = slog.NewTextHandler(out, handlerOpts)
	default:
		closer.Close()
		return nil, nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}
	return slog.New(handler), closer, nil
}

// ParseLevel maps a level name to slog; unknown names mean info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// resolveFormat picks text for terminals and json otherwise when format is
// unset. Writers that are not files (test buffers) get text.
func resolveFormat(format string, output io.Writer) string {
	format = strings.ToLower(strings.TrimSpace(format))
	if format != "" {
		return format
	}
	f, ok := output.(*os.File)
	if !ok || isTerminal(f.Fd()) {
		return "text"
	}
	return "json"
}

func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

type rollingFile struct {
	mu   sync.Mutex
	path string
	max  int
	file *os.File
}

func newRollingFile(path string, maxMB int) (*rollingFile, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, err
	}
	return &rollingFile{path: path, max: maxMB, file: f}, nil
}

// Write rotates the file to path.1 once it would exceed the size cap.
func (r *rollingFile) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.max > 0 {
		if info, err := r.file.Stat(); err == nil && info.Size()+int64(len(p)) > int64(r.max)*1024*1024 {
			if err := r.rotate(); err != nil {
				return 0, err
			}
		}
	}
	return r.file.Write(p)
}

// rotate moves the current file to path.1 and reopens path. When the rename
// fails the file is truncated instead so it stays under the cap.
func (r *rollingFile) rotate() error {
	closeErr := r.file.Close()
	flags := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	renameErr := os.Rename(r.path, r.path+".1")
	if renameErr != nil {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(r.path, flags, 0o600)
	if err != nil {
		return fmt.Errorf("reopen log file: %w", err)
	}
	r.file = f
	if renameErr != nil {
		return fmt.Errorf("rotate log file: %w", renameErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close log file: %w", closeErr)
	}
	return nil
}

func (r *rollingFile) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.file.Close()
}
