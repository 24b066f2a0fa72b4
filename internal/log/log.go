package log

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"
	"strings"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/sirupsen/logrus"
)

// Component names
const (
	ComponentCLI      = "cli"
	ComponentWeb      = "web"
	ComponentFormats  = "formats"
	ComponentDownload = "download"
	ComponentEngine   = "engine"
)

// Rotation defaults for the optional log file
const (
	DefaultRotationTime = 24 * time.Hour
	DefaultMaxAge       = 7 * 24 * time.Hour
	rotationSuffix      = ".%Y%m%d"
)

// Config controls logger construction
type Config struct {
	Level   string
	JSON    bool
	File    string // optional path, rotated daily
	Output  io.Writer
	NoColor bool
}

var std = logrus.New()

// New builds a logger from cfg. The returned closer releases the log file, if any.
func New(cfg Config) (*logrus.Logger, io.Closer, error) {
	logger := logrus.New()

	level := strings.TrimSpace(cfg.Level)
	if level == "" {
		level = logrus.InfoLevel.String()
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	logger.SetLevel(lvl)

	if cfg.JSON {
		logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
			DisableColors:   cfg.NoColor,
		})
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		rl, err := newRotatingFile(cfg.File)
		if err != nil {
			return nil, nil, err
		}
		out = io.MultiWriter(out, rl)
		closer = rl
	}
	logger.SetOutput(out)

	return logger, closer, nil
}

func newRotatingFile(path string) (*rotatelogs.RotateLogs, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve log file path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	rl, err := rotatelogs.New(
		abs+rotationSuffix,
		rotatelogs.WithLinkName(abs),
		rotatelogs.WithRotationTime(DefaultRotationTime),
		rotatelogs.WithMaxAge(DefaultMaxAge),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return rl, nil
}

// SetDefault replaces the process-wide logger used by WithComponent
func SetDefault(logger *logrus.Logger) {
	if logger != nil {
		std = logger
	}
}

// Default returns the process-wide logger
func Default() *logrus.Logger {
	return std
}

// WithComponent returns an entry tagged with the component name
func WithComponent(component string) *logrus.Entry {
	return std.WithField("component", component)
}

// RedirectStdLog sends output of the standard library logger to logger at
// debug level. The extraction library logs every request through it, which
// is engine diagnostics and must stay out of normal output.
func RedirectStdLog(logger *logrus.Logger) io.Closer {
	w := logger.WithField("component", ComponentEngine).WriterLevel(logrus.DebugLevel)
	stdlog.SetFlags(0)
	stdlog.SetOutput(w)
	return w
}

// Discard returns an entry that drops everything, for tests and quiet callers
func Discard() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
