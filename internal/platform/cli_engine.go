package platform

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ytget/yt-downloader-web/internal/model"
)

// Executable defaults
const (
	DefaultYTDLPPath = "yt-dlp"
	maxStderrInError = 512
)

// yt-dlp arguments
const (
	argDumpSingleJSON = "-J"
	argNoPlaylist     = "--no-playlist"
	argQuiet          = "--quiet"
	argNoWarnings     = "--no-warnings"
	argFormat         = "-f"
	argOutput         = "-o"
	argPrint          = "--print"
	printFinalPath    = "after_move:filepath"
)

// ErrEngineFailed wraps a non-zero exit of the executable
var ErrEngineFailed = errors.New("yt-dlp failed")

// CommandRunner runs an executable and returns its captured output
type CommandRunner func(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)

// ExecRunner runs commands with os/exec
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// CLIEngine drives an external yt-dlp executable
type CLIEngine struct {
	path     string
	template string
	opts     EngineOptions
	logger   *logrus.Entry
	run      CommandRunner
}

// NewCLIEngine creates an engine for the yt-dlp executable at opts.YTDLPPath
func NewCLIEngine(opts EngineOptions) *CLIEngine {
	path := strings.TrimSpace(opts.YTDLPPath)
	if path == "" {
		path = DefaultYTDLPPath
	}
	template := opts.FilenameTemplate
	if template == "" {
		template = TemplateTitle + "." + TemplateExt
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}

	return &CLIEngine{
		path:     path,
		template: template,
		opts:     opts,
		logger:   logger.WithField("engine", EngineYTDLP),
		run:      ExecRunner,
	}
}

// SetRunner replaces the command runner
func (e *CLIEngine) SetRunner(run CommandRunner) {
	if run != nil {
		e.run = run
	}
}

type cliVideoInfo struct {
	ID      string      `json:"id"`
	Title   string      `json:"title"`
	Formats []cliFormat `json:"formats"`
}

type cliFormat struct {
	FormatID string   `json:"format_id"`
	Ext      string   `json:"ext"`
	Height   *float64 `json:"height"`
	Filesize *float64 `json:"filesize"`
	ACodec   *string  `json:"acodec"`
	VCodec   *string  `json:"vcodec"`
	URL      *string  `json:"url"`
}

// FetchMetadata runs yt-dlp in single JSON mode without playlist expansion
func (e *CLIEngine) FetchMetadata(ctx context.Context, url string) (*model.VideoMetadata, error) {
	ctx, cancel := withTimeout(ctx, e.opts.Timeout)
	defer cancel()

	stdout, err := e.exec(ctx, argDumpSingleJSON, argNoPlaylist, argQuiet, argNoWarnings, CleanURL(url))
	if err != nil {
		return nil, err
	}

	var info cliVideoInfo
	if err := json.Unmarshal(stdout, &info); err != nil {
		return nil, fmt.Errorf("failed to parse yt-dlp JSON: %w", err)
	}
	return info.toMetadata(), nil
}

// Download fetches exactly formatID into dir and returns the path yt-dlp
// printed after its final move
func (e *CLIEngine) Download(ctx context.Context, url, formatID, dir string) (string, error) {
	ctx, cancel := withTimeout(ctx, e.opts.Timeout)
	defer cancel()

	output := filepath.Join(dir, e.template)
	e.logger.WithFields(logrus.Fields{
		"format_id": formatID,
		"output":    output,
	}).Debug("starting yt-dlp download")

	stdout, err := e.exec(ctx,
		argFormat, formatID,
		argNoPlaylist,
		argNoWarnings,
		argOutput, output,
		argPrint, printFinalPath,
		CleanURL(url),
	)
	if err != nil {
		return "", err
	}

	path := lastLine(stdout)
	if path == "" {
		return "", ErrNoOutput
	}
	return path, nil
}

func (e *CLIEngine) exec(ctx context.Context, args ...string) ([]byte, error) {
	stdout, stderr, err := e.run(ctx, e.path, args...)
	if err == nil {
		return stdout, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("yt-dlp interrupted: %w", ctxErr)
	}

	msg := strings.TrimSpace(string(stderr))
	if len(msg) > maxStderrInError {
		msg = msg[len(msg)-maxStderrInError:]
	}
	e.logger.WithError(err).WithField("stderr", msg).Debug("yt-dlp exited with error")
	if msg == "" {
		return nil, fmt.Errorf("%w: %w", ErrEngineFailed, err)
	}
	return nil, fmt.Errorf("%w: %s: %w", ErrEngineFailed, msg, err)
}

func (i cliVideoInfo) toMetadata() *model.VideoMetadata {
	meta := &model.VideoMetadata{ID: i.ID, Title: i.Title}
	if i.Formats == nil {
		return meta
	}

	meta.Formats = make([]model.FormatDescriptor, 0, len(i.Formats))
	for _, f := range i.Formats {
		meta.Formats = append(meta.Formats, f.toDescriptor())
	}
	return meta
}

// toDescriptor maps one yt-dlp format. An acodec of "none" means the stream
// has no audio track.
func (f cliFormat) toDescriptor() model.FormatDescriptor {
	d := model.FormatDescriptor{
		FormatID:     f.FormatID,
		ContainerExt: f.Ext,
		VideoCodec:   nonEmpty(f.VCodec),
		DirectURL:    nonEmpty(f.URL),
	}

	if f.Height != nil && *f.Height > 0 {
		h := int(*f.Height)
		d.Resolution = &h
	}
	if ac := nonEmpty(f.ACodec); ac != nil && *ac != model.CodecNone {
		d.AudioCodec = ac
	}
	if f.Filesize != nil && *f.Filesize > 0 {
		size := int64(*f.Filesize)
		d.FilesizeBytes = &size
	}

	return d
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}

func lastLine(out []byte) string {
	var last string
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			last = line
		}
	}
	return last
}
