package platform

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/ytget/yt-downloader-web/internal/model"
)

// Engine names, mirrored by config
const (
	EngineNative = "native"
	EngineYTDLP  = "ytdlp"
)

var (
	// ErrUnknownEngine is returned by NewEngine for unsupported names
	ErrUnknownEngine = errors.New("unknown extraction engine")
	// ErrFormatNotFound means the engine does not offer the requested format id
	ErrFormatNotFound = errors.New("format not offered for this video")
	// ErrNoOutput means the engine reported success without a written file
	ErrNoOutput = errors.New("engine reported no output file")
)

// Engine is the external extraction engine. FetchMetadata never expands
// playlists; Download writes exactly one stream and returns the path it wrote.
type Engine interface {
	FetchMetadata(ctx context.Context, url string) (*model.VideoMetadata, error)
	Download(ctx context.Context, url, formatID, dir string) (string, error)
}

// EngineOptions configures NewEngine
type EngineOptions struct {
	Name             string
	YTDLPPath        string
	Timeout          time.Duration
	FilenameTemplate string
	HTTPClient       *http.Client
	Fs               afero.Fs
	Logger           *logrus.Entry
}

// NewEngine builds the engine selected by opts.Name
func NewEngine(opts EngineOptions) (Engine, error) {
	switch opts.Name {
	case EngineNative, "":
		return NewNativeEngine(opts), nil
	case EngineYTDLP:
		return NewCLIEngine(opts), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownEngine, opts.Name)
	}
}

// withTimeout applies the optional per-call timeout
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
