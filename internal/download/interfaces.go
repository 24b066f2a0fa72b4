package download

import (
	"context"

	"github.com/ytget/yt-downloader-web/internal/model"
)

// StreamDownloader is the part of the extraction engine the dispatcher uses.
// Download returns the path of the file it actually wrote.
type StreamDownloader interface {
	Download(ctx context.Context, url, formatID, dir string) (string, error)
}

// Dispatcher runs one download per call
type Dispatcher interface {
	Dispatch(ctx context.Context, req model.DownloadRequest) (*model.DownloadTask, error)
}
