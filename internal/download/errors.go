package download

import (
	"errors"
	"fmt"

	"github.com/ytget/yt-downloader-web/internal/formats"
)

// Error kinds shared with the format lister
type (
	ValidationError = formats.ValidationError
	ExtractionError = formats.ExtractionError
)

// DownloadError reports a destination or output file problem after the
// request was accepted
type DownloadError struct {
	Path string
	Err  error
}

func (e *DownloadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("download failed: %v", e.Err)
	}
	return fmt.Sprintf("download failed for %s: %v", e.Path, e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }

// IsDownload reports whether err is, or wraps, a *DownloadError
func IsDownload(err error) bool {
	var de *DownloadError
	return errors.As(err, &de)
}
