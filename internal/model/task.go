package model

import (
	"path/filepath"
	"strings"
	"time"
)

// DownloadRequest is the input of a single dispatch
type DownloadRequest struct {
	URL         string
	FormatID    string
	Destination string
}

// DownloadTask records the outcome of a single dispatch
type DownloadTask struct {
	ID          string     `json:"id"`
	URL         string     `json:"url"`
	FormatID    string     `json:"format_id"`
	Destination string     `json:"destination"`
	Status      TaskStatus `json:"status"`
	LastError   string     `json:"error,omitempty"`       // last error message if any
	OutputPath  string     `json:"output_path,omitempty"` // path reported by the engine
	Title       string     `json:"title,omitempty"`
	FileSize    int64      `json:"file_size,omitempty"` // bytes
	StartedAt   time.Time  `json:"started_at"`
	FinishedAt  time.Time  `json:"finished_at,omitempty"`
}

// Duration returns how long the task ran, zero while it is unfinished
func (dt *DownloadTask) Duration() time.Duration {
	if dt.FinishedAt.IsZero() || dt.StartedAt.IsZero() {
		return 0
	}
	return dt.FinishedAt.Sub(dt.StartedAt)
}

// FileName returns the base name of the written file
func (dt *DownloadTask) FileName() string {
	if dt.OutputPath == "" {
		return ""
	}
	return filepath.Base(dt.OutputPath)
}

// GetDisplayTitle returns title, filename, or URL in order of preference
func (dt *DownloadTask) GetDisplayTitle() string {
	// First priority: video title (non-URL)
	if dt.Title != "" && !strings.HasPrefix(dt.Title, "http") {
		return dt.Title
	}

	// Second priority: filename from OutputPath
	if dt.OutputPath != "" {
		// Support both / and \ separators
		parts := strings.FieldsFunc(dt.OutputPath, func(r rune) bool {
			return r == '/' || r == '\\'
		})
		if len(parts) > 0 {
			filename := parts[len(parts)-1]
			if idx := strings.LastIndex(filename, "."); idx > 0 {
				filename = filename[:idx]
			}
			return filename
		}
	}

	return dt.URL
}
