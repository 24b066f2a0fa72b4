package download

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/ytget/yt-downloader-web/internal/model"
	"github.com/ytget/yt-downloader-web/internal/platform"
	"github.com/ytget/yt-downloader-web/internal/stats"
)

// Task id prefix
const TaskIDPrefix = "task-"

// ErrDestinationNotSelected means the directory selection was cancelled
var ErrDestinationNotSelected = errors.New("download location not selected")

// Service dispatches downloads to the extraction engine
type Service struct {
	engine   StreamDownloader
	chooser  platform.DirectoryChooser
	fs       afero.Fs
	logger   *logrus.Entry
	metrics  *stats.Metrics
	onUpdate func(*model.DownloadTask)
	now      func() time.Time
}

// NewService creates a dispatcher. fs is where output files are looked up;
// logger and metrics may be nil.
func NewService(engine StreamDownloader, chooser platform.DirectoryChooser, fs afero.Fs, logger *logrus.Entry, metrics *stats.Metrics) *Service {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Service{
		engine:  engine,
		chooser: chooser,
		fs:      fs,
		logger:  logger,
		metrics: metrics,
		now:     time.Now,
	}
}

// SetUpdateCallback sets the callback invoked on every task status change
func (s *Service) SetUpdateCallback(callback func(*model.DownloadTask)) {
	s.onUpdate = callback
}

// Dispatch validates req, resolves its destination and downloads exactly the
// requested stream.
//
// Validation failures and a cancelled directory selection return a nil task
// and a *ValidationError without calling the engine. Later failures return the
// task in Error state together with an *ExtractionError (engine failed) or a
// *DownloadError (destination unusable, output missing).
func (s *Service) Dispatch(ctx context.Context, req model.DownloadRequest) (*model.DownloadTask, error) {
	req.URL = platform.CleanURL(req.URL)
	req.FormatID = strings.TrimSpace(req.FormatID)

	if err := s.validate(req); err != nil {
		s.metrics.ObserveDownload(stats.ResultInvalid, 0, 0)
		return nil, err
	}

	dir, err := s.chooser.ChooseDirectory(ctx, req.Destination)
	switch {
	case errors.Is(err, platform.ErrOutsideRoot):
		s.metrics.ObserveDownload(stats.ResultInvalid, 0, 0)
		return nil, &ValidationError{Field: "destination", Err: err}
	case err != nil:
		s.metrics.ObserveDownload(stats.ResultWriteError, 0, 0)
		return nil, &DownloadError{Path: req.Destination, Err: err}
	case dir == "":
		s.metrics.ObserveDownload(stats.ResultCancelled, 0, 0)
		return nil, &ValidationError{Field: "destination", Err: ErrDestinationNotSelected}
	}

	task := &model.DownloadTask{
		ID:          generateTaskID(),
		URL:         req.URL,
		FormatID:    req.FormatID,
		Destination: dir,
		Status:      model.TaskStatusPending,
		StartedAt:   s.now(),
	}
	logger := s.logger.WithFields(logrus.Fields{
		"task":      task.ID,
		"url":       task.URL,
		"format_id": task.FormatID,
		"dir":       dir,
	})
	s.notifyUpdate(task)

	task.Status = model.TaskStatusDownloading
	logger.Info("download started")
	s.notifyUpdate(task)

	written, err := s.engine.Download(ctx, req.URL, req.FormatID, dir)
	if err != nil {
		s.fail(task, logger, stats.ResultEngine, err)
		return task, &ExtractionError{URL: req.URL, Err: err}
	}

	found, err := platform.FindOutputFile(s.fs, written)
	if err != nil {
		s.fail(task, logger, stats.ResultWriteError, err)
		return task, &DownloadError{Path: written, Err: err}
	}
	if found != written {
		logger.WithFields(logrus.Fields{"reported": written, "found": found}).Warn("engine changed the output container")
	}

	task.OutputPath = found
	task.Title = strings.TrimSuffix(filepath.Base(found), filepath.Ext(found))
	if size, err := platform.FileSize(s.fs, found); err == nil {
		task.FileSize = size
	}
	task.Status = model.TaskStatusCompleted
	task.FinishedAt = s.now()

	logger.WithFields(logrus.Fields{
		"output":   task.OutputPath,
		"size":     task.FileSize,
		"duration": task.Duration().String(),
	}).Info("download completed")
	s.metrics.ObserveDownload(stats.ResultOK, task.Duration(), task.FileSize)
	s.notifyUpdate(task)

	return task, nil
}

func (s *Service) validate(req model.DownloadRequest) error {
	if req.URL == "" {
		return &ValidationError{Field: "url", Err: platform.ErrEmptyURL}
	}
	if err := platform.ValidateURL(req.URL); err != nil {
		return &ValidationError{Field: "url", Err: err}
	}
	if req.FormatID == "" {
		return &ValidationError{Field: "format_id", Reason: "is required"}
	}
	return nil
}

func (s *Service) fail(task *model.DownloadTask, logger *logrus.Entry, result string, err error) {
	task.Status = model.TaskStatusError
	task.LastError = err.Error()
	task.FinishedAt = s.now()

	logger.WithError(err).Error("download failed")
	s.metrics.ObserveDownload(result, task.Duration(), 0)
	s.notifyUpdate(task)
}

// notifyUpdate calls the update callback if set
func (s *Service) notifyUpdate(task *model.DownloadTask) {
	if s.onUpdate != nil {
		s.onUpdate(task)
	}
}

// generateTaskID generates a unique task ID
func generateTaskID() string {
	return fmt.Sprintf("%s%s", TaskIDPrefix, uuid.NewString())
}
