package formats

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ytget/yt-downloader-web/internal/model"
	"github.com/ytget/yt-downloader-web/internal/platform"
	"github.com/ytget/yt-downloader-web/internal/stats"
)

// Listing is a curated format list together with the video it belongs to
type Listing struct {
	URL     string                `json:"url"`
	ID      string                `json:"id,omitempty"`
	Title   string                `json:"title"`
	Formats []model.CuratedFormat `json:"formats"`
}

// Service lists formats through an extraction engine
type Service struct {
	engine  MetadataFetcher
	logger  *logrus.Entry
	metrics *stats.Metrics
}

// NewService creates a format lister. logger and metrics may be nil.
func NewService(engine MetadataFetcher, logger *logrus.Entry, metrics *stats.Metrics) *Service {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Service{
		engine:  engine,
		logger:  logger,
		metrics: metrics,
	}
}

// FetchListing queries the engine once and curates the result.
//
// Errors: *ValidationError for a missing or malformed URL (the engine is not
// called), *ExtractionError when the engine fails, ErrNoFormats when the
// engine succeeded but the curated list is empty.
func (s *Service) FetchListing(ctx context.Context, url string) (*Listing, error) {
	url = platform.CleanURL(url)
	if err := platform.ValidateURL(url); err != nil {
		s.metrics.ObserveLookup(stats.ResultInvalid, 0)
		return nil, &ValidationError{Field: "url", Err: err}
	}

	if platform.IsPlaylistURL(url) {
		s.logger.WithField("playlist", platform.ExtractPlaylistID(url)).Debug("playlist parameters ignored")
	}

	meta, err := s.engine.FetchMetadata(ctx, url)
	if err != nil {
		s.metrics.ObserveLookup(stats.ResultEngine, 0)
		return nil, &ExtractionError{URL: url, Err: err}
	}
	if meta == nil {
		meta = &model.VideoMetadata{}
	}

	listing := &Listing{
		URL:     url,
		ID:      meta.ID,
		Title:   strings.TrimSpace(meta.Title),
		Formats: Curate(meta.Formats),
	}

	s.logger.WithFields(logrus.Fields{
		"url":     url,
		"raw":     len(meta.Formats),
		"curated": len(listing.Formats),
	}).Debug("formats curated")

	if len(listing.Formats) == 0 {
		s.metrics.ObserveLookup(stats.ResultNoFormats, 0)
		return listing, ErrNoFormats
	}

	s.metrics.ObserveLookup(stats.ResultOK, len(listing.Formats))
	return listing, nil
}

// Fetch returns the curated formats for url. See FetchListing for errors.
func (s *Service) Fetch(ctx context.Context, url string) ([]model.CuratedFormat, error) {
	listing, err := s.FetchListing(ctx, url)
	if listing == nil {
		return []model.CuratedFormat{}, err
	}
	return listing.Formats, err
}

// List returns the curated formats for url, or an empty list on any failure.
// Failures are logged and never returned.
func (s *Service) List(ctx context.Context, url string) []model.CuratedFormat {
	curated, err := s.Fetch(ctx, url)
	if err != nil {
		entry := s.logger.WithField("url", url).WithError(err)
		if errors.Is(err, ErrNoFormats) || IsValidation(err) {
			entry.Info("no formats listed")
		} else {
			entry.Warn("format lookup failed")
		}
		return []model.CuratedFormat{}
	}
	return curated
}
