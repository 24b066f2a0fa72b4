package formats

import (
	"context"

	"github.com/ytget/yt-downloader-web/internal/model"
)

// MetadataFetcher is the part of the extraction engine the lister uses
type MetadataFetcher interface {
	FetchMetadata(ctx context.Context, url string) (*model.VideoMetadata, error)
}

// Lister lists curated formats for a video URL
type Lister interface {
	Fetch(ctx context.Context, url string) ([]model.CuratedFormat, error)
	FetchListing(ctx context.Context, url string) (*Listing, error)
	List(ctx context.Context, url string) []model.CuratedFormat
}
