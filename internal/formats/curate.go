package formats

import (
	"github.com/dustin/go-humanize"

	"github.com/ytget/yt-downloader-web/internal/model"
)

// Curate reduces a raw engine format list to the user-facing list.
//
// A descriptor with an audio track is always kept. A descriptor without audio
// is kept only if it reports a resolution not seen before among kept
// audio-less descriptors. Anything else is dropped. The input order is kept.
func Curate(raw []model.FormatDescriptor) []model.CuratedFormat {
	curated := make([]model.CuratedFormat, 0, len(raw))
	seen := make(map[int]struct{})

	for _, f := range raw {
		switch {
		case f.HasAudio():
			curated = append(curated, model.NewCuratedFormat(f, FormatSize))
		case f.HasResolution():
			if _, ok := seen[*f.Resolution]; ok {
				continue
			}
			seen[*f.Resolution] = struct{}{}
			curated = append(curated, model.NewCuratedFormat(f, FormatSize))
		}
	}

	return curated
}

// FormatSize renders a byte count for display, e.g. "3.1 MB"
func FormatSize(size int64) string {
	if size < 0 {
		return model.NotAvailable
	}
	return humanize.Bytes(uint64(size))
}
