package model

import "strconv"

// Display markers
const (
	// NotAvailable replaces optional fields the engine did not report.
	NotAvailable = "N/A"
	// NoAudio is shown as the audio codec of video-only entries.
	NoAudio = "None"
	// CodecNone is the engine sentinel for a missing track.
	CodecNone = "none"
)

// FormatDescriptor describes one stream variant as reported by the extraction
// engine. Optional fields are nil when the engine did not report them.
type FormatDescriptor struct {
	FormatID      string
	Resolution    *int    // vertical pixel count, nil for audio-only streams
	VideoCodec    *string // "none" means no video track
	AudioCodec    *string // nil means no audio track
	ContainerExt  string
	FilesizeBytes *int64
	DirectURL     *string
}

// HasAudio reports whether the stream carries an audio track
func (f FormatDescriptor) HasAudio() bool {
	return f.AudioCodec != nil
}

// HasResolution reports whether the engine reported a usable height
func (f FormatDescriptor) HasResolution() bool {
	return f.Resolution != nil && *f.Resolution > 0
}

// Filesize returns the reported size, or false when it is unknown
func (f FormatDescriptor) Filesize() (int64, bool) {
	if f.FilesizeBytes == nil || *f.FilesizeBytes <= 0 {
		return 0, false
	}
	return *f.FilesizeBytes, true
}

// CuratedFormat is one row of the user-facing format list. Every optional
// field is normalized to NotAvailable instead of being absent.
type CuratedFormat struct {
	FormatID   string `json:"format_id"`
	Resolution string `json:"resolution"`
	AudioCodec string `json:"audio_codec"`
	VideoCodec string `json:"video_codec"`
	Ext        string `json:"ext"`
	Filesize   string `json:"filesize"`
	URL        string `json:"url"`

	// Raw values kept for programmatic callers
	Height        int   `json:"height,omitempty"`
	FilesizeBytes int64 `json:"filesize_bytes,omitempty"`
	HasAudio      bool  `json:"has_audio"`
}

// VideoMetadata is the subset of an engine metadata response the app uses.
// Formats is nil when the response carried no formats field.
type VideoMetadata struct {
	ID      string
	Title   string
	Formats []FormatDescriptor
}

// NewCuratedFormat normalizes a descriptor into a display row.
// sizeFormatter renders known file sizes; nil falls back to a byte count.
func NewCuratedFormat(f FormatDescriptor, sizeFormatter func(int64) string) CuratedFormat {
	c := CuratedFormat{
		FormatID:   orNotAvailable(f.FormatID),
		Resolution: NotAvailable,
		AudioCodec: NoAudio,
		VideoCodec: NotAvailable,
		Ext:        orNotAvailable(f.ContainerExt),
		Filesize:   NotAvailable,
		URL:        NotAvailable,
		HasAudio:   f.HasAudio(),
	}

	if f.HasResolution() {
		c.Height = *f.Resolution
		c.Resolution = strconv.Itoa(*f.Resolution)
	}
	if f.AudioCodec != nil {
		c.AudioCodec = orNotAvailable(*f.AudioCodec)
	}
	if f.VideoCodec != nil {
		c.VideoCodec = orNotAvailable(*f.VideoCodec)
	}
	if size, ok := f.Filesize(); ok {
		c.FilesizeBytes = size
		if sizeFormatter != nil {
			c.Filesize = sizeFormatter(size)
		} else {
			c.Filesize = strconv.FormatInt(size, 10)
		}
	}
	if f.DirectURL != nil && *f.DirectURL != "" {
		c.URL = *f.DirectURL
	}

	return c
}

func orNotAvailable(s string) string {
	if s == "" {
		return NotAvailable
	}
	return s
}
