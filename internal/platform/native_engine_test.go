package platform

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/ytget/ytdlp/errs"
	"github.com/ytget/ytdlp/types"
	"github.com/ytget/ytdlp/v2"

	"github.com/ytget/yt-downloader-web/internal/log"
	"github.com/ytget/yt-downloader-web/internal/model"
)

type fakeNativeClient struct {
	info       *ytdlp.VideoInfo
	resolveErr error
	fetchErr   error

	resolvedURL string
	fetchedItag int
	fetchedPath string
	fetchCalls  int
}

func (f *fakeNativeClient) Resolve(_ context.Context, url string) (*ytdlp.VideoInfo, error) {
	f.resolvedURL = url
	return f.info, f.resolveErr
}

func (f *fakeNativeClient) Fetch(_ context.Context, _ string, itag int, outputPath string) error {
	f.fetchCalls++
	f.fetchedItag = itag
	f.fetchedPath = outputPath
	return f.fetchErr
}

func newTestNativeEngine(client nativeClient) *NativeEngine {
	e := NewNativeEngine(EngineOptions{Logger: log.Discard()})
	e.client = client
	return e
}

func sampleInfo() *ytdlp.VideoInfo {
	return &ytdlp.VideoInfo{
		ID:    "abc123",
		Title: "Sample: Clip",
		Formats: []types.Format{
			{Itag: 18, Quality: "360p", MimeType: `video/mp4; codecs="avc1.42001E, mp4a.40.2"`, Size: 1000, URL: "https://cdn.example/18"},
			{Itag: 137, Quality: "1080p", MimeType: `video/mp4; codecs="avc1.640028"`, Size: 5000},
			{Itag: 248, Quality: "1080p60", MimeType: `video/webm; codecs="vp9"`},
			{Itag: 140, MimeType: `audio/mp4; codecs="mp4a.40.2"`, Size: 300},
		},
	}
}

func TestDescriptorFromFormat(t *testing.T) {
	tests := []struct {
		name       string
		format     types.Format
		formatID   string
		height     int
		videoCodec string
		audioCodec string
		ext        string
		size       int64
		url        string
	}{
		{
			name:       "progressive stream",
			format:     sampleInfo().Formats[0],
			formatID:   "18",
			height:     360,
			videoCodec: "avc1.42001E",
			audioCodec: "mp4a.40.2",
			ext:        "mp4",
			size:       1000,
			url:        "https://cdn.example/18",
		},
		{
			name:       "video only stream",
			format:     sampleInfo().Formats[1],
			formatID:   "137",
			height:     1080,
			videoCodec: "avc1.640028",
			ext:        "mp4",
			size:       5000,
		},
		{
			name:       "high frame rate label",
			format:     sampleInfo().Formats[2],
			formatID:   "248",
			height:     1080,
			videoCodec: "vp9",
			ext:        "webm",
		},
		{
			name:       "audio only stream",
			format:     sampleInfo().Formats[3],
			formatID:   "140",
			videoCodec: model.CodecNone,
			audioCodec: "mp4a.40.2",
			ext:        "m4a",
			size:       300,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := descriptorFromFormat(tt.format)

			if d.FormatID != tt.formatID {
				t.Errorf("expected format id %q, got %q", tt.formatID, d.FormatID)
			}
			if tt.height == 0 {
				if d.Resolution != nil {
					t.Errorf("expected no resolution, got %d", *d.Resolution)
				}
			} else if d.Resolution == nil || *d.Resolution != tt.height {
				t.Errorf("expected resolution %d, got %v", tt.height, d.Resolution)
			}
			if d.VideoCodec == nil || *d.VideoCodec != tt.videoCodec {
				t.Errorf("expected video codec %q, got %v", tt.videoCodec, d.VideoCodec)
			}
			if tt.audioCodec == "" {
				if d.AudioCodec != nil {
					t.Errorf("expected no audio codec, got %q", *d.AudioCodec)
				}
			} else if d.AudioCodec == nil || *d.AudioCodec != tt.audioCodec {
				t.Errorf("expected audio codec %q, got %v", tt.audioCodec, d.AudioCodec)
			}
			if d.ContainerExt != tt.ext {
				t.Errorf("expected ext %q, got %q", tt.ext, d.ContainerExt)
			}
			if size, ok := d.Filesize(); tt.size != 0 && (!ok || size != tt.size) {
				t.Errorf("expected size %d, got %d (known=%v)", tt.size, size, ok)
			} else if tt.size == 0 && ok {
				t.Errorf("expected unknown size, got %d", size)
			}
			if tt.url == "" && d.DirectURL != nil {
				t.Errorf("expected no direct URL, got %q", *d.DirectURL)
			}
			if tt.url != "" && (d.DirectURL == nil || *d.DirectURL != tt.url) {
				t.Errorf("expected direct URL %q, got %v", tt.url, d.DirectURL)
			}
		})
	}
}

func TestExtFromMime(t *testing.T) {
	tests := map[string]string{
		"":                          "mp4",
		"video/mp4":                 "mp4",
		`audio/mp4; codecs="mp4a"`:  "m4a",
		`video/webm; codecs="vp9"`:  "webm",
		"audio/webm":                "webm",
		"video/3gpp":                "3gpp",
		"not a mime type at all ;;": "mp4",
	}

	for in, expected := range tests {
		if got := extFromMime(in); got != expected {
			t.Errorf("extFromMime(%q): expected %q, got %q", in, expected, got)
		}
	}
}

func TestMetadataFromInfo(t *testing.T) {
	meta := metadataFromInfo(sampleInfo())
	if meta.Title != "Sample: Clip" || meta.ID != "abc123" {
		t.Errorf("unexpected metadata header: %+v", meta)
	}
	if len(meta.Formats) != 4 {
		t.Fatalf("expected 4 formats, got %d", len(meta.Formats))
	}
	for i, want := range []string{"18", "137", "248", "140"} {
		if meta.Formats[i].FormatID != want {
			t.Errorf("format %d: expected %q, got %q", i, want, meta.Formats[i].FormatID)
		}
	}

	empty := metadataFromInfo(&ytdlp.VideoInfo{Title: "no formats"})
	if empty.Formats != nil {
		t.Errorf("expected nil formats, got %v", empty.Formats)
	}
}

func TestNativeEngine_FetchMetadataStripsPlaylist(t *testing.T) {
	client := &fakeNativeClient{info: sampleInfo()}
	e := newTestNativeEngine(client)

	meta, err := e.FetchMetadata(context.Background(), "https://www.youtube.com/watch?v=abc123&list=PL1&index=2\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.resolvedURL != "https://www.youtube.com/watch?v=abc123" {
		t.Errorf("expected playlist params stripped, got %q", client.resolvedURL)
	}
	if len(meta.Formats) != 4 {
		t.Errorf("expected 4 formats, got %d", len(meta.Formats))
	}
}

func TestNativeEngine_FetchMetadataError(t *testing.T) {
	e := newTestNativeEngine(&fakeNativeClient{resolveErr: errs.ErrPrivate})

	_, err := e.FetchMetadata(context.Background(), "https://youtu.be/abc123")
	if !errors.Is(err, errs.ErrPrivate) {
		t.Errorf("expected engine sentinel to stay reachable, got %v", err)
	}
}

func TestNativeEngine_Download(t *testing.T) {
	client := &fakeNativeClient{info: sampleInfo()}
	e := newTestNativeEngine(client)

	path, err := e.Download(context.Background(), "https://youtu.be/abc123", "140", "/out")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := filepath.Join("/out", "Sample_ Clip.m4a")
	if path != expected {
		t.Errorf("expected path %q, got %q", expected, path)
	}
	if client.fetchedItag != 140 {
		t.Errorf("expected itag 140, got %d", client.fetchedItag)
	}
	if client.fetchedPath != expected {
		t.Errorf("expected output path passed to library, got %q", client.fetchedPath)
	}
}

func TestNativeEngine_DownloadUnknownFormat(t *testing.T) {
	tests := []struct {
		name     string
		formatID string
	}{
		{"not offered", "999"},
		{"not an itag", "bestvideo"},
		{"negative", "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeNativeClient{info: sampleInfo()}
			e := newTestNativeEngine(client)

			_, err := e.Download(context.Background(), "https://youtu.be/abc123", tt.formatID, "/out")
			if !errors.Is(err, ErrFormatNotFound) {
				t.Errorf("expected ErrFormatNotFound, got %v", err)
			}
			if client.fetchCalls != 0 {
				t.Errorf("expected no download attempt, got %d", client.fetchCalls)
			}
		})
	}
}

func TestNativeEngine_DownloadFetchError(t *testing.T) {
	client := &fakeNativeClient{info: sampleInfo(), fetchErr: errs.ErrRateLimited}
	e := newTestNativeEngine(client)

	_, err := e.Download(context.Background(), "https://youtu.be/abc123", "18", "/out")
	if !errors.Is(err, errs.ErrRateLimited) {
		t.Errorf("expected wrapped rate limit error, got %v", err)
	}
}
