package platform

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/ytget/ytdlp/types"
	"github.com/ytget/ytdlp/v2"

	"github.com/ytget/yt-downloader-web/internal/model"
)

// Format selector understood by the native library
const (
	ItagSelectorPrefix = "itag="
)

// Container extensions derived from MIME types
const (
	ExtMP4  = "mp4"
	ExtM4A  = "m4a"
	ExtWebM = "webm"
)

// Progress is logged every ProgressLogStep percent
const ProgressLogStep = 10.0

var qualityHeight = regexp.MustCompile(`^\s*(\d{2,4})p`)

// nativeClient is the part of the library the engine needs
type nativeClient interface {
	Resolve(ctx context.Context, url string) (*ytdlp.VideoInfo, error)
	Fetch(ctx context.Context, url string, itag int, outputPath string) error
}

// NativeEngine extracts and downloads with the in-process ytdlp library.
// Format ids are itags.
type NativeEngine struct {
	client   nativeClient
	opts     EngineOptions
	logger   *logrus.Entry
	template string
}

// NewNativeEngine creates the in-process engine
func NewNativeEngine(opts EngineOptions) *NativeEngine {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	logger = logger.WithField("engine", EngineNative)

	return &NativeEngine{
		client:   &libraryClient{httpClient: opts.HTTPClient, logger: logger},
		opts:     opts,
		logger:   logger,
		template: opts.FilenameTemplate,
	}
}

// FetchMetadata returns the title and every format the library reports
func (e *NativeEngine) FetchMetadata(ctx context.Context, url string) (*model.VideoMetadata, error) {
	ctx, cancel := withTimeout(ctx, e.opts.Timeout)
	defer cancel()

	url = StripPlaylistParams(CleanURL(url))
	info, err := e.client.Resolve(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch metadata: %w", err)
	}
	return metadataFromInfo(info), nil
}

// Download writes the stream with the given itag into dir and returns the
// written path.
func (e *NativeEngine) Download(ctx context.Context, url, formatID, dir string) (string, error) {
	ctx, cancel := withTimeout(ctx, e.opts.Timeout)
	defer cancel()

	itag, err := strconv.Atoi(strings.TrimSpace(formatID))
	if err != nil || itag <= 0 {
		return "", fmt.Errorf("%w: %q", ErrFormatNotFound, formatID)
	}

	url = StripPlaylistParams(CleanURL(url))
	info, err := e.client.Resolve(ctx, url)
	if err != nil {
		return "", fmt.Errorf("failed to fetch metadata: %w", err)
	}

	// The library silently falls back to another stream for unknown itags
	format, ok := findItag(info.Formats, itag)
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrFormatNotFound, itag)
	}

	name := ExpandTemplate(e.template, info.ID, info.Title, extFromMime(format.MimeType))
	outputPath := filepath.Join(dir, name)

	e.logger.WithFields(logrus.Fields{
		"itag":   itag,
		"output": outputPath,
	}).Debug("starting native download")

	if err := e.client.Fetch(ctx, url, itag, outputPath); err != nil {
		return "", fmt.Errorf("failed to download itag %d: %w", itag, err)
	}

	return outputPath, nil
}

func findItag(formats []types.Format, itag int) (types.Format, bool) {
	for _, f := range formats {
		if f.Itag == itag {
			return f, true
		}
	}
	return types.Format{}, false
}

func metadataFromInfo(info *ytdlp.VideoInfo) *model.VideoMetadata {
	if info == nil {
		return &model.VideoMetadata{}
	}

	meta := &model.VideoMetadata{ID: info.ID, Title: info.Title}
	if info.Formats == nil {
		return meta
	}

	meta.Formats = make([]model.FormatDescriptor, 0, len(info.Formats))
	for _, f := range info.Formats {
		meta.Formats = append(meta.Formats, descriptorFromFormat(f))
	}
	return meta
}

// descriptorFromFormat maps a library format onto the engine-neutral
// descriptor. Codecs come from the MIME "codecs" parameter: for video types the
// first codec is the video track and any further one is audio.
func descriptorFromFormat(f types.Format) model.FormatDescriptor {
	d := model.FormatDescriptor{
		FormatID:     strconv.Itoa(f.Itag),
		ContainerExt: extFromMime(f.MimeType),
	}

	if m := qualityHeight.FindStringSubmatch(f.Quality); m != nil {
		if h, err := strconv.Atoi(m[1]); err == nil && h > 0 {
			d.Resolution = &h
		}
	}

	mediaType, codecs := parseMimeType(f.MimeType)
	switch {
	case strings.HasPrefix(mediaType, "audio/"):
		none := model.CodecNone
		d.VideoCodec = &none
		if len(codecs) > 0 {
			d.AudioCodec = &codecs[0]
		}
	case strings.HasPrefix(mediaType, "video/"):
		if len(codecs) > 0 {
			d.VideoCodec = &codecs[0]
		}
		if len(codecs) > 1 {
			d.AudioCodec = &codecs[1]
		}
	}

	if f.Size > 0 {
		size := f.Size
		d.FilesizeBytes = &size
	}
	if f.URL != "" {
		u := f.URL
		d.DirectURL = &u
	}

	return d
}

func parseMimeType(value string) (string, []string) {
	mediaType, params, err := mime.ParseMediaType(value)
	if err != nil {
		return "", nil
	}

	var codecs []string
	for _, c := range strings.Split(params["codecs"], ",") {
		if c = strings.TrimSpace(c); c != "" {
			codecs = append(codecs, c)
		}
	}
	return mediaType, codecs
}

// extFromMime returns the container extension for a MIME type, falling back
// to the subtype and then mp4
func extFromMime(value string) string {
	mediaType, _ := parseMimeType(value)
	switch mediaType {
	case "":
		return ExtMP4
	case "video/mp4":
		return ExtMP4
	case "audio/mp4":
		return ExtM4A
	case "video/webm", "audio/webm":
		return ExtWebM
	}
	if i := strings.Index(mediaType, "/"); i >= 0 && i < len(mediaType)-1 {
		return mediaType[i+1:]
	}
	return ExtMP4
}

// libraryClient drives github.com/ytget/ytdlp/v2
type libraryClient struct {
	httpClient *http.Client
	logger     *logrus.Entry
}

func (c *libraryClient) newDownloader() *ytdlp.Downloader {
	d := ytdlp.New()
	if c.httpClient != nil {
		d = d.WithHTTPClient(c.httpClient)
	}
	return d
}

func (c *libraryClient) Resolve(ctx context.Context, url string) (*ytdlp.VideoInfo, error) {
	_, info, err := c.newDownloader().ResolveURL(ctx, url)
	if err != nil {
		return nil, err
	}
	return info, nil
}

func (c *libraryClient) Fetch(ctx context.Context, url string, itag int, outputPath string) error {
	next := ProgressLogStep
	d := c.newDownloader().
		WithFormat(ItagSelectorPrefix+strconv.Itoa(itag), "").
		WithOutputPath(outputPath).
		WithProgress(func(p ytdlp.Progress) {
			if p.Percent < next {
				return
			}
			next = p.Percent + ProgressLogStep
			c.logger.WithFields(logrus.Fields{
				"percent":    fmt.Sprintf("%.0f", p.Percent),
				"downloaded": p.DownloadedSize,
				"total":      p.TotalSize,
			}).Debug("download progress")
		})

	_, err := d.Download(ctx, url)
	return err
}
