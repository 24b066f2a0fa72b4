package platform

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/yt-downloader-web/internal/log"
)

const sampleYTDLPJSON = `{
  "id": "abc123",
  "title": "Sample Clip",
  "formats": [
    {"format_id": "sb0", "ext": "mhtml", "acodec": "none", "vcodec": "none"},
    {"format_id": "140", "ext": "m4a", "acodec": "mp4a.40.2", "vcodec": "none", "filesize": 3145728, "url": "https://cdn.example/140"},
    {"format_id": "137", "ext": "mp4", "height": 1080, "acodec": "none", "vcodec": "avc1.640028", "filesize": null},
    {"format_id": "22", "ext": "mp4", "height": 720, "acodec": "mp4a.40.2", "vcodec": "avc1.64001F", "filesize": 0}
  ]
}`

type recordedCall struct {
	name string
	args []string
}

type fakeRunner struct {
	stdout []byte
	stderr []byte
	err    error
	calls  []recordedCall
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	f.calls = append(f.calls, recordedCall{name: name, args: args})
	return f.stdout, f.stderr, f.err
}

func newTestCLIEngine(r *fakeRunner) *CLIEngine {
	e := NewCLIEngine(EngineOptions{Name: EngineYTDLP, YTDLPPath: "/usr/local/bin/yt-dlp", Logger: log.Discard()})
	e.SetRunner(r.Run)
	return e
}

func TestCLIEngine_FetchMetadata(t *testing.T) {
	r := &fakeRunner{stdout: []byte(sampleYTDLPJSON)}
	e := newTestCLIEngine(r)

	meta, err := e.FetchMetadata(context.Background(), "https://youtu.be/abc123")
	require.NoError(t, err)
	require.Len(t, r.calls, 1)

	assert.Equal(t, "/usr/local/bin/yt-dlp", r.calls[0].name)
	assert.Equal(t, []string{"-J", "--no-playlist", "--quiet", "--no-warnings", "https://youtu.be/abc123"}, r.calls[0].args)

	assert.Equal(t, "Sample Clip", meta.Title)
	require.Len(t, meta.Formats, 4)

	storyboard := meta.Formats[0]
	assert.False(t, storyboard.HasAudio(), "acodec none maps to no audio")
	assert.False(t, storyboard.HasResolution())

	audio := meta.Formats[1]
	assert.True(t, audio.HasAudio())
	size, ok := audio.Filesize()
	assert.True(t, ok)
	assert.EqualValues(t, 3145728, size)
	require.NotNil(t, audio.DirectURL)
	assert.Equal(t, "https://cdn.example/140", *audio.DirectURL)

	video := meta.Formats[2]
	assert.False(t, video.HasAudio())
	require.NotNil(t, video.Resolution)
	assert.Equal(t, 1080, *video.Resolution)
	_, ok = video.Filesize()
	assert.False(t, ok, "null filesize is unknown")

	muxed := meta.Formats[3]
	_, ok = muxed.Filesize()
	assert.False(t, ok, "zero filesize is unknown")
	assert.Nil(t, muxed.DirectURL)
}

func TestCLIEngine_FetchMetadataMissingFormats(t *testing.T) {
	e := newTestCLIEngine(&fakeRunner{stdout: []byte(`{"id":"x","title":"No formats"}`)})

	meta, err := e.FetchMetadata(context.Background(), "https://youtu.be/x")
	require.NoError(t, err)
	assert.Nil(t, meta.Formats)
}

func TestCLIEngine_FetchMetadataBadJSON(t *testing.T) {
	e := newTestCLIEngine(&fakeRunner{stdout: []byte("not json")})

	_, err := e.FetchMetadata(context.Background(), "https://youtu.be/x")
	assert.Error(t, err)
}

func TestCLIEngine_ExitError(t *testing.T) {
	r := &fakeRunner{
		stderr: []byte("ERROR: [youtube] x: Private video\n"),
		err:    errors.New("exit status 1"),
	}
	e := newTestCLIEngine(r)

	_, err := e.FetchMetadata(context.Background(), "https://youtu.be/x")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEngineFailed)
	assert.Contains(t, err.Error(), "Private video")
}

func TestCLIEngine_Download(t *testing.T) {
	r := &fakeRunner{stdout: []byte("[download] 100%\n/out/Sample Clip.mp4\n\n")}
	e := newTestCLIEngine(r)

	path, err := e.Download(context.Background(), "https://youtu.be/abc123", "22", "/out")
	require.NoError(t, err)
	assert.Equal(t, "/out/Sample Clip.mp4", path)

	require.Len(t, r.calls, 1)
	assert.Equal(t, []string{
		"-f", "22",
		"--no-playlist",
		"--no-warnings",
		"-o", "/out/%(title)s.%(ext)s",
		"--print", "after_move:filepath",
		"https://youtu.be/abc123",
	}, r.calls[0].args)
}

func TestCLIEngine_DownloadNoOutput(t *testing.T) {
	e := newTestCLIEngine(&fakeRunner{stdout: []byte("\n")})

	_, err := e.Download(context.Background(), "https://youtu.be/abc123", "22", "/out")
	assert.ErrorIs(t, err, ErrNoOutput)
}

func TestCLIEngine_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e := newTestCLIEngine(&fakeRunner{err: errors.New("signal: killed")})

	_, err := e.Download(ctx, "https://youtu.be/abc123", "22", "/out")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewEngine(t *testing.T) {
	tests := []struct {
		name    string
		engine  string
		wantErr bool
	}{
		{"default", "", false},
		{"native", EngineNative, false},
		{"cli", EngineYTDLP, false},
		{"unknown", "ffmpeg", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := NewEngine(EngineOptions{Name: tt.engine, Logger: log.Discard()})
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownEngine)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, e)
		})
	}
}
