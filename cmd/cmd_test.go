package cmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/yt-downloader-web/internal/formats"
	"github.com/ytget/yt-downloader-web/internal/model"
	"github.com/ytget/yt-downloader-web/internal/platform"
)

const testURL = "https://www.youtube.com/watch?v=abc123"

type fakeEngine struct {
	meta *model.VideoMetadata
	opts platform.EngineOptions
}

func (f *fakeEngine) FetchMetadata(_ context.Context, _ string) (*model.VideoMetadata, error) {
	return f.meta, nil
}

func (f *fakeEngine) Download(_ context.Context, _ string, formatID, dir string) (string, error) {
	path := filepath.Join(dir, "clip."+formatID+".mp4")
	return path, os.WriteFile(path, []byte("12345678"), 0o644)
}

func ptr[T any](v T) *T { return &v }

func newTestApp(engine *fakeEngine) *app {
	a := newApp("1.2.3")
	a.newEngine = func(opts platform.EngineOptions) (platform.Engine, error) {
		engine.opts = opts
		return engine, nil
	}
	return a
}

func execute(ctx context.Context, a *app, args ...string) (string, error) {
	root := newRootCmd(a)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append(args, "--log-level", "error"))

	err := root.ExecuteContext(ctx)
	a.teardown()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(context.Background(), newTestApp(&fakeEngine{}), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "ytweb 1.2.3")
}

func TestFormats(t *testing.T) {
	engine := &fakeEngine{meta: &model.VideoMetadata{
		Title: "Sample Clip",
		Formats: []model.FormatDescriptor{
			{FormatID: "137", Resolution: ptr(1080), VideoCodec: ptr("avc1"), ContainerExt: "mp4", FilesizeBytes: ptr(int64(3_000_000))},
			{FormatID: "140", AudioCodec: ptr("mp4a.40.2"), VideoCodec: ptr("none"), ContainerExt: "m4a"},
			{FormatID: "399", Resolution: ptr(1080), VideoCodec: ptr("av01"), ContainerExt: "mp4"},
		},
	}}

	a := newTestApp(engine)
	out, err := execute(context.Background(), a, "formats", testURL, "--engine", "ytdlp", "--engine-timeout", "30s")
	require.NoError(t, err)

	assert.Contains(t, out, "Sample Clip")
	assert.Contains(t, out, "FORMAT")
	assert.Contains(t, out, "137")
	assert.Contains(t, out, "3.0 MB")
	assert.Contains(t, out, "140")
	assert.NotContains(t, out, "399")

	assert.Equal(t, platform.EngineYTDLP, engine.opts.Name)
	assert.Equal(t, "30s", engine.opts.Timeout.String())
}

func TestFormats_InvalidURL(t *testing.T) {
	_, err := execute(context.Background(), newTestApp(&fakeEngine{}), "formats", "not a url")
	require.Error(t, err)
	assert.True(t, formats.IsValidation(err))
}

func TestFormats_NeedsURL(t *testing.T) {
	_, err := execute(context.Background(), newTestApp(&fakeEngine{}), "formats")
	assert.Error(t, err)
}

func TestDownload(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	out, err := execute(context.Background(), newTestApp(&fakeEngine{}), "download", testURL, "22", "--dir", dir)
	require.NoError(t, err)

	expected := filepath.Join(dir, "clip.22.mp4")
	assert.Contains(t, out, expected)
	assert.Contains(t, out, "8 B")
	assert.FileExists(t, expected)
}

func TestServe_StopsOnCancel(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "downloads")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := execute(ctx, newTestApp(&fakeEngine{}), "serve", "--listen", "127.0.0.1:0", "--download-dir", dir, "--prometheus", "--secure-cookie")
	require.NoError(t, err)
	assert.DirExists(t, dir)
}

func TestConfigFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "ytweb.yaml")
	require.NoError(t, os.WriteFile(file, []byte("listen: 0.0.0.0:8080\nlanguage: pt\n"), 0o644))

	a := newTestApp(&fakeEngine{})
	_, err := execute(context.Background(), a, "version", "--config", file)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", a.settings.GetListenAddress())
	assert.Equal(t, "pt", a.settings.GetLanguage())
}
