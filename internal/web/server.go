package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/ytget/yt-downloader-web/internal/download"
	"github.com/ytget/yt-downloader-web/internal/formats"
	"github.com/ytget/yt-downloader-web/internal/platform"
	"github.com/ytget/yt-downloader-web/internal/stats"
)

// Server timeouts. Writes are unbounded because a download blocks the
// request until the engine finishes.
const (
	ReadHeaderTimeout = 10 * time.Second
	IdleTimeout       = 120 * time.Second
	ShutdownTimeout   = 10 * time.Second
)

//go:embed templates/*.html
var templateFS embed.FS

// ErrMissingDependency is returned by NewServer when a collaborator is nil
var ErrMissingDependency = errors.New("web server dependency missing")

// Options wires the server to its collaborators
type Options struct {
	Addr         string
	DefaultDir   string
	Language     string
	FlashSecret  string
	SecureCookie bool
	Version      string

	Lister     formats.Lister
	Dispatcher download.Dispatcher
	Chooser    platform.DirectoryChooser
	Fs         afero.Fs
	Logger     *logrus.Entry
	Metrics    *stats.Metrics
}

// Server is the HTTP front-end
type Server struct {
	opts      Options
	lister    formats.Lister
	dispatch  download.Dispatcher
	chooser   platform.DirectoryChooser
	fs        afero.Fs
	logger    *logrus.Entry
	metrics   *stats.Metrics
	flash     *flashStore
	texts     *Localization
	templates *template.Template
	handler   http.Handler
}

// NewServer validates opts, parses the templates and builds the routes
func NewServer(opts Options) (*Server, error) {
	if opts.Lister == nil || opts.Dispatcher == nil || opts.Chooser == nil {
		return nil, ErrMissingDependency
	}
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Logger == nil {
		opts.Logger = logrus.NewEntry(logrus.StandardLogger())
	}

	flash, err := newFlashStore(opts.FlashSecret, opts.SecureCookie)
	if err != nil {
		return nil, fmt.Errorf("failed to init flash store: %w", err)
	}

	texts := NewLocalization()
	texts.SetLanguage(opts.Language)

	tmpl, err := template.New("").Funcs(template.FuncMap{
		"t":            texts.GetText,
		"downloadLink": downloadLink,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	s := &Server{
		opts:      opts,
		lister:    opts.Lister,
		dispatch:  opts.Dispatcher,
		chooser:   opts.Chooser,
		fs:        opts.Fs,
		logger:    opts.Logger,
		metrics:   opts.Metrics,
		flash:     flash,
		texts:     texts,
		templates: tmpl,
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)
	s.handler = s.withRequestLogging(mux)

	return s, nil
}

// Handler returns the root handler, including middleware
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe listens on opts.Addr and serves until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.opts.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	server := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: ReadHeaderTimeout,
		IdleTimeout:       IdleTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	logger := s.logger.WithField("addr", ln.Addr().String())

	// A failing listener cancels gctx, so the shutdown member always returns
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting web server")
		if err := server.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("stopping web server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// downloadLink builds the per-row download URL
func downloadLink(formatID, videoURL, dir string) string {
	q := url.Values{}
	q.Set("url", videoURL)
	if dir != "" {
		q.Set("dir", dir)
	}
	return "/download_video/" + url.PathEscape(formatID) + "?" + q.Encode()
}
