package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/ytget/yt-downloader-web/internal/config"
	"github.com/ytget/yt-downloader-web/internal/download"
	"github.com/ytget/yt-downloader-web/internal/formats"
	"github.com/ytget/yt-downloader-web/internal/log"
	"github.com/ytget/yt-downloader-web/internal/model"
	"github.com/ytget/yt-downloader-web/internal/platform"
	"github.com/ytget/yt-downloader-web/internal/stats"
	"github.com/ytget/yt-downloader-web/internal/web"
)

func newServeCmd(a *app) *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web front-end",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}

	flags := serveCmd.Flags()
	flags.String(config.KeyListenAddress, config.DefaultListenAddress, "address to listen on")
	flags.String(config.KeyDownloadRoot, "", "only accept download directories inside this one")
	flags.String(config.KeyLanguage, config.DefaultLanguage, "interface language (system, en, ru, pt)")
	flags.Bool(config.KeyPrometheus, false, "export metrics in Prometheus format on /metrics")
	flags.String(config.KeyPrometheusPrefix, config.DefaultPrometheusPrefix, "prefix of the exported Prometheus metrics")
	flags.String(config.KeyFlashSecret, "", "key used to sign flash cookies (random per process when empty)")
	flags.Bool(config.KeySecureCookie, false, "mark cookies Secure (serve behind TLS)")

	return serveCmd
}

func (a *app) serve(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := log.WithComponent(log.ComponentCLI)
	fs := afero.NewOsFs()

	defaultDir := a.settings.GetDownloadDirectory()
	if err := platform.CreateDirectoryIfNotExists(fs, defaultDir); err != nil {
		return err
	}

	engine, err := a.engine()
	if err != nil {
		return err
	}

	var metrics *stats.Metrics
	if a.settings.GetPrometheus() {
		metrics = stats.New(a.settings.GetPrometheusPrefix())
	}

	chooser := platform.NewPathChooser(fs, defaultDir, a.settings.GetDownloadRoot())
	lister := formats.NewService(engine, log.WithComponent(log.ComponentFormats), metrics)
	dispatcher := download.NewService(engine, chooser, fs, log.WithComponent(log.ComponentDownload), metrics)
	dispatcher.SetUpdateCallback(func(task *model.DownloadTask) {
		entry := log.WithComponent(log.ComponentDownload).WithFields(logrus.Fields{
			"task":   task.ID,
			"status": task.Status,
			"title":  task.GetDisplayTitle(),
		})
		if task.Status.IsFinished() {
			entry.WithField("duration", task.Duration().String()).Info("task finished")
			return
		}
		entry.Debug("task updated")
	})

	server, err := web.NewServer(web.Options{
		Addr:         a.settings.GetListenAddress(),
		DefaultDir:   defaultDir,
		Language:     a.settings.GetLanguage(),
		FlashSecret:  a.settings.GetFlashSecret(),
		SecureCookie: a.settings.GetSecureCookie(),
		Version:      a.version,
		Lister:       lister,
		Dispatcher:   dispatcher,
		Chooser:      chooser,
		Fs:           fs,
		Logger:       log.WithComponent(log.ComponentWeb),
		Metrics:      metrics,
	})
	if err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"addr":       a.settings.GetListenAddress(),
		"engine":     a.settings.GetEngine(),
		"dir":        defaultDir,
		"prometheus": metrics != nil,
	}).Info("ytweb starting")

	if err := server.ListenAndServe(ctx); err != nil {
		return err
	}
	logger.Info("ytweb stopped")
	return nil
}
