// Package cmd holds the command tree of the ytweb binary.
package cmd

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ytget/yt-downloader-web/internal/config"
	"github.com/ytget/yt-downloader-web/internal/log"
	"github.com/ytget/yt-downloader-web/internal/platform"
)

// app carries the state shared by every command of one invocation
type app struct {
	version  string
	settings *config.Settings
	logger   *logrus.Logger
	closers  []io.Closer

	// newEngine is swapped in tests
	newEngine func(platform.EngineOptions) (platform.Engine, error)
}

func newApp(version string) *app {
	return &app{
		version:   version,
		settings:  config.NewSettings(viper.New()),
		newEngine: platform.NewEngine,
	}
}

// setup loads the settings and builds the logger, after cobra parsed the flags
func (a *app) setup(cmd *cobra.Command) error {
	a.settings.BindFlags(cmd.Flags())
	if err := a.settings.Load(); err != nil {
		return err
	}

	logger, closer, err := log.New(log.Config{
		Level:  a.settings.GetLogLevel(),
		JSON:   a.settings.GetLogJSON(),
		File:   a.settings.GetLogFile(),
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	a.logger = logger
	a.closers = append(a.closers, closer, log.RedirectStdLog(logger))
	log.SetDefault(logger)

	if used := a.settings.ConfigFileUsed(); used != "" {
		logger.WithField("file", used).Debug("config file loaded")
	}
	return nil
}

func (a *app) teardown() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i].Close()
	}
	a.closers = nil
}

// engine builds the configured extraction engine
func (a *app) engine() (platform.Engine, error) {
	engine, err := a.newEngine(platform.EngineOptions{
		Name:             a.settings.GetEngine(),
		YTDLPPath:        a.settings.GetYTDLPPath(),
		Timeout:          a.settings.GetEngineTimeout(),
		FilenameTemplate: a.settings.GetFilenameTemplate(),
		Logger:           log.WithComponent(log.ComponentEngine),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}
	return engine, nil
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ytweb",
		Short: "Web front-end that lists and downloads video formats",
		Long: `ytweb lists the downloadable formats of a video page, keeps one
video-only stream per resolution plus every stream with audio, and downloads
the format you pick through an extraction engine.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	flags := rootCmd.PersistentFlags()
	flags.String(config.KeyConfigFile, "", "config file (default is $HOME/ytweb-config.yaml)")
	flags.String(config.KeyLogLevel, config.DefaultLogLevel, "log level (trace, debug, info, warn, error)")
	flags.Bool(config.KeyLogJSON, false, "output logs in JSON")
	flags.String(config.KeyLogFile, "", "also write logs to this file, rotated daily")
	flags.String(config.KeyEngine, config.DefaultEngine, "extraction engine (native, ytdlp)")
	flags.String(config.KeyYTDLPPath, config.DefaultYTDLPPath, "yt-dlp executable used by the ytdlp engine")
	flags.Duration(config.KeyEngineTimeout, config.DefaultEngineTimeout, "timeout of a single engine call, 0 for none")
	flags.String(config.KeyFilenameTemplate, config.DefaultFilenameTemplate, "output filename template")
	flags.String(config.KeyDownloadDir, "", "default download directory (default is ./downloads)")

	rootCmd.AddCommand(
		newServeCmd(a),
		newFormatsCmd(a),
		newDownloadCmd(a),
		newVersionCmd(a),
	)
	return rootCmd
}

// Run executes the command tree
func Run(version string) error {
	a := newApp(version)
	defer a.teardown()

	return newRootCmd(a).Execute()
}
