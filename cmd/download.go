package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/ytget/yt-downloader-web/internal/download"
	"github.com/ytget/yt-downloader-web/internal/log"
	"github.com/ytget/yt-downloader-web/internal/model"
	"github.com/ytget/yt-downloader-web/internal/platform"
)

func newDownloadCmd(a *app) *cobra.Command {
	var dir string

	downloadCmd := &cobra.Command{
		Use:   "download <url> <format_id>",
		Short: "Download one format of a video",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				dir = a.settings.GetDownloadDirectory()
			}

			fs := afero.NewOsFs()
			if err := platform.CreateDirectoryIfNotExists(fs, dir); err != nil {
				return err
			}

			engine, err := a.engine()
			if err != nil {
				return err
			}

			dispatcher := download.NewService(engine, platform.FixedChooser(dir), fs, log.WithComponent(log.ComponentDownload), nil)
			dispatcher.SetUpdateCallback(func(task *model.DownloadTask) {
				a.logger.WithFields(logrus.Fields{
					"task":   task.ID,
					"status": task.Status,
				}).Debug("task updated")
			})

			task, err := dispatcher.Dispatch(cmd.Context(), model.DownloadRequest{
				URL:         args[0],
				FormatID:    args[1],
				Destination: dir,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", task.OutputPath, humanize.Bytes(uint64(task.FileSize)))
			return nil
		},
	}

	downloadCmd.Flags().StringVar(&dir, "dir", "", "destination directory (default is the download directory)")

	return downloadCmd
}
