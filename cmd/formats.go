package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ytget/yt-downloader-web/internal/formats"
	"github.com/ytget/yt-downloader-web/internal/log"
)

func newFormatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "formats <url>",
		Short: "Print the curated formats of a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := a.engine()
			if err != nil {
				return err
			}

			lister := formats.NewService(engine, log.WithComponent(log.ComponentFormats), nil)
			listing, err := lister.FetchListing(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printListing(cmd.OutOrStdout(), listing)
		},
	}
}

func printListing(out io.Writer, listing *formats.Listing) error {
	if listing.Title != "" {
		fmt.Fprintf(out, "%s\n\n", listing.Title)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FORMAT\tRESOLUTION\tAUDIO\tVIDEO\tEXT\tSIZE")
	for _, f := range listing.Formats {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			f.FormatID, f.Resolution, f.AudioCodec, f.VideoCodec, f.Ext, f.Filesize)
	}
	return w.Flush()
}
