package main

import (
	"os"

	"github.com/ytget/yt-downloader-web/cmd"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

func main() {
	if err := cmd.Run(version); err != nil {
		os.Exit(1)
	}
}
