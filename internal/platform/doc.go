package platform

// Package platform contains OS/platform integration and external tooling glue:
// the extraction engine adapters (the ytdlp library and the yt-dlp CLI),
// filesystem helpers for destinations and output lookup, and URL helpers.
