package download

// Package download dispatches a single download: it validates the request,
// resolves the destination through a DirectoryChooser, asks the extraction
// engine for exactly one stream, and confirms the file the engine reports it
// wrote. Each call is synchronous and produces a model.DownloadTask record.
