package formats

// Package formats lists the downloadable streams of a single video. It asks
// the extraction engine for metadata and curates the raw format list: every
// stream with audio is kept, and a video-only stream is kept only for the first
// time its resolution is seen. Engine order is preserved.
