package stats

// Package stats holds the Prometheus metrics of the web front-end. Metrics live
// on their own registry so several servers (and tests) can coexist in one
// process. A nil *Metrics is valid and records nothing.
