package model

// Package model defines domain data structures used across the app: format
// descriptors reported by the extraction engine, the curated formats shown to
// the user, and the download task record produced by a dispatch.
