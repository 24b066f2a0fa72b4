package log

// Package log builds the application logger on top of logrus. Every package
// logs through a component entry so lines can be filtered by origin.
