package config

// Package config exposes application settings. Values come from flags, the
// environment (optionally seeded from a .env file), and an optional YAML
// config file, in that order of precedence, through viper.
