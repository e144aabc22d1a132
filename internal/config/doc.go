// Package config loads, normalizes, and validates vidmerge configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// VIDMERGE_FFMPEG. The Config type centralizes every knob the CLI and the
// merge pipeline need, so tool binaries, scratch directories, and notification
// targets are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
