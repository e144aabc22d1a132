// Package notifications announces finished merge jobs.
//
// Service.Publish takes an Event and a loosely typed Payload. NewService
// wires the transports enabled in config.toml: an ntfy topic over HTTP and a
// desktop notice through zenity. With neither enabled it returns a no-op.
package notifications
