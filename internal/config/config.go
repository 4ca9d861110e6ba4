// Package config provides configuration helpers for poselink commands.
package config

import (
	"os"
	"strconv"
)

// Defaults for the signaling and metrics endpoints.
const (
	DefaultSignalAddr  = ":8443"
	DefaultSignalURL   = "ws://127.0.0.1:8443/ws"
	DefaultFeedAddr    = ":8080"
	DefaultMetricsAddr = "127.0.0.1:9100"
	DefaultFrameRate   = 60
)

// SignalURL returns the signaling server URL from SIGNAL_URL env var.
// Falls back to the provided default if not set.
func SignalURL(defaultURL string) string {
	if u := os.Getenv("SIGNAL_URL"); u != "" {
		return u
	}
	return defaultURL
}

// Room returns the signaling room name from ROOM env var or the default.
func Room(defaultRoom string) string {
	if r := os.Getenv("ROOM"); r != "" {
		return r
	}
	return defaultRoom
}

// LogLevel returns the log level from LOG_LEVEL env var or "info".
func LogLevel() string {
	if l := os.Getenv("LOG_LEVEL"); l != "" {
		return l
	}
	return "info"
}

// FrameRate returns the send cadence in Hz from FRAME_RATE env var.
// Falls back to DefaultFrameRate on missing or unparseable values.
func FrameRate() int {
	if v := os.Getenv("FRAME_RATE"); v != "" {
		if hz, err := strconv.Atoi(v); err == nil && hz > 0 {
			return hz
		}
	}
	return DefaultFrameRate
}
