package config

import (
	"fmt"
	"strings"

	"github.com/pheonixfirewingz/crystal-desktop/internal/logging"
)

var log = logging.L("config")

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Result splits validation errors by severity: Fatals block startup,
// Warnings are logged and the offending field is clamped to a safe value.
type Result struct {
	Fatals   []error
	Warnings []error
}

// HasFatals reports whether any fatal error was recorded.
func (r Result) HasFatals() bool { return len(r.Fatals) > 0 }

// ValidateTiered checks c for invalid values, clamping out-of-range numeric
// fields to a safe default (recorded as a warning) and rejecting structurally
// invalid fields outright (recorded as fatal).
func (c *Config) ValidateTiered() Result {
	var r Result

	if c.SocketPath == "" {
		r.Fatals = append(r.Fatals, fmt.Errorf("socket_path must not be empty"))
	}

	if c.ScreenWidth <= 0 || c.ScreenHeight <= 0 {
		r.Fatals = append(r.Fatals, fmt.Errorf(
			"screen dimensions must be positive, got %dx%d", c.ScreenWidth, c.ScreenHeight))
	}

	if c.MaxFrameSizeBytes <= 0 {
		r.Warnings = append(r.Warnings, fmt.Errorf(
			"max_frame_size_bytes %d is not positive, clamping to 10MiB", c.MaxFrameSizeBytes))
		c.MaxFrameSizeBytes = 10 * 1024 * 1024
	}

	if c.ReadTimeoutSeconds < 1 {
		r.Warnings = append(r.Warnings, fmt.Errorf(
			"read_timeout_seconds %d is below minimum 1, clamping", c.ReadTimeoutSeconds))
		c.ReadTimeoutSeconds = 1
	}
	if c.WriteTimeoutSeconds < 1 {
		r.Warnings = append(r.Warnings, fmt.Errorf(
			"write_timeout_seconds %d is below minimum 1, clamping", c.WriteTimeoutSeconds))
		c.WriteTimeoutSeconds = 1
	}
	if c.StaleConnectionSeconds < 1 {
		r.Warnings = append(r.Warnings, fmt.Errorf(
			"stale_connection_seconds %d is below minimum 1, clamping", c.StaleConnectionSeconds))
		c.StaleConnectionSeconds = 1
	}

	if c.MaxRecoveryAttempts < 0 {
		r.Warnings = append(r.Warnings, fmt.Errorf(
			"max_recovery_attempts %d is negative, clamping to 0", c.MaxRecoveryAttempts))
		c.MaxRecoveryAttempts = 0
	}
	if c.ConnectionErrorThreshold < 1 {
		r.Warnings = append(r.Warnings, fmt.Errorf(
			"connection_error_threshold %d is below minimum 1, clamping", c.ConnectionErrorThreshold))
		c.ConnectionErrorThreshold = 1
	}

	if c.TickIntervalMillis < 1 {
		r.Warnings = append(r.Warnings, fmt.Errorf(
			"tick_interval_millis %d is below minimum 1, clamping to 16", c.TickIntervalMillis))
		c.TickIntervalMillis = 16
	}
	if c.RenderQueueDepth < 1 {
		r.Warnings = append(r.Warnings, fmt.Errorf(
			"render_queue_depth %d is below minimum 1, clamping to 1", c.RenderQueueDepth))
		c.RenderQueueDepth = 1
	}

	if c.LogLevel != "" && !validLogLevels[strings.ToLower(c.LogLevel)] {
		r.Warnings = append(r.Warnings, fmt.Errorf(
			"log_level %q is not valid (use debug, info, warn, error), defaulting to info", c.LogLevel))
		c.LogLevel = "info"
	}
	if c.LogFormat != "" && c.LogFormat != "text" && c.LogFormat != "json" {
		r.Warnings = append(r.Warnings, fmt.Errorf(
			"log_format %q is not valid (use text or json), defaulting to text", c.LogFormat))
		c.LogFormat = "text"
	}

	return r
}
