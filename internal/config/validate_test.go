package config

import (
	"fmt"
	"testing"
)

func TestValidateTieredEmptySocketPathIsFatal(t *testing.T) {
	cfg := Default()
	cfg.SocketPath = ""

	result := cfg.ValidateTiered()
	if !result.HasFatals() {
		t.Fatal("expected empty socket_path to be fatal")
	}
}

func TestValidateTieredNonPositiveScreenSizeIsFatal(t *testing.T) {
	cfg := Default()
	cfg.ScreenWidth = 0

	result := cfg.ValidateTiered()
	if !result.HasFatals() {
		t.Fatal("expected zero screen width to be fatal")
	}
}

func TestValidateTieredTimeoutClampingIsWarning(t *testing.T) {
	cfg := Default()
	cfg.ReadTimeoutSeconds = -5
	cfg.WriteTimeoutSeconds = -5
	cfg.StaleConnectionSeconds = -5

	result := cfg.ValidateTiered()
	if result.HasFatals() {
		t.Fatalf("clamped timeouts should be warnings, not fatal: %v", result.Fatals)
	}
	if len(result.Warnings) != 3 {
		t.Fatalf("expected 3 warnings, got %d: %v", len(result.Warnings), result.Warnings)
	}
	if cfg.ReadTimeoutSeconds != 1 || cfg.WriteTimeoutSeconds != 1 || cfg.StaleConnectionSeconds != 1 {
		t.Fatalf("expected timeouts clamped to 1, got %d/%d/%d",
			cfg.ReadTimeoutSeconds, cfg.WriteTimeoutSeconds, cfg.StaleConnectionSeconds)
	}
}

func TestValidateTieredMaxRecoveryAttemptsClamping(t *testing.T) {
	cfg := Default()
	cfg.MaxRecoveryAttempts = -1

	result := cfg.ValidateTiered()
	if result.HasFatals() {
		t.Fatalf("negative max_recovery_attempts should be a warning: %v", result.Fatals)
	}
	if cfg.MaxRecoveryAttempts != 0 {
		t.Fatalf("expected clamped to 0, got %d", cfg.MaxRecoveryAttempts)
	}
}

func TestValidateTieredTickIntervalClamping(t *testing.T) {
	cfg := Default()
	cfg.TickIntervalMillis = 0

	result := cfg.ValidateTiered()
	if result.HasFatals() {
		t.Fatalf("zero tick_interval_millis should be a warning: %v", result.Fatals)
	}
	if cfg.TickIntervalMillis != 16 {
		t.Fatalf("expected default 16ms tick interval restored, got %d", cfg.TickIntervalMillis)
	}
}

func TestValidateTieredUnknownLogLevelIsWarning(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "verbose"

	result := cfg.ValidateTiered()
	if result.HasFatals() {
		t.Fatalf("unknown log level should be a warning: %v", result.Fatals)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("expected log level reset to info, got %q", cfg.LogLevel)
	}
}

func TestValidateTieredInvalidLogFormatIsWarning(t *testing.T) {
	cfg := Default()
	cfg.LogFormat = "xml"

	result := cfg.ValidateTiered()
	if result.HasFatals() {
		t.Fatalf("invalid log format should be a warning: %v", result.Fatals)
	}
	if cfg.LogFormat != "text" {
		t.Fatalf("expected log format reset to text, got %q", cfg.LogFormat)
	}
}

func TestValidateTieredDefaultConfigIsClean(t *testing.T) {
	cfg := Default()

	result := cfg.ValidateTiered()
	if result.HasFatals() {
		t.Fatalf("default config has fatals: %v", result.Fatals)
	}
	if len(result.Warnings) > 0 {
		t.Fatalf("default config has warnings: %v", result.Warnings)
	}
}

func TestHasFatals(t *testing.T) {
	var r Result
	if r.HasFatals() {
		t.Fatal("HasFatals() on empty result should be false")
	}
	r.Fatals = append(r.Fatals, fmt.Errorf("test error"))
	if !r.HasFatals() {
		t.Fatal("HasFatals() should be true with a fatal error")
	}
}
