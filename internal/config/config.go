// Package config loads the compositor's settings: the listener socket
// path, wire/connection timeouts, the server tick rate, and logging.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/viper"
)

// Config is the compositor's full runtime configuration.
type Config struct {
	SocketPath string `mapstructure:"socket_path"`

	ScreenWidth  int32 `mapstructure:"screen_width"`
	ScreenHeight int32 `mapstructure:"screen_height"`

	MaxFrameSizeBytes int `mapstructure:"max_frame_size_bytes"`

	ReadTimeoutSeconds       int `mapstructure:"read_timeout_seconds"`
	WriteTimeoutSeconds      int `mapstructure:"write_timeout_seconds"`
	StaleConnectionSeconds   int `mapstructure:"stale_connection_seconds"`
	MaxRecoveryAttempts      int `mapstructure:"max_recovery_attempts"`
	ConnectionErrorThreshold int `mapstructure:"connection_error_threshold"`

	TickIntervalMillis int `mapstructure:"tick_interval_millis"`
	RenderQueueDepth   int `mapstructure:"render_queue_depth"`

	LogLevel      string `mapstructure:"log_level"`
	LogFormat     string `mapstructure:"log_format"`
	LogFile       string `mapstructure:"log_file"`
	LogMaxSizeMB  int    `mapstructure:"log_max_size_mb"`
	LogMaxBackups int    `mapstructure:"log_max_backups"`
}

// Default returns the out-of-the-box configuration, matching the values
// named throughout the protocol and connection-table specification.
func Default() *Config {
	return &Config{
		SocketPath:   "/tmp/prism_comp",
		ScreenWidth:  1920,
		ScreenHeight: 1080,

		MaxFrameSizeBytes: 10 * 1024 * 1024,

		ReadTimeoutSeconds:       30,
		WriteTimeoutSeconds:      5,
		StaleConnectionSeconds:   60,
		MaxRecoveryAttempts:      3,
		ConnectionErrorThreshold: 3,

		TickIntervalMillis: 16,
		RenderQueueDepth:   4,

		LogLevel:      "info",
		LogFormat:     "text",
		LogMaxSizeMB:  50,
		LogMaxBackups: 3,
	}
}

// ReadTimeout returns ReadTimeoutSeconds as a time.Duration.
func (c *Config) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}

// WriteTimeout returns WriteTimeoutSeconds as a time.Duration.
func (c *Config) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutSeconds) * time.Second
}

// StaleConnectionThreshold returns StaleConnectionSeconds as a time.Duration.
func (c *Config) StaleConnectionThreshold() time.Duration {
	return time.Duration(c.StaleConnectionSeconds) * time.Second
}

// TickInterval returns TickIntervalMillis as a time.Duration.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalMillis) * time.Millisecond
}

// Load reads configuration from cfgFile if given, else searches the
// platform config directory and the working directory for "prism.yaml".
// Fatal validation errors abort startup; warnings are logged and clamped.
func Load(cfgFile string) (*Config, error) {
	cfg := Default()

	v := viper.New()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("prism")
		v.SetConfigType("yaml")
		v.AddConfigPath(configDir())
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("PRISM")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	result := cfg.ValidateTiered()
	for _, err := range result.Warnings {
		log.Warn("config validation", "error", err)
	}
	if result.HasFatals() {
		for _, err := range result.Fatals {
			log.Error("config validation fatal", "error", err)
		}
		return nil, fmt.Errorf("config has fatal validation errors: %v", result.Fatals[0])
	}

	return cfg, nil
}

// configDir returns the platform-specific directory Load searches for
// "prism.yaml" when no explicit config file is given.
func configDir() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("ProgramData"), "Prism")
	case "darwin":
		return "/Library/Application Support/Prism"
	default:
		return "/etc/prism"
	}
}
