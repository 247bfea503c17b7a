package config

import (
	"time"

	"seriesgen/internal/sheet"
)

// Default values for optional configuration fields.
const (
	DefaultOutputFormat    = "csv"
	DefaultTimestampLayout = "2006-01-02 15:04:05"
	DefaultPort            = 8080
	DefaultEnv             = "development"
	DefaultMaxUploadBytes  = 10 << 20
	DefaultMaxRows         = 1_000_000
	DefaultResultTTL       = 1 * time.Hour
	DefaultPreviewRows     = 50
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "json"
	DefaultLogMaxSizeMB    = 100
	DefaultLogMaxBackups   = 3
	DefaultLogMaxAgeDays   = 28
)

// Default returns a complete configuration. The layout matches the shipped template.
func Default() *Config {
	l := sheet.DefaultLayout()
	return &Config{
		Layout: LayoutConfig{
			LabelColumn:  l.LabelColumn,
			ValueColumn:  l.ValueColumn,
			MarkerColumn: l.MarkerColumn,
			NameColumn:   l.NameColumn,
		},
		Output: OutputConfig{
			Format:          DefaultOutputFormat,
			TimestampLayout: DefaultTimestampLayout,
		},
		Server: ServerConfig{
			Port:           DefaultPort,
			Env:            DefaultEnv,
			MaxUploadBytes: DefaultMaxUploadBytes,
			MaxRows:        DefaultMaxRows,
			ResultTTL:      DefaultResultTTL,
			PreviewRows:    DefaultPreviewRows,
			AllowedOrigins: []string{"*"},
		},
		Logging: LoggingConfig{
			Level:      DefaultLogLevel,
			Format:     DefaultLogFormat,
			MaxSizeMB:  DefaultLogMaxSizeMB,
			MaxBackups: DefaultLogMaxBackups,
			MaxAgeDays: DefaultLogMaxAgeDays,
		},
	}
}

// applyDefaults refills fields a config file explicitly blanked.
func (c *Config) applyDefaults() {
	if c.Output.Format == "" {
		c.Output.Format = DefaultOutputFormat
	}
	if c.Output.TimestampLayout == "" {
		c.Output.TimestampLayout = DefaultTimestampLayout
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.Env == "" {
		c.Server.Env = DefaultEnv
	}
	if c.Server.MaxUploadBytes == 0 {
		c.Server.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if c.Server.MaxRows == 0 {
		c.Server.MaxRows = DefaultMaxRows
	}
	if c.Server.ResultTTL == 0 {
		c.Server.ResultTTL = DefaultResultTTL
	}
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Logging.Format == "" {
		c.Logging.Format = DefaultLogFormat
	}
}
