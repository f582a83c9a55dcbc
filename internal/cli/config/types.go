// Package config provides configuration management for the netgrid CLI.
package config

import (
	"time"

	"github.com/leapstack-labs/netgrid/internal/capture"
	"github.com/leapstack-labs/netgrid/pkg/datagrid"
)

// UIConfig holds settings of the terminal view.
type UIConfig struct {
	FrameInterval time.Duration         `koanf:"frame_interval" yaml:"frame_interval"`
	StickToBottom bool                  `koanf:"stick_to_bottom" yaml:"stick_to_bottom"`
	NoColor       bool                  `koanf:"no_color" yaml:"no_color"`
	CornerWidth   int                   `koanf:"corner_width" yaml:"corner_width"`
	ResizeMethod  datagrid.ResizeMethod `koanf:"resize_method" yaml:"resize_method"`
}

// ServeConfig holds settings of the web view.
type ServeConfig struct {
	Port  int  `koanf:"port" yaml:"port"`
	Watch bool `koanf:"watch" yaml:"watch"`
}

// Config holds all CLI configuration options.
type Config struct {
	StatePath    string               `koanf:"state_path" yaml:"state_path"`
	GridID       string               `koanf:"grid_id" yaml:"grid_id"`
	Verbose      bool                 `koanf:"verbose" yaml:"verbose"`
	OutputFormat string               `koanf:"output" yaml:"output"`
	UI           UIConfig             `koanf:"ui" yaml:"ui"`
	Serve        ServeConfig          `koanf:"serve" yaml:"serve"`
	Columns      []capture.ColumnSpec `koanf:"columns" yaml:"columns,omitempty"`
}

// Default configuration values.
const (
	DefaultStateFile     = ".netgrid/state.db"
	DefaultGridID        = "network"
	DefaultOutput        = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultFrameInterval = 16 * time.Millisecond
	DefaultPort          = 8766
)

// Default returns the configuration used when nothing is loaded.
func Default() *Config {
	return &Config{
		StatePath:    DefaultStateFile,
		GridID:       DefaultGridID,
		OutputFormat: DefaultOutput,
		UI: UIConfig{
			FrameInterval: DefaultFrameInterval,
			StickToBottom: true,
			CornerWidth:   datagrid.DefaultCornerWidth,
		},
		Serve: ServeConfig{Port: DefaultPort},
	}
}
