package config

import (
	"fmt"
	"slices"
)

// OutputFormats lists the accepted values of the output key.
var OutputFormats = []string{"auto", "text", "markdown", "json", "csv"}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.StatePath == "" {
		return fmt.Errorf("state_path is required")
	}
	if c.GridID == "" {
		return fmt.Errorf("grid_id is required")
	}
	if !slices.Contains(OutputFormats, c.OutputFormat) {
		return fmt.Errorf("invalid output format %q (expected one of %v)", c.OutputFormat, OutputFormats)
	}
	if c.UI.FrameInterval <= 0 {
		return fmt.Errorf("ui.frame_interval must be positive, got %s", c.UI.FrameInterval)
	}
	if c.UI.CornerWidth < 0 {
		return fmt.Errorf("ui.corner_width must not be negative, got %d", c.UI.CornerWidth)
	}
	if c.Serve.Port < 1 || c.Serve.Port > 65535 {
		return fmt.Errorf("serve.port out of range: %d", c.Serve.Port)
	}

	seen := make(map[string]bool, len(c.Columns))
	for i, col := range c.Columns {
		if col.ID == "" {
			return fmt.Errorf("columns[%d]: id is required", i)
		}
		if seen[col.ID] {
			return fmt.Errorf("columns[%d]: duplicate id %q", i, col.ID)
		}
		seen[col.ID] = true
		if col.Weight < 0 || col.Width < 0 {
			return fmt.Errorf("columns[%d]: weight and width must not be negative", i)
		}
	}
	return nil
}
