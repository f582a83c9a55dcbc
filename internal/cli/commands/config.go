package commands

import (
	"fmt"

	"github.com/leapstack-labs/netgrid/internal/cli/config"
	"github.com/leapstack-labs/netgrid/internal/cli/output"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewConfigCommand creates the config command.
func NewConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long: `Print the configuration after merging defaults, the config file,
NETGRID_* environment variables and flags.`,
		Example: `  # Show where a setting comes from
  NETGRID_SERVE_PORT=9000 netgrid config`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfig(cmd)
		},
	}
}

func runConfig(cmd *cobra.Command) error {
	cmdCtx := NewCommandContextWithoutStore(cmd)
	r := cmdCtx.Renderer

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(cmdCtx.Cfg)
	}

	data, err := yaml.Marshal(cmdCtx.Cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	source := config.GetConfigFileUsed()
	if source == "" {
		source = "(defaults)"
	}
	if r.EffectiveMode() == output.ModeMarkdown {
		r.Println(output.FormatHeader(1, "Configuration"))
		r.Println("")
		r.Println(output.FormatKeyValue("File", source))
		r.Println("")
		r.Println("```yaml")
		r.Printf("%s", data)
		r.Println("```")
		return nil
	}

	r.Println(r.Muted("# " + source))
	r.Printf("%s", data)
	return nil
}
