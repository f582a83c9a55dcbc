package commands

import (
	"runtime"
	"strconv"

	"github.com/leapstack-labs/netgrid/internal/cli/output"
	"github.com/leapstack-labs/netgrid/internal/state"
	"github.com/spf13/cobra"
)

// captureFormat names the input the view, dump and serve commands read.
const captureFormat = "JSON Lines, one request per line, $batch sub-requests nested"

// BuildInfo identifies the binary. The fields are set at build time.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
}

type versionJSON struct {
	BuildInfo
	Go            string `json:"go"`
	Platform      string `json:"platform"`
	StateSchema   int64  `json:"state_schema"`
	CaptureFormat string `json:"capture_format"`
}

// NewVersionCommand creates the version command.
func NewVersionCommand(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Display netgrid version and build information.

Also shows the state schema version this binary migrates the state
database to and the capture format it reads. Use -o json for a
machine-readable form.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runVersion(cmd, info)
		},
	}
}

func runVersion(cmd *cobra.Command, info BuildInfo) error {
	r := NewCommandContextWithoutStore(cmd).Renderer

	schema, err := state.SchemaVersion()
	if err != nil {
		return err
	}
	info.Commit = orUnknown(info.Commit)
	info.BuildDate = orUnknown(info.BuildDate)
	v := versionJSON{
		BuildInfo:     info,
		Go:            runtime.Version(),
		Platform:      runtime.GOOS + "/" + runtime.GOARCH,
		StateSchema:   schema,
		CaptureFormat: captureFormat,
	}

	mode := r.EffectiveMode()
	if mode == output.ModeJSON {
		return r.JSON(v)
	}

	r.Printf("Netgrid v%s\n", info.Version)
	r.Println("Network traffic grid for captured requests")
	r.Println()
	details := [][2]string{
		{"commit", v.Commit},
		{"built", v.BuildDate},
		{"go", v.Go + " " + v.Platform},
		{"state schema", strconv.FormatInt(schema, 10)},
		{"capture format", captureFormat},
	}
	for _, d := range details {
		if mode == output.ModeMarkdown {
			r.Println(output.FormatKeyValue(d[0], d[1]))
			continue
		}
		r.Printf("  %-15s %s\n", d[0]+":", d[1])
	}
	return nil
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
