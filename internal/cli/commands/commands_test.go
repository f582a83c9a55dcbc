package commands

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/leapstack-labs/netgrid/internal/cli/config"
	"github.com/leapstack-labs/netgrid/internal/cli/testutil"
	"github.com/leapstack-labs/netgrid/pkg/datagrid"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loadConfig loads configuration the way the root command does, with env
// pairs applied first.
func loadConfig(t *testing.T, env ...string) {
	t.Helper()
	for i := 0; i+1 < len(env); i += 2 {
		t.Setenv(env[i], env[i+1])
	}
	_, err := config.LoadConfig("", nil)
	require.NoError(t, err)
	t.Cleanup(config.ResetConfig)
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCommandMetadata(t *testing.T) {
	tests := []struct {
		cmd   *cobra.Command
		use   string
		flags []string
	}{
		{cmd: NewViewCommand(), use: "view <capture.jsonl>", flags: []string{"follow", "frame-interval", "stick-to-bottom", "resize-method"}},
		{cmd: NewDumpCommand(), use: "dump <capture.jsonl>", flags: []string{"sort", "expand", "save"}},
		{cmd: NewServeCommand(), use: "serve <capture.jsonl>", flags: []string{"port", "watch"}},
		{cmd: NewSessionsCommand(), use: "sessions", flags: []string{"limit"}},
		{cmd: NewConfigCommand(), use: "config"},
	}

	for _, tt := range tests {
		t.Run(tt.use, func(t *testing.T) {
			assert.Equal(t, tt.use, tt.cmd.Use)
			assert.NotEmpty(t, tt.cmd.Short, "Short should not be empty")
			assert.NotEmpty(t, tt.cmd.Long, "Long should not be empty")
			for _, flag := range tt.flags {
				assert.NotNil(t, tt.cmd.Flags().Lookup(flag), "flag %q should exist", flag)
			}
		})
	}
}

func TestCommands_RequireCapture(t *testing.T) {
	testutil.SetupTestWorkspace(t)
	loadConfig(t)

	for _, cmd := range []*cobra.Command{NewViewCommand(), NewDumpCommand(), NewServeCommand()} {
		_, err := execute(t, cmd)
		assert.Error(t, err, cmd.Name())
	}
}

// =============================================================================
// dump
// =============================================================================

func TestDump_Markdown(t *testing.T) {
	path := testutil.SetupTestWorkspace(t)
	loadConfig(t)

	out, err := execute(t, NewDumpCommand(), path)
	require.NoError(t, err)

	assert.Contains(t, out, "| Name")
	assert.Contains(t, out, "Products?$top=5")
	assert.Contains(t, out, datagrid.GlyphCollapsed+" $batch")
	assert.Contains(t, out, "404")
	assert.NotContains(t, out, "Orders(7)", "batch rows start collapsed")
	assert.NotContains(t, out, "URL", "hidden columns are left out")
	testutil.AssertNoANSI(t, out)
}

func TestDump_Expand(t *testing.T) {
	path := testutil.SetupTestWorkspace(t)
	loadConfig(t)

	out, err := execute(t, NewDumpCommand(), path, "--expand")
	require.NoError(t, err)

	assert.Contains(t, out, datagrid.GlyphExpanded+" $batch")
	assert.Contains(t, out, "Orders(7)")
	assert.Less(t, strings.Index(out, "$batch"), strings.Index(out, "Orders(7)"))
	assert.Less(t, strings.Index(out, "Orders(7)"), strings.Index(out, "$metadata"), "children follow their parent")
}

func TestDump_Sort(t *testing.T) {
	path := testutil.SetupTestWorkspace(t)
	loadConfig(t)

	out, err := execute(t, NewDumpCommand(), path, "--sort", "status:desc")
	require.NoError(t, err)

	assert.Contains(t, out, "Status "+datagrid.GlyphDescending)
	assert.Less(t, strings.Index(out, "Missing"), strings.Index(out, "Products"))
}

func TestDump_SortErrors(t *testing.T) {
	path := testutil.SetupTestWorkspace(t)
	loadConfig(t)

	tests := []struct {
		name    string
		sort    string
		wantErr string
	}{
		{name: "missing column", sort: ":asc", wantErr: "missing column"},
		{name: "bad direction", sort: "status:up", wantErr: "invalid sort"},
		{name: "unknown column", sort: "nope", wantErr: "failed to sort"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, NewDumpCommand(), path, "--sort", tt.sort)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDump_SaveRemembersSort(t *testing.T) {
	path := testutil.SetupTestWorkspace(t)
	loadConfig(t)

	_, err := execute(t, NewDumpCommand(), path, "--sort", "status:desc")
	require.NoError(t, err)
	out, err := execute(t, NewDumpCommand(), path)
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "Products"), strings.Index(out, "Missing"), "sort without --save is not kept")

	_, err = execute(t, NewDumpCommand(), path, "--sort", "status:desc", "--save")
	require.NoError(t, err)
	out, err = execute(t, NewDumpCommand(), path)
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "Missing"), strings.Index(out, "Products"), "saved sort is restored")
}

func TestDump_JSON(t *testing.T) {
	path := testutil.SetupTestWorkspace(t)
	loadConfig(t, "NETGRID_OUTPUT", "json")

	out, err := execute(t, NewDumpCommand(), path, "--expand")
	require.NoError(t, err)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 6)

	assert.EqualValues(t, 0, rows[0]["depth"])
	assert.Equal(t, "404", rows[1]["status"])
	assert.Equal(t, true, rows[2]["expanded"])
	assert.EqualValues(t, 1, rows[3]["depth"])
	assert.NotContains(t, rows[0], "expanded", "leaves carry no expanded flag")
}

func TestDump_CSV(t *testing.T) {
	path := testutil.SetupTestWorkspace(t)
	loadConfig(t, "NETGRID_OUTPUT", "csv")

	out, err := execute(t, NewDumpCommand(), path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "Name,Method,Status,Type,Size,Time", lines[0])
}

func TestParseSort(t *testing.T) {
	tests := []struct {
		in      string
		want    datagrid.SortState
		wantErr bool
	}{
		{in: "status", want: datagrid.SortState{ColumnID: "status", Direction: datagrid.Ascending}},
		{in: "status:asc", want: datagrid.SortState{ColumnID: "status", Direction: datagrid.Ascending}},
		{in: "time:DESC", want: datagrid.SortState{ColumnID: "time", Direction: datagrid.Descending}},
		{in: "", wantErr: true},
		{in: ":desc", wantErr: true},
		{in: "status:sideways", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSort(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// =============================================================================
// sessions
// =============================================================================

func TestSessions_Empty(t *testing.T) {
	testutil.SetupTestWorkspace(t)
	loadConfig(t)

	out, err := execute(t, NewSessionsCommand())
	require.NoError(t, err)
	assert.Contains(t, out, "No sessions recorded.")
}

func TestSessions_AfterDump(t *testing.T) {
	path := testutil.SetupTestWorkspace(t)
	loadConfig(t, "NETGRID_OUTPUT", "json")

	_, err := execute(t, NewDumpCommand(), path)
	require.NoError(t, err)
	_, err = execute(t, NewDumpCommand(), path)
	require.NoError(t, err)

	out, err := execute(t, NewSessionsCommand(), "--limit", "1")
	require.NoError(t, err)

	var sessions []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &sessions))
	require.Len(t, sessions, 1)
	assert.Equal(t, "dump", sessions[0]["command"])
	assert.Equal(t, path, sessions[0]["source"])
	assert.Equal(t, config.DefaultGridID, sessions[0]["grid_id"])
	assert.EqualValues(t, 6, sessions[0]["entries"])
	assert.NotNil(t, sessions[0]["ended_at"])
}

func TestSessions_Table(t *testing.T) {
	path := testutil.SetupTestWorkspace(t)
	loadConfig(t)

	_, err := execute(t, NewDumpCommand(), path)
	require.NoError(t, err)

	out, err := execute(t, NewSessionsCommand())
	require.NoError(t, err)
	assert.Contains(t, out, "Command")
	assert.Contains(t, out, "dump")
	assert.Contains(t, out, "capture.jsonl")
	testutil.AssertValidMarkdown(t, out)
}

// =============================================================================
// config
// =============================================================================

func TestConfig_Defaults(t *testing.T) {
	testutil.SetupTestWorkspace(t)
	loadConfig(t)

	out, err := execute(t, NewConfigCommand())
	require.NoError(t, err)

	assert.Contains(t, out, "# Configuration")
	assert.Contains(t, out, "(defaults)")
	assert.Contains(t, out, "grid_id: network")
	assert.Contains(t, out, "```yaml")
}

func TestConfig_FileAndEnv(t *testing.T) {
	testutil.SetupTestWorkspace(t)
	testutil.WriteConfig(t, "grid_id: custom\nserve:\n  port: 9000\n")
	loadConfig(t, "NETGRID_SERVE_PORT", "9100")

	out, err := execute(t, NewConfigCommand())
	require.NoError(t, err)

	assert.Contains(t, out, "netgrid.yaml")
	assert.Contains(t, out, "grid_id: custom")
	assert.Contains(t, out, "port: 9100", "env overrides the file")
}

func TestConfig_JSON(t *testing.T) {
	testutil.SetupTestWorkspace(t)
	loadConfig(t, "NETGRID_OUTPUT", "json")

	out, err := execute(t, NewConfigCommand())
	require.NoError(t, err)

	var cfg map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &cfg))
	assert.Contains(t, cfg, "StatePath")
}
