package commands_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/benchratio/cmd/benchratio/commands"
	"github.com/Sumatoshi-tech/benchratio/pkg/catalog"
	"github.com/Sumatoshi-tech/benchratio/pkg/output"
	"github.com/Sumatoshi-tech/benchratio/pkg/store"
)

var reportTexts = map[catalog.Category]string{
	catalog.CategoryFilestore: "iozone filestore\n4096\n1024 50\n",
	catalog.CategoryNetApp:    "iozone netapp\n4096\n1024 100\n",
	catalog.CategoryNFSv4:     "iozone nfsv4\n4096\n1024 25\n",
}

func writeDataDir(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	cat := catalog.Default()
	src := store.NewDirSource(root, cat)

	for _, spec := range cat.Categories {
		require.NoError(t, os.MkdirAll(filepath.Join(root, string(spec.Name)), 0o755))

		for _, action := range cat.Actions {
			path, err := src.Path(spec.Name, action)
			require.NoError(t, err)
			require.NoError(t, os.WriteFile(path, []byte(reportTexts[spec.Name]), 0o600))
		}
	}

	return root
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "benchratio.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	root := commands.NewRootCommand()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)

	err := root.Execute()

	return stdout.String(), stderr.String(), err
}

func TestRootCommand_Subcommands(t *testing.T) {
	t.Parallel()

	root := commands.NewRootCommand()

	names := make([]string, 0, len(root.Commands()))
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}

	assert.Subset(t, names, []string{"compare", "parse", "mcp", "version"})
	assert.True(t, root.SilenceUsage)
	assert.True(t, root.SilenceErrors)
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "benchratio dev")
	assert.Contains(t, stdout, "commit:")
}

func TestCompareCommand_WritesArtifact(t *testing.T) {
	t.Parallel()

	dataDir := writeDataDir(t)
	outPath := filepath.Join(t.TempDir(), "ratio.json")
	cfgPath := writeConfig(t, "logging:\n  level: info\n")

	_, _, err := execute(t, "compare", "--config", cfgPath, "--data-dir", dataDir, "--output", outPath, "-q")
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, `"ratio_a": 4.0`)
	assert.Contains(t, text, `"ratio_b": 2.0`)
	assert.Contains(t, text, `"ratio_ab": 0.5`)
	assert.Contains(t, text, `"writer": {`)
	assert.NotEqual(t, byte('\n'), data[len(data)-1])
}

func TestCompareCommand_TwoWayFromConfigFile(t *testing.T) {
	t.Parallel()

	dataDir := writeDataDir(t)
	outPath := filepath.Join(t.TempDir(), "ratio.json")
	cfgPath := writeConfig(t, "data_dir: "+dataDir+"\n"+
		"output:\n  path: "+outPath+"\n"+
		"actions: [fwrite]\n"+
		"comparison:\n  driver: netapp\n  compared: [filestore]\n")

	_, _, err := execute(t, "compare", "--config", cfgPath, "-q")
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)

	assert.Equal(t, "{\n"+
		"  \"fwrite\": {\n"+
		"    \"1024\": {\n"+
		"      \"4096\": {\n"+
		"        \"filestore\": 50,\n"+
		"        \"netapp\": 100,\n"+
		"        \"ratio\": 2.0\n"+
		"      }\n"+
		"    }\n"+
		"  }\n"+
		"}", string(data))
}

func TestCompareCommand_Table(t *testing.T) {
	t.Parallel()

	dataDir := writeDataDir(t)
	outPath := filepath.Join(t.TempDir(), "ratio.yaml")
	cfgPath := writeConfig(t, "logging:\n  level: warn\n")

	stdout, _, err := execute(t, "compare", "--config", cfgPath,
		"--data-dir", dataDir, "--output", outPath, "--format", "yaml",
		"--actions", "fwrite,fread", "--table", "--no-color")
	require.NoError(t, err)

	assert.Contains(t, stdout, "fwrite")
	assert.Contains(t, stdout, "fread")
	assert.NotContains(t, stdout, "\x1b[")

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "fwrite:")
	assert.NotContains(t, string(data), "writer:")
}

func TestCompareCommand_MissingReportWritesNothing(t *testing.T) {
	t.Parallel()

	dataDir := writeDataDir(t)
	require.NoError(t, os.Remove(filepath.Join(dataDir, "nfsv4", "nfsv4-writer.tsv")))

	outPath := filepath.Join(t.TempDir(), "ratio.json")
	cfgPath := writeConfig(t, "logging:\n  level: error\n")

	_, _, err := execute(t, "compare", "--config", cfgPath, "--data-dir", dataDir, "--output", outPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nfsv4-writer")
	assert.NoFileExists(t, outPath)
}

func TestCompareCommand_InvalidOverrides(t *testing.T) {
	t.Parallel()

	cfgPath := writeConfig(t, "logging:\n  level: error\n")

	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown format", args: []string{"--format", "xml"}},
		{name: "unknown driver", args: []string{"--driver", "ceph"}},
		{name: "unknown compared", args: []string{"--compared", "ceph"}},
		{name: "empty data dir", args: []string{"--data-dir", ""}},
		{name: "no actions", args: []string{"--actions", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			args := append([]string{"compare", "--config", cfgPath, "--output", filepath.Join(t.TempDir(), "x")}, tt.args...)

			_, _, err := execute(t, args...)
			require.Error(t, err)
		})
	}
}

func TestCompareCommand_MetricsTextfile(t *testing.T) {
	t.Parallel()

	dataDir := writeDataDir(t)
	dir := t.TempDir()
	textfile := filepath.Join(dir, "benchratio.prom")
	cfgPath := writeConfig(t, "logging:\n  level: error\n")

	_, _, err := execute(t, "compare", "--config", cfgPath, "--data-dir", dataDir,
		"--output", filepath.Join(dir, "ratio.json"), "--metrics-textfile", textfile)
	require.NoError(t, err)

	data, err := os.ReadFile(textfile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "benchratio_run_reports")
}

func TestCompareCommand_LogsToStderr(t *testing.T) {
	t.Parallel()

	dataDir := writeDataDir(t)
	cfgPath := writeConfig(t, "logging:\n  level: info\n  json: true\n")

	stdout, stderr, err := execute(t, "compare", "--config", cfgPath, "--data-dir", dataDir,
		"--output", filepath.Join(t.TempDir(), "ratio.json"))
	require.NoError(t, err)

	assert.Empty(t, stdout)
	assert.Contains(t, stderr, `"service":"benchratio"`)
}

func TestParseCommand(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "fs1-fwrite.tsv")
	require.NoError(t, os.WriteFile(path, []byte("\"iozone\"\n\"4096\" \"65536\"\n\"1024\" 50 80\n"), 0o600))

	stdout, _, err := execute(t, "parse", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, `"header": "iozone"`)
	assert.Contains(t, stdout, `"block_sizes": [`)
	assert.Contains(t, stdout, `"file_size": 1024`)

	stdout, _, err = execute(t, "parse", path, "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, stdout, "block_sizes:")
	assert.Contains(t, stdout, "values: [50, 80]")
}

func TestParseCommand_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.tsv")
	require.NoError(t, os.WriteFile(bad, []byte("h\n4096\n1024 x\n"), 0o600))

	_, _, err := execute(t, "parse", filepath.Join(dir, "missing.tsv"))
	require.Error(t, err)

	_, _, err = execute(t, "parse", bad)
	require.Error(t, err)

	_, _, err = execute(t, "parse", bad, "--format", "xml")
	require.Error(t, err)

	_, _, err = execute(t, "parse")
	require.Error(t, err)
}

func TestMCPCommand_Flags(t *testing.T) {
	t.Parallel()

	root := commands.NewRootCommand()

	mcpCmd, _, err := root.Find([]string{"mcp"})
	require.NoError(t, err)
	assert.Equal(t, "mcp", mcpCmd.Name())
	assert.Contains(t, mcpCmd.Long, "benchratio_compare")
	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
	assert.Equal(t, "64MiB", mcpCmd.Flags().Lookup("cache-size").DefValue)
}

func TestFormatsListed(t *testing.T) {
	t.Parallel()

	root := commands.NewRootCommand()

	compareCmd, _, err := root.Find([]string{"compare"})
	require.NoError(t, err)

	usage := compareCmd.Flags().Lookup("format").Usage
	for _, f := range output.Formats() {
		assert.Contains(t, usage, string(f))
	}
}
