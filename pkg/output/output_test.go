package output_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/benchratio/pkg/catalog"
	"github.com/Sumatoshi-tech/benchratio/pkg/compare"
	"github.com/Sumatoshi-tech/benchratio/pkg/output"
	"github.com/Sumatoshi-tech/benchratio/pkg/store"
)

func runComparison(t *testing.T, fsText, naText string) *compare.Result {
	t.Helper()

	cat := catalog.Catalog{
		Categories: []catalog.CategorySpec{
			{Name: catalog.CategoryFilestore, Prefix: "fs1"},
			{Name: catalog.CategoryNetApp, Prefix: "na1"},
		},
		Actions: []catalog.Action{catalog.ActionFWrite},
	}

	src := store.NewMemorySource().
		Put(catalog.CategoryFilestore, catalog.ActionFWrite, fsText).
		Put(catalog.CategoryNetApp, catalog.ActionFWrite, naText)

	st, err := store.Load(context.Background(), cat, src)
	require.NoError(t, err)

	res, err := compare.Run(context.Background(), st, compare.Plan{
		Driver:   catalog.CategoryNetApp,
		Compared: []catalog.Category{catalog.CategoryFilestore},
	})
	require.NoError(t, err)

	return res
}

func simpleResult(t *testing.T) *compare.Result {
	t.Helper()

	return runComparison(t, "h\n4096\n1024 50\n", "h\n4096\n1024 100\n")
}

func render(t *testing.T, res *compare.Result, format output.Format) string {
	t.Helper()

	var buf bytes.Buffer

	err := output.Write(&buf, res, format, output.Options{})
	require.NoError(t, err)

	return buf.String()
}

func TestWrite_JSONLayout(t *testing.T) {
	t.Parallel()

	want := `{
  "fwrite": {
    "1024": {
      "4096": {
        "filestore": 50,
        "netapp": 100,
        "ratio": 2.0
      }
    }
  }
}`

	assert.Equal(t, want, render(t, simpleResult(t), output.FormatJSON))
}

func TestWrite_JSONSortsKeysAsStrings(t *testing.T) {
	t.Parallel()

	res := runComparison(t,
		"h\n64 128\n256 10 20\n",
		"h\n64 128\n256 5 20\n",
	)

	got := render(t, res, output.FormatJSON)

	assert.Less(t, strings.Index(got, `"128"`), strings.Index(got, `"64"`))
	assert.Contains(t, got, `"ratio": 0.5`)
	assert.Contains(t, got, `"ratio": 1.0`)
}

func TestWrite_JSONIsDeterministic(t *testing.T) {
	t.Parallel()

	res := runComparison(t,
		"h\n512 4096 65536\n1024 1 2 3\n8192 4 5 6\n",
		"h\n512 4096 65536\n1024 7 8 9\n8192 10 11 12\n",
	)

	first := render(t, res, output.FormatJSON)
	for range 5 {
		assert.Equal(t, first, render(t, res, output.FormatJSON))
	}

	assert.False(t, strings.HasSuffix(first, "\n"))
}

func TestWrite_ZeroDenominatorIsZeroFloat(t *testing.T) {
	t.Parallel()

	res := runComparison(t, "h\n4096\n1024 0\n", "h\n4096\n1024 100\n")

	assert.Contains(t, render(t, res, output.FormatJSON), `"ratio": 0.0`)
}

func TestWrite_YAML(t *testing.T) {
	t.Parallel()

	got := render(t, simpleResult(t), output.FormatYAML)

	var doc map[string]map[string]map[string]map[string]any

	require.NoError(t, yaml.Unmarshal([]byte(got), &doc))

	cell := doc["fwrite"]["1024"]["4096"]
	assert.InDelta(t, 2.0, cell["ratio"], 1e-9)
	assert.Equal(t, 50, cell["filestore"])
	assert.Equal(t, 100, cell["netapp"])
	assert.Contains(t, got, `"1024":`)
}

func TestWrite_Text(t *testing.T) {
	t.Parallel()

	got := render(t, simpleResult(t), output.FormatText)

	assert.Contains(t, got, "fwrite")
	assert.Contains(t, got, "1.0 KiB")
	assert.Contains(t, got, "4.0 KiB")
	assert.Contains(t, got, "2.000")
	assert.NotContains(t, got, "\x1b[")
}

func TestWrite_TextWithColor(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	err := output.Write(&buf, simpleResult(t), output.FormatText, output.Options{Color: true})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "\x1b[")
}

func TestWrite_Plot(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	err := output.Write(&buf, simpleResult(t), output.FormatPlot, output.Options{Title: "nightly"})
	require.NoError(t, err)

	got := buf.String()
	assert.Contains(t, got, "<html")
	assert.Contains(t, got, "nightly")
	assert.Contains(t, got, "fwrite")
}

func TestWrite_PlotIsDeterministic(t *testing.T) {
	t.Parallel()

	res := simpleResult(t)

	first := render(t, res, output.FormatPlot)
	second := render(t, res, output.FormatPlot)

	assert.Equal(t, first, second)
	assert.Contains(t, first, "heatmap0")
}

func TestWrite_Prom(t *testing.T) {
	t.Parallel()

	got := render(t, simpleResult(t), output.FormatProm)

	assert.Contains(t, got, `benchratio_ratio{action="fwrite",block_size="4096",file_size="1024",ratio="ratio"} 2`)
	assert.Contains(t, got, `benchratio_measurement{action="fwrite",block_size="4096",category="netapp",file_size="1024"} 100`)
}

func TestWrite_UnknownFormat(t *testing.T) {
	t.Parallel()

	err := output.Write(&bytes.Buffer{}, simpleResult(t), output.Format("xml"), output.Options{})
	require.ErrorIs(t, err, output.ErrUnknownFormat)
}

func TestWriteFile(t *testing.T) {
	t.Parallel()

	res := simpleResult(t)
	path := filepath.Join(t.TempDir(), "ratio.json")

	require.NoError(t, output.WriteFile(path, res, output.FormatJSON, output.Options{}))

	first, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, render(t, res, output.FormatJSON), string(first))

	require.NoError(t, output.WriteFile(path, res, output.FormatJSON, output.Options{}))

	second, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestWriteFile_MissingDirectory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "comparison", "ratio.json")

	err := output.WriteFile(path, simpleResult(t), output.FormatJSON, output.Options{})
	require.ErrorIs(t, err, output.ErrWriteFailure)

	_, statErr := os.Stat(filepath.Dir(path))
	assert.True(t, os.IsNotExist(statErr))
}

func TestWriteFile_FailedRenameKeepsExistingArtifact(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "ratio.json")

	// A non-empty directory at path makes the final rename fail.
	require.NoError(t, os.Mkdir(path, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(path, "keep"), []byte("old"), 0o600))

	err := output.WriteFile(path, simpleResult(t), output.FormatJSON, output.Options{})
	require.ErrorIs(t, err, output.ErrWriteFailure)

	kept, readErr := os.ReadFile(filepath.Join(path, "keep"))
	require.NoError(t, readErr)
	assert.Equal(t, "old", string(kept))

	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	require.Len(t, entries, 1)
	assert.Equal(t, "ratio.json", entries[0].Name())
}

func TestWriteFile_SerializeFailureKeepsExistingArtifact(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "ratio.json")
	require.NoError(t, os.WriteFile(path, []byte("previous"), 0o600))

	err := output.WriteFile(path, simpleResult(t), output.Format("xml"), output.Options{})
	require.ErrorIs(t, err, output.ErrWriteFailure)

	kept, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, "previous", string(kept))

	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Len(t, entries, 1)
}

func TestWriteFile_Permissions(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ratio.json")
	require.NoError(t, output.WriteFile(path, simpleResult(t), output.FormatJSON, output.Options{}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	for _, f := range output.Formats() {
		got, err := output.ParseFormat(strings.ToUpper(string(f)))
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}

	_, err := output.ParseFormat("csv")
	require.ErrorIs(t, err, output.ErrUnknownFormat)
}

func TestFormatFloat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   float64
		want string
	}{
		{2, "2.0"},
		{0, "0.0"},
		{0.5, "0.5"},
		{1.0 / 3, "0.3333333333333333"},
		{123456.789, "123456.789"},
		{0.0001, "0.0001"},
		{0.00001, "1e-05"},
		{1e16, "1e+16"},
		{-2.5, "-2.5"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, output.FormatFloat(tt.in), "input %v", tt.in)
	}
}

func TestQuoteString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `"fwrite"`, output.QuoteString("fwrite"))
	assert.Equal(t, `"a\"b\\c"`, output.QuoteString(`a"b\c`))
	assert.Equal(t, `"tab\tnl\n"`, output.QuoteString("tab\tnl\n"))
	assert.Equal(t, `"caf\u00e9"`, output.QuoteString("café"))
	assert.Equal(t, `"\ud83d\ude00"`, output.QuoteString("😀"))
	assert.Equal(t, `"\u0001"`, output.QuoteString("\x01"))
}
