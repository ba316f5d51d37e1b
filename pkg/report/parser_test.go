package report_test

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/benchratio/pkg/report"
)

func TestParse_RoundTrip(t *testing.T) {
	t.Parallel()

	rep, err := report.ParseString("\"Writer report\"\n64 128\n100 10 20\n")
	require.NoError(t, err)

	assert.Equal(t, "Writer report", rep.Header)
	assert.Equal(t, []report.BlockSize{64, 128}, rep.BlockSizes())
	assert.Equal(t, []report.FileSize{100}, rep.FileSizes())

	row, ok := rep.Row(100)
	require.True(t, ok)
	assert.Equal(t, []report.Measurement{10, 20}, row)
}

func TestParse_QuotedTokensMatchBare(t *testing.T) {
	t.Parallel()

	quoted, err := report.ParseString("h\n\"64\" \"128\"\n\"100\" \"10\" \"20\"\n")
	require.NoError(t, err)

	bare, err := report.ParseString("h\n64 128\n100 10 20\n")
	require.NoError(t, err)

	assert.Equal(t, bare.BlockSizes(), quoted.BlockSizes())
	assert.Equal(t, bare.FileSizes(), quoted.FileSizes())

	qRow, _ := quoted.Row(100)
	bRow, _ := bare.Row(100)
	assert.Equal(t, bRow, qRow)
}

func TestParse_BlankLinesSkippedEverywhere(t *testing.T) {
	t.Parallel()

	text := "\n\n  \"Reader report\"  \n\n\t\n 4 8 \r\n\n 16 1 2 \n\n32 3 4\n\n"

	rep, err := report.ParseString(text)
	require.NoError(t, err)

	assert.Equal(t, "Reader report", rep.Header)
	assert.Equal(t, []report.BlockSize{4, 8}, rep.BlockSizes())
	assert.Equal(t, []report.FileSize{16, 32}, rep.FileSizes())

	m, ok := rep.Measurement(32, 8)
	require.True(t, ok)
	assert.Equal(t, report.Measurement(4), m)
}

func TestParse_HeaderAndBlocksOnly(t *testing.T) {
	t.Parallel()

	rep, err := report.ParseString("header\n64 128\n")
	require.NoError(t, err)
	assert.Equal(t, 0, rep.Len())
	assert.Len(t, rep.BlockSizes(), 2)
}

func TestParse_EmptyInput(t *testing.T) {
	t.Parallel()

	rep, err := report.ParseString("")
	require.NoError(t, err)
	assert.Empty(t, rep.Header)
	assert.Equal(t, 0, rep.Len())
}

func TestParse_ShortRowIsFatal(t *testing.T) {
	t.Parallel()

	_, err := report.ParseString("h\n64 128\n100 10\n")
	require.ErrorIs(t, err, report.ErrShortRow)
	require.ErrorIs(t, err, report.ErrMalformedReport)

	var lineErr *report.LineError
	require.ErrorAs(t, err, &lineErr)
	assert.Equal(t, 3, lineErr.Line)
}

func TestParse_FileSizeOnlyRowIsShort(t *testing.T) {
	t.Parallel()

	_, err := report.ParseString("h\n64\n100\n")
	require.ErrorIs(t, err, report.ErrShortRow)
}

func TestParse_LongRowIsFatal(t *testing.T) {
	t.Parallel()

	_, err := report.ParseString("h\n64\n100 10 20\n")
	require.ErrorIs(t, err, report.ErrLongRow)
	require.ErrorIs(t, err, report.ErrMalformedReport)
}

func TestParse_NonIntegerTokenIsFatal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		line int
	}{
		{name: "block size", text: "h\n64 abc\n", line: 2},
		{name: "file size", text: "h\n64\nx 1\n", line: 3},
		{name: "measurement", text: "h\n\n64\n1 1.5\n", line: 4},
		{name: "bare quotes", text: "h\n64\n1 \"\"\n", line: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := report.ParseString(tt.text)
			require.ErrorIs(t, err, report.ErrBadToken)

			var lineErr *report.LineError
			require.ErrorAs(t, err, &lineErr)
			assert.Equal(t, tt.line, lineErr.Line)
		})
	}
}

func TestParse_RepeatedFileSizeReplacesRow(t *testing.T) {
	t.Parallel()

	rep, err := report.ParseString("h\n64\n100 1\n200 2\n100 3\n")
	require.NoError(t, err)

	assert.Equal(t, []report.FileSize{100, 200}, rep.FileSizes())

	m, ok := rep.Measurement(100, 64)
	require.True(t, ok)
	assert.Equal(t, report.Measurement(3), m)
}

func TestParse_LineLongerThanDefaultScanBuffer(t *testing.T) {
	t.Parallel()

	const cols = 20000

	var blocks, values strings.Builder

	values.WriteString("1")

	for i := range cols {
		blocks.WriteString(" ")
		blocks.WriteString(strconv.Itoa(i + 1))
		values.WriteString(" 7")
	}

	rep, err := report.ParseString("h\n" + blocks.String() + "\n" + values.String() + "\n")
	require.NoError(t, err)
	assert.Len(t, rep.BlockSizes(), cols)
}

func TestStripQuotes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: `"100"`, want: "100"},
		{in: `100`, want: "100"},
		{in: `"a"`, want: "a"},
		{in: `""`, want: `""`},
		{in: `"`, want: `"`},
		{in: `"""`, want: `"`},
		{in: `"abc`, want: `"abc`},
		{in: ``, want: ``},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, report.StripQuotes(tt.in), "input %q", tt.in)
	}
}

func TestRow_ReturnsCopy(t *testing.T) {
	t.Parallel()

	rep, err := report.ParseString("h\n64\n100 1\n")
	require.NoError(t, err)

	row, ok := rep.Row(100)
	require.True(t, ok)

	row[0] = 99

	m, _ := rep.Measurement(100, 64)
	assert.Equal(t, report.Measurement(1), m)

	_, ok = rep.Row(7)
	assert.False(t, ok)
}
