package report

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	quoteChar = '"'

	// minQuotedLen is the shortest token that gets its quotes stripped.
	minQuotedLen = 3

	scanBufferSize  = 64 * 1024
	maxLineSize     = 16 * 1024 * 1024
	measurementBits = 64
)

// Sentinel errors for malformed reports. All of them match ErrMalformedReport.
var (
	// ErrMalformedReport is the parent of every structural or token error.
	ErrMalformedReport = errors.New("malformed report")
	// ErrShortRow indicates a data row with fewer values than declared block sizes.
	ErrShortRow = fmt.Errorf("%w: row has fewer values than block sizes", ErrMalformedReport)
	// ErrLongRow indicates a data row with more values than declared block sizes.
	ErrLongRow = fmt.Errorf("%w: row has more values than block sizes", ErrMalformedReport)
	// ErrBadToken indicates a token that is not an integer.
	ErrBadToken = fmt.Errorf("%w: token is not an integer", ErrMalformedReport)
)

// LineError locates a parse failure.
type LineError struct {
	Line  int
	Token string
	Err   error
}

func (e *LineError) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("line %d: %q: %v", e.Line, e.Token, e.Err)
	}

	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// StripQuotes removes one pair of surrounding double quotes. Tokens of two
// characters or fewer are returned unchanged, so `""` survives as is.
func StripQuotes(entry string) string {
	if len(entry) >= minQuotedLen && entry[0] == quoteChar && entry[len(entry)-1] == quoteChar {
		return entry[1 : len(entry)-1]
	}

	return entry
}

// ParseString parses report text held in memory.
func ParseString(text string) (*Report, error) {
	return Parse(strings.NewReader(text))
}

// Parse reads a whole report. The first non-blank line is the header, the
// second the block sizes, and every following non-blank line a data row.
func Parse(r io.Reader) (*Report, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, scanBufferSize), maxLineSize)

	rep := &Report{
		columns: make(map[BlockSize]int),
		rows:    make(map[FileSize][]Measurement),
	}

	var (
		lineNo     int
		haveHeader bool
		haveBlocks bool
	)

	for scanner.Scan() {
		lineNo++

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch {
		case !haveHeader:
			rep.Header = StripQuotes(line)
			haveHeader = true
		case !haveBlocks:
			blocks, err := parseBlockSizes(line, lineNo)
			if err != nil {
				return nil, err
			}

			rep.blockSizes = blocks
			for i, bs := range blocks {
				rep.columns[bs] = i
			}

			haveBlocks = true
		default:
			err := rep.addRow(line, lineNo)
			if err != nil {
				return nil, err
			}
		}
	}

	scanErr := scanner.Err()
	if scanErr != nil {
		return nil, fmt.Errorf("read report: %w", scanErr)
	}

	return rep, nil
}

func parseBlockSizes(line string, lineNo int) ([]BlockSize, error) {
	fields := strings.Fields(line)
	blocks := make([]BlockSize, 0, len(fields))

	for _, tok := range fields {
		v, err := parseInt(tok, lineNo)
		if err != nil {
			return nil, err
		}

		blocks = append(blocks, BlockSize(v))
	}

	return blocks, nil
}

func (r *Report) addRow(line string, lineNo int) error {
	fields := strings.Fields(line)

	values := make([]int64, 0, len(fields))

	for _, tok := range fields {
		v, err := parseInt(tok, lineNo)
		if err != nil {
			return err
		}

		values = append(values, v)
	}

	fs := FileSize(values[0])
	measurements := values[1:]

	switch {
	case len(measurements) < len(r.blockSizes):
		return &LineError{Line: lineNo, Err: fmt.Errorf("%w: got %d, want %d",
			ErrShortRow, len(measurements), len(r.blockSizes))}
	case len(measurements) > len(r.blockSizes):
		return &LineError{Line: lineNo, Err: fmt.Errorf("%w: got %d, want %d",
			ErrLongRow, len(measurements), len(r.blockSizes))}
	}

	row := make([]Measurement, len(measurements))
	for i, m := range measurements {
		row[i] = Measurement(m)
	}

	if _, seen := r.rows[fs]; !seen {
		r.fileSizes = append(r.fileSizes, fs)
	}

	r.rows[fs] = row

	return nil
}

func parseInt(tok string, lineNo int) (int64, error) {
	stripped := StripQuotes(tok)

	v, err := strconv.ParseInt(stripped, 10, measurementBits)
	if err != nil {
		return 0, &LineError{Line: lineNo, Token: tok, Err: ErrBadToken}
	}

	return v, nil
}
