// Package output serializes comparison results. The JSON form is the
// canonical artifact: keys sorted as strings at every level, two-space
// indentation, byte-identical across runs for identical input.
package output

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Sumatoshi-tech/benchratio/pkg/compare"
)

// Format selects a serialization.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatText Format = "text"
	FormatPlot Format = "plot"
	FormatProm Format = "prom"
)

const artifactPerm = 0o644

var (
	// ErrUnknownFormat indicates an unsupported output format name.
	ErrUnknownFormat = errors.New("unknown output format")
	// ErrWriteFailure indicates the artifact could not be written.
	ErrWriteFailure = errors.New("write comparison artifact")
)

// Formats returns every supported format name.
func Formats() []Format {
	return []Format{FormatJSON, FormatYAML, FormatText, FormatPlot, FormatProm}
}

// ParseFormat resolves a format name, case-insensitively.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))

	for _, known := range Formats() {
		if f == known {
			return f, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// Options tune human-oriented formats. The zero value is valid.
type Options struct {
	// Color enables ANSI colors in the text format.
	Color bool
	// Title overrides the heading of the plot page.
	Title string
}

// Write serializes res in the given format.
func Write(w io.Writer, res *compare.Result, format Format, opts Options) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, buildTree(res))
	case FormatYAML:
		return writeYAML(w, buildTree(res))
	case FormatText:
		return writeText(w, res, opts)
	case FormatPlot:
		return writePlot(w, res, opts)
	case FormatProm:
		return writeProm(w, res)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// WriteFile serializes res fully in memory, writes it to a temporary file
// next to path and renames it over path, so an existing artifact is either
// fully replaced or left untouched. Missing parent directories are not
// created; every failure wraps ErrWriteFailure.
func WriteFile(path string, res *compare.Result, format Format, opts Options) error {
	var buf bytes.Buffer

	err := Write(&buf, res, format, opts)
	if err != nil {
		return fmt.Errorf("%w: serialize: %w", ErrWriteFailure, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}

	err = writeTemp(tmp, buf.Bytes())
	if err == nil {
		err = os.Rename(tmp.Name(), path)
	}

	if err != nil {
		removeErr := os.Remove(tmp.Name())

		return fmt.Errorf("%w: %w", ErrWriteFailure, errors.Join(err, ignoreNotExist(removeErr)))
	}

	return nil
}

func writeTemp(tmp *os.File, data []byte) error {
	_, err := tmp.Write(data)
	if err == nil {
		err = tmp.Chmod(artifactPerm)
	}

	closeErr := tmp.Close()
	if err != nil {
		return err
	}

	return closeErr
}

func ignoreNotExist(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return err
}
