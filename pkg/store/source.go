package store

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pierrec/lz4/v4"

	"github.com/Sumatoshi-tech/benchratio/pkg/catalog"
)

const (
	// ReportExt is the extension of plain tabular reports.
	ReportExt = ".tsv"
	// CompressedExt is appended to ReportExt for LZ4-framed reports.
	CompressedExt = ".lz4"
)

// ErrSourceNotFound indicates a declared report is missing or unreadable.
var ErrSourceNotFound = errors.New("report source not found")

// Source resolves a (category, action) pair to raw report text.
type Source interface {
	Read(category catalog.Category, action catalog.Action) ([]byte, error)
}

// DirSource reads reports laid out as <Root>/<category>/<prefix>-<action>.tsv.
// A missing plain file falls back to the same path with a .lz4 suffix.
type DirSource struct {
	Root    string
	Catalog catalog.Catalog
}

// NewDirSource creates a DirSource rooted at dir.
func NewDirSource(dir string, cat catalog.Catalog) *DirSource {
	return &DirSource{Root: dir, Catalog: cat}
}

// Path returns the plain report path for a category and action.
func (d *DirSource) Path(category catalog.Category, action catalog.Action) (string, error) {
	prefix, err := d.Catalog.Prefix(category)
	if err != nil {
		return "", err
	}

	return filepath.Join(d.Root, string(category), catalog.ReportName(prefix, action)+ReportExt), nil
}

// Read implements Source.
func (d *DirSource) Read(category catalog.Category, action catalog.Action) ([]byte, error) {
	path, err := d.Path(category, action)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceNotFound, err)
	}

	data, readErr := os.ReadFile(path)
	if readErr == nil {
		return data, nil
	}

	if !errors.Is(readErr, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %w", ErrSourceNotFound, readErr)
	}

	data, lzErr := readCompressed(path + CompressedExt)
	if lzErr != nil {
		if errors.Is(lzErr, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}

		return nil, fmt.Errorf("%w: %w", ErrSourceNotFound, lzErr)
	}

	return data, nil
}

// ReadFile reads one report file, decompressing it when the name ends in
// CompressedExt.
func ReadFile(path string) ([]byte, error) {
	if strings.HasSuffix(path, CompressedExt) {
		return readCompressed(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}

	return data, nil
}

func readCompressed(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	defer f.Close()

	data, err := io.ReadAll(lz4.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("decompress %s: %w", path, err)
	}

	return data, nil
}

type sourceKey struct {
	category catalog.Category
	action   catalog.Action
}

// MemorySource serves report texts held in memory.
type MemorySource struct {
	texts map[sourceKey]string
}

// NewMemorySource creates an empty MemorySource.
func NewMemorySource() *MemorySource {
	return &MemorySource{texts: make(map[sourceKey]string)}
}

// Put registers the text of one report and returns the source for chaining.
func (m *MemorySource) Put(category catalog.Category, action catalog.Action, text string) *MemorySource {
	m.texts[sourceKey{category: category, action: action}] = text

	return m
}

// Read implements Source.
func (m *MemorySource) Read(category catalog.Category, action catalog.Action) ([]byte, error) {
	text, ok := m.texts[sourceKey{category: category, action: action}]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrSourceNotFound, category, action)
	}

	return []byte(text), nil
}
