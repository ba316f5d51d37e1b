// Package report parses tabular benchmark reports into a two-level lookup of
// file size -> block size -> measurement.
package report

import "slices"

// FileSize is the row key of a report.
type FileSize int64

// BlockSize is the column key of a report.
type BlockSize int64

// Measurement is a single sample at a (FileSize, BlockSize) coordinate.
type Measurement int64

// Report is one parsed input file. It is read-only once Parse returns.
type Report struct {
	// Header is the title line, quote-stripped.
	Header string

	blockSizes []BlockSize
	// columns maps a block size to its value index. A repeated block size
	// resolves to its last column.
	columns   map[BlockSize]int
	fileSizes []FileSize
	rows      map[FileSize][]Measurement
}

// BlockSizes returns the column keys in file order.
func (r *Report) BlockSizes() []BlockSize {
	return slices.Clone(r.blockSizes)
}

// FileSizes returns the row keys in the order they first appeared.
func (r *Report) FileSizes() []FileSize {
	return slices.Clone(r.fileSizes)
}

// Row returns a copy of a row's measurements in column order, one per
// entry of BlockSizes.
func (r *Report) Row(fs FileSize) ([]Measurement, bool) {
	row, ok := r.rows[fs]
	if !ok {
		return nil, false
	}

	return slices.Clone(row), true
}

// Measurement returns the value at a coordinate.
func (r *Report) Measurement(fs FileSize, bs BlockSize) (Measurement, bool) {
	row, ok := r.rows[fs]
	if !ok {
		return 0, false
	}

	col, ok := r.columns[bs]
	if !ok {
		return 0, false
	}

	return row[col], true
}

// Len returns the number of data rows.
func (r *Report) Len() int {
	return len(r.fileSizes)
}
