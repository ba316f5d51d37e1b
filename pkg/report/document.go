package report

// Document is a serializable view of a report: rows in file order, each
// holding its values exactly as the columns appeared.
type Document struct {
	Header     string        `json:"header"      yaml:"header"`
	BlockSizes []BlockSize   `json:"block_sizes" yaml:"block_sizes"`
	Rows       []DocumentRow `json:"rows"        yaml:"rows"`
}

// DocumentRow is one data row of a Document.
type DocumentRow struct {
	FileSize FileSize      `json:"file_size" yaml:"file_size"`
	Values   []Measurement `json:"values"    yaml:"values,flow"`
}

// Document builds the serializable view of r.
func (r *Report) Document() Document {
	doc := Document{
		Header:     r.Header,
		BlockSizes: r.BlockSizes(),
		Rows:       make([]DocumentRow, 0, len(r.fileSizes)),
	}

	for _, fs := range r.fileSizes {
		values, _ := r.Row(fs)
		doc.Rows = append(doc.Rows, DocumentRow{FileSize: fs, Values: values})
	}

	return doc
}
