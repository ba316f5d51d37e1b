package output

import (
	"fmt"
	"io"
	"slices"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Sumatoshi-tech/benchratio/pkg/catalog"
	"github.com/Sumatoshi-tech/benchratio/pkg/compare"
	"github.com/Sumatoshi-tech/benchratio/pkg/report"
)

const ratioPrecision = 3

// ratioPainter colors a ratio by which side of parity it falls on.
type ratioPainter struct {
	ahead  *color.Color
	behind *color.Color
	none   *color.Color
}

func newRatioPainter(enabled bool) ratioPainter {
	p := ratioPainter{
		ahead:  color.New(color.FgGreen),
		behind: color.New(color.FgRed),
		none:   color.New(color.Faint),
	}

	for _, c := range []*color.Color{p.ahead, p.behind, p.none} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return p
}

func (p ratioPainter) paint(v float64) string {
	s := fmt.Sprintf("%.*f", ratioPrecision, v)

	switch {
	case v == 0:
		return p.none.Sprint(s)
	case v > 1:
		return p.ahead.Sprint(s)
	case v < 1:
		return p.behind.Sprint(s)
	default:
		return s
	}
}

// writeText renders one table per action with rows in numeric size order.
func writeText(w io.Writer, res *compare.Result, opts Options) error {
	painter := newRatioPainter(opts.Color)
	categories := res.Plan().Categories()
	ratioNames := res.RatioNames()

	for i, action := range res.Actions() {
		if i > 0 {
			_, err := fmt.Fprintln(w)
			if err != nil {
				return fmt.Errorf("write text: %w", err)
			}
		}

		tbl := actionTable(res, action, categories, ratioNames, painter)

		_, err := fmt.Fprintln(w, tbl.Render())
		if err != nil {
			return fmt.Errorf("write text: %w", err)
		}
	}

	return nil
}

func actionTable(
	res *compare.Result, action catalog.Action, categories []catalog.Category,
	ratioNames []string, painter ratioPainter,
) table.Writer {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.SetTitle(string(action))

	header := table.Row{"File size", "Block size"}
	for _, c := range categories {
		header = append(header, string(c))
	}

	for _, name := range ratioNames {
		header = append(header, name)
	}

	tbl.AppendHeader(header)

	fileSizes := res.FileSizes(action)
	slices.Sort(fileSizes)

	for _, fs := range fileSizes {
		blockSizes := res.BlockSizes(action, fs)
		slices.Sort(blockSizes)

		for _, bs := range blockSizes {
			entry, ok := res.Entry(action, fs, bs)
			if !ok {
				continue
			}

			tbl.AppendRow(entryRow(fs, bs, entry, categories, ratioNames, painter))
		}
	}

	return tbl
}

func entryRow(
	fs report.FileSize, bs report.BlockSize, entry compare.Entry,
	categories []catalog.Category, ratioNames []string, painter ratioPainter,
) table.Row {
	row := table.Row{sizeLabel(int64(fs)), sizeLabel(int64(bs))}

	for _, c := range categories {
		v, _ := entry.Value(c)
		row = append(row, humanize.Comma(int64(v)))
	}

	for _, name := range ratioNames {
		v, _ := entry.Ratio(name)
		row = append(row, painter.paint(v))
	}

	return row
}

func sizeLabel(n int64) string {
	if n < 0 {
		return humanize.Comma(n)
	}

	return humanize.IBytes(uint64(n))
}
