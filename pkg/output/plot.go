package output

import (
	"fmt"
	"io"
	"math"
	"slices"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Sumatoshi-tech/benchratio/pkg/catalog"
	"github.com/Sumatoshi-tech/benchratio/pkg/compare"
)

const (
	defaultPlotTitle = "Storage driver ratios"
	chartWidth       = "100%"
	chartHeight      = "480px"
	labelFontSize    = 10
	labelRotate      = 30
	chartIDPrefix    = "heatmap"

	// Heatmap color scale is centered on parity.
	visualMapMax = 2
)

// Chart palette, stone neutrals with a red-to-green ratio scale.
const (
	chartText      = "#44403c"
	chartTextMuted = "#78716c"
	chartAxis      = "#a8a29e"
	colorBehind    = "#dc2626"
	colorParity    = "#fafaf9"
	colorAhead     = "#16a34a"
)

// writePlot renders an HTML page with one heatmap per action and ratio:
// block sizes on x, file sizes on y, the ratio as cell value.
func writePlot(w io.Writer, res *compare.Result, opts Options) error {
	title := opts.Title
	if title == "" {
		title = defaultPlotTitle
	}

	page := components.NewPage()
	page.PageTitle = title

	for _, action := range res.Actions() {
		for _, name := range res.RatioNames() {
			chartID := fmt.Sprintf("%s%d", chartIDPrefix, len(page.Charts))
			page.AddCharts(ratioHeatMap(res, action, name, chartID))
		}
	}

	err := page.Render(w)
	if err != nil {
		return fmt.Errorf("render plot: %w", err)
	}

	return nil
}

// ratioHeatMap builds one chart. chartID replaces the random element id
// go-echarts would assign, so identical results render identical pages.
func ratioHeatMap(res *compare.Result, action catalog.Action, ratioName, chartID string) *charts.HeatMap {
	fileSizes := res.FileSizes(action)
	slices.Sort(fileSizes)

	blockSizes := make([]int64, 0)
	for _, fs := range fileSizes {
		for _, bs := range res.BlockSizes(action, fs) {
			blockSizes = append(blockSizes, int64(bs))
		}
	}

	slices.Sort(blockSizes)
	blockSizes = slices.Compact(blockSizes)

	blockIndex := make(map[int64]int, len(blockSizes))
	blockLabels := make([]string, 0, len(blockSizes))

	for i, bs := range blockSizes {
		blockIndex[bs] = i
		blockLabels = append(blockLabels, sizeLabel(bs))
	}

	fileLabels := make([]string, 0, len(fileSizes))
	data := make([]opts.HeatMapData, 0)

	for y, fs := range fileSizes {
		fileLabels = append(fileLabels, sizeLabel(int64(fs)))

		for _, bs := range res.BlockSizes(action, fs) {
			entry, ok := res.Entry(action, fs, bs)
			if !ok {
				continue
			}

			v, _ := entry.Ratio(ratioName)
			data = append(data, opts.HeatMapData{Value: []any{blockIndex[int64(bs)], y, roundRatio(v)}})
		}
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{ChartID: chartID, Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{
			Title:         string(action),
			Subtitle:      ratioName,
			Left:          "center",
			TitleStyle:    &opts.TextStyle{Color: chartText},
			SubtitleStyle: &opts.TextStyle{Color: chartTextMuted},
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "block size", Type: "category", Data: blockLabels,
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
			AxisLabel: &opts.AxisLabel{Rotate: labelRotate, Interval: "0", FontSize: labelFontSize, Color: chartTextMuted},
			AxisLine:  &opts.AxisLine{LineStyle: &opts.LineStyle{Color: chartAxis}},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "file size", Type: "category", Data: fileLabels,
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
			AxisLabel: &opts.AxisLabel{FontSize: labelFontSize, Color: chartTextMuted},
			AxisLine:  &opts.AxisLine{LineStyle: &opts.LineStyle{Color: chartAxis}},
		}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true), Min: 0, Max: visualMapMax,
			InRange: &opts.VisualMapInRange{Color: []string{colorBehind, colorParity, colorAhead}},
			Orient:  "horizontal", Left: "center", Bottom: "2%",
			TextStyle: &opts.TextStyle{Color: chartTextMuted},
		}),
		charts.WithGridOpts(opts.Grid{Left: "10%", Right: "5%", Top: "60", Bottom: "20%"}),
	)
	hm.AddSeries(ratioName, data, charts.WithLabelOpts(opts.Label{
		Show: opts.Bool(true), Position: "inside", FontSize: labelFontSize,
	}))

	return hm
}

func roundRatio(v float64) float64 {
	scale := math.Pow10(ratioPrecision)

	return math.Round(v*scale) / scale
}
