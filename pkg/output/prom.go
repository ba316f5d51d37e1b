package output

import (
	"fmt"
	"io"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/Sumatoshi-tech/benchratio/pkg/compare"
)

const metricNamespace = "benchratio"

// writeProm emits the result in the Prometheus text exposition format, one
// gauge sample per ratio and per raw measurement.
func writeProm(w io.Writer, res *compare.Result) error {
	reg := prometheus.NewRegistry()

	ratios := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: metricNamespace,
		Name:      "ratio",
		Help:      "Throughput ratio between storage categories.",
	}, []string{"action", "file_size", "block_size", "ratio"})

	measurements := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: metricNamespace,
		Name:      "measurement",
		Help:      "Raw benchmark measurement of a storage category.",
	}, []string{"action", "file_size", "block_size", "category"})

	err := reg.Register(ratios)
	if err != nil {
		return fmt.Errorf("register ratio gauge: %w", err)
	}

	err = reg.Register(measurements)
	if err != nil {
		return fmt.Errorf("register measurement gauge: %w", err)
	}

	for _, action := range res.Actions() {
		for _, fs := range res.FileSizes(action) {
			for _, bs := range res.BlockSizes(action, fs) {
				entry, ok := res.Entry(action, fs, bs)
				if !ok {
					continue
				}

				fsLabel := strconv.FormatInt(int64(fs), 10)
				bsLabel := strconv.FormatInt(int64(bs), 10)

				for _, r := range entry.Ratios {
					ratios.WithLabelValues(string(action), fsLabel, bsLabel, r.Name).Set(r.Value)
				}

				for _, v := range entry.Values {
					measurements.WithLabelValues(string(action), fsLabel, bsLabel, string(v.Category)).Set(float64(v.Measurement))
				}
			}
		}
	}

	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	for _, mf := range families {
		_, writeErr := expfmt.MetricFamilyToText(w, mf)
		if writeErr != nil {
			return fmt.Errorf("write metrics: %w", writeErr)
		}
	}

	return nil
}
