package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/benchratio/pkg/catalog"
	"github.com/Sumatoshi-tech/benchratio/pkg/compare"
	"github.com/Sumatoshi-tech/benchratio/pkg/framework"
	"github.com/Sumatoshi-tech/benchratio/pkg/observability"
	"github.com/Sumatoshi-tech/benchratio/pkg/output"
	"github.com/Sumatoshi-tech/benchratio/pkg/report"
	"github.com/Sumatoshi-tech/benchratio/pkg/store"
)

// Tool names.
const (
	ToolNameCompare = "benchratio_compare"
	ToolNameParse   = "benchratio_parse"
)

// MaxReportInputBytes caps inline report text (1 MB).
const MaxReportInputBytes = 1 << 20

// Sentinel errors for tool input validation.
var (
	// ErrEmptyDataDir indicates the data_dir parameter is empty.
	ErrEmptyDataDir = errors.New("data_dir parameter is required and must not be empty")
	// ErrDataDirNotAbsolute indicates data_dir is a relative path.
	ErrDataDirNotAbsolute = errors.New("data_dir must be an absolute path")
	// ErrDataDirNotFound indicates data_dir does not exist or is not a directory.
	ErrDataDirNotFound = errors.New("data_dir does not exist or is not a directory")
	// ErrEmptyReport indicates the text parameter is empty.
	ErrEmptyReport = errors.New("text parameter is required and must not be empty")
	// ErrReportTooLarge indicates the inline report exceeds MaxReportInputBytes.
	ErrReportTooLarge = errors.New("report input exceeds maximum size")
)

// CompareInput is the input schema of benchratio_compare.
type CompareInput struct {
	Actions  []string `json:"actions,omitempty"  jsonschema:"actions to compare (default: all 13 iozone actions)"`
	Compared []string `json:"compared,omitempty" jsonschema:"categories divided into the driver (default: nfsv4 filestore)"`
	DataDir  string   `json:"data_dir"           jsonschema:"absolute path holding one directory per category"`
	Driver   string   `json:"driver,omitempty"   jsonschema:"driver category, the ratio numerator (default: netapp)"`
	Format   string   `json:"format,omitempty"   jsonschema:"result format: json yaml text or prom (default: json)"`
}

// ParseInput is the input schema of benchratio_parse.
type ParseInput struct {
	Text string `json:"text" jsonschema:"full report text: header line, block size line, data rows"`
}

// ToolOutput is the structured output of every tool. Error holds the
// failure kind of a failed call.
type ToolOutput struct {
	Data  any    `json:"data"`
	Error string `json:"error,omitempty"`
}

// CompareSummary is the structured output of benchratio_compare.
type CompareSummary struct {
	Reports          int      `json:"reports"`
	Entries          int      `json:"entries"`
	ZeroDenominators int      `json:"zero_denominators"`
	RatioNames       []string `json:"ratio_names"`
}

func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: err.Error()}},
		IsError: true,
	}, ToolOutput{Error: errorKind(err)}, nil
}

// errorKind maps err onto one of the observability failure kinds.
func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrEmptyDataDir), errors.Is(err, ErrDataDirNotAbsolute),
		errors.Is(err, ErrDataDirNotFound), errors.Is(err, ErrEmptyReport),
		errors.Is(err, ErrReportTooLarge), errors.Is(err, output.ErrUnknownFormat):
		return observability.FailureInvalidInput
	case errors.Is(err, store.ErrSourceNotFound):
		return observability.FailureSourceNotFound
	case errors.Is(err, report.ErrMalformedReport):
		return observability.FailureMalformedReport
	case errors.Is(err, compare.ErrJoinKeyMissing):
		return observability.FailureJoinKeyMissing
	case errors.Is(err, compare.ErrInvalidPlan), errors.Is(err, catalog.ErrUnknownCategory),
		errors.Is(err, catalog.ErrNoActions), errors.Is(err, catalog.ErrDuplicateAction),
		errors.Is(err, catalog.ErrEmptyName):
		return observability.FailureInvalidPlan
	default:
		return observability.FailureInternal
	}
}

func textResult(text string, data any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: text}},
	}, ToolOutput{Data: data}, nil
}

func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return textResult(string(data), value)
}

func (s *Server) handleCompare(
	ctx context.Context, _ *mcpsdk.CallToolRequest, input CompareInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	err := validateDataDir(input.DataDir)
	if err != nil {
		return errorResult(err)
	}

	format := output.FormatJSON
	if input.Format != "" {
		format, err = output.ParseFormat(input.Format)
		if err != nil {
			return errorResult(err)
		}
	}

	cat, plan, err := compareSetup(input)
	if err != nil {
		return errorResult(err)
	}

	runner := framework.NewRunner(framework.Config{
		Catalog: cat,
		Plan:    plan,
		Source:  s.source(input.DataDir, cat),
		Logger:  s.logger,
	})

	res, stats, err := runner.Compare(ctx)
	if err != nil {
		return errorResult(err)
	}

	var buf bytes.Buffer

	err = output.Write(&buf, res, format, output.Options{})
	if err != nil {
		return errorResult(err)
	}

	return textResult(buf.String(), CompareSummary{
		Reports:          stats.Reports,
		Entries:          stats.Entries,
		ZeroDenominators: stats.ZeroDenominators,
		RatioNames:       res.RatioNames(),
	})
}

func (s *Server) source(dataDir string, cat catalog.Catalog) store.Source {
	dir := store.NewDirSource(dataDir, cat)
	if s.cache == nil {
		return dir
	}

	return store.NewCachedSource(dir, s.cache)
}

func (s *Server) handleParse(
	_ context.Context, _ *mcpsdk.CallToolRequest, input ParseInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if input.Text == "" {
		return errorResult(ErrEmptyReport)
	}

	if len(input.Text) > MaxReportInputBytes {
		return errorResult(fmt.Errorf("%w: %d bytes (max %d)", ErrReportTooLarge, len(input.Text), MaxReportInputBytes))
	}

	rep, err := report.ParseString(input.Text)
	if err != nil {
		return errorResult(err)
	}

	return jsonResult(rep.Document())
}

func validateDataDir(dir string) error {
	if dir == "" {
		return ErrEmptyDataDir
	}

	if !filepath.IsAbs(dir) {
		return fmt.Errorf("%w: %s", ErrDataDirNotAbsolute, dir)
	}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrDataDirNotFound, dir)
	}

	return nil
}

func compareSetup(input CompareInput) (catalog.Catalog, compare.Plan, error) {
	cat := catalog.Default()

	if len(input.Actions) > 0 {
		cat.Actions = make([]catalog.Action, 0, len(input.Actions))
		for _, a := range input.Actions {
			cat.Actions = append(cat.Actions, catalog.Action(a))
		}
	}

	err := cat.Validate()
	if err != nil {
		return catalog.Catalog{}, compare.Plan{}, fmt.Errorf("catalog: %w", err)
	}

	plan := compare.DefaultPlan()

	if input.Driver != "" {
		plan.Driver = catalog.Category(input.Driver)
	}

	if len(input.Compared) > 0 {
		plan.Compared = make([]catalog.Category, 0, len(input.Compared))
		for _, c := range input.Compared {
			plan.Compared = append(plan.Compared, catalog.Category(c))
		}
	}

	for _, c := range plan.Categories() {
		if !cat.Has(c) {
			return catalog.Catalog{}, compare.Plan{}, fmt.Errorf("%w: %s", catalog.ErrUnknownCategory, c)
		}
	}

	return cat, plan, nil
}
