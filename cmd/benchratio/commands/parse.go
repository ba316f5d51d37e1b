package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/benchratio/pkg/report"
	"github.com/Sumatoshi-tech/benchratio/pkg/store"
)

// ErrUnsupportedParseFormat indicates a parse output format other than json or yaml.
var ErrUnsupportedParseFormat = errors.New("parse supports json and yaml output")

const yamlIndent = 2

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "parse <report>",
		Short: "Parse one report and print it",
		Long: `Parse a single tabular report (plain or .lz4) and print its header, block
sizes and rows. Useful to check what the comparison will see.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args[0], format)
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "output format: json or yaml")

	return cmd
}

func runParse(cmd *cobra.Command, path, format string) error {
	data, err := store.ReadFile(path)
	if err != nil {
		return err
	}

	rep, err := report.Parse(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	doc := rep.Document()
	out := cmd.OutOrStdout()

	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")

		err = enc.Encode(doc)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(yamlIndent)

		err = enc.Encode(doc)
		if err == nil {
			err = enc.Close()
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedParseFormat, format)
	}

	if err != nil {
		return fmt.Errorf("write %s: %w", format, err)
	}

	return nil
}
