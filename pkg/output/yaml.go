package output

import (
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/benchratio/pkg/report"
)

const yamlIndent = 2

// writeYAML mirrors the JSON layout. Keys are tagged as strings so numeric
// sizes stay quoted and keep their lexicographic order.
func writeYAML(w io.Writer, root *object) error {
	doc := &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{yamlNode(root)}}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(yamlIndent)

	err := enc.Encode(doc)
	if err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}

	err = enc.Close()
	if err != nil {
		return fmt.Errorf("close yaml encoder: %w", err)
	}

	return nil
}

func yamlNode(value any) *yaml.Node {
	switch v := value.(type) {
	case *object:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, m := range v.members {
			key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: m.key}
			node.Content = append(node.Content, key, yamlNode(m.value))
		}

		return node
	case report.Measurement:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(int64(v), 10)}
	case float64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: FormatFloat(v)}
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}
